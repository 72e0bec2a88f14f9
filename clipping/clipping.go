// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clipping owns the named set of section planes and
// republishes the enabled subset into the renderer's global clip state
// on every mutation, so the renderer never observes a stale list.
package clipping

import (
	"image/color"

	"cogentcore.org/core/base/ordmap"
	"cogentcore.org/core/math32"
	"github.com/google/uuid"

	"github.com/bimscape/bimscape/render"
	"github.com/bimscape/bimscape/scene"
)

// DefaultHelperSize is the edge length of helper quads when the
// controller has no explicit size configured.
const DefaultHelperSize float32 = 10

// helperGroupName is the scene group holding all helper visuals.
const helperGroupName = "section-planes"

// SectionPlane is one named section plane: an anchor point and normal
// vector defining the analytic plane, an enabled flag, and an optional
// helper visual. The analytic plane is derived on demand, never
// cached, so it cannot drift from its inputs.
type SectionPlane struct {
	// ID is the unique plane identifier.
	ID string

	// Anchor is a point on the plane.
	Anchor math32.Vector3

	// Normal is the plane normal; need not be unit length.
	Normal math32.Vector3

	// Enabled controls whether the plane participates in clipping.
	Enabled bool

	// HelperVisible controls the helper visual's visibility.
	HelperVisible bool

	helper *scene.Node
}

// Plane returns the analytic plane: unit normal plus signed distance
// constant = -anchor·normal, recomputed from the current anchor and
// normal every call.
func (sp *SectionPlane) Plane() math32.Plane {
	n := sp.Normal
	if n.Length() == 0 {
		n = math32.Vec3(1, 0, 0)
	}
	n = n.Normal()
	return math32.Plane{Norm: n, Off: -sp.Anchor.Dot(n)}
}

// Helper returns the plane's helper visual node, or nil.
func (sp *SectionPlane) Helper() *scene.Node { return sp.helper }

// Config configures one added plane.
type Config struct {
	// ID is the plane id; empty generates one.
	ID string

	// Anchor is a point on the plane.
	Anchor math32.Vector3

	// Normal is the plane normal; zero defaults to +X.
	Normal math32.Vector3

	// Disabled adds the plane without it participating in clipping.
	Disabled bool

	// Helper requests a helper visual for the plane.
	Helper bool
}

// Controller is the authoritative owner of all section planes,
// enabled or not. Every mutation republishes the enabled subset to
// the renderer. Helper visuals are owned 1:1 and disposed
// deterministically on plane removal.
type Controller struct {
	// Renderer receives the enabled plane list. May be nil, in which
	// case mutations only maintain the plane set.
	Renderer render.Renderer

	// Scene hosts the helper visuals. May be nil to disable helpers.
	Scene *scene.Scene

	// HelperSize is the edge length of helper quads.
	HelperSize float32

	planes ordmap.Map[string, *SectionPlane]
}

// New returns a controller publishing to the given renderer and
// hosting helpers in the given scene.
func New(r render.Renderer, sc *scene.Scene) *Controller {
	return &Controller{Renderer: r, Scene: sc, HelperSize: DefaultHelperSize}
}

// AddPlane adds a section plane and republishes. A generated id is
// assigned when the config has none; an existing id is replaced,
// disposing the old helper first.
func (cc *Controller) AddPlane(cfg Config) *SectionPlane {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	if old, ok := cc.planes.ValueByKeyTry(id); ok {
		cc.disposeHelper(old)
		cc.planes.DeleteKey(id)
	}
	normal := cfg.Normal
	if normal.Length() == 0 {
		normal = math32.Vec3(1, 0, 0)
	}
	sp := &SectionPlane{
		ID:      id,
		Anchor:  cfg.Anchor,
		Normal:  normal,
		Enabled: !cfg.Disabled,
	}
	if cfg.Helper {
		cc.makeHelper(sp)
	}
	cc.planes.Add(id, sp)
	cc.republish()
	return sp
}

// RemovePlane removes the plane and disposes its helper, returning
// false if the id is unknown. Republishes on success.
func (cc *Controller) RemovePlane(id string) bool {
	sp, ok := cc.planes.ValueByKeyTry(id)
	if !ok {
		return false
	}
	cc.disposeHelper(sp)
	cc.planes.DeleteKey(id)
	cc.republish()
	return true
}

// UpdatePosition moves the plane's anchor point and republishes.
func (cc *Controller) UpdatePosition(id string, anchor math32.Vector3) bool {
	sp, ok := cc.planes.ValueByKeyTry(id)
	if !ok {
		return false
	}
	sp.Anchor = anchor
	cc.updateHelper(sp)
	cc.republish()
	return true
}

// UpdateNormal reorients the plane and republishes. A zero normal is
// ignored.
func (cc *Controller) UpdateNormal(id string, normal math32.Vector3) bool {
	sp, ok := cc.planes.ValueByKeyTry(id)
	if !ok || normal.Length() == 0 {
		return false
	}
	sp.Normal = normal
	cc.updateHelper(sp)
	cc.republish()
	return true
}

// SetEnabled toggles the plane's participation in clipping and
// republishes.
func (cc *Controller) SetEnabled(id string, enabled bool) bool {
	sp, ok := cc.planes.ValueByKeyTry(id)
	if !ok {
		return false
	}
	sp.Enabled = enabled
	cc.republish()
	return true
}

// SetHelperVisible shows or hides the plane's helper visual.
func (cc *Controller) SetHelperVisible(id string, visible bool) bool {
	sp, ok := cc.planes.ValueByKeyTry(id)
	if !ok {
		return false
	}
	sp.HelperVisible = visible
	if sp.helper != nil {
		sp.helper.Visible = visible
	}
	return true
}

// Plane returns the section plane with the given id, or nil.
func (cc *Controller) Plane(id string) *SectionPlane {
	sp, _ := cc.planes.ValueByKeyTry(id)
	return sp
}

// Planes returns all planes, enabled or not, in insertion order.
func (cc *Controller) Planes() []*SectionPlane {
	return cc.planes.Values()
}

// EnabledPlanes returns the analytic planes of the enabled subset, in
// insertion order: exactly what the renderer currently observes.
func (cc *Controller) EnabledPlanes() []math32.Plane {
	var pls []math32.Plane
	for _, sp := range cc.planes.Values() {
		if sp.Enabled {
			pls = append(pls, sp.Plane())
		}
	}
	return pls
}

// Axis identifies an axis-aligned preset plane orientation.
type Axis string

const (
	PosX Axis = "+x"
	NegX Axis = "-x"
	PosY Axis = "+y"
	NegY Axis = "-y"
	PosZ Axis = "+z"
	NegZ Axis = "-z"
)

// axisNormal returns the unit normal for a preset axis.
func axisNormal(axis Axis) (math32.Vector3, bool) {
	switch axis {
	case PosX:
		return math32.Vec3(1, 0, 0), true
	case NegX:
		return math32.Vec3(-1, 0, 0), true
	case PosY:
		return math32.Vec3(0, 1, 0), true
	case NegY:
		return math32.Vec3(0, -1, 0), true
	case PosZ:
		return math32.Vec3(0, 0, 1), true
	case NegZ:
		return math32.Vec3(0, 0, -1), true
	}
	return math32.Vector3{}, false
}

// CreatePreset adds an axis-aligned section plane anchored offset
// units along the axis, keeping the half-space behind the normal's
// origin side. Returns nil for an unknown axis.
func (cc *Controller) CreatePreset(id string, axis Axis, offset float32) *SectionPlane {
	n, ok := axisNormal(axis)
	if !ok {
		return nil
	}
	// the anchor sits at the offset coordinate on the axis line,
	// independent of which way the normal points
	anchor := math32.Vec3(math32.Abs(n.X), math32.Abs(n.Y), math32.Abs(n.Z)).MulScalar(offset)
	return cc.AddPlane(Config{ID: id, Anchor: anchor, Normal: n})
}

// ClearAll disposes all helpers, empties the plane set, and
// republishes an empty list, fully disabling clipping.
func (cc *Controller) ClearAll() {
	for _, sp := range cc.planes.Values() {
		cc.disposeHelper(sp)
	}
	cc.planes.Reset()
	cc.republish()
}

// republish pushes the enabled subset into the renderer's global clip
// state. Called on every mutation.
func (cc *Controller) republish() {
	if cc.Renderer == nil {
		return
	}
	pls := cc.EnabledPlanes()
	if pls == nil {
		pls = []math32.Plane{}
	}
	cc.Renderer.SetClipPlanes(pls)
}

// makeHelper creates the 1:1 helper quad for the plane.
func (cc *Controller) makeHelper(sp *SectionPlane) {
	if cc.Scene == nil {
		return
	}
	gp := cc.helperGroup()
	hn := gp.NewChild("helper-" + sp.ID)
	hn.Selectable = false
	sz := cc.HelperSize
	if sz <= 0 {
		sz = DefaultHelperSize
	}
	hn.Mesh = scene.NewQuad(hn.Name, sz, sz)
	hn.Material = scene.NewMaterial(color.RGBA{255, 230, 0, 60})
	hn.Material.CullBack = false
	sp.helper = hn
	sp.HelperVisible = true
	cc.updateHelper(sp)
}

// updateHelper re-poses the helper to sit on the plane, facing the
// plane normal.
func (cc *Controller) updateHelper(sp *SectionPlane) {
	if sp.helper == nil {
		return
	}
	sp.helper.Pose.Pos = sp.Anchor
	sp.helper.Pose.Quat = quatFromZTo(sp.Plane().Norm)
	sp.helper.Visible = sp.HelperVisible
	if cc.Scene != nil {
		cc.Scene.UpdateWorld()
	}
}

// disposeHelper removes the helper visual from the scene, leaving no
// dangling node.
func (cc *Controller) disposeHelper(sp *SectionPlane) {
	if sp.helper == nil {
		return
	}
	if p := sp.helper.Parent; p != nil {
		p.DeleteChild(sp.helper)
	}
	sp.helper = nil
}

// helperGroup returns the scene group holding helper visuals,
// creating it on first use.
func (cc *Controller) helperGroup() *scene.Node {
	for _, k := range cc.Scene.Root.Children {
		if k.Name == helperGroupName {
			return k
		}
	}
	gp := cc.Scene.Root.NewChild(helperGroupName)
	gp.Selectable = false
	return gp
}

// quatFromZTo returns the rotation taking +Z to the given unit
// direction.
func quatFromZTo(dir math32.Vector3) math32.Quat {
	z := math32.Vec3(0, 0, 1)
	d := z.Dot(dir)
	switch {
	case d > 0.9999: // already aligned
		q := math32.Quat{}
		q.SetIdentity()
		return q
	case d < -0.9999: // opposite: rotate half turn around X
		return math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), math32.Pi)
	}
	axis := z.Cross(dir).Normal()
	return math32.NewQuatAxisAngle(axis, math32.Acos(d))
}
