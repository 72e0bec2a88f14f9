// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package selector resolves pointer input to a render node via ray
// casting and manages the single-node highlight state.
package selector

import (
	"image"
	"image/color"

	"cogentcore.org/core/math32"

	"github.com/bimscape/bimscape/scene"
	"github.com/bimscape/bimscape/semantic"
)

// DefaultHighlightColor is the shared highlight material color used
// when none is configured.
var DefaultHighlightColor = color.RGBA{255, 153, 0, 255}

// PointerEvent is raw viewport pointer input: the pointer position in
// the host's coordinate space plus the viewport's bounding rectangle
// in that same space. The selector does its own normalization.
type PointerEvent struct {
	// X, Y is the pointer position.
	X, Y float32

	// Rect is the viewport's bounding rectangle.
	Rect image.Rectangle
}

// Result is the outcome of a pick: the hit node with its bound
// element (nil for generic objects), the world intersection point,
// and the surface normal at the hit. A zero Result is a miss.
type Result struct {
	Node    *scene.Node
	Element *semantic.Element
	Point   math32.Vector3
	Normal  math32.Vector3
}

// IsHit returns whether the pick landed on a node.
func (r Result) IsHit() bool { return r.Node != nil }

// Selector picks nodes with rays and swaps the hit node's material
// for one shared highlight material, keeping the original for
// restoration. At most one node is highlighted at any instant, and a
// new pick or clear always restores the previous node's material
// before anything else changes.
type Selector struct {
	// Highlight is the single shared highlight material applied to
	// the selected node. Owned by the selector, never cloned per pick.
	Highlight *scene.Material

	selected *scene.Node
	saved    *scene.Material
}

// New returns a selector with the default highlight material.
func New() *Selector {
	return NewWithColor(DefaultHighlightColor)
}

// NewWithColor returns a selector whose shared highlight material
// uses the given color.
func NewWithColor(clr color.RGBA) *Selector {
	hl := scene.NewMaterial(clr)
	hl.Emissive = color.RGBA{clr.R / 4, clr.G / 4, clr.B / 4, 255}
	return &Selector{Highlight: hl}
}

// Selected returns the currently highlighted node, or nil.
func (sl *Selector) Selected() *scene.Node { return sl.selected }

// Pick casts a ray through the pointer position and selects the
// nearest selectable node it intersects. A miss behaves as an
// explicit deselect and returns an empty result, not an error.
// Operating on a nil scene or camera is a deselect as well.
func (sl *Selector) Pick(ev PointerEvent, cam *scene.Camera, sc *scene.Scene) Result {
	sl.ClearSelection()
	if sc == nil || cam == nil {
		return Result{}
	}
	sz := ev.Rect.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return Result{}
	}
	ndx := (ev.X-float32(ev.Rect.Min.X))/float32(sz.X)*2 - 1
	ndy := -((ev.Y-float32(ev.Rect.Min.Y))/float32(sz.Y)*2 - 1)

	sc.UpdateWorld()
	cam.UpdateMatrix()
	ray := cam.RayFromNDC(ndx, ndy)

	hit := nearestHit(sc, ray)
	if hit.Node == nil {
		return Result{}
	}
	sl.saved = hit.Node.Material
	hit.Node.Material = sl.Highlight
	sl.selected = hit.Node
	return Result{Node: hit.Node, Element: hit.Node.Element, Point: hit.point, Normal: hit.normal}
}

// ClearSelection restores the highlighted node's original material
// and clears the selection. Idempotent.
func (sl *Selector) ClearSelection() {
	if sl.selected == nil {
		return
	}
	sl.selected.Material = sl.saved
	sl.selected = nil
	sl.saved = nil
}

type hit struct {
	Node   *scene.Node
	dist   float32
	point  math32.Vector3
	normal math32.Vector3
}

// nearestHit intersects the ray with every visible, selectable leaf,
// keeping the smallest ray parameter. Bounding boxes gate the
// per-triangle tests. Non-selectable nodes never win regardless of
// proximity.
func nearestHit(sc *scene.Scene, ray math32.Ray) hit {
	best := hit{dist: math32.Infinity}
	sc.Root.WalkDown(func(nd *scene.Node) bool {
		if !nd.Visible {
			return scene.Break
		}
		if !nd.IsLeaf() {
			return scene.Continue
		}
		if !nd.Selectable {
			return scene.Continue
		}
		if _, has := ray.IntersectBox(nd.WorldBBox); !has {
			return scene.Continue
		}
		intersectNode(nd, ray, &best)
		return scene.Continue
	})
	if best.Node == nil {
		return hit{}
	}
	return best
}

func intersectNode(nd *scene.Node, ray math32.Ray, best *hit) {
	ms := nd.Mesh
	for ti := 0; ti < ms.NumTris(); ti++ {
		a, b, c := ms.Tri(ti)
		wa := math32.Vector4FromVector3(a, 1).MulMatrix4(&nd.WorldMatrix).PerspDiv()
		wb := math32.Vector4FromVector3(b, 1).MulMatrix4(&nd.WorldMatrix).PerspDiv()
		wc := math32.Vector4FromVector3(c, 1).MulMatrix4(&nd.WorldMatrix).PerspDiv()
		t, ok := intersectTriangle(ray, wa, wb, wc)
		if !ok || t >= best.dist {
			continue
		}
		n := wc.Sub(wb).Cross(wa.Sub(wb))
		if n.Length() > 0 {
			n = n.Normal()
		}
		best.Node = nd
		best.dist = t
		best.point = ray.Origin.Add(ray.Dir.MulScalar(t))
		best.normal = n
	}
}

// intersectTriangle returns the ray parameter of the intersection of
// the ray with triangle abc, if any, without backface culling
// (architectural surfaces are viewed from both sides).
// Möller-Trumbore.
func intersectTriangle(ray math32.Ray, a, b, c math32.Vector3) (float32, bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := ray.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := ray.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < eps {
		return 0, false
	}
	return t, true
}
