// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clipping

import (
	"image"
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimscape/bimscape/render"
	"github.com/bimscape/bimscape/scene"
)

func newController() (*Controller, *render.Software) {
	sw := render.NewSoftware(image.Pt(10, 10))
	sc := scene.NewScene("test")
	return New(sw, sc), sw
}

func TestSectionPlaneAnalytic(t *testing.T) {
	sp := &SectionPlane{
		Anchor: math32.Vec3(0, 5, 0),
		Normal: math32.Vec3(0, 2, 0), // non-unit on purpose
	}
	pl := sp.Plane()
	tolassert.EqualTol(t, 1, pl.Norm.Y, 1e-6)
	tolassert.EqualTol(t, -5, pl.Off, 1e-6)

	// points above the plane are kept, below are cut
	assert.Greater(t, pl.DistanceToPoint(math32.Vec3(0, 6, 0)), float32(0))
	assert.Less(t, pl.DistanceToPoint(math32.Vec3(0, 4, 0)), float32(0))
}

func TestAddRemovePlane(t *testing.T) {
	cc, sw := newController()

	sp := cc.AddPlane(Config{Normal: math32.Vec3(0, 1, 0)})
	require.NotNil(t, sp)
	assert.NotEmpty(t, sp.ID)
	assert.True(t, sp.Enabled)
	assert.Len(t, sw.ClipPlanes(), 1)

	// ids are unique across adds
	sp2 := cc.AddPlane(Config{Normal: math32.Vec3(1, 0, 0)})
	assert.NotEqual(t, sp.ID, sp2.ID)
	assert.Len(t, sw.ClipPlanes(), 2)

	assert.True(t, cc.RemovePlane(sp.ID))
	assert.Len(t, sw.ClipPlanes(), 1)
	assert.False(t, cc.RemovePlane(sp.ID))
	assert.Nil(t, cc.Plane(sp.ID))
}

func TestEnableDisable(t *testing.T) {
	cc, sw := newController()
	sp := cc.AddPlane(Config{ID: "p1", Normal: math32.Vec3(0, 1, 0)})

	// the renderer's list tracks every toggle immediately
	assert.True(t, cc.SetEnabled("p1", false))
	assert.Empty(t, sw.ClipPlanes())
	assert.False(t, sp.Enabled)

	assert.True(t, cc.SetEnabled("p1", true))
	assert.Len(t, sw.ClipPlanes(), 1)

	assert.False(t, cc.SetEnabled("missing", true))

	// disabled planes are retained, not deleted
	cc.SetEnabled("p1", false)
	assert.NotNil(t, cc.Plane("p1"))
	assert.Len(t, cc.Planes(), 1)
}

func TestUpdatePlane(t *testing.T) {
	cc, sw := newController()
	cc.AddPlane(Config{ID: "p1", Anchor: math32.Vec3(0, 0, 0), Normal: math32.Vec3(0, 1, 0)})

	require.True(t, cc.UpdatePosition("p1", math32.Vec3(0, 3, 0)))
	tolassert.EqualTol(t, -3, sw.ClipPlanes()[0].Off, 1e-6)

	require.True(t, cc.UpdateNormal("p1", math32.Vec3(0, 0, 1)))
	tolassert.EqualTol(t, 1, sw.ClipPlanes()[0].Norm.Z, 1e-6)

	// a zero normal is rejected, leaving the plane as it was
	assert.False(t, cc.UpdateNormal("p1", math32.Vector3{}))
	tolassert.EqualTol(t, 1, sw.ClipPlanes()[0].Norm.Z, 1e-6)
}

func TestPresetPlanes(t *testing.T) {
	cc, sw := newController()

	sp := cc.CreatePreset("down", NegY, 5)
	require.NotNil(t, sp)
	pl := sp.Plane()
	tolassert.EqualTol(t, -1, pl.Norm.Y, 1e-6)
	// keeps everything below y=5
	assert.Greater(t, pl.DistanceToPoint(math32.Vec3(0, 0, 0)), float32(0))
	assert.Less(t, pl.DistanceToPoint(math32.Vec3(0, 6, 0)), float32(0))

	for _, ax := range []Axis{PosX, NegX, PosY, PosZ, NegZ} {
		cc.CreatePreset(string(ax), ax, 0)
	}
	assert.Len(t, sw.ClipPlanes(), 6)
}

func TestHelperLifecycle(t *testing.T) {
	sw := render.NewSoftware(image.Pt(10, 10))
	sc := scene.NewScene("test")
	cc := New(sw, sc)

	sp := cc.AddPlane(Config{ID: "p1", Normal: math32.Vec3(0, 1, 0), Helper: true})
	require.NotNil(t, sp.Helper())
	assert.True(t, sp.HelperVisible)
	assert.False(t, sp.Helper().Selectable)

	// helpers live in a dedicated non-selectable group
	gp := sp.Helper().Parent
	require.NotNil(t, gp)
	assert.Equal(t, helperGroupName, gp.Name)
	assert.False(t, gp.Selectable)

	assert.True(t, cc.SetHelperVisible("p1", false))
	assert.False(t, sp.Helper().Visible)

	// removal detaches the helper from the scene
	cc.RemovePlane("p1")
	assert.Empty(t, gp.Children)
}

func TestClearAll(t *testing.T) {
	sc := scene.NewScene("test")
	sw := render.NewSoftware(image.Pt(10, 10))
	cc := New(sw, sc)

	cc.AddPlane(Config{ID: "a", Normal: math32.Vec3(1, 0, 0), Helper: true})
	cc.AddPlane(Config{ID: "b", Normal: math32.Vec3(0, 1, 0)})
	require.Len(t, sw.ClipPlanes(), 2)

	cc.ClearAll()
	assert.Empty(t, sw.ClipPlanes())
	assert.Empty(t, cc.Planes())

	// clearing again is harmless
	cc.ClearAll()
	assert.Empty(t, sw.ClipPlanes())
}
