// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package selector

import (
	"image"
	"image/color"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimscape/bimscape/scene"
	"github.com/bimscape/bimscape/semantic"
)

// pickScene has two unit boxes: "near" at the origin and "far" behind
// it on the same view axis, plus an off-axis "side" box.
func pickScene() *scene.Scene {
	sc := scene.NewScene("test")

	near := sc.Root.NewChild("near")
	near.Mesh = scene.NewBox("near", math32.Vec3(1, 1, 1))
	near.Material = scene.NewMaterial(color.RGBA{200, 0, 0, 255})
	near.Element = &semantic.Element{GlobalID: "near-gid", Type: "IfcWall"}

	far := sc.Root.NewChild("far")
	far.Mesh = scene.NewBox("far", math32.Vec3(1, 1, 1))
	far.Material = scene.NewMaterial(color.RGBA{0, 200, 0, 255})
	far.Pose.Pos = math32.Vec3(0, 0, -5)

	side := sc.Root.NewChild("side")
	side.Mesh = scene.NewBox("side", math32.Vec3(1, 1, 1))
	side.Material = scene.NewMaterial(color.RGBA{0, 0, 200, 255})
	side.Pose.Pos = math32.Vec3(3, 0, 0)

	sc.Camera.Pos = math32.Vec3(0, 0, 10)
	sc.Camera.LookAt(math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0))
	sc.UpdateWorld()
	sc.Camera.UpdateMatrix()
	return sc
}

func centerEvent() PointerEvent {
	return PointerEvent{X: 400, Y: 300, Rect: image.Rect(0, 0, 800, 600)}
}

func TestPickNearestHit(t *testing.T) {
	sc := pickScene()
	sl := New()

	res := sl.Pick(centerEvent(), sc.Camera, sc)
	require.True(t, res.IsHit())
	assert.Equal(t, "near", res.Node.Name)
	require.NotNil(t, res.Element)
	assert.Equal(t, "near-gid", res.Element.GlobalID)

	// the hit point lies on the near box's front face
	assert.InDelta(t, 0.5, res.Point.Z, 1e-3)

	// selection swapped in the shared highlight material
	assert.Same(t, sl.Highlight, res.Node.Material)
	assert.Equal(t, res.Node, sl.Selected())
}

func TestPickMiss(t *testing.T) {
	sc := pickScene()
	sl := New()

	// top-left corner points into empty space
	res := sl.Pick(PointerEvent{X: 5, Y: 5, Rect: image.Rect(0, 0, 800, 600)}, sc.Camera, sc)
	assert.False(t, res.IsHit())
	assert.Nil(t, sl.Selected())
}

func TestPickRestoresMaterial(t *testing.T) {
	sc := pickScene()
	sl := New()

	var near *scene.Node
	sc.WalkDown(func(nd *scene.Node) bool {
		if nd.Name == "near" {
			near = nd
		}
		return scene.Continue
	})
	require.NotNil(t, near)
	orig := near.Material

	res := sl.Pick(centerEvent(), sc.Camera, sc)
	require.True(t, res.IsHit())
	assert.NotSame(t, orig, near.Material)

	// a miss clears the selection and restores the exact material
	sl.Pick(PointerEvent{X: 5, Y: 5, Rect: image.Rect(0, 0, 800, 600)}, sc.Camera, sc)
	assert.Same(t, orig, near.Material)

	// clearing twice is harmless
	sl.ClearSelection()
	sl.ClearSelection()
	assert.Same(t, orig, near.Material)
}

func TestPickReselect(t *testing.T) {
	sc := pickScene()
	sl := New()

	// picking a second object restores the first before highlighting
	var near, side *scene.Node
	sc.WalkDown(func(nd *scene.Node) bool {
		switch nd.Name {
		case "near":
			near = nd
		case "side":
			side = nd
		}
		return scene.Continue
	})
	nearMat, sideMat := near.Material, side.Material

	res := sl.Pick(centerEvent(), sc.Camera, sc)
	require.Equal(t, near, res.Node)

	// project the side box center into the viewport to pick it
	ndc := sc.Camera.ProjectPoint(math32.Vec3(3, 0, 0))
	ev := PointerEvent{
		X:    (ndc.X + 1) * 0.5 * 800,
		Y:    (1 - ndc.Y) * 0.5 * 600,
		Rect: image.Rect(0, 0, 800, 600),
	}
	res = sl.Pick(ev, sc.Camera, sc)
	require.True(t, res.IsHit())
	assert.Equal(t, side, res.Node)
	assert.Same(t, nearMat, near.Material)
	assert.Same(t, sl.Highlight, side.Material)

	sl.ClearSelection()
	assert.Same(t, sideMat, side.Material)
}

func TestPickSkipsInvisibleAndUnselectable(t *testing.T) {
	sc := pickScene()
	sl := New()

	var near *scene.Node
	sc.WalkDown(func(nd *scene.Node) bool {
		if nd.Name == "near" {
			near = nd
		}
		return scene.Continue
	})

	// hiding the near box exposes the far one on the same ray
	near.Visible = false
	res := sl.Pick(centerEvent(), sc.Camera, sc)
	require.True(t, res.IsHit())
	assert.Equal(t, "far", res.Node.Name)

	// unselectable nodes are transparent to picking too
	near.Visible = true
	near.Selectable = false
	res = sl.Pick(centerEvent(), sc.Camera, sc)
	require.True(t, res.IsHit())
	assert.Equal(t, "far", res.Node.Name)
}

func TestPickEmptyRect(t *testing.T) {
	sc := pickScene()
	sl := New()
	res := sl.Pick(PointerEvent{X: 0, Y: 0}, sc.Camera, sc)
	assert.False(t, res.IsHit())
}
