// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// Scene is the overall scene graph: a root node containing the model
// subtree(s), the camera, and the background color. It performs no
// rendering itself; a render.Renderer consumes it.
type Scene struct {
	// Name is the scene name.
	Name string

	// Root is the root of the node tree. Model binders add loaded
	// models as groups under the root.
	Root *Node

	// Camera is the active camera. Hosts and the exporter may swap
	// it; the scene owns the default instance only.
	Camera *Camera

	// Background is the clear color behind all geometry.
	Background color.RGBA
}

// NewScene creates a scene with an empty root node, a default camera,
// and a white background.
func NewScene(name string) *Scene {
	sc := &Scene{
		Name:       name,
		Root:       NewNode(name),
		Camera:     NewCamera(),
		Background: color.RGBA{255, 255, 255, 255},
	}
	return sc
}

// UpdateWorld recomputes world matrices and bounding boxes for the
// entire tree. Call after any pose or geometry change.
func (sc *Scene) UpdateWorld() {
	var ident math32.Matrix4
	ident.SetIdentity()
	sc.Root.UpdateWorldMatrix(&ident)
	sc.Root.UpdateWorldBBox()
}

// WorldBBox returns the world bounding box of everything in the scene,
// valid after [Scene.UpdateWorld].
func (sc *Scene) WorldBBox() math32.Box3 {
	return sc.Root.WorldBBox
}

// WalkDown calls fn on every node depth-first from the root.
func (sc *Scene) WalkDown(fn func(*Node) bool) {
	sc.Root.WalkDown(fn)
}

// LeafNodes returns all mesh-bearing nodes in traversal order.
func (sc *Scene) LeafNodes() []*Node {
	var leaves []*Node
	sc.Root.WalkDown(func(nd *Node) bool {
		if nd.IsLeaf() {
			leaves = append(leaves, nd)
		}
		return Continue
	})
	return leaves
}
