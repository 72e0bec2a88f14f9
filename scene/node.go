// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the render-node tree that the interaction
// engine operates on: nodes carrying triangle geometry, materials,
// visibility and selectability state, plus the semantic element
// back-references attached by the model binder.
package scene

import (
	"cogentcore.org/core/math32"

	"github.com/bimscape/bimscape/semantic"
)

// Traversal return values for [Node.WalkDown], following tree-walk
// conventions: Continue descends into children, Break does not.
const (
	Continue = true
	Break    = false
)

// Pose is a node's local spatial transform: position, scale, and
// rotation, composed into a matrix on demand.
type Pose struct {
	// Pos is the position offset relative to the parent.
	Pos math32.Vector3

	// Scale is the scale relative to the parent.
	Scale math32.Vector3

	// Quat is the rotation relative to the parent.
	Quat math32.Quat
}

// Defaults sets unit scale and identity rotation if uninitialized.
func (ps *Pose) Defaults() {
	if ps.Scale == (math32.Vector3{}) {
		ps.Scale.Set(1, 1, 1)
	}
	if ps.Quat.IsNil() {
		ps.Quat.SetIdentity()
	}
}

// Matrix returns the composed local transform matrix.
func (ps *Pose) Matrix() math32.Matrix4 {
	ps.Defaults()
	var m math32.Matrix4
	m.SetTransform(ps.Pos, ps.Quat, ps.Scale)
	return m
}

// Node is one element of the scene graph. Leaf nodes carry a mesh and
// a material; group nodes only transform their children. The binder
// attaches a non-owning [semantic.Element] back-reference to leaves it
// can correlate, and marks the rest as generic BIM objects.
type Node struct {
	// Name is the node name from the asset.
	Name string

	// ExternalID is the declared external identifier from the asset's
	// naming convention, used for metadata correlation.
	ExternalID string

	// Pose is the local transform.
	Pose Pose

	// Mesh is the leaf triangle geometry; nil for group nodes.
	Mesh *TriMesh

	// Material is the surface material. The selector may temporarily
	// override it with the shared highlight material.
	Material *Material

	// Visible determines whether the node (and its subtree) renders.
	Visible bool

	// Selectable determines whether picking may hit this node.
	// Non-selectable nodes never win a pick regardless of proximity.
	Selectable bool

	// Element is the bound semantic record, or nil when the node has
	// no correlated metadata. Never owned by the node.
	Element *semantic.Element

	// IsBimObject marks a leaf that went through binder correlation,
	// whether or not an element record matched.
	IsBimObject bool

	Parent   *Node
	Children []*Node

	// WorldMatrix is the composed world transform, valid after
	// [Scene.UpdateWorld].
	WorldMatrix math32.Matrix4

	// WorldBBox is the world-space bounding box of this subtree,
	// valid after [Scene.UpdateWorld].
	WorldBBox math32.Box3
}

// NewNode returns a new visible, selectable node with default pose.
func NewNode(name string) *Node {
	nd := &Node{Name: name, Visible: true, Selectable: true}
	nd.Pose.Defaults()
	nd.WorldMatrix.SetIdentity()
	nd.WorldBBox.SetEmpty()
	return nd
}

// AddChild appends a child node, setting its parent pointer.
func (nd *Node) AddChild(child *Node) *Node {
	child.Parent = nd
	nd.Children = append(nd.Children, child)
	return child
}

// NewChild creates, appends, and returns a new child node.
func (nd *Node) NewChild(name string) *Node {
	return nd.AddChild(NewNode(name))
}

// DeleteChild removes the given child from this node, returning true
// if it was found. The child's parent pointer is cleared.
func (nd *Node) DeleteChild(child *Node) bool {
	for i, k := range nd.Children {
		if k == child {
			nd.Children = append(nd.Children[:i], nd.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// IsLeaf returns true if the node carries geometry of its own.
func (nd *Node) IsLeaf() bool {
	return nd.Mesh != nil
}

// IsVisible returns whether this node and all its ancestors are
// visible.
func (nd *Node) IsVisible() bool {
	for n := nd; n != nil; n = n.Parent {
		if !n.Visible {
			return false
		}
	}
	return true
}

// Path returns the slash-separated path of node names from the root.
func (nd *Node) Path() string {
	if nd.Parent == nil {
		return nd.Name
	}
	return nd.Parent.Path() + "/" + nd.Name
}

// WalkDown calls fn on this node and, if it returns [Continue], on all
// children depth-first.
func (nd *Node) WalkDown(fn func(*Node) bool) {
	if !fn(nd) {
		return
	}
	for _, k := range nd.Children {
		k.WalkDown(fn)
	}
}

// UpdateWorldMatrix recomputes world matrices for this subtree given
// the parent world matrix.
func (nd *Node) UpdateWorldMatrix(parent *math32.Matrix4) {
	local := nd.Pose.Matrix()
	nd.WorldMatrix.MulMatrices(parent, &local)
	for _, k := range nd.Children {
		k.UpdateWorldMatrix(&nd.WorldMatrix)
	}
}

// UpdateWorldBBox recomputes world bounding boxes bottom-up: leaves
// transform their mesh box, groups aggregate over children.
func (nd *Node) UpdateWorldBBox() {
	nd.WorldBBox.SetEmpty()
	if nd.Mesh != nil {
		nd.WorldBBox = nd.Mesh.BBox.MulMatrix4(&nd.WorldMatrix)
	}
	for _, k := range nd.Children {
		k.UpdateWorldBBox()
		if !k.WorldBBox.IsEmpty() {
			nd.WorldBBox.ExpandByBox(k.WorldBBox)
		}
	}
}
