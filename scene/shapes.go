// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "cogentcore.org/core/math32"

// NewBox returns a box mesh of the given size centered on the origin,
// with 8 vertices and 12 triangles wound counter-clockwise as seen
// from outside.
func NewBox(name string, size math32.Vector3) *TriMesh {
	hsz := size.DivScalar(2)
	ms := NewTriMesh(name)
	ms.Vertex = []math32.Vector3{
		math32.Vec3(-hsz.X, -hsz.Y, -hsz.Z),
		math32.Vec3(hsz.X, -hsz.Y, -hsz.Z),
		math32.Vec3(hsz.X, hsz.Y, -hsz.Z),
		math32.Vec3(-hsz.X, hsz.Y, -hsz.Z),
		math32.Vec3(-hsz.X, -hsz.Y, hsz.Z),
		math32.Vec3(hsz.X, -hsz.Y, hsz.Z),
		math32.Vec3(hsz.X, hsz.Y, hsz.Z),
		math32.Vec3(-hsz.X, hsz.Y, hsz.Z),
	}
	ms.Index = []uint32{
		4, 5, 6, 4, 6, 7, // +Z
		1, 0, 3, 1, 3, 2, // -Z
		5, 1, 2, 5, 2, 6, // +X
		0, 4, 7, 0, 7, 3, // -X
		7, 6, 2, 7, 2, 3, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}
	ms.UpdateBBox()
	return ms
}

// NewQuad returns a two-triangle rectangle in the XY plane, centered
// on the origin, facing +Z. Used for section-plane helper visuals.
func NewQuad(name string, width, height float32) *TriMesh {
	hw, hh := width/2, height/2
	ms := NewTriMesh(name)
	ms.Vertex = []math32.Vector3{
		math32.Vec3(-hw, -hh, 0),
		math32.Vec3(hw, -hh, 0),
		math32.Vec3(hw, hh, 0),
		math32.Vec3(-hw, hh, 0),
	}
	ms.Index = []uint32{0, 1, 2, 0, 2, 3}
	ms.UpdateBBox()
	return ms
}
