// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// TriMesh is an indexed triangle mesh: the only geometry kind the
// engine renders or intersects. Vertex positions are in node-local
// coordinates; normals are optional and recomputed on demand.
type TriMesh struct {
	// Name is the mesh name from the asset.
	Name string

	// Vertex holds the vertex positions.
	Vertex []math32.Vector3

	// Normal holds per-vertex normals; may be empty, in which case
	// flat face normals are used.
	Normal []math32.Vector3

	// Index holds triangle vertex indices, three per triangle.
	Index []uint32

	// BBox is the local bounding box, valid after [TriMesh.UpdateBBox].
	BBox math32.Box3
}

// NewTriMesh returns an empty named mesh with an empty bounding box.
func NewTriMesh(name string) *TriMesh {
	ms := &TriMesh{Name: name}
	ms.BBox.SetEmpty()
	return ms
}

// NumTris returns the number of triangles.
func (ms *TriMesh) NumTris() int {
	return len(ms.Index) / 3
}

// Tri returns the three corner positions of triangle i.
func (ms *TriMesh) Tri(i int) (a, b, c math32.Vector3) {
	j := 3 * i
	return ms.Vertex[ms.Index[j]], ms.Vertex[ms.Index[j+1]], ms.Vertex[ms.Index[j+2]]
}

// UpdateBBox recomputes the local bounding box from the vertices.
func (ms *TriMesh) UpdateBBox() {
	ms.BBox.SetFromPoints(ms.Vertex)
}

// ComputeNormals sets per-vertex normals by averaging the face normals
// of all triangles sharing each vertex.
func (ms *TriMesh) ComputeNormals() {
	ms.Normal = make([]math32.Vector3, len(ms.Vertex))
	for i := 0; i < ms.NumTris(); i++ {
		a, b, c := ms.Tri(i)
		fn := c.Sub(b).Cross(a.Sub(b)).Normal()
		j := 3 * i
		ms.Normal[ms.Index[j]].SetAdd(fn)
		ms.Normal[ms.Index[j+1]].SetAdd(fn)
		ms.Normal[ms.Index[j+2]].SetAdd(fn)
	}
	for i := range ms.Normal {
		if ms.Normal[i].Length() > 0 {
			ms.Normal[i] = ms.Normal[i].Normal()
		}
	}
}

// Validate checks that the index buffer is consistent with the vertex
// buffer.
func (ms *TriMesh) Validate() error {
	if len(ms.Index)%3 != 0 {
		return fmt.Errorf("scene.TriMesh: %s index count %d is not a multiple of 3", ms.Name, len(ms.Index))
	}
	nv := uint32(len(ms.Vertex))
	for _, ix := range ms.Index {
		if ix >= nv {
			return fmt.Errorf("scene.TriMesh: %s index %d out of range (%d vertices)", ms.Name, ix, nv)
		}
	}
	return nil
}
