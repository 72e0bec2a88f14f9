// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenejson decodes the plain JSON scene interchange format
// produced by the upstream geometry pipeline: a node tree whose leaves
// carry flat vertex/index arrays, an RGBA color, and the element's
// external id. Importing this package registers the decoder for the
// .json extension.
package scenejson

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"cogentcore.org/core/math32"

	"github.com/bimscape/bimscape/scene"
)

func init() {
	scene.Decoders[".json"] = &Decoder{}
}

// Node is the on-disk shape of one scene node.
type Node struct {
	Name       string    `json:"name"`
	ExternalID string    `json:"externalId,omitempty"`
	Translate  []float32 `json:"translate,omitempty"`
	Scale      []float32 `json:"scale,omitempty"`
	Color      []uint8   `json:"color,omitempty"`
	Vertices   []float32 `json:"vertices,omitempty"`
	Indices    []uint32  `json:"indices,omitempty"`
	Selectable *bool     `json:"selectable,omitempty"`
	Children   []Node    `json:"children,omitempty"`
}

// File is the on-disk shape of a scene file.
type File struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// Decoder implements [scene.Decoder] for the JSON scene format.
type Decoder struct {
	fname string
	file  File
}

func (dc *Decoder) New() scene.Decoder {
	return &Decoder{}
}

func (dc *Decoder) Desc() string {
	return ".json = JSON scene interchange format"
}

func (dc *Decoder) SetFile(fname string) []string {
	dc.fname = fname
	return []string{fname}
}

func (dc *Decoder) Decode(rs []io.Reader) error {
	if len(rs) == 0 {
		return fmt.Errorf("scenejson.Decode: no input stream for %v", dc.fname)
	}
	dec := json.NewDecoder(rs[0])
	if err := dec.Decode(&dc.file); err != nil {
		return fmt.Errorf("scenejson.Decode: %v: %w", dc.fname, err)
	}
	return nil
}

func (dc *Decoder) SetGroup(gp *scene.Node) error {
	if dc.file.Name != "" {
		gp.Name = dc.file.Name
	}
	for i := range dc.file.Nodes {
		if err := setNode(gp, &dc.file.Nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

func setNode(parent *scene.Node, jn *Node) error {
	nd := parent.NewChild(jn.Name)
	nd.ExternalID = jn.ExternalID
	if len(jn.Translate) == 3 {
		nd.Pose.Pos.Set(jn.Translate[0], jn.Translate[1], jn.Translate[2])
	}
	if len(jn.Scale) == 3 {
		nd.Pose.Scale.Set(jn.Scale[0], jn.Scale[1], jn.Scale[2])
	}
	if jn.Selectable != nil {
		nd.Selectable = *jn.Selectable
	}
	if len(jn.Vertices) > 0 {
		if len(jn.Vertices)%3 != 0 {
			return fmt.Errorf("scenejson: node %s: vertex array length %d is not a multiple of 3", jn.Name, len(jn.Vertices))
		}
		ms := scene.NewTriMesh(jn.Name)
		ms.Vertex = make([]math32.Vector3, len(jn.Vertices)/3)
		for i := range ms.Vertex {
			ms.Vertex[i] = math32.Vec3(jn.Vertices[3*i], jn.Vertices[3*i+1], jn.Vertices[3*i+2])
		}
		ms.Index = jn.Indices
		if err := ms.Validate(); err != nil {
			return fmt.Errorf("scenejson: node %s: %w", jn.Name, err)
		}
		ms.UpdateBBox()
		nd.Mesh = ms
		nd.Material = scene.NewMaterial(nodeColor(jn))
	}
	for i := range jn.Children {
		if err := setNode(nd, &jn.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func nodeColor(jn *Node) color.RGBA {
	if len(jn.Color) == 4 {
		return color.RGBA{jn.Color[0], jn.Color[1], jn.Color[2], jn.Color[3]}
	}
	if len(jn.Color) == 3 {
		return color.RGBA{jn.Color[0], jn.Color[1], jn.Color[2], 255}
	}
	return color.RGBA{180, 180, 180, 255}
}
