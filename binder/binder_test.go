// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/bimscape/bimscape/scene/scenejson"

	"github.com/bimscape/bimscape/scene"
	"github.com/bimscape/bimscape/semantic"
)

// unit cube vertices and indices, shared by the test scene nodes
const sceneJSON = `{
  "name": "building",
  "nodes": [
    {
      "name": "storey",
      "children": [
        {
          "name": "wall",
          "externalId": "wall-gid",
          "vertices": [0,0,0, 1,0,0, 1,1,0, 0,1,0],
          "indices": [0,1,2, 0,2,3]
        },
        {
          "name": "door",
          "externalId": "door-gid_3",
          "translate": [2,0,0],
          "vertices": [0,0,0, 1,0,0, 1,1,0, 0,1,0],
          "indices": [0,1,2, 0,2,3]
        },
        {
          "name": "prop",
          "vertices": [0,0,0, 0,1,0, 0,0,1],
          "indices": [0,1,2]
        }
      ]
    }
  ]
}`

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "building.json")
	require.NoError(t, os.WriteFile(path, []byte(sceneJSON), 0644))
	return path
}

func testElements() []semantic.Element {
	return []semantic.Element{
		{GlobalID: "wall-gid", Type: "IfcWall", Name: "Wall A",
			Properties: []semantic.Property{
				semantic.NewProperty("FireRating", "F90", "Pset_WallCommon"),
			}},
		{GlobalID: "door-gid", Type: "IfcDoor", Name: "Door A"},
	}
}

func TestLoadBindsMetadata(t *testing.T) {
	sc := scene.NewScene("test")
	bd := New(sc)
	res, err := bd.Load(context.Background(), writeScene(t), testElements(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Bound)
	assert.Equal(t, 1, res.Generic)
	require.NotNil(t, res.Group)
	assert.Equal(t, "building", res.Group.Name)

	// every geometry leaf is a pickable object regardless of binding
	var bim, withMeta int
	res.Group.WalkDown(func(nd *scene.Node) bool {
		if nd.IsLeaf() && nd.IsBimObject {
			bim++
			if nd.Element != nil {
				withMeta++
			}
		}
		return scene.Continue
	})
	assert.Equal(t, 3, bim)
	assert.Equal(t, 2, withMeta)

	// instancing suffix resolves to the base element
	var door *scene.Node
	res.Group.WalkDown(func(nd *scene.Node) bool {
		if nd.Name == "door" {
			door = nd
		}
		return scene.Continue
	})
	require.NotNil(t, door)
	require.NotNil(t, door.Element)
	assert.Equal(t, "IfcDoor", door.Element.Type)

	assert.False(t, res.BoundingVolume.IsEmpty())
}

func TestLoadMissingFile(t *testing.T) {
	bd := New(scene.NewScene("test"))
	_, err := bd.Load(context.Background(), "/no/such/file.json", nil, nil)
	require.Error(t, err)
	var lf *LoadFailure
	assert.ErrorAs(t, err, &lf)

	// a failed load leaves the scene untouched
	assert.Empty(t, bd.Scene.Root.Children)
}

func TestLoadUnknownExtension(t *testing.T) {
	bd := New(scene.NewScene("test"))
	_, err := bd.Load(context.Background(), "model.xyz", nil, nil)
	require.Error(t, err)
}

func TestLoadProgress(t *testing.T) {
	sc := scene.NewScene("test")
	bd := New(sc)

	var reports []int64
	var finalDone, finalTotal int64
	opts := &Options{OnProgress: func(done, total int64) {
		reports = append(reports, done)
		finalDone, finalTotal = done, total
	}}
	_, err := bd.Load(context.Background(), writeScene(t), nil, opts)
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1])
	}
	assert.Equal(t, finalTotal, finalDone)
	assert.Positive(t, finalDone)
}

func TestLoadAsync(t *testing.T) {
	sc := scene.NewScene("test")
	bd := New(sc)
	ar := <-bd.LoadAsync(context.Background(), writeScene(t), testElements(), nil)
	require.NoError(t, ar.Err)
	require.NotNil(t, ar.Pending)

	// the scene tree stays untouched until the receiver commits, so
	// the loading goroutine never mutates shared state
	assert.Empty(t, sc.Root.Children)

	res, err := ar.Pending.Commit()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Bound)
	assert.Len(t, sc.Root.Children, 1)
}

func TestLoadAsyncError(t *testing.T) {
	sc := scene.NewScene("test")
	bd := New(sc)
	ar := <-bd.LoadAsync(context.Background(), "no/such/model.json", nil, nil)
	require.Error(t, ar.Err)
	assert.Nil(t, ar.Pending)
	assert.Empty(t, sc.Root.Children)
}

func maxWorldDim(sc *scene.Scene) float32 {
	sz := sc.WorldBBox().Size()
	return math32.Max(sz.X, math32.Max(sz.Y, sz.Z))
}

func TestScaleToFit(t *testing.T) {
	sc := scene.NewScene("test")
	nd := sc.Root.NewChild("box")
	nd.Mesh = scene.NewBox("box", math32.Vec3(4, 2, 1))
	bd := New(sc)

	bd.ScaleToFit(10)
	tolassert.EqualTol(t, 10, maxWorldDim(sc), 1e-4)

	// re-fitting to the same target is a fixed point, not a revert
	bd.ScaleToFit(10)
	tolassert.EqualTol(t, 10, maxWorldDim(sc), 1e-4)

	// fitting composes with whatever root scale is already in place
	bd.ScaleToFit(3)
	tolassert.EqualTol(t, 3, maxWorldDim(sc), 1e-4)
}

func TestSuggestCamera(t *testing.T) {
	bb := math32.Box3{Min: math32.Vec3(-5, 0, -5), Max: math32.Vec3(5, 10, 5)}
	pos, target := SuggestCamera(bb, 45)

	ctr := bb.Center()
	tolassert.EqualTol(t, ctr.X, target.X, 1e-5)
	tolassert.EqualTol(t, ctr.Y, target.Y, 1e-5)

	// the camera stands back far enough to see the largest dimension
	dist := pos.Sub(target).Length()
	minDist := 10 / (2 * math32.Tan(math32.DegToRad(45)/2))
	assert.Greater(t, dist, minDist*0.99)
}
