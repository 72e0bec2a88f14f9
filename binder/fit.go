// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"cogentcore.org/core/math32"

	"github.com/bimscape/bimscape/scene"
)

// Viewing angle offsets for the suggested camera placement, a
// three-quarter view from the front upper right.
const (
	suggestAzimuthDeg   = 45
	suggestElevationDeg = 30
)

// CenterAtOrigin translates the scene root so the world bounding
// volume's center lands on the world origin.
func (bd *Binder) CenterAtOrigin() {
	sc := bd.Scene
	if sc == nil {
		return
	}
	sc.UpdateWorld()
	bb := sc.WorldBBox()
	if bb.IsEmpty() {
		return
	}
	ctr := bb.Center()
	sc.Root.Pose.Pos.SetSub(ctr)
	sc.UpdateWorld()
}

// ScaleToFit uniformly scales the scene root so the largest bounding
// dimension equals targetSize. A zero-size or empty scene is left
// untouched.
func (bd *Binder) ScaleToFit(targetSize float32) {
	sc := bd.Scene
	if sc == nil || targetSize <= 0 {
		return
	}
	sc.UpdateWorld()
	bb := sc.WorldBBox()
	if bb.IsEmpty() {
		return
	}
	sz := bb.Size()
	maxDim := math32.Max(sz.X, math32.Max(sz.Y, sz.Z))
	if maxDim == 0 {
		return
	}
	// the bounding box already includes the current root scale, so the
	// correction factor composes with it rather than replacing it
	sc.Root.Pose.Defaults()
	sc.Root.Pose.Scale = sc.Root.Pose.Scale.MulScalar(targetSize / maxDim)
	sc.UpdateWorld()
}

// SuggestCamera returns a camera position and target framing the
// given bounding volume for a camera with the given vertical field of
// view in degrees: distance size/(2·tan(fov/2)) from the center, at a
// fixed azimuth/elevation offset.
func SuggestCamera(bb math32.Box3, fovDeg float32) (pos, target math32.Vector3) {
	target = bb.Center()
	sz := bb.Size()
	maxDim := math32.Max(sz.X, math32.Max(sz.Y, sz.Z))
	if maxDim == 0 {
		maxDim = 1
	}
	if fovDeg <= 0 {
		fovDeg = 45
	}
	dist := maxDim / (2 * math32.Tan(math32.DegToRad(fovDeg/2)))
	// offset direction at the fixed azimuth around Y and elevation
	// above the horizon
	az := math32.DegToRad(suggestAzimuthDeg)
	el := math32.DegToRad(suggestElevationDeg)
	dir := math32.Vec3(
		math32.Cos(el)*math32.Sin(az),
		math32.Sin(el),
		math32.Cos(el)*math32.Cos(az),
	)
	pos = target.Add(dir.MulScalar(dist))
	return pos, target
}

// PlaceCamera applies [SuggestCamera] to the given camera, leaving its
// projection parameters untouched.
func PlaceCamera(cam *scene.Camera, bb math32.Box3) {
	pos, target := SuggestCamera(bb, cam.FOV)
	cam.Pos = pos
	cam.LookAt(target, math32.Vec3(0, 1, 0))
}
