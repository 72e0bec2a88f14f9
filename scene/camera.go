// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "cogentcore.org/core/math32"

// Camera defines the view onto the scene: position and aim, projection
// parameters, and the derived view / projection matrices. Hosts own
// the camera and may swap it out wholesale; [Camera.UpdateMatrix] must
// be called after any mutation, which every engine entry point does.
type Camera struct {
	// Pos is the camera position in world coordinates.
	Pos math32.Vector3

	// Target is the world location the camera looks at.
	Target math32.Vector3

	// UpDir is the up direction; defaults to positive Y.
	UpDir math32.Vector3

	// Ortho selects orthographic instead of perspective projection.
	Ortho bool

	// FOV is the vertical field of view in degrees (perspective only).
	FOV float32

	// Aspect is the width/height aspect ratio.
	Aspect float32

	// Near and Far are the clip distances.
	Near float32
	Far  float32

	// OrthoHeight is the world-space height of the orthographic view
	// volume. Zero means derive from FOV and Far as a wide default.
	OrthoHeight float32

	// ViewMatrix is the world-to-camera transform.
	ViewMatrix math32.Matrix4

	// ProjMatrix is the camera-to-NDC projection transform.
	ProjMatrix math32.Matrix4

	// InvProjView is the inverse of ProjMatrix * ViewMatrix, used for
	// unprojecting pointer coordinates.
	InvProjView math32.Matrix4
}

// NewCamera returns a camera with default parameters, updated
// matrices, looking at the origin from (0, 0, 10).
func NewCamera() *Camera {
	cm := &Camera{}
	cm.Defaults()
	return cm
}

// Defaults sets the default camera parameters and pose.
func (cm *Camera) Defaults() {
	cm.FOV = 45
	cm.Aspect = 1.5
	cm.Near = 0.01
	cm.Far = 1000
	cm.Pos.Set(0, 0, 10)
	cm.Target.Set(0, 0, 0)
	cm.UpDir = math32.Vec3(0, 1, 0)
	cm.UpdateMatrix()
}

// LookAt aims the camera at the given target with the given up
// direction (positive Y if zero), and updates the matrices.
func (cm *Camera) LookAt(target, up math32.Vector3) {
	cm.Target = target
	if up == (math32.Vector3{}) {
		up = math32.Vec3(0, 1, 0)
	}
	cm.UpDir = up
	cm.UpdateMatrix()
}

// UpdateMatrix recomputes the view, projection, and inverse matrices
// from the current parameters.
func (cm *Camera) UpdateMatrix() {
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(cm.Pos, cm.Target, cm.UpDir))
	var cview math32.Matrix4
	cview.SetTransform(cm.Pos, lookq, math32.Vec3(1, 1, 1))
	view, _ := cview.Inverse()
	cm.ViewMatrix = *view

	if cm.Ortho {
		height := cm.OrthoHeight
		if height == 0 {
			height = 2 * cm.Far * math32.Tan(math32.DegToRad(cm.FOV*0.5))
		}
		width := cm.Aspect * height
		cm.ProjMatrix.SetOrthographic(width, height, cm.Near, cm.Far)
	} else {
		cm.ProjMatrix.SetPerspective(cm.FOV, cm.Aspect, cm.Near, cm.Far)
	}

	var pv math32.Matrix4
	pv.MulMatrices(&cm.ProjMatrix, &cm.ViewMatrix)
	inv, _ := pv.Inverse()
	cm.InvProjView = *inv
}

// ViewVector is the vector from the target to the camera position.
func (cm *Camera) ViewVector() math32.Vector3 {
	return cm.Pos.Sub(cm.Target)
}

// ProjectPoint transforms a world-space point to normalized display
// coordinates through the current view and projection matrices.
func (cm *Camera) ProjectPoint(world math32.Vector3) math32.Vector3 {
	var pv math32.Matrix4
	pv.MulMatrices(&cm.ProjMatrix, &cm.ViewMatrix)
	return math32.Vector4FromVector3(world, 1).MulMatrix4(&pv).PerspDiv()
}

// RayFromNDC returns a world-space picking ray through the given
// normalized device coordinates (x, y in [-1, 1], y up). For a
// perspective camera the ray originates at the camera position; for an
// orthographic camera it originates on the view volume boundary.
func (cm *Camera) RayFromNDC(ndx, ndy float32) math32.Ray {
	farPt := math32.Vec4(ndx, ndy, 1, 1).MulMatrix4(&cm.InvProjView).PerspDiv()
	if cm.Ortho {
		nearPt := math32.Vec4(ndx, ndy, 0, 1).MulMatrix4(&cm.InvProjView).PerspDiv()
		dir := farPt.Sub(nearPt)
		if dir.Length() > 0 {
			dir = dir.Normal()
		}
		// back the origin out so geometry between near plane and the
		// z=0 reference point is still in front of the ray
		origin := nearPt.Sub(dir.MulScalar(cm.Far))
		return math32.Ray{Origin: origin, Dir: dir}
	}
	dir := farPt.Sub(cm.Pos)
	if dir.Length() > 0 {
		dir = dir.Normal()
	}
	return math32.Ray{Origin: cm.Pos, Dir: dir}
}
