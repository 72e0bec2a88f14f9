// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render defines the renderer contract the interaction engine
// mutates (size, pixel ratio, background, alpha, global clip-plane
// state) and provides a deterministic software rasterizer backend for
// headless use and tests. Hosts with a GPU backend implement
// [Renderer] themselves and hand it to the engine.
package render

import (
	"image"
	"image/color"

	"cogentcore.org/core/math32"

	"github.com/bimscape/bimscape/scene"
)

// Renderer is the render-state surface the engine operates on. The
// clipping controller republishes enabled section planes through
// SetClipPlanes; the exporter snapshots and restores the remaining
// state around every export.
type Renderer interface {
	// Size returns the output size in logical pixels.
	Size() image.Point

	// SetSize sets the output size in logical pixels.
	SetSize(sz image.Point)

	// PixelRatio returns the device pixel ratio: the multiplier from
	// logical to physical pixels.
	PixelRatio() float32

	// SetPixelRatio sets the device pixel ratio.
	SetPixelRatio(pr float32)

	// Background returns the clear color.
	Background() color.RGBA

	// SetBackground sets the clear color.
	SetBackground(bg color.RGBA)

	// Alpha returns whether the output preserves transparency.
	Alpha() bool

	// SetAlpha sets whether the output preserves transparency.
	SetAlpha(alpha bool)

	// ClipPlanes returns the active global clip planes.
	ClipPlanes() []math32.Plane

	// SetClipPlanes replaces the active global clip planes. Fragments
	// on the negative side of any plane are cut away.
	SetClipPlanes(planes []math32.Plane)

	// Render draws one frame of the given scene with its camera.
	Render(sc *scene.Scene)

	// Image returns the last rendered frame. The returned image is
	// reused across renders; callers needing persistence must copy.
	Image() *image.RGBA
}

// State is a snapshot of the restorable renderer state. The exporter
// captures one before mutating anything and restores it
// unconditionally afterwards.
type State struct {
	Size       image.Point
	PixelRatio float32
	Background color.RGBA
	Alpha      bool
}

// CaptureState snapshots the renderer's restorable state.
func CaptureState(r Renderer) State {
	return State{
		Size:       r.Size(),
		PixelRatio: r.PixelRatio(),
		Background: r.Background(),
		Alpha:      r.Alpha(),
	}
}

// Restore applies the snapshot back onto the renderer.
func (st State) Restore(r Renderer) {
	r.SetSize(st.Size)
	r.SetPixelRatio(st.PixelRatio)
	r.SetBackground(st.Background)
	r.SetAlpha(st.Alpha)
}
