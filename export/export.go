// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export produces still images of the scene: plain snapshots,
// section stills from an explicit camera placement, and axis-aligned
// orthographic views. Every export captures the renderer state first
// and restores it bit-identically afterwards, including on error.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"time"

	"cogentcore.org/core/math32"
	"github.com/anthonynsimon/bild/transform"

	"github.com/bimscape/bimscape/render"
	"github.com/bimscape/bimscape/scene"
)

// Format is an export image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// DefaultQuality is the JPEG quality used when options give none.
const DefaultQuality = 92

// Options configures one export. The zero value exports at the
// renderer's current size as PNG with an opaque background.
type Options struct {
	// Width, Height are the output dimensions in pixels; zero keeps
	// the renderer's current pixel size for that dimension.
	Width  int
	Height int

	// Format selects the encoding; empty means PNG.
	Format Format

	// Quality is the JPEG quality 1..100; zero means DefaultQuality.
	// Ignored for PNG.
	Quality int

	// Transparent renders with an alpha background instead of the
	// scene background color. PNG only; JPEG has no alpha.
	Transparent bool

	// Background overrides the scene background for this export.
	Background color.RGBA
	// HasBackground marks Background as set, so black is expressible.
	HasBackground bool
}

// Result is one finished export.
type Result struct {
	// DataURL is the image as a data: URL with base64 payload.
	DataURL string

	// Blob is the raw encoded image bytes.
	Blob []byte

	// Width, Height are the output dimensions in pixels.
	Width  int
	Height int

	// Size is len(Blob).
	Size int

	// Timestamp is when the export finished.
	Timestamp time.Time
}

// Failure wraps an export error with the stage that failed.
type Failure struct {
	Stage string
	Err   error
}

func (fe *Failure) Error() string {
	return fmt.Sprintf("export: %s: %v", fe.Stage, fe.Err)
}

func (fe *Failure) Unwrap() error { return fe.Err }

// Axis is an orthographic view direction.
type Axis string

const (
	Top    Axis = "top"
	Bottom Axis = "bottom"
	Front  Axis = "front"
	Back   Axis = "back"
	Left   Axis = "left"
	Right  Axis = "right"
)

// Exporter renders stills of a scene through a renderer. It owns no
// state of its own: each call is a capture, render, encode, restore
// cycle, and the renderer and camera come back exactly as found.
type Exporter struct {
	Renderer render.Renderer
	Scene    *scene.Scene
}

// New returns an exporter for the given renderer and scene.
func New(r render.Renderer, sc *scene.Scene) *Exporter {
	return &Exporter{Renderer: r, Scene: sc}
}

// Image exports a still from the current camera. Renderer size,
// pixel ratio, background and alpha are restored whether or not the
// export succeeds.
func (ex *Exporter) Image(opts Options) (*Result, error) {
	if ex.Renderer == nil || ex.Scene == nil {
		return nil, &Failure{Stage: "setup", Err: fmt.Errorf("exporter has no renderer or scene")}
	}
	st := render.CaptureState(ex.Renderer)
	defer func() {
		st.Restore(ex.Renderer)
		ex.Renderer.Render(ex.Scene)
	}()

	w, h := opts.Width, opts.Height
	cur := st.Size
	pw := int(float32(cur.X) * st.PixelRatio)
	ph := int(float32(cur.Y) * st.PixelRatio)
	if w <= 0 {
		w = pw
	}
	if h <= 0 {
		h = ph
	}
	if w <= 0 || h <= 0 {
		return nil, &Failure{Stage: "setup", Err: fmt.Errorf("export size %dx%d invalid", w, h)}
	}

	// export dimensions are exact: pixel ratio 1 at the target size
	ex.Renderer.SetPixelRatio(1)
	ex.Renderer.SetSize(image.Pt(w, h))
	if opts.HasBackground {
		ex.Renderer.SetBackground(opts.Background)
	}
	ex.Renderer.SetAlpha(opts.Transparent && format(opts) == PNG)
	ex.Renderer.Render(ex.Scene)

	img := ex.Renderer.Image()
	if img == nil {
		return nil, &Failure{Stage: "render", Err: fmt.Errorf("renderer produced no image")}
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		img = toRGBA(transform.Resize(img, w, h, transform.Linear))
	}
	return encode(img, opts)
}

// Section exports a still from an explicit camera placement, leaving
// the camera exactly as it was. Section planes stay whatever the
// clipping controller last published; this call does not touch them.
func (ex *Exporter) Section(camPos, target math32.Vector3, opts Options) (*Result, error) {
	if ex.Scene == nil || ex.Scene.Camera == nil {
		return nil, &Failure{Stage: "setup", Err: fmt.Errorf("scene has no camera")}
	}
	cam := ex.Scene.Camera
	saved := *cam
	defer func() {
		*cam = saved
		cam.UpdateMatrix()
	}()
	cam.Pos = camPos
	cam.LookAt(target, math32.Vec3(0, 1, 0))
	cam.UpdateMatrix()
	return ex.Image(opts)
}

// Orthographic exports an axis-aligned orthographic view of the whole
// scene. The scene camera is swapped for a temporary orthographic one
// and put back even when the export fails.
func (ex *Exporter) Orthographic(axis Axis, opts Options) (*Result, error) {
	if ex.Scene == nil || ex.Scene.Camera == nil {
		return nil, &Failure{Stage: "setup", Err: fmt.Errorf("scene has no camera")}
	}
	cam := ex.Scene.Camera
	saved := *cam
	defer func() {
		*cam = saved
		cam.UpdateMatrix()
	}()

	bb := ex.Scene.WorldBBox()
	if bb.IsEmpty() {
		return nil, &Failure{Stage: "setup", Err: fmt.Errorf("scene has no geometry")}
	}
	ctr := bb.Center()
	sz := bb.Size()
	maxDim := math32.Max(sz.X, math32.Max(sz.Y, sz.Z))
	if maxDim <= 0 {
		maxDim = 1
	}
	dir, up, ok := axisView(axis)
	if !ok {
		return nil, &Failure{Stage: "setup", Err: fmt.Errorf("unknown axis %q", axis)}
	}

	cam.Ortho = true
	cam.OrthoHeight = maxDim
	cam.Near = 0.1
	cam.Far = 4 * maxDim
	cam.Pos = ctr.Add(dir.MulScalar(2 * maxDim))
	cam.LookAt(ctr, up)
	cam.UpdateMatrix()
	return ex.Image(opts)
}

// axisView returns the outward view direction and up vector for an
// orthographic axis.
func axisView(axis Axis) (dir, up math32.Vector3, ok bool) {
	switch axis {
	case Top:
		return math32.Vec3(0, 1, 0), math32.Vec3(0, 0, -1), true
	case Bottom:
		return math32.Vec3(0, -1, 0), math32.Vec3(0, 0, 1), true
	case Front:
		return math32.Vec3(0, 0, 1), math32.Vec3(0, 1, 0), true
	case Back:
		return math32.Vec3(0, 0, -1), math32.Vec3(0, 1, 0), true
	case Left:
		return math32.Vec3(-1, 0, 0), math32.Vec3(0, 1, 0), true
	case Right:
		return math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0), true
	}
	return math32.Vector3{}, math32.Vector3{}, false
}

func format(opts Options) Format {
	if opts.Format == "" {
		return PNG
	}
	return opts.Format
}

// encode serializes the image per options and assembles the result.
func encode(img *image.RGBA, opts Options) (*Result, error) {
	var buf bytes.Buffer
	var mime string
	switch format(opts) {
	case PNG:
		mime = "image/png"
		if err := png.Encode(&buf, img); err != nil {
			return nil, &Failure{Stage: "encode", Err: err}
		}
	case JPEG:
		mime = "image/jpeg"
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, &Failure{Stage: "encode", Err: err}
		}
	default:
		return nil, &Failure{Stage: "encode", Err: fmt.Errorf("unknown format %q", opts.Format)}
	}
	blob := buf.Bytes()
	b := img.Bounds()
	return &Result{
		DataURL:   "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob),
		Blob:      blob,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Size:      len(blob),
		Timestamp: time.Now(),
	}, nil
}

// toRGBA converts any image to RGBA without copying when it already
// is one.
func toRGBA(img image.Image) *image.RGBA {
	if ri, ok := img.(*image.RGBA); ok {
		return ri
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
