// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"
	"image/draw"

	"cogentcore.org/core/math32"

	"github.com/bimscape/bimscape/scene"
)

// Software is a CPU z-buffer rasterizer implementing [Renderer]. It
// draws flat-shaded triangles with a camera-aligned light, honors node
// visibility and the published clip planes, and produces identical
// output for identical input, which is what the export contracts need.
type Software struct {
	size       image.Point
	pixelRatio float32
	background color.RGBA
	alpha      bool
	clips      []math32.Plane

	img   *image.RGBA
	depth []float32
}

// NewSoftware returns a software renderer at the given logical size
// with pixel ratio 1, white opaque background.
func NewSoftware(sz image.Point) *Software {
	return &Software{
		size:       sz,
		pixelRatio: 1,
		background: color.RGBA{255, 255, 255, 255},
	}
}

func (sw *Software) Size() image.Point        { return sw.size }
func (sw *Software) SetSize(sz image.Point)   { sw.size = sz }
func (sw *Software) PixelRatio() float32      { return sw.pixelRatio }
func (sw *Software) SetPixelRatio(pr float32) { sw.pixelRatio = pr }
func (sw *Software) Background() color.RGBA   { return sw.background }
func (sw *Software) SetBackground(bg color.RGBA) {
	sw.background = bg
}
func (sw *Software) Alpha() bool         { return sw.alpha }
func (sw *Software) SetAlpha(alpha bool) { sw.alpha = alpha }

func (sw *Software) ClipPlanes() []math32.Plane { return sw.clips }

func (sw *Software) SetClipPlanes(planes []math32.Plane) {
	sw.clips = make([]math32.Plane, len(planes))
	copy(sw.clips, planes)
}

// Image returns the last rendered frame, reused across renders.
func (sw *Software) Image() *image.RGBA { return sw.img }

// pixelSize is the physical framebuffer size: logical size times
// pixel ratio, minimum 1x1.
func (sw *Software) pixelSize() image.Point {
	w := int(float32(sw.size.X) * sw.pixelRatio)
	h := int(float32(sw.size.Y) * sw.pixelRatio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Point{w, h}
}

// Render draws one frame of the scene. A nil scene, camera, or zero
// size clears to background only.
func (sw *Software) Render(sc *scene.Scene) {
	sz := sw.pixelSize()
	if sw.img == nil || sw.img.Bounds().Size() != sz {
		sw.img = image.NewRGBA(image.Rectangle{Max: sz})
		sw.depth = make([]float32, sz.X*sz.Y)
	}
	bg := sw.background
	if !sw.alpha {
		bg.A = 255
	}
	draw.Draw(sw.img, sw.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	for i := range sw.depth {
		sw.depth[i] = math32.Infinity
	}
	if sc == nil || sc.Camera == nil {
		return
	}
	cam := sc.Camera
	cam.Aspect = float32(sz.X) / float32(sz.Y)
	cam.UpdateMatrix()
	var projView math32.Matrix4
	projView.MulMatrices(&cam.ProjMatrix, &cam.ViewMatrix)

	sc.Root.WalkDown(func(nd *scene.Node) bool {
		if !nd.Visible {
			return scene.Break
		}
		if nd.Mesh != nil && nd.Material != nil {
			sw.renderNode(nd, cam, &projView, sz)
		}
		return scene.Continue
	})
}

func (sw *Software) renderNode(nd *scene.Node, cam *scene.Camera, projView *math32.Matrix4, sz image.Point) {
	ms := nd.Mesh
	world := make([]math32.Vector3, len(ms.Vertex))
	clip := make([]math32.Vector4, len(ms.Vertex))
	for i, v := range ms.Vertex {
		world[i] = math32.Vector4FromVector3(v, 1).MulMatrix4(&nd.WorldMatrix).PerspDiv()
		clip[i] = math32.Vector4FromVector3(world[i], 1).MulMatrix4(projView)
	}
	camDir := cam.Target.Sub(cam.Pos).Normal()
	for ti := 0; ti < ms.NumTris(); ti++ {
		j := 3 * ti
		i0, i1, i2 := ms.Index[j], ms.Index[j+1], ms.Index[j+2]
		sw.renderTri(nd.Material, camDir,
			world[i0], world[i1], world[i2],
			clip[i0], clip[i1], clip[i2], sz)
	}
}

func (sw *Software) renderTri(mt *scene.Material, camDir math32.Vector3, w0, w1, w2 math32.Vector3, c0, c1, c2 math32.Vector4, sz image.Point) {
	// points at or behind the eye cannot be projected stably
	if c0.W <= 0 || c1.W <= 0 || c2.W <= 0 {
		return
	}
	// triangles fully outside any clip plane are dropped whole;
	// straddling ones are resolved per fragment below
	for _, pl := range sw.clips {
		if pl.DistanceToPoint(w0) < 0 && pl.DistanceToPoint(w1) < 0 && pl.DistanceToPoint(w2) < 0 {
			return
		}
	}
	n0 := c0.PerspDiv()
	n1 := c1.PerspDiv()
	n2 := c2.PerspDiv()

	p0 := ndcToScreen(n0, sz)
	p1 := ndcToScreen(n1, sz)
	p2 := ndcToScreen(n2, sz)

	area := edge(p0, p1, p2)
	if area == 0 {
		return
	}

	faceN := w2.Sub(w1).Cross(w0.Sub(w1))
	if faceN.Length() == 0 {
		return
	}
	faceN = faceN.Normal()
	lambert := math32.Abs(faceN.Dot(camDir))
	shade := 0.25 + 0.75*lambert
	clr := shadeColor(mt, shade)

	minX := int(math32.Floor(math32.Min(p0.X, math32.Min(p1.X, p2.X))))
	maxX := int(math32.Ceil(math32.Max(p0.X, math32.Max(p1.X, p2.X))))
	minY := int(math32.Floor(math32.Min(p0.Y, math32.Min(p1.Y, p2.Y))))
	maxY := int(math32.Ceil(math32.Max(p0.Y, math32.Max(p1.Y, p2.Y))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= sz.X {
		maxX = sz.X - 1
	}
	if maxY >= sz.Y {
		maxY = sz.Y - 1
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			pc := math32.Vec2(float32(x)+0.5, float32(y)+0.5)
			b0 := edge(p1, p2, pc) / area
			b1 := edge(p2, p0, pc) / area
			b2 := edge(p0, p1, pc) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}
			z := b0*n0.Z + b1*n1.Z + b2*n2.Z
			if z < -1 || z > 1 {
				continue
			}
			di := y*sz.X + x
			if z >= sw.depth[di] {
				continue
			}
			if len(sw.clips) > 0 {
				wp := w0.MulScalar(b0).Add(w1.MulScalar(b1)).Add(w2.MulScalar(b2))
				if sw.clipped(wp) {
					continue
				}
			}
			sw.depth[di] = z
			sw.img.SetRGBA(x, y, clr)
		}
	}
}

// clipped reports whether the world point is on the cut-away side of
// any active clip plane.
func (sw *Software) clipped(wp math32.Vector3) bool {
	for _, pl := range sw.clips {
		if pl.DistanceToPoint(wp) < 0 {
			return true
		}
	}
	return false
}

func ndcToScreen(ndc math32.Vector3, sz image.Point) math32.Vector2 {
	return math32.Vec2(
		(ndc.X+1)*0.5*float32(sz.X),
		(1-ndc.Y)*0.5*float32(sz.Y),
	)
}

// edge is the 2D cross product of (b-a) and (p-a): positive when p is
// left of the edge, and twice the triangle area when p is a vertex.
func edge(a, b, p math32.Vector2) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func shadeColor(mt *scene.Material, shade float32) color.RGBA {
	mul := shade * mt.Bright
	r := float32(mt.Color.R)*mul + float32(mt.Emissive.R)
	g := float32(mt.Color.G)*mul + float32(mt.Emissive.G)
	b := float32(mt.Color.B)*mul + float32(mt.Emissive.B)
	return color.RGBA{clamp8(r), clamp8(g), clamp8(b), mt.Color.A}
}

func clamp8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
