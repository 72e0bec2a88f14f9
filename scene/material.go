// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "image/color"

// Material describes the surface properties of a node: a reduced
// Phong parameter set sufficient for flat-shaded architectural
// geometry. Main color is used for both ambient and diffuse; the
// alpha component determines transparency.
type Material struct {

	// Color is the main surface color; alpha < 255 means transparent.
	Color color.RGBA

	// Emissive is color the surface emits independent of lighting.
	Emissive color.RGBA

	// Shiny is the specular shininess exponent.
	Shiny float32

	// Bright is an overall multiplier on the final computed color.
	Bright float32

	// CullBack indicates back-facing surfaces are not rendered.
	CullBack bool
}

// Defaults sets default surface parameters: mid gray, no glow.
func (mt *Material) Defaults() {
	mt.Color = color.RGBA{128, 128, 128, 255}
	mt.Emissive = color.RGBA{}
	mt.Shiny = 30
	mt.Bright = 1
	mt.CullBack = true
}

// NewMaterial returns a material with defaults and the given color.
func NewMaterial(clr color.RGBA) *Material {
	mt := &Material{}
	mt.Defaults()
	mt.Color = clr
	return mt
}

// IsTransparent returns true if the color alpha is below opaque.
func (mt *Material) IsTransparent() bool {
	return mt.Color.A < 255
}
