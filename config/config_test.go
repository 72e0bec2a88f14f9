// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	clr, err := cfg.HighlightColor()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 153, 0, 255}, clr)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Export.Format = "gif"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Export.Quality = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Camera.Far = cfg.Camera.Near
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Selection.Highlight = "orange"
	assert.Error(t, cfg.Validate())
}

func TestParseHexColor(t *testing.T) {
	clr, err := ParseHexColor("#ff9900")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 153, 0, 255}, clr)

	clr, err = ParseHexColor("#10203040")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{16, 32, 48, 64}, clr)

	_, err = ParseHexColor("ff9900")
	assert.Error(t, err)
	_, err = ParseHexColor("#xyzxyz")
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bimscape.yaml")
	data := `
selection:
  highlight: "#00ff00"
export:
  format: jpeg
  quality: 80
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	// file values layer over defaults
	assert.Equal(t, "jpeg", cfg.Export.Format)
	assert.Equal(t, 80, cfg.Export.Quality)
	assert.Equal(t, 1920, cfg.Export.Width)
	assert.Equal(t, float32(45), cfg.Camera.FOV)

	clr, err := cfg.HighlightColor()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, clr)
}

func TestLoadInvalid(t *testing.T) {
	_, err := LoadFromFile("/no/such/file.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  format: tiff\n"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "bimscape.yaml")
	cfg := Default()
	cfg.Sections.HelperSize = 25
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
