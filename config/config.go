// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides configuration loading for the interaction
// engine: selection highlight, export defaults, section plane helper
// sizing, and camera settings.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Selection SelectionConfig `yaml:"selection"`
	Export    ExportConfig    `yaml:"export"`
	Sections  SectionsConfig  `yaml:"sections"`
	Camera    CameraConfig    `yaml:"camera"`
}

// SelectionConfig configures pick highlighting.
type SelectionConfig struct {
	// Highlight is the selection highlight color as #rrggbb hex.
	Highlight string `yaml:"highlight"`
}

// ExportConfig configures image export defaults.
type ExportConfig struct {
	// Format is the default image format: png or jpeg.
	Format string `yaml:"format"`
	// Quality is the default JPEG quality, 1-100.
	Quality int `yaml:"quality"`
	// Width, Height are the default output dimensions in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SectionsConfig configures section plane helpers.
type SectionsConfig struct {
	// HelperSize is the edge length of helper quads in scene units.
	HelperSize float32 `yaml:"helperSize"`
}

// CameraConfig configures the default camera.
type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV float32 `yaml:"fov"`
	// Near, Far are the clipping distances.
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// Default returns a Config with engine defaults.
func Default() *Config {
	return &Config{
		Selection: SelectionConfig{
			Highlight: "#ff9900",
		},
		Export: ExportConfig{
			Format:  "png",
			Quality: 92,
			Width:   1920,
			Height:  1080,
		},
		Sections: SectionsConfig{
			HelperSize: 10,
		},
		Camera: CameraConfig{
			FOV:  45,
			Near: 0.1,
			Far:  1000,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := c.HighlightColor(); err != nil {
		return err
	}
	switch c.Export.Format {
	case "png", "jpeg":
	default:
		return fmt.Errorf("export.format must be png or jpeg, got %q", c.Export.Format)
	}
	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return fmt.Errorf("export.quality must be between 1 and 100")
	}
	if c.Sections.HelperSize <= 0 {
		return fmt.Errorf("sections.helperSize must be positive")
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera.fov must be between 0 and 180")
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera near/far planes invalid")
	}
	return nil
}

// HighlightColor parses the configured highlight as a color.
func (c *Config) HighlightColor() (color.RGBA, error) {
	return ParseHexColor(c.Selection.Highlight)
}

// ParseHexColor parses a #rrggbb or #rrggbbaa hex color.
func ParseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	a := uint8(255)
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	return color.RGBA{r, g, b, a}, nil
}

// LoadFromFile loads configuration from a YAML file, layered over
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
