// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package main provides the bimscape binary: a headless frontend for
// the interaction engine that inspects bound scenes and exports
// stills without a display.
package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	// Register scene file decoders via init()
	_ "github.com/bimscape/bimscape/scene/scenejson"

	"github.com/bimscape/bimscape/binder"
	"github.com/bimscape/bimscape/clipping"
	"github.com/bimscape/bimscape/config"
	"github.com/bimscape/bimscape/export"
	"github.com/bimscape/bimscape/filter"
	"github.com/bimscape/bimscape/render"
	"github.com/bimscape/bimscape/scene"
	"github.com/bimscape/bimscape/semantic"
)

const (
	Version = "0.1.0"
	appName = "bimscape"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "BIM scene interaction engine",
		Long: `Bimscape loads building model geometry, binds element metadata
onto it, and renders still images headlessly.

It provides:
- Metadata binding by stable element identifiers
- Attribute filtering over bound elements
- Section plane clipping and still image export`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(logLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(infoCmd(&configPath))
	cmd.AddCommand(exportCmd(&configPath))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func setupLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(configPath)
}

// loadScene loads geometry from sceneURL and, when metaPath is given,
// binds element metadata onto it.
func loadScene(ctx context.Context, cfg *config.Config, sceneURL, metaPath string) (*scene.Scene, *binder.Result, error) {
	sc := scene.NewScene("bimscape")
	sc.Camera.FOV = cfg.Camera.FOV
	sc.Camera.Near = cfg.Camera.Near
	sc.Camera.Far = cfg.Camera.Far

	var elems []semantic.Element
	if metaPath != "" {
		var err error
		elems, err = semantic.OpenElements(metaPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load metadata: %w", err)
		}
	}

	bd := binder.New(sc)
	res, err := bd.Load(ctx, sceneURL, elems, nil)
	if err != nil {
		return nil, nil, err
	}
	binder.PlaceCamera(sc.Camera, res.BoundingVolume)
	return sc, res, nil
}

func infoCmd(configPath *string) *cobra.Command {
	var metaPath string

	cmd := &cobra.Command{
		Use:   "info <scene-file-or-url>",
		Short: "Load a scene and print binding statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			sc, res, err := loadScene(cmd.Context(), cfg, args[0], metaPath)
			if err != nil {
				return err
			}
			var leaves, visible int
			sc.WalkDown(func(nd *scene.Node) bool {
				if nd.IsLeaf() {
					leaves++
					if nd.IsVisible() {
						visible++
					}
				}
				return scene.Continue
			})
			bb := res.BoundingVolume
			fmt.Printf("scene:    %s\n", args[0])
			fmt.Printf("objects:  %d (%d visible)\n", leaves, visible)
			fmt.Printf("bound:    %d\n", res.Bound)
			fmt.Printf("generic:  %d\n", res.Generic)
			fmt.Printf("bounds:   min %v max %v\n", bb.Min, bb.Max)
			return nil
		},
	}
	cmd.Flags().StringVarP(&metaPath, "meta", "m", "", "Element metadata JSON file")
	return cmd
}

func exportCmd(configPath *string) *cobra.Command {
	var (
		metaPath    string
		outPath     string
		axis        string
		types       []string
		clips       []string
		width       int
		height      int
		format      string
		quality     int
		transparent bool
	)

	cmd := &cobra.Command{
		Use:   "export <scene-file-or-url>",
		Short: "Load a scene and export a still image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			sc, _, err := loadScene(cmd.Context(), cfg, args[0], metaPath)
			if err != nil {
				return err
			}

			if width <= 0 {
				width = cfg.Export.Width
			}
			if height <= 0 {
				height = cfg.Export.Height
			}
			if format == "" {
				format = cfg.Export.Format
			}
			if quality <= 0 {
				quality = cfg.Export.Quality
			}
			opts := export.Options{
				Width:       width,
				Height:      height,
				Format:      export.Format(format),
				Quality:     quality,
				Transparent: transparent,
			}

			rd := render.NewSoftware(image.Pt(width, height))

			if len(types) > 0 {
				fr := filter.New(sc).Apply(filter.Criteria{Types: types})
				slog.Info("filter applied", "types", types,
					"matched", fr.MatchCount, "total", fr.TotalCount)
			}
			if len(clips) > 0 {
				cc := clipping.New(rd, sc)
				cc.HelperSize = cfg.Sections.HelperSize
				for _, cs := range clips {
					ax, off, err := parseClip(cs)
					if err != nil {
						return err
					}
					cc.CreatePreset(cs, ax, off)
				}
			}

			ex := export.New(rd, sc)

			var res *export.Result
			if axis == "" {
				res, err = ex.Image(opts)
			} else {
				res, err = ex.Orthographic(export.Axis(axis), opts)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, res.Blob, 0644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			slog.Info("exported", "file", outPath, "width", res.Width, "height", res.Height, "bytes", res.Size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&metaPath, "meta", "m", "", "Element metadata JSON file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "scene.png", "Output image file")
	cmd.Flags().StringVar(&axis, "axis", "", "Orthographic view axis (top, bottom, front, back, left, right)")
	cmd.Flags().StringSliceVar(&types, "types", nil, "Only show elements of these types (e.g. IfcWall,IfcDoor)")
	cmd.Flags().StringSliceVar(&clips, "clip", nil, "Section planes as axis:offset (e.g. -y:3.2)")
	cmd.Flags().IntVar(&width, "width", 0, "Output width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Output height in pixels")
	cmd.Flags().StringVar(&format, "format", "", "Image format (png, jpeg)")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPEG quality 1-100")
	cmd.Flags().BoolVar(&transparent, "transparent", false, "Transparent background (PNG only)")
	return cmd
}

// parseClip parses an axis:offset section plane argument, offset
// defaulting to 0.
func parseClip(s string) (clipping.Axis, float32, error) {
	ax, rest, found := strings.Cut(s, ":")
	var off float64
	if found {
		var err error
		off, err = strconv.ParseFloat(rest, 32)
		if err != nil {
			return "", 0, fmt.Errorf("invalid clip offset %q: %w", rest, err)
		}
	}
	switch clipping.Axis(ax) {
	case clipping.PosX, clipping.NegX, clipping.PosY, clipping.NegY, clipping.PosZ, clipping.NegZ:
		return clipping.Axis(ax), float32(off), nil
	}
	return "", 0, fmt.Errorf("invalid clip axis %q: want one of +x -x +y -y +z -z", ax)
}
