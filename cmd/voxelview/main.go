// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command voxelview opens a window and renders the voxel world, reloading
// shaders from disk as they are edited.
//
// Controls: W/S forward and back, A/D left and right, Space up, C down.
//
// With -headless N it renders N frames on a registered backend (the no-op
// HAL backend by default) and exits. This exercises shader compilation and
// the frame path without a display.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gogpu/voxelview"
	"github.com/gogpu/voxelview/backend"
	"github.com/gogpu/voxelview/backend/native"
	"github.com/gogpu/voxelview/shaders"
)

func main() {
	var (
		configPath  = flag.String("config", "", "TOML config file")
		shaderDir   = flag.String("shaders", "", "shader directory (overrides config)")
		width       = flag.Uint("width", 0, "window width (overrides config)")
		height      = flag.Uint("height", 0, "window height (overrides config)")
		debounce    = flag.Duration("debounce", 0, "shader reload debounce (overrides config)")
		headless    = flag.Int("headless", 0, "render N frames offscreen and exit")
		backendName = flag.String("backend", native.BackendNoop, "device backend for -headless")
		logLevel    = flag.String("log-level", "", "debug, info, warn or error (overrides config)")
		seed        = flag.Bool("seed", true, "write the default shaders into the shader directory if missing")
	)
	flag.Parse()

	cfg := voxelview.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = voxelview.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *shaderDir != "" {
		cfg.ShaderDir = *shaderDir
	}
	if *width > 0 && *height > 0 {
		cfg.Width, cfg.Height = uint32(*width), uint32(*height)
	}
	if *debounce > 0 {
		cfg.Debounce.Duration = *debounce
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	voxelview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *seed {
		if err := shaders.Seed(cfg.ShaderDir); err != nil {
			log.Fatal(err)
		}
	}

	if *headless > 0 {
		if err := runHeadless(cfg, *backendName, *headless); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := runWindow(cfg); err != nil {
		log.Fatal(err)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("voxelview: log level %q: %w", s, err)
	}
	return level, nil
}

func runHeadless(cfg voxelview.Config, backendName string, frames int) error {
	dev, release, err := backend.Open(backendName)
	if err != nil {
		return err
	}
	defer release()

	eng, err := voxelview.New(dev, voxelview.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer eng.Close()

	start := time.Now()
	var stats voxelview.FrameStats
	for i := 0; i < frames; i++ {
		if stats, err = eng.Frame(); err != nil {
			return err
		}
	}
	voxelview.Logger().Info("headless run finished",
		"frames", frames,
		"elapsed", time.Since(start),
		"dispatch", stats.Dispatch,
		"compute_skipped", stats.ComputeSkipped,
		"render_skipped", stats.RenderSkipped)
	return nil
}
