// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"time"

	"github.com/gogpu/voxelview/internal/scene"
	"github.com/gogpu/voxelview/internal/watcher"
)

// Defaults used by New.
const (
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultShaderDir   = "shaders"
	DefaultCameraSpeed = 5.0
	DefaultDebounce    = watcher.DefaultDebounce
)

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := voxelview.New(dev,
//	    voxelview.WithShaderDir("./shaders"),
//	    voxelview.WithSize(1280, 720),
//	)
type Option func(*options)

type options struct {
	shaderDir   string
	width       uint32
	height      uint32
	debounce    time.Duration
	source      ChangeSource
	noWatcher   bool
	cameraSpeed float32
	worldSize   uint32
	now         func() time.Time
}

func defaultOptions() options {
	return options{
		shaderDir:   DefaultShaderDir,
		width:       DefaultWidth,
		height:      DefaultHeight,
		debounce:    DefaultDebounce,
		cameraSpeed: DefaultCameraSpeed,
		worldSize:   scene.DefaultWorldSize,
		now:         time.Now,
	}
}

// WithShaderDir sets the directory holding compute.wgsl and render.wgsl.
func WithShaderDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.shaderDir = dir
		}
	}
}

// WithSize sets the initial output resolution. Zero dimensions keep the default.
func WithSize(width, height uint32) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithDebounce sets the shader watcher's debounce window.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithChangeSource replaces the filesystem watcher with src. The engine does
// not close an injected source.
func WithChangeSource(src ChangeSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithoutWatcher disables hot reload.
func WithoutWatcher() Option {
	return func(o *options) {
		o.noWatcher = true
	}
}

// WithCameraSpeed sets the camera speed in world units per second.
func WithCameraSpeed(speed float32) Option {
	return func(o *options) {
		if speed > 0 {
			o.cameraSpeed = speed
		}
	}
}

// WithWorldSize sets the edge length of the cubic voxel world.
func WithWorldSize(n uint32) Option {
	return func(o *options) {
		if n >= 3 {
			o.worldSize = n
		}
	}
}

// WithClock sets the time source used for frame deltas.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithConfig applies every setting of cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		for _, opt := range cfg.Options() {
			opt(o)
		}
	}
}
