// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/voxelview/internal/scene"
)

// Duration is a time.Duration written as a Go duration string ("5s") in
// config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the file form of the engine options.
//
//	shader_dir = "shaders"
//	width = 800
//	height = 600
//	debounce = "5s"
//	watch = true
//	camera_speed = 5.0
//	world_size = 16
//	log_level = "info"
type Config struct {
	ShaderDir   string   `toml:"shader_dir"`
	Width       uint32   `toml:"width"`
	Height      uint32   `toml:"height"`
	Debounce    Duration `toml:"debounce"`
	Watch       bool     `toml:"watch"`
	CameraSpeed float32  `toml:"camera_speed"`
	WorldSize   uint32   `toml:"world_size"`

	// LogLevel is read by cmd/voxelview only.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		ShaderDir:   DefaultShaderDir,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Debounce:    Duration{DefaultDebounce},
		Watch:       true,
		CameraSpeed: DefaultCameraSpeed,
		WorldSize:   scene.DefaultWorldSize,
		LogLevel:    "info",
	}
}

// LoadConfig reads a TOML config file. Keys missing from the file keep
// their DefaultConfig values; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("voxelview: load config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses TOML config data over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("voxelview: parse config: %w", err)
	}
	if (cfg.Width == 0) != (cfg.Height == 0) {
		return Config{}, fmt.Errorf("voxelview: parse config: width and height must both be set")
	}
	return cfg, nil
}

// Marshal encodes the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Options converts the config to engine options.
func (c Config) Options() []Option {
	opts := []Option{
		WithShaderDir(c.ShaderDir),
		WithSize(c.Width, c.Height),
		WithDebounce(c.Debounce.Duration),
		WithCameraSpeed(c.CameraSpeed),
		WithWorldSize(c.WorldSize),
	}
	if !c.Watch {
		opts = append(opts, WithoutWatcher())
	}
	return opts
}
