// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shaders embeds the default WGSL sources for the compute and
// render stages.
//
// The engine always compiles shaders from a directory on disk so they can
// be edited live. Seed populates such a directory with these defaults.
package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Shader names. A shader named n lives in n + Ext.
const (
	Compute = "compute"
	Render  = "render"
	Ext     = ".wgsl"
)

//go:embed compute.wgsl
var computeSource string

//go:embed render.wgsl
var renderSource string

// Source returns the embedded source for name.
func Source(name string) (string, bool) {
	switch name {
	case Compute:
		return computeSource, true
	case Render:
		return renderSource, true
	default:
		return "", false
	}
}

// Path returns the file path of shader name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+Ext)
}

// Seed writes the embedded shaders into dir, creating it if needed.
// Existing files are left untouched.
func Seed(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("shaders: %w", err)
	}
	for _, name := range []string{Compute, Render} {
		path := Path(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("shaders: %w", err)
		}
		src, _ := Source(name)
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			return fmt.Errorf("shaders: %w", err)
		}
	}
	return nil
}
