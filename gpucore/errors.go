// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "errors"

// Sentinel errors for gpucore.
var (
	// ErrLayoutMismatch is returned when a bound resource does not match its layout entry.
	ErrLayoutMismatch = errors.New("gpucore: binding does not match layout")

	// ErrInvalidTextureSize is returned for textures with a zero dimension.
	ErrInvalidTextureSize = errors.New("gpucore: invalid texture size")

	// ErrInvalidTextureFormat is returned for textures with an unknown format.
	ErrInvalidTextureFormat = errors.New("gpucore: invalid texture format")

	// ErrFrameSubmitted is returned when a frame is submitted twice.
	ErrFrameSubmitted = errors.New("gpucore: frame already submitted")

	// ErrMissingEntryPoint is returned when a shader lacks an entry point a
	// pipeline needs.
	ErrMissingEntryPoint = errors.New("gpucore: missing entry point")
)

// CompileError is returned by Device.CreateShader when the source does not
// compile. Err carries the compiler diagnostic.
type CompileError struct {
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	if e.Label == "" {
		return "gpucore: shader compile failed: " + e.Err.Error()
	}
	return "gpucore: shader " + e.Label + " compile failed: " + e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
