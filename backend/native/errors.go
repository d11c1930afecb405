// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrGPUTimeout is returned when a submitted frame does not complete
	// within FenceTimeout.
	ErrGPUTimeout = errors.New("native: GPU timeout")

	// ErrForeignObject is returned when an object created by another device
	// is passed in.
	ErrForeignObject = errors.New("native: object belongs to another device")
)
