// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import "errors"

var (
	// ErrDevice is wrapped by every error that originates at the graphics
	// device boundary. Use errors.Is(err, ErrDevice).
	ErrDevice = errors.New("voxelview: device error")

	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("voxelview: engine closed")

	// ErrNotPrepared is returned by Render when a reload or resize happened
	// since the last Prepare.
	ErrNotPrepared = errors.New("voxelview: render before prepare")
)

// DeviceError reports a failure of the graphics device during Op.
// It is never retried.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return "voxelview: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns both ErrDevice and the underlying error.
func (e *DeviceError) Unwrap() []error {
	return []error{ErrDevice, e.Err}
}

func deviceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DeviceError{Op: op, Err: err}
}
