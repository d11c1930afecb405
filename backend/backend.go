// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/voxelview/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory opens a device. release frees the device and everything the
// factory allocated; it is called once, after the engine using the device
// is closed.
type Factory func() (dev gpucore.Device, release func(), err error)
