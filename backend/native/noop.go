// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/voxelview/backend"
	"github.com/gogpu/voxelview/gpucore"
)

// BackendNoop is the registry name of the no-op HAL backend.
const BackendNoop = "noop"

func init() {
	backend.Register(BackendNoop, func() (gpucore.Device, func(), error) {
		dev, release, err := NewNoopDevice()
		if err != nil {
			return nil, nil, err
		}
		return dev, release, nil
	})
}

// NewNoopDevice opens a device on the no-op HAL backend. It runs the whole
// frame path without a GPU, which suits headless runs and tests. release
// destroys the device and instance.
func NewNoopDevice() (dev *Device, release func(), err error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("native: create noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, ErrNoGPU
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, fmt.Errorf("native: open noop adapter: %w", err)
	}

	dev = NewDevice(openDev.Device, openDev.Queue, DefaultSurfaceFormat)
	release = func() {
		dev.Release()
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return dev, release, nil
}
