// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"github.com/gogpu/voxelview/gpucore"
)

// OutputFormat is the texel format of the intermediate image.
const OutputFormat = gpucore.TextureFormatRGBA8Uint

// outputUsage is the usage of the intermediate image: written by the compute
// stage, sampled by the render stage, copyable for readback.
const outputUsage = gpucore.TextureUsageStorageBinding | gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopySrc

func outputDescriptor(width, height uint32) gpucore.TextureDescriptor {
	return gpucore.TextureDescriptor{
		Label:     "output",
		Size:      gpucore.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		Dimension: gpucore.TextureDimension2D,
		Format:    OutputFormat,
		Usage:     outputUsage,
	}
}

// computeLayout is the fixed compute bind group 0 layout:
//
//	0  voxel world (from the world)
//	1  output image, write-only storage
//	2  globals
//	3  camera
func (e *Engine) computeLayout() []gpucore.LayoutEntry {
	return []gpucore.LayoutEntry{
		e.world.BindingLayout(0),
		{
			Binding:       1,
			Visibility:    gpucore.ShaderStageCompute,
			Type:          gpucore.BindingTypeStorageTexture,
			Format:        OutputFormat,
			Access:        gpucore.StorageAccessWriteOnly,
			ViewDimension: gpucore.TextureDimension2D,
		},
		e.globals.BindingLayout(2, gpucore.ShaderStageCompute),
		e.camera.BindingLayout(3, gpucore.ShaderStageCompute),
	}
}

// renderLayout is the fixed render bind group 0 layout:
//
//	0  output image, sampled as uint
//	1  globals
func (e *Engine) renderLayout() []gpucore.LayoutEntry {
	return []gpucore.LayoutEntry{
		{
			Binding:       0,
			Visibility:    gpucore.ShaderStageFragment,
			Type:          gpucore.BindingTypeSampledTexture,
			SampleType:    gpucore.SampleTypeUint,
			ViewDimension: gpucore.TextureDimension2D,
		},
		e.globals.BindingLayout(1, gpucore.ShaderStageFragment),
	}
}
