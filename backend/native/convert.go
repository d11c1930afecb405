// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/voxelview/gpucore"
)

// convertFormat converts gpucore.TextureFormat to gputypes.TextureFormat.
func convertFormat(format gpucore.TextureFormat) gputypes.TextureFormat {
	switch format {
	case gpucore.TextureFormatR8Uint:
		return gputypes.TextureFormatR8Uint
	case gpucore.TextureFormatRGBA8Uint:
		return gputypes.TextureFormatRGBA8Uint
	case gpucore.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case gpucore.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

func convertDimension(dim gpucore.TextureDimension) gputypes.TextureDimension {
	if dim == gpucore.TextureDimension3D {
		return gputypes.TextureDimension3D
	}
	return gputypes.TextureDimension2D
}

func convertViewDimension(dim gpucore.TextureDimension) gputypes.TextureViewDimension {
	if dim == gpucore.TextureDimension3D {
		return gputypes.TextureViewDimension3D
	}
	return gputypes.TextureViewDimension2D
}

func convertTextureUsage(usage gpucore.TextureUsage) gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if usage.Has(gpucore.TextureUsageCopySrc) {
		out |= gputypes.TextureUsageCopySrc
	}
	if usage.Has(gpucore.TextureUsageCopyDst) {
		out |= gputypes.TextureUsageCopyDst
	}
	if usage.Has(gpucore.TextureUsageTextureBinding) {
		out |= gputypes.TextureUsageTextureBinding
	}
	if usage.Has(gpucore.TextureUsageStorageBinding) {
		out |= gputypes.TextureUsageStorageBinding
	}
	if usage.Has(gpucore.TextureUsageRenderAttachment) {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

func convertBufferUsage(usage gpucore.BufferUsage) gputypes.BufferUsage {
	var out gputypes.BufferUsage
	if usage.Has(gpucore.BufferUsageCopySrc) {
		out |= gputypes.BufferUsageCopySrc
	}
	if usage.Has(gpucore.BufferUsageCopyDst) {
		out |= gputypes.BufferUsageCopyDst
	}
	if usage.Has(gpucore.BufferUsageUniform) {
		out |= gputypes.BufferUsageUniform
	}
	if usage.Has(gpucore.BufferUsageStorage) {
		out |= gputypes.BufferUsageStorage
	}
	return out
}

// convertLayoutEntry converts gpucore.LayoutEntry to gputypes.BindGroupLayoutEntry.
func convertLayoutEntry(e gpucore.LayoutEntry) gputypes.BindGroupLayoutEntry {
	result := gputypes.BindGroupLayoutEntry{Binding: e.Binding}
	if e.Visibility&gpucore.ShaderStageVertex != 0 {
		result.Visibility |= gputypes.ShaderStageVertex
	}
	if e.Visibility&gpucore.ShaderStageFragment != 0 {
		result.Visibility |= gputypes.ShaderStageFragment
	}
	if e.Visibility&gpucore.ShaderStageCompute != 0 {
		result.Visibility |= gputypes.ShaderStageCompute
	}

	switch e.Type {
	case gpucore.BindingTypeUniformBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type: gputypes.BufferBindingTypeUniform,
		}
	case gpucore.BindingTypeSampledTexture:
		layout := &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: convertViewDimension(e.ViewDimension),
		}
		switch e.SampleType {
		case gpucore.SampleTypeUint:
			layout.SampleType = gputypes.TextureSampleTypeUint
		case gpucore.SampleTypeSint:
			layout.SampleType = gputypes.TextureSampleTypeSint
		}
		result.Texture = layout
	case gpucore.BindingTypeStorageTexture:
		layout := &gputypes.StorageTextureBindingLayout{
			Access:        gputypes.StorageTextureAccessWriteOnly,
			Format:        convertFormat(e.Format),
			ViewDimension: convertViewDimension(e.ViewDimension),
		}
		switch e.Access {
		case gpucore.StorageAccessReadOnly:
			layout.Access = gputypes.StorageTextureAccessReadOnly
		case gpucore.StorageAccessReadWrite:
			layout.Access = gputypes.StorageTextureAccessReadWrite
		}
		result.Storage = layout
	}

	return result
}

// convertBindGroupEntry converts gpucore.BindGroupEntry to gputypes.BindGroupEntry.
func convertBindGroupEntry(e gpucore.BindGroupEntry) (gputypes.BindGroupEntry, error) {
	result := gputypes.BindGroupEntry{Binding: e.Binding}

	if e.Texture != nil {
		t, ok := e.Texture.(*texture)
		if !ok || t.view == nil {
			return result, ErrForeignObject
		}
		result.Resource = gputypes.TextureViewBinding{
			TextureView: t.view.NativeHandle(),
		}
		return result, nil
	}

	b, ok := e.Buffer.(*buffer)
	if !ok || b.buf == nil {
		return result, ErrForeignObject
	}
	result.Resource = gputypes.BufferBinding{
		Buffer: b.buf.NativeHandle(),
		Offset: 0,
		Size:   b.size,
	}
	return result, nil
}
