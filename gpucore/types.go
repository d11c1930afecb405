// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "fmt"

// Object is a backend-native GPU object returned by a [Device].
// It is opaque to everything except the device that created it.
type Object interface{}

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatUndefined is the zero value and is never valid for a texture.
	TextureFormatUndefined TextureFormat = iota

	// TextureFormatR8Uint is one 8-bit unsigned integer channel.
	TextureFormatR8Uint

	// TextureFormatRGBA8Uint is four 8-bit unsigned integer channels.
	TextureFormatRGBA8Uint

	// TextureFormatRGBA8Unorm is four 8-bit normalized channels.
	TextureFormatRGBA8Unorm

	// TextureFormatBGRA8Unorm is four 8-bit normalized channels in BGRA order.
	// It is the usual swapchain format.
	TextureFormatBGRA8Unorm
)

// String returns the string representation of TextureFormat.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatUndefined:
		return "Undefined"
	case TextureFormatR8Uint:
		return "R8Uint"
	case TextureFormatRGBA8Uint:
		return "RGBA8Uint"
	case TextureFormatRGBA8Unorm:
		return "RGBA8Unorm"
	case TextureFormatBGRA8Unorm:
		return "BGRA8Unorm"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// BytesPerPixel returns the size of one texel in bytes.
func (f TextureFormat) BytesPerPixel() uint32 {
	switch f {
	case TextureFormatR8Uint:
		return 1
	case TextureFormatRGBA8Uint, TextureFormatRGBA8Unorm, TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}

// TextureDimension is the dimensionality of a texture.
type TextureDimension uint32

// Texture dimensions.
const (
	TextureDimension2D TextureDimension = iota
	TextureDimension3D
)

// String returns the string representation of TextureDimension.
func (d TextureDimension) String() string {
	switch d {
	case TextureDimension2D:
		return "2D"
	case TextureDimension3D:
		return "3D"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// TextureUsage is a bitmask specifying how a texture will be used.
type TextureUsage uint32

// Texture usage flags.
const (
	// TextureUsageCopySrc indicates the texture can be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << 0

	// TextureUsageCopyDst indicates the texture can be used as a copy destination.
	TextureUsageCopyDst TextureUsage = 1 << 1

	// TextureUsageTextureBinding indicates the texture can be bound as a sampled texture.
	TextureUsageTextureBinding TextureUsage = 1 << 2

	// TextureUsageStorageBinding indicates the texture can be bound as a storage texture.
	TextureUsageStorageBinding TextureUsage = 1 << 3

	// TextureUsageRenderAttachment indicates the texture can be used as a render target.
	TextureUsageRenderAttachment TextureUsage = 1 << 4
)

// Has reports whether all bits of flag are set.
func (u TextureUsage) Has(flag TextureUsage) bool {
	return u&flag == flag
}

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 0

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 1

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 2

	// BufferUsageStorage indicates the buffer can be used as a storage buffer.
	BufferUsageStorage BufferUsage = 1 << 3
)

// Has reports whether all bits of flag are set.
func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

// Extent3D is the size of a texture.
type Extent3D struct {
	Width              uint32
	Height             uint32
	DepthOrArrayLayers uint32
}

// TextureDescriptor describes a texture.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Size is the texture size. DepthOrArrayLayers is 1 for 2D textures.
	Size Extent3D

	// Dimension is 2D or 3D.
	Dimension TextureDimension

	// Format is the texel format.
	Format TextureFormat

	// Usage is the set of allowed usages.
	Usage TextureUsage
}

// Validate returns an error if the descriptor cannot describe a real texture.
func (d *TextureDescriptor) Validate() error {
	if d.Size.Width == 0 || d.Size.Height == 0 || d.Size.DepthOrArrayLayers == 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidTextureSize,
			d.Size.Width, d.Size.Height, d.Size.DepthOrArrayLayers)
	}
	if d.Format.BytesPerPixel() == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTextureFormat, d.Format)
	}
	if d.Dimension == TextureDimension2D && d.Size.DepthOrArrayLayers != 1 {
		return fmt.Errorf("%w: 2D texture with depth %d", ErrInvalidTextureSize, d.Size.DepthOrArrayLayers)
	}
	return nil
}

// ByteSize returns the number of bytes of a tightly packed upload of the
// whole texture.
func (d *TextureDescriptor) ByteSize() int {
	return int(d.Size.Width) * int(d.Size.Height) * int(d.Size.DepthOrArrayLayers) * int(d.Format.BytesPerPixel())
}

// BufferDescriptor describes a buffer.
type BufferDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage is the set of allowed usages.
	Usage BufferUsage
}

// BindGroupEntry binds one native object to a binding index.
// Exactly one of Texture and Buffer is non-nil.
type BindGroupEntry struct {
	Binding uint32
	Texture Object
	Buffer  Object
}
