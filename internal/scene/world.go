// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"fmt"

	"github.com/gogpu/voxelview/gpucore"
	"github.com/gogpu/voxelview/internal/resource"
)

// DefaultWorldSize is the edge length of the default voxel volume.
const DefaultWorldSize = 16

// VoxelWorld is a dense volume of 8-bit voxels backed by a 3D R8Uint texture.
type VoxelWorld struct {
	sx, sy, sz uint32
	voxels     []byte
	dirty      bool
	texture    resource.TextureHandle
}

// NewVoxelWorld allocates an empty sx*sy*sz world and its texture.
func NewVoxelWorld(mgr *resource.Manager, sx, sy, sz uint32) (*VoxelWorld, error) {
	tex, err := mgr.CreateTexture(gpucore.TextureDescriptor{
		Label:     "voxel-world",
		Size:      gpucore.Extent3D{Width: sx, Height: sy, DepthOrArrayLayers: sz},
		Dimension: gpucore.TextureDimension3D,
		Format:    gpucore.TextureFormatR8Uint,
		Usage:     gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("scene: voxel world: %w", err)
	}
	return &VoxelWorld{
		sx: sx, sy: sy, sz: sz,
		voxels:  make([]byte, int(sx)*int(sy)*int(sz)),
		dirty:   true,
		texture: tex,
	}, nil
}

// Size returns the world extents.
func (w *VoxelWorld) Size() (x, y, z uint32) {
	return w.sx, w.sy, w.sz
}

func (w *VoxelWorld) index(x, y, z uint32) (int, bool) {
	if x >= w.sx || y >= w.sy || z >= w.sz {
		return 0, false
	}
	return int(x) + int(w.sx)*(int(y)+int(w.sy)*int(z)), true
}

// SetVoxelAt stores value at (x, y, z). Out of range positions are ignored.
func (w *VoxelWorld) SetVoxelAt(value uint8, x, y, z uint32) {
	i, ok := w.index(x, y, z)
	if !ok || w.voxels[i] == value {
		return
	}
	w.voxels[i] = value
	w.dirty = true
}

// VoxelAt returns the voxel at (x, y, z), or 0 out of range.
func (w *VoxelWorld) VoxelAt(x, y, z uint32) uint8 {
	i, ok := w.index(x, y, z)
	if !ok {
		return 0
	}
	return w.voxels[i]
}

// Fill sets every voxel to value.
func (w *VoxelWorld) Fill(value uint8) {
	for i := range w.voxels {
		w.voxels[i] = value
	}
	w.dirty = true
}

// Dirty reports whether CPU changes are waiting to be uploaded.
func (w *VoxelWorld) Dirty() bool { return w.dirty }

// UpdateTexture uploads the volume if it changed since the last upload.
// It reports whether an upload happened.
func (w *VoxelWorld) UpdateTexture(mgr *resource.Manager) bool {
	if !w.dirty {
		return false
	}
	mgr.WriteTexture(w.texture, w.voxels)
	w.dirty = false
	return true
}

// Texture returns the volume texture.
func (w *VoxelWorld) Texture() resource.TextureHandle { return w.texture }

// BindingLayout returns the layout entry for sampling the volume from the
// compute stage.
func (w *VoxelWorld) BindingLayout(binding uint32) gpucore.LayoutEntry {
	return gpucore.LayoutEntry{
		Binding:       binding,
		Visibility:    gpucore.ShaderStageCompute,
		Type:          gpucore.BindingTypeSampledTexture,
		SampleType:    gpucore.SampleTypeUint,
		ViewDimension: gpucore.TextureDimension3D,
	}
}

// Destroy releases the texture.
func (w *VoxelWorld) Destroy(mgr *resource.Manager) {
	if w.texture.IsValid() {
		mgr.DestroyTexture(w.texture)
		w.texture = 0
	}
}
