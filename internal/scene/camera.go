// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxelview/gpucore"
	"github.com/gogpu/voxelview/internal/resource"
)

// CameraUniformSize is the size of the WGSL Camera struct:
//
//	struct Camera {
//	    position: vec3<f32>,
//	    focal_length: f32,
//	    direction: vec3<f32>,
//	    _pad: f32,
//	}
const CameraUniformSize = 32

// Camera is a pinhole camera with a GPU uniform buffer.
type Camera struct {
	position    mgl32.Vec3
	direction   mgl32.Vec3
	focalLength float32
	buffer      resource.BufferHandle
}

// NewCamera creates a camera at the origin looking along direction.
func NewCamera(mgr *resource.Manager, direction mgl32.Vec3, focalLength float32) (*Camera, error) {
	buf, err := mgr.CreateBuffer(gpucore.BufferDescriptor{
		Label: "camera",
		Size:  CameraUniformSize,
		Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("scene: camera: %w", err)
	}
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}
	return &Camera{direction: direction, focalLength: focalLength, buffer: buf}, nil
}

// Translate moves the camera by v.
func (c *Camera) Translate(v mgl32.Vec3) { c.position = c.position.Add(v) }

// SetPosition moves the camera to p.
func (c *Camera) SetPosition(p mgl32.Vec3) { c.position = p }

// Position returns the camera position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Direction returns the unit view direction.
func (c *Camera) Direction() mgl32.Vec3 { return c.direction }

// FocalLength returns the focal length.
func (c *Camera) FocalLength() float32 { return c.focalLength }

// Bytes returns the uniform buffer contents.
func (c *Camera) Bytes() []byte {
	buf := make([]byte, CameraUniformSize)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(c.position[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(c.direction[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(c.focalLength))
	return buf
}

// UpdateBuffer pushes the camera state to its buffer.
func (c *Camera) UpdateBuffer(mgr *resource.Manager) {
	mgr.WriteBuffer(c.buffer, 0, c.Bytes())
}

// Buffer returns the uniform buffer.
func (c *Camera) Buffer() resource.BufferHandle { return c.buffer }

// BindingLayout returns the layout entry for the camera uniform.
func (c *Camera) BindingLayout(binding uint32, visibility gpucore.ShaderStage) gpucore.LayoutEntry {
	return gpucore.LayoutEntry{Binding: binding, Visibility: visibility, Type: gpucore.BindingTypeUniformBuffer}
}

// Destroy releases the buffer.
func (c *Camera) Destroy(mgr *resource.Manager) {
	if c.buffer.IsValid() {
		mgr.DestroyBuffer(c.buffer)
		c.buffer = 0
	}
}
