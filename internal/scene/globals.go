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

// GlobalsUniformSize is the size of the WGSL Globals struct:
//
//	struct Globals {
//	    resolution: vec2<f32>,
//	    time: f32,
//	    frame: u32,
//	}
const GlobalsUniformSize = 16

// Globals are per-frame parameters shared by both stages.
type Globals struct {
	size   mgl32.Vec2
	time   float32
	frame  uint32
	buffer resource.BufferHandle
}

// NewGlobals creates the globals buffer for an output of the given size.
func NewGlobals(mgr *resource.Manager, width, height float32) (*Globals, error) {
	buf, err := mgr.CreateBuffer(gpucore.BufferDescriptor{
		Label: "globals",
		Size:  GlobalsUniformSize,
		Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("scene: globals: %w", err)
	}
	return &Globals{size: mgl32.Vec2{width, height}, buffer: buf}, nil
}

// SetSize sets the output resolution.
func (g *Globals) SetSize(width, height float32) { g.size = mgl32.Vec2{width, height} }

// Size returns the output resolution.
func (g *Globals) Size() mgl32.Vec2 { return g.size }

// SetTime sets the elapsed time in seconds.
func (g *Globals) SetTime(t float32) { g.time = t }

// Time returns the elapsed time in seconds.
func (g *Globals) Time() float32 { return g.time }

// SetFrame sets the frame counter.
func (g *Globals) SetFrame(n uint32) { g.frame = n }

// Frame returns the frame counter.
func (g *Globals) Frame() uint32 { return g.frame }

// Bytes returns the uniform buffer contents.
func (g *Globals) Bytes() []byte {
	buf := make([]byte, GlobalsUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.size.X()))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.size.Y()))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.time))
	binary.LittleEndian.PutUint32(buf[12:], g.frame)
	return buf
}

// UpdateBuffer pushes the globals to their buffer.
func (g *Globals) UpdateBuffer(mgr *resource.Manager) {
	mgr.WriteBuffer(g.buffer, 0, g.Bytes())
}

// Buffer returns the uniform buffer.
func (g *Globals) Buffer() resource.BufferHandle { return g.buffer }

// BindingLayout returns the layout entry for the globals uniform.
func (g *Globals) BindingLayout(binding uint32, visibility gpucore.ShaderStage) gpucore.LayoutEntry {
	return gpucore.LayoutEntry{Binding: binding, Visibility: visibility, Type: gpucore.BindingTypeUniformBuffer}
}

// Destroy releases the buffer.
func (g *Globals) Destroy(mgr *resource.Manager) {
	if g.buffer.IsValid() {
		mgr.DestroyBuffer(g.buffer)
		g.buffer = 0
	}
}
