// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"fmt"

	"github.com/gogpu/voxelview/gpucore"
)

// id packs a slot index (high 32 bits) and a generation (low 32 bits).
// Generations start at 1, so the zero id is never issued.
type id uint64

func makeID(index, gen uint32) id {
	return id(uint64(index)<<32 | uint64(gen))
}

func (i id) index() uint32 { return uint32(i >> 32) }
func (i id) gen() uint32   { return uint32(i) }

func (i id) format(kind string) string {
	if i == 0 {
		return kind + "(invalid)"
	}
	return fmt.Sprintf("%s(%dv%d)", kind, i.index(), i.gen())
}

// ShaderHandle identifies a compiled shader module.
type ShaderHandle id

// IsValid reports whether h was ever issued. It does not report liveness.
func (h ShaderHandle) IsValid() bool { return h != 0 }

func (h ShaderHandle) String() string { return id(h).format("Shader") }

// ComputePipelineHandle identifies a compute pipeline.
type ComputePipelineHandle id

// IsValid reports whether h was ever issued. It does not report liveness.
func (h ComputePipelineHandle) IsValid() bool { return h != 0 }

func (h ComputePipelineHandle) String() string { return id(h).format("ComputePipeline") }

func (h ComputePipelineHandle) pipelineKind() gpucore.PipelineKind { return gpucore.PipelineCompute }
func (h ComputePipelineHandle) pipelineID() id                     { return id(h) }

// RenderPipelineHandle identifies a render pipeline.
type RenderPipelineHandle id

// IsValid reports whether h was ever issued. It does not report liveness.
func (h RenderPipelineHandle) IsValid() bool { return h != 0 }

func (h RenderPipelineHandle) String() string { return id(h).format("RenderPipeline") }

func (h RenderPipelineHandle) pipelineKind() gpucore.PipelineKind { return gpucore.PipelineRender }
func (h RenderPipelineHandle) pipelineID() id                     { return id(h) }

// Pipeline is either a ComputePipelineHandle or a RenderPipelineHandle.
type Pipeline interface {
	fmt.Stringer
	IsValid() bool
	pipelineKind() gpucore.PipelineKind
	pipelineID() id
}

// BindGroupHandle identifies a bind group.
type BindGroupHandle id

// IsValid reports whether h was ever issued. It does not report liveness.
func (h BindGroupHandle) IsValid() bool { return h != 0 }

func (h BindGroupHandle) String() string { return id(h).format("BindGroup") }

// TextureHandle identifies a texture.
type TextureHandle id

// IsValid reports whether h was ever issued. It does not report liveness.
func (h TextureHandle) IsValid() bool { return h != 0 }

func (h TextureHandle) String() string { return id(h).format("Texture") }

// BufferHandle identifies a buffer.
type BufferHandle id

// IsValid reports whether h was ever issued. It does not report liveness.
func (h BufferHandle) IsValid() bool { return h != 0 }

func (h BufferHandle) String() string { return id(h).format("Buffer") }

// Binding binds a texture or a buffer at a binding index of group 0.
// Exactly one of Texture and Buffer is set.
type Binding struct {
	Binding uint32
	Texture TextureHandle
	Buffer  BufferHandle
}

// TextureBinding returns a Binding for a texture.
func TextureBinding(binding uint32, tex TextureHandle) Binding {
	return Binding{Binding: binding, Texture: tex}
}

// BufferBinding returns a Binding for a buffer.
func BufferBinding(binding uint32, buf BufferHandle) Binding {
	return Binding{Binding: binding, Buffer: buf}
}
