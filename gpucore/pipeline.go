// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "fmt"

// PipelineKind distinguishes compute and render pipelines.
type PipelineKind int

const (
	// PipelineCompute is a compute pipeline (entry point "main").
	PipelineCompute PipelineKind = iota

	// PipelineRender is a render pipeline (entry points "vs_main" and "fs_main").
	PipelineRender
)

// String returns the string representation of PipelineKind.
func (k PipelineKind) String() string {
	switch k {
	case PipelineCompute:
		return "compute"
	case PipelineRender:
		return "render"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Shader entry points expected by the pipelines.
const (
	ComputeEntryPoint  = "main"
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// ShaderStage is a bitmask of shader stages a binding is visible to.
type ShaderStage uint32

// Shader stages.
const (
	ShaderStageVertex   ShaderStage = 1 << 0
	ShaderStageFragment ShaderStage = 1 << 1
	ShaderStageCompute  ShaderStage = 1 << 2
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeSampledTexture is a sampled (read through textureLoad) texture binding.
	BindingTypeSampledTexture

	// BindingTypeStorageTexture is a storage texture binding.
	BindingTypeStorageTexture
)

// String returns the string representation of BindingType.
func (t BindingType) String() string {
	switch t {
	case BindingTypeUniformBuffer:
		return "UniformBuffer"
	case BindingTypeSampledTexture:
		return "SampledTexture"
	case BindingTypeStorageTexture:
		return "StorageTexture"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// SampleType is the component type a sampled texture is read as.
type SampleType uint32

// Sample types.
const (
	SampleTypeFloat SampleType = iota
	SampleTypeUint
	SampleTypeSint
)

// StorageAccess is the access mode of a storage texture.
type StorageAccess uint32

// Storage texture access modes.
const (
	StorageAccessWriteOnly StorageAccess = iota
	StorageAccessReadOnly
	StorageAccessReadWrite
)

// LayoutEntry describes a single binding in a pipeline's bind group layout.
type LayoutEntry struct {
	// Binding is the @binding index in group 0.
	Binding uint32

	// Visibility is the set of stages the binding is visible to.
	Visibility ShaderStage

	// Type is the kind of resource bound at this index.
	Type BindingType

	// SampleType applies to sampled textures.
	SampleType SampleType

	// ViewDimension applies to textures.
	ViewDimension TextureDimension

	// Format applies to storage textures.
	Format TextureFormat

	// Access applies to storage textures.
	Access StorageAccess
}

// IsTexture reports whether the entry binds a texture.
func (e LayoutEntry) IsTexture() bool {
	return e.Type == BindingTypeSampledTexture || e.Type == BindingTypeStorageTexture
}

// CheckTexture returns an error if a texture described by desc cannot be
// bound at this entry.
func (e LayoutEntry) CheckTexture(desc *TextureDescriptor) error {
	switch e.Type {
	case BindingTypeSampledTexture:
		if !desc.Usage.Has(TextureUsageTextureBinding) {
			return fmt.Errorf("%w: binding %d needs TextureBinding usage", ErrLayoutMismatch, e.Binding)
		}
	case BindingTypeStorageTexture:
		if !desc.Usage.Has(TextureUsageStorageBinding) {
			return fmt.Errorf("%w: binding %d needs StorageBinding usage", ErrLayoutMismatch, e.Binding)
		}
		if desc.Format != e.Format {
			return fmt.Errorf("%w: binding %d format %s, texture %s", ErrLayoutMismatch, e.Binding, e.Format, desc.Format)
		}
	default:
		return fmt.Errorf("%w: binding %d is %s, got a texture", ErrLayoutMismatch, e.Binding, e.Type)
	}
	if desc.Dimension != e.ViewDimension {
		return fmt.Errorf("%w: binding %d view %s, texture %s", ErrLayoutMismatch, e.Binding, e.ViewDimension, desc.Dimension)
	}
	return nil
}

// CheckBuffer returns an error if a buffer described by desc cannot be
// bound at this entry.
func (e LayoutEntry) CheckBuffer(desc *BufferDescriptor) error {
	if e.Type != BindingTypeUniformBuffer {
		return fmt.Errorf("%w: binding %d is %s, got a buffer", ErrLayoutMismatch, e.Binding, e.Type)
	}
	if !desc.Usage.Has(BufferUsageUniform) {
		return fmt.Errorf("%w: binding %d needs Uniform usage", ErrLayoutMismatch, e.Binding)
	}
	return nil
}

// PipelineDescriptor describes a compute or render pipeline.
type PipelineDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Kind selects compute or render.
	Kind PipelineKind

	// Shader is the native shader module.
	Shader Object

	// Layout is the bind group 0 layout.
	Layout []LayoutEntry
}
