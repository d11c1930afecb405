// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// Device is the graphics-device boundary.
//
// Implementations allocate and free backend-native objects and record frames.
// A Device is driven from a single goroutine; implementations are not
// required to be safe for concurrent use.
//
// Resource lifecycle:
//   - Objects are created via Create* methods and freed via Destroy* methods
//   - Destroying an object while a submitted frame still uses it is undefined
//   - A destroyed object must never be passed back to the device
type Device interface {
	// CreateShader validates WGSL source and creates a shader module. It
	// returns the entry points reflected from the validated module. A source
	// that fails to validate returns a *CompileError.
	CreateShader(label, source string) (Object, *ShaderInfo, error)

	// DestroyShader releases a shader module.
	DestroyShader(shader Object)

	// CreatePipeline creates a compute or render pipeline together with its
	// bind group layout.
	CreatePipeline(desc *PipelineDescriptor) (Object, error)

	// DestroyPipeline releases a pipeline and its layouts.
	DestroyPipeline(pipeline Object)

	// CreateBindGroup binds entries against the pipeline's bind group 0 layout.
	CreateBindGroup(label string, pipeline Object, entries []BindGroupEntry) (Object, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(group Object)

	// CreateTexture allocates a texture together with its default view.
	CreateTexture(desc *TextureDescriptor) (Object, error)

	// DestroyTexture releases a texture and its view.
	DestroyTexture(texture Object)

	// WriteTexture uploads a tightly packed copy of the whole texture.
	WriteTexture(texture Object, data []byte)

	// CreateBuffer allocates a buffer.
	CreateBuffer(desc *BufferDescriptor) (Object, error)

	// DestroyBuffer releases a buffer.
	DestroyBuffer(buffer Object)

	// WriteBuffer uploads data at offset.
	WriteBuffer(buffer Object, offset uint64, data []byte)

	// Resize resizes the presentation surface.
	Resize(width, height uint32) error

	// BeginFrame starts recording one frame.
	BeginFrame() (Frame, error)
}

// Frame records the commands of one frame. Passes must be ended before the
// next pass begins and before Submit.
type Frame interface {
	// BeginComputePass starts a compute pass bound to pipeline and group 0.
	BeginComputePass(label string, pipeline, bindGroup Object) ComputePass

	// BeginRenderPass starts a render pass on the frame's color target bound
	// to pipeline and group 0.
	BeginRenderPass(label string, pipeline, bindGroup Object) RenderPass

	// TransitionTexture records a barrier moving texture from one usage to
	// another. from is zero for a texture never used by a frame. It must be
	// called outside a pass.
	TransitionTexture(texture Object, from, to TextureUsage)

	// Submit ends recording and submits the frame. A frame can be submitted once.
	Submit() error
}

// ComputePass records compute commands.
type ComputePass interface {
	// Dispatch dispatches x*y*z workgroups.
	Dispatch(x, y, z uint32)

	// End finishes the pass.
	End()
}

// RenderPass records render commands.
type RenderPass interface {
	// Draw draws non-indexed primitives.
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// End finishes the pass.
	End()
}
