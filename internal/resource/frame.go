// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"fmt"

	"github.com/gogpu/voxelview/gpucore"
)

// ComputePassDesc describes a compute pass.
type ComputePassDesc struct {
	Label     string
	Pipeline  ComputePipelineHandle
	BindGroup BindGroupHandle
}

// RenderPassDesc describes a render pass on the frame's color target.
type RenderPassDesc struct {
	Label     string
	Pipeline  RenderPipelineHandle
	BindGroup BindGroupHandle
}

// Frame records one frame of commands through handles. Handles are resolved
// when a pass begins, so a pass can never be recorded against a destroyed
// object.
type Frame struct {
	m      *Manager
	native gpucore.Frame
	done   bool
}

// BeginFrame starts recording a frame. Only one frame can be recorded at a
// time.
func (m *Manager) BeginFrame() (*Frame, error) {
	m.checkOpen("BeginFrame")
	if m.frame != nil {
		violate("BeginFrame", nil, "previous frame was not submitted")
	}
	native, err := m.device.BeginFrame()
	if err != nil {
		return nil, fmt.Errorf("resource: begin frame: %w", err)
	}
	m.frame = &Frame{m: m, native: native}
	return m.frame, nil
}

// BeginComputePass starts a compute pass with desc's pipeline and bind group
// at group 0.
func (f *Frame) BeginComputePass(desc ComputePassDesc) gpucore.ComputePass {
	const op = "BeginComputePass"
	f.checkRecording(op)
	pe := f.m.computePipelines.get(id(desc.Pipeline))
	if pe == nil {
		violate(op, desc.Pipeline, "unknown or destroyed pipeline")
	}
	bg := f.m.resolveBindGroup(op, desc.Pipeline, desc.BindGroup)
	return f.native.BeginComputePass(desc.Label, pe.obj, bg)
}

// BeginRenderPass starts a render pass with desc's pipeline and bind group
// at group 0.
func (f *Frame) BeginRenderPass(desc RenderPassDesc) gpucore.RenderPass {
	const op = "BeginRenderPass"
	f.checkRecording(op)
	pe := f.m.renderPipelines.get(id(desc.Pipeline))
	if pe == nil {
		violate(op, desc.Pipeline, "unknown or destroyed pipeline")
	}
	bg := f.m.resolveBindGroup(op, desc.Pipeline, desc.BindGroup)
	return f.native.BeginRenderPass(desc.Label, pe.obj, bg)
}

// TransitionTexture moves a texture into usage, which must be a single
// usage the texture was created with. The native barrier is recorded only
// when the texture is in a different usage, so a texture keeps its state
// across frames. It must be called outside a pass.
func (f *Frame) TransitionTexture(h TextureHandle, usage gpucore.TextureUsage) {
	const op = "TransitionTexture"
	f.checkRecording(op)
	e := f.m.textures.get(id(h))
	if e == nil {
		violate(op, h, "unknown or destroyed texture")
	}
	if usage == 0 || usage&(usage-1) != 0 {
		violate(op, h, "usage %v is not a single usage", usage)
	}
	if e.desc.Usage&usage == 0 {
		violate(op, h, "texture %q was not created with usage %v", e.desc.Label, usage)
	}
	if e.usage == usage {
		return
	}
	f.native.TransitionTexture(e.obj, e.usage, usage)
	e.usage = usage
}

// Submit ends recording and submits the frame.
func (f *Frame) Submit() error {
	f.checkRecording("Submit")
	f.done = true
	f.m.frame = nil
	if err := f.native.Submit(); err != nil {
		return fmt.Errorf("resource: submit frame: %w", err)
	}
	return nil
}

func (f *Frame) checkRecording(op string) {
	if f.done {
		violate(op, nil, "frame already submitted")
	}
}

// resolveBindGroup returns the native bind group for h after checking that it
// is fresh and was created for pipeline.
func (m *Manager) resolveBindGroup(op string, pipeline Pipeline, h BindGroupHandle) gpucore.Object {
	e := m.bindGroups.get(id(h))
	if e == nil {
		violate(op, h, "unknown or destroyed bind group")
	}
	if reason := m.staleReason(e); reason != "" {
		violate(op, h, "stale bind group: %s", reason)
	}
	if e.pipeline.pipelineKind() != pipeline.pipelineKind() || e.pipeline.pipelineID() != pipeline.pipelineID() {
		violate(op, h, "bind group was created for %s, not %s", e.pipeline, pipeline)
	}
	return e.obj
}
