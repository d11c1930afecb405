// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"github.com/gogpu/voxelview/gpucore"
	"github.com/gogpu/voxelview/internal/resource"
)

// FullScreenVertices is the vertex count of the procedural full-screen
// triangle drawn by the render stage.
const FullScreenVertices = 3

// FrameStats describes what Render recorded.
type FrameStats struct {
	// Dispatch is the compute workgroup grid, zero when the compute stage
	// was skipped.
	Dispatch [3]uint32

	// Vertices is the number of vertices drawn, zero when the render stage
	// was skipped.
	Vertices uint32

	ComputeSkipped bool
	RenderSkipped  bool
}

// Prepare pushes camera, globals and voxel data to the GPU and recreates
// both bind groups against the current pipelines and resources. A stage
// without a pipeline gets no bind group.
func (e *Engine) Prepare() error {
	if e.closed {
		return ErrClosed
	}
	e.prepared = false

	e.globals.SetTime(float32(e.elapsed))
	e.globals.SetFrame(e.frame)
	e.camera.UpdateBuffer(e.mgr)
	e.globals.UpdateBuffer(e.mgr)
	e.world.UpdateTexture(e.mgr)

	if e.computeBindGroup.IsValid() {
		e.mgr.DestroyBindGroup(e.computeBindGroup)
		e.computeBindGroup = 0
	}
	if e.renderBindGroup.IsValid() {
		e.mgr.DestroyBindGroup(e.renderBindGroup)
		e.renderBindGroup = 0
	}

	if e.computePipeline.IsValid() && e.output.IsValid() {
		bg, err := e.mgr.CreateBindGroup("compute", e.computePipeline, []resource.Binding{
			resource.TextureBinding(0, e.world.Texture()),
			resource.TextureBinding(1, e.output),
			resource.BufferBinding(2, e.globals.Buffer()),
			resource.BufferBinding(3, e.camera.Buffer()),
		})
		if err != nil {
			return deviceError("create compute bind group", err)
		}
		e.computeBindGroup = bg
	}
	if e.renderPipeline.IsValid() && e.output.IsValid() {
		bg, err := e.mgr.CreateBindGroup("render", e.renderPipeline, []resource.Binding{
			resource.TextureBinding(0, e.output),
			resource.BufferBinding(1, e.globals.Buffer()),
		})
		if err != nil {
			return deviceError("create render bind group", err)
		}
		e.renderBindGroup = bg
	}

	e.prepared = true
	return nil
}

// Render records and submits one frame: a compute pass covering the output
// image, then a render pass drawing a full-screen triangle. A stage without
// a pipeline is skipped. Render must follow Prepare.
func (e *Engine) Render() (FrameStats, error) {
	var stats FrameStats
	if e.closed {
		return stats, ErrClosed
	}
	if !e.prepared {
		return stats, ErrNotPrepared
	}

	frame, err := e.mgr.BeginFrame()
	if err != nil {
		return stats, deviceError("begin frame", err)
	}

	// The output image is written as storage by the compute pass and sampled
	// by the render pass; it stays sampleable between frames.
	if e.computeBindGroup.IsValid() {
		frame.TransitionTexture(e.output, gpucore.TextureUsageStorageBinding)
		x, y, z := gpucore.WorkgroupCount(e.width, e.height, e.mgr.WorkgroupSize(e.computeShader))
		pass := frame.BeginComputePass(resource.ComputePassDesc{
			Label:     "compute",
			Pipeline:  e.computePipeline,
			BindGroup: e.computeBindGroup,
		})
		pass.Dispatch(x, y, z)
		pass.End()
		stats.Dispatch = [3]uint32{x, y, z}
	} else {
		stats.ComputeSkipped = true
	}

	if e.renderBindGroup.IsValid() {
		frame.TransitionTexture(e.output, gpucore.TextureUsageTextureBinding)
		pass := frame.BeginRenderPass(resource.RenderPassDesc{
			Label:     "render",
			Pipeline:  e.renderPipeline,
			BindGroup: e.renderBindGroup,
		})
		pass.Draw(FullScreenVertices, 1, 0, 0)
		pass.End()
		stats.Vertices = FullScreenVertices
	} else {
		stats.RenderSkipped = true
	}

	e.logSkips(stats)

	if err := frame.Submit(); err != nil {
		return stats, deviceError("submit frame", err)
	}
	e.frame++
	return stats, nil
}

// logSkips logs when a stage starts or stops being skipped.
func (e *Engine) logSkips(stats FrameStats) {
	if stats.ComputeSkipped != e.computeSkipped {
		e.computeSkipped = stats.ComputeSkipped
		Logger().Debug("voxelview: compute stage", "skipped", stats.ComputeSkipped)
	}
	if stats.RenderSkipped != e.renderSkipped {
		e.renderSkipped = stats.RenderSkipped
		Logger().Debug("voxelview: render stage", "skipped", stats.RenderSkipped)
	}
}
