// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/voxelview/gpucore"
)

// ClearColor is the render target clear color.
var ClearColor = gputypes.Color{R: 0, G: 0, B: 0, A: 1}

// frame records one command buffer.
type frame struct {
	d       *Device
	encoder hal.CommandEncoder
	target  hal.TextureView
	err     error
	done    bool
}

// BeginFrame starts a command encoder for one frame.
func (d *Device) BeginFrame() (gpucore.Frame, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "voxelview_frame",
	})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("voxelview_frame"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	return &frame{d: d, encoder: encoder, target: d.target()}, nil
}

func (f *frame) BeginComputePass(label string, pipelineObj, groupObj gpucore.Object) gpucore.ComputePass {
	p, okP := pipelineObj.(*pipeline)
	g, okG := groupObj.(*bindGroup)
	if !okP || !okG || p.compute == nil || g.group == nil {
		f.fail(fmt.Errorf("native: compute pass %q: %w", label, ErrForeignObject))
		return nopPass{}
	}
	pass := f.encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: label})
	pass.SetPipeline(p.compute)
	pass.SetBindGroup(0, g.group, nil)
	return &computePass{pass: pass}
}

func (f *frame) BeginRenderPass(label string, pipelineObj, groupObj gpucore.Object) gpucore.RenderPass {
	p, okP := pipelineObj.(*pipeline)
	g, okG := groupObj.(*bindGroup)
	if !okP || !okG || p.render == nil || g.group == nil {
		f.fail(fmt.Errorf("native: render pass %q: %w", label, ErrForeignObject))
		return nopPass{}
	}
	if f.target == nil {
		f.fail(fmt.Errorf("native: render pass %q: no render target", label))
		return nopPass{}
	}
	pass := f.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       f.target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: ClearColor,
		}},
	})
	pass.SetPipeline(p.render)
	pass.SetBindGroup(0, g.group, nil)
	return &renderPass{pass: pass}
}

// TransitionTexture records a full-range barrier on texture.
func (f *frame) TransitionTexture(obj gpucore.Object, from, to gpucore.TextureUsage) {
	t, ok := obj.(*texture)
	if !ok || t.tex == nil {
		f.fail(fmt.Errorf("native: transition texture: %w", ErrForeignObject))
		return
	}
	f.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Range:   hal.TextureRange{Aspect: gputypes.TextureAspectAll},
		Usage: hal.TextureUsageTransition{
			OldUsage: convertTextureUsage(from),
			NewUsage: convertTextureUsage(to),
		},
	}})
}

func (f *frame) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Submit ends encoding, submits the command buffer and waits for the GPU.
func (f *frame) Submit() error {
	if f.done {
		return gpucore.ErrFrameSubmitted
	}
	f.done = true
	if f.err != nil {
		f.encoder.DiscardEncoding()
		return f.err
	}

	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer f.d.device.FreeCommandBuffer(cmdBuf)

	fence, err := f.d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer f.d.device.DestroyFence(fence)

	if err := f.d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	ok, err := f.d.device.Wait(fence, 1, FenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrGPUTimeout, FenceTimeout)
	}
	return nil
}

type computePass struct {
	pass hal.ComputePassEncoder
}

func (p *computePass) Dispatch(x, y, z uint32) { p.pass.Dispatch(x, y, z) }
func (p *computePass) End()                    { p.pass.End() }

type renderPass struct {
	pass hal.RenderPassEncoder
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) End() { p.pass.End() }

// nopPass stands in for a pass that could not be started; the frame
// reports the failure on Submit.
type nopPass struct{}

func (nopPass) Dispatch(_, _, _ uint32) {}
func (nopPass) Draw(_, _, _, _ uint32)  {}
func (nopPass) End()                    {}
