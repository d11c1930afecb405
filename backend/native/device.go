// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package native implements the voxelview device on gogpu/wgpu's HAL.
//
// WGSL is validated with gogpu/naga before a shader module is created, so
// syntax and type errors surface as *gpucore.CompileError instead of device
// failures. Frames are recorded into a single command encoder and submitted
// with a fence wait.
package native

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/voxelview"
	"github.com/gogpu/voxelview/gpucore"
)

// FenceTimeout is the maximum time Submit waits for the GPU.
const FenceTimeout = 5 * time.Second

// DefaultSurfaceFormat is the render target format used when none is given.
const DefaultSurfaceFormat = gputypes.TextureFormatBGRA8Unorm

type shader struct {
	label  string
	module hal.ShaderModule
}

type pipeline struct {
	kind     gpucore.PipelineKind
	bgLayout hal.BindGroupLayout
	layout   hal.PipelineLayout
	compute  hal.ComputePipeline
	render   hal.RenderPipeline
}

type bindGroup struct {
	group hal.BindGroup
}

type texture struct {
	tex  hal.Texture
	view hal.TextureView
	desc gpucore.TextureDescriptor
}

type buffer struct {
	buf  hal.Buffer
	size uint64
}

// Device implements gpucore.Device on a hal.Device and hal.Queue.
//
// The render stage draws into the surface view set with SetSurfaceView. When
// none is set, Resize keeps an offscreen target of the surface size so the
// device can run headless.
//
// Device is not safe for concurrent use.
type Device struct {
	device hal.Device
	queue  hal.Queue

	format        gputypes.TextureFormat
	width, height uint32

	surfaceView hal.TextureView
	offscreen   *texture
}

var _ gpucore.Device = (*Device)(nil)

// NewDevice wraps device and queue. format is the render target format;
// zero selects DefaultSurfaceFormat.
func NewDevice(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *Device {
	if format == gputypes.TextureFormatUndefined {
		format = DefaultSurfaceFormat
	}
	return &Device{device: device, queue: queue, format: format}
}

// SetSurfaceView sets the view the render stage draws into for the next
// frames. nil switches back to the offscreen target.
func (d *Device) SetSurfaceView(view hal.TextureView) {
	d.surfaceView = view
}

// SurfaceFormat returns the render target format.
func (d *Device) SurfaceFormat() gputypes.TextureFormat {
	return d.format
}

// Release destroys the offscreen target. Objects handed out through the
// gpucore.Device methods must be destroyed by their owner first.
func (d *Device) Release() {
	d.destroyOffscreen()
}

// === Shaders ===

// CreateShader validates source with naga, reflects its entry points and
// creates a WGSL shader module.
func (d *Device) CreateShader(label, source string) (gpucore.Object, *gpucore.ShaderInfo, error) {
	info, err := gpucore.CompileWGSL(source)
	if err != nil {
		return nil, nil, &gpucore.CompileError{Label: label, Err: err}
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("native: create shader module %q: %w", label, err)
	}
	voxelview.Logger().Debug("native: shader module created", "label", label, "bytes", len(source),
		"entry_points", len(info.EntryPoints))
	return &shader{label: label, module: module}, info, nil
}

func (d *Device) DestroyShader(obj gpucore.Object) {
	if s, ok := obj.(*shader); ok && s.module != nil {
		d.device.DestroyShaderModule(s.module)
		s.module = nil
	}
}

// === Pipelines ===

func (d *Device) CreatePipeline(desc *gpucore.PipelineDescriptor) (gpucore.Object, error) {
	s, ok := desc.Shader.(*shader)
	if !ok || s.module == nil {
		return nil, fmt.Errorf("native: create pipeline %q: %w", desc.Label, ErrForeignObject)
	}

	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(desc.Layout))
	for _, e := range desc.Layout {
		entries = append(entries, convertLayoutEntry(e))
	}

	p := &pipeline{kind: desc.Kind}
	var err error
	p.bgLayout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label + "_bgl",
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create bind group layout %q: %w", desc.Label, err)
	}
	p.layout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pl",
		BindGroupLayouts: []hal.BindGroupLayout{p.bgLayout},
	})
	if err != nil {
		d.destroyPipeline(p)
		return nil, fmt.Errorf("native: create pipeline layout %q: %w", desc.Label, err)
	}

	switch desc.Kind {
	case gpucore.PipelineCompute:
		p.compute, err = d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:  desc.Label,
			Layout: p.layout,
			Compute: hal.ComputeState{
				Module:     s.module,
				EntryPoint: gpucore.ComputeEntryPoint,
			},
		})
	case gpucore.PipelineRender:
		p.render, err = d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  desc.Label,
			Layout: p.layout,
			Vertex: hal.VertexState{
				Module:     s.module,
				EntryPoint: gpucore.VertexEntryPoint,
			},
			Fragment: &hal.FragmentState{
				Module:     s.module,
				EntryPoint: gpucore.FragmentEntryPoint,
				Targets: []gputypes.ColorTargetState{{
					Format:    d.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				}},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: gputypes.PrimitiveTopologyTriangleList,
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	default:
		err = fmt.Errorf("unknown pipeline kind %v", desc.Kind)
	}
	if err != nil {
		d.destroyPipeline(p)
		return nil, fmt.Errorf("native: create %s pipeline %q: %w", desc.Kind, desc.Label, err)
	}

	voxelview.Logger().Debug("native: pipeline created", "kind", desc.Kind, "label", desc.Label, "bindings", len(entries))
	return p, nil
}

func (d *Device) DestroyPipeline(obj gpucore.Object) {
	if p, ok := obj.(*pipeline); ok {
		d.destroyPipeline(p)
	}
}

func (d *Device) destroyPipeline(p *pipeline) {
	if p.compute != nil {
		d.device.DestroyComputePipeline(p.compute)
		p.compute = nil
	}
	if p.render != nil {
		d.device.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.layout != nil {
		d.device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.bgLayout != nil {
		d.device.DestroyBindGroupLayout(p.bgLayout)
		p.bgLayout = nil
	}
}

// === Bind groups ===

func (d *Device) CreateBindGroup(label string, obj gpucore.Object, entries []gpucore.BindGroupEntry) (gpucore.Object, error) {
	p, ok := obj.(*pipeline)
	if !ok || p.bgLayout == nil {
		return nil, fmt.Errorf("native: create bind group %q: %w", label, ErrForeignObject)
	}

	native := make([]gputypes.BindGroupEntry, 0, len(entries))
	for _, e := range entries {
		entry, err := convertBindGroupEntry(e)
		if err != nil {
			return nil, fmt.Errorf("native: create bind group %q: %w", label, err)
		}
		native = append(native, entry)
	}

	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   label,
		Layout:  p.bgLayout,
		Entries: native,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create bind group %q: %w", label, err)
	}
	return &bindGroup{group: group}, nil
}

func (d *Device) DestroyBindGroup(obj gpucore.Object) {
	if g, ok := obj.(*bindGroup); ok && g.group != nil {
		d.device.DestroyBindGroup(g.group)
		g.group = nil
	}
}

// === Textures ===

func (d *Device) CreateTexture(desc *gpucore.TextureDescriptor) (gpucore.Object, error) {
	return d.createTexture(desc)
}

func (d *Device) createTexture(desc *gpucore.TextureDescriptor) (*texture, error) {
	t, err := d.newTexture(desc.Label, desc.Size, desc.Dimension, convertFormat(desc.Format), convertTextureUsage(desc.Usage))
	if err != nil {
		return nil, err
	}
	t.desc = *desc
	return t, nil
}

func (d *Device) newTexture(label string, size gpucore.Extent3D, dim gpucore.TextureDimension,
	format gputypes.TextureFormat, usage gputypes.TextureUsage) (*texture, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: size.Width, Height: size.Height, DepthOrArrayLayers: size.DepthOrArrayLayers},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     convertDimension(dim),
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     convertViewDimension(dim),
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("native: create texture view %q: %w", label, err)
	}
	return &texture{tex: tex, view: view}, nil
}

func (d *Device) DestroyTexture(obj gpucore.Object) {
	if t, ok := obj.(*texture); ok {
		d.destroyTexture(t)
	}
}

func (d *Device) destroyTexture(t *texture) {
	if t.view != nil {
		d.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		d.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// WriteTexture uploads tightly packed texel data covering the whole texture.
func (d *Device) WriteTexture(obj gpucore.Object, data []byte) {
	t, ok := obj.(*texture)
	if !ok || t.tex == nil || len(data) == 0 {
		return
	}
	size := t.desc.Size
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  size.Width * t.desc.Format.BytesPerPixel(),
			RowsPerImage: size.Height,
		},
		&hal.Extent3D{Width: size.Width, Height: size.Height, DepthOrArrayLayers: size.DepthOrArrayLayers},
	)
}

// === Buffers ===

func (d *Device) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Object, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}
	return &buffer{buf: buf, size: desc.Size}, nil
}

func (d *Device) DestroyBuffer(obj gpucore.Object) {
	if b, ok := obj.(*buffer); ok && b.buf != nil {
		d.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
}

func (d *Device) WriteBuffer(obj gpucore.Object, offset uint64, data []byte) {
	b, ok := obj.(*buffer)
	if !ok || b.buf == nil {
		return
	}
	d.queue.WriteBuffer(b.buf, offset, data)
}

// === Surface ===

// Resize records the surface size. Without a surface view it recreates the
// offscreen target at the new size.
func (d *Device) Resize(width, height uint32) error {
	if width == d.width && height == d.height && (d.surfaceView != nil || d.offscreen != nil) {
		return nil
	}
	d.width, d.height = width, height
	if d.surfaceView != nil {
		return nil
	}

	d.destroyOffscreen()
	t, err := d.newTexture("offscreen_target",
		gpucore.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		gpucore.TextureDimension2D, d.format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		return err
	}
	d.offscreen = t
	voxelview.Logger().Debug("native: offscreen target created", "width", width, "height", height)
	return nil
}

func (d *Device) destroyOffscreen() {
	if d.offscreen != nil {
		d.destroyTexture(d.offscreen)
		d.offscreen = nil
	}
}

func (d *Device) target() hal.TextureView {
	if d.surfaceView != nil {
		return d.surfaceView
	}
	if d.offscreen != nil {
		return d.offscreen.view
	}
	return nil
}
