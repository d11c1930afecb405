// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides a recording gpucore.Device for tests.
//
// The fake device allocates nothing. It tracks which objects are live,
// counts creations and destructions per kind, records every frame's passes,
// dispatches and draws, and notes any use of an object that is not live in
// Violations so tests can assert the orchestrator never touched a dead one.
package gputest

import (
	"fmt"

	"github.com/gogpu/voxelview/gpucore"
)

// Object kinds.
const (
	KindShader    = "shader"
	KindPipeline  = "pipeline"
	KindBindGroup = "bindgroup"
	KindTexture   = "texture"
	KindBuffer    = "buffer"
)

// Object is the native object handed out by Device.
type Object struct {
	Kind  string
	Seq   int
	Label string

	// Source is set for shaders.
	Source string

	// Pipeline is set for pipelines.
	Pipeline *gpucore.PipelineDescriptor

	// Texture is set for textures.
	Texture *gpucore.TextureDescriptor

	// Buffer is set for buffers.
	Buffer *gpucore.BufferDescriptor

	// Entries is set for bind groups.
	Entries []gpucore.BindGroupEntry

	// Data is the last upload for textures and buffers.
	Data []byte
}

func (o *Object) String() string {
	return fmt.Sprintf("%s#%d(%s)", o.Kind, o.Seq, o.Label)
}

// Draw is one recorded draw call.
type Draw struct {
	VertexCount, InstanceCount, FirstVertex, FirstInstance uint32
}

// Pass is one recorded compute or render pass.
type Pass struct {
	Compute    bool
	Label      string
	Pipeline   *Object
	BindGroup  *Object
	Dispatches [][3]uint32
	Draws      []Draw
	Ended      bool
}

// Barrier is one recorded texture transition.
type Barrier struct {
	Texture  *Object
	From, To gpucore.TextureUsage

	// Before is the number of passes recorded before the barrier.
	Before int
}

// FrameRecord is one recorded frame.
type FrameRecord struct {
	Passes    []*Pass
	Barriers  []Barrier
	Submitted bool
}

// Dispatches returns every dispatch recorded in the frame.
func (f *FrameRecord) Dispatches() [][3]uint32 {
	var out [][3]uint32
	for _, p := range f.Passes {
		out = append(out, p.Dispatches...)
	}
	return out
}

// Draws returns every draw recorded in the frame.
func (f *FrameRecord) Draws() []Draw {
	var out []Draw
	for _, p := range f.Passes {
		out = append(out, p.Draws...)
	}
	return out
}

// Device is a recording gpucore.Device.
type Device struct {
	// Compile validates shader source and reflects it. Nil uses
	// gpucore.CompileWGSL.
	Compile func(source string) (*gpucore.ShaderInfo, error)

	// Fail, when non-nil, is consulted before every allocation. A non-nil
	// return fails the allocation with that error.
	Fail func(kind, label string) error

	// FailFrame, when set, is returned by BeginFrame.
	FailFrame error

	Width, Height uint32
	Resizes       int

	Created   map[string]int
	Destroyed map[string]int
	Frames    []*FrameRecord

	// Violations lists every operation on an object that was not live.
	Violations []string

	live map[*Object]bool
	seq  int
}

var _ gpucore.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Created:   make(map[string]int),
		Destroyed: make(map[string]int),
		live:      make(map[*Object]bool),
	}
}

// Live returns the number of live objects of kind.
func (d *Device) Live(kind string) int {
	n := 0
	for o := range d.live {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// IsLive reports whether obj is a live object of this device.
func (d *Device) IsLive(obj gpucore.Object) bool {
	o, ok := obj.(*Object)
	return ok && d.live[o]
}

// LastFrame returns the most recent frame, or nil.
func (d *Device) LastFrame() *FrameRecord {
	if len(d.Frames) == 0 {
		return nil
	}
	return d.Frames[len(d.Frames)-1]
}

func (d *Device) alloc(o *Object) (*Object, error) {
	if d.Fail != nil {
		if err := d.Fail(o.Kind, o.Label); err != nil {
			return nil, err
		}
	}
	d.seq++
	o.Seq = d.seq
	d.live[o] = true
	d.Created[o.Kind]++
	return o, nil
}

func (d *Device) use(op, kind string, obj gpucore.Object) *Object {
	o, ok := obj.(*Object)
	if !ok || o == nil {
		d.Violations = append(d.Violations, fmt.Sprintf("%s: foreign %s %v", op, kind, obj))
		return nil
	}
	if o.Kind != kind {
		d.Violations = append(d.Violations, fmt.Sprintf("%s: %s is not a %s", op, o, kind))
	}
	if !d.live[o] {
		d.Violations = append(d.Violations, fmt.Sprintf("%s: %s is not live", op, o))
	}
	return o
}

func (d *Device) free(op, kind string, obj gpucore.Object) {
	o := d.use(op, kind, obj)
	if o == nil || !d.live[o] {
		return
	}
	delete(d.live, o)
	d.Destroyed[kind]++
}

func (d *Device) CreateShader(label, source string) (gpucore.Object, *gpucore.ShaderInfo, error) {
	compile := d.Compile
	if compile == nil {
		compile = gpucore.CompileWGSL
	}
	info, err := compile(source)
	if err != nil {
		return nil, nil, &gpucore.CompileError{Label: label, Err: err}
	}
	obj, err := d.alloc(&Object{Kind: KindShader, Label: label, Source: source})
	if err != nil {
		return nil, nil, err
	}
	return obj, info, nil
}

func (d *Device) DestroyShader(shader gpucore.Object) {
	d.free("DestroyShader", KindShader, shader)
}

func (d *Device) CreatePipeline(desc *gpucore.PipelineDescriptor) (gpucore.Object, error) {
	d.use("CreatePipeline", KindShader, desc.Shader)
	cp := *desc
	return d.alloc(&Object{Kind: KindPipeline, Label: desc.Label, Pipeline: &cp})
}

func (d *Device) DestroyPipeline(pipeline gpucore.Object) {
	d.free("DestroyPipeline", KindPipeline, pipeline)
}

func (d *Device) CreateBindGroup(label string, pipeline gpucore.Object, entries []gpucore.BindGroupEntry) (gpucore.Object, error) {
	d.use("CreateBindGroup", KindPipeline, pipeline)
	for _, e := range entries {
		if e.Texture != nil {
			d.use("CreateBindGroup", KindTexture, e.Texture)
		} else {
			d.use("CreateBindGroup", KindBuffer, e.Buffer)
		}
	}
	return d.alloc(&Object{Kind: KindBindGroup, Label: label, Entries: append([]gpucore.BindGroupEntry(nil), entries...)})
}

func (d *Device) DestroyBindGroup(group gpucore.Object) {
	d.free("DestroyBindGroup", KindBindGroup, group)
}

func (d *Device) CreateTexture(desc *gpucore.TextureDescriptor) (gpucore.Object, error) {
	cp := *desc
	return d.alloc(&Object{Kind: KindTexture, Label: desc.Label, Texture: &cp})
}

func (d *Device) DestroyTexture(texture gpucore.Object) {
	d.free("DestroyTexture", KindTexture, texture)
}

func (d *Device) WriteTexture(texture gpucore.Object, data []byte) {
	if o := d.use("WriteTexture", KindTexture, texture); o != nil {
		o.Data = append(o.Data[:0], data...)
	}
}

func (d *Device) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Object, error) {
	cp := *desc
	return d.alloc(&Object{Kind: KindBuffer, Label: desc.Label, Buffer: &cp, Data: make([]byte, desc.Size)})
}

func (d *Device) DestroyBuffer(buffer gpucore.Object) {
	d.free("DestroyBuffer", KindBuffer, buffer)
}

func (d *Device) WriteBuffer(buffer gpucore.Object, offset uint64, data []byte) {
	o := d.use("WriteBuffer", KindBuffer, buffer)
	if o == nil {
		return
	}
	if end := offset + uint64(len(data)); end > uint64(len(o.Data)) {
		d.Violations = append(d.Violations, fmt.Sprintf("WriteBuffer: %s overflow", o))
		return
	}
	copy(o.Data[offset:], data)
}

func (d *Device) Resize(width, height uint32) error {
	if d.Fail != nil {
		if err := d.Fail("surface", ""); err != nil {
			return err
		}
	}
	d.Width, d.Height = width, height
	d.Resizes++
	return nil
}

func (d *Device) BeginFrame() (gpucore.Frame, error) {
	if d.FailFrame != nil {
		return nil, d.FailFrame
	}
	rec := &FrameRecord{}
	d.Frames = append(d.Frames, rec)
	return &frame{d: d, rec: rec}, nil
}

type frame struct {
	d   *Device
	rec *FrameRecord
}

func (f *frame) begin(compute bool, label string, pipeline, bindGroup gpucore.Object) *Pass {
	if f.rec.Submitted {
		f.d.Violations = append(f.d.Violations, "pass begun after submit")
	}
	for _, p := range f.rec.Passes {
		if !p.Ended {
			f.d.Violations = append(f.d.Violations, fmt.Sprintf("pass %q begun while %q open", label, p.Label))
		}
	}
	p := &Pass{
		Compute:   compute,
		Label:     label,
		Pipeline:  f.d.use("BeginPass", KindPipeline, pipeline),
		BindGroup: f.d.use("BeginPass", KindBindGroup, bindGroup),
	}
	f.rec.Passes = append(f.rec.Passes, p)
	return p
}

func (f *frame) BeginComputePass(label string, pipeline, bindGroup gpucore.Object) gpucore.ComputePass {
	return &computePass{p: f.begin(true, label, pipeline, bindGroup)}
}

func (f *frame) BeginRenderPass(label string, pipeline, bindGroup gpucore.Object) gpucore.RenderPass {
	return &renderPass{p: f.begin(false, label, pipeline, bindGroup)}
}

func (f *frame) TransitionTexture(texture gpucore.Object, from, to gpucore.TextureUsage) {
	if f.rec.Submitted {
		f.d.Violations = append(f.d.Violations, "transition after submit")
	}
	for _, p := range f.rec.Passes {
		if !p.Ended {
			f.d.Violations = append(f.d.Violations, fmt.Sprintf("transition while %q open", p.Label))
		}
	}
	f.rec.Barriers = append(f.rec.Barriers, Barrier{
		Texture: f.d.use("TransitionTexture", KindTexture, texture),
		From:    from,
		To:      to,
		Before:  len(f.rec.Passes),
	})
}

func (f *frame) Submit() error {
	if f.rec.Submitted {
		return gpucore.ErrFrameSubmitted
	}
	f.rec.Submitted = true
	return nil
}

type computePass struct{ p *Pass }

func (c *computePass) Dispatch(x, y, z uint32) {
	c.p.Dispatches = append(c.p.Dispatches, [3]uint32{x, y, z})
}

func (c *computePass) End() { c.p.Ended = true }

type renderPass struct{ p *Pass }

func (r *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.p.Draws = append(r.p.Draws, Draw{vertexCount, instanceCount, firstVertex, firstInstance})
}

func (r *renderPass) End() { r.p.Ended = true }
