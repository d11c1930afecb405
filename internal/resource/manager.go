// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/voxelview/gpucore"
)

type shaderEntry struct {
	label     string
	obj       gpucore.Object
	info      *gpucore.ShaderInfo
	pipelines int // live pipelines built from this shader
}

type pipelineEntry struct {
	label  string
	obj    gpucore.Object
	shader ShaderHandle
	layout []gpucore.LayoutEntry
}

type bindGroupEntry struct {
	label    string
	obj      gpucore.Object
	pipeline Pipeline
	textures []TextureHandle
	buffers  []BufferHandle
}

type textureEntry struct {
	obj  gpucore.Object
	desc gpucore.TextureDescriptor

	// usage is the single usage the texture was last transitioned to in a
	// frame, zero before the first transition.
	usage gpucore.TextureUsage
}

type bufferEntry struct {
	obj  gpucore.Object
	desc gpucore.BufferDescriptor
}

// Stats reports the number of live objects per kind.
type Stats struct {
	Shaders          int
	ComputePipelines int
	RenderPipelines  int
	BindGroups       int
	Textures         int
	Buffers          int
}

// Total returns the number of live objects of all kinds.
func (s Stats) Total() int {
	return s.Shaders + s.ComputePipelines + s.RenderPipelines + s.BindGroups + s.Textures + s.Buffers
}

// Manager owns every GPU object created through it and hands out handles.
type Manager struct {
	device gpucore.Device

	shaders          arena[shaderEntry]
	computePipelines arena[pipelineEntry]
	renderPipelines  arena[pipelineEntry]
	bindGroups       arena[bindGroupEntry]
	textures         arena[textureEntry]
	buffers          arena[bufferEntry]

	frame  *Frame
	closed bool
}

// NewManager creates a manager over device.
func NewManager(device gpucore.Device) *Manager {
	return &Manager{device: device}
}

// Device returns the underlying device.
func (m *Manager) Device() gpucore.Device {
	return m.device
}

// Stats returns live object counts.
func (m *Manager) Stats() Stats {
	return Stats{
		Shaders:          m.shaders.len(),
		ComputePipelines: m.computePipelines.len(),
		RenderPipelines:  m.renderPipelines.len(),
		BindGroups:       m.bindGroups.len(),
		Textures:         m.textures.len(),
		Buffers:          m.buffers.len(),
	}
}

func (m *Manager) checkOpen(op string) {
	if m.closed {
		violate(op, nil, "manager is closed")
	}
}

// === Shaders ===

// CreateShader compiles WGSL source. A source that does not compile returns
// a *gpucore.CompileError and no handle.
func (m *Manager) CreateShader(label, source string) (ShaderHandle, error) {
	m.checkOpen("CreateShader")
	obj, info, err := m.device.CreateShader(label, source)
	if err != nil {
		var ce *gpucore.CompileError
		if errors.As(err, &ce) {
			return 0, err
		}
		return 0, fmt.Errorf("resource: create shader %q: %w", label, err)
	}
	if info == nil {
		info = &gpucore.ShaderInfo{}
	}
	h := ShaderHandle(m.shaders.insert(shaderEntry{label: label, obj: obj, info: info}))
	slogger().Debug("resource: shader created", "handle", h, "label", label)
	return h, nil
}

// DestroyShader destroys a shader. Every pipeline built from it must have
// been destroyed first.
func (m *Manager) DestroyShader(h ShaderHandle) {
	e := m.shaders.get(id(h))
	if e == nil {
		violate("DestroyShader", h, "unknown or destroyed handle")
	}
	if e.pipelines > 0 {
		violate("DestroyShader", h, "%d live pipeline(s) still reference the shader", e.pipelines)
	}
	entry, _ := m.shaders.remove(id(h))
	m.device.DestroyShader(entry.obj)
	slogger().Debug("resource: shader destroyed", "handle", h, "label", entry.label)
}

// IsShaderLive reports whether h refers to a live shader.
func (m *Manager) IsShaderLive(h ShaderHandle) bool {
	return m.shaders.get(id(h)) != nil
}

// WorkgroupSize returns the @workgroup_size declared by a shader.
func (m *Manager) WorkgroupSize(h ShaderHandle) [3]uint32 {
	return m.ShaderInfo(h).WorkgroupSize()
}

// ShaderInfo returns the entry points reflected from a live shader.
func (m *Manager) ShaderInfo(h ShaderHandle) *gpucore.ShaderInfo {
	e := m.shaders.get(id(h))
	if e == nil {
		violate("ShaderInfo", h, "unknown or destroyed handle")
	}
	return e.info
}

// === Pipelines ===

// CreateComputePipeline builds a compute pipeline from shader with layout as
// its bind group 0 layout.
func (m *Manager) CreateComputePipeline(label string, shader ShaderHandle, layout []gpucore.LayoutEntry) (ComputePipelineHandle, error) {
	i, err := m.createPipeline("CreateComputePipeline", &m.computePipelines, gpucore.PipelineCompute, label, shader, layout)
	return ComputePipelineHandle(i), err
}

// CreateRenderPipeline builds a render pipeline from shader with layout as
// its bind group 0 layout.
func (m *Manager) CreateRenderPipeline(label string, shader ShaderHandle, layout []gpucore.LayoutEntry) (RenderPipelineHandle, error) {
	i, err := m.createPipeline("CreateRenderPipeline", &m.renderPipelines, gpucore.PipelineRender, label, shader, layout)
	return RenderPipelineHandle(i), err
}

func (m *Manager) createPipeline(op string, a *arena[pipelineEntry], kind gpucore.PipelineKind,
	label string, shader ShaderHandle, layout []gpucore.LayoutEntry) (id, error) {
	m.checkOpen(op)
	se := m.shaders.get(id(shader))
	if se == nil {
		violate(op, shader, "unknown or destroyed shader")
	}
	seen := make(map[uint32]bool, len(layout))
	for _, entry := range layout {
		if seen[entry.Binding] {
			violate(op, shader, "duplicate layout binding %d", entry.Binding)
		}
		seen[entry.Binding] = true
	}

	layout = slices.Clone(layout)
	obj, err := m.device.CreatePipeline(&gpucore.PipelineDescriptor{
		Label:  label,
		Kind:   kind,
		Shader: se.obj,
		Layout: layout,
	})
	if err != nil {
		return 0, fmt.Errorf("resource: create %s pipeline %q: %w", kind, label, err)
	}
	se.pipelines++
	i := a.insert(pipelineEntry{label: label, obj: obj, shader: shader, layout: layout})
	slogger().Debug("resource: pipeline created", "kind", kind, "label", label, "shader", shader)
	return i, nil
}

// DestroyComputePipeline destroys a compute pipeline. Bind groups created
// against it become stale.
func (m *Manager) DestroyComputePipeline(h ComputePipelineHandle) {
	m.destroyPipeline("DestroyComputePipeline", &m.computePipelines, h)
}

// DestroyRenderPipeline destroys a render pipeline. Bind groups created
// against it become stale.
func (m *Manager) DestroyRenderPipeline(h RenderPipelineHandle) {
	m.destroyPipeline("DestroyRenderPipeline", &m.renderPipelines, h)
}

func (m *Manager) destroyPipeline(op string, a *arena[pipelineEntry], h Pipeline) {
	entry, ok := a.remove(h.pipelineID())
	if !ok {
		violate(op, h, "unknown or destroyed handle")
	}
	if se := m.shaders.get(id(entry.shader)); se != nil {
		se.pipelines--
	}
	m.device.DestroyPipeline(entry.obj)
	slogger().Debug("resource: pipeline destroyed", "handle", h, "label", entry.label)
}

// IsPipelineLive reports whether p refers to a live pipeline.
func (m *Manager) IsPipelineLive(p Pipeline) bool {
	return m.pipeline(p) != nil
}

// PipelineShader returns the shader a live pipeline was built from.
func (m *Manager) PipelineShader(p Pipeline) ShaderHandle {
	e := m.pipeline(p)
	if e == nil {
		violate("PipelineShader", p, "unknown or destroyed handle")
	}
	return e.shader
}

// PipelineLayout returns a copy of a live pipeline's bind group 0 layout.
func (m *Manager) PipelineLayout(p Pipeline) []gpucore.LayoutEntry {
	e := m.pipeline(p)
	if e == nil {
		violate("PipelineLayout", p, "unknown or destroyed handle")
	}
	return slices.Clone(e.layout)
}

func (m *Manager) pipeline(p Pipeline) *pipelineEntry {
	if p == nil || !p.IsValid() {
		return nil
	}
	switch p.pipelineKind() {
	case gpucore.PipelineCompute:
		return m.computePipelines.get(p.pipelineID())
	case gpucore.PipelineRender:
		return m.renderPipelines.get(p.pipelineID())
	default:
		return nil
	}
}

// === Bind groups ===

// CreateBindGroup creates a bind group for pipeline. bindings must match the
// pipeline layout exactly: same binding numbers, and per entry a live
// resource of the kind, usage, format and dimension the layout expects.
func (m *Manager) CreateBindGroup(label string, pipeline Pipeline, bindings []Binding) (BindGroupHandle, error) {
	const op = "CreateBindGroup"
	m.checkOpen(op)
	pe := m.pipeline(pipeline)
	if pe == nil {
		violate(op, pipeline, "unknown or destroyed pipeline")
	}
	if len(bindings) != len(pe.layout) {
		violate(op, pipeline, "%d bindings for a layout of %d entries", len(bindings), len(pe.layout))
	}

	layout := make(map[uint32]gpucore.LayoutEntry, len(pe.layout))
	for _, e := range pe.layout {
		layout[e.Binding] = e
	}

	entry := bindGroupEntry{label: label, pipeline: pipeline}
	native := make([]gpucore.BindGroupEntry, 0, len(bindings))
	seen := make(map[uint32]bool, len(bindings))
	for _, b := range bindings {
		le, ok := layout[b.Binding]
		if !ok {
			violate(op, pipeline, "binding %d is not in the layout", b.Binding)
		}
		if seen[b.Binding] {
			violate(op, pipeline, "binding %d bound twice", b.Binding)
		}
		seen[b.Binding] = true
		if b.Texture.IsValid() == b.Buffer.IsValid() {
			violate(op, pipeline, "binding %d must bind exactly one texture or buffer", b.Binding)
		}

		if b.Texture.IsValid() {
			te := m.textures.get(id(b.Texture))
			if te == nil {
				violate(op, b.Texture, "binding %d: unknown or destroyed texture", b.Binding)
			}
			if err := le.CheckTexture(&te.desc); err != nil {
				violate(op, b.Texture, "%v", err)
			}
			entry.textures = append(entry.textures, b.Texture)
			native = append(native, gpucore.BindGroupEntry{Binding: b.Binding, Texture: te.obj})
			continue
		}

		be := m.buffers.get(id(b.Buffer))
		if be == nil {
			violate(op, b.Buffer, "binding %d: unknown or destroyed buffer", b.Binding)
		}
		if err := le.CheckBuffer(&be.desc); err != nil {
			violate(op, b.Buffer, "%v", err)
		}
		entry.buffers = append(entry.buffers, b.Buffer)
		native = append(native, gpucore.BindGroupEntry{Binding: b.Binding, Buffer: be.obj})
	}

	obj, err := m.device.CreateBindGroup(label, pe.obj, native)
	if err != nil {
		return 0, fmt.Errorf("resource: create bind group %q: %w", label, err)
	}
	entry.obj = obj
	h := BindGroupHandle(m.bindGroups.insert(entry))
	return h, nil
}

// DestroyBindGroup destroys a bind group. Stale bind groups can be destroyed.
func (m *Manager) DestroyBindGroup(h BindGroupHandle) {
	entry, ok := m.bindGroups.remove(id(h))
	if !ok {
		violate("DestroyBindGroup", h, "unknown or destroyed handle")
	}
	m.device.DestroyBindGroup(entry.obj)
}

// IsBindGroupFresh reports whether h is live and its pipeline and every
// resource it binds are still live.
func (m *Manager) IsBindGroupFresh(h BindGroupHandle) bool {
	e := m.bindGroups.get(id(h))
	if e == nil {
		return false
	}
	return m.staleReason(e) == ""
}

func (m *Manager) staleReason(e *bindGroupEntry) string {
	if m.pipeline(e.pipeline) == nil {
		return fmt.Sprintf("pipeline %s was destroyed", e.pipeline)
	}
	for _, t := range e.textures {
		if m.textures.get(id(t)) == nil {
			return fmt.Sprintf("texture %s was destroyed", t)
		}
	}
	for _, b := range e.buffers {
		if m.buffers.get(id(b)) == nil {
			return fmt.Sprintf("buffer %s was destroyed", b)
		}
	}
	return ""
}

// === Textures ===

// CreateTexture allocates a texture.
func (m *Manager) CreateTexture(desc gpucore.TextureDescriptor) (TextureHandle, error) {
	m.checkOpen("CreateTexture")
	if err := desc.Validate(); err != nil {
		return 0, fmt.Errorf("resource: create texture %q: %w", desc.Label, err)
	}
	obj, err := m.device.CreateTexture(&desc)
	if err != nil {
		return 0, fmt.Errorf("resource: create texture %q: %w", desc.Label, err)
	}
	h := TextureHandle(m.textures.insert(textureEntry{obj: obj, desc: desc}))
	slogger().Debug("resource: texture created", "handle", h, "label", desc.Label,
		"width", desc.Size.Width, "height", desc.Size.Height, "depth", desc.Size.DepthOrArrayLayers)
	return h, nil
}

// DestroyTexture destroys a texture. Bind groups that bind it become stale.
func (m *Manager) DestroyTexture(h TextureHandle) {
	entry, ok := m.textures.remove(id(h))
	if !ok {
		violate("DestroyTexture", h, "unknown or destroyed handle")
	}
	m.device.DestroyTexture(entry.obj)
	slogger().Debug("resource: texture destroyed", "handle", h, "label", entry.desc.Label)
}

// TextureDescriptor returns the descriptor a live texture was created with.
func (m *Manager) TextureDescriptor(h TextureHandle) gpucore.TextureDescriptor {
	e := m.textures.get(id(h))
	if e == nil {
		violate("TextureDescriptor", h, "unknown or destroyed handle")
	}
	return e.desc
}

// IsTextureLive reports whether h refers to a live texture.
func (m *Manager) IsTextureLive(h TextureHandle) bool {
	return m.textures.get(id(h)) != nil
}

// WriteTexture uploads the whole texture. data must be tightly packed.
func (m *Manager) WriteTexture(h TextureHandle, data []byte) {
	e := m.textures.get(id(h))
	if e == nil {
		violate("WriteTexture", h, "unknown or destroyed handle")
	}
	if want := e.desc.ByteSize(); len(data) != want {
		violate("WriteTexture", h, "got %d bytes, texture holds %d", len(data), want)
	}
	m.device.WriteTexture(e.obj, data)
}

// === Buffers ===

// CreateBuffer allocates a buffer.
func (m *Manager) CreateBuffer(desc gpucore.BufferDescriptor) (BufferHandle, error) {
	m.checkOpen("CreateBuffer")
	if desc.Size == 0 {
		return 0, fmt.Errorf("resource: create buffer %q: zero size", desc.Label)
	}
	obj, err := m.device.CreateBuffer(&desc)
	if err != nil {
		return 0, fmt.Errorf("resource: create buffer %q: %w", desc.Label, err)
	}
	h := BufferHandle(m.buffers.insert(bufferEntry{obj: obj, desc: desc}))
	slogger().Debug("resource: buffer created", "handle", h, "label", desc.Label, "size", desc.Size)
	return h, nil
}

// DestroyBuffer destroys a buffer. Bind groups that bind it become stale.
func (m *Manager) DestroyBuffer(h BufferHandle) {
	entry, ok := m.buffers.remove(id(h))
	if !ok {
		violate("DestroyBuffer", h, "unknown or destroyed handle")
	}
	m.device.DestroyBuffer(entry.obj)
}

// IsBufferLive reports whether h refers to a live buffer.
func (m *Manager) IsBufferLive(h BufferHandle) bool {
	return m.buffers.get(id(h)) != nil
}

// WriteBuffer uploads data at offset.
func (m *Manager) WriteBuffer(h BufferHandle, offset uint64, data []byte) {
	e := m.buffers.get(id(h))
	if e == nil {
		violate("WriteBuffer", h, "unknown or destroyed handle")
	}
	if offset+uint64(len(data)) > e.desc.Size {
		violate("WriteBuffer", h, "write of %d bytes at %d overflows %d byte buffer", len(data), offset, e.desc.Size)
	}
	m.device.WriteBuffer(e.obj, offset, data)
}

// === Shutdown ===

// Close destroys every object still live, in dependency order, and logs
// each leaked kind. The manager cannot be used afterwards. Close is
// idempotent.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	if leaked := m.Stats(); leaked.Total() > 0 {
		slogger().Warn("resource: destroying leaked objects",
			"shaders", leaked.Shaders,
			"compute_pipelines", leaked.ComputePipelines,
			"render_pipelines", leaked.RenderPipelines,
			"bind_groups", leaked.BindGroups,
			"textures", leaked.Textures,
			"buffers", leaked.Buffers)
	}
	for _, i := range m.bindGroups.ids() {
		m.DestroyBindGroup(BindGroupHandle(i))
	}
	for _, i := range m.computePipelines.ids() {
		m.DestroyComputePipeline(ComputePipelineHandle(i))
	}
	for _, i := range m.renderPipelines.ids() {
		m.DestroyRenderPipeline(RenderPipelineHandle(i))
	}
	for _, i := range m.shaders.ids() {
		m.DestroyShader(ShaderHandle(i))
	}
	for _, i := range m.textures.ids() {
		m.DestroyTexture(TextureHandle(i))
	}
	for _, i := range m.buffers.ids() {
		m.DestroyBuffer(BufferHandle(i))
	}
	m.closed = true
}
