// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/voxelview/gpucore"
	"github.com/gogpu/voxelview/internal/gputest"
)

const testCompute = `@compute @workgroup_size(8, 8, 1) fn main() {}`

const testRender = `@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0, 0.0, 0.0, 1.0); }
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0, 1.0, 1.0, 1.0); }`

var testComputeLayout = []gpucore.LayoutEntry{
	{Binding: 0, Visibility: gpucore.ShaderStageCompute, Type: gpucore.BindingTypeStorageTexture,
		Format: gpucore.TextureFormatRGBA8Uint, ViewDimension: gpucore.TextureDimension2D},
	{Binding: 1, Visibility: gpucore.ShaderStageCompute, Type: gpucore.BindingTypeUniformBuffer},
}

var testRenderLayout = []gpucore.LayoutEntry{
	{Binding: 0, Visibility: gpucore.ShaderStageFragment, Type: gpucore.BindingTypeSampledTexture,
		SampleType: gpucore.SampleTypeUint, ViewDimension: gpucore.TextureDimension2D},
	{Binding: 1, Visibility: gpucore.ShaderStageFragment, Type: gpucore.BindingTypeUniformBuffer},
}

var testOutputDesc = gpucore.TextureDescriptor{
	Label:     "output",
	Size:      gpucore.Extent3D{Width: 800, Height: 600, DepthOrArrayLayers: 1},
	Dimension: gpucore.TextureDimension2D,
	Format:    gpucore.TextureFormatRGBA8Uint,
	Usage:     gpucore.TextureUsageStorageBinding | gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopySrc,
}

var testUniformDesc = gpucore.BufferDescriptor{
	Label: "globals",
	Size:  16,
	Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst,
}

// expectViolation runs fn and fails the test unless it panics with a
// *ContractViolation whose message contains substr.
func expectViolation(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected contract violation containing %q, got none", substr)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v is not an error", r)
		}
		var cv *ContractViolation
		if !errors.As(err, &cv) || !errors.Is(err, ErrContractViolation) {
			t.Fatalf("panic %v is not a ContractViolation", err)
		}
		if !strings.Contains(err.Error(), substr) {
			t.Fatalf("violation %q does not contain %q", err, substr)
		}
	}()
	fn()
}

type fixture struct {
	dev     *gputest.Device
	mgr     *Manager
	cs      ShaderHandle
	rs      ShaderHandle
	cp      ComputePipelineHandle
	rp      RenderPipelineHandle
	output  TextureHandle
	globals BufferHandle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dev: gputest.New()}
	f.mgr = NewManager(f.dev)
	var err error
	if f.cs, err = f.mgr.CreateShader("compute", testCompute); err != nil {
		t.Fatalf("CreateShader(compute): %v", err)
	}
	if f.rs, err = f.mgr.CreateShader("render", testRender); err != nil {
		t.Fatalf("CreateShader(render): %v", err)
	}
	if f.cp, err = f.mgr.CreateComputePipeline("compute", f.cs, testComputeLayout); err != nil {
		t.Fatalf("CreateComputePipeline: %v", err)
	}
	if f.rp, err = f.mgr.CreateRenderPipeline("render", f.rs, testRenderLayout); err != nil {
		t.Fatalf("CreateRenderPipeline: %v", err)
	}
	if f.output, err = f.mgr.CreateTexture(testOutputDesc); err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if f.globals, err = f.mgr.CreateBuffer(testUniformDesc); err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	return f
}

func (f *fixture) computeBindings() []Binding {
	return []Binding{TextureBinding(0, f.output), BufferBinding(1, f.globals)}
}

func (f *fixture) renderBindings() []Binding {
	return []Binding{TextureBinding(0, f.output), BufferBinding(1, f.globals)}
}

func TestManagerCreateDestroy(t *testing.T) {
	f := newFixture(t)

	want := Stats{Shaders: 2, ComputePipelines: 1, RenderPipelines: 1, Textures: 1, Buffers: 1}
	if got := f.mgr.Stats(); got != want {
		t.Fatalf("Stats() = %+v, want %+v", got, want)
	}

	f.mgr.DestroyComputePipeline(f.cp)
	f.mgr.DestroyShader(f.cs)
	if f.mgr.IsShaderLive(f.cs) {
		t.Error("destroyed shader still live")
	}
	if f.mgr.IsPipelineLive(f.cp) {
		t.Error("destroyed pipeline still live")
	}
	if got := f.dev.Live(gputest.KindShader); got != 1 {
		t.Errorf("device live shaders = %d, want 1", got)
	}
	if len(f.dev.Violations) != 0 {
		t.Errorf("device violations: %v", f.dev.Violations)
	}
}

func TestManagerHandleReuse(t *testing.T) {
	f := newFixture(t)

	f.mgr.DestroyTexture(f.output)
	next, err := f.mgr.CreateTexture(testOutputDesc)
	if err != nil {
		t.Fatal(err)
	}
	if next == f.output {
		t.Fatalf("reused slot returned identical handle %v", next)
	}
	if f.mgr.IsTextureLive(f.output) {
		t.Error("old handle reports live after slot reuse")
	}
	if !f.mgr.IsTextureLive(next) {
		t.Error("new handle not live")
	}
	expectViolation(t, "unknown or destroyed", func() { f.mgr.DestroyTexture(f.output) })
}

func TestManagerDoubleDestroy(t *testing.T) {
	tests := []struct {
		name string
		fn   func(f *fixture)
	}{
		{"shader", func(f *fixture) {
			f.mgr.DestroyRenderPipeline(f.rp)
			f.mgr.DestroyShader(f.rs)
			f.mgr.DestroyShader(f.rs)
		}},
		{"compute pipeline", func(f *fixture) {
			f.mgr.DestroyComputePipeline(f.cp)
			f.mgr.DestroyComputePipeline(f.cp)
		}},
		{"render pipeline", func(f *fixture) {
			f.mgr.DestroyRenderPipeline(f.rp)
			f.mgr.DestroyRenderPipeline(f.rp)
		}},
		{"texture", func(f *fixture) {
			f.mgr.DestroyTexture(f.output)
			f.mgr.DestroyTexture(f.output)
		}},
		{"buffer", func(f *fixture) {
			f.mgr.DestroyBuffer(f.globals)
			f.mgr.DestroyBuffer(f.globals)
		}},
		{"zero handle", func(f *fixture) {
			f.mgr.DestroyBindGroup(0)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			expectViolation(t, "unknown or destroyed", func() { tt.fn(f) })
		})
	}
}

func TestManagerDestroyShaderWithLivePipeline(t *testing.T) {
	f := newFixture(t)
	expectViolation(t, "live pipeline", func() { f.mgr.DestroyShader(f.cs) })
	if !f.mgr.IsShaderLive(f.cs) {
		t.Error("shader destroyed despite live pipeline")
	}
}

func TestManagerPipelineFromDestroyedShader(t *testing.T) {
	f := newFixture(t)
	f.mgr.DestroyComputePipeline(f.cp)
	f.mgr.DestroyShader(f.cs)
	expectViolation(t, "destroyed shader", func() {
		_, _ = f.mgr.CreateComputePipeline("compute", f.cs, testComputeLayout)
	})
}

func TestManagerCompileError(t *testing.T) {
	dev := gputest.New()
	mgr := NewManager(dev)

	h, err := mgr.CreateShader("compute", "@compute fn main( {")
	if err == nil {
		t.Fatal("expected compile error")
	}
	var ce *gpucore.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a CompileError", err)
	}
	if ce.Label != "compute" {
		t.Errorf("CompileError.Label = %q", ce.Label)
	}
	if h.IsValid() {
		t.Errorf("got handle %v for failed compile", h)
	}
	if got := mgr.Stats().Shaders; got != 0 {
		t.Errorf("Stats().Shaders = %d, want 0", got)
	}
}

func TestManagerDeviceError(t *testing.T) {
	errOOM := errors.New("out of memory")
	dev := gputest.New()
	dev.Fail = func(kind, _ string) error {
		if kind == gputest.KindTexture {
			return errOOM
		}
		return nil
	}
	mgr := NewManager(dev)
	_, err := mgr.CreateTexture(testOutputDesc)
	if !errors.Is(err, errOOM) {
		t.Fatalf("CreateTexture error = %v, want wrapping %v", err, errOOM)
	}
	if dev.Created[gputest.KindTexture] != 0 {
		t.Error("device recorded a texture after failure")
	}
}

func TestManagerWorkgroupSize(t *testing.T) {
	f := newFixture(t)
	if got := f.mgr.WorkgroupSize(f.cs); got != [3]uint32{8, 8, 1} {
		t.Errorf("WorkgroupSize(compute) = %v", got)
	}
	if got := f.mgr.WorkgroupSize(f.rs); got != [3]uint32{1, 1, 1} {
		t.Errorf("WorkgroupSize(render) = %v", got)
	}
}

func TestManagerBindGroupLayoutMismatch(t *testing.T) {
	tests := []struct {
		name     string
		bindings func(f *fixture) []Binding
		substr   string
	}{
		{"too few", func(f *fixture) []Binding {
			return []Binding{TextureBinding(0, f.output)}
		}, "1 bindings for a layout of 2"},
		{"wrong binding number", func(f *fixture) []Binding {
			return []Binding{TextureBinding(0, f.output), BufferBinding(5, f.globals)}
		}, "binding 5 is not in the layout"},
		{"duplicate", func(f *fixture) []Binding {
			return []Binding{TextureBinding(0, f.output), TextureBinding(0, f.output)}
		}, "bound twice"},
		{"buffer in texture slot", func(f *fixture) []Binding {
			return []Binding{BufferBinding(0, f.globals), BufferBinding(1, f.globals)}
		}, "got a buffer"},
		{"texture in buffer slot", func(f *fixture) []Binding {
			return []Binding{TextureBinding(0, f.output), TextureBinding(1, f.output)}
		}, "got a texture"},
		{"both set", func(f *fixture) []Binding {
			return []Binding{{Binding: 0, Texture: f.output, Buffer: f.globals}, BufferBinding(1, f.globals)}
		}, "exactly one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			expectViolation(t, tt.substr, func() {
				_, _ = f.mgr.CreateBindGroup("compute", f.cp, tt.bindings(f))
			})
		})
	}
}

func TestManagerBindGroupStorageFormat(t *testing.T) {
	f := newFixture(t)
	desc := testOutputDesc
	desc.Format = gpucore.TextureFormatRGBA8Unorm
	wrong, err := f.mgr.CreateTexture(desc)
	if err != nil {
		t.Fatal(err)
	}
	expectViolation(t, "format", func() {
		_, _ = f.mgr.CreateBindGroup("compute", f.cp, []Binding{TextureBinding(0, wrong), BufferBinding(1, f.globals)})
	})
}

func TestManagerBindGroupDestroyedResource(t *testing.T) {
	f := newFixture(t)
	f.mgr.DestroyTexture(f.output)
	expectViolation(t, "destroyed texture", func() {
		_, _ = f.mgr.CreateBindGroup("compute", f.cp, f.computeBindings())
	})
}

func TestManagerBindGroupStaleness(t *testing.T) {
	f := newFixture(t)
	bg, err := f.mgr.CreateBindGroup("render", f.rp, f.renderBindings())
	if err != nil {
		t.Fatal(err)
	}
	if !f.mgr.IsBindGroupFresh(bg) {
		t.Fatal("new bind group not fresh")
	}

	f.mgr.DestroyTexture(f.output)
	if f.mgr.IsBindGroupFresh(bg) {
		t.Fatal("bind group fresh after its texture was destroyed")
	}

	frame, err := f.mgr.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	expectViolation(t, "stale bind group", func() {
		frame.BeginRenderPass(RenderPassDesc{Pipeline: f.rp, BindGroup: bg})
	})

	// Stale groups can still be destroyed.
	f.mgr.DestroyBindGroup(bg)
	if got := f.mgr.Stats().BindGroups; got != 0 {
		t.Errorf("Stats().BindGroups = %d, want 0", got)
	}
}

func TestManagerBindGroupWrongPipeline(t *testing.T) {
	f := newFixture(t)
	other, err := f.mgr.CreateRenderPipeline("render2", f.rs, testRenderLayout)
	if err != nil {
		t.Fatal(err)
	}
	bg, err := f.mgr.CreateBindGroup("render", other, f.renderBindings())
	if err != nil {
		t.Fatal(err)
	}
	frame, err := f.mgr.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	expectViolation(t, "was created for", func() {
		frame.BeginRenderPass(RenderPassDesc{Pipeline: f.rp, BindGroup: bg})
	})
}

func TestManagerFrame(t *testing.T) {
	f := newFixture(t)
	cbg, err := f.mgr.CreateBindGroup("compute", f.cp, f.computeBindings())
	if err != nil {
		t.Fatal(err)
	}
	rbg, err := f.mgr.CreateBindGroup("render", f.rp, f.renderBindings())
	if err != nil {
		t.Fatal(err)
	}

	frame, err := f.mgr.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	cpass := frame.BeginComputePass(ComputePassDesc{Label: "compute", Pipeline: f.cp, BindGroup: cbg})
	cpass.Dispatch(100, 75, 1)
	cpass.End()
	rpass := frame.BeginRenderPass(RenderPassDesc{Label: "render", Pipeline: f.rp, BindGroup: rbg})
	rpass.Draw(3, 1, 0, 0)
	rpass.End()
	if err := frame.Submit(); err != nil {
		t.Fatal(err)
	}

	rec := f.dev.LastFrame()
	if rec == nil || !rec.Submitted {
		t.Fatal("frame not submitted")
	}
	if got := rec.Dispatches(); len(got) != 1 || got[0] != [3]uint32{100, 75, 1} {
		t.Errorf("dispatches = %v", got)
	}
	if got := rec.Draws(); len(got) != 1 || got[0].VertexCount != 3 {
		t.Errorf("draws = %v", got)
	}
	if len(f.dev.Violations) != 0 {
		t.Errorf("device violations: %v", f.dev.Violations)
	}

	expectViolation(t, "already submitted", func() { _ = frame.Submit() })
}

func TestManagerTransitionTexture(t *testing.T) {
	f := newFixture(t)

	frame, err := f.mgr.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	frame.TransitionTexture(f.output, gpucore.TextureUsageStorageBinding)
	frame.TransitionTexture(f.output, gpucore.TextureUsageStorageBinding)
	frame.TransitionTexture(f.output, gpucore.TextureUsageTextureBinding)

	expectViolation(t, "not a single usage", func() {
		frame.TransitionTexture(f.output, gpucore.TextureUsageStorageBinding|gpucore.TextureUsageTextureBinding)
	})
	expectViolation(t, "was not created with usage", func() {
		frame.TransitionTexture(f.output, gpucore.TextureUsageRenderAttachment)
	})
	if err := frame.Submit(); err != nil {
		t.Fatal(err)
	}
	expectViolation(t, "already submitted", func() {
		frame.TransitionTexture(f.output, gpucore.TextureUsageStorageBinding)
	})

	rec := f.dev.LastFrame()
	if len(rec.Barriers) != 2 {
		t.Fatalf("barriers = %+v, want 2 (repeat transition dropped)", rec.Barriers)
	}
	if b := rec.Barriers[0]; b.From != 0 || b.To != gpucore.TextureUsageStorageBinding {
		t.Errorf("first barrier = %+v", b)
	}
	if b := rec.Barriers[1]; b.From != gpucore.TextureUsageStorageBinding || b.To != gpucore.TextureUsageTextureBinding {
		t.Errorf("second barrier = %+v", b)
	}

	// State carries over to the next frame.
	frame, err = f.mgr.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	frame.TransitionTexture(f.output, gpucore.TextureUsageTextureBinding)
	if err := frame.Submit(); err != nil {
		t.Fatal(err)
	}
	if got := f.dev.LastFrame().Barriers; len(got) != 0 {
		t.Errorf("barriers = %+v, want none", got)
	}

	f.mgr.DestroyTexture(f.output)
	frame, err = f.mgr.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	expectViolation(t, "destroyed texture", func() {
		frame.TransitionTexture(f.output, gpucore.TextureUsageStorageBinding)
	})
	if len(f.dev.Violations) != 0 {
		t.Errorf("device violations: %v", f.dev.Violations)
	}
}

func TestManagerWriteChecks(t *testing.T) {
	f := newFixture(t)
	f.mgr.WriteBuffer(f.globals, 0, make([]byte, 16))
	expectViolation(t, "overflows", func() { f.mgr.WriteBuffer(f.globals, 8, make([]byte, 16)) })
	expectViolation(t, "texture holds", func() { f.mgr.WriteTexture(f.output, make([]byte, 4)) })
}

func TestManagerClose(t *testing.T) {
	f := newFixture(t)
	if _, err := f.mgr.CreateBindGroup("compute", f.cp, f.computeBindings()); err != nil {
		t.Fatal(err)
	}
	f.mgr.Close()
	f.mgr.Close()

	if got := f.mgr.Stats(); got.Total() != 0 {
		t.Errorf("Stats() after Close = %+v", got)
	}
	for _, kind := range []string{gputest.KindShader, gputest.KindPipeline, gputest.KindBindGroup, gputest.KindTexture, gputest.KindBuffer} {
		if n := f.dev.Live(kind); n != 0 {
			t.Errorf("device still has %d live %s objects", n, kind)
		}
	}
	if len(f.dev.Violations) != 0 {
		t.Errorf("device violations: %v", f.dev.Violations)
	}
	expectViolation(t, "closed", func() { _, _ = f.mgr.CreateShader("x", testCompute) })
}
