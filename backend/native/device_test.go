// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/voxelview"
	"github.com/gogpu/voxelview/backend"
	"github.com/gogpu/voxelview/gpucore"
	"github.com/gogpu/voxelview/shaders"
)

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	dev, release, err := NewNoopDevice()
	if err != nil {
		t.Fatalf("NewNoopDevice: %v", err)
	}
	t.Cleanup(release)
	return dev
}

func TestCreateShaderRejectsInvalidWGSL(t *testing.T) {
	dev := newTestDevice(t)

	_, _, err := dev.CreateShader("broken", "@compute @workgroup_size(1) fn main( {")
	var ce *gpucore.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("CreateShader = %v, want *gpucore.CompileError", err)
	}
	if ce.Label != "broken" {
		t.Errorf("Label = %q, want broken", ce.Label)
	}
}

func TestCreateShaderAcceptsValidWGSL(t *testing.T) {
	dev := newTestDevice(t)

	obj, info, err := dev.CreateShader("ok", "@compute @workgroup_size(4, 2) fn main() {}")
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}
	if got := info.WorkgroupSize(); got != [3]uint32{4, 2, 1} {
		t.Errorf("WorkgroupSize() = %v, want [4 2 1]", got)
	}
	dev.DestroyShader(obj)
	dev.DestroyShader(obj) // second destroy is ignored
}

func TestCreateShaderEmbeddedSources(t *testing.T) {
	dev := newTestDevice(t)

	for _, tt := range []struct {
		name string
		kind gpucore.PipelineKind
	}{
		{shaders.Compute, gpucore.PipelineCompute},
		{shaders.Render, gpucore.PipelineRender},
	} {
		src, _ := shaders.Source(tt.name)
		obj, info, err := dev.CreateShader(tt.name, src)
		if err != nil {
			t.Errorf("CreateShader(%s): %v", tt.name, err)
			continue
		}
		if err := info.Require(tt.kind); err != nil {
			t.Errorf("%s: %v", tt.name, err)
		}
		dev.DestroyShader(obj)
	}
}

func TestTextureLifecycle(t *testing.T) {
	dev := newTestDevice(t)

	desc := &gpucore.TextureDescriptor{
		Label:     "world",
		Size:      gpucore.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 4},
		Dimension: gpucore.TextureDimension3D,
		Format:    gpucore.TextureFormatR8Uint,
		Usage:     gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopyDst,
	}
	obj, err := dev.CreateTexture(desc)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	tex := obj.(*texture)
	if tex.desc != *desc {
		t.Errorf("desc = %+v, want %+v", tex.desc, *desc)
	}
	dev.WriteTexture(obj, make([]byte, desc.ByteSize()))
	dev.DestroyTexture(obj)
	if tex.tex != nil || tex.view != nil {
		t.Error("texture not released")
	}
}

func TestResizeKeepsOffscreenTarget(t *testing.T) {
	dev := newTestDevice(t)

	if err := dev.Resize(64, 32); err != nil {
		t.Fatal(err)
	}
	first := dev.offscreen
	if first == nil || dev.target() == nil {
		t.Fatal("no offscreen target after Resize")
	}
	if err := dev.Resize(64, 32); err != nil {
		t.Fatal(err)
	}
	if dev.offscreen != first {
		t.Error("same-size Resize recreated the target")
	}
	if err := dev.Resize(128, 64); err != nil {
		t.Fatal(err)
	}
	if dev.offscreen == first {
		t.Error("Resize did not recreate the target")
	}
}

func TestForeignObjectsRejected(t *testing.T) {
	dev := newTestDevice(t)

	_, err := dev.CreatePipeline(&gpucore.PipelineDescriptor{Label: "p", Kind: gpucore.PipelineCompute, Shader: "nope"})
	if !errors.Is(err, ErrForeignObject) {
		t.Errorf("CreatePipeline = %v, want ErrForeignObject", err)
	}
	_, err = dev.CreateBindGroup("g", 42, nil)
	if !errors.Is(err, ErrForeignObject) {
		t.Errorf("CreateBindGroup = %v, want ErrForeignObject", err)
	}

	f, err := dev.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	f.BeginComputePass("c", nil, nil).End()
	if err := f.Submit(); !errors.Is(err, ErrForeignObject) {
		t.Errorf("Submit = %v, want ErrForeignObject", err)
	}
	if err := f.Submit(); !errors.Is(err, gpucore.ErrFrameSubmitted) {
		t.Errorf("second Submit = %v, want ErrFrameSubmitted", err)
	}
}

func TestConvertLayoutEntry(t *testing.T) {
	storage := convertLayoutEntry(gpucore.LayoutEntry{
		Binding:       1,
		Visibility:    gpucore.ShaderStageCompute,
		Type:          gpucore.BindingTypeStorageTexture,
		Format:        gpucore.TextureFormatRGBA8Uint,
		Access:        gpucore.StorageAccessWriteOnly,
		ViewDimension: gpucore.TextureDimension2D,
	})
	if storage.Storage == nil || storage.Texture != nil || storage.Buffer != nil {
		t.Fatalf("storage entry = %+v", storage)
	}
	if storage.Storage.Format != gputypes.TextureFormatRGBA8Uint {
		t.Errorf("format = %v", storage.Storage.Format)
	}
	if storage.Storage.Access != gputypes.StorageTextureAccessWriteOnly {
		t.Errorf("access = %v", storage.Storage.Access)
	}
	if storage.Visibility != gputypes.ShaderStageCompute {
		t.Errorf("visibility = %v", storage.Visibility)
	}

	sampled := convertLayoutEntry(gpucore.LayoutEntry{
		Binding:       0,
		Visibility:    gpucore.ShaderStageFragment,
		Type:          gpucore.BindingTypeSampledTexture,
		SampleType:    gpucore.SampleTypeUint,
		ViewDimension: gpucore.TextureDimension3D,
	})
	if sampled.Texture == nil {
		t.Fatalf("sampled entry = %+v", sampled)
	}
	if sampled.Texture.SampleType != gputypes.TextureSampleTypeUint {
		t.Errorf("sample type = %v", sampled.Texture.SampleType)
	}
	if sampled.Texture.ViewDimension != gputypes.TextureViewDimension3D {
		t.Errorf("view dimension = %v", sampled.Texture.ViewDimension)
	}

	uniform := convertLayoutEntry(gpucore.LayoutEntry{Binding: 2, Type: gpucore.BindingTypeUniformBuffer,
		Visibility: gpucore.ShaderStageCompute | gpucore.ShaderStageFragment})
	if uniform.Buffer == nil || uniform.Buffer.Type != gputypes.BufferBindingTypeUniform {
		t.Errorf("uniform entry = %+v", uniform)
	}
	if uniform.Visibility != gputypes.ShaderStageCompute|gputypes.ShaderStageFragment {
		t.Errorf("visibility = %v", uniform.Visibility)
	}
}

func TestConvertFormat(t *testing.T) {
	tests := []struct {
		in   gpucore.TextureFormat
		want gputypes.TextureFormat
	}{
		{gpucore.TextureFormatR8Uint, gputypes.TextureFormatR8Uint},
		{gpucore.TextureFormatRGBA8Uint, gputypes.TextureFormatRGBA8Uint},
		{gpucore.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8Unorm},
		{gpucore.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8Unorm},
		{gpucore.TextureFormatUndefined, gputypes.TextureFormatUndefined},
	}
	for _, tt := range tests {
		if got := convertFormat(tt.in); got != tt.want {
			t.Errorf("convertFormat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestEngineOnNoopDevice runs the engine's whole frame path through the HAL.
func TestEngineOnNoopDevice(t *testing.T) {
	dev := newTestDevice(t)
	dir := t.TempDir()
	if err := shaders.Seed(dir); err != nil {
		t.Fatal(err)
	}

	eng, err := voxelview.New(dev, voxelview.WithShaderDir(dir), voxelview.WithoutWatcher(), voxelview.WithSize(64, 48))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		stats, err := eng.Frame()
		if err != nil {
			t.Fatalf("Frame %d: %v", i, err)
		}
		if stats.ComputeSkipped || stats.RenderSkipped {
			t.Fatalf("Frame %d skipped a stage: %+v", i, stats)
		}
	}
	if err := eng.Resize(32, 32); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if _, err := eng.Frame(); err != nil {
		t.Fatalf("Frame after resize: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := eng.Resources().Stats().Total(); got != 0 {
		t.Errorf("%d objects live after Close", got)
	}
}

// barrierDevice records every texture barrier encoded on the wrapped device.
type barrierDevice struct {
	hal.Device
	barriers []hal.TextureUsageTransition
}

func (d *barrierDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &barrierEncoder{CommandEncoder: enc, d: d}, nil
}

type barrierEncoder struct {
	hal.CommandEncoder
	d *barrierDevice
}

func (e *barrierEncoder) TransitionTextures(barriers []hal.TextureBarrier) {
	for _, b := range barriers {
		e.d.barriers = append(e.d.barriers, b.Usage)
	}
	e.CommandEncoder.TransitionTextures(barriers)
}

func TestEngineTransitionsOutput(t *testing.T) {
	noopDev := newTestDevice(t)
	rec := &barrierDevice{Device: noopDev.device}
	dev := NewDevice(rec, noopDev.queue, DefaultSurfaceFormat)
	t.Cleanup(dev.Release)

	dir := t.TempDir()
	if err := shaders.Seed(dir); err != nil {
		t.Fatal(err)
	}
	eng, err := voxelview.New(dev, voxelview.WithShaderDir(dir), voxelview.WithoutWatcher(), voxelview.WithSize(16, 16))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Close()

	for i := 0; i < 2; i++ {
		if _, err := eng.Frame(); err != nil {
			t.Fatalf("Frame %d: %v", i, err)
		}
	}

	want := []hal.TextureUsageTransition{
		{OldUsage: 0, NewUsage: gputypes.TextureUsageStorageBinding},
		{OldUsage: gputypes.TextureUsageStorageBinding, NewUsage: gputypes.TextureUsageTextureBinding},
		{OldUsage: gputypes.TextureUsageTextureBinding, NewUsage: gputypes.TextureUsageStorageBinding},
		{OldUsage: gputypes.TextureUsageStorageBinding, NewUsage: gputypes.TextureUsageTextureBinding},
	}
	if len(rec.barriers) != len(want) {
		t.Fatalf("barriers = %+v, want %+v", rec.barriers, want)
	}
	for i := range want {
		if rec.barriers[i] != want[i] {
			t.Errorf("barrier %d = %+v, want %+v", i, rec.barriers[i], want[i])
		}
	}
}

func TestTransitionForeignTexture(t *testing.T) {
	dev := newTestDevice(t)
	f, err := dev.BeginFrame()
	if err != nil {
		t.Fatal(err)
	}
	f.TransitionTexture("nope", 0, gpucore.TextureUsageStorageBinding)
	if err := f.Submit(); !errors.Is(err, ErrForeignObject) {
		t.Errorf("Submit = %v, want ErrForeignObject", err)
	}
}

func TestNoopRegistered(t *testing.T) {
	dev, release, err := backend.Open(BackendNoop)
	if err != nil {
		t.Fatalf("backend.Open(%q): %v", BackendNoop, err)
	}
	defer release()
	if _, ok := dev.(*Device); !ok {
		t.Errorf("backend.Open returned %T, want *Device", dev)
	}
}
