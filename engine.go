// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxelview/gpucore"
	"github.com/gogpu/voxelview/internal/input"
	"github.com/gogpu/voxelview/internal/resource"
	"github.com/gogpu/voxelview/internal/scene"
)

// Engine is the frame orchestrator. It owns every GPU resource of the
// viewer through a resource manager, rebuilds pipelines when shader sources
// change, and records the compute-then-render frame.
//
// An Engine is driven from a single goroutine.
type Engine struct {
	opts options
	mgr  *resource.Manager

	world   *scene.VoxelWorld
	camera  *scene.Camera
	globals *scene.Globals
	input   *input.State
	clock   timeStep
	elapsed float64
	frame   uint32

	width, height uint32
	output        resource.TextureHandle

	computeShader    resource.ShaderHandle
	computePipeline  resource.ComputePipelineHandle
	computeBindGroup resource.BindGroupHandle
	renderShader     resource.ShaderHandle
	renderPipeline   resource.RenderPipelineHandle
	renderBindGroup  resource.BindGroupHandle

	source     ChangeSource
	ownsSource *watcherSource

	prepared       bool
	computeSkipped bool
	renderSkipped  bool
	closed         bool
}

// New creates an engine on device: the voxel world, camera, globals and
// output image, both pipelines compiled from the shader directory, and the
// shader watcher. A shader that fails to compile leaves its stage disabled
// and is not an error.
func New(device gpucore.Device, opts ...Option) (*Engine, error) {
	if device == nil {
		return nil, errors.New("voxelview: nil device")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		opts:   o,
		mgr:    resource.NewManager(device),
		input:  input.New(),
		clock:  timeStep{now: o.now},
		width:  o.width,
		height: o.height,
	}
	if err := e.init(device); err != nil {
		e.mgr.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init(device gpucore.Device) error {
	var err error
	if err = device.Resize(e.width, e.height); err != nil {
		return deviceError("resize surface", err)
	}

	n := e.opts.worldSize
	if e.world, err = scene.NewVoxelWorld(e.mgr, n, n, n); err != nil {
		return deviceError("create world", err)
	}
	seedWorld(e.world)

	if e.camera, err = scene.NewCamera(e.mgr, mgl32.Vec3{0, 0, -1}, 1); err != nil {
		return deviceError("create camera", err)
	}
	e.camera.SetPosition(mgl32.Vec3{float32(n) / 2, float32(n) / 2, float32(n) / 4})

	if e.globals, err = scene.NewGlobals(e.mgr, float32(e.width), float32(e.height)); err != nil {
		return deviceError("create globals", err)
	}
	if e.output, err = e.mgr.CreateTexture(outputDescriptor(e.width, e.height)); err != nil {
		return deviceError("create output", err)
	}

	for _, kind := range []gpucore.PipelineKind{gpucore.PipelineRender, gpucore.PipelineCompute} {
		if err := e.Rebuild(kind); err != nil {
			return err
		}
	}

	switch {
	case e.opts.source != nil:
		e.source = e.opts.source
	case !e.opts.noWatcher:
		ws, err := newWatcherSource(e.opts.shaderDir, e.opts.debounce)
		if err != nil {
			return fmt.Errorf("voxelview: watch shaders: %w", err)
		}
		e.source, e.ownsSource = ws, ws
	}

	Logger().Info("voxelview: engine ready", "width", e.width, "height", e.height,
		"shader_dir", e.opts.shaderDir, "hot_reload", e.source != nil)
	return nil
}

// seedWorld builds the default scene: solid walls around an empty interior
// with one marker voxel in the middle.
func seedWorld(w *scene.VoxelWorld) {
	sx, sy, sz := w.Size()
	w.Fill(1)
	for z := uint32(1); z < sz-1; z++ {
		for y := uint32(1); y < sy-1; y++ {
			for x := uint32(1); x < sx-1; x++ {
				w.SetVoxelAt(0, x, y, z)
			}
		}
	}
	w.SetVoxelAt(255, sx/2, sy/2, sz/2)
}

// Update advances time and moves the camera from input, then resets the
// per-frame input state.
func (e *Engine) Update() {
	dt := e.clock.tick()
	e.elapsed += float64(dt)

	step := dt * e.opts.cameraSpeed
	moves := []struct {
		key input.Key
		dir mgl32.Vec3
	}{
		{input.KeyForward, mgl32.Vec3{0, 0, 1}},
		{input.KeyBack, mgl32.Vec3{0, 0, -1}},
		{input.KeyRight, mgl32.Vec3{1, 0, 0}},
		{input.KeyLeft, mgl32.Vec3{-1, 0, 0}},
		{input.KeyUp, mgl32.Vec3{0, 1, 0}},
		{input.KeyDown, mgl32.Vec3{0, -1, 0}},
	}
	for _, m := range moves {
		if e.input.KeyDown(m.key) {
			e.camera.Translate(m.dir.Mul(step))
		}
	}
	e.input.Reset()
}

// Frame runs one full iteration: HotReload, Update, Prepare and Render.
func (e *Engine) Frame() (FrameStats, error) {
	if err := e.HotReload(); err != nil {
		return FrameStats{}, err
	}
	e.Update()
	if err := e.Prepare(); err != nil {
		return FrameStats{}, err
	}
	return e.Render()
}

// Resize resizes the surface and recreates the output image at the new
// size. Resizing to the current size does nothing; a zero dimension
// (minimised window) is ignored.
func (e *Engine) Resize(width, height uint32) error {
	if e.closed {
		return ErrClosed
	}
	if width == 0 || height == 0 {
		Logger().Debug("voxelview: ignoring zero-size resize", "width", width, "height", height)
		return nil
	}
	if width == e.width && height == e.height && e.output.IsValid() {
		return nil
	}

	if err := e.mgr.Device().Resize(width, height); err != nil {
		return deviceError("resize surface", err)
	}
	e.prepared = false
	if e.output.IsValid() {
		e.mgr.DestroyTexture(e.output)
		e.output = 0
	}
	out, err := e.mgr.CreateTexture(outputDescriptor(width, height))
	if err != nil {
		return deviceError("create output", err)
	}
	e.output = out
	e.width, e.height = width, height
	e.globals.SetSize(float32(width), float32(height))
	e.globals.UpdateBuffer(e.mgr)

	Logger().Info("voxelview: resized", "width", width, "height", height)
	return nil
}

// Close releases every GPU resource and stops the watcher. Close is
// idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	var err error
	if e.ownsSource != nil {
		err = e.ownsSource.Close()
	}

	for _, bg := range []resource.BindGroupHandle{e.computeBindGroup, e.renderBindGroup} {
		if bg.IsValid() {
			e.mgr.DestroyBindGroup(bg)
		}
	}
	if e.computePipeline.IsValid() {
		e.mgr.DestroyComputePipeline(e.computePipeline)
	}
	if e.renderPipeline.IsValid() {
		e.mgr.DestroyRenderPipeline(e.renderPipeline)
	}
	for _, sh := range []resource.ShaderHandle{e.computeShader, e.renderShader} {
		if sh.IsValid() {
			e.mgr.DestroyShader(sh)
		}
	}
	if e.output.IsValid() {
		e.mgr.DestroyTexture(e.output)
	}
	e.world.Destroy(e.mgr)
	e.camera.Destroy(e.mgr)
	e.globals.Destroy(e.mgr)
	e.mgr.Close()

	e.computeBindGroup, e.renderBindGroup = 0, 0
	e.computePipeline, e.renderPipeline = 0, 0
	e.computeShader, e.renderShader = 0, 0
	e.output = 0
	e.closed = true
	return err
}

// Input returns the input state fed by the window layer.
func (e *Engine) Input() *input.State { return e.input }

// Camera returns the camera.
func (e *Engine) Camera() *scene.Camera { return e.camera }

// Globals returns the global parameters.
func (e *Engine) Globals() *scene.Globals { return e.globals }

// World returns the voxel world.
func (e *Engine) World() *scene.VoxelWorld { return e.world }

// Resources returns the resource manager.
func (e *Engine) Resources() *resource.Manager { return e.mgr }

// Size returns the output resolution.
func (e *Engine) Size() (width, height uint32) { return e.width, e.height }

// ComputeShader returns the current compute shader, zero if none.
func (e *Engine) ComputeShader() resource.ShaderHandle { return e.computeShader }

// RenderShader returns the current render shader, zero if none.
func (e *Engine) RenderShader() resource.ShaderHandle { return e.renderShader }

// ComputePipeline returns the current compute pipeline, zero if none.
func (e *Engine) ComputePipeline() resource.ComputePipelineHandle { return e.computePipeline }

// RenderPipeline returns the current render pipeline, zero if none.
func (e *Engine) RenderPipeline() resource.RenderPipelineHandle { return e.renderPipeline }

// ComputeBindGroup returns the compute bind group built by the last Prepare.
func (e *Engine) ComputeBindGroup() resource.BindGroupHandle { return e.computeBindGroup }

// RenderBindGroup returns the render bind group built by the last Prepare.
func (e *Engine) RenderBindGroup() resource.BindGroupHandle { return e.renderBindGroup }

// OutputTexture returns the intermediate image.
func (e *Engine) OutputTexture() resource.TextureHandle { return e.output }
