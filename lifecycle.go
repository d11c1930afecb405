// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/voxelview/gpucore"
	"github.com/gogpu/voxelview/internal/resource"
	"github.com/gogpu/voxelview/shaders"
)

// stageName returns the shader identity of a pipeline kind.
func stageName(kind gpucore.PipelineKind) string {
	if kind == gpucore.PipelineCompute {
		return shaders.Compute
	}
	return shaders.Render
}

// Rebuild recompiles the shader of one stage from disk and rebuilds its
// pipeline. The old pipeline is destroyed before the old shader, and the
// new shader is compiled before the new pipeline is built, so no pipeline
// ever outlives its shader.
//
// A shader that cannot be read or does not compile leaves the stage with no
// shader and no pipeline; the failure is logged and Rebuild returns nil.
// Only device failures are returned.
func (e *Engine) Rebuild(kind gpucore.PipelineKind) error {
	if e.closed {
		return ErrClosed
	}
	e.prepared = false

	switch kind {
	case gpucore.PipelineCompute:
		if e.computePipeline.IsValid() {
			e.mgr.DestroyComputePipeline(e.computePipeline)
			e.computePipeline = 0
		}
		if e.computeShader.IsValid() {
			e.mgr.DestroyShader(e.computeShader)
			e.computeShader = 0
		}
	case gpucore.PipelineRender:
		if e.renderPipeline.IsValid() {
			e.mgr.DestroyRenderPipeline(e.renderPipeline)
			e.renderPipeline = 0
		}
		if e.renderShader.IsValid() {
			e.mgr.DestroyShader(e.renderShader)
			e.renderShader = 0
		}
	default:
		return fmt.Errorf("voxelview: rebuild: unknown pipeline kind %v", kind)
	}

	shader, ok, err := e.compile(kind)
	if err != nil || !ok {
		return err
	}

	name := stageName(kind)
	switch kind {
	case gpucore.PipelineCompute:
		p, err := e.mgr.CreateComputePipeline(name, shader, e.computeLayout())
		if err != nil {
			e.mgr.DestroyShader(shader)
			return deviceError("create compute pipeline", err)
		}
		e.computeShader, e.computePipeline = shader, p
		Logger().Info("voxelview: pipeline built", "stage", name, "pipeline", p, "shader", shader)
	case gpucore.PipelineRender:
		p, err := e.mgr.CreateRenderPipeline(name, shader, e.renderLayout())
		if err != nil {
			e.mgr.DestroyShader(shader)
			return deviceError("create render pipeline", err)
		}
		e.renderShader, e.renderPipeline = shader, p
		Logger().Info("voxelview: pipeline built", "stage", name, "pipeline", p, "shader", shader)
	}
	return nil
}

// compile reads and compiles the shader of one stage. ok is false when the
// source is unreadable or invalid; err is set only for device failures.
func (e *Engine) compile(kind gpucore.PipelineKind) (h resource.ShaderHandle, ok bool, err error) {
	name := stageName(kind)
	path := shaders.Path(e.opts.shaderDir, name)
	src, err := os.ReadFile(path)
	if err != nil {
		Logger().Error("voxelview: shader unreadable, stage disabled", "stage", name, "path", path, "err", err)
		return 0, false, nil
	}
	h, err = e.mgr.CreateShader(name, string(src))
	if err == nil {
		if rerr := e.mgr.ShaderInfo(h).Require(kind); rerr != nil {
			e.mgr.DestroyShader(h)
			err = &gpucore.CompileError{Label: name, Err: rerr}
		}
	}
	if err != nil {
		var ce *gpucore.CompileError
		if errors.As(err, &ce) {
			Logger().Error("voxelview: shader compile failed, stage disabled", "stage", name, "path", path, "err", ce.Err)
			return 0, false, nil
		}
		return 0, false, deviceError("create shader", err)
	}
	return h, true, nil
}

// HandleEvent applies one shader change event. Events for unknown shader
// names are ignored.
func (e *Engine) HandleEvent(ev ChangeEvent) error {
	var kind gpucore.PipelineKind
	switch ev.Name {
	case shaders.Compute:
		kind = gpucore.PipelineCompute
	case shaders.Render:
		kind = gpucore.PipelineRender
	default:
		Logger().Debug("voxelview: ignoring change", "name", ev.Name, "path", ev.Path)
		return nil
	}
	Logger().Info("voxelview: reloading shader", "stage", ev.Name)
	return e.Rebuild(kind)
}

// HotReload applies at most one pending shader change. It never blocks.
func (e *Engine) HotReload() error {
	if e.closed {
		return ErrClosed
	}
	if e.source == nil {
		return nil
	}
	ev, ok := e.source.Poll()
	if !ok {
		return nil
	}
	return e.HandleEvent(ev)
}
