// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package voxelview renders a voxel world with a compute-then-render GPU
// frame and reloads its WGSL shaders while running.
//
// # Overview
//
// Each frame a compute pass raymarches a 3D voxel texture into an
// intermediate RGBA8Uint image, one invocation per pixel, and a render pass
// draws that image to the surface with a single full-screen triangle.
// Editing compute.wgsl or render.wgsl on disk rebuilds the matching
// pipeline on a later frame without restarting.
//
// # Quick Start
//
//	dev, release, err := native.NewNoopDevice()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer release()
//
//	eng, err := voxelview.New(dev, voxelview.WithShaderDir("./shaders"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	for running {
//	    if _, err := eng.Frame(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Frame Sequence
//
// [Engine.Frame] runs four steps in a fixed order:
//
//  1. HotReload applies at most one pending shader change.
//  2. Update advances time and moves the camera from input.
//  3. Prepare uploads uniforms and voxels and recreates bind groups.
//  4. Render records the compute and render passes and submits them.
//
// A stage whose shader failed to compile has no pipeline and is skipped;
// the other stage keeps running. Compile failures are logged, never
// returned. Errors returned by the engine come from the device and wrap
// [ErrDevice].
//
// # Architecture
//
//	voxelview (Engine: lifecycle, sequencing, resize)
//	    |
//	    +-- internal/resource   handle arena over a gpucore.Device
//	    +-- internal/watcher    debounced fsnotify shader watcher
//	    +-- internal/scene      voxel world, camera, globals
//	    +-- internal/input      keyboard and mouse state
//	    |
//	gpucore (Device interface)
//	    |
//	    +-- backend/native      gogpu/wgpu HAL device, naga validation
//	    +-- internal/gputest    recording fake for tests
//
// # Logging
//
// voxelview is silent by default. See [SetLogger].
package voxelview
