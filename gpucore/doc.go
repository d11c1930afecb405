// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore defines the graphics-device boundary used by voxelview.
//
// The [Device] interface is the only way the rest of the module talks to the
// GPU. It creates and destroys backend-native objects (shader modules,
// pipelines, bind groups, textures, buffers), uploads data, and records one
// frame of commands through [Frame]. Native objects are opaque ([Object]);
// callers never inspect them and only hand them back to the device that
// created them.
//
// Shader sources are validated with naga by [CompileWGSL], which also
// reflects entry points and workgroup sizes from the lowered IR.
//
// Ownership and validity of those objects is not tracked here. The resource
// manager in internal/resource wraps a Device with a handle arena and
// enforces lifecycle contracts on top of it.
//
// # Architecture
//
//	               +------------------+
//	               | voxelview.Engine |
//	               +---------+--------+
//	                         |
//	               +---------v--------+
//	               | resource.Manager |  handles, contracts
//	               +---------+--------+
//	                         |
//	               +---------v--------+
//	               |  gpucore.Device  |  this package
//	               +---------+--------+
//	                         |
//	        +----------------+----------------+
//	        |                                 |
//	+-------v--------+               +--------v---------+
//	| backend/native |               | internal/gputest |
//	|  (wgpu/hal)    |               |   (recording)    |
//	+----------------+               +------------------+
//
// # Binding layouts
//
// Pipelines are created from a WGSL source plus a fixed list of
// [LayoutEntry] values. Bind groups are matched against that list entry by
// entry; see [LayoutEntry.CheckTexture] and [LayoutEntry.CheckBuffer].
package gpucore
