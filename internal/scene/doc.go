// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene holds the GPU-visible state the frame orchestrator feeds
// into its passes: the voxel volume, the camera and the global parameters.
//
// Each collaborator keeps a CPU copy of its state, owns one GPU resource
// created through the resource manager, and exposes the bind group layout
// entry under which that resource is bound. Uniform structs are packed
// little-endian with WGSL alignment.
package scene
