// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resource implements the GPU resource manager: a generational
// handle arena over a [gpucore.Device].
//
// Every GPU object the engine owns (shader modules, compute and render
// pipelines, bind groups, textures, buffers) is created through a [Manager]
// and referred to by a typed handle. A handle packs a slot index and a
// generation; destroying an object bumps the slot's generation so every copy
// of the old handle becomes detectably invalid.
//
// # Contracts
//
// Lifecycle bugs are not recoverable. The manager panics with a
// [*ContractViolation] when it is asked to:
//   - destroy or use an unknown or already destroyed handle
//   - destroy a shader while a live pipeline was built from it
//   - create a bind group whose bindings do not match the pipeline layout
//   - record a pass with a bind group whose pipeline or resources are gone
//
// Device failures (out of memory, lost device) are ordinary errors and are
// returned wrapped. Shader compile failures are returned as
// [*gpucore.CompileError].
//
// A Manager is not safe for concurrent use. It is driven from the render
// goroutine only.
package resource
