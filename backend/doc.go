// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend is a registry of device backends.
//
// Backend packages register a Factory from init(); commands select one by
// name at runtime:
//
//	import _ "github.com/gogpu/voxelview/backend/native"
//
//	dev, release, err := backend.Open("noop")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer release()
//
// The native package registers "noop", which runs the full HAL frame path
// without a GPU. Windowed devices come from the host application's GPU
// context instead, see native.NewDevice.
package backend
