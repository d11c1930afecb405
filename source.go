// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"time"

	"github.com/gogpu/voxelview/internal/watcher"
)

// ChangeEvent reports that the shader named Name changed on disk.
type ChangeEvent struct {
	// Name is the shader identity: "compute" or "render".
	Name string

	// Path is the changed file.
	Path string

	// Time is when the change was detected.
	Time time.Time
}

// ChangeSource delivers shader change events. Poll must not block and
// returns at most one event per call.
type ChangeSource interface {
	Poll() (ChangeEvent, bool)
}

// watcherSource adapts a filesystem watcher to ChangeSource.
type watcherSource struct {
	w *watcher.Watcher
}

func newWatcherSource(dir string, debounce time.Duration) (*watcherSource, error) {
	w, err := watcher.New(dir, watcher.WithDebounce(debounce), watcher.WithExtensions(".wgsl"))
	if err != nil {
		return nil, err
	}
	return &watcherSource{w: w}, nil
}

func (s *watcherSource) Poll() (ChangeEvent, bool) {
	ev, ok := s.w.Poll()
	if !ok {
		return ChangeEvent{}, false
	}
	return ChangeEvent{Name: ev.Name, Path: ev.Path, Time: ev.Time}, true
}

func (s *watcherSource) Close() error {
	return s.w.Close()
}
