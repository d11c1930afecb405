// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/voxelview/internal/resource"
	"github.com/gogpu/voxelview/internal/watcher"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger for voxelview and its sub-packages.
// By default voxelview produces no log output.
//
// Pass nil to disable logging.
//
// Log levels used by voxelview:
//   - [slog.LevelDebug]: handle churn, skipped stages, dropped watch paths
//   - [slog.LevelInfo]: pipelines built, shader reloads, resizes
//   - [slog.LevelWarn]: dropped change events, leaked GPU objects at shutdown
//   - [slog.LevelError]: shader compile failures
//
// Example:
//
//	voxelview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	resource.SetLogger(l)
	watcher.SetLogger(l)
}

// Logger returns the current logger used by voxelview.
// backend/native calls this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
