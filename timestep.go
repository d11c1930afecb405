// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package voxelview

import "time"

// maxFrameDelta caps the delta reported for a single update.
const maxFrameDelta = 250 * time.Millisecond

// timeStep measures the time between updates.
type timeStep struct {
	now     func() time.Time
	last    time.Time
	started bool
}

// tick returns the seconds elapsed since the previous tick. The first tick
// returns 0.
func (t *timeStep) tick() float32 {
	now := t.now()
	if !t.started {
		t.started = true
		t.last = now
		return 0
	}
	d := now.Sub(t.last)
	t.last = now
	if d < 0 {
		d = 0
	}
	if d > maxFrameDelta {
		d = maxFrameDelta
	}
	return float32(d.Seconds())
}
