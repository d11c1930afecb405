// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/voxelview"
	"github.com/gogpu/voxelview/backend/native"
	"github.com/gogpu/voxelview/internal/input"
)

var keymap = map[gpucontext.Key]input.Key{
	gpucontext.KeyW:     input.KeyForward,
	gpucontext.KeyS:     input.KeyBack,
	gpucontext.KeyA:     input.KeyLeft,
	gpucontext.KeyD:     input.KeyRight,
	gpucontext.KeySpace: input.KeyUp,
	gpucontext.KeyC:     input.KeyDown,
}

var buttonmap = map[gpucontext.MouseButton]input.MouseButton{
	gpucontext.MouseButtonLeft:   input.MouseLeft,
	gpucontext.MouseButtonRight:  input.MouseRight,
	gpucontext.MouseButtonMiddle: input.MouseMiddle,
}

// inputBridge feeds window events into the engine's input state. Events
// that arrive before the engine exists are dropped.
type inputBridge struct {
	state func() *input.State

	lastX, lastY float64
	hasLast      bool
}

func (b *inputBridge) attach(src gpucontext.EventSource) {
	src.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) { b.keyPress(key) })
	src.OnKeyRelease(func(key gpucontext.Key, _ gpucontext.Modifiers) { b.keyRelease(key) })
	src.OnMouseMove(b.mouseMove)
	src.OnMousePress(func(btn gpucontext.MouseButton, _, _ float64) { b.mousePress(btn) })
	src.OnMouseRelease(func(btn gpucontext.MouseButton, _, _ float64) { b.mouseRelease(btn) })
	src.OnScroll(func(_, dy float64) { b.scroll(dy) })
}

func (b *inputBridge) keyPress(key gpucontext.Key) {
	if s := b.state(); s != nil {
		if k, ok := keymap[key]; ok {
			s.OnKeyDown(k)
		}
	}
}

func (b *inputBridge) keyRelease(key gpucontext.Key) {
	if s := b.state(); s != nil {
		if k, ok := keymap[key]; ok {
			s.OnKeyUp(k)
		}
	}
}

// mouseMove converts absolute cursor positions to deltas.
func (b *inputBridge) mouseMove(x, y float64) {
	if s := b.state(); s != nil && b.hasLast {
		s.OnMouseMove(x-b.lastX, y-b.lastY)
	}
	b.lastX, b.lastY, b.hasLast = x, y, true
}

func (b *inputBridge) mousePress(btn gpucontext.MouseButton) {
	if s := b.state(); s != nil {
		if mb, ok := buttonmap[btn]; ok {
			s.OnMouseButtonDown(mb)
		}
	}
}

func (b *inputBridge) mouseRelease(btn gpucontext.MouseButton) {
	if s := b.state(); s != nil {
		if mb, ok := buttonmap[btn]; ok {
			s.OnMouseButtonUp(mb)
		}
	}
}

func (b *inputBridge) scroll(dy float64) {
	if s := b.state(); s != nil {
		s.OnMouseWheel(dy)
	}
}

func runWindow(cfg voxelview.Config) error {
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("voxelview").
		WithSize(int(cfg.Width), int(cfg.Height)))

	var (
		dev *native.Device
		eng *voxelview.Engine
	)

	app.OnDraw(func(dc *gogpu.Context) {
		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}
		view := surfaceView(dc.SurfaceView())
		if view == nil {
			return
		}

		var err error
		if dev == nil {
			if dev, err = openDevice(app.GPUContextProvider()); err != nil {
				log.Fatal(err)
			}
		}
		dev.SetSurfaceView(view)
		if eng == nil {
			if eng, err = voxelview.New(dev, voxelview.WithConfig(cfg), voxelview.WithSize(uint32(w), uint32(h))); err != nil {
				log.Fatal(err)
			}
		}

		if err = eng.Resize(uint32(w), uint32(h)); err != nil {
			log.Fatal(err)
		}
		if _, err = eng.Frame(); err != nil {
			log.Fatal(err)
		}
	})

	bridge := &inputBridge{state: func() *input.State {
		if eng == nil {
			return nil
		}
		return eng.Input()
	}}
	bridge.attach(app.EventSource())

	app.OnClose(func() {
		if eng != nil {
			if err := eng.Close(); err != nil {
				voxelview.Logger().Warn("close engine", "err", err)
			}
		}
		if dev != nil {
			dev.Release()
		}
	})

	return app.Run()
}

// surfaceView returns the HAL view behind the frame's surface view, nil when
// no frame is in progress.
func surfaceView(v *wgpu.TextureView) hal.TextureView {
	if v == nil {
		return nil
	}
	return v.HalTextureView()
}

var errNoHALDevice = errors.New("voxelview: GPU context has no HAL device")

// openDevice wraps the HAL device and queue behind gogpu's device provider.
func openDevice(provider gpucontext.DeviceProvider) (*native.Device, error) {
	if provider == nil {
		return nil, errNoHALDevice
	}
	wdev, ok := provider.Device().(*wgpu.Device)
	if !ok || wdev == nil {
		return nil, fmt.Errorf("%w: device is %T", errNoHALDevice, provider.Device())
	}
	device, queue := wdev.HalDevice(), wdev.HalQueue()
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: device released", errNoHALDevice)
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = native.DefaultSurfaceFormat
	}
	return native.NewDevice(device, queue, format), nil
}
