// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package input tracks keyboard and mouse state between frames.
//
// The window layer feeds raw events in with the On* methods; the engine
// queries the state once per update and calls Reset at the end of it.
package input

import "fmt"

// Key is a logical movement key.
type Key uint8

// Keys.
const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	keyCount
)

// String returns the string representation of Key.
func (k Key) String() string {
	switch k {
	case KeyForward:
		return "Forward"
	case KeyBack:
		return "Back"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// MouseButton is a mouse button.
type MouseButton uint8

// Mouse buttons.
const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	buttonCount
)

// State holds the input observed since the last Reset.
//
// KeyDown and MouseButtonDown report held state, which survives Reset
// until the matching release. KeyPressed and MouseButtonPressed report
// presses since the last Reset.
type State struct {
	held    [keyCount]bool
	pressed [keyCount]bool

	buttonsHeld    [buttonCount]bool
	buttonsPressed [buttonCount]bool

	mouseDX, mouseDY float64
	wheel            float64
}

// New returns an empty input state.
func New() *State {
	return &State{}
}

// OnKeyDown records a key press.
func (s *State) OnKeyDown(k Key) {
	if k >= keyCount {
		return
	}
	s.held[k] = true
	s.pressed[k] = true
}

// OnKeyUp records a key release.
func (s *State) OnKeyUp(k Key) {
	if k >= keyCount {
		return
	}
	s.held[k] = false
}

// KeyDown reports whether k is held.
func (s *State) KeyDown(k Key) bool {
	if k >= keyCount {
		return false
	}
	return s.held[k]
}

// KeyPressed reports whether k was pressed since the last Reset.
func (s *State) KeyPressed(k Key) bool {
	if k >= keyCount {
		return false
	}
	return s.pressed[k]
}

// OnMouseButtonDown records a button press.
func (s *State) OnMouseButtonDown(b MouseButton) {
	if b >= buttonCount {
		return
	}
	s.buttonsHeld[b] = true
	s.buttonsPressed[b] = true
}

// OnMouseButtonUp records a button release.
func (s *State) OnMouseButtonUp(b MouseButton) {
	if b >= buttonCount {
		return
	}
	s.buttonsHeld[b] = false
}

// MouseButtonDown reports whether b is held.
func (s *State) MouseButtonDown(b MouseButton) bool {
	if b >= buttonCount {
		return false
	}
	return s.buttonsHeld[b]
}

// MouseButtonPressed reports whether b was pressed since the last Reset.
func (s *State) MouseButtonPressed(b MouseButton) bool {
	if b >= buttonCount {
		return false
	}
	return s.buttonsPressed[b]
}

// OnMouseMove accumulates relative mouse motion.
func (s *State) OnMouseMove(dx, dy float64) {
	s.mouseDX += dx
	s.mouseDY += dy
}

// MouseDelta returns the motion accumulated since the last Reset.
func (s *State) MouseDelta() (dx, dy float64) {
	return s.mouseDX, s.mouseDY
}

// OnMouseWheel accumulates wheel motion.
func (s *State) OnMouseWheel(delta float64) {
	s.wheel += delta
}

// Wheel returns the wheel motion accumulated since the last Reset.
func (s *State) Wheel() float64 {
	return s.wheel
}

// Reset clears per-frame state: presses, mouse motion and wheel.
func (s *State) Reset() {
	s.pressed = [keyCount]bool{}
	s.buttonsPressed = [buttonCount]bool{}
	s.mouseDX, s.mouseDY = 0, 0
	s.wheel = 0
}
