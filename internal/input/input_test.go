// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import "testing"

func TestReleasedKeyIsNotDown(t *testing.T) {
	s := New()
	s.OnKeyDown(KeyForward)
	s.OnKeyUp(KeyForward)
	if s.KeyDown(KeyForward) {
		t.Fatal("released key reported down")
	}
	if !s.KeyPressed(KeyForward) {
		t.Fatal("press not visible before Reset")
	}
	s.Reset()
	if s.KeyPressed(KeyForward) {
		t.Fatal("press visible after Reset")
	}
}

func TestHeldKeySurvivesReset(t *testing.T) {
	s := New()
	s.OnKeyDown(KeyLeft)
	s.Reset()
	if !s.KeyDown(KeyLeft) {
		t.Fatal("held key lost on Reset")
	}
	s.OnKeyUp(KeyLeft)
	s.Reset()
	if s.KeyDown(KeyLeft) {
		t.Fatal("released key still down")
	}
}

func TestMouse(t *testing.T) {
	s := New()
	s.OnMouseMove(3, -1)
	s.OnMouseMove(2, 4)
	s.OnMouseWheel(1.5)
	s.OnMouseButtonDown(MouseRight)

	if dx, dy := s.MouseDelta(); dx != 5 || dy != 3 {
		t.Errorf("MouseDelta() = (%v, %v), want (5, 3)", dx, dy)
	}
	if s.Wheel() != 1.5 {
		t.Errorf("Wheel() = %v", s.Wheel())
	}
	if !s.MouseButtonDown(MouseRight) || s.MouseButtonDown(MouseLeft) {
		t.Error("button state wrong")
	}

	s.Reset()
	if dx, dy := s.MouseDelta(); dx != 0 || dy != 0 {
		t.Errorf("MouseDelta() after Reset = (%v, %v)", dx, dy)
	}
	if s.Wheel() != 0 {
		t.Error("wheel not reset")
	}
	if !s.MouseButtonDown(MouseRight) {
		t.Error("held button lost on Reset")
	}
	if s.MouseButtonPressed(MouseRight) {
		t.Error("press survived Reset")
	}
	s.OnMouseButtonUp(MouseRight)
	if s.MouseButtonDown(MouseRight) {
		t.Error("released button still down")
	}
}

func TestOutOfRange(t *testing.T) {
	s := New()
	s.OnKeyDown(Key(200))
	if s.KeyDown(Key(200)) {
		t.Error("out of range key reported down")
	}
	if got := Key(200).String(); got != "Key(200)" {
		t.Errorf("String() = %q", got)
	}
}
