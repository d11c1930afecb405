// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

// slot is one entry of an arena.
type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// arena is a generational slot table. Freed slots are reused with a bumped
// generation, which invalidates every outstanding id for the old occupant.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// insert stores v and returns its id.
func (a *arena[T]) insert(v T) id {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[index]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	s.val = v
	a.count++
	return makeID(index, s.gen)
}

// get returns a pointer to the value for i, or nil if i is not live.
func (a *arena[T]) get(i id) *T {
	if i == 0 {
		return nil
	}
	index := i.index()
	if int(index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[index]
	if !s.live || s.gen != i.gen() {
		return nil
	}
	return &s.val
}

// remove frees i and returns its value. ok is false if i is not live.
func (a *arena[T]) remove(i id) (v T, ok bool) {
	p := a.get(i)
	if p == nil {
		return v, false
	}
	v = *p
	s := &a.slots[i.index()]
	var zero T
	s.val = zero
	s.live = false
	a.free = append(a.free, i.index())
	a.count--
	return v, true
}

// len returns the number of live entries.
func (a *arena[T]) len() int { return a.count }

// ids returns the ids of all live entries in slot order.
func (a *arena[T]) ids() []id {
	out := make([]id, 0, a.count)
	for index := range a.slots {
		s := &a.slots[index]
		if s.live {
			out = append(out, makeID(uint32(index), s.gen))
		}
	}
	return out
}
