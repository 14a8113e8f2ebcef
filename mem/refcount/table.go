// Package refcount tracks how many live virtual mappings reference each
// physical frame. Each frame has an independent counter guarded by its
// own lock, so operations on different frames never contend. A count of
// 0 means the frame is free; 1 means a sole owner; 2 or more means the
// frame is shared copy-on-write.
package refcount

import (
	"fmt"
	"sync"

	"github.com/joshuapare/framekit/mem"
)

type entry struct {
	mu    sync.Mutex
	count int32
}

// Table holds one reference-count entry per managed frame. It is sized
// for the entire managed range at construction and never resized.
type Table struct {
	first   mem.Frame
	limit   mem.Frame
	entries []entry
}

// New builds a zeroed table covering the managed range of l.
func New(l mem.Layout) *Table {
	return &Table{
		first:   l.FirstFrame(),
		limit:   l.FrameLimit(),
		entries: make([]entry, l.Frames()),
	}
}

func (t *Table) contains(f mem.Frame) bool {
	return f >= t.first && f < t.limit
}

func (t *Table) entry(f mem.Frame) *entry {
	if !t.contains(f) {
		panic(fmt.Sprintf("refcount: frame %#x outside managed range [%#x, %#x)",
			f.Address(), t.first.Address(), t.limit.Address()))
	}
	return &t.entries[f-t.first]
}

// Increment raises f's count by one. It is called whenever an additional
// virtual mapping is created for an already-allocated frame, such as
// when a fork duplicates a parent's mapping into a child without copying
// data. Returns mem.ErrInvalidFrame for frames outside the managed
// range.
func (t *Table) Increment(f mem.Frame) error {
	if !t.contains(f) {
		return mem.ErrInvalidFrame
	}
	e := &t.entries[f-t.first]
	e.mu.Lock()
	e.count++
	e.mu.Unlock()
	return nil
}

// Decrement lowers f's count by one and returns the new value. Frames
// outside the managed range indicate an internal bug; Decrement panics.
func (t *Table) Decrement(f mem.Frame) int32 {
	e := t.entry(f)
	e.mu.Lock()
	e.count--
	c := e.count
	e.mu.Unlock()
	return c
}

// SetOwned marks f as exclusively owned (count 1), regardless of its
// previous count. The allocate path uses this to establish sole
// ownership of a frame fresh off the free list.
func (t *Table) SetOwned(f mem.Frame) {
	e := t.entry(f)
	e.mu.Lock()
	e.count = 1
	e.mu.Unlock()
}

// Count returns a locked snapshot of f's count.
func (t *Table) Count(f mem.Frame) int32 {
	e := t.entry(f)
	e.mu.Lock()
	c := e.count
	e.mu.Unlock()
	return c
}

// Exclusive runs fn under f's lock if and only if f's count is exactly
// 1, and reports whether fn ran. The lock is released before Exclusive
// returns, so callers on the shared path may invoke the allocator
// afterwards without ever holding a frame lock across the free-list
// lock.
func (t *Table) Exclusive(f mem.Frame, fn func()) bool {
	e := t.entry(f)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.count != 1 {
		return false
	}
	fn()
	return true
}
