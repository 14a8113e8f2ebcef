// Package pagetable provides a flat in-memory mem.Translator used by
// the simulator and tests. Real hardware page tables live outside this
// subsystem; this implementation only honors the Translator contract.
package pagetable

import (
	"fmt"
	"sync"

	"github.com/joshuapare/framekit/mem"
)

// Table maps frame-aligned virtual addresses directly to entries.
type Table struct {
	mu      sync.Mutex
	entries map[uintptr]mem.Entry
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[uintptr]mem.Entry)}
}

// Lookup returns the entry for the frame containing va.
func (t *Table) Lookup(va uintptr) (mem.Entry, bool) {
	t.mu.Lock()
	e, ok := t.entries[mem.FrameRoundDown(va)]
	t.mu.Unlock()
	return e, ok
}

// Map installs or replaces the entry for va in one step.
func (t *Table) Map(va uintptr, e mem.Entry) error {
	if va >= mem.MaxVirtAddr {
		return fmt.Errorf("pagetable: address %#x beyond maximum virtual address", va)
	}
	t.mu.Lock()
	t.entries[mem.FrameRoundDown(va)] = e
	t.mu.Unlock()
	return nil
}

// Update rewrites the existing entry for va. It panics if va is not
// mapped; Update is only for addresses a Lookup just resolved.
func (t *Table) Update(va uintptr, e mem.Entry) {
	va = mem.FrameRoundDown(va)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[va]; !ok {
		panic(fmt.Sprintf("pagetable: update of unmapped address %#x", va))
	}
	t.entries[va] = e
}

// Unmap removes the entry for va and returns it, if present.
func (t *Table) Unmap(va uintptr) (mem.Entry, bool) {
	va = mem.FrameRoundDown(va)
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[va]
	if ok {
		delete(t.entries, va)
	}
	return e, ok
}

// Len returns the number of live mappings.
func (t *Table) Len() int {
	t.mu.Lock()
	n := len(t.entries)
	t.mu.Unlock()
	return n
}
