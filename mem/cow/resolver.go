// Package cow resolves copy-on-write write faults.
//
// A fork duplicates a parent's mappings into a child without copying
// frame content: each shared frame's refcount is incremented and both
// mappings are downgraded to read-only with the CopyOnWrite flag set.
// The first store through such a mapping faults, and the fault handler
// routes the mapping here. Depending on how many sharers remain, the
// resolver either reclaims the frame in place (sole owner: flip the
// permission bits, no copy) or duplicates it into a fresh frame and
// drops one reference on the original.
package cow

import (
	"fmt"

	"github.com/joshuapare/framekit/mem"
	"github.com/joshuapare/framekit/mem/alloc"
)

// Resolver implements the copy-on-write fault algorithm on top of a
// frame pool and an address-translation service.
type Resolver struct {
	pool *alloc.Pool
}

// New returns a resolver backed by pool.
func New(pool *alloc.Pool) *Resolver {
	return &Resolver{pool: pool}
}

// IsCOW reports whether va is backed by a copy-on-write mapping in pt.
// It returns false for addresses at or beyond mem.MaxVirtAddr, for
// unmapped addresses, and for invalid entries. Pure query; no locks
// beyond the translation lookup itself.
func (r *Resolver) IsCOW(pt mem.Translator, va uintptr) bool {
	if va >= mem.MaxVirtAddr {
		return false
	}
	e, ok := pt.Lookup(mem.FrameRoundDown(va))
	if !ok || !e.Flags.Has(mem.FlagValid) {
		return false
	}
	return e.Flags.Has(mem.FlagCopyOnWrite)
}

// ResolveWriteFault resolves a write fault on the mapping covering va
// and returns the physical address the mapping refers to afterwards.
//
// When the faulting mapping is the sole remaining owner of its frame
// (count 1), write permission is restored and the CopyOnWrite flag
// cleared in place; the original frame address is returned with no
// allocation, no copy, and no refcount change. Otherwise the frame
// content is duplicated into a freshly allocated frame, the mapping is
// swapped to the copy as writable, and one reference on the original
// frame is released.
//
// The original mapping is never invalidated before the new one is
// installed: if allocation or installation fails, the fault returns
// alloc.ErrOutOfMemory (or the install error) and every mapping,
// counter, and frame is exactly as it was before the call.
//
// A fault on an absent or invalid mapping can only be a dispatch bug
// and panics.
func (r *Resolver) ResolveWriteFault(pt mem.Translator, va uintptr) (uintptr, error) {
	va = mem.FrameRoundDown(va)
	e, ok := pt.Lookup(va)
	if !ok || !e.Flags.Has(mem.FlagValid) {
		panic(fmt.Sprintf("cow: write fault on unmapped address %#x", va))
	}
	orig := e.Frame

	// Sole owner: reclaim in place under the frame lock. Exclusive
	// drops the lock before returning, so the shared path below never
	// holds a frame lock while the allocator takes the list lock.
	reclaimed := r.pool.Refs().Exclusive(orig, func() {
		e.Flags = e.Flags.Set(mem.FlagWritable).Clear(mem.FlagCopyOnWrite)
		pt.Update(va, e)
	})
	if reclaimed {
		return orig.Address(), nil
	}

	// Still shared: duplicate. Copy first, then swap the mapping in one
	// step, so a failure at any point leaves the original mapping valid
	// and owned.
	fresh, err := r.pool.Allocate()
	if err != nil {
		return 0, err
	}
	r.pool.Bank().CopyFrame(fresh, orig)

	e.Frame = fresh
	e.Flags = e.Flags.Set(mem.FlagWritable).Clear(mem.FlagCopyOnWrite)
	if err := pt.Map(va, e); err != nil {
		r.pool.Release(fresh)
		return 0, err
	}

	// The faulting mapping no longer references the original frame. It
	// may or may not reach the free list, depending on remaining
	// sharers.
	r.pool.Release(orig)
	return fresh.Address(), nil
}
