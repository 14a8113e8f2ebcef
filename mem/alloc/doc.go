// Package alloc provides the physical frame pool: a free-list allocator
// over the managed range plus the per-frame reference counts that drive
// frame lifetime.
//
// # Overview
//
// Frames move through a fixed lifecycle:
//
//	Free → Allocated (count 1) → optionally Shared (count > 1,
//	via Increment on the fork path) → Free once the last reference
//	is released
//
// The free list is an index-based LIFO stack: a side table stores, for
// each managed frame, the index of the next free frame below it. Frame
// content is never reinterpreted as list structure, so freed frames can
// be handed out as opaque bytes without aliasing hazards.
//
// # Concurrency
//
// Two lock granularities exist: one lock per frame (guarding only that
// frame's counter, owned by the refcount table) and one pool lock
// guarding free-list structure. All critical sections are short
// metadata mutations; no operation blocks or sleeps. The fixed ordering
// rule is that a frame lock is always released before the list lock is
// acquired — Release decrements under the frame lock, drops it, and
// only then pushes onto the list.
//
// # Errors
//
// Free-list exhaustion is the only ordinary, recoverable failure
// (ErrOutOfMemory). Out-of-range frames passed to Release can only come
// from internal bugs and panic instead.
//
// # Debug fill patterns
//
// Freed frames are overwritten with 0x01 to surface dangling accesses;
// fresh allocations are overwritten with 0x05 to surface reads of
// uninitialized memory. Callers must treat allocated content as
// unspecified.
package alloc
