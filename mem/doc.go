// Package mem defines the core types of the physical memory subsystem.
//
// # Overview
//
// Physical memory is managed as fixed-size frames of FrameSize bytes. A
// Frame is an index into physical memory (address >> FrameShift), which
// keeps frame arithmetic cheap and makes misaligned frame values
// unrepresentable once past the address conversion boundary.
//
// The package also defines:
//
//   - Layout: the managed physical range, passed explicitly into every
//     subsystem constructor so pools can be instantiated over synthetic
//     ranges for testing
//   - Entry and Flags: a page-table entry as seen by this subsystem
//     (Valid, Writable, CopyOnWrite plus opaque extra bits)
//   - Translator: the address-translation service consumed by the
//     copy-on-write resolver
//   - Bank: the backing bytes of the managed physical range, with raw
//     fill and copy primitives over single frames
//
// # Related Packages
//
//   - github.com/joshuapare/framekit/mem/refcount: per-frame reference counts
//   - github.com/joshuapare/framekit/mem/alloc: the free-list frame pool
//   - github.com/joshuapare/framekit/mem/cow: copy-on-write fault resolution
package mem
