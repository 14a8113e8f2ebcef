package mem

import "fmt"

// Layout describes the managed physical range. The frames between the
// end of the reserved kernel image and the top of physical memory are
// the allocatable pool; everything below KernelEnd is never touched.
//
// Layouts are plain values passed explicitly into constructors, so a
// pool can be instantiated over a small synthetic range in tests.
type Layout struct {
	// KernelEnd is the first byte after reserved kernel memory. It is
	// rounded up to a frame boundary before use.
	KernelEnd uintptr

	// PhysTop is the exclusive top of managed physical memory. It must
	// be frame-aligned.
	PhysTop uintptr
}

// Validate reports whether the layout describes a usable range.
func (l Layout) Validate() error {
	if l.PhysTop&(FrameSize-1) != 0 {
		return fmt.Errorf("%w: PhysTop %#x not frame-aligned", ErrBadLayout, l.PhysTop)
	}
	if FrameRoundUp(l.KernelEnd) >= l.PhysTop {
		return fmt.Errorf("%w: no frames between KernelEnd %#x and PhysTop %#x",
			ErrBadLayout, l.KernelEnd, l.PhysTop)
	}
	return nil
}

// FirstFrame returns the first managed frame.
func (l Layout) FirstFrame() Frame {
	return FrameContaining(FrameRoundUp(l.KernelEnd))
}

// FrameLimit returns the exclusive upper bound on managed frames.
func (l Layout) FrameLimit() Frame {
	return FrameContaining(l.PhysTop)
}

// Frames returns the number of managed frames.
func (l Layout) Frames() int {
	return int(l.FrameLimit() - l.FirstFrame())
}

// Contains reports whether f lies inside the managed range.
func (l Layout) Contains(f Frame) bool {
	return f >= l.FirstFrame() && f < l.FrameLimit()
}
