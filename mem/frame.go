package mem

const (
	// FrameShift is the base-2 log of the frame size.
	FrameShift = 12

	// FrameSize is the size of a physical frame in bytes. Frames are
	// uniform; there are no size classes.
	FrameSize = 1 << FrameShift

	// MaxVirtAddr is the exclusive upper bound on virtual addresses the
	// translation layer supports. Lookups at or above it never resolve.
	MaxVirtAddr uintptr = 1 << 38
)

// Frame identifies a physical frame by index: the frame holding physical
// address pa is Frame(pa >> FrameShift).
type Frame uintptr

// Address returns the physical address of the first byte of the frame.
func (f Frame) Address() uintptr {
	return uintptr(f) << FrameShift
}

// FrameFromAddress converts a frame-aligned physical address to its
// frame. It returns ErrUnalignedAddress if pa is not aligned to
// FrameSize; this is the single choke point for alignment validation.
func FrameFromAddress(pa uintptr) (Frame, error) {
	if pa&(FrameSize-1) != 0 {
		return 0, ErrUnalignedAddress
	}
	return Frame(pa >> FrameShift), nil
}

// FrameContaining returns the frame holding addr, rounding down.
func FrameContaining(addr uintptr) Frame {
	return Frame(addr >> FrameShift)
}

// FrameRoundDown rounds addr down to its frame boundary.
func FrameRoundDown(addr uintptr) uintptr {
	return addr &^ uintptr(FrameSize-1)
}

// FrameRoundUp rounds addr up to the next frame boundary.
func FrameRoundUp(addr uintptr) uintptr {
	return (addr + FrameSize - 1) &^ uintptr(FrameSize-1)
}
