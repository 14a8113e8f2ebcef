package mem

import "errors"

var (
	// ErrUnalignedAddress indicates a physical address that is not
	// aligned to FrameSize.
	ErrUnalignedAddress = errors.New("mem: address not frame-aligned")

	// ErrInvalidFrame indicates a frame outside the managed range.
	ErrInvalidFrame = errors.New("mem: frame outside managed range")

	// ErrBadLayout indicates a Layout whose bounds are unusable.
	ErrBadLayout = errors.New("mem: invalid physical layout")
)
