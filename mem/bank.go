package mem

import (
	"fmt"

	"github.com/joshuapare/framekit/internal/membank"
)

// Bank holds the bytes of the managed physical range. It provides the
// raw fill and copy primitives the allocator and resolver need; it does
// no bookkeeping of its own and holds no locks. Safe shared access to
// frame content is enforced by the translation layer's Writable bit,
// not here.
type Bank struct {
	data  []byte
	unmap func() error
}

// NewBank maps size bytes of zeroed memory as the physical range
// [0, size). Size must be frame-aligned.
func NewBank(size uintptr) (*Bank, error) {
	if size == 0 || size&(FrameSize-1) != 0 {
		return nil, fmt.Errorf("%w: bank size %#x not frame-aligned", ErrBadLayout, size)
	}
	data, unmap, err := membank.MapAnon(int(size))
	if err != nil {
		return nil, err
	}
	return &Bank{data: data, unmap: unmap}, nil
}

// Size returns the extent of the bank in bytes.
func (b *Bank) Size() uintptr {
	return uintptr(len(b.data))
}

// FrameBytes returns the FrameSize-byte slice backing f. It panics if f
// lies outside the bank, like any out-of-range slice access.
func (b *Bank) FrameBytes(f Frame) []byte {
	off := f.Address()
	return b.data[off : off+FrameSize : off+FrameSize]
}

// FillFrame overwrites every byte of f with pattern.
func (b *Bank) FillFrame(f Frame, pattern byte) {
	fb := b.FrameBytes(f)
	for i := range fb {
		fb[i] = pattern
	}
}

// CopyFrame copies the full content of src into dst.
func (b *Bank) CopyFrame(dst, src Frame) {
	copy(b.FrameBytes(dst), b.FrameBytes(src))
}

// Close releases the mapping. The bank must not be used afterwards.
func (b *Bank) Close() error {
	if b.unmap == nil {
		return nil
	}
	err := b.unmap()
	b.data, b.unmap = nil, nil
	return err
}
