package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBankFillAndCopy(t *testing.T) {
	b, err := NewBank(4 * FrameSize)
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, uintptr(4*FrameSize), b.Size())

	b.FillFrame(Frame(1), 0xAB)
	fb := b.FrameBytes(Frame(1))
	require.Len(t, fb, FrameSize)
	for i := range fb {
		require.Equal(t, byte(0xAB), fb[i])
	}

	// Neighbor untouched (fresh mapping is zeroed).
	require.Equal(t, byte(0), b.FrameBytes(Frame(2))[0])

	b.CopyFrame(Frame(3), Frame(1))
	require.Equal(t, byte(0xAB), b.FrameBytes(Frame(3))[0])
	require.Equal(t, byte(0xAB), b.FrameBytes(Frame(3))[FrameSize-1])
}

func TestBankRejectsMisalignedSize(t *testing.T) {
	_, err := NewBank(FrameSize + 1)
	require.ErrorIs(t, err, ErrBadLayout)

	_, err = NewBank(0)
	require.ErrorIs(t, err, ErrBadLayout)
}

func TestBankCloseIsIdempotent(t *testing.T) {
	b, err := NewBank(FrameSize)
	require.NoError(t, err)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}
