package refcount

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/framekit/mem"
)

func testLayout() mem.Layout {
	return mem.Layout{KernelEnd: mem.FrameSize, PhysTop: 9 * mem.FrameSize}
}

func TestNewStartsZeroed(t *testing.T) {
	tab := New(testLayout())
	for f := mem.Frame(1); f < 9; f++ {
		require.Equal(t, int32(0), tab.Count(f))
	}
}

func TestIncrementDecrement(t *testing.T) {
	tab := New(testLayout())
	f := mem.Frame(3)

	tab.SetOwned(f)
	require.Equal(t, int32(1), tab.Count(f))

	require.NoError(t, tab.Increment(f))
	require.NoError(t, tab.Increment(f))
	require.Equal(t, int32(3), tab.Count(f))

	require.Equal(t, int32(2), tab.Decrement(f))
	require.Equal(t, int32(1), tab.Decrement(f))
	require.Equal(t, int32(0), tab.Decrement(f))
}

func TestIncrementOutsideRange(t *testing.T) {
	tab := New(testLayout())

	// Frame 0 is reserved kernel memory; frame 9 is past the top.
	require.ErrorIs(t, tab.Increment(mem.Frame(0)), mem.ErrInvalidFrame)
	require.ErrorIs(t, tab.Increment(mem.Frame(9)), mem.ErrInvalidFrame)
	require.ErrorIs(t, tab.Increment(mem.Frame(1<<20)), mem.ErrInvalidFrame)
}

func TestDecrementOutsideRangePanics(t *testing.T) {
	tab := New(testLayout())
	require.Panics(t, func() { tab.Decrement(mem.Frame(0)) })
	require.Panics(t, func() { tab.Decrement(mem.Frame(9)) })
}

func TestSetOwnedResetsCount(t *testing.T) {
	tab := New(testLayout())
	f := mem.Frame(5)

	require.NoError(t, tab.Increment(f))
	require.NoError(t, tab.Increment(f))
	tab.SetOwned(f)
	require.Equal(t, int32(1), tab.Count(f))
}

func TestExclusive(t *testing.T) {
	tab := New(testLayout())
	f := mem.Frame(2)

	// Count 0: not exclusive, fn must not run.
	ran := false
	require.False(t, tab.Exclusive(f, func() { ran = true }))
	require.False(t, ran)

	tab.SetOwned(f)
	require.True(t, tab.Exclusive(f, func() { ran = true }))
	require.True(t, ran)

	require.NoError(t, tab.Increment(f))
	ran = false
	require.False(t, tab.Exclusive(f, func() { ran = true }))
	require.False(t, ran)
}

func TestConcurrentIncrements(t *testing.T) {
	tab := New(testLayout())
	const (
		perFrame = 200
		workers  = 8
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perFrame; i++ {
				for f := mem.Frame(1); f < 9; f++ {
					if err := tab.Increment(f); err != nil {
						t.Errorf("increment frame %#x: %v", f.Address(), err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	for f := mem.Frame(1); f < 9; f++ {
		require.Equal(t, int32(workers*perFrame), tab.Count(f))
	}
}
