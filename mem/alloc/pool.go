package alloc

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/framekit/mem"
	"github.com/joshuapare/framekit/mem/refcount"
)

// Runtime debug flag for allocation logging - controlled by
// FRAMEKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("FRAMEKIT_LOG_ALLOC") != ""

const (
	// freedPattern overwrites frames on their way into the free list,
	// so dangling accesses read recognizable junk.
	freedPattern = 0x01

	// allocPattern overwrites frames handed out by Allocate, so reads
	// of uninitialized memory read recognizable junk.
	allocPattern = 0x05

	// nilFrame terminates the free stack.
	nilFrame = int32(-1)
)

// Pool is the physical frame allocator. It owns the reference-count
// table and the free list for one managed range and lives for the whole
// run; create it once at boot (or per test) and pass it by handle.
type Pool struct {
	bank   *mem.Bank
	refs   *refcount.Table
	layout mem.Layout
	first  mem.Frame

	// mu guards free-list structure only, never frame content.
	mu   sync.Mutex
	head int32
	next []int32
	free int

	allocCalls   atomic.Int64
	allocFails   atomic.Int64
	releaseCalls atomic.Int64
	freedFrames  atomic.Int64
}

// Stats is a snapshot of pool activity since New returned.
type Stats struct {
	AllocCalls   int64 // Allocate() calls
	AllocFails   int64 // Allocate() calls that hit ErrOutOfMemory
	ReleaseCalls int64 // Release() calls
	FreedFrames  int64 // releases that actually returned a frame to the list
	FreeFrames   int   // frames currently on the free list
}

// New builds a pool over the managed range of l, backed by bank. Every
// frame's counter starts zeroed and the usable range is donated to the
// free list through the release path, so after New returns each managed
// frame sits on the list exactly once with a count of 0.
func New(bank *mem.Bank, l mem.Layout) (*Pool, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if bank.Size() < l.PhysTop {
		return nil, ErrBankTooSmall
	}

	p := &Pool{
		bank:   bank,
		refs:   refcount.New(l),
		layout: l,
		first:  l.FirstFrame(),
		head:   nilFrame,
		next:   make([]int32, l.Frames()),
	}
	for i := range p.next {
		p.next[i] = nilFrame
	}

	// Donate every managed frame. Counters are primed to 1 first so the
	// release path walks them down to exactly 0: "free" is 0 everywhere,
	// with no off-by-one below it.
	for f := p.first; f < l.FrameLimit(); f++ {
		p.refs.SetOwned(f)
		p.Release(f)
	}

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[POOL] initialized: %d frames in [%#x, %#x)\n",
			l.Frames(), p.first.Address(), l.FrameLimit().Address())
	}

	// Donation traffic is setup, not activity.
	p.releaseCalls.Store(0)
	p.freedFrames.Store(0)

	return p, nil
}

// Allocate pops one frame off the free list, establishes sole ownership
// (count 1), and fills it with the allocation debug pattern. Content of
// the returned frame is unspecified. Returns ErrOutOfMemory when the
// list is empty, with no other state changed.
func (p *Pool) Allocate() (mem.Frame, error) {
	p.allocCalls.Add(1)

	p.mu.Lock()
	idx := p.head
	if idx == nilFrame {
		p.mu.Unlock()
		p.allocFails.Add(1)
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[POOL] allocate failed: free list empty\n")
		}
		return 0, ErrOutOfMemory
	}
	p.head = p.next[idx]
	p.next[idx] = nilFrame
	p.free--
	p.mu.Unlock()

	f := p.first + mem.Frame(idx)
	p.refs.SetOwned(f)
	p.bank.FillFrame(f, allocPattern)
	return f, nil
}

// Release drops one reference on f. If other references remain the
// frame stays allocated; when the count reaches 0 the frame is filled
// with the freed debug pattern and pushed onto the free list, most
// recently freed first.
//
// Passing a frame outside the managed range is a programming error and
// panics. The frame lock is released before the list lock is taken.
func (p *Pool) Release(f mem.Frame) {
	if !p.layout.Contains(f) {
		panic(fmt.Sprintf("alloc: release of frame %#x outside managed range [%#x, %#x)",
			f.Address(), p.first.Address(), p.layout.FrameLimit().Address()))
	}
	p.releaseCalls.Add(1)

	if p.refs.Decrement(f) > 0 {
		// Frame remains shared.
		return
	}

	// Last reference gone. Nobody can reach the frame until it is back
	// on the list, so the fill races with no one.
	p.bank.FillFrame(f, freedPattern)
	p.freedFrames.Add(1)

	idx := int32(f - p.first)
	p.mu.Lock()
	p.next[idx] = p.head
	p.head = idx
	p.free++
	p.mu.Unlock()
}

// Increment raises f's reference count by one. Returns
// mem.ErrInvalidFrame outside the managed range.
func (p *Pool) Increment(f mem.Frame) error {
	return p.refs.Increment(f)
}

// Refs returns the pool's reference-count table.
func (p *Pool) Refs() *refcount.Table {
	return p.refs
}

// Bank returns the backing physical memory.
func (p *Pool) Bank() *mem.Bank {
	return p.bank
}

// Layout returns the managed range.
func (p *Pool) Layout() mem.Layout {
	return p.layout
}

// FreeFrames returns the number of frames currently on the free list.
func (p *Pool) FreeFrames() int {
	p.mu.Lock()
	n := p.free
	p.mu.Unlock()
	return n
}

// Stats returns a snapshot of pool activity.
func (p *Pool) Stats() Stats {
	return Stats{
		AllocCalls:   p.allocCalls.Load(),
		AllocFails:   p.allocFails.Load(),
		ReleaseCalls: p.releaseCalls.Load(),
		FreedFrames:  p.freedFrames.Load(),
		FreeFrames:   p.FreeFrames(),
	}
}
