package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the free list is empty. This is the only
	// recoverable failure in the subsystem; the caller decides the
	// consequence (fail a fork, kill the faulting process, ...).
	ErrOutOfMemory = errors.New("alloc: out of physical frames")

	// ErrBankTooSmall indicates the bank does not cover the layout.
	ErrBankTooSmall = errors.New("alloc: bank smaller than managed range")
)
