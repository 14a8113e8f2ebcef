//go:build !unix

// Package membank provides platform-specific helpers for mapping the
// anonymous memory that backs a physical frame bank.
package membank

import "fmt"

// MapAnon allocates the region from the Go heap when mmap is not
// available.
func MapAnon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("membank: invalid mapping size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
