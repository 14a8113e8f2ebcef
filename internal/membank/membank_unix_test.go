//go:build unix

package membank

import (
	"testing"
)

func TestMapAnonUnix(t *testing.T) {
	const size = 1 << 16
	data, cleanup, err := MapAnon(size)
	if err != nil {
		t.Fatalf("MapAnon: %v", err)
	}
	if len(data) != size {
		t.Fatalf("mapped %d bytes, want %d", len(data), size)
	}

	// Anonymous mappings start zeroed and must be writable.
	for _, i := range []int{0, size / 2, size - 1} {
		if data[i] != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, data[i])
		}
		data[i] = 0xCC
		if data[i] != 0xCC {
			t.Fatalf("byte %d not writable", i)
		}
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	// Double-unmap is a no-op for callers.
	if err := cleanup(); err != nil {
		t.Fatalf("second cleanup: %v", err)
	}
}

func TestMapAnonRejectsBadSize(t *testing.T) {
	if _, _, err := MapAnon(0); err == nil {
		t.Fatal("expected error for zero size")
	}
	if _, _, err := MapAnon(-1); err == nil {
		t.Fatal("expected error for negative size")
	}
}
