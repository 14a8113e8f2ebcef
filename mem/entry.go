package mem

// Flags is the access-flag bitmask of a page-table entry. Only the three
// bits below are interpreted by this subsystem; any other bits are
// carried through mapping updates unchanged.
type Flags uint64

const (
	// FlagValid marks a live mapping.
	FlagValid Flags = 1 << iota

	// FlagWritable permits stores through the mapping. An entry may be
	// writable only while its frame's refcount is exactly 1.
	FlagWritable

	// FlagCopyOnWrite marks a read-only mapping whose frame is shared;
	// a write fault duplicates or reclaims the frame.
	FlagCopyOnWrite
)

// Has reports whether every bit in mask is set.
func (fl Flags) Has(mask Flags) bool {
	return fl&mask == mask
}

// Set returns fl with the bits in mask set.
func (fl Flags) Set(mask Flags) Flags {
	return fl | mask
}

// Clear returns fl with the bits in mask cleared.
func (fl Flags) Clear(mask Flags) Flags {
	return fl &^ mask
}

// Entry is a page-table entry: a frame reference plus access flags.
type Entry struct {
	Frame Frame
	Flags Flags
}

// Translator is the address-translation service consumed by the
// copy-on-write resolver. The fault dispatch guarantees that at most one
// fault handler runs per mapping at a time; implementations only need to
// make individual calls atomic.
type Translator interface {
	// Lookup returns the entry mapping va, if one exists. The returned
	// entry is a copy; mutating it does not change the table.
	Lookup(va uintptr) (Entry, bool)

	// Map installs or replaces the entry for va in one step. It may
	// fail (for example when translation structures cannot be built),
	// in which case the previous mapping for va must remain intact.
	Map(va uintptr, e Entry) error

	// Update rewrites an existing entry for va in place. It must not
	// fail; callers only invoke it for addresses that Lookup resolved.
	Update(va uintptr, e Entry)
}
