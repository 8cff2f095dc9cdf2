package storage

// InMemoryStore is to be implemented by any ordered data structure that's to be
// used as the in memory store for the MemTable. Keys are unique and ordered
// byte-wise. Implementations keep the slices they are handed and never modify
// them afterwards, so callers must pass copies they won't touch again.
type InMemoryStore interface {
	// Get returns the record stored for key and true, or false if the store
	// has never seen key (or compaction removed it). Tombstones are returned
	// as RecordDelete records
	Get(key []byte) (*Record, bool)

	// Put inserts or updates the value if the key already exists. A tombstoned
	// key becomes live again
	Put(key []byte, value []byte)

	// Delete marks key as deleted. If the key is not present a tombstone
	// is inserted for it
	Delete(key []byte)

	// Remove erases key from the store entirely. Returns false if key was not
	// present. Only compaction should call this
	Remove(key []byte) bool

	// InternalIterator returns an iterator over every record in ascending key order
	InternalIterator() InternalIterator

	// RangeIterator returns an iterator over the records whose keys fall in r
	RangeIterator(r KeyRange) InternalIterator

	// Len returns the number of keys held, tombstones included
	Len() int

	// Size returns the approximate size in bytes of the keys and values held
	Size() uint64
}
