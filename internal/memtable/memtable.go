package memtable

import (
	"time"

	"github.com/nbroyles/nbkv/internal/skiplist"
	"github.com/nbroyles/nbkv/internal/storage"
)

// MemTable owns every key and value written to it. Input slices are copied
// before they reach the store and lookups hand back copies, so callers never
// alias stored data.
type MemTable struct {
	memStore   storage.InMemoryStore
	tombstones int
}

func New() *MemTable {
	return NewWithStore(skiplist.New(time.Now().UnixNano()))
}

// NewWithStore creates a MemTable over an empty store
func NewWithStore(store storage.InMemoryStore) *MemTable {
	return &MemTable{memStore: store}
}

// Get returns a copy of the record for key, or false if key is absent
func (m *MemTable) Get(key []byte) (*storage.Record, bool) {
	rec, found := m.memStore.Get(key)
	if !found {
		return nil, false
	}

	return rec.Clone(), true
}

func (m *MemTable) Put(key []byte, value []byte) {
	if rec, found := m.memStore.Get(key); found && rec.IsTombstone() {
		m.tombstones--
	}

	m.memStore.Put(storage.Copy(key), storage.Copy(value))
}

func (m *MemTable) Delete(key []byte) {
	if rec, found := m.memStore.Get(key); !found || !rec.IsTombstone() {
		m.tombstones++
	}

	m.memStore.Delete(storage.Copy(key))
}

// Remove erases key from the underlying store
func (m *MemTable) Remove(key []byte) bool {
	rec, found := m.memStore.Get(key)
	if !found {
		return false
	}

	if rec.IsTombstone() {
		m.tombstones--
	}

	return m.memStore.Remove(key)
}

// InternalIterator iterates the store in place. Records share memory with the
// store and must not be modified
func (m *MemTable) InternalIterator() storage.InternalIterator {
	return m.memStore.InternalIterator()
}

// Snapshot returns the records in r as of now. Stored slices are never
// written to after insertion, so the records stay valid across later
// mutations of the MemTable, but they must not be modified
func (m *MemTable) Snapshot(r storage.KeyRange) []*storage.Record {
	var records []*storage.Record
	for iter := m.memStore.RangeIterator(r); iter.HasNext(); {
		records = append(records, iter.Next())
	}

	return records
}

// Len returns the number of keys held, tombstones included
func (m *MemTable) Len() int {
	return m.memStore.Len()
}

// Tombstones returns the number of keys currently marked deleted
func (m *MemTable) Tombstones() int {
	return m.tombstones
}

// Size returns the approximate number of bytes held
func (m *MemTable) Size() uint64 {
	return m.memStore.Size()
}
