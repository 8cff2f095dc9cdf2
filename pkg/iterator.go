package pkg

import (
	"github.com/nbroyles/nbkv/internal/storage"
	log "github.com/sirupsen/logrus"
)

// Iterator walks a range of the store as it was when Range was called. Writes
// and compactions made afterwards are not visible to it. Every entry is copied
// as it's handed out
type Iterator struct {
	records []*storage.Record
	pointer int
}

func newIterator(records []*storage.Record) *Iterator {
	return &Iterator{records: records}
}

// HasNext returns true if there's another entry available in the iterator
func (i *Iterator) HasNext() bool {
	return i.pointer < len(i.records)
}

// Next returns the next entry in ascending key order
func (i *Iterator) Next() Entry {
	if !i.HasNext() {
		log.Panic("iterator has no next element")
	}

	rec := i.records[i.pointer].Clone()
	i.pointer++

	return entryFor(rec)
}

// Reset rewinds the iterator to the first entry of the snapshot
func (i *Iterator) Reset() {
	i.pointer = 0
}

// Len returns the number of entries in the snapshot
func (i *Iterator) Len() int {
	return len(i.records)
}

func entryFor(rec *storage.Record) Entry {
	if rec.IsTombstone() {
		return Entry{Key: rec.Key, Result: Result{Status: Tombstoned}}
	}

	return Entry{Key: rec.Key, Result: Result{Status: Found, Value: rec.Value}}
}
