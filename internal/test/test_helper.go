package test

import (
	"sort"
	"testing"

	"github.com/nbroyles/nbkv/internal/storage"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// Tombstone is the value StaticIterator and Load interpret as a deleted key
const Tombstone = "\x00<tombstone>"

// Load writes entries into store in sorted key order. Entries whose value is
// Tombstone are deleted instead of put
func Load(store storage.InMemoryStore, entries map[string]string) {
	iter := NewStaticIterator(entries)
	for iter.HasNext() {
		rec := iter.Next()
		if rec.IsTombstone() {
			store.Delete(rec.Key)
		} else {
			store.Put(rec.Key, rec.Value)
		}
	}
}

// Drain consumes iter and returns every record it yields
func Drain(iter storage.InternalIterator) []*storage.Record {
	var records []*storage.Record
	for iter.HasNext() {
		records = append(records, iter.Next())
	}

	return records
}

// AssertRecords asserts iter yields exactly entries, in ascending key order
func AssertRecords(t *testing.T, entries map[string]string, iter storage.InternalIterator) {
	expected := Drain(NewStaticIterator(entries))
	actual := Drain(iter)

	assert.Equal(t, len(expected), len(actual))
	for i := 0; i < len(expected) && i < len(actual); i++ {
		assert.Equal(t, string(expected[i].Key), string(actual[i].Key))
		assert.Equal(t, expected[i].Type, actual[i].Type, "type of key %s", string(expected[i].Key))
		if !expected[i].IsTombstone() {
			assert.Equal(t, string(expected[i].Value), string(actual[i].Value))
		}
	}
}

type StaticIterator struct {
	entries map[string]string
	keys    []string
	pointer int
}

func NewStaticIterator(entries map[string]string) storage.InternalIterator {
	// Gotta grab and sort keys because map iteration order is not guaranteed
	var keys []string
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &StaticIterator{entries: entries, keys: keys, pointer: 0}
}

func (s *StaticIterator) HasNext() bool {
	return s.pointer < len(s.keys)
}

func (s *StaticIterator) Next() *storage.Record {
	if !s.HasNext() {
		log.Panic("iterator has no next element")
	}

	key := s.keys[s.pointer]
	s.pointer += 1

	if s.entries[key] == Tombstone {
		return storage.NewRecord([]byte(key), nil, true)
	}

	return storage.NewRecord([]byte(key), []byte(s.entries[key]), false)
}

var _ storage.InternalIterator = &StaticIterator{}
