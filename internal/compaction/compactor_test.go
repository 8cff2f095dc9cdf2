package compaction

import (
	"testing"

	"github.com/nbroyles/nbkv/internal/memtable"
	"github.com/nbroyles/nbkv/internal/skiplist"
	"github.com/nbroyles/nbkv/internal/sortedmap"
	"github.com/nbroyles/nbkv/internal/storage"
	"github.com/nbroyles/nbkv/internal/test"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores() map[string]func() storage.InMemoryStore {
	return map[string]func() storage.InMemoryStore{
		"skiplist":  func() storage.InMemoryStore { return skiplist.New(1) },
		"sortedmap": func() storage.InMemoryStore { return sortedmap.New() },
	}
}

func TestCompactor_Compact(t *testing.T) {
	for name, mk := range stores() {
		t.Run(name, func(t *testing.T) {
			store := mk()
			test.Load(store, map[string]string{
				"aaa":       "blarg",
				"baz":       test.Tombstone,
				"foo":       "butt",
				"howdy":     test.Tombstone,
				"ohhh":      "brother",
				"to_delete": test.Tombstone,
			})
			mem := memtable.NewWithStore(store)

			logger, _ := logtest.NewNullLogger()
			stats := New(mem, logger).Compact()

			assert.Equal(t, 6, stats.Scanned)
			assert.Equal(t, 3, stats.Reclaimed)
			assert.Equal(t, uint64(len("baz")+len("howdy")+len("to_delete")), stats.ReclaimedBytes)

			test.AssertRecords(t, map[string]string{
				"aaa":  "blarg",
				"foo":  "butt",
				"ohhh": "brother",
			}, mem.InternalIterator())

			for _, key := range []string{"baz", "howdy", "to_delete"} {
				_, found := mem.Get([]byte(key))
				assert.False(t, found, key)
			}
			assert.Equal(t, 0, mem.Tombstones())
			assert.Equal(t, 3, mem.Len())
		})
	}
}

func TestCompactor_Idempotent(t *testing.T) {
	for name, mk := range stores() {
		t.Run(name, func(t *testing.T) {
			store := mk()
			test.Load(store, map[string]string{
				"a": "1",
				"b": test.Tombstone,
				"c": "3",
			})
			mem := memtable.NewWithStore(store)

			logger, _ := logtest.NewNullLogger()
			c := New(mem, logger)

			first := c.Compact()
			before := test.Drain(mem.InternalIterator())

			second := c.Compact()
			after := test.Drain(mem.InternalIterator())

			assert.Equal(t, 1, first.Reclaimed)
			assert.Equal(t, 0, second.Reclaimed)
			assert.Equal(t, 2, second.Scanned)
			assert.Equal(t, before, after)
		})
	}
}

func TestCompactor_EmptyTable(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	stats := New(memtable.New(), logger).Compact()

	assert.Equal(t, 0, stats.Scanned)
	assert.Equal(t, 0, stats.Reclaimed)
}

func TestCompactor_OnlyTombstones(t *testing.T) {
	mem := memtable.New()
	for _, key := range []string{"x", "y", "z"} {
		mem.Delete([]byte(key))
	}

	logger, _ := logtest.NewNullLogger()
	stats := New(mem, logger).Compact()

	assert.Equal(t, 3, stats.Reclaimed)
	assert.Equal(t, 0, mem.Len())
	assert.False(t, mem.InternalIterator().HasNext())
}

func TestCompactor_Logs(t *testing.T) {
	mem := memtable.New()
	mem.Put([]byte("live"), []byte("v"))
	mem.Delete([]byte("dead"))

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	New(mem, logger).Compact()

	require.Len(t, hook.Entries, 2)
	assert.Equal(t, "removed tombstone key=dead", hook.Entries[0].Message)
	assert.Equal(t, log.DebugLevel, hook.Entries[0].Level)

	last := hook.LastEntry()
	assert.Equal(t, "compaction finished", last.Message)
	assert.Equal(t, 2, last.Data["scanned"])
	assert.Equal(t, 1, last.Data["reclaimed"])
	assert.Equal(t, uint64(4), last.Data["bytes"])
}
