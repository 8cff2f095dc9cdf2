package skiplist

import (
	"testing"

	"github.com/nbroyles/nbkv/internal/storage"
	"github.com/stretchr/testify/assert"
)

func put(list *SkipList, key string, value string) {
	list.Put([]byte(key), []byte(value))
}

func assertSkipListValue(t *testing.T, list *SkipList, key string, value string) {
	rec, ok := list.Get([]byte(key))

	assert.True(t, ok)
	if assert.NotNil(t, rec) {
		assert.False(t, rec.IsTombstone())
		assert.Equal(t, []byte(value), rec.Value)
	}
}

func assertTombstoned(t *testing.T, list *SkipList, key string) {
	rec, ok := list.Get([]byte(key))

	assert.True(t, ok)
	if assert.NotNil(t, rec) {
		assert.True(t, rec.IsTombstone())
	}
}

func assertNextRecordEquals(t *testing.T, i storage.InternalIterator, key string, value string, delete bool) {
	assert.Equal(t, storage.NewRecord([]byte(key), []byte(value), delete), i.Next())
}
