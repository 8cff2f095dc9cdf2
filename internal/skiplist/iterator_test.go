package skiplist

import (
	"testing"

	"github.com/nbroyles/nbkv/internal/storage"
	"github.com/nbroyles/nbkv/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestIterator_HasNext(t *testing.T) {
	list1 := New(1)
	iter := NewIterator(list1)
	assert.False(t, iter.HasNext())

	list2 := New(1)
	put(list2, "foo", "bar")
	iter = NewIterator(list2)
	assert.True(t, iter.HasNext())
}

func TestIterator_Next(t *testing.T) {
	list := New(1)
	put(list, "foo", "bar")
	put(list, "baz", "bax")
	list.Delete([]byte("baz"))

	iter := NewIterator(list)

	// Remember, skip list is ordered, so next is opposite of insertion order
	assert.True(t, iter.HasNext())
	assertNextRecordEquals(t, iter, "baz", "", true)

	assert.True(t, iter.HasNext())
	assertNextRecordEquals(t, iter, "foo", "bar", false)

	assert.False(t, iter.HasNext())
}

func TestIterator_EmptyList(t *testing.T) {
	list := New(1)
	iter := NewIterator(list)

	assert.Panics(t, func() { iter.Next() })
}

func TestRangeIterator(t *testing.T) {
	list := New(1)
	test.Load(list, map[string]string{
		"apple":      "1",
		"banana":     "2",
		"cherry":     test.Tombstone,
		"date":       "4",
		"elderberry": "5",
	})

	test.AssertRecords(t, map[string]string{
		"banana": "2",
		"cherry": test.Tombstone,
		"date":   "4",
	}, NewRangeIterator(list, storage.KeyRange{Start: []byte("b"), End: []byte("e")}))

	test.AssertRecords(t, map[string]string{
		"banana": "2",
		"cherry": test.Tombstone,
	}, NewRangeIterator(list, storage.KeyRange{Start: []byte("banana"), End: []byte("date")}))

	test.AssertRecords(t, map[string]string{
		"apple":  "1",
		"banana": "2",
	}, NewRangeIterator(list, storage.KeyRange{End: []byte("c")}))

	test.AssertRecords(t, map[string]string{
		"date":       "4",
		"elderberry": "5",
	}, NewRangeIterator(list, storage.KeyRange{Start: []byte("cherry\x00")}))

	assert.False(t, NewRangeIterator(list, storage.KeyRange{Start: []byte("z"), End: []byte("a")}).HasNext())
	assert.False(t, NewRangeIterator(list, storage.KeyRange{Start: []byte("f")}).HasNext())
}
