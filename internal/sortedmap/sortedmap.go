// Package sortedmap provides an InMemoryStore on top of huandu/skiplist.
package sortedmap

import (
	"github.com/huandu/skiplist"
	"github.com/nbroyles/nbkv/internal/storage"
	log "github.com/sirupsen/logrus"
)

// item wraps a value and its tombstone flag
type item struct {
	value   []byte
	deleted bool
}

type SortedMap struct {
	list *skiplist.SkipList
	size uint64
}

var _ storage.InMemoryStore = &SortedMap{}

func New() *SortedMap {
	return &SortedMap{list: skiplist.New(skiplist.Bytes)}
}

func (m *SortedMap) Get(key []byte) (*storage.Record, bool) {
	elem := m.list.Get(key)
	if elem == nil {
		return nil, false
	}

	return toRecord(elem), true
}

func (m *SortedMap) Put(key []byte, value []byte) {
	m.set(key, &item{value: value})
}

func (m *SortedMap) Delete(key []byte) {
	m.set(key, &item{deleted: true})
}

func (m *SortedMap) set(key []byte, it *item) {
	if elem := m.list.Get(key); elem != nil {
		m.size -= uint64(len(elem.Value.(*item).value))
		m.size += uint64(len(it.value))
		elem.Value = it
		return
	}

	m.list.Set(key, it)
	m.size += uint64(len(key) + len(it.value))
}

func (m *SortedMap) Remove(key []byte) bool {
	elem := m.list.Remove(key)
	if elem == nil {
		return false
	}

	m.size -= uint64(len(key) + len(elem.Value.(*item).value))
	return true
}

func (m *SortedMap) InternalIterator() storage.InternalIterator {
	return &iterator{next: m.list.Front()}
}

func (m *SortedMap) RangeIterator(r storage.KeyRange) storage.InternalIterator {
	if r.Empty() {
		return &iterator{}
	}

	if r.Start == nil {
		return &iterator{next: m.list.Front(), bounds: r}
	}

	return &iterator{next: m.list.Find(r.Start), bounds: r}
}

func (m *SortedMap) Len() int {
	return m.list.Len()
}

func (m *SortedMap) Size() uint64 {
	return m.size
}

type iterator struct {
	next   *skiplist.Element
	bounds storage.KeyRange
}

func (i *iterator) HasNext() bool {
	return i.next != nil && !i.bounds.AfterEnd(i.next.Key().([]byte))
}

func (i *iterator) Next() *storage.Record {
	if !i.HasNext() {
		log.Panic("iterator has no next element")
	}

	elem := i.next
	i.next = elem.Next()

	return toRecord(elem)
}

func toRecord(elem *skiplist.Element) *storage.Record {
	it := elem.Value.(*item)
	return storage.NewRecord(elem.Key().([]byte), it.value, it.deleted)
}
