package skiplist

import (
	"github.com/nbroyles/nbkv/internal/storage"
	log "github.com/sirupsen/logrus"
)

type Iterator struct {
	pointer *Node
	bounds  storage.KeyRange
}

func NewIterator(list *SkipList) storage.InternalIterator {
	return &Iterator{pointer: list.head}
}

// NewRangeIterator returns an iterator positioned just before the first key
// in r. An empty range yields nothing
func NewRangeIterator(list *SkipList, r storage.KeyRange) storage.InternalIterator {
	if r.Empty() {
		return &Iterator{pointer: &Node{next: make([]*Node, 1)}}
	}

	return &Iterator{pointer: list.seek(r.Start), bounds: r}
}

func (i *Iterator) HasNext() bool {
	next := i.pointer.next[0]
	return next != nil && !i.bounds.AfterEnd(next.key)
}

func (i *Iterator) Next() *storage.Record {
	if !i.HasNext() {
		log.Panic("iterator has no next element")
	}

	node := i.pointer.next[0]
	i.pointer = node

	return storage.NewRecord(node.key, node.value, node.deleted)
}

var _ storage.InternalIterator = &Iterator{}
