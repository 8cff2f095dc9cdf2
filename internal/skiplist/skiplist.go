package skiplist

import (
	"bytes"
	"math/rand"

	"github.com/nbroyles/nbkv/internal/storage"
	log "github.com/sirupsen/logrus"
)

const maxLevels = 32

// Node represents a node in the SkipList structure. A deleted node is a
// tombstone: it keeps its slot until the key is removed by compaction
type Node struct {
	next    []*Node
	key     []byte
	value   []byte
	deleted bool
}

// SkipList is an implementation of a data structure that provides
// O(log n) insertion and removal without complicated self-balancing logic
// required of similar tree-like structures (e.g. red/black, AVL trees)
// See the following for more details:
//   - https://en.wikipedia.org/wiki/Skip_list
//   - https://igoro.com/archive/skip-lists-are-fascinating/
//
// SkipList is not safe for concurrent use.
type SkipList struct {
	head   *Node
	levels int
	length int
	size   uint64
	rnd    *rand.Rand
}

var _ storage.InMemoryStore = &SkipList{}

func New(seed int64) *SkipList {
	return &SkipList{
		head:   &Node{next: make([]*Node, maxLevels)},
		levels: 1,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// Get returns the record for key, tombstones included
func (s *SkipList) Get(key []byte) (*storage.Record, bool) {
	node := s.find(key)
	if node == nil {
		return nil, false
	}

	return storage.NewRecord(node.key, node.value, node.deleted), true
}

// find returns the node holding key or nil
func (s *SkipList) find(key []byte) *Node {
	c := s.head
	for i := s.levels - 1; i >= 0; i-- {
	rightTraversal:
		for ; c.next[i] != nil; c = c.next[i] {
			switch bytes.Compare(c.next[i].key, key) {
			case 0:
				return c.next[i]
			case 1: // next key is greater than the key we're searching for
				break rightTraversal
			}
		}
	}

	return nil
}

// Put inserts or updates the value if the key already exists
func (s *SkipList) Put(key []byte, value []byte) {
	if s.find(key) != nil {
		s.update(key, value, false)
	} else {
		s.insert(key, value, false)
	}
}

// Delete marks key as deleted, inserting a tombstone if it has never been seen
func (s *SkipList) Delete(key []byte) {
	if s.find(key) != nil {
		s.update(key, nil, true)
	} else {
		s.insert(key, nil, true)
	}
}

// Remove unlinks key from every level of the list. Returns true if
// key was removed and false if key was not present
func (s *SkipList) Remove(key []byte) bool {
	var removed *Node

	c := s.head
	for i := s.levels - 1; i >= 0; i-- {
		for ; c.next[i] != nil; c = c.next[i] {
			cmp := bytes.Compare(c.next[i].key, key)
			if cmp == 0 {
				removed = c.next[i]
				c.next[i] = removed.next[i]
				break
			} else if cmp > 0 {
				break
			}
		}
	}

	if removed == nil {
		return false
	}

	for s.levels > 1 && s.head.next[s.levels-1] == nil {
		s.levels--
	}

	s.length--
	s.size -= uint64(len(removed.key) + len(removed.value))

	return true
}

func (s *SkipList) update(key []byte, value []byte, deleted bool) {
	node := s.find(key)
	if node == nil {
		log.Panicf("could not update key %v (%s) even though we expected it to exist!", key, string(key))
	}

	s.size -= uint64(len(node.value))
	s.size += uint64(len(value))

	node.value = value
	node.deleted = deleted
}

func (s *SkipList) insert(key []byte, value []byte, deleted bool) {
	levels := s.generateLevels()

	if levels > s.levels {
		s.levels = levels
	}

	newNode := &Node{next: make([]*Node, levels), key: key, value: value, deleted: deleted}

	c := s.head
	for i := s.levels - 1; i >= 0; i-- {
		for ; c.next[i] != nil; c = c.next[i] {
			// Stop moving rightward at this level if next key is greater
			// than key we plan to insert
			if cmp := bytes.Compare(c.next[i].key, key); cmp > 0 {
				break
			} else if cmp == 0 {
				log.Panicf("attempting to insert key %v (%s) that already exists. "+
					"this should not happen!", key, string(key))
			}
		}
		if levels > i {
			newNode.next[i] = c.next[i]
			c.next[i] = newNode
		}
	}

	s.length++
	s.size += uint64(len(key) + len(value))
}

// seek returns the last node whose key sorts before key, or the head
func (s *SkipList) seek(key []byte) *Node {
	c := s.head
	if key == nil {
		return c
	}

	for i := s.levels - 1; i >= 0; i-- {
		for c.next[i] != nil && bytes.Compare(c.next[i].key, key) < 0 {
			c = c.next[i]
		}
	}

	return c
}

// InternalIterator returns an iterator over every record in the list
func (s *SkipList) InternalIterator() storage.InternalIterator {
	return NewIterator(s)
}

// RangeIterator returns an iterator over the records with keys in r
func (s *SkipList) RangeIterator(r storage.KeyRange) storage.InternalIterator {
	return NewRangeIterator(s, r)
}

// Len returns the number of keys in the list, tombstones included
func (s *SkipList) Len() int {
	return s.length
}

// Size returns the number of key and value bytes held in the list
func (s *SkipList) Size() uint64 {
	return s.size
}

// Level generation shamelessly stolen from
// https://igoro.com/archive/skip-lists-are-fascinating/
func (s *SkipList) generateLevels() int {
	levels := 0
	for num := s.rnd.Int31(); num&1 == 1 && levels < maxLevels; num >>= 1 {
		levels += 1
	}

	if levels == 0 {
		levels = 1
	}

	return levels
}
