package storage

import "bytes"

// KeyRange is the half-open interval [Start, End). A nil Start is unbounded
// below and a nil End is unbounded above
type KeyRange struct {
	Start []byte
	End   []byte
}

// All is the range covering every key
var All = KeyRange{}

// ContainsKey returns true if the range contains the specified key
func (r KeyRange) ContainsKey(key []byte) bool {
	// start <= key < end
	return !r.BeforeStart(key) && !r.AfterEnd(key)
}

// BeforeStart returns true if key sorts below the start of the range
func (r KeyRange) BeforeStart(key []byte) bool {
	return r.Start != nil && bytes.Compare(key, r.Start) < 0
}

// AfterEnd returns true if key is at or beyond the exclusive end of the range
func (r KeyRange) AfterEnd(key []byte) bool {
	return r.End != nil && bytes.Compare(key, r.End) >= 0
}

// Empty returns true if no key can fall in the range
func (r KeyRange) Empty() bool {
	return r.Start != nil && r.End != nil && bytes.Compare(r.Start, r.End) >= 0
}
