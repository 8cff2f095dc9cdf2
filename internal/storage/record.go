package storage

type RecordType int8

const (
	RecordUpdate RecordType = iota // live value
	RecordDelete                   // tombstone
)

func (t RecordType) String() string {
	switch t {
	case RecordUpdate:
		return "update"
	case RecordDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Record is an in-memory representation of the current state of a key. A
// RecordDelete record is a tombstone and never carries a value
type Record struct {
	Key   []byte
	Value []byte
	Type  RecordType
}

func NewRecord(key []byte, value []byte, delete bool) *Record {
	if delete {
		return &Record{Key: key, Type: RecordDelete}
	}

	return &Record{
		Key:   key,
		Value: value,
		Type:  RecordUpdate,
	}
}

// IsTombstone returns true if the record marks a deleted key
func (r *Record) IsTombstone() bool {
	return r.Type == RecordDelete
}

// Size is the number of key and value bytes held by the record
func (r *Record) Size() uint64 {
	return uint64(len(r.Key) + len(r.Value))
}

// Clone returns a deep copy of the record. An empty live value stays a
// non-nil empty slice so that it can't be mistaken for a missing one
func (r *Record) Clone() *Record {
	c := &Record{Key: Copy(r.Key), Type: r.Type}
	if r.Type == RecordUpdate {
		c.Value = Copy(r.Value)
	}

	return c
}

// Copy returns a copy of b that is never nil
func Copy(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
