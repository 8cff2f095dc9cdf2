package pkg

import "github.com/nbroyles/nbkv/internal/metrics"

// Status is the outcome of a point lookup
type Status int

const (
	Absent     Status = iota // key never written, or removed by compaction
	Found                    // key holds a live value
	Tombstoned               // key was deleted and not yet compacted
)

func (s Status) String() string {
	switch s {
	case Found:
		return metrics.OutcomeFound
	case Tombstoned:
		return metrics.OutcomeTombstoned
	default:
		return metrics.OutcomeAbsent
	}
}

// Result is what Get reports for a key. Value is a copy owned by the caller
// and is only set when Status is Found
type Result struct {
	Status Status
	Value  []byte
}

func (r Result) Found() bool {
	return r.Status == Found
}

// Entry is a key and its state as yielded by a range scan
type Entry struct {
	Key []byte
	Result
}
