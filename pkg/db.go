package pkg

import (
	"fmt"

	"github.com/nbroyles/nbkv/internal/compaction"
	"github.com/nbroyles/nbkv/internal/memtable"
	"github.com/nbroyles/nbkv/internal/metrics"
	"github.com/nbroyles/nbkv/internal/skiplist"
	"github.com/nbroyles/nbkv/internal/sortedmap"
	"github.com/nbroyles/nbkv/internal/storage"
	log "github.com/sirupsen/logrus"
)

// DB is an in-memory ordered key-value store. Deletes leave tombstones behind
// until Compact removes them, so Get can tell a deleted key from one that was
// never written.
//
// DB is not safe for concurrent use. Callers sharing one across goroutines
// must serialize every call, Range and Compact included.
type DB struct {
	memTable    *memtable.MemTable
	compactor   *compaction.Compactor
	metrics     *metrics.Metrics
	logger      log.FieldLogger
	autoCompact int
	codec       storage.Codec
}

// Stats is a point-in-time summary of the store contents
type Stats struct {
	Keys       int
	Live       int
	Tombstones int
	Bytes      uint64
}

// New creates an empty database
func New(opts ...Option) (*DB, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.AutoCompact < 0 {
		return nil, fmt.Errorf("auto compact threshold must not be negative, got %d", o.AutoCompact)
	}

	var store storage.InMemoryStore
	switch o.Backend {
	case BackendSkipList:
		store = skiplist.New(o.Seed)
	case BackendSortedMap:
		store = sortedmap.New()
	default:
		return nil, fmt.Errorf("could not create database: unknown backend %q", o.Backend)
	}

	logger := o.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger = logger.WithField("backend", string(o.Backend))

	mem := memtable.NewWithStore(store)

	logger.Debugf("created database. autoCompact=%d", o.AutoCompact)

	return &DB{
		memTable:    mem,
		compactor:   compaction.New(mem, logger),
		metrics:     metrics.New(o.Registerer),
		logger:      logger,
		autoCompact: o.AutoCompact,
	}, nil
}

// Get returns the state of key: Found with a copy of its value, Tombstoned if
// it was deleted and not yet compacted away, or Absent
func (d *DB) Get(key []byte) Result {
	rec, found := d.memTable.Get(key)

	var res Result
	switch {
	case !found:
		res = Result{Status: Absent}
	case rec.IsTombstone():
		res = Result{Status: Tombstoned}
	default:
		res = Result{Status: Found, Value: rec.Value}
	}

	d.metrics.Lookup(res.Status.String())

	return res
}

// Put inserts or updates the value if the key already exists
func (d *DB) Put(key []byte, value []byte) {
	d.memTable.Put(key, value)

	d.metrics.Op("put")
	d.updateGauges()
}

// Delete writes a tombstone for key whether or not the key exists
func (d *DB) Delete(key []byte) {
	d.memTable.Delete(key)

	d.metrics.Op("delete")
	d.updateGauges()

	if d.autoCompact > 0 && d.memTable.Tombstones() >= d.autoCompact {
		d.logger.Debugf("tombstones reached %d. compacting", d.memTable.Tombstones())
		d.Compact()
	}
}

// Range returns an iterator over the keys in [start, end), tombstones included.
// A nil start or end leaves that side of the range open
func (d *DB) Range(start []byte, end []byte) *Iterator {
	d.metrics.Op("range")

	return newIterator(d.memTable.Snapshot(storage.KeyRange{Start: start, End: end}))
}

// Compact removes every tombstoned key. Live keys are left untouched
func (d *DB) Compact() compaction.Stats {
	stats := d.compactor.Compact()

	d.metrics.Compaction(stats.Reclaimed, stats.Duration)
	d.updateGauges()

	return stats
}

// Len returns the number of keys in the store, tombstones included
func (d *DB) Len() int {
	return d.memTable.Len()
}

func (d *DB) Stats() Stats {
	keys := d.memTable.Len()
	tombstones := d.memTable.Tombstones()

	return Stats{
		Keys:       keys,
		Live:       keys - tombstones,
		Tombstones: tombstones,
		Bytes:      d.memTable.Size(),
	}
}

func (d *DB) updateGauges() {
	d.metrics.Keys(d.memTable.Len(), d.memTable.Tombstones())
}
