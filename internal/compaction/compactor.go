package compaction

import (
	"time"

	"github.com/nbroyles/nbkv/internal/memtable"
	log "github.com/sirupsen/logrus"
)

// Stats describes the work done by one compaction pass
type Stats struct {
	Scanned        int
	Reclaimed      int
	ReclaimedBytes uint64
	Duration       time.Duration
}

// Compactor removes tombstoned keys from a MemTable. It holds no state between
// passes; every call to Compact scans the whole table
type Compactor struct {
	mem    *memtable.MemTable
	logger log.FieldLogger
}

func New(mem *memtable.MemTable, logger log.FieldLogger) *Compactor {
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Compactor{mem: mem, logger: logger}
}

// Compact erases every tombstone from the table and leaves live keys alone.
// The table is fully compacted when Compact returns
func (c *Compactor) Compact() Stats {
	start := time.Now()
	stats := Stats{}

	// Gather first: removing while the iterator is live would unlink the node
	// it points at
	var dead [][]byte
	for iter := c.mem.InternalIterator(); iter.HasNext(); stats.Scanned++ {
		rec := iter.Next()
		if rec.IsTombstone() {
			dead = append(dead, rec.Key)
			stats.ReclaimedBytes += rec.Size()
		}
	}

	for _, key := range dead {
		if !c.mem.Remove(key) {
			log.Panicf("tombstone for key %v (%s) vanished during compaction. this should not happen!",
				key, string(key))
		}

		c.logger.Debugf("removed tombstone key=%s", string(key))
		stats.Reclaimed++
	}

	stats.Duration = time.Since(start)

	c.logger.WithFields(log.Fields{
		"scanned":   stats.Scanned,
		"reclaimed": stats.Reclaimed,
		"bytes":     stats.ReclaimedBytes,
		"took":      stats.Duration,
	}).Info("compaction finished")

	return stats
}
