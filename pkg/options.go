package pkg

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Backend selects the ordered structure holding the keys
type Backend string

const (
	BackendSkipList  Backend = "skiplist"  // built-in skip list
	BackendSortedMap Backend = "sortedmap" // github.com/huandu/skiplist
)

// ParseBackend maps a backend name onto a Backend
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(name); b {
	case BackendSkipList, BackendSortedMap:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q. expected %q or %q", name, BackendSkipList, BackendSortedMap)
	}
}

type Options struct {
	Backend Backend
	// Seed for the skip list level generator
	Seed int64
	// Logger receives compaction and store logs
	Logger log.FieldLogger
	// Registerer receives the store metrics. nil keeps them private
	Registerer prometheus.Registerer
	// AutoCompact runs a compaction from Delete once this many tombstones
	// accumulate. 0 disables it
	AutoCompact int
}

func DefaultOptions() Options {
	return Options{
		Backend:     BackendSkipList,
		Seed:        time.Now().UnixNano(),
		Logger:      log.StandardLogger(),
		Registerer:  nil,
		AutoCompact: 0,
	}
}

type Option func(*Options)

func WithBackend(backend Backend) Option {
	return func(o *Options) { o.Backend = backend }
}

func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

func WithLogger(logger log.FieldLogger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Registerer = reg }
}

func WithAutoCompact(tombstones int) Option {
	return func(o *Options) { o.AutoCompact = tombstones }
}
