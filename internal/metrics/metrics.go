package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nbkv"

// Lookup outcomes
const (
	OutcomeFound      = "found"
	OutcomeTombstoned = "tombstoned"
	OutcomeAbsent     = "absent"
)

type Metrics struct {
	Operations         *prometheus.CounterVec
	Lookups            *prometheus.CounterVec
	LiveKeys           prometheus.Gauge
	Tombstones         prometheus.Gauge
	Compactions        prometheus.Counter
	ReclaimedKeys      prometheus.Counter
	CompactionDuration prometheus.Histogram
}

// New creates the store collectors and registers them on reg. A nil reg gets
// a private registry so that nothing leaks into the global default one
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by kind",
		}, []string{"op"}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Point lookups by outcome",
		}, []string{"outcome"}),
		LiveKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_keys",
			Help:      "Keys currently holding a live value",
		}),
		Tombstones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tombstones",
			Help:      "Keys currently marked deleted and awaiting compaction",
		}),
		Compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions_total",
			Help:      "Completed compaction passes",
		}),
		ReclaimedKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compaction_reclaimed_keys_total",
			Help:      "Tombstoned keys removed by compaction",
		}),
		CompactionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compaction_duration_seconds",
			Help:      "Duration of compaction passes",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	reg.MustRegister(m.Operations, m.Lookups, m.LiveKeys, m.Tombstones,
		m.Compactions, m.ReclaimedKeys, m.CompactionDuration)

	return m
}

func (m *Metrics) Op(op string) {
	m.Operations.WithLabelValues(op).Inc()
}

func (m *Metrics) Lookup(outcome string) {
	m.Lookups.WithLabelValues(outcome).Inc()
}

// Keys sets the key gauges from the store's current counts
func (m *Metrics) Keys(total int, tombstones int) {
	m.LiveKeys.Set(float64(total - tombstones))
	m.Tombstones.Set(float64(tombstones))
}

func (m *Metrics) Compaction(reclaimed int, took time.Duration) {
	m.Compactions.Inc()
	m.ReclaimedKeys.Add(float64(reclaimed))
	m.CompactionDuration.Observe(took.Seconds())
}
