// Package metrics exposes the engine's Prometheus collectors. Collectors
// register on the default registry; serve them with promhttp when a metrics
// listener is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ComputeDuration tracks how long one full engine pass takes.
	ComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "splitledger",
		Subsystem: "engine",
		Name:      "compute_duration_seconds",
		Help:      "Duration of a full settlement computation.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// InvariantViolations counts per-record invariant failures found by the
	// verification layer, labeled by violation kind.
	InvariantViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitledger",
		Subsystem: "verify",
		Name:      "invariant_violations_total",
		Help:      "Expense record invariant violations by kind.",
	}, []string{"kind"})

	// ConservationViolations counts snapshots whose balances failed to sum
	// to zero. Any increase is a critical integrity signal.
	ConservationViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "splitledger",
		Subsystem: "verify",
		Name:      "conservation_violations_total",
		Help:      "Snapshots where net balances did not sum to zero.",
	})
)
