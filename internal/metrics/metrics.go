// Package metrics exposes Prometheus counters for the simulation
// lifecycle, scraped via the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimulationsLaunched counts launch requests that created a record.
	SimulationsLaunched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulations_launched_total",
		Help: "Number of simulations launched, by type.",
	}, []string{"type"})

	// SimulationsCompleted counts finalize writes with a successful verdict.
	SimulationsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulations_completed_total",
		Help: "Number of simulations finalized as completed, by type.",
	}, []string{"type"})

	// SimulationsFailed counts finalize writes with a failed verdict,
	// including generator errors and degraded finalize retries.
	SimulationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulations_failed_total",
		Help: "Number of simulations finalized as failed, by type.",
	}, []string{"type"})

	// SimulationDuration observes wall-clock generation time in seconds.
	SimulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Wall-clock duration of simulation runs.",
		Buckets: []float64{0.5, 1, 2, 3, 4, 5, 7.5, 10},
	})

	// IntegrityRepairs counts records touched by integrity cleanup.
	IntegrityRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "integrity_repairs_total",
		Help: "Number of records repaired by integrity cleanup.",
	})
)
