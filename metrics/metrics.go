// Package metrics exposes prometheus instrumentation for grid execution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GridRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_runs_total",
		Help: "Total number of grid runs started",
	})

	GridRunFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_run_failures_total",
		Help: "Total number of grid runs aborted by a body failure",
	})

	TilesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_tiles_total",
		Help: "Total number of tile invocations completed",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsim_run_duration_seconds",
		Help:    "Histogram of wall-clock grid run durations",
		Buckets: prometheus.DefBuckets,
	})

	RunTileCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsim_run_tiles",
		Help:    "Distribution of tile counts per grid run",
		Buckets: []float64{1, 2, 4, 8, 16, 64, 256, 1024, 4096, 16384},
	})
)
