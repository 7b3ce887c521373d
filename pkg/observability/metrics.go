// Package observability holds the Prometheus instrumentation for the
// long-running backfill commands.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the backfill loop.
type Metrics struct {
	RacesAttempted    prometheus.Counter
	RacesSucceeded    prometheus.Counter
	RacesFailed       prometheus.Counter
	PassesRun         prometheus.Counter
	ExtractionRetries prometheus.Counter
}

// NewMetrics creates the backfill counters and registers them with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := newCounters()
	prometheus.MustRegister(
		m.RacesAttempted,
		m.RacesSucceeded,
		m.RacesFailed,
		m.PassesRun,
		m.ExtractionRetries,
	)
	return m
}

// NewUnregisteredMetrics creates the counters without registering them,
// for runs without a metrics listener and for tests.
func NewUnregisteredMetrics() *Metrics {
	return newCounters()
}

func newCounters() *Metrics {
	return &Metrics{
		RacesAttempted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "f1wm",
			Subsystem: "backfill",
			Name:      "races_attempted_total",
			Help:      "Ingest attempts across all passes.",
		}),
		RacesSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "f1wm",
			Subsystem: "backfill",
			Name:      "races_succeeded_total",
			Help:      "Races that finished the pipeline.",
		}),
		RacesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "f1wm",
			Subsystem: "backfill",
			Name:      "races_failed_total",
			Help:      "Ingest attempts that returned an error.",
		}),
		PassesRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "f1wm",
			Subsystem: "backfill",
			Name:      "passes_run_total",
			Help:      "Backfill passes started.",
		}),
		ExtractionRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "f1wm",
			Subsystem: "backfill",
			Name:      "extraction_retries_total",
			Help:      "Repeated fetch attempts against the timing archive.",
		}),
	}
}
