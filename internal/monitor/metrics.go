package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts detection activity for the /metrics endpoint.
type Metrics struct {
	Runs         prometheus.Counter
	RunFailures  prometheus.Counter
	Warnings     prometheus.Counter
	LastWarnings prometheus.Gauge
}

// NewMetrics registers the detection metrics on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounter(prometheus.CounterOpts{
			Name: "uscan_detection_runs_total",
			Help: "Completed detection runs.",
		}),
		RunFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "uscan_detection_failures_total",
			Help: "Detection runs aborted with an error.",
		}),
		Warnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "uscan_warnings_total",
			Help: "Indications flagged for review across all runs.",
		}),
		LastWarnings: factory.NewGauge(prometheus.GaugeOpts{
			Name: "uscan_last_run_warnings",
			Help: "Warnings produced by the most recent detection run.",
		}),
	}
}
