package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for seasonality runs.
type Metrics struct {
	RunsTotal       prometheus.Counter
	RunFailures     prometheus.Counter
	PlotFailures    prometheus.Counter
	PublishFailures prometheus.Counter

	RunDuration  prometheus.Histogram
	GroupsPerRun prometheus.Histogram
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonality",
			Name:      "runs_total",
			Help:      "Total completed seasonality runs.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonality",
			Name:      "run_failures_total",
			Help:      "Total runs aborted by configuration or export errors.",
		}),
		PlotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonality",
			Name:      "plot_failures_total",
			Help:      "Total chart renders that failed without failing the run.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonality",
			Name:      "publish_failures_total",
			Help:      "Total run summaries that could not be published.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seasonality",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete seasonality run including exports.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GroupsPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seasonality",
			Name:      "groups_per_run",
			Help:      "Number of groups (OVERALL plus municipalities) per run.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunFailures,
		m.PlotFailures,
		m.PublishFailures,
		m.RunDuration,
		m.GroupsPerRun,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seasonality", Name: "runs_total"}),
		RunFailures:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seasonality", Name: "run_failures_total"}),
		PlotFailures:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seasonality", Name: "plot_failures_total"}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seasonality", Name: "publish_failures_total"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "seasonality", Name: "run_duration_seconds"}),
		GroupsPerRun:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "seasonality", Name: "groups_per_run"}),
	}
}
