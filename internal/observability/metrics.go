package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crashstat"

// Metrics holds the Prometheus counters, histograms, and gauges for one
// analysis run.
type Metrics struct {
	RowsLoaded        prometheus.Counter
	RowsMissingCoords prometheus.Counter
	ValidationIssues  *prometheus.CounterVec // labels: check

	StageDuration *prometheus.HistogramVec // labels: stage={load,analyze,render,report}
	StageErrors   *prometheus.CounterVec   // labels: stage

	FiguresRendered prometheus.Counter
	ANOVATests      *prometheus.CounterVec // labels: season, outcome={significant,not_significant}

	PipelineRunning  prometheus.Gauge
	LastRunSuccess   prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Crash records parsed from the dataset.",
		}),
		RowsMissingCoords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_missing_coordinates_total",
			Help:      "Crash records without a latitude or longitude.",
		}),
		ValidationIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_issues_total",
			Help:      "Integrity issues found by the validate command, by check.",
		}, []string{"check"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stage failures.",
		}, []string{"stage"}),
		FiguresRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_rendered_total",
			Help:      "Figures built by the render stage.",
		}),
		ANOVATests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anova_tests_total",
			Help:      "Seasonal ANOVA tests run, by season and outcome.",
		}, []string{"season", "outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 when the last run completed, 0 when it failed.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	reg.MustRegister(
		m.RowsLoaded,
		m.RowsMissingCoords,
		m.ValidationIssues,
		m.StageDuration,
		m.StageErrors,
		m.FiguresRendered,
		m.ANOVATests,
		m.PipelineRunning,
		m.LastRunSuccess,
		m.LastRunTimestamp,
	)

	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// WriteTextfile writes everything gathered by g to path in the node-exporter
// textfile collector format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
