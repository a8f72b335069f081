package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/utafrali/perfume-seed/internal/domain"
)

// Run modes and statuses used as label values.
const (
	ModeGenerate = "generate"
	ModeApply    = "apply"

	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics collects per-run seed metrics on a dedicated registry. A CLI run
// has no scrape endpoint, so the registry is pushed instead.
type Metrics struct {
	registry   *prometheus.Registry
	pushClient push.HTTPDoer

	RowsGenerated *prometheus.CounterVec
	Runs          *prometheus.CounterVec
	ApplyDuration prometheus.Histogram
	LastSuccess   prometheus.Gauge
}

// New registers the seed metrics on registry. A nil registry gets a fresh
// one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RowsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedgen_rows_generated_total",
				Help: "Total number of seed rows generated, by table",
			},
			[]string{"table"},
		),
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedgen_runs_total",
				Help: "Total number of seed runs, by mode and outcome",
			},
			[]string{"mode", "status"},
		),
		ApplyDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seedgen_apply_duration_seconds",
				Help:    "Duration of the apply transaction in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "seedgen_last_success_timestamp_seconds",
				Help: "Unix time of the last successful seed run",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDataset adds the row counts of ds.
func (m *Metrics) ObserveDataset(ds *domain.Dataset) {
	counts := ds.Counts()
	m.RowsGenerated.WithLabelValues("categories").Add(float64(counts.Categories))
	m.RowsGenerated.WithLabelValues("products").Add(float64(counts.Products))
	m.RowsGenerated.WithLabelValues("product_variants").Add(float64(counts.Variants))
}

// ObserveRun records the outcome of a run. A nil err counts as success and
// moves the last-success timestamp to now.
func (m *Metrics) ObserveRun(mode string, err error, now time.Time) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.Runs.WithLabelValues(mode, status).Inc()
	if err == nil {
		m.LastSuccess.Set(float64(now.Unix()))
	}
}

// SetPushClient replaces the HTTP client used by Push.
func (m *Metrics) SetPushClient(c push.HTTPDoer) {
	m.pushClient = c
}

// Push sends the registry to the Pushgateway at url under job. An empty url
// is a no-op.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	pusher := push.New(url, job).Gatherer(m.registry)
	if m.pushClient != nil {
		pusher = pusher.Client(m.pushClient)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
