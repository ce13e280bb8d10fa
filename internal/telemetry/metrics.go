package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds the Prometheus metrics published during batch
// simulation runs.
type MetricsRegistry struct {
	registry *prometheus.Registry

	RunsTotal    *prometheus.CounterVec
	RunErrors    *prometheus.CounterVec
	StepsTotal   prometheus.Counter
	ActiveRuns   prometheus.Gauge
	RunDuration  prometheus.Histogram
	FinalPnL     *prometheus.GaugeVec
	TxnCostTotal *prometheus.GaugeVec
}

// NewMetricsRegistry creates a registry with all hedgerun metrics. Each
// registry is self-contained so concurrent batches (and tests) never clash
// on registration.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hedgerun_runs_total",
				Help: "Total number of simulation runs by outcome",
			},
			[]string{"status"},
		),

		RunErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hedgerun_run_errors_total",
				Help: "Total number of failed runs by scenario",
			},
			[]string{"scenario"},
		),

		StepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hedgerun_steps_total",
				Help: "Total number of simulation steps executed",
			},
		),

		ActiveRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hedgerun_active_runs",
				Help: "Number of currently executing runs",
			},
		),

		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hedgerun_run_duration_seconds",
				Help:    "Wall-clock duration of one simulation run in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
		),

		FinalPnL: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hedgerun_final_pnl",
				Help: "Final mark-to-market P&L per run",
			},
			[]string{"run"},
		),

		TxnCostTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hedgerun_txn_cost_total",
				Help: "Total transaction cost paid per run",
			},
			[]string{"run"},
		),
	}

	m.registry.MustRegister(
		m.RunsTotal,
		m.RunErrors,
		m.StepsTotal,
		m.ActiveRuns,
		m.RunDuration,
		m.FinalPnL,
		m.TxnCostTotal,
	)

	return m
}

// Handler returns an HTTP handler exposing this registry in Prometheus
// exposition format.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying Prometheus registry.
func (m *MetricsRegistry) Registry() *prometheus.Registry {
	return m.registry
}
