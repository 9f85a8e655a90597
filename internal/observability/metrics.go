// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RowsIngested   prometheus.Counter
	RowsDropped    prometheus.Counter
	IngestRuns     *prometheus.CounterVec
	TopUpApplied   prometheus.Counter
	TopUpFailures  prometheus.Counter
	LastIngestTime prometheus.Gauge

	// Simulation metrics
	SimulationsRun     prometheus.Counter
	SimulationDuration prometheus.Histogram
	SwitchesSimulated  prometheus.Counter

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "metal_ratio_lab"
	}

	return &Metrics{
		RowsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      "Price rows accepted into the series",
		}),
		RowsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Raw rows dropped during parsing",
		}),
		IngestRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Ingestion runs by result",
		}, []string{"result"}),
		TopUpApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topup_applied_total",
			Help:      "Live-quote top-up records appended",
		}),
		TopUpFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topup_failures_total",
			Help:      "Live-quote top-up attempts that failed and were ignored",
		}),
		LastIngestTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_ingest_timestamp_seconds",
			Help:      "Unix time of the last successful ingestion",
		}),
		SimulationsRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_run_total",
			Help:      "Switching-strategy simulations executed",
		}),
		SimulationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of one simulation run",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SwitchesSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "switches_simulated_total",
			Help:      "Metal switches produced across all simulations",
		}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "status"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_query_errors_total",
			Help:      "Storage errors by store",
		}, []string{"store"}),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordIngestRun records an ingestion run with its result ("ok" or "error").
func RecordIngestRun(result string) {
	DefaultMetrics.IngestRuns.WithLabelValues(result).Inc()
}

// RecordRowsIngested records accepted and dropped row counts for a parse.
func RecordRowsIngested(accepted, dropped int) {
	DefaultMetrics.RowsIngested.Add(float64(accepted))
	DefaultMetrics.RowsDropped.Add(float64(dropped))
}

// RecordTopUp records a top-up outcome.
func RecordTopUp(applied bool, failed bool) {
	if failed {
		DefaultMetrics.TopUpFailures.Inc()
		return
	}
	if applied {
		DefaultMetrics.TopUpApplied.Inc()
	}
}

// RecordSimulation records one completed simulation run.
func RecordSimulation(durationSeconds float64, switches int) {
	DefaultMetrics.SimulationsRun.Inc()
	DefaultMetrics.SimulationDuration.Observe(durationSeconds)
	DefaultMetrics.SwitchesSimulated.Add(float64(switches))
}

// RecordHTTPRequest records one served API request.
func RecordHTTPRequest(path, status string, durationSeconds float64) {
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(path, status).Observe(durationSeconds)
}

// RecordDBError records a storage failure for a named store.
func RecordDBError(store string) {
	DefaultMetrics.DBQueryErrors.WithLabelValues(store).Inc()
}
