// Package metrics provides Prometheus metrics export for the fitness
// intelligence engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels used by the engine.
const (
	OpStoreSession    = "store_session"
	OpFindSimilar     = "find_similar"
	OpAnalyzePatterns = "analyze_patterns"
	OpPredictTrend    = "predict_trend"
	OpRecommend       = "recommend"
)

// Exporter registers and records engine metrics. A nil *Exporter is valid
// and records nothing, so wiring metrics stays optional for hosts.
type Exporter struct {
	registry *prometheus.Registry

	operations     *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	sessionsStored prometheus.Counter
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one).
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds).
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airwave",
			Subsystem: "fitness",
			Name:      "operations_total",
			Help:      "Total number of engine operations",
		},
		[]string{"operation", "status"},
	)

	e.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "airwave",
			Subsystem: "fitness",
			Name:      "operation_latency_seconds",
			Help:      "Engine operation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation"},
	)

	e.sessionsStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airwave",
			Subsystem: "fitness",
			Name:      "sessions_stored_total",
			Help:      "Total number of sessions ingested into the vector index",
		},
	)

	registry.MustRegister(e.operations, e.latency, e.sessionsStored)

	return e
}

// Registry exposes the underlying registry so hosts can mount it on their
// own /metrics handler.
func (e *Exporter) Registry() *prometheus.Registry {
	if e == nil {
		return nil
	}
	return e.registry
}

// ObserveOperation records one engine operation with its outcome and latency.
func (e *Exporter) ObserveOperation(operation string, err error, elapsed time.Duration) {
	if e == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.operations.WithLabelValues(operation, status).Inc()
	e.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveSessionStored counts one successful session ingestion.
func (e *Exporter) ObserveSessionStored() {
	if e == nil {
		return
	}
	e.sessionsStored.Inc()
}
