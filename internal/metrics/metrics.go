// Package metrics holds the Prometheus instruments for the server and
// service layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Validation Metrics
	ValidationsTotal   *prometheus.CounterVec
	ValidationErrors   prometheus.Histogram
	ValidationWarnings prometheus.Histogram
	ValidationDuration prometheus.Histogram
	FormatTotal        *prometheus.CounterVec
	SSEClients         prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initHTTPMetrics()
	r.initValidationMetrics()
	return r
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "c4dsl_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "c4dsl_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "c4dsl_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initValidationMetrics() {
	r.ValidationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "c4dsl_validations_total",
			Help: "Total number of validations by outcome (valid, invalid, syntax_error)",
		},
		[]string{"outcome"},
	)

	r.ValidationErrors = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "c4dsl_validation_errors",
			Help:    "Number of errors reported per validation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	r.ValidationWarnings = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "c4dsl_validation_warnings",
			Help:    "Number of warnings reported per validation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	r.ValidationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "c4dsl_validation_duration_seconds",
			Help:    "Time spent parsing and validating a source",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.FormatTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "c4dsl_format_total",
			Help: "Total number of format requests by outcome (ok, syntax_error)",
		},
		[]string{"outcome"},
	)

	r.SSEClients = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "c4dsl_sse_clients",
			Help: "Number of connected event stream clients",
		},
	)
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordValidation records the outcome of one validation
func (r *Registry) RecordValidation(outcome string, errors, warnings int, duration time.Duration) {
	r.ValidationsTotal.WithLabelValues(outcome).Inc()
	r.ValidationErrors.Observe(float64(errors))
	r.ValidationWarnings.Observe(float64(warnings))
	r.ValidationDuration.Observe(duration.Seconds())
}

// RecordFormat records the outcome of one format request
func (r *Registry) RecordFormat(outcome string) {
	r.FormatTotal.WithLabelValues(outcome).Inc()
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
