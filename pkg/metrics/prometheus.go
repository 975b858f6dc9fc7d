// Package metrics provides Prometheus metrics for the citypath frontend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Submission metrics - one per form submission
	submissions         *prometheus.CounterVec
	submissionDuration  prometheus.Histogram
	validationFailures  *prometheus.CounterVec
	rejectedSubmissions prometheus.Counter
	inflightSubmissions prometheus.Gauge
	pathsRendered       prometheus.Histogram
	renderErrors        prometheus.Counter

	// Upstream route service
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "citypath",
		subsystem:        "frontend",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(
		m.counterOpts("submissions_total", "Form submissions by outcome"),
		[]string{"outcome"},
	)
	m.submissionDuration = auto.NewHistogram(
		m.histogramOpts("submission_duration_milliseconds", "Time from submit to rendered result or error", m.histogramBuckets),
	)
	m.validationFailures = auto.NewCounterVec(
		m.counterOpts("validation_failures_total", "Submissions rejected before any request was made"),
		[]string{"reason"},
	)
	m.rejectedSubmissions = auto.NewCounter(
		m.counterOpts("rejected_submissions_total", "Submissions rejected because one was already in flight for the same session"),
	)
	m.inflightSubmissions = auto.NewGauge(
		m.gaugeOpts("inflight_submissions", "Route searches currently awaiting the route service"),
	)
	m.pathsRendered = auto.NewHistogram(
		m.histogramOpts("paths_rendered", "Number of path cards per rendered result", []float64{1, 2, 3, 4, 5, 10}),
	)
	m.renderErrors = auto.NewCounter(
		m.counterOpts("render_errors_total", "Template execution failures"),
	)

	m.upstreamRequests = auto.NewCounterVec(
		m.counterOpts("upstream_requests_total", "Requests sent to the route service by status code (\"error\" on transport failure)"),
		[]string{"status_code"},
	)
	m.upstreamLatency = auto.NewHistogram(
		m.histogramOpts("upstream_latency_milliseconds", "Route service round trip in milliseconds", m.histogramBuckets),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordSubmission counts a finished submission and its duration.
func RecordSubmission(outcome string, durationMs float64) {
	globalManager.submissions.WithLabelValues(outcome).Inc()
	globalManager.submissionDuration.Observe(durationMs)
}

// RecordValidationFailure counts a submission stopped by client-side validation.
func RecordValidationFailure(reason string) {
	globalManager.validationFailures.WithLabelValues(reason).Inc()
}

// RecordRejectedSubmission counts a submission refused by the in-flight guard.
func RecordRejectedSubmission() {
	globalManager.rejectedSubmissions.Inc()
}

// IncInflight marks a route search as started.
func IncInflight() {
	globalManager.inflightSubmissions.Inc()
}

// DecInflight marks a route search as finished.
func DecInflight() {
	globalManager.inflightSubmissions.Dec()
}

// RecordPathsRendered observes the number of cards in a rendered result.
func RecordPathsRendered(n int) {
	globalManager.pathsRendered.Observe(float64(n))
}

// RecordRenderError counts a template failure.
func RecordRenderError() {
	globalManager.renderErrors.Inc()
}

// RecordUpstreamRequest counts a route service call and its latency.
func RecordUpstreamRequest(statusCode string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(statusCode).Inc()
	globalManager.upstreamLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records errors by endpoint and method.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
