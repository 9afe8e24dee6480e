package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Leaderboard computation
	leaderboardComputations prometheus.Counter
	leaderboardLatency      prometheus.Histogram
	leaderboardErrors       prometheus.Counter
	orphanedEvents          prometheus.Counter

	// Write path
	eventsLogged        prometheus.Counter
	eventsRejected      *prometheus.CounterVec
	catalogReplacements *prometheus.CounterVec

	// Store
	storeFallbacks     *prometheus.CounterVec
	storeQueryLatency  prometheus.Histogram
	storeUpdateLatency prometheus.Histogram
	membersTotal       prometheus.Gauge
	activitiesTotal    prometheus.Gauge
	eventsTotal        prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init rebuilds the global manager with opts on a fresh registry, which
// GetRegistry then returns. It must run before any handler or recorder is in
// use; the process calls it once right after loading configuration.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "salesboard",
		subsystem:        "leaderboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		customLabels:     make(map[string]string),
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels, Buckets: buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.leaderboardComputations = auto.NewCounter(m.counterOpts(
		"computations_total", "Total number of leaderboard computations"))
	m.leaderboardLatency = auto.NewHistogram(m.histogramOpts(
		"computation_latency_milliseconds", "Leaderboard computation latency in milliseconds", m.histogramBuckets))
	m.leaderboardErrors = auto.NewCounter(m.counterOpts(
		"computation_errors_total", "Total number of rejected leaderboard queries"))
	m.orphanedEvents = auto.NewCounter(m.counterOpts(
		"orphaned_events_total", "Events skipped because their member is no longer in the catalog"))

	m.eventsLogged = auto.NewCounter(m.counterOpts(
		"events_logged_total", "Total number of activity events appended to the log"))
	m.eventsRejected = auto.NewCounterVec(m.counterOpts(
		"events_rejected_total", "Activity events rejected before being logged"), []string{"reason"})
	m.catalogReplacements = auto.NewCounterVec(m.counterOpts(
		"catalog_replacements_total", "Wholesale catalog replacements"), []string{"catalog"})

	m.storeFallbacks = auto.NewCounterVec(m.counterOpts(
		"store_fallbacks_total", "Reads served as empty collections because the store was unavailable"), []string{"operation"})
	m.storeQueryLatency = auto.NewHistogram(m.histogramOpts(
		"store_query_latency_milliseconds", "Store read latency in milliseconds", m.histogramBuckets))
	m.storeUpdateLatency = auto.NewHistogram(m.histogramOpts(
		"store_update_latency_milliseconds", "Store write latency in milliseconds", m.histogramBuckets))
	m.membersTotal = auto.NewGauge(m.gaugeOpts("members", "Members in the catalog at the last read"))
	m.activitiesTotal = auto.NewGauge(m.gaugeOpts("activities", "Scoring rules in the catalog at the last read"))
	m.eventsTotal = auto.NewGauge(m.gaugeOpts("events", "Events in the activity log at the last read"))

	httpLabels := []string{"endpoint", "method", "status_code"}
	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"), httpLabels)
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), httpLabels)
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of requests that ended in an error", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordLeaderboardComputation records a completed computation.
func RecordLeaderboardComputation(latencyMs float64) {
	globalManager.leaderboardComputations.Inc()
	globalManager.leaderboardLatency.Observe(latencyMs)
}

// RecordLeaderboardError increments the rejected leaderboard query counter.
func RecordLeaderboardError() {
	globalManager.leaderboardErrors.Inc()
}

// RecordOrphanedEvents adds n skipped orphan events.
func RecordOrphanedEvents(n int) {
	if n > 0 {
		globalManager.orphanedEvents.Add(float64(n))
	}
}

// RecordEventLogged increments the logged events counter.
func RecordEventLogged() {
	globalManager.eventsLogged.Inc()
}

// RecordEventRejected counts an event refused for reason.
func RecordEventRejected(reason string) {
	globalManager.eventsRejected.WithLabelValues(reason).Inc()
}

// RecordCatalogReplacement counts a wholesale replacement of catalog.
func RecordCatalogReplacement(catalog string) {
	globalManager.catalogReplacements.WithLabelValues(catalog).Inc()
}

// RecordStoreFallback counts a read that degraded to an empty collection.
func RecordStoreFallback(operation string) {
	globalManager.storeFallbacks.WithLabelValues(operation).Inc()
}

// RecordStoreQueryLatency records a store read latency.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreUpdateLatency records a store write latency.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// UpdateCatalogSizes sets the catalog size gauges.
func UpdateCatalogSizes(members, activities int) {
	globalManager.membersTotal.Set(float64(members))
	globalManager.activitiesTotal.Set(float64(activities))
}

// UpdateEventCount sets the activity log size gauge.
func UpdateEventCount(n int) {
	globalManager.eventsTotal.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
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
