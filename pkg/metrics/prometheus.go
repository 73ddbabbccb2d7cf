// Package metrics provides Prometheus metrics for the matchday score service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the matchday service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Upstream providers
	upstreamRequests  *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
	upstreamFallbacks *prometheus.CounterVec

	// Aggregation
	cacheLookups     *prometheus.CounterVec
	cacheEntries     prometheus.Gauge
	cacheEvictions   prometheus.Counter
	matchesServed    *prometheus.GaugeVec
	slugRegistrySize prometheus.Gauge
	refreshRuns      *prometheus.CounterVec

	// Enrichment
	enrichmentResults *prometheus.CounterVec
	enrichmentLatency *prometheus.HistogramVec
	aiRateLimited     prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchday",
		subsystem:        "scores",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Upstream provider requests by source and outcome", "source", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_request_duration_seconds",
		"Upstream provider request latency in seconds", "source")
	m.upstreamFallbacks = m.counterVec("upstream_fallbacks_total",
		"Times mock data was served instead of live provider data", "source", "reason")

	m.cacheLookups = m.counterVec("cache_lookups_total",
		"Cache lookups by key class and result", "key_class", "result")
	m.cacheEntries = m.gauge("cache_entries", "Number of entries held by the TTL cache")
	m.cacheEvictions = m.counter("cache_evictions_total", "Expired cache entries removed")
	m.matchesServed = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "matches_current", Help: "Matches in the latest aggregated listing by sport and status",
	}, []string{"sport", "status"})
	m.slugRegistrySize = m.gauge("slug_registry_entries", "Number of registered match slugs")
	m.refreshRuns = m.counterVec("refresh_runs_total", "Scheduled cache refresh runs by outcome", "outcome")

	m.enrichmentResults = m.counterVec("enrichment_results_total",
		"Enrichment attempts by kind and outcome", "kind", "outcome")
	m.enrichmentLatency = m.histogramVec("enrichment_duration_seconds",
		"Enrichment call latency in seconds", "kind")
	m.aiRateLimited = m.counter("ai_rate_limited_total", "AI calls rejected by the sliding-window limiter")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.queueSize = m.gauge("enrichment_queue_size", "Current number of pending enrichment jobs")
	m.queueCapacity = m.gauge("enrichment_queue_capacity", "Maximum enrichment queue capacity")
	m.queueEnqueued = m.counter("enrichment_queue_enqueue_total", "Enrichment jobs enqueued")
	m.queueDequeued = m.counter("enrichment_queue_dequeue_total", "Enrichment jobs dequeued")
	m.queueEnqueueErrors = m.counter("enrichment_queue_enqueue_errors_total", "Enrichment jobs rejected by the queue")

	m.workerActiveCount = m.gauge("worker_active_count", "Number of running enrichment workers")
	m.workerProcessingLatency = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_processing_latency_milliseconds", Help: "Worker job latency in milliseconds",
		Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	m.workerErrors = m.counter("worker_errors_total", "Total number of worker errors")

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordUpstreamRequest counts one provider call and observes its latency.
func RecordUpstreamRequest(source, outcome string, seconds float64) {
	globalManager.upstreamRequests.WithLabelValues(source, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(source).Observe(seconds)
}

// RecordUpstreamFallback counts a mock fallback for a source.
func RecordUpstreamFallback(source, reason string) {
	globalManager.upstreamFallbacks.WithLabelValues(source, reason).Inc()
}

// RecordCacheLookup counts a cache hit or miss for a key class (scores, match).
func RecordCacheLookup(keyClass string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.cacheLookups.WithLabelValues(keyClass, result).Inc()
}

// UpdateCacheEntries sets the number of live cache entries.
func UpdateCacheEntries(n int) {
	globalManager.cacheEntries.Set(float64(n))
}

// RecordCacheEvictions counts expired entries removed from the cache.
func RecordCacheEvictions(n int) {
	globalManager.cacheEvictions.Add(float64(n))
}

// UpdateMatchesServed sets the listing gauge for one sport and status.
func UpdateMatchesServed(sport, status string, count int) {
	globalManager.matchesServed.WithLabelValues(sport, status).Set(float64(count))
}

// UpdateSlugRegistrySize sets the number of registered slugs.
func UpdateSlugRegistrySize(size int) {
	globalManager.slugRegistrySize.Set(float64(size))
}

// RecordRefreshRun counts a scheduled refresh by outcome.
func RecordRefreshRun(outcome string) {
	globalManager.refreshRuns.WithLabelValues(outcome).Inc()
}

// RecordEnrichment counts one enrichment attempt and observes its latency.
func RecordEnrichment(kind, outcome string, seconds float64) {
	globalManager.enrichmentResults.WithLabelValues(kind, outcome).Inc()
	globalManager.enrichmentLatency.WithLabelValues(kind).Observe(seconds)
}

// RecordAIRateLimited counts a limiter rejection.
func RecordAIRateLimited() {
	globalManager.aiRateLimited.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker job latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
