// Package metrics provides Prometheus metrics for the clutchboard service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Upstream feed health.
	feedRequests *prometheus.CounterVec
	feedErrors   *prometheus.CounterVec

	// Memoization effectiveness per cache store.
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	// Pipeline throughput and failure modes.
	taskLatency  prometheus.Histogram
	taskTimeouts prometheus.Counter
	taskFailures prometheus.Counter

	// Leaderboard query volume.
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec

	// HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clutchboard",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.feedRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "feed_requests_total",
			Help:      "Total number of upstream feed requests by endpoint",
		},
		[]string{"endpoint"},
	)

	m.feedErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "feed_errors_total",
			Help:      "Total number of failed upstream feed requests by endpoint",
		},
		[]string{"endpoint"},
	)

	m.cacheHits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_hits_total",
			Help:      "Total number of fresh cache hits by store and cached outcome",
		},
		[]string{"cache", "outcome"},
	)

	m.cacheMisses = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses (absent or stale) by store",
		},
		[]string{"cache"},
	)

	m.taskLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "task_latency_seconds",
		Help:      "Histogram of per-game computation latency in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.taskTimeouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "task_timeouts_total",
		Help:      "Total number of per-game computations dropped on timeout",
	})

	m.taskFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "task_failures_total",
		Help:      "Total number of per-game computations that failed",
	})

	m.queries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "leaderboard_queries_total",
			Help:      "Total number of leaderboard queries by kind and serving path",
		},
		[]string{"kind", "source"},
	)

	m.queryDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "leaderboard_query_duration_seconds",
			Help:      "Leaderboard query duration in seconds by kind",
			Buckets:   m.histogramBuckets,
		},
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the gatherer backing the /metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordFeedRequest counts an upstream feed request.
func RecordFeedRequest(endpoint string) {
	globalManager.feedRequests.WithLabelValues(endpoint).Inc()
}

// RecordFeedError counts a failed upstream feed request.
func RecordFeedError(endpoint string) {
	globalManager.feedErrors.WithLabelValues(endpoint).Inc()
}

// RecordCacheHit counts a fresh hit on the named cache store.
func RecordCacheHit(cacheName string, successOutcome bool) {
	outcome := "failure"
	if successOutcome {
		outcome = "success"
	}
	globalManager.cacheHits.WithLabelValues(cacheName, outcome).Inc()
}

// RecordCacheMiss counts an absent-or-stale lookup on the named cache store.
func RecordCacheMiss(cacheName string) {
	globalManager.cacheMisses.WithLabelValues(cacheName).Inc()
}

// RecordTaskLatency records one per-game computation latency in seconds.
func RecordTaskLatency(seconds float64) {
	globalManager.taskLatency.Observe(seconds)
}

// RecordTaskTimeout counts a computation dropped on timeout.
func RecordTaskTimeout() {
	globalManager.taskTimeouts.Inc()
}

// RecordTaskFailure counts a failed computation.
func RecordTaskFailure() {
	globalManager.taskFailures.Inc()
}

// RecordQuery counts a leaderboard query; source is "computed" or "cached".
func RecordQuery(kind, source string) {
	globalManager.queries.WithLabelValues(kind, source).Inc()
}

// RecordQueryDuration records a leaderboard query duration in seconds.
func RecordQueryDuration(kind string, seconds float64) {
	globalManager.queryDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method string, statusCode int) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, statusCode int, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Observe(durationMs)
}
