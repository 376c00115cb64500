// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - YouTube Data API latency, key rotation and quota pressure
// - Sentiment pipeline throughput and classifier health
// - API endpoint latency and throughput
// - Cache efficiency
// - Persistence store operations

var (
	// YouTube Data API Metrics
	YouTubeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_api_requests_total",
			Help: "Total number of YouTube Data API requests",
		},
		[]string{"endpoint", "status"},
	)

	YouTubeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtube_api_request_duration_seconds",
			Help:    "YouTube Data API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	YouTubeKeyRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "youtube_api_key_rotations_total",
			Help: "Total number of API key rotations triggered by quota exhaustion",
		},
	)

	YouTubeKeyUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "youtube_api_key_usage",
			Help: "Requests issued per key slot in the rotation pool",
		},
		[]string{"key_index"},
	)

	// Sentiment Pipeline Metrics
	AnalysisBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_batch_size",
			Help:    "Number of comments per analysis batch",
			Buckets: []float64{1, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	AnalysisBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_batch_duration_seconds",
			Help:    "Duration of batch sentiment analysis in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ClassifierFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_failures_total",
			Help: "Total number of per-classifier scoring failures (contained as neutral)",
		},
		[]string{"model"},
	)

	CommentsAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_analyzed_total",
			Help: "Total number of comments scored by the sentiment pipeline",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "analysis"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Persistence Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of Badger store operations",
		},
		[]string{"operation", "result"}, // operation: "get", "set", "list"; result: "ok", "miss", "error"
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of Badger store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordYouTubeRequest records an upstream API request outcome.
func RecordYouTubeRequest(endpoint, status string, duration time.Duration) {
	YouTubeRequestsTotal.WithLabelValues(endpoint, status).Inc()
	YouTubeRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordKeyRotation records a quota-triggered API key rotation.
func RecordKeyRotation() {
	YouTubeKeyRotations.Inc()
}

// RecordClassifierFailure records a classifier error contained as neutral.
func RecordClassifierFailure(model string) {
	ClassifierFailures.WithLabelValues(model).Inc()
}

// RecordAnalysisBatch records a completed batch analysis.
func RecordAnalysisBatch(size int, duration time.Duration) {
	AnalysisBatchSize.Observe(float64(size))
	AnalysisBatchDuration.Observe(duration.Seconds())
	CommentsAnalyzed.Add(float64(size))
}

// UpdateKeyUsage refreshes the per-slot usage gauge from pool counters.
func UpdateKeyUsage(usage []uint64) {
	for i, n := range usage {
		YouTubeKeyUsage.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheEviction records a TTL eviction for the given cache type.
func RecordCacheEviction(cacheType string) {
	CacheEvictions.WithLabelValues(cacheType).Inc()
}

// RecordStoreOperation records a persistence store operation outcome.
func RecordStoreOperation(operation, result string, duration time.Duration) {
	StoreOperations.WithLabelValues(operation, result).Inc()
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBreakerTransition records a circuit breaker state change.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
