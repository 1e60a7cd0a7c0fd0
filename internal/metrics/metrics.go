// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dishpick_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dishpick_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation engine

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_recommendations_total",
			Help: "Recommendations served, by fallback stage that produced the pool",
		},
		[]string{"stage"},
	)

	RecommendationPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dishpick_recommendation_pool_size",
			Help:    "Number of candidates in the pool a dish was drawn from",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
		},
	)

	RecommendationHistoryResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dishpick_recommendation_history_resets_total",
			Help: "Times the recommendation history was cleared because no candidate remained",
		},
	)

	RecommendationTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dishpick_recommendation_timeouts_total",
			Help: "Recommend requests that exceeded their deadline",
		},
	)

	// Enrichment

	EnrichLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_enrich_lookups_total",
			Help: "Enrichment lookups by source and result (hit, empty, unavailable, cached)",
		},
		[]string{"source", "result"},
	)

	EnrichLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dishpick_enrich_lookup_duration_seconds",
			Help:    "Duration of uncached enrichment lookups",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 0.75, 1, 2, 5},
		},
		[]string{"source"},
	)

	// Circuit breaker

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dishpick_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result (success, failure, rejected)",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Cache

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)

	// Events

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_events_published_total",
			Help: "Events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_events_consumed_total",
			Help: "Events consumed by topic and result (ack, nack, malformed)",
		},
		[]string{"topic", "result"},
	)

	// Live feed

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dishpick_websocket_clients",
			Help: "Connected live feed clients",
		},
	)

	// Storage

	StorageGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishpick_storage_gc_runs_total",
			Help: "Badger value-log GC runs by result (rewritten, nothing, error)",
		},
		[]string{"result"},
	)
)

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

// RecordRecommendation records one served recommendation.
func RecordRecommendation(stage string, poolSize int, historyReset bool) {
	RecommendationsTotal.WithLabelValues(stage).Inc()
	RecommendationPoolSize.Observe(float64(poolSize))
	if historyReset {
		RecommendationHistoryResets.Inc()
	}
}

// RecordEnrichLookup records the outcome of an enrichment lookup. Zero duration skips the histogram.
func RecordEnrichLookup(source, result string, duration time.Duration) {
	EnrichLookups.WithLabelValues(source, result).Inc()
	if duration > 0 {
		EnrichLookupDuration.WithLabelValues(source).Observe(duration.Seconds())
	}
}

// RecordCacheAccess records a cache hit or miss.
func RecordCacheAccess(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(topic string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}

// RecordEventConsumed records the handling outcome of a consumed event.
func RecordEventConsumed(topic, result string) {
	EventsConsumed.WithLabelValues(topic, result).Inc()
}
