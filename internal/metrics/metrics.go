// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package metrics declares the Prometheus collectors for Shelfcast and small
// helpers to record them. Collectors register with the default registry and
// are served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by several collectors.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"
	ResultCacheHit = "cache_hit"
	ResultNotFound = "not_found"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelfcast_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelfcast_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_recommend_requests_total",
			Help: "Total number of ranking passes",
		},
		[]string{"mode", "outcome"}, // outcome: "ranked", "fallback", "empty"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelfcast_recommend_duration_seconds",
			Help:    "Duration of ranking passes in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"mode"},
	)

	RecommendPoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelfcast_recommend_pool_size",
			Help:    "Number of candidates handed to the engine",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"mode"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelfcast_recommend_results",
			Help:    "Number of recommendations returned per pass",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"mode"},
	)

	// Provider Metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_provider_requests_total",
			Help: "Total number of catalog source lookups",
		},
		[]string{"source", "result"}, // result: "success", "error", "rejected", "cache_hit"
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelfcast_provider_request_duration_seconds",
			Help:    "Duration of outbound catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	ProviderItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_provider_items_total",
			Help: "Total number of items returned by catalog sources",
		},
		[]string{"source"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shelfcast_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shelfcast_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_cache_evictions_total",
			Help: "Total number of entries evicted to stay within quota",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shelfcast_cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache"},
	)

	// Library Metrics
	LibraryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcast_library_operations_total",
			Help: "Total number of library store operations",
		},
		[]string{"operation", "result"},
	)

	LibraryOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelfcast_library_operation_duration_seconds",
			Help:    "Duration of library store operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one ranking pass.
func RecordRecommendation(mode string, poolSize, returned int, fallback bool, duration time.Duration) {
	outcome := "ranked"
	switch {
	case fallback:
		outcome = "fallback"
	case returned == 0:
		outcome = "empty"
	}

	RecommendRequests.WithLabelValues(mode, outcome).Inc()
	RecommendDuration.WithLabelValues(mode).Observe(duration.Seconds())
	RecommendPoolSize.WithLabelValues(mode).Observe(float64(poolSize))
	RecommendResults.WithLabelValues(mode).Observe(float64(returned))
}

// RecordProviderRequest records a catalog lookup. Duration is only observed
// for lookups that reached the network.
func RecordProviderRequest(source, result string, items int, duration time.Duration) {
	ProviderRequests.WithLabelValues(source, result).Inc()
	if result == ResultSuccess || result == ResultError {
		ProviderDuration.WithLabelValues(source).Observe(duration.Seconds())
	}
	if items > 0 {
		ProviderItems.WithLabelValues(source).Add(float64(items))
	}
}

// RecordCircuitBreakerTransition updates the state gauge and transition counter.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordCacheLookup records a hit or a miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordLibraryOperation records a store operation.
func RecordLibraryOperation(operation string, duration time.Duration, err error) {
	LibraryOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	LibraryOperations.WithLabelValues(operation, result).Inc()
}
