// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package metrics defines the Prometheus collectors for the recommendation
// service and thin helpers for recording into them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP requests by method, path, and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillbridge_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration observes HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillbridge_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// APIActiveRequests gauges in-flight HTTP requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillbridge_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// RecommendationRequestsTotal counts recommendation computations by
	// outcome (computed, cache_hit, error).
	RecommendationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillbridge_recommendation_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendationLatency observes full scoring-pass latency.
	RecommendationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillbridge_recommendation_latency_seconds",
			Help:    "Scoring pass duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// RecommendationCandidates observes eligible-universe sizes.
	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillbridge_recommendation_candidates",
			Help:    "Number of candidate projects per scoring pass",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)

	// RecommendationsReturned observes result-set sizes after ranking.
	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillbridge_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// CacheOperationsTotal counts cache hits, misses, and invalidations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillbridge_cache_operations_total",
			Help: "Total number of recommendation cache operations",
		},
		[]string{"operation"},
	)

	// EventsTotal counts instrumentation events by topic and result.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillbridge_events_total",
			Help: "Total number of instrumentation events by topic and result",
		},
		[]string{"topic", "result"},
	)

	// StoreQueryDuration observes store query latency by operation.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillbridge_store_query_duration_seconds",
			Help:    "Store query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordScoringPass records a completed scoring pass.
func RecordScoringPass(candidates, returned int, latencyMS int64) {
	RecommendationRequestsTotal.WithLabelValues("computed").Inc()
	RecommendationLatency.Observe(float64(latencyMS) / 1000)
	RecommendationCandidates.Observe(float64(candidates))
	RecommendationsReturned.Observe(float64(returned))
}

// RecordCacheHit records a recommendation served from cache.
func RecordCacheHit() {
	RecommendationRequestsTotal.WithLabelValues("cache_hit").Inc()
	CacheOperationsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	CacheOperationsTotal.WithLabelValues("miss").Inc()
}

// RecordCacheInvalidation records an explicit invalidation of n entries.
func RecordCacheInvalidation(n int) {
	CacheOperationsTotal.WithLabelValues("invalidate").Add(float64(n))
}

// RecordEvent records an instrumentation event outcome
// (published, consumed, dropped).
func RecordEvent(topic, result string) {
	EventsTotal.WithLabelValues(topic, result).Inc()
}

// RecordStoreQuery records one store query.
func RecordStoreQuery(operation string, duration time.Duration) {
	StoreQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
