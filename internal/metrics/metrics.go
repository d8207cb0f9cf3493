// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

var (
	// Embedding Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding provider calls",
		},
		[]string{"provider", "result"},
	)

	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Duration of embedding provider calls in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	EmbeddingTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_texts_total",
			Help: "Total number of texts sent to embedding providers",
		},
		[]string{"provider"},
	)

	EmbeddingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_lookups_total",
			Help: "Embedding cache lookups by tier and result",
		},
		[]string{"tier", "result"}, // tier: memory, badger; result: hit, miss
	)

	// Similarity Engine Metrics
	SimilarityPrepareRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_prepare_runs_total",
			Help: "Total number of catalog embedding preparations",
		},
		[]string{"result"},
	)

	SimilarityPrepareDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_prepare_duration_seconds",
			Help:    "Duration of catalog embedding preparation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	SimilarityCacheLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_cache_loads_total",
			Help: "Embedding matrix cache load attempts by result",
		},
		[]string{"result"}, // hit, miss, mismatch, error
	)

	SimilarityIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_index_elements",
			Help: "Number of catalog elements in the active embedding matrix",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"}, // success, empty_catalog, invalid_query, error
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end scoring duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RecommendationElementsScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_elements_scored",
			Help:    "Number of catalog elements scored per request",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	// Enrichment Metrics
	EnrichmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_outcomes_total",
			Help: "Text enrichment attempts by outcome",
		},
		[]string{"outcome"}, // enriched, disabled, empty, failed, timeout, rejected, rate_limited
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Duration of LLM enrichment calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Catalog Metrics
	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog file reloads by result",
		},
		[]string{"result"}, // success, parse_error, error
	)

	CatalogElements = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_elements",
			Help: "Number of catalog elements by type",
		},
		[]string{"type"},
	)

	// Result Persistence Metrics
	ResultsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "results_persisted_total",
			Help: "Recommendation documents written by store and result",
		},
		[]string{"store", "result"},
	)

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_total",
			Help: "Event bus messages by topic, direction and result",
		},
		[]string{"topic", "direction", "result"}, // direction: publish, consume
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

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// RecordEmbedding records one embedding provider call covering n texts.
func RecordEmbedding(provider string, n int, duration time.Duration, err error) {
	EmbeddingRequests.WithLabelValues(provider, resultLabel(err)).Inc()
	EmbeddingDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err == nil {
		EmbeddingTexts.WithLabelValues(provider).Add(float64(n))
	}
}

// RecordEmbeddingCache records a cache lookup on the given tier.
func RecordEmbeddingCache(tier string, hit bool) {
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	EmbeddingCacheLookups.WithLabelValues(tier, result).Inc()
}

// RecordPrepare records a catalog embedding preparation.
func RecordPrepare(duration time.Duration, elements int, err error) {
	SimilarityPrepareRuns.WithLabelValues(resultLabel(err)).Inc()
	SimilarityPrepareDuration.Observe(duration.Seconds())
	if err == nil {
		SimilarityIndexSize.Set(float64(elements))
	}
}

// RecordCacheLoad records an embedding matrix cache load attempt.
func RecordCacheLoad(result string) {
	SimilarityCacheLoads.WithLabelValues(result).Inc()
}

// RecordRecommendation records a scored recommendation request.
func RecordRecommendation(result string, duration time.Duration, scored int) {
	RecommendationRequests.WithLabelValues(result).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationElementsScored.Observe(float64(scored))
}

// RecordEnrichment records an enrichment outcome. Zero durations are not
// observed because no LLM call was made.
func RecordEnrichment(outcome string, duration time.Duration) {
	EnrichmentOutcomes.WithLabelValues(outcome).Inc()
	if duration > 0 {
		EnrichmentDuration.Observe(duration.Seconds())
	}
}

// RecordCatalogReload records a catalog reload attempt.
func RecordCatalogReload(result string) {
	CatalogReloads.WithLabelValues(result).Inc()
}

// SetCatalogSize publishes per-type element counts.
func SetCatalogSize(counts map[string]int) {
	for t, n := range counts {
		CatalogElements.WithLabelValues(t).Set(float64(n))
	}
}

// RecordResultPersisted records a document write to a result store.
func RecordResultPersisted(store string, err error) {
	ResultsPersisted.WithLabelValues(store, resultLabel(err)).Inc()
}

// RecordEvent records an event bus publish or consume.
func RecordEvent(topic, direction string, err error) {
	EventsTotal.WithLabelValues(topic, direction, resultLabel(err)).Inc()
}

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

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// SetUptime publishes the process uptime.
func SetUptime(d time.Duration) {
	AppUptime.Set(d.Seconds())
}
