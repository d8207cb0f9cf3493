// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API server:

	curl http://localhost:8080/metrics

# Available Metrics

Embedding Metrics:
  - embedding_requests_total: provider calls (counter)
    Labels: provider, result
  - embedding_request_duration_seconds: provider latency (histogram)
  - embedding_cache_lookups_total: cache lookups (counter)
    Labels: tier (memory, badger), result (hit, miss)

Similarity Metrics:
  - similarity_prepare_runs_total, similarity_prepare_duration_seconds
  - similarity_cache_loads_total: Labels: result (hit, miss, mismatch, error)
  - similarity_index_elements: elements in the active matrix (gauge)

Recommendation Metrics:
  - recommendation_requests_total: Labels: result
  - recommendation_duration_seconds, recommendation_elements_scored

Enrichment and Circuit Breaker Metrics:
  - enrichment_outcomes_total: Labels: outcome
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total, circuit_breaker_state_transitions_total

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests

# Example Alerts

	groups:
	  - name: vibeyf
	    rules:
	      - alert: EnrichmentBreakerOpen
	        expr: circuit_breaker_state{name="enrichment"} == 2
	        for: 5m
	      - alert: EmbeddingErrors
	        expr: rate(embedding_requests_total{result="error"}[5m]) > 0.1
*/
package metrics
