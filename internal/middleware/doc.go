// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - Request ID: accepts or generates X-Request-ID and stores it in the
    logging context so every log line of a request carries it
  - Prometheus Metrics: request counts, durations and in-flight requests,
    labelled by chi route pattern rather than raw path

Both come in http.HandlerFunc form; the api package adapts them to chi.

Usage Example:

	r := chi.NewRouter()
	r.Use(adapt(middleware.RequestID))
	r.Use(adapt(middleware.PrometheusMetrics))

	func handler(w http.ResponseWriter, r *http.Request) {
	    logging.Ctx(r.Context()).Info().Msg("handling")
	}

See Also:

  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
