// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

/*
Package api exposes the recommendation pipeline over HTTP using the Chi router.

Endpoints:

	GET  /api/v1/health               status, readiness, catalog size, warnings
	GET  /api/v1/health/live          liveness probe
	GET  /api/v1/health/ready         readiness probe, 503 until embeddings are ready
	GET  /api/v1/catalog?type=song    catalog listing, optionally filtered by type
	POST /api/v1/recommendations      run the questionnaire answers through the pipeline
	GET  /api/v1/results              recent result documents (history store only)
	GET  /api/v1/results/{userID}     one stored result document
	GET  /metrics                     Prometheus metrics

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}, "meta": {...}}

Middleware Stack:

  - RequestID: accepts or generates X-Request-ID
  - RealIP, Recoverer: chi built-ins
  - CORS: go-chi/cors, origins from configuration
  - RateLimit: go-chi/httprate per client IP on /api/v1
  - PrometheusMetrics: request metrics labelled by route pattern

Example:

	handler := api.NewHandler(api.Dependencies{
	    Recommender: app.Recommender,
	    Engine:      app.Engine,
	    Results:     app.Results,
	}, logger)
	router := api.NewRouter(handler, api.NewChiMiddleware(cfg))
	srv := &http.Server{Addr: ":8080", Handler: router.SetupChi()}
*/
package api
