// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package api

import (
	"net/http"
	"time"

	"github.com/vibeyf-ai/vibeyf/internal/metrics"
)

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status      string         `json:"status"`
	Version     string         `json:"version"`
	Ready       bool           `json:"ready"`
	CatalogSize map[string]int `json:"catalog_size"`
	Warnings    []string       `json:"warnings,omitempty"`
	Uptime      float64        `json:"uptime_seconds"`
}

// Health reports overall status. Status is "healthy" once embeddings are
// ready and no warning is active, "degraded" otherwise, and "starting"
// before the first warm-up completes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ready := h.engine.Ready()
	warnings := h.engine.Warnings()

	status := "healthy"
	switch {
	case !ready:
		status = "starting"
	case len(warnings) > 0:
		status = "degraded"
	}

	size := make(map[string]int)
	for t, n := range h.engine.Catalog().CountByType() {
		size[string(t)] = n
	}

	uptime := time.Since(h.startTime)
	metrics.SetUptime(uptime)

	health := HealthStatus{
		Status:      status,
		Version:     h.version,
		Ready:       ready,
		CatalogSize: size,
		Uptime:      uptime.Seconds(),
	}
	for _, warn := range warnings {
		health.Warnings = append(health.Warnings, warn.Error())
	}

	respondJSON(w, r, http.StatusOK, health)
}

// HealthLive returns 200 while the process is alive.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 once recommendations can be served, 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Embeddings are not ready", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]bool{"ready": true})
}
