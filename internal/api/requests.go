// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package api

import "github.com/vibeyf-ai/vibeyf/internal/questionnaire"

// RecommendationRequest is the body of POST /api/v1/recommendations. Answers
// are normalized and validated by the pipeline, not here.
type RecommendationRequest struct {
	UserID  string                `json:"user_id" validate:"omitempty,userid"`
	Answers questionnaire.Answers `json:"answers" validate:"-"`
}

// HistoryRequest holds the query parameters of GET /api/v1/results.
type HistoryRequest struct {
	Limit int `json:"limit" validate:"min=1,max=100"`
}

// CatalogRequest holds the query parameters of GET /api/v1/catalog.
type CatalogRequest struct {
	Type string `json:"type" validate:"omitempty,max=32"`
}
