// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/questionnaire"
	"github.com/vibeyf-ai/vibeyf/internal/results"
)

// Recommender runs questionnaire answers through the pipeline.
type Recommender interface {
	Run(ctx context.Context, answers questionnaire.Answers, userID string) (*results.Document, error)
}

// EngineStatus reports the state of the recommendation engine.
type EngineStatus interface {
	Ready() bool
	Warnings() []error
	Catalog() *catalog.Catalog
}

// History lists recently stored documents, newest first.
type History interface {
	Recent(ctx context.Context, limit int) ([]*results.Document, error)
}

// Dependencies are the components served by the API.
type Dependencies struct {
	Recommender Recommender
	Engine      EngineStatus
	Results     results.Store

	// History is optional. GET /api/v1/results answers 404 without it.
	History History

	// MaxBodyBytes bounds request bodies. Default: 64 KiB.
	MaxBodyBytes int64

	Version string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health and probe endpoints
//   - handlers_catalog.go: catalog listing
//   - handlers_recommend.go: recommendations and stored results
type Handler struct {
	recommender  Recommender
	engine       EngineStatus
	results      results.Store
	history      History
	maxBodyBytes int64
	version      string
	startTime    time.Time
	logger       zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(deps Dependencies, logger zerolog.Logger) *Handler {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 64 << 10
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Handler{
		recommender:  deps.Recommender,
		engine:       deps.Engine,
		results:      deps.Results,
		history:      deps.History,
		maxBodyBytes: deps.MaxBodyBytes,
		version:      deps.Version,
		startTime:    time.Now(),
		logger:       logger.With().Str("component", "api").Logger(),
	}
}
