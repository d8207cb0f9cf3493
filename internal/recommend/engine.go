// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
)

// Recommendation result labels beyond metrics.ResultSuccess/ResultError.
const (
	resultEmpty        = "empty"
	resultInvalidQuery = "invalid_query"
)

// Engine ranks a catalog against queries. It owns the catalog snapshot and
// drives the similarity index; it is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	index  SimilarityIndex
	scorer *Scorer

	mu       sync.RWMutex
	catalog  *catalog.Catalog
	ready    bool
	warnings []error
}

// NewEngine creates a recommendation engine over cat. The index is not
// touched until EnsureReady.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, cat *catalog.Catalog, index SimilarityIndex, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if index == nil {
		return nil, errors.New("similarity index is required")
	}
	if cat == nil {
		cat = catalog.Empty()
	}

	e := &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		index:  index,
		scorer: NewScorer(cfg),
	}
	e.setCatalogLocked(cat)
	return e, nil
}

// setCatalogLocked swaps the catalog and refreshes warnings. Caller holds mu
// (or has exclusive access during construction).
func (e *Engine) setCatalogLocked(cat *catalog.Catalog) {
	e.catalog = cat
	e.warnings = nil
	if cat.Len() == 0 {
		e.warnings = append(e.warnings, ErrEmptyCatalog)
		e.logger.Warn().Err(ErrEmptyCatalog).Msg("recommendations will be empty")
	}
}

// EnsureReady restores the cached embedding matrix for the current catalog,
// or embeds the catalog when no matching cache exists.
func (e *Engine) EnsureReady(ctx context.Context) error {
	e.mu.RLock()
	cat := e.catalog
	ready := e.ready
	e.mu.RUnlock()

	if ready {
		return nil
	}
	if err := e.prepareIndex(ctx, cat, false); err != nil {
		return err
	}

	e.mu.Lock()
	if e.catalog == cat {
		e.ready = true
	}
	e.mu.Unlock()
	return nil
}

// Rebuild re-embeds the current catalog, ignoring any cached matrix.
func (e *Engine) Rebuild(ctx context.Context) error {
	cat := e.Catalog()
	if err := e.prepareIndex(ctx, cat, true); err != nil {
		return err
	}
	e.mu.Lock()
	if e.catalog == cat {
		e.ready = true
	}
	e.mu.Unlock()
	return nil
}

// ReplaceCatalog prepares the index for cat and then makes cat current.
// On error the previous catalog stays in service.
func (e *Engine) ReplaceCatalog(ctx context.Context, cat *catalog.Catalog) error {
	if cat == nil {
		cat = catalog.Empty()
	}
	if err := e.prepareIndex(ctx, cat, false); err != nil {
		return err
	}

	e.mu.Lock()
	e.setCatalogLocked(cat)
	e.ready = true
	e.mu.Unlock()

	e.logger.Info().
		Int("elements", cat.Len()).
		Msg("catalog replaced")
	return nil
}

func (e *Engine) prepareIndex(ctx context.Context, cat *catalog.Catalog, force bool) error {
	texts := cat.SemanticTexts()

	if !force && e.index.LoadCache(ctx, texts) {
		e.logger.Info().
			Int("elements", len(texts)).
			Msg("embedding matrix restored from cache")
		return nil
	}

	start := time.Now()
	if err := e.index.Prepare(ctx, texts); err != nil {
		return fmt.Errorf("prepare similarity index: %w", err)
	}
	e.logger.Info().
		Int("elements", len(texts)).
		Dur("duration", time.Since(start)).
		Msg("catalog embedded")
	return nil
}

// Recommend scores the current catalog against q. An empty catalog yields an
// empty, valid set. An empty query returns an *InvalidQueryError.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, q Query) (*RecommendationSet, error) {
	start := time.Now()

	q = e.prepareQuery(ctx, q)
	logger := e.logger.With().Str("request_id", q.RequestID).Logger()

	e.mu.RLock()
	cat := e.catalog
	e.mu.RUnlock()

	if cat.Len() == 0 {
		logger.Warn().Err(ErrEmptyCatalog).Msg("returning empty recommendation set")
		set := GenerateRecommendations(nil, q.TopN)
		metrics.RecordRecommendation(resultEmpty, time.Since(start), 0)
		return &set, nil
	}

	similarities, err := e.index.Score(ctx, q.Text())
	if err != nil {
		var invalid *InvalidQueryError
		if errors.As(err, &invalid) {
			metrics.RecordRecommendation(resultInvalidQuery, time.Since(start), 0)
		} else {
			metrics.RecordRecommendation(metrics.ResultError, time.Since(start), 0)
		}
		return nil, fmt.Errorf("score query: %w", err)
	}

	scored, err := e.scorer.ScoreElements(ctx, cat.Elements(), similarities, q)
	if err != nil {
		metrics.RecordRecommendation(metrics.ResultError, time.Since(start), 0)
		return nil, fmt.Errorf("score elements: %w", err)
	}

	set := GenerateRecommendations(scored, q.TopN)
	metrics.RecordRecommendation(metrics.ResultSuccess, time.Since(start), len(scored))

	logger.Debug().
		Int("scored", len(scored)).
		Int("returned", len(set.TopOverall)).
		Float64("max_score", set.Statistics.Max).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return &set, nil
}

// prepareQuery applies defaults and limits and assigns a request ID.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) prepareQuery(ctx context.Context, q Query) Query {
	if q.RequestID == "" {
		q.RequestID = logging.RequestIDFromContext(ctx)
	}
	if q.RequestID == "" {
		q.RequestID = logging.GenerateRequestID()
	}
	if q.TopN <= 0 {
		q.TopN = e.config.Limits.DefaultTopN
	}
	if q.TopN > e.config.Limits.MaxTopN {
		q.TopN = e.config.Limits.MaxTopN
	}
	if q.Openness == 0 {
		q.Openness = (e.config.Openness.MinLevel + e.config.Openness.MaxLevel) / 2
	}
	return q
}

// Catalog returns the catalog currently in service.
func (e *Engine) Catalog() *catalog.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// Ready reports whether the index matches the current catalog.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Warnings returns non-fatal conditions affecting results, such as ErrEmptyCatalog.
func (e *Engine) Warnings() []error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]error, len(e.warnings))
	copy(out, e.warnings)
	return out
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}
