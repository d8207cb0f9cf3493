// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package pipeline runs one questionnaire through enrichment, scoring and
// persistence, and assembles the components that do so from configuration.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/enrich"
	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/questionnaire"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/results"
)

// UserIDLayout formats the default user id from the run time.
const UserIDLayout = "20060102_150405"

// ResultSink receives finished documents.
type ResultSink interface {
	Deliver(ctx context.Context, doc *results.Document) error
}

// StoreSink delivers documents straight into a results.Store.
type StoreSink struct {
	Store results.Store
}

// Deliver saves doc.
func (s StoreSink) Deliver(ctx context.Context, doc *results.Document) error {
	return s.Store.SaveResult(ctx, doc)
}

// ReportGenerator writes the optional GenAI report.
type ReportGenerator interface {
	Report(ctx context.Context, in *enrich.ReportInput) (*enrich.Report, error)
}

// Options holds the optional collaborators of a Recommender.
type Options struct {
	// Enricher rewrites the user's text. Nil disables enrichment.
	Enricher enrich.Enricher

	// Reporter adds the GenAI report. Nil skips it.
	Reporter ReportGenerator

	// Answers stores the raw questionnaire. Nil skips it.
	Answers results.Store

	// Sink receives the result document. Nil keeps it in memory only.
	Sink ResultSink

	// Now is the clock. Nil uses time.Now.
	Now func() time.Time
}

// Recommender runs the full recommendation flow for one questionnaire.
type Recommender struct {
	engine   *recommend.Engine
	enricher enrich.Enricher
	reporter ReportGenerator
	answers  results.Store
	sink     ResultSink
	now      func() time.Time
	logger   zerolog.Logger
}

// NewRecommender creates a Recommender around engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommender(engine *recommend.Engine, opts Options, logger zerolog.Logger) *Recommender {
	if opts.Enricher == nil {
		opts.Enricher = enrich.Noop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Recommender{
		engine:   engine,
		enricher: opts.Enricher,
		reporter: opts.Reporter,
		answers:  opts.Answers,
		sink:     opts.Sink,
		now:      opts.Now,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Engine returns the scoring engine.
func (r *Recommender) Engine() *recommend.Engine {
	return r.engine
}

// Run validates answers, scores the catalog and delivers the resulting
// document. An empty userID defaults to the run time formatted with
// UserIDLayout.
//
// Invalid answers and queries that cannot be embedded are returned as
// errors. Failures to store answers, to enrich, to report or to deliver the
// document are logged and do not fail the run.
//
//nolint:gocritic // hugeParam: answers are copied before normalization
func (r *Recommender) Run(ctx context.Context, answers questionnaire.Answers, userID string) (*results.Document, error) {
	ctx, requestID := logging.EnsureRequestID(ctx)
	now := r.now()
	if userID == "" {
		userID = now.Format(UserIDLayout)
	}
	if err := results.CheckUserID(userID); err != nil {
		return nil, err
	}
	logger := r.logger.With().Str("request_id", requestID).Str("user_id", userID).Logger()

	answers.Normalize()
	if err := answers.Validate(); err != nil {
		return nil, fmt.Errorf("invalid answers: %w", err)
	}

	if r.answers != nil {
		rec := &results.AnswersRecord{UserID: userID, Timestamp: now, Answers: answers}
		if err := r.answers.SaveAnswers(ctx, rec); err != nil {
			logger.Warn().Err(err).Msg("failed to save answers")
		}
	}

	text := questionnaire.SemanticText(answers)
	enriched := r.enricher.Enrich(ctx, text)
	queryText := enriched.TextOr(text)
	if !enriched.Enriched() {
		logger.Debug().Str("outcome", string(enriched.Outcome)).Msg("using original text")
	}

	prefs := questionnaire.AudioPreferences(answers)
	set, err := r.engine.Recommend(ctx, recommend.Query{
		RawText:          text,
		EnrichedText:     queryText,
		PreferredGenres:  questionnaire.PreferredGenres(answers),
		AudioPreferences: prefs,
		Openness:         questionnaire.OpennessLevel(answers),
		Moods:            questionnaire.Moods(answers),
		RequestID:        requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	var report *enrich.Report
	if r.reporter != nil && len(set.TopOverall) > 0 {
		report, err = r.reporter.Report(ctx, &enrich.ReportInput{
			OriginalText: text,
			EnrichedText: queryText,
			Top:          set.TopOverall,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("GenAI report skipped")
			report = nil
		}
	}

	doc := results.Build(&results.BuildInput{
		UserID:           userID,
		Timestamp:        now,
		OriginalText:     text,
		EnrichedText:     queryText,
		AudioPreferences: prefs,
		Set:              set,
		Report:           report,
	})

	if r.sink != nil {
		if err := r.sink.Deliver(ctx, doc); err != nil {
			logger.Error().Err(err).Msg("failed to deliver result document")
		}
	}

	logger.Info().
		Str("enrichment", string(enriched.Outcome)).
		Int("returned", len(doc.Recommendations.Top)).
		Float64("max_score", doc.Recommendations.Statistics.MaxScore).
		Msg("recommendation served")
	return doc, nil
}
