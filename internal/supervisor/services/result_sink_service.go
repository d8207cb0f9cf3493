// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/vibeyf-ai/vibeyf/internal/events"
	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/results"
)

// EventConsumer is the subset of events.Bus the sink needs.
type EventConsumer interface {
	Consume(ctx context.Context, handle events.DocumentHandler) error
}

// ResultSinkService persists documents published on the event bus.
type ResultSinkService struct {
	consumer EventConsumer
	store    results.Store
	logger   zerolog.Logger
}

// NewResultSinkService creates a sink saving into store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResultSinkService(consumer EventConsumer, store results.Store, logger zerolog.Logger) *ResultSinkService {
	return &ResultSinkService{
		consumer: consumer,
		store:    store,
		logger:   logger.With().Str("service", "result_sink").Logger(),
	}
}

// Serve implements suture.Service. A closed bus ends the service for good.
func (s *ResultSinkService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("result sink consuming")
	err := s.consumer.Consume(ctx, s.handle)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err == nil || errors.Is(err, events.ErrClosed):
		s.logger.Info().Msg("event bus closed, result sink stopping")
		return suture.ErrDoNotRestart
	default:
		return fmt.Errorf("consume results: %w", err)
	}
}

func (s *ResultSinkService) handle(ctx context.Context, doc *results.Document) error {
	if err := s.store.SaveResult(ctx, doc); err != nil {
		return fmt.Errorf("save result %s: %w", doc.UserID, err)
	}
	logging.Annotate(ctx, s.logger).Debug().Str("user_id", doc.UserID).Msg("result persisted")
	return nil
}

// String returns the service name for logging.
func (s *ResultSinkService) String() string {
	return "result-sink"
}
