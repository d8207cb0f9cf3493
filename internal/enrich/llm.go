// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package enrich

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
	"github.com/vibeyf-ai/vibeyf/internal/textutil"
)

const enrichSystemPrompt = `You help a music recommender understand a listener.
Rewrite the listener's short description in one or two sentences, keeping its meaning
and adding words about mood, atmosphere, energy, tempo and musical genre.
Answer in the language of the description, with the rewritten text only.`

// LLMEnricher enriches texts with a language model.
type LLMEnricher struct {
	client *Client
	logger zerolog.Logger
}

var _ Enricher = (*LLMEnricher)(nil)

// NewLLMEnricher creates an enricher calling the model behind client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLLMEnricher(client *Client, logger zerolog.Logger) *LLMEnricher {
	return &LLMEnricher{
		client: client,
		logger: logger.With().Str("component", "enrich").Logger(),
	}
}

// Enrich rewrites text. It never returns an error; failures are reported in
// the Result outcome.
func (e *LLMEnricher) Enrich(ctx context.Context, text string) Result {
	input := textutil.Normalize(text)
	if input == "" {
		metrics.RecordEnrichment(string(OutcomeEmpty), 0)
		return Result{Outcome: OutcomeEmpty}
	}

	start := time.Now()
	out, err := e.client.generate(ctx, enrichSystemPrompt, input)
	took := time.Since(start)

	res := e.classify(out, err)
	if res.Outcome == OutcomeRateLimited {
		took = 0
	}
	metrics.RecordEnrichment(string(res.Outcome), took)

	log := logging.Annotate(ctx, e.logger)
	if res.Enriched() {
		log.Debug().Dur("duration", took).Int("chars", len(res.Text)).Msg("text enriched")
	} else {
		log.Warn().Err(res.Err).Str("outcome", string(res.Outcome)).Msg("enrichment skipped, using original text")
	}
	return res
}

func (e *LLMEnricher) classify(out string, err error) Result {
	switch {
	case err == nil:
		text := e.clean(out)
		if text == "" {
			return Result{Outcome: OutcomeFailed, Err: ErrEmptyCompletion}
		}
		return Result{Text: text, Outcome: OutcomeEnriched}
	case errors.Is(err, ErrRateLimited):
		return Result{Outcome: OutcomeRateLimited, Err: err}
	case isRejected(err):
		return Result{Outcome: OutcomeRejected, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return Result{Outcome: OutcomeTimeout, Err: err}
	default:
		return Result{Outcome: OutcomeFailed, Err: err}
	}
}

// clean strips wrapping quotes and collapses whitespace, then caps the
// length at a rune boundary.
func (e *LLMEnricher) clean(out string) string {
	out = strings.Trim(strings.TrimSpace(out), "\"'«»“”")
	out = strings.Join(strings.Fields(out), " ")
	if limit := e.client.cfg.MaxChars; len([]rune(out)) > limit {
		out = strings.TrimSpace(string([]rune(out)[:limit]))
	}
	return out
}
