// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package enrich rewrites short user descriptions with a language model so
// they carry more mood, atmosphere and genre vocabulary, and produces the
// optional GenAI report.
//
// Enrichment never fails a recommendation. Enrich reports what happened as a
// Result with an Outcome, and the caller decides to fall back to the original
// text. LLM calls go through a non-waiting rate limiter and a circuit breaker,
// each with a per-call timeout.
package enrich

import (
	"context"
)

// Outcome classifies an enrichment attempt.
type Outcome string

const (
	// OutcomeEnriched means Result.Text holds the rewritten text.
	OutcomeEnriched Outcome = "enriched"
	// OutcomeDisabled means no enricher is configured.
	OutcomeDisabled Outcome = "disabled"
	// OutcomeEmpty means the input had no content to rewrite.
	OutcomeEmpty Outcome = "empty"
	// OutcomeFailed means the model call returned an error or an unusable answer.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimeout means the model did not answer in time.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeRejected means the circuit breaker is open.
	OutcomeRejected Outcome = "rejected"
	// OutcomeRateLimited means the local call budget is exhausted.
	OutcomeRateLimited Outcome = "rate_limited"
)

// Result is the value of an enrichment attempt. Text is set only when
// Outcome is OutcomeEnriched; Err carries the cause of a failed attempt.
type Result struct {
	Text    string
	Outcome Outcome
	Err     error
}

// Enriched reports whether the attempt produced a rewritten text.
func (r Result) Enriched() bool {
	return r.Outcome == OutcomeEnriched && r.Text != ""
}

// TextOr returns the rewritten text, or fallback when there is none.
func (r Result) TextOr(fallback string) string {
	if r.Enriched() {
		return r.Text
	}
	return fallback
}

// Enricher rewrites a user description.
type Enricher interface {
	Enrich(ctx context.Context, text string) Result
}

// Noop is the enricher used when enrichment is disabled.
type Noop struct{}

// Enrich always reports OutcomeDisabled.
func (Noop) Enrich(context.Context, string) Result {
	return Result{Outcome: OutcomeDisabled}
}
