// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
)

const (
	synthesisPrompt = `You are a music curator writing to a listener.
In one short paragraph, explain why the recommendations below fit what the listener
described. Mention the mood and the musical qualities they share.
Answer in the language of the listener's description.`

	progressionPrompt = `You are a music curator writing to a listener.
Suggest a listening progression in three to five short steps, starting from the
recommendations below and gradually widening the listener's horizon.
Answer in the language of the listener's description, one step per line.`
)

// Report is the GenAI commentary attached to a result document.
type Report struct {
	Synthese        string `json:"synthese"`
	PlanProgression string `json:"plan_progression"`
}

// ReportInput is what the reporter comments on.
type ReportInput struct {
	OriginalText string
	EnrichedText string
	Top          []recommend.RankedElement
}

// Reporter writes GenAI reports.
type Reporter struct {
	client *Client
	logger zerolog.Logger
}

// NewReporter creates a reporter calling the model behind client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReporter(client *Client, logger zerolog.Logger) *Reporter {
	return &Reporter{
		client: client,
		logger: logger.With().Str("component", "report").Logger(),
	}
}

// Report generates the synthesis and the progression plan concurrently. It
// fails if either part fails; callers treat the report as optional.
func (r *Reporter) Report(ctx context.Context, in *ReportInput) (*Report, error) {
	if len(in.Top) == 0 {
		return nil, errors.New("no recommendations to report on")
	}
	prompt := reportPrompt(in)
	start := time.Now()

	var report Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := r.client.generate(gctx, synthesisPrompt, prompt)
		if err != nil {
			return fmt.Errorf("synthesis: %w", err)
		}
		report.Synthese = out
		return nil
	})
	g.Go(func() error {
		out, err := r.client.generate(gctx, progressionPrompt, prompt)
		if err != nil {
			return fmt.Errorf("progression plan: %w", err)
		}
		report.PlanProgression = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debug().Dur("duration", time.Since(start)).Msg("report generated")
	return &report, nil
}

func reportPrompt(in *ReportInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Listener description: %s\n", in.OriginalText)
	if in.EnrichedText != "" && in.EnrichedText != in.OriginalText {
		fmt.Fprintf(&b, "Interpreted as: %s\n", in.EnrichedText)
	}
	b.WriteString("Recommendations:\n")
	for _, r := range in.Top {
		el := &r.Element
		fmt.Fprintf(&b, "%d. %s", r.Rank, el.Name)
		if el.Type == catalog.TypeSong {
			if el.Artist != "" {
				fmt.Fprintf(&b, " by %s", el.Artist)
			}
			if el.Genre != "" {
				fmt.Fprintf(&b, " (%s)", el.Genre)
			}
		} else {
			b.WriteString(" (collection)")
		}
		if el.Description != "" {
			fmt.Fprintf(&b, ": %s", el.Description)
		}
		fmt.Fprintf(&b, " [score %.2f]\n", r.Scores.Global)
	}
	return b.String()
}
