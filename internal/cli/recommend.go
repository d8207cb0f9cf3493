// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/pipeline"
	"github.com/vibeyf-ai/vibeyf/internal/questionnaire"
	"github.com/vibeyf-ai/vibeyf/internal/results"
)

type recommendOptions struct {
	answers questionnaire.Answers
	likert  map[string]*int
	userID  string
	jsonOut bool
}

func newRecommendCommand(e *env) *cobra.Command {
	opts := &recommendOptions{likert: make(map[string]*int, len(catalog.AudioAttributes))}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend music from answers given as flags",
		Long: `Run one recommendation from flags instead of the interactive questionnaire.

At least one of --mood and --preferences is required. Audio ratings go from
1 (not at all) to 5 (very much); leave a rating out to skip it.

Examples:
  vibeyf recommend --mood "chill, concentré" --genres jazz,lofi
  vibeyf recommend --preferences "Daft Punk, French touch" --energy 5 --openness 4
  vibeyf recommend --mood motivé --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers := opts.collect()
			return e.withApp(cmd.Context(), true, func(app *pipeline.App) error {
				doc, err := app.Recommender.Run(cmd.Context(), answers, opts.userID)
				if err != nil {
					return err
				}
				return writeDocument(cmd.OutOrStdout(), doc, opts.jsonOut)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.answers.Mood, "mood", "m", "", "current or desired mood")
	f.StringVarP(&opts.answers.Preferences, "preferences", "p", "", "liked artists, songs, atmospheres or sounds")
	f.StringSliceVarP(&opts.answers.Genres, "genres", "g", nil, "preferred genres (comma-separated)")
	f.StringVar(&opts.answers.Extra, "extra", "", "listening moments, instruments, preferred BPM")
	for _, attr := range catalog.AudioAttributes {
		v := new(int)
		opts.likert[attr] = v
		f.IntVar(v, attr, 0, fmt.Sprintf("%s rating, %d to %d", attr, questionnaire.MinLikert, questionnaire.MaxLikert))
	}
	f.IntVarP(&opts.answers.Openness, "openness", "o", questionnaire.DefaultOpenness,
		fmt.Sprintf("discovery level, %d (known tastes) to %d (surprise me)", questionnaire.MinOpenness, questionnaire.MaxOpenness))
	f.StringVarP(&opts.userID, "user-id", "u", "", "result identifier (default: current time)")
	f.BoolVar(&opts.jsonOut, "json", false, "print the result document as JSON")
	return cmd
}

// collect returns the answers with unset ratings left out.
func (o *recommendOptions) collect() questionnaire.Answers {
	a := o.answers
	a.Likert = make(map[string]int, len(o.likert))
	for attr, v := range o.likert {
		if *v != 0 {
			a.Likert[attr] = *v
		}
	}
	return a
}

func writeDocument(w io.Writer, doc *results.Document, asJSON bool) error {
	if !asJSON {
		return results.Format(w, doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
