// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibeyf-ai/vibeyf/internal/pipeline"
	"github.com/vibeyf-ai/vibeyf/internal/questionnaire"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/validation"
)

func newInteractiveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Answer the questionnaire on the console",
		Long: `Ask the questionnaire, print the recommendations, and offer another round.
Answer o, oui, y or yes to continue. Closing the input (Ctrl-D) quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd.Context(), true, func(app *pipeline.App) error {
				return runInteractive(cmd, app)
			})
		},
	}
}

func runInteractive(cmd *cobra.Command, app *pipeline.App) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	collector := questionnaire.NewCollector(cmd.InOrStdin(), out)

	fmt.Fprintln(out, "🎧 Bienvenue sur Vibeyf !")
	for {
		answers, err := collector.Collect(ctx)
		if errors.Is(err, questionnaire.ErrInputClosed) {
			fmt.Fprintln(out, "\nÀ bientôt !")
			return nil
		}
		if err != nil {
			return err
		}

		doc, err := app.Recommender.Run(ctx, answers, "")
		switch {
		case err == nil:
			if err := writeDocument(out, doc, false); err != nil {
				return err
			}
		case isUserError(err):
			fmt.Fprintf(out, "\nImpossible de recommander : %v\n", err)
		default:
			return err
		}

		if !collector.Confirm("\nNouvelle recommandation ?") {
			fmt.Fprintln(out, "À bientôt !")
			return nil
		}
	}
}

// isUserError reports whether err comes from the answers rather than from
// the system, so the session can go on.
func isUserError(err error) bool {
	var verr *validation.RequestValidationError
	var qerr *recommend.InvalidQueryError
	return errors.As(err, &verr) || errors.As(err, &qerr)
}
