// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/pipeline"
)

func newPrepareCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Recompute the catalog embeddings",
		Long: `Embed every catalog element again and replace the cached matrix, even when
a cache matching the current catalog already exists. Run it after changing the
embedding model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd.Context(), false, func(app *pipeline.App) error {
				start := time.Now()
				if err := app.Engine.Rebuild(cmd.Context()); err != nil {
					return fmt.Errorf("rebuild embeddings: %w", err)
				}
				counts := app.Engine.Catalog().CountByType()
				fmt.Fprintf(cmd.OutOrStdout(), "Embeddings prêts : %d chansons, %d collections (%s, modèle %s) en %s\n",
					counts[catalog.TypeSong], counts[catalog.TypeCollection],
					app.Config.Embedding.Provider, app.Embedder.Model(),
					time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}
