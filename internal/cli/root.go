// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package cli provides the command-line interface for vibeyf.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vibeyf-ai/vibeyf/internal/config"
	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/pipeline"
)

// env is the state shared by every subcommand of one invocation.
type env struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand returns the vibeyf command tree.
func NewRootCommand(version string) *cobra.Command {
	e := &env{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "vibeyf",
		Short: "Mood-aware music recommendation",
		Long: `Vibeyf recommends songs and collections from a short questionnaire about
your mood, your tastes and how adventurous you feel today.

Answers are embedded and compared to the catalog; the top matches are printed
and saved as JSON under the responses directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for version and help commands
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return e.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newRecommendCommand(e),
		newInteractiveCommand(e),
		newPrepareCommand(e),
		newCatalogCommand(e),
		newVersionCommand(version),
	)
	return root
}

func (e *env) load(cmd *cobra.Command) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	// The CLI writes results itself; nothing would consume the bus.
	cfg.Events.Enabled = false
	e.cfg = cfg

	level := "warn"
	if e.verbose {
		level = "debug"
	}
	e.logger = logging.New(logging.Config{
		Level:  level,
		Format: "console",
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// withApp builds the pipeline, runs fn and releases the app. With warm set,
// the catalog embeddings are restored or computed first.
func (e *env) withApp(ctx context.Context, warm bool, fn func(*pipeline.App) error) (err error) {
	app, err := pipeline.Build(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if warm {
		if err := app.Engine.EnsureReady(ctx); err != nil {
			return fmt.Errorf("prepare catalog embeddings: %w", err)
		}
	}
	return fn(app)
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibeyf %s\n", version)
		},
	}
}
