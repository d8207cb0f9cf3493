// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
)

func newCatalogCommand(e *env) *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog elements",
		Long: `List the songs and collections of the configured catalog.

Examples:
  vibeyf catalog
  vibeyf catalog --type song`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := catalog.Types
			if typeFilter != "" {
				t, err := catalog.ParseElementType(typeFilter)
				if err != nil {
					return err
				}
				types = []catalog.ElementType{t}
			}

			cat, err := catalog.LoadFile(e.cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			printCatalog(cmd.OutOrStdout(), cat, types, e.verbose)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "filter by element type (song, collection)")
	return cmd
}

func printCatalog(out io.Writer, cat *catalog.Catalog, types []catalog.ElementType, verbose bool) {
	r := lipgloss.NewRenderer(out)
	heading := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2C7A7B"))
	muted := r.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))

	for _, t := range types {
		elements := cat.ByType(t)
		fmt.Fprintf(out, "%s\n\n", heading.Render(fmt.Sprintf("%s (%d)", t, len(elements))))
		if len(elements) == 0 {
			fmt.Fprintln(out, muted.Render("  (none)"))
		}
		for i := range elements {
			el := &elements[i]
			var details []string
			for _, s := range []string{el.Artist, el.Genre} {
				if s != "" {
					details = append(details, s)
				}
			}
			line := fmt.Sprintf("- %s  %s", el.ID, el.Name)
			if len(details) > 0 {
				line += "  " + muted.Render(strings.Join(details, " · "))
			}
			fmt.Fprintln(out, line)
			if verbose && len(el.Moods) > 0 {
				fmt.Fprintf(out, "  %s\n", muted.Render("moods: "+strings.Join(el.Moods, ", ")))
			}
		}
		fmt.Fprintln(out)
	}
}

