// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package results

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// theme defines the colors of the console report.
type theme struct {
	Title   lipgloss.Color
	Accent  lipgloss.Color
	Boost   lipgloss.Color
	Muted   lipgloss.Color
	Divider lipgloss.Color
}

var defaultTheme = theme{
	Title:   lipgloss.Color("#2C7A7B"), // teal
	Accent:  lipgloss.Color("#5FAFD7"), // light blue
	Boost:   lipgloss.Color("#FFAF00"), // amber
	Muted:   lipgloss.Color("#6C6C6C"), // dim gray
	Divider: lipgloss.Color("#3A3A3A"), // dark gray
}

const (
	reportWidth      = 70
	descriptionLimit = 100
)

// Format renders doc as the console report.
func Format(w io.Writer, doc *Document) error {
	r := lipgloss.NewRenderer(w)
	t := defaultTheme
	title := r.NewStyle().Bold(true).Foreground(t.Title)
	heading := r.NewStyle().Bold(true).Foreground(t.Accent)
	boost := r.NewStyle().Bold(true).Foreground(t.Boost)
	muted := r.NewStyle().Foreground(t.Muted)
	rule := r.NewStyle().Foreground(t.Divider).Render(strings.Repeat("=", reportWidth))
	thin := r.NewStyle().Foreground(t.Divider).Render(strings.Repeat("-", reportWidth))

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString(title.Render("  RÉSULTATS DE LA RECOMMANDATION") + "\n")
	b.WriteString(rule + "\n")

	recs := &doc.Recommendations
	fmt.Fprintf(&b, "\n%s\n%s\n", heading.Render(fmt.Sprintf("🎵 TOP %d RECOMMANDATIONS:", len(recs.Top))), thin)
	for i := range recs.Top {
		e := &recs.Top[i]
		icon := "📁"
		if e.Type == LabelSong {
			icon = "🎵"
		}
		fmt.Fprintf(&b, "\n%d. %s [%s] %s\n", e.Rank, icon, strings.ToUpper(e.Type), e.Name)
		if e.Artist != nil {
			fmt.Fprintf(&b, "   Artiste: %s\n", *e.Artist)
		}
		if e.Genre != nil {
			fmt.Fprintf(&b, "   Genre: %s\n", *e.Genre)
		}
		fmt.Fprintf(&b, "   Score: %.3f\n", e.GlobalScore)
		if e.Type != LabelSong && e.Description != "" {
			b.WriteString("   " + muted.Render(truncate(e.Description, descriptionLimit)) + "\n")
		}
		fmt.Fprintf(&b, "   Détails: Sémantique=%.2f | Mood=%.2f | Préférences=%.2f",
			e.Details.SemanticSimilarity, e.Details.MoodMatch, e.Details.PreferenceMatch)
		if e.Details.GenreBoost > 0 {
			b.WriteString(" " + boost.Render("🌟 GENRE PRÉFÉRÉ"))
		}
		b.WriteString("\n")
	}

	stats := recs.Statistics
	fmt.Fprintf(&b, "\n%s\n%s\n", rule, heading.Render("📊 STATISTIQUES:"))
	fmt.Fprintf(&b, "  - Score moyen: %.3f\n", stats.MeanScore)
	fmt.Fprintf(&b, "  - Score maximum: %.3f\n", stats.MaxScore)
	fmt.Fprintf(&b, "  - Éléments évalués: %d\n", stats.Evaluated)

	if doc.Report != nil {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n%s\n", rule, heading.Render("🤖 SYNTHÈSE GENAI:"), thin, doc.Report.Synthese)
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n%s\n", rule, heading.Render("📈 PLAN DE PROGRESSION:"), thin, doc.Report.PlanProgression)
	}
	b.WriteString("\n" + rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// truncate cuts s to limit runes and marks the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
