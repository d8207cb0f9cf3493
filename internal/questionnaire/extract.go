// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package questionnaire

import (
	"slices"
	"strings"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/textutil"
)

// SemanticText joins the free-text answers and the chosen genres into the
// normalized text used for semantic matching.
//
//nolint:gocritic // hugeParam: answers are read-only here
func SemanticText(a Answers) string {
	parts := make([]string, 0, 4)
	if a.Mood != "" {
		parts = append(parts, a.Mood)
	}
	if a.Preferences != "" {
		parts = append(parts, a.Preferences)
	}
	if genres := PreferredGenres(a); len(genres) > 0 {
		parts = append(parts, strings.Join(genres, " "))
	}
	if a.Extra != "" {
		parts = append(parts, a.Extra)
	}
	return textutil.Normalize(strings.Join(parts, " "))
}

// AudioPreferences returns the valid Likert ratings keyed by audio attribute.
// Ratings outside 1-5 and unknown attributes are dropped.
//
//nolint:gocritic // hugeParam: answers are read-only here
func AudioPreferences(a Answers) map[string]int {
	prefs := make(map[string]int, len(a.Likert))
	for k, v := range a.Likert {
		k = strings.ToLower(strings.TrimSpace(k))
		if !slices.Contains(catalog.AudioAttributes, k) || v < MinLikert || v > MaxLikert {
			continue
		}
		prefs[k] = v
	}
	return prefs
}

// PreferredGenres returns the recognized genres in KnownGenres order.
//
//nolint:gocritic // hugeParam: answers are read-only here
func PreferredGenres(a Answers) []string {
	chosen := make(map[string]struct{}, len(a.Genres))
	for _, g := range a.Genres {
		if canonical, ok := CanonicalGenre(g); ok {
			chosen[canonical] = struct{}{}
		}
	}

	out := make([]string, 0, len(chosen))
	for _, g := range KnownGenres {
		if _, ok := chosen[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// OpennessLevel returns the openness clamped to 1-5, with 0 meaning the default.
//
//nolint:gocritic // hugeParam: answers are read-only here
func OpennessLevel(a Answers) int {
	switch {
	case a.Openness == 0:
		return DefaultOpenness
	case a.Openness < MinOpenness:
		return MinOpenness
	case a.Openness > MaxOpenness:
		return MaxOpenness
	default:
		return a.Openness
	}
}

// Moods returns the mood tags cued by the mood answer and the extra notes.
//
//nolint:gocritic // hugeParam: answers are read-only here
func Moods(a Answers) []string {
	return DetectMoods(a.Mood + " " + a.Extra)
}
