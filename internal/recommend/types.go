// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package recommend

import (
	"context"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
)

// Query is one user interaction, built by the caller from questionnaire answers.
type Query struct {
	// RawText is the user's own description.
	RawText string `json:"raw_text"`

	// EnrichedText is the rewritten description. Empty means RawText is used.
	EnrichedText string `json:"enriched_text,omitempty"`

	// PreferredGenres is matched case-insensitively against song genres.
	PreferredGenres []string `json:"preferred_genres,omitempty"`

	// AudioPreferences holds Likert ratings (1-5) keyed by audio attribute.
	AudioPreferences map[string]int `json:"audio_preferences,omitempty"`

	// Openness is the explore/exploit level.
	Openness int `json:"openness"`

	// Moods are mood tags detected in the user's text.
	Moods []string `json:"moods,omitempty"`

	// TopN is the number of overall results. Zero uses the configured default.
	TopN int `json:"top_n,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Text returns the text to embed.
//
//nolint:gocritic // hugeParam: value receiver keeps Query immutable
func (q Query) Text() string {
	if q.EnrichedText != "" {
		return q.EnrichedText
	}
	return q.RawText
}

// ScoreBreakdown explains one element's global score. Every field lies in [0, 1].
type ScoreBreakdown struct {
	SemanticSimilarity float64 `json:"semantic_similarity"`
	PreferenceMatch    float64 `json:"preference_match"`
	MoodMatch          float64 `json:"mood_match"`
	GenreBoost         float64 `json:"genre_boost"`
	Global             float64 `json:"global"`
}

// ScoredElement pairs a catalog element with its scores.
type ScoredElement struct {
	Element catalog.MusicalElement `json:"element"`
	Scores  ScoreBreakdown         `json:"scores"`
}

// RankedElement is a ScoredElement with its 1-based overall rank.
type RankedElement struct {
	ScoredElement
	Rank int `json:"rank"`
}

// Statistics summarizes the global score over every scored element.
type Statistics struct {
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// RecommendationSet is the ranked result of one query.
type RecommendationSet struct {
	TopOverall []RankedElement                         `json:"top_overall"`
	TopByType  map[catalog.ElementType][]ScoredElement `json:"top_by_type"`
	Statistics Statistics                              `json:"statistics"`
}

// SimilarityIndex embeds the catalog and scores queries against it.
// The similarity package provides the implementation.
type SimilarityIndex interface {
	// Prepare embeds every text and persists the result.
	Prepare(ctx context.Context, texts map[catalog.Key]string) error

	// LoadCache restores a persisted matrix matching texts.
	LoadCache(ctx context.Context, texts map[catalog.Key]string) bool

	// Score returns a similarity in [0, 1] per prepared element.
	Score(ctx context.Context, query string) (map[catalog.Key]float64, error)
}
