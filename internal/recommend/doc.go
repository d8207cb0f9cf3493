// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package recommend implements the hybrid ranking engine for musical elements.
//
// # Architecture
//
// A query's text is embedded and compared with every catalog element by a
// SimilarityIndex (see the similarity subpackage). The Scorer then fuses that
// similarity with the user's structured preferences:
//
//   - Semantic similarity: cosine similarity clipped to [0, 1]
//   - Preference match: agreement between Likert ratings and audio attributes
//   - Mood match: Jaccard overlap of mood tags, weighted by Weights.Mood
//   - Genre boost: fixed bonus for songs in a preferred genre
//
// The global score is
//
//	clip((1-m)·(w1·semantic + (1-w1)·preference) + m·mood + boost)
//
// where w1 comes from the OpennessCurve: higher openness favors semantic
// matches, lower openness favors known audio preferences.
//
// # Ranking
//
// GenerateRecommendations orders by global score, then semantic similarity
// (both descending), then ID and type ascending. There is no random
// tie-break, so identical inputs always produce identical output.
//
// # Usage
//
//	index := similarity.NewEngine(embedder, store, similarity.DefaultConfig(), logger)
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), cat, index, logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.EnsureReady(ctx); err != nil {
//	    return err
//	}
//
//	set, err := engine.Recommend(ctx, recommend.Query{
//	    RawText:          "energetic pop for the gym",
//	    PreferredGenres:  []string{"Pop"},
//	    AudioPreferences: map[string]int{"energy": 5},
//	    Openness:         3,
//	})
//
// # Thread Safety
//
// Engine and Scorer are safe for concurrent use. ReplaceCatalog prepares the
// new catalog before swapping it in, so in-flight queries finish against the
// snapshot they started with.
package recommend
