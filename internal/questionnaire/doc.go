// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package questionnaire models the user questionnaire and turns answers into
// the inputs of a recommendation query.
//
// Answers come from the console Collector, the CLI flags or the HTTP API.
// Callers run Normalize then Validate, and derive the query with the
// extractors: SemanticText for the text to embed, AudioPreferences for the
// Likert ratings, PreferredGenres, OpennessLevel and Moods.
//
// Mood detection is a keyword lexicon covering English and French cues and
// mapping them to the mood tags used by the catalog.
package questionnaire
