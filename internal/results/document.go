// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package results builds, stores and renders recommendation result
// documents.
//
// The document layout, including its French keys, is the interchange format
// read by existing consumers and must stay stable. Documents are written as
// resultat_<user_id>.json by FileStore and kept as server-side history by
// BadgerStore.
package results

import (
	"time"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/enrich"
	"github.com/vibeyf-ai/vibeyf/internal/questionnaire"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
)

// Element type labels used in documents.
const (
	LabelSong       = "chanson"
	LabelCollection = "collection"
)

// TypeLabel returns the document label of an element type.
func TypeLabel(t catalog.ElementType) string {
	if t == catalog.TypeSong {
		return LabelSong
	}
	return string(t)
}

// Document is the full result of one recommendation run.
type Document struct {
	UserID           string          `json:"user_id"`
	Timestamp        time.Time       `json:"timestamp"`
	OriginalText     string          `json:"texte_utilisateur_original"`
	EnrichedText     *string         `json:"texte_enrichi"`
	AudioPreferences map[string]int  `json:"preferences_audio"`
	Recommendations  Recommendations `json:"recommandations"`
	Report           *enrich.Report  `json:"rapport_genai"`
}

// Recommendations is the ranked part of a document.
type Recommendations struct {
	Top        []TopEntry             `json:"top_3"`
	ByType     map[string][]TypeEntry `json:"top_par_type"`
	Statistics Statistics             `json:"statistiques"`
}

// TopEntry is one overall recommendation. Artist and Genre are only set for
// songs and encode as null for collections.
type TopEntry struct {
	Rank        int            `json:"rang"`
	Type        string         `json:"type"`
	ID          string         `json:"id"`
	Name        string         `json:"nom"`
	Artist      *string        `json:"artiste"`
	Genre       *string        `json:"genre"`
	Description string         `json:"description"`
	GlobalScore float64        `json:"score_global"`
	Details     ScoreDetails   `json:"details_scores"`
	Data        map[string]any `json:"data"`
}

// ScoreDetails is the score breakdown of a TopEntry.
type ScoreDetails struct {
	SemanticSimilarity float64 `json:"similarite_semantique"`
	PreferenceMatch    float64 `json:"preference_likert"`
	MoodMatch          float64 `json:"mood_match"`
	GenreBoost         float64 `json:"genre_boost"`
	Global             float64 `json:"global"`
}

// TypeEntry is one recommendation in a per-type list.
type TypeEntry struct {
	Type  string  `json:"type"`
	ID    string  `json:"id"`
	Name  string  `json:"nom"`
	Score float64 `json:"score"`
}

// Statistics summarizes the global scores of every evaluated element.
type Statistics struct {
	MeanScore float64 `json:"score_moyen"`
	MaxScore  float64 `json:"score_max"`
	Evaluated int     `json:"nombre_elements_evalues"`
}

// AnswersRecord is the stored copy of a questionnaire.
type AnswersRecord struct {
	UserID    string                `json:"user_id"`
	Timestamp time.Time             `json:"timestamp"`
	Answers   questionnaire.Answers `json:"reponses"`
}

// BuildInput collects everything a document is built from.
type BuildInput struct {
	UserID           string
	Timestamp        time.Time
	OriginalText     string
	EnrichedText     string
	AudioPreferences map[string]int
	Set              *recommend.RecommendationSet
	Report           *enrich.Report
}

// Build assembles a document. The enriched text is omitted when it is empty
// or identical to the original text.
func Build(in *BuildInput) *Document {
	doc := &Document{
		UserID:           in.UserID,
		Timestamp:        in.Timestamp,
		OriginalText:     in.OriginalText,
		AudioPreferences: make(map[string]int, len(in.AudioPreferences)),
		Report:           in.Report,
		Recommendations: Recommendations{
			Top:    []TopEntry{},
			ByType: make(map[string][]TypeEntry, len(catalog.Types)),
		},
	}
	if in.EnrichedText != "" && in.EnrichedText != in.OriginalText {
		enriched := in.EnrichedText
		doc.EnrichedText = &enriched
	}
	for k, v := range in.AudioPreferences {
		doc.AudioPreferences[k] = v
	}
	for _, t := range catalog.Types {
		doc.Recommendations.ByType[TypeLabel(t)] = []TypeEntry{}
	}
	if in.Set == nil {
		return doc
	}

	for i := range in.Set.TopOverall {
		doc.Recommendations.Top = append(doc.Recommendations.Top, topEntry(&in.Set.TopOverall[i]))
	}
	for t, elems := range in.Set.TopByType {
		entries := make([]TypeEntry, 0, len(elems))
		for i := range elems {
			el := &elems[i].Element
			entries = append(entries, TypeEntry{
				Type:  TypeLabel(el.Type),
				ID:    el.ID,
				Name:  displayName(el),
				Score: elems[i].Scores.Global,
			})
		}
		doc.Recommendations.ByType[TypeLabel(t)] = entries
	}
	doc.Recommendations.Statistics = Statistics{
		MeanScore: in.Set.Statistics.Mean,
		MaxScore:  in.Set.Statistics.Max,
		Evaluated: in.Set.Statistics.Count,
	}
	return doc
}

func topEntry(r *recommend.RankedElement) TopEntry {
	el := &r.Element
	entry := TopEntry{
		Rank:        r.Rank,
		Type:        TypeLabel(el.Type),
		ID:          el.ID,
		Name:        displayName(el),
		Description: el.Description,
		GlobalScore: r.Scores.Global,
		Details: ScoreDetails{
			SemanticSimilarity: r.Scores.SemanticSimilarity,
			PreferenceMatch:    r.Scores.PreferenceMatch,
			MoodMatch:          r.Scores.MoodMatch,
			GenreBoost:         r.Scores.GenreBoost,
			Global:             r.Scores.Global,
		},
		Data: el.Attributes(),
	}
	if el.Type == catalog.TypeSong {
		artist, genre := el.Artist, el.Genre
		entry.Artist, entry.Genre = &artist, &genre
	}
	return entry
}

func displayName(el *catalog.MusicalElement) string {
	if el.Name != "" {
		return el.Name
	}
	return el.ID
}
