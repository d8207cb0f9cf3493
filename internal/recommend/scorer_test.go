// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
)

func song(id, genre string, audio map[string]float64, moods ...string) catalog.MusicalElement {
	return catalog.MusicalElement{
		ID:           id,
		Type:         catalog.TypeSong,
		Name:         "Song " + id,
		Genre:        genre,
		Audio:        audio,
		Moods:        moods,
		SemanticText: "text " + id,
	}
}

func collection(id, genre string) catalog.MusicalElement {
	return catalog.MusicalElement{
		ID:           id,
		Type:         catalog.TypeCollection,
		Name:         "Collection " + id,
		Genre:        genre,
		SemanticText: "text " + id,
	}
}

func keyOf(e catalog.MusicalElement) catalog.Key { return e.Key() }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPreferenceMatch(t *testing.T) {
	s := NewScorer(nil)

	tests := []struct {
		name  string
		prefs map[string]int
		audio map[string]float64
		want  float64
	}{
		{name: "no shared attributes", prefs: map[string]int{"energy": 5}, audio: map[string]float64{"valence": 0.2}, want: 0.5},
		{name: "no preferences", prefs: nil, audio: map[string]float64{"energy": 1}, want: 0.5},
		{name: "no audio", prefs: map[string]int{"energy": 1}, audio: nil, want: 0.5},
		{name: "perfect match high", prefs: map[string]int{"energy": 5}, audio: map[string]float64{"energy": 1}, want: 1},
		{name: "perfect match low", prefs: map[string]int{"energy": 1}, audio: map[string]float64{"energy": 0}, want: 1},
		{name: "opposite", prefs: map[string]int{"energy": 5}, audio: map[string]float64{"energy": 0}, want: 0},
		{name: "middle rating", prefs: map[string]int{"energy": 3}, audio: map[string]float64{"energy": 0.9}, want: 0.6},
		{
			name:  "average over shared keys only",
			prefs: map[string]int{"energy": 5, "valence": 1, "tempo": 3},
			audio: map[string]float64{"energy": 0.8, "valence": 0.4},
			want:  (0.8 + 0.6) / 2,
		},
		{name: "rating clamped", prefs: map[string]int{"energy": 9}, audio: map[string]float64{"energy": 1}, want: 1},
		{name: "attribute clipped", prefs: map[string]int{"energy": 5}, audio: map[string]float64{"energy": 1.7}, want: 1},
		{name: "case-insensitive key", prefs: map[string]int{"Energy": 5}, audio: map[string]float64{"energy": 1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := s.profile(&Query{AudioPreferences: tt.prefs, Openness: 3})
			if got := preferenceMatch(tt.audio, &p); !approx(got, tt.want) {
				t.Errorf("preferenceMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreElements_CatalogAudioNamesAnyCase(t *testing.T) {
	cat, err := catalog.New([]catalog.MusicalElement{
		song("s1", "Pop", map[string]float64{"Energy": 1.0}),
		song("s2", "Pop", map[string]float64{" TEMPO ": 0.0}),
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	scored, err := NewScorer(nil).ScoreElements(context.Background(), cat.Elements(), nil, Query{
		AudioPreferences: map[string]int{"energy": 1, "tempo": 1},
		Openness:         3,
	})
	if err != nil {
		t.Fatalf("ScoreElements() error = %v", err)
	}

	want := map[string]float64{"s1": 0, "s2": 1}
	for _, se := range scored {
		if got := se.Scores.PreferenceMatch; !approx(got, want[se.Element.ID]) {
			t.Errorf("%s preference_match = %v, want %v", se.Element.ID, got, want[se.Element.ID])
		}
	}
}

func TestMoodMatch(t *testing.T) {
	tests := []struct {
		name    string
		element []string
		query   []string
		want    float64
	}{
		{name: "query empty", element: []string{"happy"}, want: 0.5},
		{name: "element empty", query: []string{"happy"}, want: 0.5},
		{name: "identical", element: []string{"happy", "energetic"}, query: []string{"Energetic", "happy"}, want: 1},
		{name: "disjoint", element: []string{"sad"}, query: []string{"happy"}, want: 0},
		{name: "partial", element: []string{"happy", "calm"}, query: []string{"happy", "energetic"}, want: 1.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moodMatch(tt.element, lowerSet(tt.query)); !approx(got, tt.want) {
				t.Errorf("moodMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreElements_GenreBoostOnlyForSongs(t *testing.T) {
	s := NewScorer(nil)
	elements := []catalog.MusicalElement{
		song("s1", "Pop", nil),
		collection("c1", "Pop"),
		song("s2", "Jazz", nil),
		song("s3", "", nil),
	}

	scored, err := s.ScoreElements(context.Background(), elements, nil, Query{
		RawText:         "anything",
		PreferredGenres: []string{"pop", ""},
		Openness:        3,
	})
	if err != nil {
		t.Fatalf("ScoreElements() error = %v", err)
	}

	want := []float64{0.1, 0, 0, 0}
	for i, se := range scored {
		if se.Scores.GenreBoost != want[i] {
			t.Errorf("%s boost = %v, want %v", se.Element.ID, se.Scores.GenreBoost, want[i])
		}
	}
}

func TestScoreElements_GlobalFormula(t *testing.T) {
	cfg := DefaultConfig()
	s := NewScorer(cfg)
	e := song("s1", "Rock", map[string]float64{"energy": 0.75})
	sims := map[catalog.Key]float64{keyOf(e): 0.5}

	tests := []struct {
		name     string
		openness int
		genres   []string
		mood     float64
		want     float64
	}{
		// pref = 1 - |1 - 0.75| = 0.75
		{name: "low openness", openness: 1, want: 0.4*0.5 + 0.6*0.75},
		{name: "high openness", openness: 5, want: 0.8*0.5 + 0.2*0.75},
		{name: "boost added", openness: 5, genres: []string{"rock"}, want: 0.8*0.5 + 0.2*0.75 + 0.1},
		// mood match is neutral (0.5) because the query has no moods
		{name: "mood weighted", openness: 5, mood: 0.5, want: 0.5*(0.8*0.5+0.2*0.75) + 0.5*0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.Weights.Mood = tt.mood
			scored, err := s.ScoreElements(context.Background(), []catalog.MusicalElement{e}, sims, Query{
				AudioPreferences: map[string]int{"energy": 5},
				PreferredGenres:  tt.genres,
				Openness:         tt.openness,
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := scored[0].Scores.Global; !approx(got, tt.want) {
				t.Errorf("Global = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreElements_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenreBoost = 0.5
	s := NewScorer(cfg)

	var elements []catalog.MusicalElement
	sims := make(map[catalog.Key]float64)
	for i := 0; i < 50; i++ {
		e := song(fmt.Sprintf("s%02d", i), "Pop", map[string]float64{
			"energy":  float64(i%11) / 10,
			"valence": float64((i*7)%11) / 10,
		}, "happy")
		elements = append(elements, e)
		sims[keyOf(e)] = float64(i%13)/6 - 1 // spans [-1, 1]
	}
	sims[keyOf(elements[0])] = math.NaN()

	for openness := 0; openness <= 6; openness++ {
		scored, err := s.ScoreElements(context.Background(), elements, sims, Query{
			PreferredGenres:  []string{"Pop"},
			AudioPreferences: map[string]int{"energy": 5, "valence": 1},
			Moods:            []string{"happy", "calm"},
			Openness:         openness,
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, se := range scored {
			b := se.Scores
			for name, v := range map[string]float64{
				"semantic": b.SemanticSimilarity, "preference": b.PreferenceMatch,
				"mood": b.MoodMatch, "boost": b.GenreBoost, "global": b.Global,
			} {
				if math.IsNaN(v) || v < 0 || v > 1 {
					t.Errorf("%s %s = %v outside [0, 1]", se.Element.ID, name, v)
				}
			}
		}
	}
}

func TestScoreElements_DeterministicAndOrdered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.Workers = 4
	s := NewScorer(cfg)

	var elements []catalog.MusicalElement
	sims := make(map[catalog.Key]float64)
	for i := 0; i < 37; i++ {
		e := song(fmt.Sprintf("s%02d", i), "Indie", map[string]float64{
			"energy": 0.1 * float64(i%10), "danceability": 0.05 * float64(i%20), "acousticness": 0.3,
		})
		elements = append(elements, e)
		sims[keyOf(e)] = 0.01 * float64(i)
	}
	q := Query{AudioPreferences: map[string]int{"energy": 4, "danceability": 2, "acousticness": 5}, Openness: 2}

	first, err := s.ScoreElements(context.Background(), elements, sims, q)
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 5; run++ {
		again, _ := s.ScoreElements(context.Background(), elements, sims, q)
		for i := range first {
			if first[i].Scores != again[i].Scores {
				t.Fatalf("run %d: element %d scores differ: %+v vs %+v", run, i, first[i].Scores, again[i].Scores)
			}
		}
	}
	for i := range first {
		if first[i].Element.ID != elements[i].ID {
			t.Fatalf("output order differs at %d", i)
		}
	}
}

func TestScoreElements_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScorer(nil).ScoreElements(ctx, []catalog.MusicalElement{song("s1", "Pop", nil)}, nil, Query{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestScoreElements_Empty(t *testing.T) {
	scored, err := NewScorer(nil).ScoreElements(context.Background(), nil, nil, Query{})
	if err != nil || scored == nil || len(scored) != 0 {
		t.Errorf("ScoreElements(nil) = %v, %v", scored, err)
	}
}
