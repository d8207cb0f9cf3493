// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package recommend

import (
	"context"
	"math"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
)

const (
	likertMin = 1
	likertMax = 5

	// neutralScore is used when a signal has no data on one side.
	neutralScore = 0.5

	// ctxCheckInterval is how many elements a worker scores between
	// cancellation checks.
	ctxCheckInterval = 64
)

// Scorer fuses similarity and preference signals into a ScoreBreakdown.
// It holds no per-query state and is safe for concurrent use.
type Scorer struct {
	cfg *Config
}

// NewScorer creates a scorer. A nil config uses DefaultConfig.
func NewScorer(cfg *Config) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// queryProfile is the query reduced to the lookups the scorer needs.
type queryProfile struct {
	genres   map[string]struct{}
	moods    map[string]struct{}
	prefKeys []string
	prefs    map[string]float64
	w1       float64
}

func (s *Scorer) profile(q *Query) queryProfile {
	p := queryProfile{
		genres: lowerSet(q.PreferredGenres),
		moods:  lowerSet(q.Moods),
		prefs:  make(map[string]float64, len(q.AudioPreferences)),
		w1:     s.cfg.Openness.SemanticWeight(q.Openness),
	}
	for attr, rating := range q.AudioPreferences {
		key := strings.ToLower(strings.TrimSpace(attr))
		rating = min(max(rating, likertMin), likertMax)
		p.prefs[key] = float64(rating-likertMin) / float64(likertMax-likertMin)
	}
	// Fixed summation order keeps scores bit-identical across runs.
	p.prefKeys = make([]string, 0, len(p.prefs))
	for k := range p.prefs {
		p.prefKeys = append(p.prefKeys, k)
	}
	slices.Sort(p.prefKeys)
	return p
}

// ScoreElements scores every element against the query. Work is split into
// disjoint index ranges across a fixed number of workers; inputs are shared
// read-only. The output order matches elements.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (s *Scorer) ScoreElements(
	ctx context.Context,
	elements []catalog.MusicalElement,
	similarities map[catalog.Key]float64,
	q Query,
) ([]ScoredElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]ScoredElement, len(elements))
	if len(elements) == 0 {
		return out, nil
	}

	p := s.profile(&q)
	workers := min(s.cfg.workers(), len(elements))
	chunk := (len(elements) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(elements); start += chunk {
		end := min(start+chunk, len(elements))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				e := &elements[i]
				out[i] = ScoredElement{
					Element: *e,
					Scores:  s.score(e, similarities[e.Key()], &p),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Scorer) score(e *catalog.MusicalElement, similarity float64, p *queryProfile) ScoreBreakdown {
	b := ScoreBreakdown{
		SemanticSimilarity: clamp01(similarity),
		PreferenceMatch:    preferenceMatch(e.Audio, p),
		MoodMatch:          moodMatch(e.Moods, p.moods),
	}

	if e.Type == catalog.TypeSong {
		if _, ok := p.genres[strings.ToLower(strings.TrimSpace(e.Genre))]; ok && e.Genre != "" {
			b.GenreBoost = s.cfg.GenreBoost
		}
	}

	m := s.cfg.Weights.Mood
	blend := p.w1*b.SemanticSimilarity + (1-p.w1)*b.PreferenceMatch
	b.Global = clamp01((1-m)*blend + m*b.MoodMatch + b.GenreBoost)
	return b
}

// preferenceMatch averages 1 - |rating - attribute| over the attributes
// present on both sides, with ratings mapped from 1..5 onto [0, 1].
func preferenceMatch(audio map[string]float64, p *queryProfile) float64 {
	var sum float64
	n := 0
	for _, key := range p.prefKeys {
		a, ok := audio[key]
		if !ok {
			continue
		}
		sum += 1 - math.Abs(p.prefs[key]-clamp01(a))
		n++
	}
	if n == 0 {
		return neutralScore
	}
	return clamp01(sum / float64(n))
}

// moodMatch is the Jaccard overlap of the two mood sets.
func moodMatch(elementMoods []string, queryMoods map[string]struct{}) float64 {
	if len(queryMoods) == 0 || len(elementMoods) == 0 {
		return neutralScore
	}
	em := lowerSet(elementMoods)
	if len(em) == 0 {
		return neutralScore
	}
	inter := 0
	for m := range em {
		if _, ok := queryMoods[m]; ok {
			inter++
		}
	}
	union := len(em) + len(queryMoods) - inter
	return float64(inter) / float64(union)
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
