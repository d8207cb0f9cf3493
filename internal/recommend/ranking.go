// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package recommend

import (
	"cmp"
	"slices"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
)

// compareScored orders by global score, then semantic similarity (both
// descending), then ID and type ascending. No two catalog elements compare
// equal, so the order is total.
func compareScored(a, b *ScoredElement) int {
	if c := cmp.Compare(b.Scores.Global, a.Scores.Global); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Scores.SemanticSimilarity, a.Scores.SemanticSimilarity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Element.ID, b.Element.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Element.Type, b.Element.Type)
}

// GenerateRecommendations ranks scored elements overall and per type,
// truncating each ranking to topN. Statistics cover every scored element.
// An empty input yields empty rankings and a zero count.
func GenerateRecommendations(scored []ScoredElement, topN int) RecommendationSet {
	topN = max(topN, 0)

	set := RecommendationSet{
		TopOverall: make([]RankedElement, 0, min(topN, len(scored))),
		TopByType:  make(map[catalog.ElementType][]ScoredElement, len(catalog.Types)),
	}
	for _, t := range catalog.Types {
		set.TopByType[t] = []ScoredElement{}
	}
	if len(scored) == 0 {
		return set
	}

	var sum float64
	set.Statistics.Max = scored[0].Scores.Global
	for i := range scored {
		g := scored[i].Scores.Global
		sum += g
		set.Statistics.Max = max(set.Statistics.Max, g)
	}
	set.Statistics.Count = len(scored)
	set.Statistics.Mean = sum / float64(len(scored))

	ordered := slices.Clone(scored)
	slices.SortFunc(ordered, func(a, b ScoredElement) int {
		return compareScored(&a, &b)
	})

	for i := range ordered {
		if i < topN {
			set.TopOverall = append(set.TopOverall, RankedElement{ScoredElement: ordered[i], Rank: i + 1})
		}
		t := ordered[i].Element.Type
		if len(set.TopByType[t]) < topN {
			set.TopByType[t] = append(set.TopByType[t], ordered[i])
		}
	}
	return set
}
