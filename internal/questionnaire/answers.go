// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package questionnaire

import (
	"strings"

	"github.com/vibeyf-ai/vibeyf/internal/validation"
)

// Openness bounds. Level 1 favors the user's stated tastes, level 5 favors
// semantic discovery.
const (
	MinOpenness     = 1
	MaxOpenness     = 5
	DefaultOpenness = 3
)

// Likert bounds for audio attribute ratings.
const (
	MinLikert = 1
	MaxLikert = 5
)

// Answers holds one filled-in questionnaire.
type Answers struct {
	// Mood is the current or desired mood in the user's own words.
	Mood string `json:"mood" validate:"required_without=Preferences,max=500"`

	// Preferences lists liked artists, songs, atmospheres or sounds.
	Preferences string `json:"preferences" validate:"max=2000"`

	// Genres holds canonical names from KnownGenres.
	Genres []string `json:"genres,omitempty" validate:"max=14,dive,oneof=Pop Rap RnB Rock Metal Jazz Classique Techno Electro K-pop Reggaeton Afrobeat LoFi Indie"`

	// Extra covers listening moments, liked instruments, preferred BPM.
	Extra string `json:"extra,omitempty" validate:"max=2000"`

	// Likert rates audio attributes from 1 (not at all) to 5 (very much).
	Likert map[string]int `json:"likert,omitempty" validate:"dive,keys,oneof=energy valence danceability acousticness instrumentalness tempo,endkeys,min=1,max=5"`

	// Openness is the explore/exploit level, 1 to 5.
	Openness int `json:"openness" validate:"min=1,max=5"`
}

// Normalize trims free text, canonicalizes genre names and rating keys, and
// defaults an unset openness. Unknown genres are kept so Validate reports them.
func (a *Answers) Normalize() {
	a.Mood = strings.TrimSpace(a.Mood)
	a.Preferences = strings.TrimSpace(a.Preferences)
	a.Extra = strings.TrimSpace(a.Extra)

	if len(a.Genres) > 0 {
		seen := make(map[string]struct{}, len(a.Genres))
		genres := make([]string, 0, len(a.Genres))
		for _, g := range a.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			if canonical, ok := CanonicalGenre(g); ok {
				g = canonical
			}
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
		a.Genres = genres
	}

	if len(a.Likert) > 0 {
		likert := make(map[string]int, len(a.Likert))
		for k, v := range a.Likert {
			likert[strings.ToLower(strings.TrimSpace(k))] = v
		}
		a.Likert = likert
	}

	if a.Openness == 0 {
		a.Openness = DefaultOpenness
	}
}

// Validate checks the answers. Call Normalize first.
func (a *Answers) Validate() error {
	if err := validation.ValidateStruct(a); err != nil {
		return err
	}
	return nil
}
