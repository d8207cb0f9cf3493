// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package questionnaire

import "strings"

// KnownGenres lists the genres the questionnaire offers, in display order.
var KnownGenres = []string{
	"Pop", "Rap", "RnB", "Rock", "Metal", "Jazz", "Classique", "Techno",
	"Electro", "K-pop", "Reggaeton", "Afrobeat", "LoFi", "Indie",
}

// genreAliases maps lowercase spellings to a canonical genre.
var genreAliases = map[string]string{
	"hip-hop":     "Rap",
	"hiphop":      "Rap",
	"hip hop":     "Rap",
	"r&b":         "RnB",
	"rnb":         "RnB",
	"r'n'b":       "RnB",
	"soul":        "RnB",
	"classical":   "Classique",
	"classic":     "Classique",
	"lo-fi":       "LoFi",
	"lo fi":       "LoFi",
	"kpop":        "K-pop",
	"k pop":       "K-pop",
	"afro":        "Afrobeat",
	"afrobeats":   "Afrobeat",
	"edm":         "Electro",
	"electronic":  "Electro",
	"house":       "Techno",
	"reggaetón":   "Reggaeton",
	"heavy metal": "Metal",
	"indie rock":  "Indie",
}

var canonicalGenres = func() map[string]string {
	m := make(map[string]string, len(KnownGenres)+len(genreAliases))
	for _, g := range KnownGenres {
		m[strings.ToLower(g)] = g
	}
	for alias, g := range genreAliases {
		m[alias] = g
	}
	return m
}()

// CanonicalGenre returns the known genre for name, matching case-insensitively
// and through common aliases.
func CanonicalGenre(name string) (string, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	g, ok := canonicalGenres[key]
	return g, ok
}
