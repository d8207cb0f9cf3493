// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package questionnaire

import (
	"slices"
	"strings"

	"github.com/vibeyf-ai/vibeyf/internal/textutil"
)

// moodLexicon maps a canonical mood tag to English and French cue words.
// Cues match whole tokens or token prefixes of at least five letters, so
// "motivée" and "motivation" both hit "motiv".
var moodLexicon = map[string][]string{
	"happy":       {"happy", "joy", "joyful", "cheerful", "glad", "heureux", "heureuse", "joyeux", "joyeuse", "content", "gai", "bonheur"},
	"sad":         {"sad", "down", "cry", "crying", "blue", "triste", "tristesse", "pleurer", "cafard", "déprime"},
	"energetic":   {"energetic", "energy", "pumped", "hype", "workout", "gym", "sport", "running", "énergique", "énergie", "motiv", "dynamique", "entraînement"},
	"calm":        {"calm", "chill", "relax", "relaxing", "peaceful", "quiet", "soft", "calme", "détente", "détendu", "tranquille", "paisible", "doux", "zen"},
	"focused":     {"focus", "focused", "study", "studying", "work", "working", "concentration", "concentré", "concentrée", "travail", "étudier", "réviser"},
	"romantic":    {"romantic", "love", "date", "romantique", "amour", "amoureux", "amoureuse"},
	"melancholic": {"melancholic", "melancholy", "nostalgic", "wistful", "mélancolie", "mélancolique", "morose"},
	"nostalgic":   {"nostalgic", "nostalgia", "memories", "throwback", "nostalgie", "nostalgique", "souvenirs"},
	"angry":       {"angry", "rage", "mad", "furious", "frustrated", "colère", "énervé", "énervée", "furieux", "rageux"},
	"party":       {"party", "dance", "dancing", "club", "celebrate", "soirée", "fête", "danser", "boîte"},
	"confident":   {"confident", "powerful", "boss", "confiant", "confiante", "puissant", "fier", "fière"},
	"dreamy":      {"dreamy", "dream", "floating", "ethereal", "rêveur", "rêveuse", "rêve", "planant"},
	"dark":        {"dark", "gloomy", "heavy", "sombre", "noir", "lourd"},
	"sensual":     {"sensual", "sexy", "sensuel", "sensuelle", "langoureux"},
}

const minPrefixCue = 5

// cueIndex maps exact cue words to moods; prefixCues holds cues that also
// match as token prefixes.
var cueIndex, prefixCues = func() (map[string][]string, map[string][]string) {
	exact := make(map[string][]string)
	prefix := make(map[string][]string)
	for mood, cues := range moodLexicon {
		for _, cue := range cues {
			exact[cue] = append(exact[cue], mood)
			if len([]rune(cue)) >= minPrefixCue {
				prefix[cue] = append(prefix[cue], mood)
			}
		}
	}
	return exact, prefix
}()

// DetectMoods returns the mood tags cued by text, sorted.
func DetectMoods(text string) []string {
	found := make(map[string]struct{})
	for _, tok := range textutil.Tokenize(text) {
		for _, m := range cueIndex[tok] {
			found[m] = struct{}{}
		}
		for cue, moods := range prefixCues {
			if len(tok) > len(cue) && strings.HasPrefix(tok, cue) {
				for _, m := range moods {
					found[m] = struct{}{}
				}
			}
		}
	}

	out := make([]string, 0, len(found))
	for m := range found {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}
