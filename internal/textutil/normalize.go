// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package textutil provides the text normalization shared by the questionnaire,
// the embedding providers and the similarity engine.
package textutil

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, trims it and collapses every run of whitespace
// into a single space. An input made only of whitespace normalizes to "".
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize splits normalized text into word tokens. Punctuation separates
// tokens and is dropped; letters and digits of any script are kept, as are
// inner hyphens and apostrophes ("k-pop", "aujourd'hui").
func Tokenize(text string) []string {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	tokens := make([]string, 0, strings.Count(text, " ")+1)
	var b strings.Builder
	flush := func() {
		tok := strings.Trim(b.String(), "-'")
		if tok != "" {
			tokens = append(tokens, tok)
		}
		b.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case (r == '-' || r == '\'' || r == '’') && b.Len() > 0:
			if r == '’' {
				r = '\''
			}
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// SanitizeLogValue escapes control characters so user-provided text can be
// logged without forging log lines.
func SanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(`\x`)
			result.WriteByte("0123456789abcdef"[r>>4])
			result.WriteByte("0123456789abcdef"[r&0xF])
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Truncate shortens s to at most n runes, appending "..." when it cuts.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
