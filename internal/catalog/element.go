// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package catalog

import (
	"fmt"
	"strings"
)

// ElementType distinguishes songs from curated collections.
type ElementType string

const (
	// TypeSong is a single track with an artist.
	TypeSong ElementType = "song"

	// TypeCollection is a curated playlist or album-like grouping.
	TypeCollection ElementType = "collection"
)

// Types lists the element types in their canonical order.
var Types = []ElementType{TypeSong, TypeCollection}

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	return t == TypeSong || t == TypeCollection
}

// ParseElementType accepts the canonical names and their French and plural
// spellings ("chanson", "songs", "playlist").
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "song", "songs", "chanson", "chansons", "track":
		return TypeSong, nil
	case "collection", "collections", "playlist", "playlists":
		return TypeCollection, nil
	default:
		return "", fmt.Errorf("unknown element type %q", s)
	}
}

// Key identifies an element. IDs are only unique within a type, so every map
// over catalog elements is keyed by the pair.
type Key struct {
	Type ElementType
	ID   string
}

// String renders the key as "type:id".
func (k Key) String() string {
	return string(k.Type) + ":" + k.ID
}

// Compare orders keys by ID, then by type.
func (k Key) Compare(other Key) int {
	if c := strings.Compare(k.ID, other.ID); c != 0 {
		return c
	}
	return strings.Compare(string(k.Type), string(other.Type))
}

// Well-known audio attribute names. Catalog files may carry others; only
// attributes shared with the user's ratings contribute to scoring.
const (
	AttrEnergy           = "energy"
	AttrValence          = "valence"
	AttrDanceability     = "danceability"
	AttrAcousticness     = "acousticness"
	AttrInstrumentalness = "instrumentalness"
	AttrTempo            = "tempo"
)

// AudioAttributes lists the well-known audio attributes in questionnaire order.
var AudioAttributes = []string{
	AttrEnergy,
	AttrValence,
	AttrDanceability,
	AttrAcousticness,
	AttrInstrumentalness,
	AttrTempo,
}

// MusicalElement is an immutable catalog entry.
type MusicalElement struct {
	ID          string             `json:"id" yaml:"id"`
	Type        ElementType        `json:"type" yaml:"type"`
	Name        string             `json:"name" yaml:"name"`
	Artist      string             `json:"artist,omitempty" yaml:"artist,omitempty"`
	Genre       string             `json:"genre,omitempty" yaml:"genre,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Moods       []string           `json:"moods,omitempty" yaml:"moods,omitempty"`
	Audio       map[string]float64 `json:"audio,omitempty" yaml:"audio,omitempty"`

	// SemanticText is the text embedded for similarity. Loaders derive it
	// from the descriptive fields when a catalog file leaves it empty.
	SemanticText string `json:"semantic_text" yaml:"semantic_text,omitempty"`
}

// Key returns the element's identity.
func (e *MusicalElement) Key() Key {
	return Key{Type: e.Type, ID: e.ID}
}

// Attributes returns the generic name to value view of the element's display
// and audio attributes. Audio attributes are flattened under their own names.
func (e *MusicalElement) Attributes() map[string]any {
	attrs := make(map[string]any, 6+len(e.Audio))
	attrs["id"] = e.ID
	attrs["type"] = string(e.Type)
	attrs["name"] = e.Name
	if e.Artist != "" {
		attrs["artist"] = e.Artist
	}
	if e.Genre != "" {
		attrs["genre"] = e.Genre
	}
	if e.Description != "" {
		attrs["description"] = e.Description
	}
	if len(e.Moods) > 0 {
		attrs["moods"] = append([]string(nil), e.Moods...)
	}
	for name, v := range e.Audio {
		attrs[name] = v
	}
	return attrs
}

// clone returns a deep copy so catalog callers cannot mutate shared state.
func (e *MusicalElement) clone() MusicalElement {
	c := *e
	if e.Moods != nil {
		c.Moods = append([]string(nil), e.Moods...)
	}
	if e.Audio != nil {
		c.Audio = make(map[string]float64, len(e.Audio))
		for k, v := range e.Audio {
			c.Audio[k] = v
		}
	}
	return c
}

// BuildSemanticText derives an embedding text from the descriptive fields.
func BuildSemanticText(e *MusicalElement) string {
	parts := make([]string, 0, 5)
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	if e.Genre != "" {
		parts = append(parts, "genre "+e.Genre)
	}
	if len(e.Moods) > 0 {
		parts = append(parts, "mood "+strings.Join(e.Moods, " "))
	}
	if e.Name != "" {
		parts = append(parts, e.Name)
	}
	if e.Artist != "" {
		parts = append(parts, e.Artist)
	}
	return strings.Join(parts, ". ")
}
