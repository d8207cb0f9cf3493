// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testElements() []MusicalElement {
	return []MusicalElement{
		{ID: "s2", Type: TypeSong, Name: "Blue", Genre: "Jazz", SemanticText: "slow smoky jazz"},
		{ID: "s1", Type: TypeSong, Name: "Neon", Genre: "Pop", SemanticText: "upbeat dance pop",
			Audio: map[string]float64{AttrEnergy: 0.9}},
		{ID: "s1", Type: TypeCollection, Name: "Party", Description: "party hits"},
	}
}

func TestNew(t *testing.T) {
	cat, err := New(testElements())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cat.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cat.Len())
	}

	// Same ID under different types is allowed and ordered by ID then type.
	elems := cat.Elements()
	wantOrder := []Key{
		{Type: TypeCollection, ID: "s1"},
		{Type: TypeSong, ID: "s1"},
		{Type: TypeSong, ID: "s2"},
	}
	for i, want := range wantOrder {
		if got := elems[i].Key(); got != want {
			t.Errorf("Elements()[%d] = %v, want %v", i, got, want)
		}
	}

	coll, ok := cat.Get(Key{Type: TypeCollection, ID: "s1"})
	if !ok {
		t.Fatal("Get() collection not found")
	}
	if coll.SemanticText == "" {
		t.Error("semantic text was not derived for collection")
	}

	counts := cat.CountByType()
	if counts[TypeSong] != 2 || counts[TypeCollection] != 1 {
		t.Errorf("CountByType() = %v", counts)
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		elems   []MusicalElement
		wantErr error
	}{
		{
			name: "duplicate key",
			elems: []MusicalElement{
				{ID: "a", Type: TypeSong, SemanticText: "x"},
				{ID: "a", Type: TypeSong, SemanticText: "y"},
			},
			wantErr: ErrDuplicateElement,
		},
		{
			name:    "missing id",
			elems:   []MusicalElement{{Type: TypeSong, SemanticText: "x"}},
			wantErr: ErrInvalidElement,
		},
		{
			name:    "unknown type",
			elems:   []MusicalElement{{ID: "a", Type: "album", SemanticText: "x"}},
			wantErr: ErrInvalidElement,
		},
		{
			name:    "no semantic text",
			elems:   []MusicalElement{{ID: "a", Type: TypeSong}},
			wantErr: ErrInvalidElement,
		},
		{
			name: "audio out of range",
			elems: []MusicalElement{{ID: "a", Type: TypeSong, SemanticText: "x",
				Audio: map[string]float64{AttrTempo: 120}}},
			wantErr: ErrInvalidElement,
		},
		{
			name: "audio names collide after normalization",
			elems: []MusicalElement{{ID: "a", Type: TypeSong, SemanticText: "x",
				Audio: map[string]float64{"Energy": 0.2, "energy ": 0.8}}},
			wantErr: ErrInvalidElement,
		},
		{
			name: "blank audio name",
			elems: []MusicalElement{{ID: "a", Type: TypeSong, SemanticText: "x",
				Audio: map[string]float64{" ": 0.5}}},
			wantErr: ErrInvalidElement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.elems)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewNormalizesAudioNames(t *testing.T) {
	data := []byte(`songs:
  - id: s1
    semantic_text: upbeat dance pop
    audio:
      Energy: 1.0
      " Valence ": 0.25
`)
	cat, err := Parse(data, FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, _ := cat.Get(Key{Type: TypeSong, ID: "s1"})
	want := map[string]float64{AttrEnergy: 1.0, AttrValence: 0.25}
	if len(got.Audio) != len(want) {
		t.Fatalf("Audio = %v, want %v", got.Audio, want)
	}
	for k, v := range want {
		if got.Audio[k] != v {
			t.Errorf("Audio[%q] = %v, want %v", k, got.Audio[k], v)
		}
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	cat, err := New(testElements())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	elems := cat.Elements()
	elems[1].Audio[AttrEnergy] = 0
	elems[1].Name = "changed"

	got, _ := cat.Get(Key{Type: TypeSong, ID: "s1"})
	if got.Audio[AttrEnergy] != 0.9 || got.Name != "Neon" {
		t.Errorf("catalog mutated through Elements(): %+v", got)
	}
}

func TestSemanticTexts(t *testing.T) {
	cat, err := New(testElements())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	texts := cat.SemanticTexts()
	if len(texts) != 3 {
		t.Fatalf("SemanticTexts() len = %d, want 3", len(texts))
	}
	if texts[Key{Type: TypeSong, ID: "s2"}] != "slow smoky jazz" {
		t.Errorf("unexpected text for s2: %q", texts[Key{Type: TypeSong, ID: "s2"}])
	}

	var nilCat *Catalog
	if len(nilCat.SemanticTexts()) != 0 || nilCat.Len() != 0 {
		t.Error("nil catalog should behave as empty")
	}
}

func TestAttributes(t *testing.T) {
	e := MusicalElement{
		ID: "s1", Type: TypeSong, Name: "Neon", Artist: "Lumen", Genre: "Pop",
		Audio: map[string]float64{AttrEnergy: 0.8},
	}
	attrs := e.Attributes()
	if attrs["artist"] != "Lumen" || attrs[AttrEnergy] != 0.8 {
		t.Errorf("Attributes() = %v", attrs)
	}

	coll := MusicalElement{ID: "c1", Type: TypeCollection, Name: "Mix"}
	if _, ok := coll.Attributes()["artist"]; ok {
		t.Error("collection without artist should not expose one")
	}
}

func TestParseElementType(t *testing.T) {
	tests := []struct {
		in      string
		want    ElementType
		wantErr bool
	}{
		{"song", TypeSong, false},
		{" Chanson ", TypeSong, false},
		{"playlist", TypeCollection, false},
		{"collections", TypeCollection, false},
		{"album", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseElementType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseElementType(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseElementType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	counts := cat.CountByType()
	if counts[TypeSong] == 0 || counts[TypeCollection] == 0 {
		t.Errorf("default catalog should carry both types, got %v", counts)
	}
	for _, e := range cat.Elements() {
		if e.Type == TypeSong && e.Artist == "" {
			t.Errorf("song %s has no artist", e.ID)
		}
	}
}

func TestParseFormats(t *testing.T) {
	yamlData := []byte(`
songs:
  - id: a
    name: A
    semantic_text: upbeat pop
collections:
  - id: a
    name: Mix
    description: pop mix
elements:
  - id: b
    type: chanson
    semantic_text: jazz
`)
	cat, err := Parse(yamlData, FormatYAML)
	if err != nil {
		t.Fatalf("Parse(yaml) error = %v", err)
	}
	if cat.Len() != 3 {
		t.Errorf("Parse(yaml) Len() = %d, want 3", cat.Len())
	}
	if _, ok := cat.Get(Key{Type: TypeSong, ID: "b"}); !ok {
		t.Error("element with French type name was not parsed as song")
	}

	jsonData := []byte(`{"songs":[{"id":"x","name":"X","semantic_text":"rock"}]}`)
	cat, err = Parse(jsonData, FormatJSON)
	if err != nil {
		t.Fatalf("Parse(json) error = %v", err)
	}
	if cat.Len() != 1 {
		t.Errorf("Parse(json) Len() = %d, want 1", cat.Len())
	}

	if _, err := Parse([]byte("songs: [}"), FormatYAML); err == nil {
		t.Error("Parse() expected error for malformed yaml")
	}

	empty, err := Parse(nil, FormatYAML)
	if err != nil || empty.Len() != 0 {
		t.Errorf("Parse(empty) = %v, %v", empty, err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte(`{"collections":[{"id":"c","name":"C","description":"chill"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cat.Len() != 1 {
		t.Errorf("LoadFile() Len() = %d, want 1", cat.Len())
	}

	if _, err := LoadFile(filepath.Join(dir, "catalog.toml")); err == nil {
		t.Error("LoadFile() expected error for unsupported extension")
	}

	def, err := LoadFile("")
	if err != nil || def.Len() == 0 {
		t.Errorf("LoadFile(\"\") should load bundled catalog: %v", err)
	}
}
