// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package catalog holds the musical elements that recommendations are drawn from.
//
// A Catalog is immutable once built. Replacing the catalog means building a
// new value and handing it to the recommendation engine.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var (
	// ErrDuplicateElement is returned when two elements share a type and ID.
	ErrDuplicateElement = errors.New("duplicate catalog element")

	// ErrInvalidElement is returned for elements that break catalog invariants.
	ErrInvalidElement = errors.New("invalid catalog element")
)

// Catalog is an immutable, key-ordered set of musical elements.
type Catalog struct {
	elements []MusicalElement
	index    map[Key]int
}

// New validates and copies elements into a catalog. Empty semantic texts are
// derived from the descriptive fields before validation.
func New(elements []MusicalElement) (*Catalog, error) {
	c := &Catalog{
		elements: make([]MusicalElement, 0, len(elements)),
		index:    make(map[Key]int, len(elements)),
	}

	for i := range elements {
		e := elements[i].clone()
		e.ID = strings.TrimSpace(e.ID)
		if err := normalizeAudio(&e); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if strings.TrimSpace(e.SemanticText) == "" {
			e.SemanticText = BuildSemanticText(&e)
		}
		if err := validateElement(&e); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if _, dup := c.index[e.Key()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateElement, e.Key())
		}
		c.index[e.Key()] = -1
		c.elements = append(c.elements, e)
	}

	slices.SortFunc(c.elements, func(a, b MusicalElement) int {
		return a.Key().Compare(b.Key())
	})
	for i := range c.elements {
		c.index[c.elements[i].Key()] = i
	}

	return c, nil
}

// Empty returns a catalog with no elements.
func Empty() *Catalog {
	return &Catalog{index: map[Key]int{}}
}

// normalizeAudio lowercases and trims audio attribute names so they match
// questionnaire ratings. Names that collide after normalization are rejected.
func normalizeAudio(e *MusicalElement) error {
	if len(e.Audio) == 0 {
		return nil
	}
	audio := make(map[string]float64, len(e.Audio))
	for name, v := range e.Audio {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return fmt.Errorf("%w: %s has an unnamed audio attribute", ErrInvalidElement, e.ID)
		}
		if _, dup := audio[key]; dup {
			return fmt.Errorf("%w: %s audio attribute %q is defined twice", ErrInvalidElement, e.ID, key)
		}
		audio[key] = v
	}
	e.Audio = audio
	return nil
}

func validateElement(e *MusicalElement) error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidElement)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidElement, e.ID, e.Type)
	}
	if strings.TrimSpace(e.SemanticText) == "" {
		return fmt.Errorf("%w: %s has no semantic text", ErrInvalidElement, e.Key())
	}
	for name, v := range e.Audio {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s audio attribute %s must be within [0,1], got %f",
				ErrInvalidElement, e.Key(), name, v)
		}
	}
	return nil
}

// Len returns the number of elements.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.elements)
}

// Elements returns a copy of all elements in key order.
func (c *Catalog) Elements() []MusicalElement {
	if c == nil {
		return []MusicalElement{}
	}
	out := make([]MusicalElement, len(c.elements))
	for i := range c.elements {
		out[i] = c.elements[i].clone()
	}
	return out
}

// ByType returns the elements of one type in key order.
func (c *Catalog) ByType(t ElementType) []MusicalElement {
	out := []MusicalElement{}
	if c == nil {
		return out
	}
	for i := range c.elements {
		if c.elements[i].Type == t {
			out = append(out, c.elements[i].clone())
		}
	}
	return out
}

// Get looks up an element by key.
func (c *Catalog) Get(k Key) (MusicalElement, bool) {
	if c == nil {
		return MusicalElement{}, false
	}
	i, ok := c.index[k]
	if !ok {
		return MusicalElement{}, false
	}
	return c.elements[i].clone(), true
}

// SemanticTexts returns the embedding text of every element.
func (c *Catalog) SemanticTexts() map[Key]string {
	texts := make(map[Key]string, c.Len())
	if c == nil {
		return texts
	}
	for i := range c.elements {
		texts[c.elements[i].Key()] = c.elements[i].SemanticText
	}
	return texts
}

// CountByType returns the number of elements per type.
func (c *Catalog) CountByType() map[ElementType]int {
	counts := make(map[ElementType]int, len(Types))
	if c == nil {
		return counts
	}
	for i := range c.elements {
		counts[c.elements[i].Type]++
	}
	return counts
}
