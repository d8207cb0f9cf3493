// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// catalogFile is the on-disk layout. Elements listed under songs or
// collections take that type when they do not declare one; elements listed
// under elements must declare their type.
type catalogFile struct {
	Songs       []MusicalElement `json:"songs" yaml:"songs"`
	Collections []MusicalElement `json:"collections" yaml:"collections"`
	Elements    []MusicalElement `json:"elements" yaml:"elements"`
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, FormatYAML)
}

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(path))
	}
}

// LoadFile reads and parses a catalog file. An empty path loads the bundled
// catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	cat, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes catalog data in the given format.
func Parse(data []byte, format Format) (*Catalog, error) {
	var f catalogFile

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	elements := make([]MusicalElement, 0, len(f.Songs)+len(f.Collections)+len(f.Elements))
	elements = appendWithDefaultType(elements, f.Songs, TypeSong)
	elements = appendWithDefaultType(elements, f.Collections, TypeCollection)
	for i := range f.Elements {
		e := f.Elements[i]
		if e.Type != "" {
			t, err := ParseElementType(string(e.Type))
			if err != nil {
				return nil, fmt.Errorf("element %q: %w", e.ID, err)
			}
			e.Type = t
		}
		elements = append(elements, e)
	}

	return New(elements)
}

func appendWithDefaultType(dst, src []MusicalElement, t ElementType) []MusicalElement {
	for i := range src {
		e := src[i]
		if e.Type == "" {
			e.Type = t
		} else if parsed, err := ParseElementType(string(e.Type)); err == nil {
			e.Type = parsed
		}
		dst = append(dst, e)
	}
	return dst
}
