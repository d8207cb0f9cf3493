// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package recommend

import (
	"fmt"
	"math"
	"runtime"
)

// MaxGenreBoost bounds the additive genre bonus.
const MaxGenreBoost = 0.5

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines how the similarity and preference signals are fused.
	Weights WeightsConfig `json:"weights" koanf:"weights"`

	// Openness maps the user's openness level to the semantic weight.
	Openness OpennessCurve `json:"openness" koanf:"openness"`

	// GenreBoost is the bonus added to songs whose genre the user prefers.
	// Must lie in [0, 0.5].
	// Default: 0.1.
	GenreBoost float64 `json:"genre_boost" koanf:"genre_boost"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// WeightsConfig holds the fusion weights that are not derived from openness.
type WeightsConfig struct {
	// Mood is the share of the global score given to mood-tag overlap.
	// Zero keeps the global score a two-signal blend.
	// Default: 0.
	Mood float64 `json:"mood" koanf:"mood"`
}

// OpennessCurve maps an openness level to the semantic similarity weight w1.
// The preference weight is 1 - w1.
type OpennessCurve struct {
	// MinLevel is the lowest openness level.
	// Default: 1.
	MinLevel int `json:"min_level" koanf:"min_level"`

	// MaxLevel is the highest openness level.
	// Default: 5.
	MaxLevel int `json:"max_level" koanf:"max_level"`

	// SemanticWeightMin is w1 at MinLevel.
	// Default: 0.4.
	SemanticWeightMin float64 `json:"semantic_weight_min" koanf:"semantic_weight_min"`

	// SemanticWeightMax is w1 at MaxLevel.
	// Default: 0.8.
	SemanticWeightMax float64 `json:"semantic_weight_max" koanf:"semantic_weight_max"`

	// Table optionally overrides the interpolation for specific levels.
	Table map[int]float64 `json:"table,omitempty" koanf:"table"`
}

// SemanticWeight returns w1 for an openness level. Levels outside
// [MinLevel, MaxLevel] are clamped.
//
//nolint:gocritic // value receiver keeps the curve immutable
func (c OpennessCurve) SemanticWeight(level int) float64 {
	if level < c.MinLevel {
		level = c.MinLevel
	}
	if level > c.MaxLevel {
		level = c.MaxLevel
	}
	if w, ok := c.Table[level]; ok {
		return w
	}
	if c.MaxLevel == c.MinLevel {
		return c.SemanticWeightMax
	}
	t := float64(level-c.MinLevel) / float64(c.MaxLevel-c.MinLevel)
	return c.SemanticWeightMin + t*(c.SemanticWeightMax-c.SemanticWeightMin)
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used when a query does not set TopN.
	// Default: 3.
	DefaultTopN int `json:"default_top_n" koanf:"default_top_n"`

	// MaxTopN caps the TopN a query may request.
	// Default: 50.
	MaxTopN int `json:"max_top_n" koanf:"max_top_n"`

	// Workers is the number of goroutines scoring elements.
	// Zero uses GOMAXPROCS.
	// Default: 0.
	Workers int `json:"workers" koanf:"workers"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightsConfig{
			Mood: 0,
		},
		Openness: OpennessCurve{
			MinLevel:          1,
			MaxLevel:          5,
			SemanticWeightMin: 0.4,
			SemanticWeightMax: 0.8,
		},
		GenreBoost: 0.1,
		Limits: LimitsConfig{
			DefaultTopN: 3,
			MaxTopN:     50,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !inUnitRange(c.Weights.Mood) {
		return fmt.Errorf("weights.mood must be in [0, 1], got %f", c.Weights.Mood)
	}

	if c.Openness.MinLevel > c.Openness.MaxLevel {
		return fmt.Errorf("openness.min_level must be <= openness.max_level, got %d > %d",
			c.Openness.MinLevel, c.Openness.MaxLevel)
	}
	if !inUnitRange(c.Openness.SemanticWeightMin) {
		return fmt.Errorf("openness.semantic_weight_min must be in [0, 1], got %f", c.Openness.SemanticWeightMin)
	}
	if !inUnitRange(c.Openness.SemanticWeightMax) {
		return fmt.Errorf("openness.semantic_weight_max must be in [0, 1], got %f", c.Openness.SemanticWeightMax)
	}
	for level, w := range c.Openness.Table {
		if level < c.Openness.MinLevel || level > c.Openness.MaxLevel {
			return fmt.Errorf("openness.table level %d outside [%d, %d]", level, c.Openness.MinLevel, c.Openness.MaxLevel)
		}
		if !inUnitRange(w) {
			return fmt.Errorf("openness.table[%d] must be in [0, 1], got %f", level, w)
		}
	}

	if math.IsNaN(c.GenreBoost) || c.GenreBoost < 0 || c.GenreBoost > MaxGenreBoost {
		return fmt.Errorf("genre_boost must be in [0, %.1f], got %f", MaxGenreBoost, c.GenreBoost)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d",
			c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.Workers < 0 {
		return fmt.Errorf("limits.workers must be non-negative, got %d", c.Limits.Workers)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	if c.Openness.Table != nil {
		out.Openness.Table = make(map[int]float64, len(c.Openness.Table))
		for k, v := range c.Openness.Table {
			out.Openness.Table[k] = v
		}
	}
	return &out
}

func (c *Config) workers() int {
	if c.Limits.Workers > 0 {
		return c.Limits.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func inUnitRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
