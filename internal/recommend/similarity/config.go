// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package similarity

import "fmt"

// Config controls catalog preparation.
type Config struct {
	// BatchSize is the number of texts per embedding call.
	// Default: 32.
	BatchSize int `json:"batch_size" koanf:"batch_size"`

	// Concurrency is the number of batches embedded in parallel.
	// Default: 4.
	Concurrency int `json:"concurrency" koanf:"concurrency"`

	// KeepVersions is how many cache artifacts are retained on disk.
	// Default: 2.
	KeepVersions int `json:"keep_versions" koanf:"keep_versions"`
}

// DefaultConfig returns the default preparation settings.
func DefaultConfig() Config {
	return Config{
		BatchSize:    32,
		Concurrency:  4,
		KeepVersions: 2,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.KeepVersions < 1 {
		return fmt.Errorf("keep_versions must be positive, got %d", c.KeepVersions)
	}
	return nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize < 1 {
		c.BatchSize = d.BatchSize
	}
	if c.Concurrency < 1 {
		c.Concurrency = d.Concurrency
	}
	if c.KeepVersions < 1 {
		c.KeepVersions = d.KeepVersions
	}
	return c
}
