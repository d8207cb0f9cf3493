// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package enrich

import (
	"errors"
	"fmt"
	"time"
)

// Provider selects the language model backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// Config configures LLM access for enrichment and reports.
type Config struct {
	Provider Provider
	Model    string
	URL      string
	APIKey   string

	// Timeout bounds a single model call.
	// Default: 8s.
	Timeout time.Duration

	// Rate is the sustained number of model calls per second; Burst is the
	// bucket size. Calls over budget are skipped, not queued.
	// Default: 1 call/s, burst 5.
	Rate  float64
	Burst int

	// BreakerThreshold is the number of consecutive failures that opens the
	// circuit; BreakerTimeout is how long it stays open.
	// Default: 3 failures, 30s.
	BreakerThreshold uint32
	BreakerTimeout   time.Duration

	// MaxChars caps the length of an enriched text.
	// Default: 600.
	MaxChars int
}

// DefaultConfig returns the default enrichment settings for a local Ollama.
func DefaultConfig() Config {
	return Config{
		Provider:         ProviderOllama,
		Model:            "llama3.2",
		Timeout:          8 * time.Second,
		Rate:             1,
		Burst:            5,
		BreakerThreshold: 3,
		BreakerTimeout:   30 * time.Second,
		MaxChars:         600,
	}
}

// Validate checks the settings.
//
//nolint:gocritic // Config is a small value type
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("provider must be ollama or openai, got %q", c.Provider)
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %f", c.Rate)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.Burst)
	}
	if c.BreakerThreshold < 1 {
		return fmt.Errorf("breaker threshold must be at least 1, got %d", c.BreakerThreshold)
	}
	if c.BreakerTimeout <= 0 {
		return fmt.Errorf("breaker timeout must be positive, got %s", c.BreakerTimeout)
	}
	if c.MaxChars < 1 {
		return fmt.Errorf("max chars must be at least 1, got %d", c.MaxChars)
	}
	return nil
}
