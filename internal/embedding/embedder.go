// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package embedding turns texts into dense vectors.
//
// Three providers are available: an offline feature-hashing embedder and
// langchaingo-backed Ollama and OpenAI embedders. CachingEmbedder puts an
// in-memory LRU and an optional BadgerDB tier in front of any provider.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// Embedder produces fixed-dimension vectors. Returned vectors are shared and
// must not be modified by callers.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model identifies the model. Vectors from different models are not
	// comparable.
	Model() string
	Dimension() int
}

// Provider selects an embedding backend.
type Provider string

const (
	ProviderHash   Provider = "hash"
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// ErrDimensionMismatch is returned when a provider returns vectors of an
// unexpected size.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Config selects and configures a provider.
type Config struct {
	Provider  Provider
	Model     string
	URL       string
	APIKey    string
	Dimension int
	BatchSize int
}

// Default models and dimensions per provider.
const (
	DefaultOllamaModel     = "nomic-embed-text"
	DefaultOllamaDimension = 768
	DefaultOpenAIModel     = "text-embedding-3-small"
	DefaultOpenAIDimension = 1536
)

// New builds the provider named by cfg.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderHash, "":
		return NewHashEmbedder(cfg.Dimension), nil
	case ProviderOllama:
		if cfg.Model == "" {
			cfg.Model = DefaultOllamaModel
		}
		if cfg.Dimension <= 0 {
			cfg.Dimension = DefaultOllamaDimension
		}
		return NewOllamaEmbedder(cfg)
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
		if cfg.Dimension <= 0 {
			cfg.Dimension = DefaultOpenAIDimension
		}
		return NewOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
