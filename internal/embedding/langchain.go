// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/vibeyf-ai/vibeyf/internal/metrics"
)

// documentEmbedder is the part of langchaingo's embeddings.Embedder we use.
type documentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// LangChainEmbedder wraps a langchaingo embedder with dimension validation
// and metrics.
type LangChainEmbedder struct {
	model     documentEmbedder
	provider  Provider
	modelName string
	dimension int
}

// NewOllamaEmbedder creates an embedder backed by an Ollama server.
//
//nolint:gocritic // Config is a small value type
func NewOllamaEmbedder(cfg Config) (*LangChainEmbedder, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.URL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.URL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	model, err := embeddings.NewEmbedder(llm, batchOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create ollama embedder: %w", err)
	}
	return newLangChainEmbedder(model, ProviderOllama, cfg.Model, cfg.Dimension), nil
}

// NewOpenAIEmbedder creates an embedder backed by the OpenAI embeddings API.
//
//nolint:gocritic // Config is a small value type
func NewOpenAIEmbedder(cfg Config) (*LangChainEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key required")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.URL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.URL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	model, err := embeddings.NewEmbedder(llm, batchOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}
	return newLangChainEmbedder(model, ProviderOpenAI, cfg.Model, cfg.Dimension), nil
}

//nolint:gocritic // Config is a small value type
func batchOptions(cfg Config) []embeddings.Option {
	if cfg.BatchSize > 0 {
		return []embeddings.Option{embeddings.WithBatchSize(cfg.BatchSize)}
	}
	return nil
}

func newLangChainEmbedder(model documentEmbedder, provider Provider, name string, dim int) *LangChainEmbedder {
	return &LangChainEmbedder{
		model:     model,
		provider:  provider,
		modelName: name,
		dimension: dim,
	}
}

// Embed generates an embedding vector for text.
func (e *LangChainEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one provider call.
func (e *LangChainEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	vectors, err := e.embed(ctx, texts)
	metrics.RecordEmbedding(string(e.provider), len(texts), time.Since(start), err)
	return vectors, err
}

func (e *LangChainEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.model.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("count mismatch: got %d, want %d", len(vectors), len(texts))
	}
	for i, v := range vectors {
		if len(v) != e.dimension {
			return nil, fmt.Errorf("%w: embedding %d has %d values, want %d",
				ErrDimensionMismatch, i, len(v), e.dimension)
		}
	}
	return vectors, nil
}

// Model returns the embedding model name.
func (e *LangChainEmbedder) Model() string {
	return string(e.provider) + "/" + e.modelName
}

// Dimension returns the expected embedding dimension.
func (e *LangChainEmbedder) Dimension() int {
	return e.dimension
}
