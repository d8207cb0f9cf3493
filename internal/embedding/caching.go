// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/vibeyf-ai/vibeyf/internal/cache"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
)

// CacheOptions configures CachingEmbedder.
type CacheOptions struct {
	// Entries is the in-memory LRU capacity.
	// Default: 4096
	Entries int

	// TTL expires in-memory entries. Zero keeps them until evicted.
	TTL time.Duration

	// Store is an optional persistent tier.
	Store VectorStore
}

// CachingEmbedder answers from an in-memory LRU, then from an optional
// persistent store, and only then calls the wrapped provider. Concurrent
// requests for the same text share one provider call.
type CachingEmbedder struct {
	inner  Embedder
	memory *cache.LRU[string, []float32]
	store  VectorStore
	group  singleflight.Group
	logger zerolog.Logger
}

// NewCachingEmbedder wraps inner.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCachingEmbedder(inner Embedder, opts CacheOptions, logger zerolog.Logger) *CachingEmbedder {
	if opts.Entries <= 0 {
		opts.Entries = 4096
	}
	return &CachingEmbedder{
		inner:  inner,
		memory: cache.NewLRU[string, []float32](opts.Entries, opts.TTL),
		store:  opts.Store,
		logger: logger.With().Str("component", "embedding_cache").Logger(),
	}
}

// Model returns the wrapped model identity.
func (c *CachingEmbedder) Model() string { return c.inner.Model() }

// Dimension returns the wrapped dimension.
func (c *CachingEmbedder) Dimension() int { return c.inner.Dimension() }

// Stats exposes the in-memory tier counters.
func (c *CachingEmbedder) Stats() cache.Stats { return c.memory.Stats() }

// CacheKey is the hex SHA-256 of "model|text".
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "|" + text))
	return hex.EncodeToString(sum[:])
}

// Embed returns the cached vector for text or computes it once.
func (c *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(c.inner.Model(), text)
	if vec, ok := c.lookup(ctx, key); ok {
		return vec, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if vec, ok := c.memory.Get(key); ok {
			return vec, nil
		}
		vec, err := c.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.remember(ctx, map[string][]float32{key: vec})
		return vec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return v.([]float32), nil //nolint:errcheck,forcetypeassert // only []float32 is stored
}

// EmbedBatch resolves cached texts and embeds the remainder in a single
// provider call. Duplicate texts are embedded once.
func (c *CachingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	model := c.inner.Model()

	missing := make(map[string][]int)
	var missTexts []string
	var missKeys []string

	for i, text := range texts {
		key := CacheKey(model, text)
		if vec, ok := c.lookup(ctx, key); ok {
			out[i] = vec
			continue
		}
		if _, seen := missing[key]; !seen {
			missTexts = append(missTexts, text)
			missKeys = append(missKeys, key)
		}
		missing[key] = append(missing[key], i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("embed batch: provider returned %d vectors for %d texts", len(vectors), len(missTexts))
	}

	fresh := make(map[string][]float32, len(vectors))
	for j, vec := range vectors {
		key := missKeys[j]
		fresh[key] = vec
		for _, i := range missing[key] {
			out[i] = vec
		}
	}
	c.remember(ctx, fresh)

	return out, nil
}

func (c *CachingEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	if vec, ok := c.memory.Get(key); ok {
		metrics.RecordEmbeddingCache("memory", true)
		return vec, true
	}
	metrics.RecordEmbeddingCache("memory", false)

	if c.store == nil {
		return nil, false
	}

	vec, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Persistent embedding cache read failed")
		return nil, false
	}
	metrics.RecordEmbeddingCache("badger", ok)
	if !ok || len(vec) != c.inner.Dimension() {
		return nil, false
	}

	c.memory.Add(key, vec)
	return vec, true
}

func (c *CachingEmbedder) remember(ctx context.Context, vectors map[string][]float32) {
	for key, vec := range vectors {
		c.memory.Add(key, vec)
	}
	if c.store == nil {
		return
	}
	if err := c.store.PutBatch(ctx, vectors); err != nil {
		c.logger.Warn().Err(err).Int("vectors", len(vectors)).Msg("Persistent embedding cache write failed")
	}
}
