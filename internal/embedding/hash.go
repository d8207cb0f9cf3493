// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/vibeyf-ai/vibeyf/internal/textutil"
)

const (
	// DefaultHashDimension is the vector size of the hash embedder.
	DefaultHashDimension = 384

	// HashModel is the model identity of the hash embedder.
	HashModel = "feature-hash-v1"

	bigramWeight = 0.5
)

// stopwords carry no mood or genre signal in either supported language.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "to": {}, "of": {}, "in": {},
	"on": {}, "with": {}, "is": {}, "it": {}, "i": {}, "my": {}, "me": {}, "at": {},
	"le": {}, "la": {}, "les": {}, "de": {}, "du": {}, "des": {}, "un": {}, "une": {},
	"et": {}, "ou": {}, "en": {}, "au": {}, "aux": {}, "je": {}, "j'ai": {}, "mon": {},
	"ma": {}, "mes": {}, "à": {}, "est": {},
}

// HashEmbedder is a deterministic, offline embedder. Each word unigram and
// bigram is hashed into a signed bucket and the result is L2 normalized, so
// cosine similarity tracks shared vocabulary.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hash embedder. Non-positive dimensions use
// DefaultHashDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	return &HashEmbedder{dim: dim}
}

// Model returns HashModel.
func (h *HashEmbedder) Model() string { return HashModel }

// Dimension returns the vector size.
func (h *HashEmbedder) Dimension() int { return h.dim }

// Embed hashes text into a vector. Text without tokens yields the zero vector.
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.vector(text), nil
}

// EmbedBatch embeds each text in order.
func (h *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	acc := make([]float64, h.dim)

	tokens := textutil.Tokenize(text)
	words := tokens[:0:0]
	for _, tok := range tokens {
		if _, skip := stopwords[tok]; !skip {
			words = append(words, tok)
		}
	}

	for i, w := range words {
		h.add(acc, w, 1)
		if i > 0 {
			h.add(acc, words[i-1]+" "+w, bigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	vec := make([]float32, h.dim)
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

func (h *HashEmbedder) add(acc []float64, feature string, weight float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature)) //nolint:errcheck // hash.Hash never returns an error
	sum := hasher.Sum64()

	idx := int(sum % uint64(h.dim)) //nolint:gosec // dim is positive and small
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}
