// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package storage

import "encoding/gob"

// EmbeddingsArtifact is the artifact name of the catalog embedding matrix.
const EmbeddingsArtifact = "embeddings"

// MatrixKey identifies the catalog element behind a matrix row.
type MatrixKey struct {
	Type string
	ID   string
}

// EmbeddingMatrix is the serializable state of the similarity engine.
// Keys[i] names the element whose vector is Vectors[i].
type EmbeddingMatrix struct {
	Keys        []MatrixKey
	Vectors     [][]float32
	Fingerprint string
	Model       string
	Dimension   int
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(EmbeddingMatrix{})
	gob.Register(ArtifactMetadata{})
	gob.Register(storedFile{})
}
