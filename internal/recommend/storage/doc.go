// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package storage persists precomputed similarity artifacts.
//
// The similarity engine embeds every catalog element once and saves the
// resulting matrix here, so a restart against an unchanged catalog and
// model does not call the embedding provider again.
//
// # Storage Format
//
//	filename: {artifact_name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ArtifactMetadata)
//	  - CompressedData (gzip-compressed gob-encoded payload)
//
// Writes go to a temporary file in the store directory, are fsynced and
// renamed into place. A crash mid-write leaves the previous version intact.
//
// # Usage Example
//
//	store, err := storage.NewStore("/var/lib/vibeyf/cache")
//	if err != nil {
//	    return err
//	}
//
//	version, err := store.Save(ctx, storage.EmbeddingsArtifact, matrix, storage.ArtifactMetadata{
//	    Fingerprint:  matrix.Fingerprint,
//	    Model:        matrix.Model,
//	    Dimension:    matrix.Dimension,
//	    ElementCount: len(matrix.Keys),
//	})
//
//	var matrix storage.EmbeddingMatrix
//	meta, err := store.Load(ctx, storage.EmbeddingsArtifact, 0, &matrix) // 0 = latest
//
// # Data Integrity
//
// Load decompresses the payload, recomputes its SHA-256 and returns
// ErrChecksumMismatch if it differs from the stored checksum. Callers
// treat any load error as a cache miss and recompute.
//
// # Thread Safety
//
// Save and Prune take the write lock; Load and Metadata share the read lock.
package storage
