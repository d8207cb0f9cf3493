// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package similarity embeds catalog texts and scores queries by cosine
// similarity.
//
// Embedding the catalog is the expensive step and depends only on the
// catalog, so Prepare runs it once and persists the matrix through
// storage.Store. LoadCache restores it on the next start when the
// fingerprint (a content hash of every (type, id, text) triple plus the
// model identity) still matches. Invalidation is never time based.
//
// Prepare embeds batches in parallel with errgroup and publishes the matrix
// only after every batch has finished. Concurrent Prepare calls for the
// same fingerprint are collapsed with singleflight.
//
// Score clips negative similarities to zero: a sign flip from embedding
// noise is treated as unrelated, not as an anti-match.
package similarity
