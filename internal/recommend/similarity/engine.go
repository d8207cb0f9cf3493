// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/embedding"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/recommend/storage"
	"github.com/vibeyf-ai/vibeyf/internal/textutil"
)

// Cache load result labels.
const (
	loadDisabled = "disabled"
	loadMismatch = "mismatch"
)

// snapshot is an immutable embedding matrix. Engines swap whole snapshots,
// so a reader holding one is unaffected by a concurrent Prepare.
type snapshot struct {
	keys        []catalog.Key
	vectors     [][]float32
	norms       []float64
	fingerprint string
}

// Engine embeds catalog texts once and scores queries against them.
type Engine struct {
	embedder embedding.Embedder
	store    *storage.Store
	config   Config
	logger   zerolog.Logger

	flight singleflight.Group

	mu   sync.RWMutex
	snap *snapshot
}

var _ recommend.SimilarityIndex = (*Engine)(nil)

// NewEngine creates a similarity engine. store may be nil, in which case
// nothing is persisted and LoadCache always misses.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(embedder embedding.Embedder, store *storage.Store, cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		store:    store,
		config:   cfg.withDefaults(),
		logger: logger.With().
			Str("component", "similarity").
			Str("model", embedder.Model()).
			Logger(),
	}
}

// Prepare embeds every text and makes the result current. Concurrent calls
// for the same text set share one computation, which runs detached from the
// callers' cancellation; a cancelled caller stops waiting but the others
// still get the result.
func (e *Engine) Prepare(ctx context.Context, texts map[catalog.Key]string) error {
	fp := Fingerprint(texts, e.embedder.Model(), e.embedder.Dimension())
	detached := context.WithoutCancel(ctx)
	ch := e.flight.DoChan(fp, func() (any, error) {
		return nil, e.prepare(detached, texts, fp)
	})
	select {
	case res := <-ch:
		if res.Shared {
			e.logger.Debug().Str("fingerprint", fp[:12]).Msg("joined in-flight prepare")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) prepare(ctx context.Context, texts map[catalog.Key]string, fp string) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordPrepare(time.Since(start), len(texts), err)
	}()

	keys := sortedKeys(texts)
	inputs := make([]string, len(keys))
	for i, k := range keys {
		inputs[i] = textutil.Normalize(texts[k])
	}

	dim := e.embedder.Dimension()
	vectors := make([][]float32, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Concurrency)
	for lo := 0; lo < len(inputs); lo += e.config.BatchSize {
		hi := min(lo+e.config.BatchSize, len(inputs))
		g.Go(func() error {
			out, err := e.embedder.EmbedBatch(gctx, inputs[lo:hi])
			if err != nil {
				return fmt.Errorf("embed batch %d-%d: %w", lo, hi, err)
			}
			if len(out) != hi-lo {
				return fmt.Errorf("embed batch %d-%d: got %d vectors", lo, hi, len(out))
			}
			for i, v := range out {
				if len(v) != dim {
					return fmt.Errorf("%w: %s has %d values, want %d",
						embedding.ErrDimensionMismatch, keys[lo+i], len(v), dim)
				}
				vectors[lo+i] = v
			}
			return nil
		})
	}
	// Single barrier: the matrix is only published once every batch is done.
	if err := g.Wait(); err != nil {
		return err
	}

	snap := newSnapshot(keys, vectors, fp)
	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()

	e.logger.Info().
		Int("elements", len(keys)).
		Str("fingerprint", fp[:12]).
		Dur("duration", time.Since(start)).
		Msg("catalog embeddings prepared")

	e.persist(ctx, snap, time.Since(start))
	return nil
}

// persist writes the artifact. A failed write leaves the in-memory matrix
// usable; the next start simply recomputes.
func (e *Engine) persist(ctx context.Context, snap *snapshot, took time.Duration) {
	if e.store == nil {
		return
	}

	matrix := storage.EmbeddingMatrix{
		Keys:        make([]storage.MatrixKey, len(snap.keys)),
		Vectors:     snap.vectors,
		Fingerprint: snap.fingerprint,
		Model:       e.embedder.Model(),
		Dimension:   e.embedder.Dimension(),
	}
	for i, k := range snap.keys {
		matrix.Keys[i] = storage.MatrixKey{Type: string(k.Type), ID: k.ID}
	}

	version, err := e.store.Save(ctx, storage.EmbeddingsArtifact, matrix, storage.ArtifactMetadata{
		Fingerprint:  matrix.Fingerprint,
		Model:        matrix.Model,
		Dimension:    matrix.Dimension,
		ElementCount: len(matrix.Keys),
		ComputedAt:   time.Now().UTC(),
		DurationMS:   took.Milliseconds(),
	})
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to persist embedding matrix")
		return
	}
	if _, err := e.store.Prune(ctx, storage.EmbeddingsArtifact, e.config.KeepVersions); err != nil {
		e.logger.Warn().Err(err).Msg("failed to prune old embedding artifacts")
	}
	e.logger.Debug().Int("version", version).Msg("embedding matrix persisted")
}

// LoadCache restores the persisted matrix if it was computed from exactly
// texts with the current model. It reports whether the restore succeeded.
func (e *Engine) LoadCache(ctx context.Context, texts map[catalog.Key]string) bool {
	if e.store == nil {
		metrics.RecordCacheLoad(loadDisabled)
		return false
	}

	var matrix storage.EmbeddingMatrix
	meta, err := e.store.Load(ctx, storage.EmbeddingsArtifact, 0, &matrix)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		metrics.RecordCacheLoad(metrics.ResultMiss)
		e.logger.Debug().Msg("no embedding cache on disk")
		return false
	case err != nil:
		metrics.RecordCacheLoad(metrics.ResultError)
		e.logger.Warn().Err(err).Msg("failed to read embedding cache")
		return false
	}

	fp := Fingerprint(texts, e.embedder.Model(), e.embedder.Dimension())
	snap, err := e.verify(&matrix, texts, fp)
	if err != nil {
		metrics.RecordCacheLoad(loadMismatch)
		e.logger.Info().Err(err).Int("version", meta.Version).Msg("embedding cache is stale")
		return false
	}

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()

	metrics.RecordCacheLoad(metrics.ResultHit)
	e.logger.Info().
		Int("elements", len(snap.keys)).
		Int("version", meta.Version).
		Time("computed_at", meta.ComputedAt).
		Msg("embedding cache restored")
	return true
}

// verify checks that matrix belongs to texts and the current model and
// converts it to a snapshot.
func (e *Engine) verify(matrix *storage.EmbeddingMatrix, texts map[catalog.Key]string, fp string) (*snapshot, error) {
	if model := e.embedder.Model(); matrix.Model != model {
		return nil, &recommend.CacheMismatchError{Field: "model", Expected: model, Actual: matrix.Model}
	}
	dim := e.embedder.Dimension()
	if matrix.Dimension != dim {
		return nil, &recommend.CacheMismatchError{
			Field: "dimension", Expected: strconv.Itoa(dim), Actual: strconv.Itoa(matrix.Dimension),
		}
	}
	if matrix.Fingerprint != fp {
		return nil, &recommend.CacheMismatchError{Field: "fingerprint", Expected: fp, Actual: matrix.Fingerprint}
	}
	if len(matrix.Keys) != len(texts) || len(matrix.Vectors) != len(matrix.Keys) {
		return nil, &recommend.CacheMismatchError{
			Field: "size", Expected: strconv.Itoa(len(texts)), Actual: strconv.Itoa(len(matrix.Keys)),
		}
	}

	keys := make([]catalog.Key, len(matrix.Keys))
	for i, mk := range matrix.Keys {
		k := catalog.Key{Type: catalog.ElementType(mk.Type), ID: mk.ID}
		if _, ok := texts[k]; !ok {
			return nil, &recommend.CacheMismatchError{Field: "key", Expected: "catalog element", Actual: k.String()}
		}
		if len(matrix.Vectors[i]) != dim {
			return nil, &recommend.CacheMismatchError{
				Field: "vector", Expected: strconv.Itoa(dim), Actual: strconv.Itoa(len(matrix.Vectors[i])),
			}
		}
		keys[i] = k
	}
	return newSnapshot(keys, matrix.Vectors, fp), nil
}

// Score embeds query once and returns its cosine similarity with every
// prepared element, clipped to [0, 1].
func (e *Engine) Score(ctx context.Context, query string) (map[catalog.Key]float64, error) {
	normalized := textutil.Normalize(query)
	if normalized == "" {
		return nil, &recommend.InvalidQueryError{Reason: "query is empty"}
	}

	snap := e.current()
	if snap == nil {
		return nil, recommend.ErrNotPrepared
	}
	if len(snap.keys) == 0 {
		return map[catalog.Key]float64{}, nil
	}

	qv, err := e.embedder.Embed(ctx, normalized)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qv) != e.embedder.Dimension() {
		return nil, &recommend.InvalidQueryError{
			Reason: "query embedding has wrong dimension",
			Err:    embedding.ErrDimensionMismatch,
		}
	}
	qnorm := norm(qv)
	if qnorm == 0 {
		return nil, &recommend.InvalidQueryError{Reason: "query has no embeddable content"}
	}

	out := make(map[catalog.Key]float64, len(snap.keys))
	for i, k := range snap.keys {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[k] = cosine(qv, qnorm, snap.vectors[i], snap.norms[i])
	}
	return out, nil
}

// Fingerprint returns the fingerprint of the current matrix, or "" before
// the first Prepare or LoadCache.
func (e *Engine) Fingerprint() string {
	if snap := e.current(); snap != nil {
		return snap.fingerprint
	}
	return ""
}

// Len returns the number of prepared elements.
func (e *Engine) Len() int {
	if snap := e.current(); snap != nil {
		return len(snap.keys)
	}
	return 0
}

func (e *Engine) current() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

func newSnapshot(keys []catalog.Key, vectors [][]float32, fp string) *snapshot {
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = norm(v)
	}
	return &snapshot{keys: keys, vectors: vectors, norms: norms, fingerprint: fp}
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine returns the similarity of a and b clipped to [0, 1]. Negative
// similarity counts as unrelated.
func cosine(a []float32, na float64, b []float32, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	s := dot / (na * nb)
	switch {
	case math.IsNaN(s) || s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
