// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package similarity

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/embedding"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/recommend/storage"
)

// slowEmbedder counts batch calls and can delay them.
type slowEmbedder struct {
	*embedding.HashEmbedder
	batches atomic.Int64
	delay   time.Duration
	err     error
	model   string
}

func (s *slowEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.batches.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.HashEmbedder.EmbedBatch(ctx, texts)
}

func (s *slowEmbedder) Model() string {
	if s.model != "" {
		return s.model
	}
	return s.HashEmbedder.Model()
}

func popJazzTexts() map[catalog.Key]string {
	return map[catalog.Key]string{
		{Type: catalog.TypeSong, ID: "s1"}: "upbeat dance pop",
		{Type: catalog.TypeSong, ID: "s2"}: "slow smoky jazz",
	}
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestEngine_PopJazzScenario(t *testing.T) {
	ctx := context.Background()
	cat, err := catalog.New([]catalog.MusicalElement{
		{ID: "s1", Type: catalog.TypeSong, Genre: "Pop", SemanticText: "upbeat dance pop"},
		{ID: "s2", Type: catalog.TypeSong, Genre: "Jazz", SemanticText: "slow smoky jazz"},
	})
	if err != nil {
		t.Fatal(err)
	}

	index := NewEngine(embedding.NewHashEmbedder(0), nil, DefaultConfig(), zerolog.Nop())
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), cat, index, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady() error = %v", err)
	}

	set, err := engine.Recommend(ctx, recommend.Query{
		RawText:         "energetic pop for the gym",
		PreferredGenres: []string{"Pop"},
		Openness:        3,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	scores := map[string]recommend.ScoreBreakdown{}
	for _, r := range set.TopOverall {
		scores[r.Element.ID] = r.Scores
	}
	s1, s2 := scores["s1"], scores["s2"]

	if set.TopOverall[0].Element.ID != "s1" {
		t.Errorf("rank 1 = %s, want s1", set.TopOverall[0].Element.ID)
	}
	if s1.Global <= s2.Global {
		t.Errorf("s1.Global = %v, want > s2.Global = %v", s1.Global, s2.Global)
	}
	if s1.GenreBoost <= 0 || s1.GenreBoost != recommend.DefaultConfig().GenreBoost {
		t.Errorf("s1.GenreBoost = %v", s1.GenreBoost)
	}
	if s2.GenreBoost != 0 {
		t.Errorf("s2.GenreBoost = %v, want 0", s2.GenreBoost)
	}
	if s1.SemanticSimilarity <= s2.SemanticSimilarity {
		t.Errorf("s1 similarity %v should beat s2 %v", s1.SemanticSimilarity, s2.SemanticSimilarity)
	}
}

func TestEngine_Score(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(embedding.NewHashEmbedder(0), nil, DefaultConfig(), zerolog.Nop())

	if _, err := e.Score(ctx, "pop"); !errors.Is(err, recommend.ErrNotPrepared) {
		t.Errorf("Score before Prepare error = %v, want ErrNotPrepared", err)
	}

	if err := e.Prepare(ctx, popJazzTexts()); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if e.Len() != 2 || e.Fingerprint() == "" {
		t.Errorf("Len() = %d, Fingerprint() = %q", e.Len(), e.Fingerprint())
	}

	tests := []struct {
		name        string
		query       string
		wantInvalid bool
	}{
		{name: "normal", query: "energetic pop for the gym"},
		{name: "whitespace and case", query: "  ENERGETIC   Pop\tfor the GYM "},
		{name: "empty", query: "", wantInvalid: true},
		{name: "blank", query: " \n\t ", wantInvalid: true},
		{name: "stopwords only", query: "the and of", wantInvalid: true},
	}
	var reference map[catalog.Key]float64
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Score(ctx, tt.query)
			if tt.wantInvalid {
				var invalid *recommend.InvalidQueryError
				if !errors.As(err, &invalid) {
					t.Errorf("error = %v, want *InvalidQueryError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			for k, v := range got {
				if v < 0 || v > 1 {
					t.Errorf("%v similarity %v outside [0, 1]", k, v)
				}
			}
			if reference == nil {
				reference = got
				return
			}
			for k := range reference {
				if reference[k] != got[k] {
					t.Errorf("normalization changed score for %v: %v vs %v", k, reference[k], got[k])
				}
			}
		})
	}
}

func TestEngine_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(embedding.NewHashEmbedder(0), newStore(t), DefaultConfig(), zerolog.Nop())

	if err := e.Prepare(ctx, map[catalog.Key]string{}); err != nil {
		t.Fatalf("Prepare(empty) error = %v", err)
	}
	got, err := e.Score(ctx, "anything")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Score() = %v, %v; want empty map", got, err)
	}
}

func TestEngine_CacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	texts := popJazzTexts()
	query := "smoky late night jazz"

	first := NewEngine(embedding.NewHashEmbedder(0), store, DefaultConfig(), zerolog.Nop())
	if err := first.Prepare(ctx, texts); err != nil {
		t.Fatal(err)
	}
	fresh, err := first.Score(ctx, query)
	if err != nil {
		t.Fatal(err)
	}

	inner := &slowEmbedder{HashEmbedder: embedding.NewHashEmbedder(0)}
	second := NewEngine(inner, store, DefaultConfig(), zerolog.Nop())
	if !second.LoadCache(ctx, texts) {
		t.Fatal("LoadCache() = false, want true")
	}
	if inner.batches.Load() != 0 {
		t.Error("restoring from cache must not embed the catalog")
	}
	if second.Fingerprint() != first.Fingerprint() {
		t.Error("restored fingerprint differs")
	}

	restored, err := second.Score(ctx, query)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range fresh {
		if math.Abs(restored[k]-v) > 1e-9 {
			t.Errorf("%v: restored %v, fresh %v", k, restored[k], v)
		}
	}
}

func TestEngine_LoadCacheMisses(t *testing.T) {
	ctx := context.Background()
	texts := popJazzTexts()

	t.Run("no store", func(t *testing.T) {
		e := NewEngine(embedding.NewHashEmbedder(0), nil, DefaultConfig(), zerolog.Nop())
		if e.LoadCache(ctx, texts) {
			t.Error("LoadCache() without a store should miss")
		}
	})

	t.Run("nothing saved", func(t *testing.T) {
		e := NewEngine(embedding.NewHashEmbedder(0), newStore(t), DefaultConfig(), zerolog.Nop())
		if e.LoadCache(ctx, texts) {
			t.Error("LoadCache() on an empty store should miss")
		}
	})

	t.Run("catalog changed", func(t *testing.T) {
		store := newStore(t)
		e := NewEngine(embedding.NewHashEmbedder(0), store, DefaultConfig(), zerolog.Nop())
		if err := e.Prepare(ctx, texts); err != nil {
			t.Fatal(err)
		}
		changed := popJazzTexts()
		changed[catalog.Key{Type: catalog.TypeSong, ID: "s2"}] = "slow smoky cool jazz"
		if e.LoadCache(ctx, changed) {
			t.Error("LoadCache() should miss after a text edit")
		}
	})

	t.Run("model changed", func(t *testing.T) {
		store := newStore(t)
		if err := NewEngine(embedding.NewHashEmbedder(0), store, DefaultConfig(), zerolog.Nop()).Prepare(ctx, texts); err != nil {
			t.Fatal(err)
		}
		other := &slowEmbedder{HashEmbedder: embedding.NewHashEmbedder(0), model: "other-model"}
		if NewEngine(other, store, DefaultConfig(), zerolog.Nop()).LoadCache(ctx, texts) {
			t.Error("LoadCache() should miss for a different model")
		}
	})

	t.Run("dimension changed", func(t *testing.T) {
		store := newStore(t)
		if err := NewEngine(embedding.NewHashEmbedder(64), store, DefaultConfig(), zerolog.Nop()).Prepare(ctx, texts); err != nil {
			t.Fatal(err)
		}
		if NewEngine(embedding.NewHashEmbedder(128), store, DefaultConfig(), zerolog.Nop()).LoadCache(ctx, texts) {
			t.Error("LoadCache() should miss for a different dimension")
		}
	})
}

func TestEngine_VerifyReportsMismatch(t *testing.T) {
	e := NewEngine(embedding.NewHashEmbedder(8), nil, DefaultConfig(), zerolog.Nop())
	texts := popJazzTexts()
	fp := Fingerprint(texts, e.embedder.Model(), 8)

	matrix := &storage.EmbeddingMatrix{Model: "x", Dimension: 8, Fingerprint: fp}
	_, err := e.verify(matrix, texts, fp)

	var mismatch *recommend.CacheMismatchError
	if !errors.As(err, &mismatch) || mismatch.Field != "model" {
		t.Errorf("verify() error = %v, want model mismatch", err)
	}
}

func TestEngine_PrepareDeduplicated(t *testing.T) {
	ctx := context.Background()
	inner := &slowEmbedder{HashEmbedder: embedding.NewHashEmbedder(0), delay: 50 * time.Millisecond}
	cfg := DefaultConfig()
	cfg.BatchSize = 100
	e := NewEngine(inner, nil, cfg, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.Prepare(ctx, popJazzTexts()); err != nil {
				t.Errorf("Prepare() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := inner.batches.Load(); got != 1 {
		t.Errorf("embedding batches = %d, want 1", got)
	}
}

func TestEngine_PrepareCancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &slowEmbedder{HashEmbedder: embedding.NewHashEmbedder(0), delay: 150 * time.Millisecond}
	cfg := DefaultConfig()
	cfg.BatchSize = 100
	e := NewEngine(inner, nil, cfg, zerolog.Nop())

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	firstErr := make(chan error, 1)
	go func() { firstErr <- e.Prepare(firstCtx, popJazzTexts()) }()

	deadline := time.Now().Add(2 * time.Second)
	for inner.batches.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("prepare never started")
		}
		time.Sleep(time.Millisecond)
	}

	secondErr := make(chan error, 1)
	go func() { secondErr <- e.Prepare(context.Background(), popJazzTexts()) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Prepare() error = %v, want context.Canceled", err)
	}
	if err := <-secondErr; err != nil {
		t.Fatalf("joined Prepare() error = %v", err)
	}
	if e.Len() != 2 {
		t.Errorf("Len() = %d, want 2", e.Len())
	}
	if got := inner.batches.Load(); got != 1 {
		t.Errorf("embedding batches = %d, want 1", got)
	}
}

func TestEngine_PrepareBatches(t *testing.T) {
	ctx := context.Background()
	inner := &slowEmbedder{HashEmbedder: embedding.NewHashEmbedder(0)}
	cfg := Config{BatchSize: 3, Concurrency: 2}
	e := NewEngine(inner, nil, cfg, zerolog.Nop())

	texts := make(map[catalog.Key]string)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		texts[catalog.Key{Type: catalog.TypeSong, ID: id}] = "song " + id
	}
	if err := e.Prepare(ctx, texts); err != nil {
		t.Fatal(err)
	}
	if got := inner.batches.Load(); got != 3 {
		t.Errorf("batches = %d, want 3", got)
	}
	if e.Len() != 7 {
		t.Errorf("Len() = %d, want 7", e.Len())
	}
}

func TestEngine_PrepareFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	inner := &slowEmbedder{HashEmbedder: embedding.NewHashEmbedder(0)}
	e := NewEngine(inner, nil, DefaultConfig(), zerolog.Nop())

	if err := e.Prepare(ctx, popJazzTexts()); err != nil {
		t.Fatal(err)
	}
	before := e.Fingerprint()

	inner.err = errors.New("provider down")
	more := popJazzTexts()
	more[catalog.Key{Type: catalog.TypeCollection, ID: "c1"}] = "pop hits"
	if err := e.Prepare(ctx, more); err == nil {
		t.Fatal("expected Prepare error")
	}
	if e.Fingerprint() != before || e.Len() != 2 {
		t.Error("failed Prepare replaced the current matrix")
	}
}

func TestFingerprint(t *testing.T) {
	texts := popJazzTexts()
	base := Fingerprint(texts, "m", 8)

	if Fingerprint(popJazzTexts(), "m", 8) != base {
		t.Error("fingerprint is not deterministic")
	}
	if Fingerprint(texts, "m2", 8) == base {
		t.Error("fingerprint must depend on the model")
	}
	if Fingerprint(texts, "m", 16) == base {
		t.Error("fingerprint must depend on the dimension")
	}

	retyped := map[catalog.Key]string{
		{Type: catalog.TypeCollection, ID: "s1"}: "upbeat dance pop",
		{Type: catalog.TypeSong, ID: "s2"}:       "slow smoky jazz",
	}
	if Fingerprint(retyped, "m", 8) == base {
		t.Error("fingerprint must depend on element types")
	}
	if len(base) != 64 {
		t.Errorf("len = %d, want 64 hex chars", len(base))
	}
}

func TestConfig(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
	if err := (Config{BatchSize: 0, Concurrency: 1, KeepVersions: 1}).Validate(); err == nil {
		t.Error("zero batch size should be invalid")
	}
	if got := (Config{}).withDefaults(); got != DefaultConfig() {
		t.Errorf("withDefaults() = %+v", got)
	}
}
