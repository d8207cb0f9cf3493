// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/config"
	"github.com/vibeyf-ai/vibeyf/internal/embedding"
	"github.com/vibeyf-ai/vibeyf/internal/enrich"
	"github.com/vibeyf-ai/vibeyf/internal/questionnaire"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/recommend/similarity"
	"github.com/vibeyf-ai/vibeyf/internal/results"
	"github.com/vibeyf-ai/vibeyf/internal/validation"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type fakeEnricher struct {
	result enrich.Result
	inputs []string
}

func (f *fakeEnricher) Enrich(_ context.Context, text string) enrich.Result {
	f.inputs = append(f.inputs, text)
	return f.result
}

type fakeReporter struct {
	err   error
	calls int
}

func (f *fakeReporter) Report(_ context.Context, in *enrich.ReportInput) (*enrich.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &enrich.Report{Synthese: "top: " + in.Top[0].Element.Name, PlanProgression: "plan"}, nil
}

// memoryStore records every call.
type memoryStore struct {
	mu       sync.Mutex
	answers  []*results.AnswersRecord
	docs     map[string]*results.Document
	saveErr  error
	delivers int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string]*results.Document)}
}

func (m *memoryStore) SaveAnswers(_ context.Context, rec *results.AnswersRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.answers = append(m.answers, rec)
	return nil
}

func (m *memoryStore) SaveResult(_ context.Context, doc *results.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivers++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.UserID] = doc
	return nil
}

func (m *memoryStore) LoadResult(_ context.Context, userID string) (*results.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return nil, results.ErrNotFound
	}
	return doc, nil
}

func newTestEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	cat, err := catalog.New([]catalog.MusicalElement{
		{ID: "s1", Type: catalog.TypeSong, Name: "Neon", Artist: "Lumen", Genre: "Pop",
			SemanticText: "upbeat dance pop", Audio: map[string]float64{catalog.AttrEnergy: 0.9}},
		{ID: "s2", Type: catalog.TypeSong, Name: "Blue", Artist: "Quartet", Genre: "Jazz",
			SemanticText: "slow smoky jazz", Audio: map[string]float64{catalog.AttrEnergy: 0.2}},
		{ID: "c1", Type: catalog.TypeCollection, Name: "Party", SemanticText: "dance party pop hits"},
	})
	if err != nil {
		t.Fatal(err)
	}
	index := similarity.NewEngine(embedding.NewHashEmbedder(0), nil, similarity.DefaultConfig(), zerolog.Nop())
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), cat, index, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady() error = %v", err)
	}
	return engine
}

func popAnswers() questionnaire.Answers {
	return questionnaire.Answers{
		Mood:     "  upbeat dance ",
		Genres:   []string{"pop"},
		Likert:   map[string]int{catalog.AttrEnergy: 5},
		Openness: 3,
	}
}

func TestRecommender_Run(t *testing.T) {
	store := newMemoryStore()
	enricher := &fakeEnricher{result: enrich.Result{Text: "upbeat dance pop party", Outcome: enrich.OutcomeEnriched}}
	r := NewRecommender(newTestEngine(t), Options{
		Enricher: enricher,
		Answers:  store,
		Sink:     StoreSink{Store: store},
		Now:      func() time.Time { return fixedNow },
	}, zerolog.Nop())

	doc, err := r.Run(context.Background(), popAnswers(), "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if doc.UserID != "20260102_030405" {
		t.Errorf("UserID = %q, want 20260102_030405", doc.UserID)
	}
	if !doc.Timestamp.Equal(fixedNow) {
		t.Errorf("Timestamp = %v", doc.Timestamp)
	}
	if doc.OriginalText != "upbeat dance pop" {
		t.Errorf("OriginalText = %q, want %q", doc.OriginalText, "upbeat dance pop")
	}
	if len(enricher.inputs) != 1 || enricher.inputs[0] != doc.OriginalText {
		t.Errorf("enricher inputs = %q", enricher.inputs)
	}
	if doc.EnrichedText == nil || *doc.EnrichedText != "upbeat dance pop party" {
		t.Errorf("EnrichedText = %v", doc.EnrichedText)
	}
	if doc.AudioPreferences[catalog.AttrEnergy] != 5 {
		t.Errorf("AudioPreferences = %v", doc.AudioPreferences)
	}
	if len(doc.Recommendations.Top) != 3 {
		t.Fatalf("Top has %d entries, want 3", len(doc.Recommendations.Top))
	}
	if doc.Recommendations.Top[2].ID != "s2" {
		t.Errorf("jazz song ranked %+v, want last", doc.Recommendations.Top)
	}
	if doc.Recommendations.Statistics.Evaluated != 3 {
		t.Errorf("Evaluated = %d, want 3", doc.Recommendations.Statistics.Evaluated)
	}
	if doc.Report != nil {
		t.Error("Report should be nil without a reporter")
	}

	if len(store.answers) != 1 || store.answers[0].Answers.Mood != "upbeat dance" {
		t.Errorf("saved answers = %+v", store.answers)
	}
	if _, err := store.LoadResult(context.Background(), doc.UserID); err != nil {
		t.Errorf("document not delivered: %v", err)
	}
}

func TestRecommender_RunErrors(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("invalid answers", func(t *testing.T) {
		store := newMemoryStore()
		r := NewRecommender(engine, Options{Answers: store, Sink: StoreSink{Store: store}}, zerolog.Nop())
		_, err := r.Run(context.Background(), questionnaire.Answers{Openness: 3}, "u1")
		var verr *validation.RequestValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Run() error = %v, want a validation error", err)
		}
		if len(store.answers) != 0 || store.delivers != 0 {
			t.Error("nothing should be stored for invalid answers")
		}
	})

	t.Run("invalid user id", func(t *testing.T) {
		r := NewRecommender(engine, Options{}, zerolog.Nop())
		_, err := r.Run(context.Background(), popAnswers(), "../etc")
		if !errors.Is(err, results.ErrInvalidUserID) {
			t.Fatalf("Run() error = %v, want ErrInvalidUserID", err)
		}
	})

	t.Run("query without content", func(t *testing.T) {
		r := NewRecommender(engine, Options{}, zerolog.Nop())
		_, err := r.Run(context.Background(), questionnaire.Answers{Mood: "!!!"}, "u2")
		var invalid *recommend.InvalidQueryError
		if !errors.As(err, &invalid) {
			t.Fatalf("Run() error = %v, want InvalidQueryError", err)
		}
	})
}

func TestRecommender_EnrichmentFallback(t *testing.T) {
	tests := []struct {
		name   string
		result enrich.Result
	}{
		{"disabled", enrich.Result{Outcome: enrich.OutcomeDisabled}},
		{"failed", enrich.Result{Outcome: enrich.OutcomeFailed, Err: errors.New("boom")}},
		{"timeout", enrich.Result{Outcome: enrich.OutcomeTimeout, Err: context.DeadlineExceeded}},
		{"unchanged", enrich.Result{Outcome: enrich.OutcomeEnriched, Text: "upbeat dance pop"}},
	}

	engine := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecommender(engine, Options{Enricher: &fakeEnricher{result: tt.result}}, zerolog.Nop())
			doc, err := r.Run(context.Background(), popAnswers(), "u1")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if doc.EnrichedText != nil {
				t.Errorf("EnrichedText = %q, want nil", *doc.EnrichedText)
			}
			if len(doc.Recommendations.Top) == 0 {
				t.Error("expected recommendations from the original text")
			}
		})
	}
}

func TestRecommender_Report(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("attached", func(t *testing.T) {
		reporter := &fakeReporter{}
		r := NewRecommender(engine, Options{Reporter: reporter}, zerolog.Nop())
		doc, err := r.Run(context.Background(), popAnswers(), "u1")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if doc.Report == nil || doc.Report.PlanProgression != "plan" {
			t.Errorf("Report = %+v", doc.Report)
		}
	})

	t.Run("failure is not fatal", func(t *testing.T) {
		reporter := &fakeReporter{err: errors.New("llm down")}
		r := NewRecommender(engine, Options{Reporter: reporter}, zerolog.Nop())
		doc, err := r.Run(context.Background(), popAnswers(), "u1")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if reporter.calls != 1 || doc.Report != nil {
			t.Errorf("calls = %d, Report = %+v", reporter.calls, doc.Report)
		}
	})
}

func TestRecommender_StoreFailuresAreNotFatal(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	r := NewRecommender(newTestEngine(t), Options{Answers: store, Sink: StoreSink{Store: store}}, zerolog.Nop())

	doc, err := r.Run(context.Background(), popAnswers(), "u1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if doc == nil || store.delivers != 1 {
		t.Errorf("doc = %v, delivers = %d", doc, store.delivers)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.ResponsesDir = filepath.Join(dir, "responses")
	cfg.Storage.CacheDir = filepath.Join(dir, "cache")
	cfg.Storage.BadgerPath = filepath.Join(dir, "badger")
	return cfg
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	app, err := Build(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer app.Close()

	if app.History == nil {
		t.Fatal("History should be enabled with a badger path")
	}
	if _, ok := app.Results.(results.Tee); !ok {
		t.Errorf("Results = %T, want results.Tee", app.Results)
	}
	if app.Bus != nil {
		t.Error("Bus should be nil when events are disabled")
	}
	if app.Engine.Catalog().Len() == 0 {
		t.Error("bundled catalog should not be empty")
	}

	if err := app.Engine.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady() error = %v", err)
	}
	doc, err := app.Recommender.Run(ctx, questionnaire.Answers{
		Mood:     "chill et concentré",
		Genres:   []string{"LoFi", "Jazz"},
		Openness: 2,
	}, "alice")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.Storage.ResponsesDir, "resultat_alice.json")); err != nil {
		t.Errorf("result file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Storage.ResponsesDir, "reponses_alice.json")); err != nil {
		t.Errorf("answers file missing: %v", err)
	}
	stored, err := app.History.LoadResult(ctx, "alice")
	if err != nil {
		t.Fatalf("History.LoadResult() error = %v", err)
	}
	if len(stored.Recommendations.Top) != len(doc.Recommendations.Top) {
		t.Errorf("stored %d entries, served %d", len(stored.Recommendations.Top), len(doc.Recommendations.Top))
	}
}

func TestBuild_Variants(t *testing.T) {
	t.Run("events enabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Events.Enabled = true
		app, err := Build(context.Background(), cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		defer app.Close()
		if app.Bus == nil {
			t.Error("Bus should be set")
		}
	})

	t.Run("no badger", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.BadgerPath = ""
		app, err := Build(context.Background(), cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		defer app.Close()
		if app.History != nil {
			t.Error("History should be nil without a badger path")
		}
		if _, ok := app.Results.(*results.FileStore); !ok {
			t.Errorf("Results = %T, want *results.FileStore", app.Results)
		}
	})

	t.Run("missing catalog", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")
		if _, err := Build(context.Background(), cfg, zerolog.Nop()); err == nil {
			t.Fatal("expected error for a missing catalog")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := Build(ctx, testConfig(t), zerolog.Nop()); !errors.Is(err, context.Canceled) {
			t.Fatalf("Build() error = %v, want context.Canceled", err)
		}
	})
}
