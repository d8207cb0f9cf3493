// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
)

// fakeModel answers with respond, which sees the system prompt and the
// user message.
type fakeModel struct {
	mu      sync.Mutex
	calls   int
	respond func(ctx context.Context, system, user string) (string, error)
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	var system, user string
	for _, m := range messages {
		for _, p := range m.Parts {
			text, ok := p.(llms.TextContent)
			if !ok {
				continue
			}
			if m.Role == llms.ChatMessageTypeSystem {
				system = text.Text
			} else {
				user = text.Text
			}
		}
	}
	out, err := f.respond(ctx, system, user)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: out}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, _ ...llms.CallOption) (string, error) {
	return f.respond(ctx, "", prompt)
}

func (f *fakeModel) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func answer(s string) func(context.Context, string, string) (string, error) {
	return func(context.Context, string, string) (string, error) { return s, nil }
}

func fail(err error) func(context.Context, string, string) (string, error) {
	return func(context.Context, string, string) (string, error) { return "", err }
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = time.Second
	cfg.Rate = 1000
	cfg.Burst = 100
	return cfg
}

func newTestEnricher(t *testing.T, model *fakeModel, cfg Config) *LLMEnricher {
	t.Helper()
	client, err := NewClient(model, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewLLMEnricher(client, zerolog.Nop())
}

func TestNoop(t *testing.T) {
	res := Noop{}.Enrich(context.Background(), "chill")
	if res.Outcome != OutcomeDisabled || res.Enriched() {
		t.Errorf("Noop.Enrich() = %+v", res)
	}
	if got := res.TextOr("chill"); got != "chill" {
		t.Errorf("TextOr() = %q, want fallback", got)
	}
}

func TestResult_TextOr(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Text: "calm jazz", Outcome: OutcomeEnriched}, "calm jazz"},
		{Result{Outcome: OutcomeEnriched}, "orig"},
		{Result{Text: "ignored", Outcome: OutcomeFailed}, "orig"},
		{Result{Outcome: OutcomeTimeout}, "orig"},
	}
	for _, tt := range tests {
		if got := tt.res.TextOr("orig"); got != tt.want {
			t.Errorf("%+v.TextOr() = %q, want %q", tt.res, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "default", modify: func(*Config) {}},
		{name: "openai", modify: func(c *Config) { c.Provider = ProviderOpenAI }},
		{name: "unknown provider", modify: func(c *Config) { c.Provider = "gemini" }, wantErr: true},
		{name: "no model", modify: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "zero rate", modify: func(c *Config) { c.Rate = 0 }, wantErr: true},
		{name: "zero burst", modify: func(c *Config) { c.Burst = 0 }, wantErr: true},
		{name: "zero threshold", modify: func(c *Config) { c.BreakerThreshold = 0 }, wantErr: true},
		{name: "zero breaker timeout", modify: func(c *Config) { c.BreakerTimeout = 0 }, wantErr: true},
		{name: "zero max chars", modify: func(c *Config) { c.MaxChars = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLLMEnricher_Outcomes(t *testing.T) {
	errBackend := errors.New("backend down")
	slow := func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	tests := []struct {
		name        string
		input       string
		respond     func(context.Context, string, string) (string, error)
		timeout     time.Duration
		wantOutcome Outcome
		wantText    string
		wantErr     error
		wantCalls   int
	}{
		{
			name:        "enriched",
			input:       "je suis chill",
			respond:     answer(`  "Ambiance calme et détendue,   jazz doux"  `),
			wantOutcome: OutcomeEnriched,
			wantText:    "Ambiance calme et détendue, jazz doux",
			wantCalls:   1,
		},
		{
			name:        "empty input",
			input:       "   ",
			respond:     answer("never"),
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "backend error",
			input:       "chill",
			respond:     fail(errBackend),
			wantOutcome: OutcomeFailed,
			wantErr:     errBackend,
			wantCalls:   1,
		},
		{
			name:        "blank completion",
			input:       "chill",
			respond:     answer("  \n "),
			wantOutcome: OutcomeFailed,
			wantErr:     ErrEmptyCompletion,
			wantCalls:   1,
		},
		{
			name:        "quotes only",
			input:       "chill",
			respond:     answer(`""`),
			wantOutcome: OutcomeFailed,
			wantErr:     ErrEmptyCompletion,
			wantCalls:   1,
		},
		{
			name:        "timeout",
			input:       "chill",
			respond:     slow,
			timeout:     20 * time.Millisecond,
			wantOutcome: OutcomeTimeout,
			wantErr:     context.DeadlineExceeded,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.timeout > 0 {
				cfg.Timeout = tt.timeout
			}
			model := &fakeModel{respond: tt.respond}
			e := newTestEnricher(t, model, cfg)

			res := e.Enrich(context.Background(), tt.input)
			if res.Outcome != tt.wantOutcome {
				t.Fatalf("Outcome = %q, want %q (err %v)", res.Outcome, tt.wantOutcome, res.Err)
			}
			if res.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", res.Text, tt.wantText)
			}
			if tt.wantErr != nil && !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if got := model.Calls(); got != tt.wantCalls {
				t.Errorf("model calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestLLMEnricher_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = 0.001
	cfg.Burst = 1
	model := &fakeModel{respond: answer("calm jazz")}
	e := newTestEnricher(t, model, cfg)

	counter := metrics.EnrichmentOutcomes.WithLabelValues(string(OutcomeRateLimited))
	before := testutil.ToFloat64(counter)

	if res := e.Enrich(context.Background(), "chill"); res.Outcome != OutcomeEnriched {
		t.Fatalf("first call Outcome = %q", res.Outcome)
	}
	res := e.Enrich(context.Background(), "chill")
	if res.Outcome != OutcomeRateLimited || !errors.Is(res.Err, ErrRateLimited) {
		t.Errorf("second call = %+v, want rate limited", res)
	}
	if model.Calls() != 1 {
		t.Errorf("model calls = %d, want 1", model.Calls())
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("rate_limited outcomes recorded = %v, want 1", got)
	}
}

func TestLLMEnricher_BreakerOpens(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerThreshold = 2
	cfg.BreakerTimeout = time.Hour
	model := &fakeModel{respond: fail(errors.New("boom"))}
	e := newTestEnricher(t, model, cfg)

	for i := 0; i < 2; i++ {
		if res := e.Enrich(context.Background(), "chill"); res.Outcome != OutcomeFailed {
			t.Fatalf("call %d Outcome = %q, want failed", i, res.Outcome)
		}
	}
	res := e.Enrich(context.Background(), "chill")
	if res.Outcome != OutcomeRejected {
		t.Errorf("Outcome = %q, want rejected", res.Outcome)
	}
	if model.Calls() != 2 {
		t.Errorf("model calls = %d, want 2", model.Calls())
	}
}

func TestLLMEnricher_CallerCancelDoesNotTrip(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerThreshold = 1
	model := &fakeModel{respond: func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	e := newTestEnricher(t, model, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if res := e.Enrich(ctx, "chill"); res.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %q, want failed", res.Outcome)
	}

	model.respond = answer("calm")
	if res := e.Enrich(context.Background(), "chill"); res.Outcome != OutcomeEnriched {
		t.Errorf("Outcome after cancel = %q, want enriched", res.Outcome)
	}
}

func TestLLMEnricher_Truncates(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChars = 6
	e := newTestEnricher(t, &fakeModel{respond: answer("énergie brute")}, cfg)

	res := e.Enrich(context.Background(), "sport")
	if res.Text != "énergi" {
		t.Errorf("Text = %q, want %q", res.Text, "énergi")
	}
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Burst = 0
	if _, err := NewClient(&fakeModel{respond: answer("x")}, cfg, zerolog.Nop()); err == nil {
		t.Error("NewClient() = nil error, want invalid config")
	}
}

func reportInput() *ReportInput {
	return &ReportInput{
		OriginalText: "chill jazz",
		EnrichedText: "calm smoky jazz",
		Top: []recommend.RankedElement{
			{
				ScoredElement: recommend.ScoredElement{
					Element: catalog.MusicalElement{
						ID: "s2", Type: catalog.TypeSong, Name: "Blue Smoke",
						Artist: "Trio", Genre: "Jazz", Description: "slow smoky jazz",
					},
					Scores: recommend.ScoreBreakdown{Global: 0.71},
				},
				Rank: 1,
			},
			{
				ScoredElement: recommend.ScoredElement{
					Element: catalog.MusicalElement{ID: "c1", Type: catalog.TypeCollection, Name: "Late Night"},
					Scores:  recommend.ScoreBreakdown{Global: 0.42},
				},
				Rank: 2,
			},
		},
	}
}

func TestReporter_Report(t *testing.T) {
	var prompts sync.Map
	model := &fakeModel{respond: func(_ context.Context, system, user string) (string, error) {
		prompts.Store(system, user)
		if system == synthesisPrompt {
			return "Ces titres partagent une ambiance feutrée.", nil
		}
		return "1. Blue Smoke\n2. Late Night", nil
	}}
	client, err := NewClient(model, testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	report, err := NewReporter(client, zerolog.Nop()).Report(context.Background(), reportInput())
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.Synthese != "Ces titres partagent une ambiance feutrée." {
		t.Errorf("Synthese = %q", report.Synthese)
	}
	if report.PlanProgression != "1. Blue Smoke\n2. Late Night" {
		t.Errorf("PlanProgression = %q", report.PlanProgression)
	}

	user, ok := prompts.Load(synthesisPrompt)
	if !ok {
		t.Fatal("synthesis prompt not sent")
	}
	for _, want := range []string{"chill jazz", "calm smoky jazz", "1. Blue Smoke by Trio (Jazz)", "2. Late Night (collection)"} {
		if !strings.Contains(user.(string), want) {
			t.Errorf("prompt missing %q:\n%s", want, user)
		}
	}
}

func TestReporter_Errors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		client, err := NewClient(&fakeModel{respond: fail(errors.New("boom"))}, testConfig(), zerolog.Nop())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := NewReporter(client, zerolog.Nop()).Report(context.Background(), reportInput()); err == nil {
			t.Error("Report() = nil error, want failure")
		}
	})

	t.Run("nothing to report", func(t *testing.T) {
		model := &fakeModel{respond: answer("x")}
		client, err := NewClient(model, testConfig(), zerolog.Nop())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := NewReporter(client, zerolog.Nop()).Report(context.Background(), &ReportInput{}); err == nil {
			t.Error("Report() = nil error, want failure")
		}
		if model.Calls() != 0 {
			t.Errorf("model calls = %d, want 0", model.Calls())
		}
	})
}

func TestStateConversions(t *testing.T) {
	if stateToString(99) != "unknown" || stateToFloat(99) != -1 {
		t.Error("unknown state not handled")
	}
}
