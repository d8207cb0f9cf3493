// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

var (
	// ErrRateLimited is returned when the call budget is exhausted.
	ErrRateLimited = errors.New("llm call rate limited")

	// ErrEmptyCompletion is returned when the model answers with no text.
	ErrEmptyCompletion = errors.New("llm returned an empty completion")
)

// NewModel creates the langchaingo model named by cfg.
//
//nolint:gocritic // Config is a small value type
func NewModel(cfg Config) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.URL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.URL))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
		return model, nil

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("OpenAI API key required")
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.URL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.URL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// Client guards a model with a rate limiter, a circuit breaker and a
// per-call timeout. The enricher and the reporter share one Client, so both
// draw from one budget and trip one breaker.
type Client struct {
	model   llms.Model
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	cfg     Config
}

// NewClient guards model with the limits in cfg.
//
//nolint:gocritic // Config is a small value type; logger by value for zerolog
func NewClient(model llms.Model, cfg Config, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid enrichment config: %w", err)
	}
	logger = logger.With().Str("component", "llm").Str("model", cfg.Model).Logger()
	return &Client{
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		breaker: newBreaker("llm-"+string(cfg.Provider), cfg.BreakerThreshold, cfg.BreakerTimeout, logger),
		cfg:     cfg,
	}, nil
}

// generate sends a system and a user message and returns the trimmed first
// choice. It never waits for rate budget.
func (c *Client) generate(ctx context.Context, system, user string) (string, error) {
	if !c.limiter.Allow() {
		return "", ErrRateLimited
	}

	out, err := c.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		resp, err := c.model.GenerateContent(callCtx, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		})
		if err != nil {
			if callCtx.Err() != nil && ctx.Err() == nil {
				return "", fmt.Errorf("generate: %w", context.DeadlineExceeded)
			}
			return "", fmt.Errorf("generate: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyCompletion
		}
		text := strings.TrimSpace(resp.Choices[0].Content)
		if text == "" {
			return "", ErrEmptyCompletion
		}
		return text, nil
	})
	recordBreakerResult(c.breaker, err)
	return out, err
}
