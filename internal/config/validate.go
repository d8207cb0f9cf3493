// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/vibeyf-ai/vibeyf/internal/embedding"
	"github.com/vibeyf-ai/vibeyf/internal/logging"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	return c.validateEvents()
}

func (c *Config) validateServer() error {
	s := &c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", s.Port)
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	if s.MaxBodyBytes < 1 {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive, got %d", s.MaxBodyBytes)
	}
	if !s.RateLimitDisabled {
		if s.RateLimitRequests < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", s.RateLimitRequests)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", s.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func (c *Config) validateEmbedding() error {
	e := &c.Embedding
	switch embedding.Provider(e.Provider) {
	case embedding.ProviderHash:
	case embedding.ProviderOllama:
		if e.URL != "" {
			if err := validateHTTPURL(e.URL, "EMBED_URL"); err != nil {
				return err
			}
		}
	case embedding.ProviderOpenAI:
		if e.APIKey == "" {
			return errors.New("EMBED_API_KEY is required when EMBED_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("EMBED_PROVIDER must be hash, ollama or openai, got %q", e.Provider)
	}
	if e.Dimension < 0 {
		return fmt.Errorf("EMBED_DIMENSION must be non-negative, got %d", e.Dimension)
	}
	if e.CacheEntries < 0 {
		return fmt.Errorf("EMBED_CACHE_ENTRIES must be non-negative, got %d", e.CacheEntries)
	}
	if err := e.SimilarityConfig().Validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	e := &c.Enrichment
	if !e.Enabled {
		if e.ReportEnabled {
			return errors.New("ENRICH_REPORT_ENABLED requires ENRICH_ENABLED=true")
		}
		return nil
	}
	if e.URL != "" {
		if err := validateHTTPURL(e.URL, "ENRICH_URL"); err != nil {
			return err
		}
	}
	if e.Provider == "openai" && e.APIKey == "" {
		return errors.New("ENRICH_API_KEY is required when ENRICH_PROVIDER=openai")
	}
	if e.BreakerThreshold < 1 {
		return fmt.Errorf("ENRICH_BREAKER_THRESHOLD must be at least 1, got %d", e.BreakerThreshold)
	}
	if err := e.ClientConfig().Validate(); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.ResponsesDir == "" {
		return errors.New("RESPONSES_DIR is required")
	}
	if c.Storage.CacheDir == "" {
		return errors.New("CACHE_DIR is required")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.BufferSize < 1 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be positive, got %d", c.Events.BufferSize)
	}
	if c.Events.MaxDeliveries < 1 {
		return fmt.Errorf("EVENTS_MAX_DELIVERIES must be positive, got %d", c.Events.MaxDeliveries)
	}
	return nil
}

// validateHTTPURL checks that rawURL is an http(s) base URL.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
