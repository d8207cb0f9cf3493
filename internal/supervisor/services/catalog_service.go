// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
)

// Catalog reload results.
const (
	reloadSuccess    = "success"
	reloadParseError = "parse_error"
	reloadError      = "error"
)

// CatalogEngine is the subset of recommend.Engine the service drives.
type CatalogEngine interface {
	EnsureReady(ctx context.Context) error
	ReplaceCatalog(ctx context.Context, cat *catalog.Catalog) error
	Catalog() *catalog.Catalog
}

// CatalogServiceConfig holds configuration for the catalog service.
type CatalogServiceConfig struct {
	// Path is the catalog file to watch. Empty disables watching.
	Path string

	// PollInterval is how often Path is checked. Zero disables watching.
	PollInterval time.Duration

	// PrepareTimeout bounds one embedding run.
	// Default: 10m.
	PrepareTimeout time.Duration
}

// CatalogService warms the similarity index and keeps the engine's catalog
// in sync with the catalog file.
type CatalogService struct {
	engine CatalogEngine
	config CatalogServiceConfig
	logger zerolog.Logger

	digest [sha256.Size]byte
}

// NewCatalogService creates a catalog service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogService(engine CatalogEngine, cfg CatalogServiceConfig, logger zerolog.Logger) *CatalogService {
	if cfg.PrepareTimeout <= 0 {
		cfg.PrepareTimeout = 10 * time.Minute
	}
	return &CatalogService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// Serve implements suture.Service. A failed warm-up is returned so the
// supervisor retries it with backoff.
func (s *CatalogService) Serve(ctx context.Context) error {
	if s.config.Path != "" {
		// Remember the content the engine was built from.
		if data, err := os.ReadFile(s.config.Path); err == nil {
			s.digest = sha256.Sum256(data)
		}
	}

	prepCtx, cancel := context.WithTimeout(ctx, s.config.PrepareTimeout)
	err := s.engine.EnsureReady(prepCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("warm similarity index: %w", err)
	}
	publishCatalogSize(s.engine.Catalog())
	s.logger.Info().Int("elements", s.engine.Catalog().Len()).Msg("catalog ready")

	if s.config.Path == "" || s.config.PollInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.checkForChanges(ctx)
		}
	}
}

// checkForChanges reloads the catalog when the file content changed. A file
// that fails to parse is not retried until it changes again; a catalog that
// fails to embed is retried on the next tick.
func (s *CatalogService) checkForChanges(ctx context.Context) {
	data, err := os.ReadFile(s.config.Path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.config.Path).Msg("cannot read catalog file")
		return
	}
	digest := sha256.Sum256(data)
	if digest == s.digest {
		return
	}

	format, err := catalog.FormatFromPath(s.config.Path)
	if err != nil {
		s.digest = digest
		metrics.RecordCatalogReload(reloadParseError)
		s.logger.Error().Err(err).Msg("catalog reload skipped")
		return
	}
	cat, err := catalog.Parse(data, format)
	if err != nil {
		s.digest = digest
		metrics.RecordCatalogReload(reloadParseError)
		s.logger.Error().Err(err).Msg("catalog reload skipped, keeping previous catalog")
		return
	}

	prepCtx, cancel := context.WithTimeout(ctx, s.config.PrepareTimeout)
	defer cancel()
	if err := s.engine.ReplaceCatalog(prepCtx, cat); err != nil {
		metrics.RecordCatalogReload(reloadError)
		s.logger.Error().Err(err).Msg("catalog reload failed, keeping previous catalog")
		return
	}

	s.digest = digest
	metrics.RecordCatalogReload(reloadSuccess)
	publishCatalogSize(cat)
	s.logger.Info().Int("elements", cat.Len()).Msg("catalog reloaded")
}

func publishCatalogSize(cat *catalog.Catalog) {
	counts := make(map[string]int, len(catalog.Types))
	for _, t := range catalog.Types {
		counts[string(t)] = 0
	}
	for t, n := range cat.CountByType() {
		counts[string(t)] = n
	}
	metrics.SetCatalogSize(counts)
}

// String returns the service name for logging.
func (s *CatalogService) String() string {
	return "catalog-service"
}
