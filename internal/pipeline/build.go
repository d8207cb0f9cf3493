// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/config"
	"github.com/vibeyf-ai/vibeyf/internal/embedding"
	"github.com/vibeyf-ai/vibeyf/internal/enrich"
	"github.com/vibeyf-ai/vibeyf/internal/events"
	"github.com/vibeyf-ai/vibeyf/internal/kv"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/recommend/similarity"
	"github.com/vibeyf-ai/vibeyf/internal/recommend/storage"
	"github.com/vibeyf-ai/vibeyf/internal/results"
)

// App holds every component built from one configuration.
type App struct {
	Config      *config.Config
	Embedder    embedding.Embedder
	Engine      *recommend.Engine
	Recommender *Recommender

	// Results reads and writes result documents across every configured store.
	Results results.Store

	// History is the BadgerDB result store, nil when disabled.
	History *results.BadgerStore

	// Bus is the event bus, nil when events are disabled. When set, result
	// documents reach Results only through a consumer of the bus.
	Bus *events.Bus

	db *badger.DB
}

// Build assembles the application from cfg. It opens files and databases but
// does not embed the catalog; call Engine.EnsureReady before serving.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (_ *App, err error) {
	app := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if cfg.Storage.BadgerPath != "" && (cfg.Storage.History || cfg.Embedding.PersistentCache) {
		if app.db, err = kv.Open(cfg.Storage.BadgerPath); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	provider, err := embedding.New(cfg.Embedding.ProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	cacheOpts := embedding.CacheOptions{
		Entries: cfg.Embedding.CacheEntries,
		TTL:     cfg.Embedding.CacheTTL,
	}
	if app.db != nil && cfg.Embedding.PersistentCache {
		cacheOpts.Store = embedding.NewBadgerVectorStore(app.db, cfg.Embedding.CacheTTL)
	}
	app.Embedder = embedding.NewCachingEmbedder(provider, cacheOpts, logger)

	artifacts, err := storage.NewStore(cfg.Storage.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	index := similarity.NewEngine(app.Embedder, artifacts, cfg.Embedding.SimilarityConfig(), logger)

	app.Engine, err = recommend.NewEngine(&cfg.Recommend, cat, index, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	files, err := results.NewFileStore(cfg.Storage.ResponsesDir)
	if err != nil {
		return nil, fmt.Errorf("open responses directory: %w", err)
	}
	app.Results = files
	if app.db != nil && cfg.Storage.History {
		app.History = results.NewBadgerStore(app.db)
		app.Results = results.Tee{files, app.History}
	}

	opts := Options{Answers: app.Results}
	if cfg.Enrichment.Enabled {
		if opts.Enricher, opts.Reporter, err = buildEnrichment(&cfg.Enrichment, logger); err != nil {
			return nil, err
		}
	}
	if cfg.Events.Enabled {
		app.Bus = events.NewBus(cfg.Events.BusConfig(), logger)
		opts.Sink = app.Bus
	} else {
		opts.Sink = StoreSink{Store: app.Results}
	}

	app.Recommender = NewRecommender(app.Engine, opts, logger)

	logger.Info().
		Int("catalog_size", cat.Len()).
		Str("embedding_provider", cfg.Embedding.Provider).
		Bool("enrichment", cfg.Enrichment.Enabled).
		Bool("history", app.History != nil).
		Bool("events", app.Bus != nil).
		Msg("pipeline assembled")
	return app, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildEnrichment(cfg *config.EnrichmentConfig, logger zerolog.Logger) (enrich.Enricher, ReportGenerator, error) {
	clientCfg := cfg.ClientConfig()
	model, err := enrich.NewModel(clientCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create enrichment model: %w", err)
	}
	client, err := enrich.NewClient(model, clientCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create enrichment client: %w", err)
	}

	var reporter ReportGenerator
	if cfg.ReportEnabled {
		reporter = enrich.NewReporter(client, logger)
	}
	return enrich.NewLLMEnricher(client, logger), reporter, nil
}

// Close releases the bus and the database.
func (a *App) Close() error {
	var errs []error
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close badger: %w", err))
		}
	}
	return errors.Join(errs...)
}
