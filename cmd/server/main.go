// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package main is the entry point for the Vibeyf HTTP server.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config file, then environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Pipeline: catalog, embedder, similarity index, enrichment, result stores
//  4. Supervisor tree:
//     - data layer: CatalogService warms embeddings and watches the catalog file
//     - messaging layer: ResultSinkService persists published documents
//     - api layer: HTTPServerService serves the REST API and /metrics
//
// # Configuration
//
// The config file is taken from CONFIG_PATH, then config.yaml in the working
// directory or /etc/vibeyf. Common environment overrides:
//
//	HTTP_PORT=8080
//	LOG_LEVEL=debug
//	CATALOG_PATH=/data/catalog.yaml
//	EMBED_PROVIDER=ollama EMBED_MODEL=nomic-embed-text
//	ENRICH_ENABLED=true ENRICH_MODEL=llama3.2
//	EVENTS_ENABLED=true
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains
// in-flight requests within SHUTDOWN_TIMEOUT, then the event bus and the
// badger store are closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vibeyf-ai/vibeyf/internal/api"
	"github.com/vibeyf-ai/vibeyf/internal/config"
	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
	"github.com/vibeyf-ai/vibeyf/internal/pipeline"
	"github.com/vibeyf-ai/vibeyf/internal/supervisor"
	"github.com/vibeyf-ai/vibeyf/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Vibeyf server failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(cfg.Logging.LoggerConfig())
	logger := logging.Logger()
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("catalog", catalogLabel(cfg.Catalog.Path)).
		Str("embedding_provider", cfg.Embedding.Provider).
		Bool("enrichment", cfg.Enrichment.Enabled).
		Bool("events", cfg.Events.Enabled).
		Msg("Starting Vibeyf with supervisor tree")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := pipeline.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing application resources")
		}
	}()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout + treeCfg.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), treeCfg)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewCatalogService(app.Engine, services.CatalogServiceConfig{
		Path:         cfg.Catalog.Path,
		PollInterval: cfg.Catalog.WatchInterval,
	}, logger))

	if app.Bus != nil {
		tree.AddMessagingService(services.NewResultSinkService(app.Bus, app.Results, logger))
	}

	deps := api.Dependencies{
		Recommender:  app.Recommender,
		Engine:       app.Engine,
		Results:      app.Results,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Version:      version,
	}
	if app.History != nil {
		deps.History = app.History
	}
	router := api.NewRouter(
		api.NewHandler(deps, logger),
		api.NewChiMiddlewareFromServer(
			cfg.Server.CORSOrigins,
			cfg.Server.RateLimitReqs,
			cfg.Server.RateLimitWindow,
			cfg.Server.RateLimitDisabled,
		),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout, logger))

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Server.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
			break
		}
	}

	logging.Info().Str("addr", srv.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel carries exactly one value, the result of Serve.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if errors.Is(treeErr, context.Canceled) {
		treeErr = nil
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if treeErr != nil {
		return fmt.Errorf("supervisor tree: %w", treeErr)
	}
	logging.Info().Msg("Vibeyf stopped gracefully")
	return nil
}

func catalogLabel(path string) string {
	if path == "" {
		return "bundled"
	}
	return path
}
