// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

/*
Package services provides suture.Service wrappers for Vibeyf components.

Each wrapper implements suture's Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Serve blocks until ctx is canceled and returns ctx.Err(), or returns an error
to ask the supervisor for a restart.

# Available Services

Catalog (CatalogService):
  - embeds the catalog on start, restoring the cached matrix when it matches
  - polls the catalog file and swaps in a new catalog when its content changes
  - a catalog that fails to parse or embed leaves the previous one in service

Result sink (ResultSinkService):
  - consumes recommendation.completed events from the bus
  - saves each document into a results.Store; failed saves are redelivered

HTTP server (HTTPServerService):
  - wraps *http.Server with graceful shutdown

# Example

	tree.AddDataService(services.NewCatalogService(engine, services.CatalogServiceConfig{
	    Path:         cfg.Catalog.Path,
	    PollInterval: cfg.Catalog.WatchInterval,
	}, logger))
	tree.AddMessagingService(services.NewResultSinkService(bus, store, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
*/
package services
