// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

/*
Package config loads Vibeyf configuration with koanf.

Sources are layered, later ones winning:
  - built-in defaults
  - an optional YAML file (explicit path, CONFIG_PATH, config.yaml, /etc/vibeyf/config.yaml)
  - environment variables

# Sections

  - server: HTTP listener, timeouts, CORS and per-IP rate limiting
  - logging: level, format, caller
  - catalog: catalog file and the watch interval used by the server
  - embedding: provider (hash, ollama, openai), batching and vector caches
  - enrichment: LLM rewrite of the user's text and the GenAI report
  - recommend: fusion weights, openness curve, genre boost and limits
  - storage: result files, embedding matrix artifacts, BadgerDB
  - events: in-process bus between the pipeline and the result sink

# Environment Variables

Only mapped names are read, for example:

	HTTP_PORT=9000
	LOG_LEVEL=debug
	CATALOG_PATH=/data/catalog.yaml
	EMBED_PROVIDER=ollama
	ENRICH_ENABLED=true
	RECOMMEND_GENRE_BOOST=0.15
	CORS_ORIGINS=https://a.example,https://b.example

Durations accept Go syntax (30s, 5m). See envMappings for the full list.

# Example YAML

	server:
	  port: 8080
	embedding:
	  provider: ollama
	  url: http://localhost:11434
	recommend:
	  genre_boost: 0.1
	  openness:
	    semantic_weight_min: 0.4
	    semantic_weight_max: 0.8
*/
package config
