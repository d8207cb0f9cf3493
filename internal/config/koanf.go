// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vibeyf/config.yaml",
	"/etc/vibeyf/config.yml",
}

// ConfigPathEnvVar names the environment variable holding the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from layered sources:
//  1. Defaults
//  2. A YAML file: path if set, else CONFIG_PATH, else the first of DefaultConfigPaths that exists
//  3. Environment variables
//
// The result is validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// LOG_LEVEL -> logging.level, EMBED_PROVIDER -> embedding.provider
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated string values of slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_path":           "catalog.path",
	"catalog_watch_interval": "catalog.watch_interval",

	// Embedding
	"embed_provider":         "embedding.provider",
	"embed_model":            "embedding.model",
	"embed_url":              "embedding.url",
	"embed_api_key":          "embedding.api_key",
	"embed_dimension":        "embedding.dimension",
	"embed_batch_size":       "embedding.batch_size",
	"embed_concurrency":      "embedding.concurrency",
	"embed_keep_versions":    "embedding.keep_versions",
	"embed_cache_entries":    "embedding.cache_entries",
	"embed_cache_ttl":        "embedding.cache_ttl",
	"embed_persistent_cache": "embedding.persistent_cache",

	// Enrichment
	"enrich_enabled":           "enrichment.enabled",
	"enrich_provider":          "enrichment.provider",
	"enrich_model":             "enrichment.model",
	"enrich_url":               "enrichment.url",
	"enrich_api_key":           "enrichment.api_key",
	"enrich_timeout":           "enrichment.timeout",
	"enrich_rate":              "enrichment.rate",
	"enrich_burst":             "enrichment.burst",
	"enrich_breaker_threshold": "enrichment.breaker_threshold",
	"enrich_breaker_timeout":   "enrichment.breaker_timeout",
	"enrich_max_chars":         "enrichment.max_chars",
	"enrich_report_enabled":    "enrichment.report_enabled",

	// Recommendation engine
	"recommend_mood_weight":         "recommend.weights.mood",
	"recommend_openness_weight_min": "recommend.openness.semantic_weight_min",
	"recommend_openness_weight_max": "recommend.openness.semantic_weight_max",
	"recommend_genre_boost":         "recommend.genre_boost",
	"recommend_default_top_n":       "recommend.limits.default_top_n",
	"recommend_max_top_n":           "recommend.limits.max_top_n",
	"recommend_workers":             "recommend.limits.workers",

	// Storage
	"responses_dir":   "storage.responses_dir",
	"cache_dir":       "storage.cache_dir",
	"badger_path":     "storage.badger_path",
	"history_enabled": "storage.history",

	// Events
	"events_enabled":        "events.enabled",
	"events_buffer_size":    "events.buffer_size",
	"events_max_deliveries": "events.max_deliveries",
}

// envTransformFunc maps an environment variable name to a config path.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - LOG_LEVEL -> logging.level
//   - HTTP_PORT -> server.port
//   - RECOMMEND_GENRE_BOOST -> recommend.genre_boost
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
