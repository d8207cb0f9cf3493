// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package config

import (
	"os"
	"time"

	"github.com/vibeyf-ai/vibeyf/internal/embedding"
	"github.com/vibeyf-ai/vibeyf/internal/enrich"
	"github.com/vibeyf-ai/vibeyf/internal/events"
	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/recommend/similarity"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Embedding  EmbeddingConfig  `koanf:"embedding"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Recommend  recommend.Config `koanf:"recommend"`
	Storage    StorageConfig    `koanf:"storage"`
	Events     EventsConfig     `koanf:"events"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// MaxBodyBytes caps a request body.
	// Default: 64 KiB.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CORSOrigins lists allowed origins. "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP.
	// Default: 60 per minute.
	RateLimitRequests int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error.
	// Default: info.
	Level string `koanf:"level"`

	// Format: json or console.
	// Default: json.
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// CatalogConfig locates the musical catalog.
type CatalogConfig struct {
	// Path is a YAML or JSON catalog file. Empty uses the bundled catalog.
	Path string `koanf:"path"`

	// WatchInterval is how often the server checks Path for changes.
	// Zero disables watching.
	// Default: 30s.
	WatchInterval time.Duration `koanf:"watch_interval"`
}

// EmbeddingConfig selects the embedding provider and its caches.
type EmbeddingConfig struct {
	// Provider: hash, ollama or openai.
	// Default: hash.
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	URL      string `koanf:"url"`
	APIKey   string `koanf:"api_key"`

	// Dimension is the expected vector size. Zero uses the provider default.
	Dimension int `koanf:"dimension"`

	// BatchSize and Concurrency shape catalog preparation.
	// Default: 32 texts per call, 4 calls in flight.
	BatchSize   int `koanf:"batch_size"`
	Concurrency int `koanf:"concurrency"`

	// KeepVersions is how many embedding matrix artifacts stay on disk.
	// Default: 2.
	KeepVersions int `koanf:"keep_versions"`

	// CacheEntries and CacheTTL size the in-memory vector cache.
	// Default: 4096 entries, no expiry.
	CacheEntries int           `koanf:"cache_entries"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`

	// PersistentCache stores query vectors in the BadgerDB at
	// storage.badger_path.
	// Default: true.
	PersistentCache bool `koanf:"persistent_cache"`
}

// EnrichmentConfig configures LLM text enrichment and the GenAI report.
type EnrichmentConfig struct {
	// Enabled turns on enrichment. Disabled runs use the user's text as is.
	// Default: false.
	Enabled  bool   `koanf:"enabled"`
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	URL      string `koanf:"url"`
	APIKey   string `koanf:"api_key"`

	Timeout          time.Duration `koanf:"timeout"`
	Rate             float64       `koanf:"rate"`
	Burst            int           `koanf:"burst"`
	BreakerThreshold int           `koanf:"breaker_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
	MaxChars         int           `koanf:"max_chars"`

	// ReportEnabled adds the GenAI summary and progression plan to results.
	// Requires Enabled.
	// Default: false.
	ReportEnabled bool `koanf:"report_enabled"`
}

// StorageConfig locates on-disk state.
type StorageConfig struct {
	// ResponsesDir receives reponses_<id>.json and resultat_<id>.json.
	// Default: data/responses.
	ResponsesDir string `koanf:"responses_dir"`

	// CacheDir holds the embedding matrix artifacts.
	// Default: data/cache.
	CacheDir string `koanf:"cache_dir"`

	// BadgerPath is the BadgerDB directory shared by the persistent vector
	// cache and the result history. Empty disables both.
	// Default: data/badger.
	BadgerPath string `koanf:"badger_path"`

	// History keeps every result document in BadgerDB.
	// Default: true.
	History bool `koanf:"history"`
}

// EventsConfig configures the in-process event bus.
type EventsConfig struct {
	// Enabled routes result documents through the bus to the result sink
	// service. Disabled runs persist results synchronously.
	// Default: false.
	Enabled       bool  `koanf:"enabled"`
	BufferSize    int64 `koanf:"buffer_size"`
	MaxDeliveries int   `koanf:"max_deliveries"`
}

// defaultConfig returns a Config with all default values.
func defaultConfig() *Config {
	sim := similarity.DefaultConfig()
	llm := enrich.DefaultConfig()
	bus := events.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxBodyBytes:      64 << 10,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			WatchInterval: 30 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:        string(embedding.ProviderHash),
			BatchSize:       sim.BatchSize,
			Concurrency:     sim.Concurrency,
			KeepVersions:    sim.KeepVersions,
			CacheEntries:    4096,
			PersistentCache: true,
		},
		Enrichment: EnrichmentConfig{
			Provider:         string(llm.Provider),
			Model:            llm.Model,
			Timeout:          llm.Timeout,
			Rate:             llm.Rate,
			Burst:            llm.Burst,
			BreakerThreshold: int(llm.BreakerThreshold),
			BreakerTimeout:   llm.BreakerTimeout,
			MaxChars:         llm.MaxChars,
		},
		Recommend: *recommend.DefaultConfig(),
		Storage: StorageConfig{
			ResponsesDir: "data/responses",
			CacheDir:     "data/cache",
			BadgerPath:   "data/badger",
			History:      true,
		},
		Events: EventsConfig{
			BufferSize:    bus.BufferSize,
			MaxDeliveries: bus.MaxDeliveries,
		},
	}
}

// Default returns the default configuration without reading files or the
// environment.
func Default() *Config {
	return defaultConfig()
}

// LoggerConfig converts the section for logging.Init.
func (c *LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:     c.Level,
		Format:    c.Format,
		Caller:    c.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// ProviderConfig converts the section for embedding.New.
func (c *EmbeddingConfig) ProviderConfig() embedding.Config {
	return embedding.Config{
		Provider:  embedding.Provider(c.Provider),
		Model:     c.Model,
		URL:       c.URL,
		APIKey:    c.APIKey,
		Dimension: c.Dimension,
		BatchSize: c.BatchSize,
	}
}

// SimilarityConfig converts the section for similarity.NewEngine.
func (c *EmbeddingConfig) SimilarityConfig() similarity.Config {
	return similarity.Config{
		BatchSize:    c.BatchSize,
		Concurrency:  c.Concurrency,
		KeepVersions: c.KeepVersions,
	}
}

// ClientConfig converts the section for enrich.NewClient.
func (c *EnrichmentConfig) ClientConfig() enrich.Config {
	return enrich.Config{
		Provider:         enrich.Provider(c.Provider),
		Model:            c.Model,
		URL:              c.URL,
		APIKey:           c.APIKey,
		Timeout:          c.Timeout,
		Rate:             c.Rate,
		Burst:            c.Burst,
		BreakerThreshold: uint32(c.BreakerThreshold), //nolint:gosec // validated positive
		BreakerTimeout:   c.BreakerTimeout,
		MaxChars:         c.MaxChars,
	}
}

// BusConfig converts the section for events.NewBus.
func (c *EventsConfig) BusConfig() events.Config {
	return events.Config{
		BufferSize:    c.BufferSize,
		MaxDeliveries: c.MaxDeliveries,
	}
}
