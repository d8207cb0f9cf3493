// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Package events carries completed recommendation documents from the request
// path to background consumers over an in-process watermill bus.
//
// The HTTP handlers publish a document as soon as it is built and return;
// the result sink service consumes the topic and persists each document,
// acknowledging it only once it is stored.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
	"github.com/vibeyf-ai/vibeyf/internal/results"
)

// TopicRecommendationCompleted carries JSON-encoded results.Document values.
const TopicRecommendationCompleted = "recommendation.completed"

// Metadata keys set on published messages.
const (
	MetadataUserID    = "user_id"
	MetadataRequestID = "request_id"
)

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("event bus is closed")

// Config configures the bus.
type Config struct {
	// BufferSize is the per-subscriber channel buffer.
	// Default: 64.
	BufferSize int64

	// MaxDeliveries is how many times a message is handed to a consumer
	// before it is dropped.
	// Default: 3.
	MaxDeliveries int
}

// DefaultConfig returns the default bus settings.
func DefaultConfig() Config {
	return Config{BufferSize: 64, MaxDeliveries: 3}
}

// Bus is an in-process publish/subscribe bus.
type Bus struct {
	pubsub *gochannel.GoChannel
	config Config
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus. Watermill's own logs go through the zerolog logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.MaxDeliveries <= 0 {
		cfg.MaxDeliveries = DefaultConfig().MaxDeliveries
	}
	logger = logger.With().Str("component", "events").Logger()

	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: cfg.BufferSize},
			watermill.NewSlogLogger(logging.NewSlogLogger(logger)),
		),
		config: cfg,
		logger: logger,
	}
}

// Deliver publishes doc on TopicRecommendationCompleted.
func (b *Bus) Deliver(ctx context.Context, doc *results.Document) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(MetadataUserID, doc.UserID)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		msg.Metadata.Set(MetadataRequestID, requestID)
	}

	err = b.pubsub.Publish(TopicRecommendationCompleted, msg)
	metrics.RecordEvent(TopicRecommendationCompleted, "publish", err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", TopicRecommendationCompleted, err)
	}
	return nil
}

// Subscribe returns the message stream of topic. The stream closes when ctx
// is done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	return b.pubsub.Subscribe(ctx, topic)
}

// Close closes the bus and every subscription.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}

// Decode returns the document carried by msg.
func Decode(msg *message.Message) (*results.Document, error) {
	var doc results.Document
	if err := json.Unmarshal(msg.Payload, &doc); err != nil {
		return nil, fmt.Errorf("decode message %s: %w", msg.UUID, err)
	}
	return &doc, nil
}
