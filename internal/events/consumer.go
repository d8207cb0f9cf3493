// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/metrics"
	"github.com/vibeyf-ai/vibeyf/internal/results"
)

// DocumentHandler processes one delivered document.
type DocumentHandler func(ctx context.Context, doc *results.Document) error

// Consume subscribes to TopicRecommendationCompleted and calls handle for
// each document until ctx is done. A message is acked once handled, nacked
// for redelivery on error, and dropped after MaxDeliveries failed attempts.
// Undecodable messages are acked and logged.
func (b *Bus) Consume(ctx context.Context, handle DocumentHandler) error {
	messages, err := b.Subscribe(ctx, TopicRecommendationCompleted)
	if err != nil {
		return err
	}
	return b.ConsumeFrom(ctx, messages, handle)
}

// ConsumeFrom runs the Consume loop on an existing subscription.
func (b *Bus) ConsumeFrom(ctx context.Context, messages <-chan *message.Message, handle DocumentHandler) error {
	attempts := make(map[string]int)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.process(ctx, msg, handle, attempts)
		}
	}
}

func (b *Bus) process(ctx context.Context, msg *message.Message, handle DocumentHandler, attempts map[string]int) {
	log := b.logger.With().Str("message_id", msg.UUID).Logger()

	doc, err := Decode(msg)
	if err != nil {
		metrics.RecordEvent(TopicRecommendationCompleted, "consume", err)
		log.Error().Err(err).Msg("dropping undecodable message")
		msg.Ack()
		return
	}

	msgCtx := ctx
	if requestID := msg.Metadata.Get(MetadataRequestID); requestID != "" {
		msgCtx = logging.ContextWithRequestID(ctx, requestID)
	}

	err = handle(msgCtx, doc)
	metrics.RecordEvent(TopicRecommendationCompleted, "consume", err)
	if err == nil {
		delete(attempts, msg.UUID)
		msg.Ack()
		return
	}

	attempts[msg.UUID]++
	if n := attempts[msg.UUID]; n >= b.config.MaxDeliveries {
		delete(attempts, msg.UUID)
		log.Error().Err(err).Str("user_id", doc.UserID).Int("attempts", n).Msg("giving up on document")
		msg.Ack()
		return
	}
	log.Warn().Err(err).Str("user_id", doc.UserID).Msg("document handler failed, redelivering")
	msg.Nack()
}
