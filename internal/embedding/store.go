// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefix for BadgerDB storage
const vectorKeyPrefix = "emb:"

// VectorStore is a persistent second tier for cached embeddings.
type VectorStore interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	PutBatch(ctx context.Context, vectors map[string][]float32) error
}

// BadgerVectorStore persists vectors in BadgerDB as little-endian float32
// arrays. Entries expire after ttl when it is positive.
type BadgerVectorStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerVectorStore wraps an open database.
func NewBadgerVectorStore(db *badger.DB, ttl time.Duration) *BadgerVectorStore {
	return &BadgerVectorStore{db: db, ttl: ttl}
}

// Get returns the vector stored under key.
func (s *BadgerVectorStore) Get(_ context.Context, key string) ([]float32, bool, error) {
	var vec []float32

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(vectorKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			vec, err = decodeVector(val)
			return err
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get vector: %w", err)
	}
	return vec, true, nil
}

// PutBatch writes all vectors in one batch.
func (s *BadgerVectorStore) PutBatch(_ context.Context, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for key, vec := range vectors {
		entry := badger.NewEntry([]byte(vectorKeyPrefix+key), encodeVector(vec))
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		if err := wb.SetEntry(entry); err != nil {
			return fmt.Errorf("set vector: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush vectors: %w", err)
	}
	return nil
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector: %d bytes", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec, nil
}
