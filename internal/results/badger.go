// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package results

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/vibeyf-ai/vibeyf/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	resultKeyPrefix  = "result:"
	answersKeyPrefix = "answers:"
)

// BadgerStore keeps the result history in BadgerDB. The database is owned by
// the caller.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore creates a history store on db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// SaveAnswers stores the answers record under its user id.
func (s *BadgerStore) SaveAnswers(ctx context.Context, rec *AnswersRecord) error {
	if err := CheckUserID(rec.UserID); err != nil {
		return err
	}
	return s.put(ctx, answersKeyPrefix+rec.UserID, rec)
}

// SaveResult stores doc under its user id, replacing any previous document.
func (s *BadgerStore) SaveResult(ctx context.Context, doc *Document) error {
	if err := CheckUserID(doc.UserID); err != nil {
		return err
	}
	err := s.put(ctx, resultKeyPrefix+doc.UserID, doc)
	metrics.RecordResultPersisted("badger", err)
	return err
}

// LoadResult returns the document stored for userID.
func (s *BadgerStore) LoadResult(ctx context.Context, userID string) (*Document, error) {
	if err := CheckUserID(userID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(resultKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Recent returns up to limit documents, newest first. A limit of zero or
// less returns all of them.
func (s *BadgerStore) Recent(ctx context.Context, limit int) ([]*Document, error) {
	var docs []*Document
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(resultKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc Document
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			docs = append(docs, &doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Timestamp.After(docs[j].Timestamp)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *BadgerStore) put(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}
