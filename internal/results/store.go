// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibeyf-ai/vibeyf/internal/validation"
)

var (
	// ErrNotFound is returned when no document exists for a user id.
	ErrNotFound = errors.New("result not found")

	// ErrInvalidUserID is returned for user ids that are not 1-64 letters,
	// digits, '_' or '-'.
	ErrInvalidUserID = errors.New("invalid user id")
)

// Store persists answers and result documents.
type Store interface {
	SaveAnswers(ctx context.Context, rec *AnswersRecord) error
	SaveResult(ctx context.Context, doc *Document) error
	LoadResult(ctx context.Context, userID string) (*Document, error)
}

// CheckUserID validates a user id before it is used in a file name or key.
func CheckUserID(id string) error {
	if !validation.ValidUserID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, id)
	}
	return nil
}

// Tee writes to every store and reads from the first one holding the
// document.
type Tee []Store

var _ Store = Tee(nil)

// SaveAnswers writes rec to every store and joins the errors.
func (t Tee) SaveAnswers(ctx context.Context, rec *AnswersRecord) error {
	var errs []error
	for _, s := range t {
		if err := s.SaveAnswers(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveResult writes doc to every store and joins the errors.
func (t Tee) SaveResult(ctx context.Context, doc *Document) error {
	var errs []error
	for _, s := range t {
		if err := s.SaveResult(ctx, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadResult returns the document from the first store that has it.
func (t Tee) LoadResult(ctx context.Context, userID string) (*Document, error) {
	for _, s := range t {
		doc, err := s.LoadResult(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return doc, err
	}
	return nil, ErrNotFound
}
