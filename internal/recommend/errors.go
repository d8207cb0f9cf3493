// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPrepared is returned when scoring before the catalog is embedded.
	ErrNotPrepared = errors.New("similarity index not prepared")

	// ErrEmptyCatalog is a warning: there is nothing to rank.
	// Recommend never returns it; it is exposed through Engine.Warnings.
	ErrEmptyCatalog = errors.New("catalog is empty")
)

// InvalidQueryError reports a query that cannot be embedded.
// It is fatal for the request that produced it.
type InvalidQueryError struct {
	Reason string
	Err    error
}

func (e *InvalidQueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid query: %s: %v", e.Reason, e.Err)
	}
	return "invalid query: " + e.Reason
}

func (e *InvalidQueryError) Unwrap() error { return e.Err }

// CacheMismatchError reports a stored embedding artifact that does not
// belong to the current catalog or model. Callers recompute.
type CacheMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CacheMismatchError) Error() string {
	return fmt.Sprintf("embedding cache %s mismatch: expected %s, got %s", e.Field, e.Expected, e.Actual)
}
