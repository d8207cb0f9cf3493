// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/vibeyf-ai/vibeyf/internal/metrics"
)

// FileStore writes reponses_<id>.json and resultat_<id>.json into a
// directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create responses directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory documents are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// AnswersPath returns the answers file path for userID.
func (s *FileStore) AnswersPath(userID string) string {
	return filepath.Join(s.dir, "reponses_"+userID+".json")
}

// ResultPath returns the result file path for userID.
func (s *FileStore) ResultPath(userID string) string {
	return filepath.Join(s.dir, "resultat_"+userID+".json")
}

// SaveAnswers writes the answers file, replacing any previous one.
func (s *FileStore) SaveAnswers(ctx context.Context, rec *AnswersRecord) error {
	if err := CheckUserID(rec.UserID); err != nil {
		return err
	}
	return s.write(ctx, s.AnswersPath(rec.UserID), rec)
}

// SaveResult writes the result file, replacing any previous one.
func (s *FileStore) SaveResult(ctx context.Context, doc *Document) error {
	if err := CheckUserID(doc.UserID); err != nil {
		return err
	}
	err := s.write(ctx, s.ResultPath(doc.UserID), doc)
	metrics.RecordResultPersisted("file", err)
	return err
}

// LoadResult reads the result file for userID.
func (s *FileStore) LoadResult(ctx context.Context, userID string) (*Document, error) {
	if err := CheckUserID(userID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.ResultPath(userID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", userID, err)
	}
	return &doc, nil
}

// write encodes v as indented UTF-8 JSON into a temp file and renames it
// over path, so readers never see a partial document.
func (s *FileStore) write(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0o640); err != nil {
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	tmpName = ""
	return nil
}
