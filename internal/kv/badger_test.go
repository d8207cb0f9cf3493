// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "in memory", path: func(*testing.T) string { return "" }},
		{name: "creates directory", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nested", "badger") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			db, err := Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}

			err = db.Update(func(txn *badger.Txn) error {
				return txn.Set([]byte("k"), []byte("v"))
			})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			err = db.View(func(txn *badger.Txn) error {
				item, err := txn.Get([]byte("k"))
				if err != nil {
					return err
				}
				return item.Value(func(val []byte) error {
					if string(val) != "v" {
						t.Errorf("value = %q, want v", val)
					}
					return nil
				})
			})
			if err != nil {
				t.Fatalf("View() error = %v", err)
			}
			if err := db.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if path != "" {
				if _, err := os.Stat(path); err != nil {
					t.Errorf("directory not created: %v", err)
				}
			}
		})
	}
}
