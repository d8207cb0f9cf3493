// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testMatrix() EmbeddingMatrix {
	return EmbeddingMatrix{
		Keys: []MatrixKey{
			{Type: "song", ID: "s001"},
			{Type: "collection", ID: "c001"},
		},
		Vectors:     [][]float32{{0.6, 0.8, 0}, {0, 0, 1}},
		Fingerprint: "abc123",
		Model:       "feature-hash-v1",
		Dimension:   3,
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "new directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "cache", "nested")
			},
		},
		{
			name: "existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "file")
				if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
					t.Fatal(err)
				}
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.setup(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && store == nil {
				t.Fatal("NewStore() returned nil store")
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	in := testMatrix()
	version, err := store.Save(ctx, EmbeddingsArtifact, in, ArtifactMetadata{
		Fingerprint:  in.Fingerprint,
		Model:        in.Model,
		Dimension:    in.Dimension,
		ElementCount: len(in.Keys),
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}

	var out EmbeddingMatrix
	meta, err := store.Load(ctx, EmbeddingsArtifact, 0, &out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.Fingerprint != "abc123" || meta.Version != 1 || meta.Checksum == "" || meta.SizeBytes == 0 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if len(out.Keys) != 2 || out.Keys[1].ID != "c001" || out.Vectors[0][1] != 0.8 {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestStore_Versions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		m := testMatrix()
		m.Fingerprint = strings.Repeat("f", i+1)
		if _, err := store.Save(ctx, EmbeddingsArtifact, m, ArtifactMetadata{Fingerprint: m.Fingerprint}); err != nil {
			t.Fatalf("Save(%d) error = %v", i, err)
		}
	}

	if v, ok := store.LatestVersion(EmbeddingsArtifact); !ok || v != 3 {
		t.Errorf("LatestVersion() = %d, %v", v, ok)
	}

	// A reopened store must see the same versions.
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	meta, err := reopened.Metadata(ctx, EmbeddingsArtifact)
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.Fingerprint != "fff" {
		t.Errorf("latest fingerprint = %q, want fff", meta.Fingerprint)
	}

	var first EmbeddingMatrix
	if _, err := reopened.Load(ctx, EmbeddingsArtifact, 1, &first); err != nil || first.Fingerprint != "f" {
		t.Errorf("Load(v1) = %q, %v", first.Fingerprint, err)
	}

	removed, err := reopened.Prune(ctx, EmbeddingsArtifact, 1)
	if err != nil || removed != 2 {
		t.Errorf("Prune() = %d, %v; want 2", removed, err)
	}
	if _, err := reopened.Load(ctx, EmbeddingsArtifact, 1, &first); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(pruned) error = %v, want ErrNotFound", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var out EmbeddingMatrix
	if _, err := store.Load(context.Background(), "missing", 0, &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
	if _, err := store.Metadata(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Metadata() error = %v, want ErrNotFound", err)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, EmbeddingsArtifact, testMatrix(), ArtifactMetadata{}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "embeddings_v1.gob.gz")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out EmbeddingMatrix
	if _, err := store.Load(ctx, EmbeddingsArtifact, 0, &out); err == nil {
		t.Error("expected error loading a corrupt artifact")
	}
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, EmbeddingsArtifact, testMatrix(), ArtifactMetadata{}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestStore_InvalidName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "../escape", `a\b`} {
		if _, err := store.Save(context.Background(), name, testMatrix(), ArtifactMetadata{}); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
	}
}

func TestStore_CancelledContext(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Save(ctx, EmbeddingsArtifact, testMatrix(), ArtifactMetadata{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}

func TestParseArtifactFilename(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		version int
		ok      bool
	}{
		{"embeddings_v3.gob.gz", "embeddings", 3, true},
		{"multi_part_name_v12.gob.gz", "multi_part_name", 12, true},
		{"embeddings_v0.gob.gz", "", 0, false},
		{"embeddings.gob.gz", "", 0, false},
		{".tmp-123", "", 0, false},
		{"_v1.gob.gz", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, version, ok := parseArtifactFilename(tt.in)
			if name != tt.name || version != tt.version || ok != tt.ok {
				t.Errorf("parseArtifactFilename(%q) = %q, %d, %v", tt.in, name, version, ok)
			}
		})
	}
}
