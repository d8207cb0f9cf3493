// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no artifact exists for a name or version.
var ErrNotFound = errors.New("artifact not found")

// ErrChecksumMismatch is returned when a stored payload fails verification.
var ErrChecksumMismatch = errors.New("artifact checksum mismatch")

const artifactExt = ".gob.gz"

// ArtifactMetadata describes a stored artifact.
type ArtifactMetadata struct {
	// Name is the artifact family (e.g. "embeddings").
	Name string `json:"name"`

	// Version increases with every save of the same name.
	Version int `json:"version"`

	// Fingerprint identifies the inputs the artifact was computed from.
	Fingerprint string `json:"fingerprint"`

	// Model is the embedding model identity.
	Model string `json:"model"`

	// Dimension is the vector size.
	Dimension int `json:"dimension"`

	// ElementCount is the number of catalog elements covered.
	ElementCount int `json:"element_count"`

	// ComputedAt is when the payload was produced.
	ComputedAt time.Time `json:"computed_at"`

	// SavedAt is set by Save.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed payload, set by Save.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size, set by Save.
	SizeBytes int64 `json:"size_bytes"`

	// DurationMS is how long computing the payload took.
	DurationMS int64 `json:"duration_ms"`
}

// Store persists versioned artifacts as gob-encoded, gzip-compressed files.
// Every write goes to a temporary file in the same directory, is fsynced and
// then renamed, so readers never observe a partial artifact.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// storedFile is the on-disk format.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// NewStore opens a store rooted at baseDir, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	return s, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.baseDir }

func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseArtifactFilename(entry.Name())
		if !ok {
			continue
		}
		if current, seen := s.versions[name]; !seen || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseArtifactFilename splits "embeddings_v3.gob.gz" into ("embeddings", 3).
func parseArtifactFilename(filename string) (string, int, bool) {
	base, found := strings.CutSuffix(filename, artifactExt)
	if !found {
		return "", 0, false
	}
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version <= 0 {
		return "", 0, false
	}
	return base[:idx], version, true
}

func (s *Store) artifactPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}

// Save writes data as the next version of name and returns that version.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, data any, meta ArtifactMetadata) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return 0, fmt.Errorf("invalid artifact name %q", name)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(data); err != nil {
		return 0, fmt.Errorf("encode artifact: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return 0, fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return 0, fmt.Errorf("finalize compression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.versions[name] + 1
	meta.Name = name
	meta.Version = version
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	if err := s.writeAtomic(s.artifactPath(name, version), storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}); err != nil {
		return 0, err
	}

	s.versions[name] = version
	return version, nil
}

func (s *Store) writeAtomic(path string, sf storedFile) (err error) {
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           //nolint:errcheck // already failing
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup
		}
	}()

	if err = gob.NewEncoder(tmp).Encode(sf); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Load decodes an artifact into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target any) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		if version, ok = s.versions[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}

	sf, err := s.readFile(s.artifactPath(name, version))
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &sf.Metadata, nil
}

func (s *Store) readFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory and a validated name
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return &sf, nil
}

// LatestVersion returns the latest stored version for name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	version, ok := s.versions[name]
	return version, ok
}

// Metadata reads the metadata of the latest version without decoding the payload.
func (s *Store) Metadata(ctx context.Context, name string) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	sf, err := s.readFile(s.artifactPath(name, version))
	if err != nil {
		return nil, err
	}
	return &sf.Metadata, nil
}

// Prune removes all but the newest keep versions of name.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	var versions []int
	for _, entry := range entries {
		if n, v, ok := parseArtifactFilename(entry.Name()); ok && n == name && !entry.IsDir() {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	slices.Reverse(versions)

	removed := 0
	for i := keep; i < len(versions); i++ {
		if err := os.Remove(s.artifactPath(name, versions[i])); err == nil {
			removed++
		}
	}
	return removed, nil
}
