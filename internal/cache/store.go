// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the serialized cache blob between invocations. Load
// returns the blob and whether one existed; a store that is disabled or
// empty reports (nil, false, nil).
type Store interface {
	Load() ([]byte, bool, error)
	Save(blob []byte) error
}

// Dir resolves the base cache directory.
// Precedence:
//  1. IQLCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/iqlctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("IQLCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "iqlctl"), true
	}
	return "", false
}

// Enabled returns true unless IQLCTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("IQLCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// FileStore keeps the cache blob in a single file under the base cache
// directory. When caching is disabled or no base directory resolves, Load
// reports no blob and Save is a no-op, which degrades every lookup to a
// plain compute.
type FileStore struct {
	// Name is the blob filename under the base directory.
	Name string
}

// NewFileStore returns a FileStore writing to Dir()/name.
func NewFileStore(name string) *FileStore {
	return &FileStore{Name: name}
}

func (s *FileStore) path() (string, bool) {
	if !Enabled() {
		return "", false
	}
	base, ok := Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(base, s.Name), true
}

// Load reads the blob file if it exists.
func (s *FileStore) Load() ([]byte, bool, error) {
	p, ok := s.path()
	if !ok {
		return nil, false, nil
	}
	blob, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache file: %w", err)
	}
	return blob, true, nil
}

// Save overwrites the blob file, creating directories as needed.
func (s *FileStore) Save(blob []byte) error {
	p, ok := s.path()
	if !ok {
		return nil // treat as disabled.
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(p, blob, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// MemStore holds the blob in memory. Used by tests and as the fallback
// when no persistent backend is configured.
type MemStore struct {
	blob []byte
	ok   bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the last saved blob.
func (s *MemStore) Load() ([]byte, bool, error) {
	return s.blob, s.ok, nil
}

// Save retains a copy of the blob.
func (s *MemStore) Save(blob []byte) error {
	s.blob = append([]byte(nil), blob...)
	s.ok = true
	return nil
}
