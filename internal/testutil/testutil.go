// Package testutil provides shared test helpers for setting up vaults.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/zttl/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.FS.
func TestVault(t *testing.T) (string, *storage.FS) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteFile writes content to rel under root, creating directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the content of rel under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// FixedCreated wraps a Provider so every file reports the same creation time,
// or the per-path time in ByPath when present.
type FixedCreated struct {
	storage.Provider
	At     time.Time
	ByPath map[string]time.Time
}

// Created implements storage.Provider.
func (f *FixedCreated) Created(path string) (time.Time, error) {
	if t, ok := f.ByPath[path]; ok {
		return t, nil
	}
	if _, err := f.Provider.Created(path); err != nil {
		return time.Time{}, err
	}
	return f.At, nil
}
