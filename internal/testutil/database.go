// Package testutil provides shared helpers for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"docktop/internal/history"
)

// SetupTestStore creates a history store backed by a throwaway database
// under t.TempDir(), with migrations applied.
func SetupTestStore(t *testing.T) *history.Store {
	t.Helper()

	cfg := history.DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "docktop-test.db")

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close test store: %v", err)
		}
	})
	return store
}
