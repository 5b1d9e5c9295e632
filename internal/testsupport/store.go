package testsupport

import (
	"testing"

	"librieval/internal/config"
	"librieval/internal/results"
)

// MustOpenResults opens a results.Store for tests and registers cleanup.
func MustOpenResults(t testing.TB, cfg *config.Config) *results.Store {
	t.Helper()

	store, err := results.Open(cfg)
	if err != nil {
		t.Fatalf("results.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
