package store

import "testing"

// NewTestStore creates a Store backed by an in-memory database with
// migrations applied. Only intended for use in tests.
func NewTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := openPath(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
