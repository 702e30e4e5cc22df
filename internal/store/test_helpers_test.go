package store

import (
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fixedNow returns a clock that always reports the same instant.
func fixedNow() func() time.Time {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time { return at }
}

type testGame struct {
	CommunityID string  `json:"communityId"`
	Player1ID   string  `json:"player1Id"`
	Player2ID   string  `json:"player2Id"`
	Status      string  `json:"status"`
	Outcome     *string `json:"outcome"`
}
