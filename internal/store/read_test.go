package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/touchbase/internal/docstore"
)

func seedGames(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	outcome := "both_wrong"
	games := map[string]testGame{
		"g3": {CommunityID: "c1", Player1ID: "alice", Player2ID: "bob", Status: "active"},
		"g1": {CommunityID: "c1", Player1ID: "bob", Player2ID: "alice", Status: "completed", Outcome: &outcome},
		"g2": {CommunityID: "c2", Player1ID: "carol", Player2ID: "dave", Status: "active"},
	}
	for id, g := range games {
		if err := s.Set(ctx, "games", id, g); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
}

func ids(docs []docstore.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), "games", "nope")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestQuery_Equality(t *testing.T) {
	s := createTestStore(t)
	seedGames(t, s)

	docs, err := s.Query(context.Background(), "games", docstore.Where("player1Id", "alice"))
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if got := ids(docs); len(got) != 1 || got[0] != "g3" {
		t.Errorf("ids = %v, want [g3]", got)
	}
}

func TestQuery_MultipleFiltersAndOrder(t *testing.T) {
	s := createTestStore(t)
	seedGames(t, s)

	docs, err := s.Query(context.Background(), "games", docstore.Where("communityId", "c1"))
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	got := ids(docs)
	if len(got) != 2 || got[0] != "g1" || got[1] != "g3" {
		t.Errorf("ids = %v, want [g1 g3] ordered by id", got)
	}

	docs, err = s.Query(context.Background(), "games",
		docstore.Where("communityId", "c1"),
		docstore.Where("status", "completed"),
	)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if got := ids(docs); len(got) != 1 || got[0] != "g1" {
		t.Errorf("ids = %v, want [g1]", got)
	}
}

func TestQuery_NullValue(t *testing.T) {
	s := createTestStore(t)
	seedGames(t, s)

	docs, err := s.Query(context.Background(), "games", docstore.Where("outcome", nil))
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if got := ids(docs); len(got) != 2 {
		t.Errorf("ids = %v, want the two games without outcome", got)
	}
}

func TestQuery_BoolValue(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "consequences", "a", map[string]any{"completed": true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "consequences", "b", map[string]any{"completed": false}); err != nil {
		t.Fatal(err)
	}

	docs, err := s.Query(ctx, "consequences", docstore.Where("completed", true))
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if got := ids(docs); len(got) != 1 || got[0] != "a" {
		t.Errorf("ids = %v, want [a]", got)
	}
}

func TestQuery_ArrayContains(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "communities", "c1", map[string]any{"members": []string{"alice", "bob"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "communities", "c2", map[string]any{"members": []string{"carol"}}); err != nil {
		t.Fatal(err)
	}

	docs, err := s.Query(ctx, "communities", docstore.Contains("members", "bob"))
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if got := ids(docs); len(got) != 1 || got[0] != "c1" {
		t.Errorf("ids = %v, want [c1]", got)
	}
}

func TestQuery_EmptyResultIsNotNil(t *testing.T) {
	s := createTestStore(t)

	docs, err := s.Query(context.Background(), "games", docstore.Where("player1Id", "nobody"))
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if docs == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestQuery_RejectsInvalidField(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Query(context.Background(), "games", docstore.Where("a.b') OR 1=1 --", "x"))
	if err == nil {
		t.Fatal("expected error for invalid field name")
	}
}

func TestQuery_RejectsUnsupportedValue(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Query(context.Background(), "games", docstore.Where("status", 1.5))
	if err == nil {
		t.Fatal("expected error for float filter value")
	}
}
