package engine

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
	"github.com/roach88/touchbase/internal/ident"
	"github.com/roach88/touchbase/internal/schema"
	"github.com/roach88/touchbase/internal/store"
	"github.com/roach88/touchbase/internal/testutil"
)

const testCommunity = "c1"

var testMembers = []string{"alice", "bob", "carol", "dave", "erin"}

type testEnv struct {
	svc    *Service
	store  *store.Store
	roster *testutil.StaticRoster
	clock  *testutil.DeterministicClock
}

// setupTestService creates a Service over a file-backed, schema-validated
// store with a deterministic clock, fixed game ids and a seeded rand.
func setupTestService(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	v, err := schema.New()
	require.NoError(t, err)

	clock := testutil.NewDeterministicClock()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithValidator(v.Validate),
		store.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	roster := testutil.NewStaticRoster(testCommunity, testMembers...)

	base := []Option{
		WithClock(clock),
		WithIDGenerator(ident.NewFixedGenerator("game-1", "game-2", "game-3", "game-4")),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	svc := New(s, roster, append(base, opts...)...)

	return &testEnv{svc: svc, store: s, roster: roster, clock: clock}
}

// play runs both players' moves in the given order: p1 guess, p2 guess,
// p1 reveal, p2 reveal.
func (e *testEnv) play(t *testing.T, id, guess1, guess2, actual1, actual2 string) game.Game {
	t.Helper()
	ctx := context.Background()

	_, err := e.svc.SubmitGuess(ctx, id, "alice", guess1)
	require.NoError(t, err)
	_, err = e.svc.SubmitGuess(ctx, id, "bob", guess2)
	require.NoError(t, err)
	_, err = e.svc.SubmitActualContact(ctx, id, "alice", actual1)
	require.NoError(t, err)
	g, err := e.svc.SubmitActualContact(ctx, id, "bob", actual2)
	require.NoError(t, err)
	return g
}

func (e *testEnv) newGame(t *testing.T) game.Game {
	t.Helper()
	g, err := e.svc.CreateGame(context.Background(), testCommunity, "alice", "bob")
	require.NoError(t, err)
	return g
}

func (e *testEnv) consequenceDocs(t *testing.T, gameID string) []docstore.Document {
	t.Helper()
	docs, err := e.store.Query(context.Background(), game.CollectionConsequences, docstore.Where("fromGameId", gameID))
	require.NoError(t, err)
	return docs
}

func (e *testEnv) rawGame(t *testing.T, id string) docstore.Document {
	t.Helper()
	doc, err := e.store.Get(context.Background(), game.CollectionGames, id)
	require.NoError(t, err)
	return doc
}
