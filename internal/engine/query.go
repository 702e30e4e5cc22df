package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
)

// GameFilter selects which of a player's games ListGames returns.
type GameFilter string

const (
	FilterAll     GameFilter = "all"
	FilterActive  GameFilter = "active"
	FilterHistory GameFilter = "history"
)

// ParseGameFilter validates a filter name. The empty string means FilterAll.
func ParseGameFilter(s string) (GameFilter, error) {
	switch f := GameFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterHistory:
		return f, nil
	default:
		return "", game.Errorf(game.CodeInvalidArgument, "list games", "unknown filter %q (want all, active or history)", s)
	}
}

func (f GameFilter) match(g game.Game) bool {
	switch f {
	case FilterActive:
		return g.Status != game.StatusCompleted
	case FilterHistory:
		return g.Status == game.StatusCompleted
	default:
		return true
	}
}

// GetGame reads a single game.
func (s *Service) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	return loadGame(ctx, s.store, "get game", gameID)
}

// ListGames returns the games a player takes part in, newest first.
func (s *Service) ListGames(ctx context.Context, playerID string, filter GameFilter) ([]game.Game, error) {
	const op = "list games"
	if playerID == "" {
		return nil, game.Errorf(game.CodeInvalidArgument, op, "player id is required")
	}

	docs, err := s.queryEither(ctx, op, game.CollectionGames, "player1Id", "player2Id", playerID)
	if err != nil {
		return nil, err
	}

	games := make([]game.Game, 0, len(docs))
	for _, doc := range docs {
		g, err := decodeGame(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if filter.match(g) {
			games = append(games, g)
		}
	}

	slices.SortFunc(games, func(a, b game.Game) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return games, nil
}

// ListConsequences returns the consequences a player owes or is owed,
// ordered by id.
func (s *Service) ListConsequences(ctx context.Context, playerID string) ([]game.Consequence, error) {
	const op = "list consequences"
	if playerID == "" {
		return nil, game.Errorf(game.CodeInvalidArgument, op, "player id is required")
	}

	docs, err := s.queryEither(ctx, op, game.CollectionConsequences, "playerId", "targetId", playerID)
	if err != nil {
		return nil, err
	}

	out := make([]game.Consequence, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeConsequence(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// queryEither returns documents where either field equals value, running
// both queries concurrently. Results are de-duplicated and ordered by id.
func (s *Service) queryEither(ctx context.Context, op, collection, fieldA, fieldB, value string) ([]docstore.Document, error) {
	var a, b []docstore.Document

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		a, err = s.store.Query(ctx, collection, docstore.Where(fieldA, value))
		return err
	})
	eg.Go(func() error {
		var err error
		b, err = s.store.Query(ctx, collection, docstore.Where(fieldB, value))
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[string]bool, len(a)+len(b))
	merged := make([]docstore.Document, 0, len(a)+len(b))
	for _, doc := range slices.Concat(a, b) {
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		merged = append(merged, doc)
	}
	slices.SortFunc(merged, func(x, y docstore.Document) int {
		return cmp.Compare(x.ID, y.ID)
	})
	return merged, nil
}

// WatchGame streams decoded snapshots of a game until ctx is done.
// Snapshots that fail to decode are logged and skipped.
func (s *Service) WatchGame(ctx context.Context, gameID string) (<-chan game.Game, error) {
	if gameID == "" {
		return nil, game.Errorf(game.CodeInvalidArgument, "watch game", "game id is required")
	}
	docs, err := s.store.Subscribe(ctx, game.CollectionGames, gameID)
	if err != nil {
		return nil, fmt.Errorf("watch game %s: %w", gameID, err)
	}

	out := make(chan game.Game)
	go func() {
		defer close(out)
		for doc := range docs {
			g, err := decodeGame(doc)
			if err != nil {
				s.logger.Warn("skipping undecodable game snapshot", "game", gameID, "version", doc.Version, "error", err)
				continue
			}
			select {
			case out <- g:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
