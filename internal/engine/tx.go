package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
)

// runTx runs fn in a store transaction, re-running it from scratch when the
// commit loses to a concurrent writer. fn must be safe to repeat: it re-reads
// everything it depends on.
func (s *Service) runTx(ctx context.Context, op string, fn func(ctx context.Context, tx docstore.Tx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.store.RunTransaction(ctx, fn)
		if err == nil || !errors.Is(err, docstore.ErrConflict) {
			return err
		}
		s.logger.Debug("transaction conflict",
			"op", op,
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
	}
	return game.Wrap(game.CodeTransactionConflict, op, err)
}

// loadGame reads and decodes a game, mapping absence to CodeNotFound.
func loadGame(ctx context.Context, r docstore.Reader, op, id string) (game.Game, error) {
	if id == "" {
		return game.Game{}, game.Errorf(game.CodeInvalidArgument, op, "game id is required")
	}
	doc, err := r.Get(ctx, game.CollectionGames, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return game.Game{}, game.Errorf(game.CodeNotFound, op, "game %s not found", id)
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("%s: %w", op, err)
	}
	return decodeGame(doc)
}

// loadConsequence reads and decodes a consequence, mapping absence to
// CodeNotFound.
func loadConsequence(ctx context.Context, r docstore.Reader, op, id string) (game.Consequence, error) {
	if id == "" {
		return game.Consequence{}, game.Errorf(game.CodeInvalidArgument, op, "consequence id is required")
	}
	doc, err := r.Get(ctx, game.CollectionConsequences, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return game.Consequence{}, game.Errorf(game.CodeNotFound, op, "consequence %s not found", id)
	}
	if err != nil {
		return game.Consequence{}, fmt.Errorf("%s: %w", op, err)
	}
	return decodeConsequence(doc)
}

func decodeGame(doc docstore.Document) (game.Game, error) {
	var g game.Game
	if err := doc.DataTo(&g); err != nil {
		return game.Game{}, err
	}
	g.ID = doc.ID
	return g, nil
}

func decodeConsequence(doc docstore.Document) (game.Consequence, error) {
	var c game.Consequence
	if err := doc.DataTo(&c); err != nil {
		return game.Consequence{}, err
	}
	c.ID = doc.ID
	return c, nil
}

// mergeInto copies an update's fields into an accumulated write.
func mergeInto(dst docstore.Fields, u game.Update) {
	for k, v := range u.Fields() {
		dst[k] = v
	}
}
