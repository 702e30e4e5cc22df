package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
)

// CreateGame starts a game between a community member and an opponent.
//
// The creator must be on the community roster (CodeForbidden otherwise); the
// opponent must be a different roster member (CodeInvalidArgument). Games
// against a simulated member are flagged isBotOpponent and the bot plays its
// moves before CreateGame returns.
func (s *Service) CreateGame(ctx context.Context, communityID, creatorID, opponentID string) (game.Game, error) {
	const op = "create game"
	if communityID == "" || creatorID == "" || opponentID == "" {
		return game.Game{}, game.Errorf(game.CodeInvalidArgument, op, "community, creator and opponent ids are required")
	}

	members, err := s.roster.Members(ctx, communityID)
	if err != nil {
		return game.Game{}, err
	}
	if !slices.Contains(members, creatorID) {
		return game.Game{}, game.Errorf(game.CodeForbidden, op, "%q is not a member of community %s", creatorID, communityID)
	}
	if opponentID == creatorID {
		return game.Game{}, game.Errorf(game.CodeInvalidArgument, op, "cannot play against yourself")
	}
	if !slices.Contains(members, opponentID) {
		return game.Game{}, game.Errorf(game.CodeInvalidArgument, op, "opponent %q is not a member of community %s", opponentID, communityID)
	}

	g := game.NewGame(s.ids.Generate(), communityID, creatorID, opponentID, s.isBot(opponentID), s.clock.Now())
	err = s.runTx(ctx, op, func(ctx context.Context, tx docstore.Tx) error {
		created, err := tx.Create(ctx, game.CollectionGames, g.ID, g)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !created {
			return fmt.Errorf("%s: game id %s already in use", op, g.ID)
		}
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.logger.Info("game created",
		"game", g.ID,
		"community", communityID,
		"player1", creatorID,
		"player2", opponentID,
		"bot", g.IsBotOpponent)

	return s.afterAction(ctx, g), nil
}

// SubmitGuess records who the caller believes contacted their opponent.
//
// Only the caller's own guess fields are written. The game is then
// re-evaluated in the same transaction, which may move it to
// guessing_complete or resolve it.
func (s *Service) SubmitGuess(ctx context.Context, gameID, callerID, guessedMemberID string) (game.Game, error) {
	g, err := s.move(ctx, "submit guess", gameID, func(g game.Game, at time.Time) (game.Update, error) {
		return game.GuessUpdate(g, callerID, guessedMemberID, at)
	})
	if err != nil {
		return game.Game{}, err
	}
	s.logger.Info("guess submitted", "game", gameID, "player", callerID, "status", g.Status)
	return s.afterAction(ctx, g), nil
}

// SubmitActualContact records who actually contacted the caller.
func (s *Service) SubmitActualContact(ctx context.Context, gameID, callerID, actualMemberID string) (game.Game, error) {
	g, err := s.move(ctx, "submit actual contact", gameID, func(g game.Game, at time.Time) (game.Update, error) {
		return game.RevealUpdate(g, callerID, actualMemberID, at)
	})
	if err != nil {
		return game.Game{}, err
	}
	s.logger.Info("actual contact revealed", "game", gameID, "player", callerID, "status", g.Status)
	return s.afterAction(ctx, g), nil
}

// CheckProgress re-evaluates a game and applies any transition it is due.
// Calling it on a game that needs nothing, including a completed one,
// performs no write.
func (s *Service) CheckProgress(ctx context.Context, gameID string) (game.Game, error) {
	const op = "check progress"
	var out game.Game
	err := s.runTx(ctx, op, func(ctx context.Context, tx docstore.Tx) error {
		g, err := loadGame(ctx, tx, op, gameID)
		if err != nil {
			return err
		}
		fields := docstore.Fields{}
		next, err := s.advance(ctx, tx, g, fields, s.clock.Now())
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Update(ctx, game.CollectionGames, gameID, fields); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		out = next
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}
	return out, nil
}

// move applies one player action and any transition it unlocks as a single
// write.
func (s *Service) move(ctx context.Context, op, gameID string, build func(game.Game, time.Time) (game.Update, error)) (game.Game, error) {
	var out game.Game
	err := s.runTx(ctx, op, func(ctx context.Context, tx docstore.Tx) error {
		g, err := loadGame(ctx, tx, op, gameID)
		if err != nil {
			return err
		}

		at := s.clock.Now()
		u, err := build(g, at)
		if err != nil {
			return err
		}
		next, err := g.Apply(u)
		if err != nil {
			return err
		}

		fields := u.Fields()
		next, err = s.advance(ctx, tx, next, fields, at)
		if err != nil {
			return err
		}
		if err := tx.Update(ctx, game.CollectionGames, gameID, fields); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		out = next
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}
	return out, nil
}

// advance runs the Progress Evaluator on g and adds the resulting transition
// to fields. Resolution also creates the consequence documents in tx.
func (s *Service) advance(ctx context.Context, tx docstore.Tx, g game.Game, fields docstore.Fields, at time.Time) (game.Game, error) {
	step := game.Evaluate(g)
	var (
		u   game.Update
		err error
	)

	switch step {
	case game.StepNone:
		return g, nil

	case game.StepGuessingComplete:
		u, err = game.GuessingCompleteUpdate(g)

	case game.StepResolve:
		in, ok := game.InputFrom(g)
		if !ok {
			return game.Game{}, fmt.Errorf("advance %s: resolve step on incomplete game", g.ID)
		}
		res := game.Resolve(in)
		var refs []game.ConsequenceRef
		refs, err = s.persistConsequences(ctx, tx, g, res, at)
		if err != nil {
			return game.Game{}, err
		}
		u, err = game.CompletionUpdate(g, res, refs, at)
	}
	if err != nil {
		return game.Game{}, err
	}

	mergeInto(fields, u)
	next, err := g.Apply(u)
	if err != nil {
		return game.Game{}, err
	}

	s.logger.Debug("game advanced", "game", g.ID, "step", step.String(), "status", next.Status)
	if step == game.StepResolve {
		s.logger.Debug("game resolved",
			"game", g.ID,
			"outcome", *next.Outcome,
			"winner", *next.Winner,
			"consequences", len(next.Consequences))
	}
	return next, nil
}
