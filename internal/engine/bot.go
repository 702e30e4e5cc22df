package engine

import (
	"context"
	"slices"
	"time"

	"github.com/roach88/touchbase/internal/game"
)

// AutoFillBot plays every unset move of the simulated players in a game.
//
// Each draw is uniform over the community roster excluding both players, and
// goes through the same guarded update path as a human action, so the game
// is re-evaluated after every move. Calling it again once the bot's slots
// are filled does nothing.
func (s *Service) AutoFillBot(ctx context.Context, gameID string) error {
	const op = "autofill bot"
	g, err := loadGame(ctx, s.store, op, gameID)
	if err != nil {
		return err
	}

	roles := g.BotRoles(s.isBot)
	if len(roles) == 0 || g.Status == game.StatusCompleted {
		return nil
	}

	members, err := s.roster.Members(ctx, g.CommunityID)
	if err != nil {
		return err
	}
	candidates := slices.DeleteFunc(slices.Clone(members), func(m string) bool {
		return m == g.Player1ID || m == g.Player2ID
	})
	if len(candidates) == 0 {
		s.logger.Debug("no members for bot to choose from", "game", gameID, "community", g.CommunityID)
		return nil
	}

	for _, role := range roles {
		botID := g.PlayerID(role)
		slot := g.Slot(role)

		if slot.Guess == nil {
			pick := s.pick(candidates)
			g, err = s.move(ctx, op, gameID, func(cur game.Game, at time.Time) (game.Update, error) {
				return game.GuessUpdate(cur, botID, pick, at)
			})
			if err != nil {
				return err
			}
			s.logger.Debug("bot guessed", "game", gameID, "bot", botID, "guess", pick)
		}

		if g.Status == game.StatusCompleted {
			return nil
		}
		if g.Slot(role).ActualContact == nil {
			pick := s.pick(candidates)
			g, err = s.move(ctx, op, gameID, func(cur game.Game, at time.Time) (game.Update, error) {
				return game.RevealUpdate(cur, botID, pick, at)
			})
			if err != nil {
				return err
			}
			s.logger.Debug("bot revealed", "game", gameID, "bot", botID, "actual", pick)
		}
	}
	return nil
}

// afterAction runs the bot simulator for bot games and returns the freshest
// view of the game. Bot failures are logged and never fail the caller.
func (s *Service) afterAction(ctx context.Context, g game.Game) game.Game {
	if len(g.BotRoles(s.isBot)) == 0 || g.Status == game.StatusCompleted {
		return g
	}
	if err := s.AutoFillBot(ctx, g.ID); err != nil {
		s.logger.Warn("bot autofill failed", "game", g.ID, "error", err)
		return g
	}
	fresh, err := s.GetGame(ctx, g.ID)
	if err != nil {
		s.logger.Warn("reload after bot autofill failed", "game", g.ID, "error", err)
		return g
	}
	return fresh
}
