package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
	"github.com/roach88/touchbase/internal/ident"
)

// persistConsequences creates one consequence document per draft inside tx
// and returns the snapshot to store on the game.
//
// Ids are derived from (game, owing player, target, type), and creation is
// insert-if-absent: running this twice for the same game leaves exactly one
// set of documents, and the first write wins.
func (s *Service) persistConsequences(ctx context.Context, tx docstore.Tx, g game.Game, res game.Resolution, at time.Time) ([]game.ConsequenceRef, error) {
	refs := make([]game.ConsequenceRef, 0, len(res.Consequences))
	for _, d := range res.Consequences {
		id, err := ident.ConsequenceID(g.ID, d.PlayerID, d.TargetID, string(d.Type))
		if err != nil {
			return nil, fmt.Errorf("persist consequences for %s: %w", g.ID, err)
		}

		c := game.Consequence{
			ID:          id,
			FromGameID:  g.ID,
			CommunityID: g.CommunityID,
			PlayerID:    d.PlayerID,
			TargetID:    d.TargetID,
			Type:        d.Type,
			Description: d.Description,
			CreatedAt:   at.UTC(),
		}
		created, err := tx.Create(ctx, game.CollectionConsequences, id, c)
		if err != nil {
			return nil, fmt.Errorf("persist consequences for %s: %w", g.ID, err)
		}
		if !created {
			s.logger.Debug("consequence already exists", "game", g.ID, "consequence", id)
		}
		refs = append(refs, c.Ref())
	}
	return refs, nil
}

// CompleteConsequence marks a consequence fulfilled. Only its target may
// complete it.
//
// Completion is one way: completing an already completed consequence
// returns it unchanged, keeping the proof recorded the first time.
func (s *Service) CompleteConsequence(ctx context.Context, consequenceID, callerID, proofText string) (game.Consequence, error) {
	const op = "complete consequence"
	if callerID == "" {
		return game.Consequence{}, game.Errorf(game.CodeInvalidArgument, op, "caller id is required")
	}

	var (
		out     game.Consequence
		changed bool
	)
	err := s.runTx(ctx, op, func(ctx context.Context, tx docstore.Tx) error {
		c, err := loadConsequence(ctx, tx, op, consequenceID)
		if err != nil {
			return err
		}
		if callerID != c.TargetID {
			return game.Errorf(game.CodeForbidden, op, "only %q may complete consequence %s", c.TargetID, c.ID)
		}
		if c.Completed {
			out, changed = c, false
			return nil
		}

		at := s.clock.Now().UTC()
		var proof *string
		if proofText != "" {
			proof = &proofText
		}
		err = tx.Update(ctx, game.CollectionConsequences, c.ID, docstore.Fields{
			"completed":   true,
			"completedAt": at,
			"proofText":   proof,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		c.Completed = true
		c.CompletedAt = &at
		c.ProofText = proof
		out, changed = c, true
		return nil
	})
	if err != nil {
		return game.Consequence{}, err
	}

	if changed {
		s.logger.Info("consequence completed", "consequence", out.ID, "game", out.FromGameID, "by", callerID)
	} else {
		s.logger.Debug("consequence already completed", "consequence", out.ID)
	}
	return out, nil
}
