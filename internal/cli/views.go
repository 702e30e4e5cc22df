package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/touchbase/internal/community"
	"github.com/roach88/touchbase/internal/game"
)

// gameView is the JSON form of a game: the stored body plus its id.
type gameView struct {
	ID string `json:"id"`
	game.Game
}

// consequenceView is the JSON form of a consequence.
type consequenceView struct {
	ID string `json:"id"`
	game.Consequence
}

// communityView is the JSON form of a community.
type communityView struct {
	ID string `json:"id"`
	community.Community
}

func viewGames(gs []game.Game) []gameView {
	out := make([]gameView, len(gs))
	for i, g := range gs {
		out[i] = gameView{ID: g.ID, Game: g}
	}
	return out
}

func viewConsequences(cs []game.Consequence) []consequenceView {
	out := make([]consequenceView, len(cs))
	for i, c := range cs {
		out[i] = consequenceView{ID: c.ID, Consequence: c}
	}
	return out
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// actualText renders a reveal. Reveals stay sealed until the game completes.
func actualText(g game.Game, s *string) string {
	if s != nil && g.Status != game.StatusCompleted {
		return "sealed"
	}
	return orDash(s)
}

// gameText renders a game for text output.
func (a *app) gameText(ctx context.Context, g game.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "game %s [%s] in %s\n", g.ID, g.Status, g.CommunityID)
	fmt.Fprintf(&b, "  player1: %s\n", a.name(ctx, g.Player1ID))
	fmt.Fprintf(&b, "    guess: %s  actual: %s\n", orDash(g.Player1Guess), actualText(g, g.Player1ActualContact))
	fmt.Fprintf(&b, "  player2: %s", a.name(ctx, g.Player2ID))
	if g.IsBotGame() {
		b.WriteString(" [bot]")
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "    guess: %s  actual: %s", orDash(g.Player2Guess), actualText(g, g.Player2ActualContact))
	if g.Outcome != nil {
		winner := "-"
		if g.Winner != nil {
			winner = string(*g.Winner)
		}
		fmt.Fprintf(&b, "\n  outcome: %s (winner: %s)", *g.Outcome, winner)
		for _, ref := range g.Consequences {
			fmt.Fprintf(&b, "\n    %s: %s -> %s: %s", ref.Type, a.name(ctx, ref.PlayerID), a.name(ctx, ref.TargetID), ref.Description)
		}
	}
	return b.String()
}

// gameLine renders a game as a single list line.
func (a *app) gameLine(ctx context.Context, g game.Game) string {
	line := fmt.Sprintf("%s  %-17s  %s vs %s  %s", g.ID, g.Status,
		a.name(ctx, g.Player1ID), a.name(ctx, g.Player2ID), g.CreatedAt.Format(time.RFC3339))
	if g.Outcome != nil {
		line += "  " + string(*g.Outcome)
	}
	return line
}

// consequenceLine renders a consequence as a single list line.
func (a *app) consequenceLine(ctx context.Context, c game.Consequence) string {
	state := "open"
	if c.Completed {
		state = "done"
	}
	line := fmt.Sprintf("%s  [%s] %s: %s -> %s: %s", c.ID, state, c.Type,
		a.name(ctx, c.PlayerID), a.name(ctx, c.TargetID), c.Description)
	if c.ProofText != nil {
		line += fmt.Sprintf(" (proof: %s)", *c.ProofText)
	}
	return line
}

func joinLines(lines []string, empty string) string {
	if len(lines) == 0 {
		return empty
	}
	return strings.Join(lines, "\n")
}
