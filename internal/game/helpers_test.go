package game

import "time"

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGame() Game {
	return NewGame("g1", "c1", "alice", "bob", false, testTime)
}

// withMoves fills slots; an empty string leaves a slot unset.
func withMoves(g Game, guess1, guess2, actual1, actual2 string) Game {
	set := func(v string) *string {
		if v == "" {
			return nil
		}
		return strPtr(v)
	}
	g.Player1Guess = set(guess1)
	g.Player2Guess = set(guess2)
	g.Player1ActualContact = set(actual1)
	g.Player2ActualContact = set(actual2)
	return g
}

func strPtr(s string) *string { return &s }
