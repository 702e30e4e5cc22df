package game

// Fixed consequence descriptions.
const (
	DescriptionJoint     = "Both players donate to charity or attend community event"
	DescriptionOwed      = "Call or meet up as agreed"
	DescriptionBothWrong = "Reconnect with the person you guessed"
)

// ResolveInput is the fully populated move set of a game.
type ResolveInput struct {
	Player1ID string
	Player2ID string

	// Player1Guess is who player 1 believes contacted player 2.
	Player1Guess string
	// Player2Guess is who player 2 believes contacted player 1.
	Player2Guess string

	// Player1Actual is who actually contacted player 1.
	Player1Actual string
	// Player2Actual is who actually contacted player 2.
	Player2Actual string
}

// InputFrom extracts the resolver input from a game.
// ok is false while any guess or reveal is missing.
func InputFrom(g Game) (in ResolveInput, ok bool) {
	if g.Player1Guess == nil || g.Player2Guess == nil ||
		g.Player1ActualContact == nil || g.Player2ActualContact == nil {
		return ResolveInput{}, false
	}
	return ResolveInput{
		Player1ID:     g.Player1ID,
		Player2ID:     g.Player2ID,
		Player1Guess:  *g.Player1Guess,
		Player2Guess:  *g.Player2Guess,
		Player1Actual: *g.Player1ActualContact,
		Player2Actual: *g.Player2ActualContact,
	}, true
}

// ConsequenceDraft describes a consequence before it has an id.
type ConsequenceDraft struct {
	Type        ConsequenceType
	PlayerID    string
	TargetID    string
	Description string
}

// Resolution is the result of scoring a game.
type Resolution struct {
	Outcome      Outcome
	Winner       Winner
	Consequences []ConsequenceDraft
}

// Resolve scores a game. It is a pure decision table:
//
//	p1 correct  p2 correct  outcome          winner   consequences
//	yes         yes         both_correct     tie      joint p1 with p2
//	yes         no          player1_correct  player1  p2 owes p1
//	no          yes         player2_correct  player2  p1 owes p2
//	no          no          both_wrong       none     p1 owes p2's guess, p2 owes p1's guess
func Resolve(in ResolveInput) Resolution {
	p1Correct := in.Player1Guess == in.Player2Actual
	p2Correct := in.Player2Guess == in.Player1Actual

	switch {
	case p1Correct && p2Correct:
		return Resolution{
			Outcome: OutcomeBothCorrect,
			Winner:  WinnerTie,
			Consequences: []ConsequenceDraft{
				{Type: ConsequenceJoint, PlayerID: in.Player1ID, TargetID: in.Player2ID, Description: DescriptionJoint},
			},
		}
	case p1Correct:
		return Resolution{
			Outcome: OutcomePlayer1Correct,
			Winner:  WinnerPlayer1,
			Consequences: []ConsequenceDraft{
				{Type: ConsequenceOwed, PlayerID: in.Player2ID, TargetID: in.Player1ID, Description: DescriptionOwed},
			},
		}
	case p2Correct:
		return Resolution{
			Outcome: OutcomePlayer2Correct,
			Winner:  WinnerPlayer2,
			Consequences: []ConsequenceDraft{
				{Type: ConsequenceOwed, PlayerID: in.Player1ID, TargetID: in.Player2ID, Description: DescriptionOwed},
			},
		}
	default:
		return Resolution{
			Outcome: OutcomeBothWrong,
			Winner:  WinnerNone,
			Consequences: []ConsequenceDraft{
				{Type: ConsequenceOwed, PlayerID: in.Player1ID, TargetID: in.Player2Guess, Description: DescriptionBothWrong},
				{Type: ConsequenceOwed, PlayerID: in.Player2ID, TargetID: in.Player1Guess, Description: DescriptionBothWrong},
			},
		}
	}
}
