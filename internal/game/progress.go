package game

// Step is the action the Progress Evaluator asks the caller to apply.
type Step int

const (
	// StepNone means the game needs no transition.
	StepNone Step = iota

	// StepGuessingComplete means both guesses are in and reveals are pending.
	StepGuessingComplete

	// StepResolve means every slot is filled and the outcome is unset.
	StepResolve
)

func (s Step) String() string {
	switch s {
	case StepGuessingComplete:
		return "guessing_complete"
	case StepResolve:
		return "resolve"
	default:
		return "none"
	}
}

// Evaluate inspects a freshly read game and returns the transition it is due.
//
// Evaluate is pure and idempotent: a completed game always yields StepNone.
func Evaluate(g Game) Step {
	bothGuessed := g.Player1Guess != nil && g.Player2Guess != nil
	bothRevealed := g.Player1ActualContact != nil && g.Player2ActualContact != nil

	switch {
	case bothGuessed && !bothRevealed && g.Status != StatusGuessingComplete && g.Status != StatusCompleted:
		return StepGuessingComplete
	case bothGuessed && bothRevealed && g.Outcome == nil:
		return StepResolve
	default:
		return StepNone
	}
}
