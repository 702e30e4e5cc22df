package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/touchbase/internal/docstore"
)

// transitions lists the allowed status changes. Status never moves backwards.
var transitions = map[Status][]Status{
	StatusActive:           {StatusGuessingComplete, StatusCompleted},
	StatusGuessingComplete: {StatusCompleted},
	StatusCompleted:        nil,
}

// CanTransition reports whether a game may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Update is a guarded, field-level change to a game.
// Only the constructors in this package produce one, after checking that the
// change is legal for the game it was built from.
type Update struct {
	op     string
	fields docstore.Fields
}

// Op names the action that produced the update.
func (u Update) Op() string { return u.op }

// Fields returns the top-level fields to merge into the stored game.
func (u Update) Fields() docstore.Fields {
	out := make(docstore.Fields, len(u.fields))
	for k, v := range u.fields {
		out[k] = v
	}
	return out
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool { return len(u.fields) == 0 }

// GuessUpdate records the caller's guess of who contacted their opponent.
//
// Resubmission overwrites the previous guess until the opponent has revealed;
// after that the guess is locked.
func GuessUpdate(g Game, callerID, memberID string, at time.Time) (Update, error) {
	const op = "submit guess"
	role, err := checkMove(op, g, callerID, memberID)
	if err != nil {
		return Update{}, err
	}
	if memberID == g.PlayerID(role.Opponent()) {
		return Update{}, Errorf(CodeInvalidArgument, op, "guess names the opponent %q", memberID)
	}
	if g.Slot(role).Guess != nil && g.Slot(role.Opponent()).ActualContact != nil {
		return Update{}, Errorf(CodeInvalidState, op, "guess is locked once the opponent has revealed")
	}
	return Update{op: op, fields: docstore.Fields{
		role.field("Guess"):            memberID,
		role.field("GuessSubmittedAt"): at.UTC(),
	}}, nil
}

// RevealUpdate records who actually contacted the caller.
func RevealUpdate(g Game, callerID, memberID string, at time.Time) (Update, error) {
	const op = "submit actual contact"
	role, err := checkMove(op, g, callerID, memberID)
	if err != nil {
		return Update{}, err
	}
	if memberID == callerID {
		return Update{}, Errorf(CodeInvalidArgument, op, "a player cannot have contacted themselves")
	}
	return Update{op: op, fields: docstore.Fields{
		role.field("ActualContact"): memberID,
		role.field("RevealedAt"):    at.UTC(),
	}}, nil
}

func checkMove(op string, g Game, callerID, memberID string) (Role, error) {
	if callerID == "" || memberID == "" {
		return RoleNone, Errorf(CodeInvalidArgument, op, "caller and member ids are required")
	}
	role := g.RoleOf(callerID)
	if role == RoleNone {
		return RoleNone, Errorf(CodeForbidden, op, "%q is not a player in game %s", callerID, g.ID)
	}
	if g.Status == StatusCompleted {
		return RoleNone, Errorf(CodeInvalidState, op, "game %s is completed", g.ID)
	}
	return role, nil
}

// GuessingCompleteUpdate moves an active game to guessing_complete.
func GuessingCompleteUpdate(g Game) (Update, error) {
	const op = "advance game"
	if !CanTransition(g.Status, StatusGuessingComplete) {
		return Update{}, Errorf(CodeInvalidState, op, "cannot move game %s from %s to %s", g.ID, g.Status, StatusGuessingComplete)
	}
	return Update{op: op, fields: docstore.Fields{
		"status": StatusGuessingComplete,
	}}, nil
}

// CompletionUpdate writes the resolution and the consequence snapshot,
// completing the game. It refuses a game whose outcome is already set.
func CompletionUpdate(g Game, res Resolution, refs []ConsequenceRef, at time.Time) (Update, error) {
	const op = "complete game"
	if g.Outcome != nil {
		return Update{}, Errorf(CodeInvalidState, op, "game %s already resolved as %s", g.ID, *g.Outcome)
	}
	if !CanTransition(g.Status, StatusCompleted) {
		return Update{}, Errorf(CodeInvalidState, op, "cannot move game %s from %s to %s", g.ID, g.Status, StatusCompleted)
	}
	if refs == nil {
		refs = []ConsequenceRef{}
	}
	return Update{op: op, fields: docstore.Fields{
		"status":          StatusCompleted,
		"outcome":         res.Outcome,
		"winner":          res.Winner,
		"consequences":    refs,
		"gameCompletedAt": at.UTC(),
	}}, nil
}

// Apply returns the game with the update's fields merged in, the same way
// the document store merges them.
func (g Game) Apply(u Update) (Game, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return Game{}, fmt.Errorf("apply %s: %w", u.op, err)
	}
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Game{}, fmt.Errorf("apply %s: %w", u.op, err)
	}
	for k, v := range u.fields {
		b, err := json.Marshal(v)
		if err != nil {
			return Game{}, fmt.Errorf("apply %s: field %s: %w", u.op, k, err)
		}
		obj[k] = b
	}
	merged, err := json.Marshal(obj)
	if err != nil {
		return Game{}, fmt.Errorf("apply %s: %w", u.op, err)
	}

	out := Game{ID: g.ID}
	if err := json.Unmarshal(merged, &out); err != nil {
		return Game{}, fmt.Errorf("apply %s: %w", u.op, err)
	}
	return out, nil
}
