package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/touchbase/internal/community"
	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/engine"
	"github.com/roach88/touchbase/internal/game"
	"github.com/roach88/touchbase/internal/ident"
	"github.com/roach88/touchbase/internal/schema"
	"github.com/roach88/touchbase/internal/store"
	"github.com/roach88/touchbase/internal/testutil"
)

// env is the per-run world a scenario plays in.
type env struct {
	store    *store.Store
	svc      *engine.Service
	scenario *Scenario
}

// Run executes a scenario against a fresh in-memory store.
//
// Step and assertion mismatches are recorded on the Result; the returned
// error is reserved for failures to set the run up.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	e, err := setup(ctx, scenario)
	if err != nil {
		return nil, err
	}
	defer e.store.Close()

	result := NewResult()
	for i, step := range scenario.Steps {
		e.runStep(ctx, i, step, result)
	}

	if err := e.snapshot(ctx, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(ctx, e.store, scenario, result) {
		result.AddError(msg)
	}
	return result, nil
}

func setup(ctx context.Context, scenario *Scenario) (*env, error) {
	v, err := schema.New()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	clock := testutil.NewDeterministicClock()
	s, err := store.Open(":memory:",
		store.WithValidator(v.Validate),
		store.WithClock(clock.Now))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	dir := community.NewDirectory(s, community.WithClock(clock.Now))
	_, err = dir.Create(ctx, community.Community{
		ID:        scenario.Community.ID,
		Name:      scenario.Community.ID,
		CreatedBy: scenario.Game.Player1,
		Members:   scenario.Community.Members,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create community: %w", err)
	}
	if scenario.Community.Mocks {
		if _, err := dir.AddMockMembers(ctx, scenario.Community.ID); err != nil {
			s.Close()
			return nil, fmt.Errorf("add mock members: %w", err)
		}
	}

	svc := engine.New(s, dir,
		engine.WithClock(clock),
		engine.WithIDGenerator(ident.NewFixedGenerator(scenario.Game.ID)),
		engine.WithRand(rand.New(rand.NewPCG(scenario.Seed, scenario.Seed))),
		engine.WithBotDetector(game.PrefixDetector(engine.DefaultBotPrefix)),
		engine.WithLogger(slog.New(slog.DiscardHandler)),
	)

	if _, err := svc.CreateGame(ctx, scenario.Community.ID, scenario.Game.Player1, scenario.Game.Player2); err != nil {
		s.Close()
		return nil, fmt.Errorf("create game: %w", err)
	}

	return &env{store: s, svc: svc, scenario: scenario}, nil
}

// runStep performs one step and records its trace event and any mismatch.
func (e *env) runStep(ctx context.Context, index int, step Step, result *Result) {
	err := e.perform(ctx, step)

	event := TraceEvent{
		Step:   index,
		Action: step.Action,
		As:     step.As,
		Member: step.Member,
	}
	if err != nil {
		event.Error = errorCode(err)
	}

	body, readErr := e.gameBody(ctx)
	if readErr != nil {
		result.AddError(fmt.Sprintf("steps[%d]: read game: %v", index, readErr))
	} else if status, ok := body["status"].(string); ok {
		event.Status = status
	}
	result.AddTrace(event)

	switch {
	case step.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", index, step.Action, err))
		return
	case step.ExpectError != "" && err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got success", index, step.Action, step.ExpectError))
		return
	case step.ExpectError != "" && event.Error != step.ExpectError:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got %v", index, step.Action, step.ExpectError, err))
		return
	}

	if readErr == nil {
		for _, mismatch := range diffFields(body, step.Expect) {
			result.AddError(fmt.Sprintf("steps[%d] %s: %s", index, step.Action, mismatch))
		}
	}
}

func (e *env) perform(ctx context.Context, step Step) error {
	id := e.scenario.Game.ID
	switch step.Action {
	case ActionGuess:
		_, err := e.svc.SubmitGuess(ctx, id, step.As, step.Member)
		return err
	case ActionReveal:
		_, err := e.svc.SubmitActualContact(ctx, id, step.As, step.Member)
		return err
	case ActionCheck:
		_, err := e.svc.CheckProgress(ctx, id)
		return err
	case ActionAutoFill:
		return e.svc.AutoFillBot(ctx, id)
	case ActionComplete:
		g, err := e.svc.GetGame(ctx, id)
		if err != nil {
			return err
		}
		if step.Consequence >= len(g.Consequences) {
			return game.Errorf(game.CodeNotFound, "complete", "game %s has no consequence %d", id, step.Consequence)
		}
		_, err = e.svc.CompleteConsequence(ctx, g.Consequences[step.Consequence].ID, step.As, step.Proof)
		return err
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

// errorCode returns the game error code of err, or "ERROR" for failures
// outside the game error taxonomy.
func errorCode(err error) string {
	if code := game.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

func (e *env) gameBody(ctx context.Context) (map[string]any, error) {
	doc, err := e.store.Get(ctx, game.CollectionGames, e.scenario.Game.ID)
	if err != nil {
		return nil, err
	}
	return decodeBody(doc)
}

// snapshot fills the final game and consequence bodies on the result.
func (e *env) snapshot(ctx context.Context, result *Result) error {
	body, err := e.gameBody(ctx)
	if err != nil {
		return fmt.Errorf("read final game: %w", err)
	}
	result.Game = body

	docs, err := e.store.Query(ctx, game.CollectionConsequences,
		docstore.Where("fromGameId", e.scenario.Game.ID))
	if err != nil {
		return fmt.Errorf("read consequences: %w", err)
	}
	result.Consequences = make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		body, err := decodeBody(doc)
		if err != nil {
			return err
		}
		result.Consequences = append(result.Consequences, body)
	}
	return nil
}

func decodeBody(doc docstore.Document) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(doc.Data, &body); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return body, nil
}

// RunFile loads and runs a scenario file.
func RunFile(ctx context.Context, path string) (*Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return RunContext(ctx, scenario)
}

// ErrFailed is returned by Check when a scenario ran but did not pass.
var ErrFailed = errors.New("scenario failed")

// Check returns ErrFailed wrapped with the result's errors, or nil if the
// result passed.
func Check(result *Result) error {
	if result.Pass {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrFailed, result.Errors)
}
