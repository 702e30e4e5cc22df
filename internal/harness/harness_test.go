package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Fixtures(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			result, err := RunFile(context.Background(), path)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.NoError(t, Check(result))
		})
	}
}

func TestRun_RecordsTrace(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{Step: 0, Action: ActionGuess, As: "alice", Member: "carol", Status: "active"}, result.Trace[0])
	assert.Equal(t, "carol", result.Game["player1Guess"])
	assert.Empty(t, result.Consequences)
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)
	s.Steps = append(s.Steps, Step{Action: ActionGuess, As: "carol", Member: "dave"})

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "steps[1] guess: unexpected error")
	assert.Equal(t, "FORBIDDEN", result.Trace[1].Error)
	assert.ErrorIs(t, Check(result), ErrFailed)
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)
	s.Steps[0].ExpectError = "FORBIDDEN"

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected FORBIDDEN, got success")
}

func TestRun_WrongErrorCode(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)
	s.Steps[0] = Step{Action: ActionGuess, As: "alice", Member: "bob", ExpectError: "FORBIDDEN"}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected FORBIDDEN")
	assert.Equal(t, "INVALID_ARGUMENT", result.Trace[0].Error)
}

func TestRun_ExpectMismatch(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)
	s.Steps[0].Expect = map[string]any{"status": "completed", "player1Guess": "carol"}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "status: expected completed, got active")
}

func TestRun_CompleteWithoutConsequence(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)
	s.Steps = append(s.Steps, Step{Action: ActionComplete, As: "bob", ExpectError: "NOT_FOUND"})

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_UnknownCreator(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)
	s.Game.Player2 = "zed"

	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create game")
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/bot_game.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := MarshalSnapshot(s.Name, first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
