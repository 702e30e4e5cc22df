package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

var sampleTrace = []TraceEvent{
	{Step: 0, Action: ActionGuess, As: "alice", Member: "carol", Status: "active"},
	{Step: 1, Action: ActionGuess, As: "bob", Member: "dave", Status: "guessing_complete"},
	{Step: 2, Action: ActionCheck, Status: "guessing_complete"},
}

func TestAssertTraceContains(t *testing.T) {
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Action: ActionGuess}))
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Action: ActionGuess, As: "bob"}))

	err := assertTraceContains(sampleTrace, Assertion{Action: ActionReveal})
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Contains(t, err.Error(), "[1] guess as=bob member=dave -> guessing_complete")

	assert.Error(t, assertTraceContains(sampleTrace, Assertion{Action: ActionGuess, As: "carol"}))
}

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Action: ActionGuess, Count: intPtr(2)}))
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Action: ActionComplete, Count: intPtr(0)}))

	err := assertTraceCount(sampleTrace, Assertion{Action: ActionCheck, Count: intPtr(3)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appears 1 times")
}

func TestStateValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"strings", "carol", "carol", true},
		{"different strings", "carol", "dave", false},
		{"bools", true, true, true},
		{"bool vs string", true, "true", false},
		{"yaml int vs json number", 2, float64(2), true},
		{"int64", int64(3), float64(3), true},
		{"int mismatch", 2, float64(3), false},
		{"lists", []any{"a", 1}, []any{"a", float64(1)}, true},
		{"list length", []any{"a"}, []any{"a", "b"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateValuesEqual(tt.expected, tt.actual))
		})
	}
}

func TestDiffFields(t *testing.T) {
	actual := map[string]any{"status": "active", "player1Guess": nil}

	assert.Empty(t, diffFields(actual, map[string]any{"status": "active", "player1Guess": nil}))
	assert.Equal(t,
		[]string{"outcome: missing", "status: expected completed, got active"},
		diffFields(actual, map[string]any{"status": "completed", "outcome": "both_wrong"}))
}

func TestFormatWhere(t *testing.T) {
	assert.Equal(t, "(all)", formatWhere(nil))
	assert.Equal(t, "playerId = bob AND type = owed", formatWhere(map[string]any{"type": "owed", "playerId": "bob"}))
}
