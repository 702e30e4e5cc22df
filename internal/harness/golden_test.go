package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_Scenarios(t *testing.T) {
	// bot_game draws from a seeded source; its exact moves are checked for
	// repeatability in TestRun_Deterministic instead.
	for _, name := range []string{"both_correct", "player1_correct", "both_wrong"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestMarshalSnapshot_DropsVolatileFields(t *testing.T) {
	result := NewResult()
	result.AddTrace(TraceEvent{Step: 0, Action: ActionCheck, Status: "active"})
	result.Game = map[string]any{
		"status":       "active",
		"createdAt":    "2025-06-01T12:00:00Z",
		"player1Guess": nil,
		"consequences": []any{
			map[string]any{"id": "abc", "playerId": "alice"},
		},
	}
	result.Consequences = []map[string]any{
		{"playerId": "bob", "completedAt": nil},
		{"playerId": "alice", "count": float64(2)},
	}

	got, err := MarshalSnapshot("s", result)
	require.NoError(t, err)

	want := `{"consequences":[{"count":2,"playerId":"alice"},{"playerId":"bob"}],` +
		`"game":{"consequences":[{"playerId":"alice"}],"status":"active"},` +
		`"scenario_name":"s","trace":[{"action":"check","status":"active","step":0}]}`
	assert.Equal(t, want, string(got))
}

func TestMarshalSnapshot_RejectsFractions(t *testing.T) {
	result := NewResult()
	result.Game = map[string]any{"score": 1.5}

	_, err := MarshalSnapshot("s", result)
	assert.ErrorContains(t, err, "non-integral number")
}
