package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame_StoredShape(t *testing.T) {
	g := NewGame("g1", "c1", "alice", "mock_user_1_sarah", true, testTime)

	raw, err := json.Marshal(g)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(raw, &obj))

	assert.NotContains(t, obj, "id")
	assert.NotContains(t, obj, "botOpponent")
	assert.Equal(t, "active", obj["status"])
	assert.Equal(t, true, obj["isBotOpponent"])
	assert.Equal(t, []any{}, obj["consequences"])
	for _, k := range []string{
		"player1Guess", "player2Guess", "player1GuessSubmittedAt", "player2GuessSubmittedAt",
		"player1ActualContact", "player2ActualContact", "player1RevealedAt", "player2RevealedAt",
		"outcome", "winner", "gameCompletedAt",
	} {
		v, ok := obj[k]
		assert.True(t, ok, "missing %s", k)
		assert.Nil(t, v, k)
	}
}

func TestRole(t *testing.T) {
	g := newTestGame()
	assert.Equal(t, RolePlayer1, g.RoleOf("alice"))
	assert.Equal(t, RolePlayer2, g.RoleOf("bob"))
	assert.Equal(t, RoleNone, g.RoleOf("carol"))
	assert.Equal(t, RoleNone, g.RoleOf(""))

	assert.Equal(t, RolePlayer2, RolePlayer1.Opponent())
	assert.Equal(t, RoleNone, RoleNone.Opponent())
	assert.Equal(t, "bob", g.PlayerID(RolePlayer1.Opponent()))
	assert.Equal(t, "player2Guess", RolePlayer2.field("Guess"))
}

func TestBotRoles(t *testing.T) {
	isBot := PrefixDetector("mock_user_")

	g := NewGame("g1", "c1", "alice", "mock_user_2_mike", true, testTime)
	assert.Equal(t, []Role{RolePlayer2}, g.BotRoles(isBot))

	g = NewGame("g1", "c1", "mock_user_1_sarah", "alice", true, testTime)
	assert.Equal(t, []Role{RolePlayer1}, g.BotRoles(isBot))

	// Flagged without a matching id: player 2 is the bot.
	g = NewGame("g1", "c1", "alice", "bob", true, testTime)
	assert.Equal(t, []Role{RolePlayer2}, g.BotRoles(isBot))

	g = NewGame("g1", "c1", "alice", "bob", false, testTime)
	assert.Empty(t, g.BotRoles(isBot))
}

func TestIsBotGame_LegacyFlag(t *testing.T) {
	var g Game
	require.NoError(t, json.Unmarshal([]byte(`{"player1Id":"a","player2Id":"b","botOpponent":true}`), &g))
	assert.False(t, g.IsBotOpponent)
	assert.True(t, g.IsBotGame())
}

func TestPrefixDetector_EmptyPrefix(t *testing.T) {
	assert.False(t, PrefixDetector("")("anyone"))
	assert.True(t, PrefixDetector("mock_user_")("mock_user_3_jessica"))
}

func TestConsequence_Ref(t *testing.T) {
	c := Consequence{ID: "abc", Type: ConsequenceOwed, PlayerID: "bob", TargetID: "alice", Description: DescriptionOwed}
	assert.Equal(t, ConsequenceRef{ID: "abc", Type: ConsequenceOwed, PlayerID: "bob", TargetID: "alice", Description: DescriptionOwed}, c.Ref())
}
