package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Config{
		DB:            "touchbase.db",
		BotPrefix:     "mock_user_",
		TxAttempts:    3,
		PollInterval:  time.Second,
		NameCacheSize: 256,
	}, cfg)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("TOUCHBASE_DB", "/tmp/games.db")
	t.Setenv("TOUCHBASE_BOT_PREFIX", "bot_")
	t.Setenv("TOUCHBASE_TX_ATTEMPTS", "5")
	t.Setenv("TOUCHBASE_POLL_INTERVAL", "250ms")
	t.Setenv("TOUCHBASE_NAME_CACHE_SIZE", "16")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Config{
		DB:            "/tmp/games.db",
		BotPrefix:     "bot_",
		TxAttempts:    5,
		PollInterval:  250 * time.Millisecond,
		NameCacheSize: 16,
	}, cfg)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"attempts not a number", "TOUCHBASE_TX_ATTEMPTS", "many", "parse env"},
		{"zero attempts", "TOUCHBASE_TX_ATTEMPTS", "0", "must be at least 1"},
		{"bad duration", "TOUCHBASE_POLL_INTERVAL", "soon", "parse env"},
		{"negative poll", "TOUCHBASE_POLL_INTERVAL", "-1s", "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInvalidConfigIsCommandError(t *testing.T) {
	t.Setenv("TOUCHBASE_TX_ATTEMPTS", "0")

	_, _, err := execute(t, "--db", testDB(t), "game", "show", "g1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}
