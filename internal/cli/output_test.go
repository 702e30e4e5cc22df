package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/touchbase/internal/game"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}, "ignored"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"result": "success"}, resp.Data)
	assert.NotContains(t, buf.String(), "ignored")
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}, "All done"))
	assert.Equal(t, "All done\n", buf.String())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("FORBIDDEN", "not a player", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	assert.Equal(t, "not a player", resp.Error.Message)
	assert.Nil(t, resp.Data)
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut, Verbose: true}

	require.NoError(t, formatter.Error("INVALID_STATE", "game is completed", "details"))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [INVALID_STATE]: game is completed")
	assert.Contains(t, errOut.String(), "Details: details")
}

func TestOutputFormatter_Fail(t *testing.T) {
	t.Run("game error", func(t *testing.T) {
		buf := &bytes.Buffer{}
		formatter := &OutputFormatter{Format: "json", Writer: buf}

		cause := fmt.Errorf("wrapped: %w", game.Errorf(game.CodeForbidden, "submit guess", "%q is not a player", "carol"))
		err := formatter.Fail(cause)

		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.True(t, IsReported(err))
		assert.ErrorIs(t, err, cause)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
		assert.Equal(t, `"carol" is not a player`, resp.Error.Message)
	})

	t.Run("other error", func(t *testing.T) {
		buf := &bytes.Buffer{}
		formatter := &OutputFormatter{Format: "json", Writer: buf}

		err := formatter.Fail(errors.New("disk full"))
		assert.Equal(t, ExitCommandError, GetExitCode(err))

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "COMMAND_ERROR", resp.Error.Code)
		assert.Equal(t, "disk full", resp.Error.Message)
	})
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}
	quiet.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	loud := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	loud.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestExitError(t *testing.T) {
	plain := NewExitError(ExitCommandError, "bad path")
	assert.Equal(t, "bad path", plain.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(plain))
	assert.False(t, IsReported(plain))

	wrapped := WrapExitError(ExitFailure, "engine error", errors.New("boom"))
	assert.Equal(t, "engine error: boom", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("outer: %w", wrapped)))

	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}
