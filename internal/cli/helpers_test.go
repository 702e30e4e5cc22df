package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// testDB returns a fresh database path.
func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "touchbase.db")
}

// runJSON runs a command with --format json against db and decodes the
// response envelope.
func runJSON(t *testing.T, db string, args ...string) (CLIResponse, error) {
	t.Helper()

	stdout, _, err := execute(t, append([]string{"--db", db, "--format", "json"}, args...)...)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "stdout: %s", stdout)
	return resp, err
}

// mustJSON is runJSON for commands that must succeed. It returns the data
// payload.
func mustJSON(t *testing.T, db string, args ...string) map[string]any {
	t.Helper()

	resp, err := runJSON(t, db, args...)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return data
}

// seedCommunity creates community c1 with alice, bob, carol and dave.
func seedCommunity(t *testing.T, db string) {
	t.Helper()
	mustJSON(t, db, "community", "create", "c1", "--name", "Book club", "--creator", "alice",
		"--member", "bob", "--member", "carol", "--member", "dave")
}
