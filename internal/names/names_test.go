package names

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/touchbase/internal/game"
	"github.com/roach88/touchbase/internal/schema"
	"github.com/roach88/touchbase/internal/store"
)

// countingLoader returns "Name(<id>)" and counts calls.
type countingLoader struct {
	calls atomic.Int32
	fail  bool
}

func (l *countingLoader) DisplayName(_ context.Context, id string) (string, error) {
	l.calls.Add(1)
	if l.fail {
		return "", errors.New("backend down")
	}
	return "Name(" + id + ")", nil
}

func TestCache_ReadThrough(t *testing.T) {
	loader := &countingLoader{}
	c, err := New(loader, 8)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		name, err := c.Name(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Name(alice)", name)
	}
	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCache_Invalidate(t *testing.T) {
	loader := &countingLoader{}
	c, err := New(loader, 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = c.Name(ctx, "alice")
	_, _ = c.Name(ctx, "bob")
	c.Invalidate()
	assert.Equal(t, 0, c.Len())

	_, _ = c.Name(ctx, "alice")
	assert.Equal(t, int32(3), loader.calls.Load())

	c.Forget("alice")
	_, _ = c.Name(ctx, "alice")
	assert.Equal(t, int32(4), loader.calls.Load())
}

func TestCache_Bounded(t *testing.T) {
	c, err := New(&countingLoader{}, 2)
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := c.Name(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())
}

func TestCache_LoadErrorFallsBackToID(t *testing.T) {
	loader := &countingLoader{fail: true}
	c, err := New(loader, 0)
	require.NoError(t, err)

	name, err := c.Name(context.Background(), "alice")
	assert.Error(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, 0, c.Len())
}

func TestCache_LoaderFunc(t *testing.T) {
	c, err := New(LoaderFunc(func(_ context.Context, id string) (string, error) {
		return "user " + id, nil
	}), 4)
	require.NoError(t, err)

	name, err := c.Name(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "user 42", name)
}

func TestUsers_DisplayName(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.WithValidator(schema.MustNew().Validate))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	u := NewUsers(s)
	ctx := context.Background()

	require.NoError(t, u.SetDisplayName(ctx, "alice", "Alice Liddell"))

	tests := []struct {
		id   string
		want string
	}{
		{"alice", "Alice Liddell"},
		{"mock_user_1_sarah", "Sarah Chen"},
		{"mock_user_4_alex", "Alex Thompson"},
		{"bob", "bob"},
	}
	for _, tt := range tests {
		got, err := u.DisplayName(ctx, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.id)
	}

	err = u.SetDisplayName(ctx, "alice", "")
	assert.True(t, game.IsInvalidArgument(err))
}

func TestUsers_StoredNameOverridesMockName(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	u := NewUsers(s)
	ctx := context.Background()
	require.NoError(t, u.SetDisplayName(ctx, "mock_user_2_mike", "Michael"))

	c, err := New(u, 4)
	require.NoError(t, err)
	name, err := c.Name(ctx, "mock_user_2_mike")
	require.NoError(t, err)
	assert.Equal(t, "Michael", name)
}
