package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/touchbase/internal/game"
)

func TestStaticRoster(t *testing.T) {
	ctx := context.Background()
	r := NewStaticRoster("c1", "alice", "bob")

	members, err := r.Members(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, members)

	// Returned slices are copies.
	members[0] = "mallory"
	again, err := r.Members(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "alice", again[0])

	_, err = r.Members(ctx, "missing")
	assert.True(t, game.IsNotFound(err))
}
