package testutil

import (
	"context"
	"sync"

	"github.com/roach88/touchbase/internal/game"
)

// StaticRoster is an in-memory community roster.
//
// Thread-safety: StaticRoster is safe for concurrent use via internal mutex.
type StaticRoster struct {
	mu          sync.RWMutex
	communities map[string][]string
}

// NewStaticRoster creates a roster with a single community.
func NewStaticRoster(communityID string, members ...string) *StaticRoster {
	r := &StaticRoster{communities: map[string][]string{}}
	r.Set(communityID, members...)
	return r
}

// Set replaces a community's member list.
func (r *StaticRoster) Set(communityID string, members ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.communities[communityID] = append([]string(nil), members...)
}

// Members returns a copy of the community's members.
//
// Implements engine.Roster.
func (r *StaticRoster) Members(_ context.Context, communityID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.communities[communityID]
	if !ok {
		return nil, game.Errorf(game.CodeNotFound, "members", "community %s not found", communityID)
	}
	return append([]string(nil), members...), nil
}
