// Package names resolves member ids to display names.
//
// Cache is an explicit, injectable read-through cache: callers construct
// one, pass it where names are rendered, and call Invalidate when the
// session ends. There is no package-level state.
package names

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/touchbase/internal/community"
	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
)

// DefaultSize is the default number of names kept by a Cache.
const DefaultSize = 256

// Loader looks up a member's display name.
type Loader interface {
	DisplayName(ctx context.Context, memberID string) (string, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, memberID string) (string, error)

// DisplayName calls f.
func (f LoaderFunc) DisplayName(ctx context.Context, memberID string) (string, error) {
	return f(ctx, memberID)
}

// Cache is a bounded read-through cache in front of a Loader.
//
// Thread-safety: Cache is safe for concurrent use.
type Cache struct {
	loader Loader
	lru    *lru.Cache[string, string]
}

// New creates a Cache holding at most size names.
func New(loader Loader, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	l, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("names cache: %w", err)
	}
	return &Cache{loader: loader, lru: l}, nil
}

// Name returns the display name of memberID, loading it on a miss.
// On a load failure the raw id is returned alongside the error and
// nothing is cached.
func (c *Cache) Name(ctx context.Context, memberID string) (string, error) {
	if name, ok := c.lru.Get(memberID); ok {
		return name, nil
	}
	name, err := c.loader.DisplayName(ctx, memberID)
	if err != nil {
		return memberID, err
	}
	c.lru.Add(memberID, name)
	return name, nil
}

// Forget drops one cached name.
func (c *Cache) Forget(memberID string) {
	c.lru.Remove(memberID)
}

// Invalidate drops every cached name.
func (c *Cache) Invalidate() {
	c.lru.Purge()
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Users reads and writes the users collection.
// Its DisplayName falls back to the mock member names, then to the raw id.
type Users struct {
	store docstore.Store
}

var _ Loader = (*Users)(nil)

// NewUsers creates a Users over the given store.
func NewUsers(s docstore.Store) *Users {
	return &Users{store: s}
}

type userDoc struct {
	DisplayName string `json:"displayName"`
}

// DisplayName implements Loader.
func (u *Users) DisplayName(ctx context.Context, memberID string) (string, error) {
	doc, err := u.store.Get(ctx, game.CollectionUsers, memberID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
	case err != nil:
		return "", fmt.Errorf("load display name of %s: %w", memberID, err)
	default:
		var ud userDoc
		if err := doc.DataTo(&ud); err != nil {
			return "", err
		}
		if ud.DisplayName != "" {
			return ud.DisplayName, nil
		}
	}

	if name, ok := community.MockDisplayName(memberID); ok {
		return name, nil
	}
	return memberID, nil
}

// SetDisplayName stores a member's display name.
func (u *Users) SetDisplayName(ctx context.Context, memberID, name string) error {
	const op = "set display name"
	if memberID == "" || name == "" {
		return game.Errorf(game.CodeInvalidArgument, op, "member id and name are required")
	}
	if err := u.store.Merge(ctx, game.CollectionUsers, memberID, docstore.Fields{"displayName": name}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
