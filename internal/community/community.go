// Package community reads and seeds community rosters.
//
// The engine only needs a community's member list; Directory also covers
// the small amount of roster management the CLI and scenario harness need
// to set up games.
package community

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
	"github.com/roach88/touchbase/internal/ident"
)

// MockMember is a simulated participant added for testing games.
type MockMember struct {
	ID          string
	DisplayName string
}

// MockMembers are the simulated participants AddMockMembers adds.
var MockMembers = []MockMember{
	{ID: "mock_user_1_sarah", DisplayName: "Sarah Chen"},
	{ID: "mock_user_2_mike", DisplayName: "Mike Rodriguez"},
	{ID: "mock_user_3_jessica", DisplayName: "Jessica Kim"},
	{ID: "mock_user_4_alex", DisplayName: "Alex Thompson"},
}

// MockDisplayName returns the display name of a mock member.
func MockDisplayName(memberID string) (string, bool) {
	for _, m := range MockMembers {
		if m.ID == memberID {
			return m.DisplayName, true
		}
	}
	return "", false
}

// Community is a roster of members.
type Community struct {
	ID string `json:"-"`

	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Members     []string  `json:"members"`
	IsActive    bool      `json:"isActive"`
}

// Directory stores communities in a docstore.Store.
// It implements engine.Roster.
type Directory struct {
	store docstore.Store
	ids   ident.Generator
	now   func() time.Time
}

// Option configures a Directory.
type Option func(*Directory)

// WithIDGenerator sets the generator for new community ids.
func WithIDGenerator(g ident.Generator) Option {
	return func(d *Directory) {
		d.ids = g
	}
}

// WithClock sets the time source for createdAt.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		d.now = now
	}
}

// NewDirectory creates a Directory over the given store.
func NewDirectory(s docstore.Store, opts ...Option) *Directory {
	d := &Directory{
		store: s,
		ids:   ident.UUIDv7Generator{},
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Get reads a community.
func (d *Directory) Get(ctx context.Context, communityID string) (Community, error) {
	return load(ctx, d.store, "get community", communityID)
}

// Members returns the member ids of a community.
func (d *Directory) Members(ctx context.Context, communityID string) ([]string, error) {
	c, err := load(ctx, d.store, "members", communityID)
	if err != nil {
		return nil, err
	}
	return c.Members, nil
}

// Create stores a new active community. The creator is always a member.
// An empty c.ID is filled from the id generator.
func (d *Directory) Create(ctx context.Context, c Community) (Community, error) {
	const op = "create community"
	if c.Name == "" || c.CreatedBy == "" {
		return Community{}, game.Errorf(game.CodeInvalidArgument, op, "name and creator are required")
	}
	if c.ID == "" {
		c.ID = d.ids.Generate()
	}
	c.CreatedAt = d.now().UTC()
	c.IsActive = true
	c.Members = union([]string{c.CreatedBy}, c.Members)

	created, err := d.store.Create(ctx, game.CollectionCommunities, c.ID, c)
	if err != nil {
		return Community{}, fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		return Community{}, game.Errorf(game.CodeInvalidState, op, "community %s already exists", c.ID)
	}
	return c, nil
}

// AddMembers adds member ids to a community, skipping existing members.
func (d *Directory) AddMembers(ctx context.Context, communityID string, members ...string) (Community, error) {
	const op = "add members"
	var out Community
	err := d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		c, err := load(ctx, tx, op, communityID)
		if err != nil {
			return err
		}
		c.Members = union(c.Members, members)
		if err := tx.Update(ctx, game.CollectionCommunities, communityID, docstore.Fields{"members": c.Members}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		out = c
		return nil
	})
	if err != nil {
		return Community{}, err
	}
	return out, nil
}

// AddMockMembers adds the simulated participants to a community.
func (d *Directory) AddMockMembers(ctx context.Context, communityID string) (Community, error) {
	ids := make([]string, len(MockMembers))
	for i, m := range MockMembers {
		ids[i] = m.ID
	}
	return d.AddMembers(ctx, communityID, ids...)
}

// ListForMember returns the communities a member belongs to, ordered by id.
func (d *Directory) ListForMember(ctx context.Context, memberID string) ([]Community, error) {
	docs, err := d.store.Query(ctx, game.CollectionCommunities, docstore.Contains("members", memberID))
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	out := make([]Community, 0, len(docs))
	for _, doc := range docs {
		c, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func load(ctx context.Context, r docstore.Reader, op, id string) (Community, error) {
	if id == "" {
		return Community{}, game.Errorf(game.CodeInvalidArgument, op, "community id is required")
	}
	doc, err := r.Get(ctx, game.CollectionCommunities, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Community{}, game.Errorf(game.CodeNotFound, op, "community %s not found", id)
	}
	if err != nil {
		return Community{}, fmt.Errorf("%s: %w", op, err)
	}
	return decode(doc)
}

func decode(doc docstore.Document) (Community, error) {
	var c Community
	if err := doc.DataTo(&c); err != nil {
		return Community{}, err
	}
	c.ID = doc.ID
	if c.Members == nil {
		c.Members = []string{}
	}
	return c, nil
}

// union appends the ids of extra missing from base, keeping order.
func union(base, extra []string) []string {
	out := slices.Clone(base)
	for _, id := range extra {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
