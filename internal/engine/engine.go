package engine

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
	"github.com/roach88/touchbase/internal/ident"
)

// DefaultMaxTxAttempts is how many times a conflicting transaction is run
// before the call fails with TRANSACTION_CONFLICT.
const DefaultMaxTxAttempts = 3

// DefaultBotPrefix identifies simulated community members.
const DefaultBotPrefix = "mock_user_"

// Roster returns the member ids of a community.
// Implementations return a game.Error with CodeNotFound for an unknown
// community.
type Roster interface {
	Members(ctx context.Context, communityID string) ([]string, error)
}

// Service runs player actions against the document store.
//
// Thread-safety: Service is safe for concurrent use. Correctness across
// processes relies on store transactions, not on in-memory locking.
type Service struct {
	store  docstore.Store
	roster Roster

	clock       Clock
	ids         ident.Generator
	isBot       func(memberID string) bool
	logger      *slog.Logger
	maxAttempts int

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for document timestamps.
func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithIDGenerator sets the generator for new game ids.
//
// Default: ident.UUIDv7Generator
// Use ident.NewFixedGenerator in tests for stable ids.
func WithIDGenerator(g ident.Generator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithRand sets the random source the bot simulator draws from.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rand = r
	}
}

// WithBotDetector sets the predicate identifying simulated members.
//
// Default: game.PrefixDetector(DefaultBotPrefix)
func WithBotDetector(isBot func(memberID string) bool) Option {
	return func(s *Service) {
		s.isBot = isBot
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMaxTxAttempts bounds transaction retries under contention.
// Values below 1 are treated as 1.
func WithMaxTxAttempts(n int) Option {
	return func(s *Service) {
		s.maxAttempts = max(n, 1)
	}
}

// New creates a Service over the given store and roster.
func New(store docstore.Store, roster Roster, opts ...Option) *Service {
	s := &Service{
		store:       store,
		roster:      roster,
		clock:       SystemClock{},
		ids:         ident.UUIDv7Generator{},
		isBot:       game.PrefixDetector(DefaultBotPrefix),
		logger:      slog.New(slog.DiscardHandler),
		maxAttempts: DefaultMaxTxAttempts,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.isBot == nil {
		s.isBot = func(string) bool { return false }
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// IsBot reports whether a member id belongs to a simulated participant.
func (s *Service) IsBot(memberID string) bool {
	return s.isBot(memberID)
}

// pick draws one element uniformly at random.
func (s *Service) pick(candidates []string) string {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return candidates[s.rand.IntN(len(candidates))]
}
