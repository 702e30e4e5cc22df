package game

import (
	"strings"
	"time"
)

// Collection names in the document store.
const (
	CollectionGames        = "games"
	CollectionConsequences = "consequences"
	CollectionCommunities  = "communities"
	CollectionUsers        = "users"
)

// Status is the lifecycle phase of a game.
type Status string

const (
	StatusActive           Status = "active"
	StatusGuessingComplete Status = "guessing_complete"
	StatusCompleted        Status = "completed"
)

// Outcome records which players guessed correctly.
type Outcome string

const (
	OutcomeBothCorrect    Outcome = "both_correct"
	OutcomePlayer1Correct Outcome = "player1_correct"
	OutcomePlayer2Correct Outcome = "player2_correct"
	OutcomeBothWrong      Outcome = "both_wrong"
)

// Winner is derived from the Outcome.
type Winner string

const (
	WinnerPlayer1 Winner = "player1"
	WinnerPlayer2 Winner = "player2"
	WinnerTie     Winner = "tie"
	WinnerNone    Winner = "none"
)

// ConsequenceType distinguishes one-sided obligations from shared ones.
type ConsequenceType string

const (
	ConsequenceOwed  ConsequenceType = "owed"
	ConsequenceJoint ConsequenceType = "joint"
)

// Role identifies a player's slot in a game.
type Role int

const (
	RoleNone Role = iota
	RolePlayer1
	RolePlayer2
)

// String returns the field prefix used for the role's slot ("player1").
func (r Role) String() string {
	switch r {
	case RolePlayer1:
		return "player1"
	case RolePlayer2:
		return "player2"
	default:
		return "none"
	}
}

// Opponent returns the other role.
func (r Role) Opponent() Role {
	switch r {
	case RolePlayer1:
		return RolePlayer2
	case RolePlayer2:
		return RolePlayer1
	default:
		return RoleNone
	}
}

// field returns the stored field name for this role's slot, e.g.
// RolePlayer2.field("Guess") == "player2Guess".
func (r Role) field(suffix string) string {
	return r.String() + suffix
}

// ConsequenceRef is the denormalized consequence snapshot kept on a
// completed game.
type ConsequenceRef struct {
	ID          string          `json:"id"`
	Type        ConsequenceType `json:"type"`
	PlayerID    string          `json:"playerId"`
	TargetID    string          `json:"targetId"`
	Description string          `json:"description"`
}

// Game is the stored form of one round between two community members.
//
// Nullable fields are pointers; a nil pointer is stored as JSON null.
type Game struct {
	ID string `json:"-"`

	CommunityID string    `json:"communityId"`
	Player1ID   string    `json:"player1Id"`
	Player2ID   string    `json:"player2Id"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`

	Player1Guess            *string    `json:"player1Guess"`
	Player2Guess            *string    `json:"player2Guess"`
	Player1GuessSubmittedAt *time.Time `json:"player1GuessSubmittedAt"`
	Player2GuessSubmittedAt *time.Time `json:"player2GuessSubmittedAt"`

	Player1ActualContact *string    `json:"player1ActualContact"`
	Player2ActualContact *string    `json:"player2ActualContact"`
	Player1RevealedAt    *time.Time `json:"player1RevealedAt"`
	Player2RevealedAt    *time.Time `json:"player2RevealedAt"`

	Outcome      *Outcome         `json:"outcome"`
	Winner       *Winner          `json:"winner"`
	Consequences []ConsequenceRef `json:"consequences"`
	CompletedAt  *time.Time       `json:"gameCompletedAt"`

	IsBotOpponent bool `json:"isBotOpponent"`

	// BotOpponent is a legacy spelling of IsBotOpponent. Read only.
	BotOpponent *bool `json:"botOpponent,omitempty"`
}

// NewGame returns an active game with every slot empty.
func NewGame(id, communityID, player1ID, player2ID string, bot bool, at time.Time) Game {
	return Game{
		ID:            id,
		CommunityID:   communityID,
		Player1ID:     player1ID,
		Player2ID:     player2ID,
		Status:        StatusActive,
		CreatedAt:     at.UTC(),
		Consequences:  []ConsequenceRef{},
		IsBotOpponent: bot,
	}
}

// Slot is one player's view of their own moves.
type Slot struct {
	Guess            *string
	GuessSubmittedAt *time.Time
	ActualContact    *string
	RevealedAt       *time.Time
}

// Slot returns the moves recorded for role.
func (g Game) Slot(r Role) Slot {
	switch r {
	case RolePlayer1:
		return Slot{g.Player1Guess, g.Player1GuessSubmittedAt, g.Player1ActualContact, g.Player1RevealedAt}
	case RolePlayer2:
		return Slot{g.Player2Guess, g.Player2GuessSubmittedAt, g.Player2ActualContact, g.Player2RevealedAt}
	default:
		return Slot{}
	}
}

// RoleOf returns the caller's role, or RoleNone for a non-player.
func (g Game) RoleOf(callerID string) Role {
	switch {
	case callerID == "":
		return RoleNone
	case callerID == g.Player1ID:
		return RolePlayer1
	case callerID == g.Player2ID:
		return RolePlayer2
	default:
		return RoleNone
	}
}

// PlayerID returns the member id holding role.
func (g Game) PlayerID(r Role) string {
	switch r {
	case RolePlayer1:
		return g.Player1ID
	case RolePlayer2:
		return g.Player2ID
	default:
		return ""
	}
}

// IsBotGame reports whether the game was created against a simulated
// opponent, honoring the legacy botOpponent flag.
func (g Game) IsBotGame() bool {
	return g.IsBotOpponent || (g.BotOpponent != nil && *g.BotOpponent)
}

// BotRoles returns the roles played by simulated participants.
// A flagged game whose ids do not identify a bot treats player 2 as the bot.
func (g Game) BotRoles(isBot func(memberID string) bool) []Role {
	var roles []Role
	if isBot != nil {
		if isBot(g.Player1ID) {
			roles = append(roles, RolePlayer1)
		}
		if isBot(g.Player2ID) {
			roles = append(roles, RolePlayer2)
		}
	}
	if len(roles) == 0 && g.IsBotGame() {
		roles = append(roles, RolePlayer2)
	}
	return roles
}

// PrefixDetector returns a bot detector matching member ids by prefix.
// An empty prefix matches nothing.
func PrefixDetector(prefix string) func(string) bool {
	return func(memberID string) bool {
		return prefix != "" && strings.HasPrefix(memberID, prefix)
	}
}

// Consequence is an obligation derived from a completed game.
type Consequence struct {
	ID string `json:"-"`

	FromGameID  string          `json:"fromGameId"`
	CommunityID string          `json:"communityId"`
	PlayerID    string          `json:"playerId"`
	TargetID    string          `json:"targetId"`
	Type        ConsequenceType `json:"type"`
	Description string          `json:"description"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	ProofText   *string    `json:"proofText"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Ref returns the snapshot form stored on the game.
func (c Consequence) Ref() ConsequenceRef {
	return ConsequenceRef{
		ID:          c.ID,
		Type:        c.Type,
		PlayerID:    c.PlayerID,
		TargetID:    c.TargetID,
		Description: c.Description,
	}
}
