package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted game between two community members.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Community is the roster the game is played in.
	Community CommunitySetup `yaml:"community"`

	// Game names the two players. The game is created before the steps run.
	Game GameSetup `yaml:"game"`

	// Seed seeds the bot simulator's random source.
	Seed uint64 `yaml:"seed,omitempty"`

	// Steps are the player actions, run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and stored documents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// CommunitySetup seeds the community roster.
type CommunitySetup struct {
	ID      string   `yaml:"id"`
	Members []string `yaml:"members"`

	// Mocks adds the simulated members to the roster.
	Mocks bool `yaml:"mocks,omitempty"`
}

// GameSetup describes the game under test.
type GameSetup struct {
	// ID is the game id. Defaults to DefaultGameID.
	ID      string `yaml:"id,omitempty"`
	Player1 string `yaml:"player1"`
	Player2 string `yaml:"player2"`
}

// DefaultGameID is used when a scenario does not name its game.
const DefaultGameID = "game-1"

// Step is one action against the game.
type Step struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// As is the acting member (guess, reveal, complete).
	As string `yaml:"as,omitempty"`

	// Member is the guessed or revealed member (guess, reveal).
	Member string `yaml:"member,omitempty"`

	// Consequence indexes the game's consequence snapshot (complete).
	Consequence int `yaml:"consequence,omitempty"`

	// Proof is the proof text for complete.
	Proof string `yaml:"proof,omitempty"`

	// ExpectError is the expected error code, e.g. FORBIDDEN.
	// Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Expect is a subset of stored game fields to check after the step.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Step actions.
const (
	ActionGuess    = "guess"
	ActionReveal   = "reveal"
	ActionCheck    = "check"
	ActionAutoFill = "autofill"
	ActionComplete = "complete"
)

// Assertion validates the trace or final stored documents.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is the step action (trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// As optionally narrows trace_contains to one player.
	As string `yaml:"as,omitempty"`

	// Count is the expected number of steps (trace_count) or, when set,
	// of matching documents (final_state).
	Count *int `yaml:"count,omitempty"`

	// Collection is the store collection (final_state).
	Collection string `yaml:"collection,omitempty"`

	// Where filters documents by equality (final_state). When empty,
	// games are narrowed to the scenario's game and consequences to the
	// consequences it produced.
	Where map[string]any `yaml:"where,omitempty"`

	// Expect is a subset of fields the first matching document must have.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.Game.ID == "" {
		scenario.Game.ID = DefaultGameID
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Community.ID == "" {
		return fmt.Errorf("community.id is required")
	}

	if len(s.Community.Members) == 0 && !s.Community.Mocks {
		return fmt.Errorf("community.members is required unless community.mocks is set")
	}

	if s.Game.Player1 == "" || s.Game.Player2 == "" {
		return fmt.Errorf("game.player1 and game.player2 are required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step Step) error {
	switch step.Action {
	case ActionGuess, ActionReveal:
		if step.As == "" {
			return fmt.Errorf("steps[%d]: as is required for %s", index, step.Action)
		}
	case ActionComplete:
		if step.As == "" {
			return fmt.Errorf("steps[%d]: as is required for complete", index)
		}
		if step.Consequence < 0 {
			return fmt.Errorf("steps[%d]: consequence must be non-negative", index)
		}
	case ActionCheck, ActionAutoFill:
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, step.Action)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be set and non-negative for trace_count", index)
		}
	case AssertFinalState:
		if !slices.Contains([]string{"games", "consequences", "communities", "users"}, a.Collection) {
			return fmt.Errorf("assertions[%d]: unknown collection %q for final_state", index, a.Collection)
		}
		if len(a.Expect) == 0 && a.Count == nil {
			return fmt.Errorf("assertions[%d]: expect or count is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
