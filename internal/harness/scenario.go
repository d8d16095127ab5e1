package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qgf/internal/ir"
)

// DefaultGameID is the game ID used when a scenario does not set one.
const DefaultGameID = "test-game-default"

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// GameID is an optional fixed game ID for deterministic move IDs.
	GameID string `yaml:"game_id,omitempty"`

	// Setup is the game setup. Zero-valued fields take their defaults.
	Setup SetupSpec `yaml:"setup"`

	// Moves are played in order against one game.
	Moves []MoveStep `yaml:"moves"`

	// Assertions validate the final snapshot.
	Assertions []Assertion `yaml:"assertions"`
}

// SetupSpec is the YAML form of ir.GameSetup.
type SetupSpec struct {
	Names          []string `yaml:"names"`
	CardsPerPlayer int      `yaml:"cards_per_player,omitempty"`
	Suits          int      `yaml:"suits,omitempty"`
	Difficulty     int      `yaml:"difficulty,omitempty"`
}

// GameSetup converts the scenario setup to an ir.GameSetup.
func (s SetupSpec) GameSetup() ir.GameSetup {
	return ir.GameSetup{
		Names:          append([]string(nil), s.Names...),
		CardsPerPlayer: s.CardsPerPlayer,
		Suits:          s.Suits,
		Difficulty:     s.Difficulty,
	}
}

// MoveStep is one move of the scenario.
type MoveStep struct {
	// Ask is the request.
	Ask RequestSpec `yaml:"ask"`

	// Answer is the response. Nil means the move only asks.
	Answer *bool `yaml:"answer,omitempty"`

	// Expect checks the move outcome. Nil means the move must commit.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// RequestSpec is the YAML form of engine.Request.
type RequestSpec struct {
	Asking int `yaml:"asking"`
	Asked  int `yaml:"asked"`
	Suit   int `yaml:"suit"`
}

// ExpectClause specifies the expected outcome of a move.
type ExpectClause struct {
	// Outcome is committed, request_rejected or response_rejected.
	Outcome string `yaml:"outcome"`

	// Code is the expected rule error code, if rejected.
	Code string `yaml:"code,omitempty"`

	// MessageContains is a substring the rejection message must contain.
	MessageContains string `yaml:"message_contains,omitempty"`
}

// Assertion validates the final snapshot.
type Assertion struct {
	// Type is one of turn, unrevealed, unknown, known, excluded.
	Type string `yaml:"type"`

	Player *int `yaml:"player,omitempty"`
	Suit   *int `yaml:"suit,omitempty"`

	// Tag restricts a known assertion to one provenance bucket.
	// Nil means the tally over all tags.
	Tag *int `yaml:"tag,omitempty"`

	// Value is the expected count for turn, unrevealed, unknown and known.
	Value *int `yaml:"value,omitempty"`

	// Excluded is the expected flag for excluded.
	Excluded *bool `yaml:"excluded,omitempty"`
}

// Assertion type constants.
const (
	AssertTurn       = "turn"
	AssertUnrevealed = "unrevealed"
	AssertUnknown    = "unknown"
	AssertKnown      = "known"
	AssertExcluded   = "excluded"
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

// ParseScenario parses scenario YAML with strict field validation.
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

	if len(s.Setup.Names) == 0 {
		return fmt.Errorf("setup.names is required and must be non-empty")
	}

	if len(s.Moves) == 0 {
		return fmt.Errorf("moves list is required and must be non-empty")
	}

	for i, m := range s.Moves {
		if m.Expect != nil {
			switch m.Expect.Outcome {
			case ir.OutcomeCommitted, ir.OutcomeRequestRejected, ir.OutcomeResponseRejected:
			case "":
				return fmt.Errorf("moves[%d].expect: outcome is required", i)
			default:
				return fmt.Errorf("moves[%d].expect: unknown outcome %q", i, m.Expect.Outcome)
			}
		}
		if m.Answer == nil && (m.Expect == nil || m.Expect.Outcome != ir.OutcomeRequestRejected) {
			return fmt.Errorf("moves[%d]: answer is required unless the request is expected to be rejected", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	need := func(field string, ok bool) error {
		if !ok {
			return fmt.Errorf("assertions[%d]: %s is required for %s", index, field, a.Type)
		}
		return nil
	}

	var errs []error
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTurn:
		errs = append(errs, need("value", a.Value != nil))
	case AssertUnrevealed:
		errs = append(errs, need("suit", a.Suit != nil), need("value", a.Value != nil))
	case AssertUnknown:
		errs = append(errs, need("player", a.Player != nil), need("value", a.Value != nil))
	case AssertKnown:
		errs = append(errs, need("player", a.Player != nil), need("suit", a.Suit != nil), need("value", a.Value != nil))
	case AssertExcluded:
		errs = append(errs, need("player", a.Player != nil), need("suit", a.Suit != nil), need("excluded", a.Excluded != nil))
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
