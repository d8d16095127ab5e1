package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/qgf/internal/engine"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Index    int    // Position in the scenario's assertion list
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertions[%d] failed: %s\n", e.Index, e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the final snapshot and
// returns one message per failure.
func EvaluateAssertions(s *engine.Snapshot, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(s, i, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluateAssertion(s *engine.Snapshot, index int, a Assertion) error {
	cfg := s.Config()

	if a.Player != nil && !cfg.ValidPlayer(engine.Player(*a.Player)) {
		return &AssertionError{Index: index, Type: a.Type,
			Expected: fmt.Sprintf("player in [0, %d)", cfg.Players),
			Actual:   fmt.Sprintf("player %d", *a.Player)}
	}
	if a.Suit != nil && !cfg.ValidSuit(engine.Suit(*a.Suit)) {
		return &AssertionError{Index: index, Type: a.Type,
			Expected: fmt.Sprintf("suit in [0, %d)", cfg.Suits),
			Actual:   fmt.Sprintf("suit %d", *a.Suit)}
	}

	switch a.Type {
	case AssertTurn:
		return compareCount(index, a.Type, "turn", *a.Value, s.Turn())

	case AssertUnrevealed:
		suit := engine.Suit(*a.Suit)
		return compareCount(index, a.Type, fmt.Sprintf("unrevealed suit %d", suit), *a.Value, s.Unrevealed(suit))

	case AssertUnknown:
		p := engine.Player(*a.Player)
		return compareCount(index, a.Type, fmt.Sprintf("player %d unknown", p), *a.Value, s.Unknown(p))

	case AssertKnown:
		p, suit := engine.Player(*a.Player), engine.Suit(*a.Suit)
		if a.Tag == nil {
			return compareCount(index, a.Type,
				fmt.Sprintf("player %d known suit %d", p, suit), *a.Value, s.TallyKnown(p, suit))
		}
		tag := engine.Tag(*a.Tag)
		if tag < 0 || tag >= engine.TagCount {
			return &AssertionError{Index: index, Type: a.Type,
				Expected: fmt.Sprintf("tag in [0, %d)", engine.TagCount),
				Actual:   fmt.Sprintf("tag %d", tag)}
		}
		return compareCount(index, a.Type,
			fmt.Sprintf("player %d known suit %d tag %d", p, suit, tag), *a.Value, s.Known(p, suit, tag))

	case AssertExcluded:
		p, suit := engine.Player(*a.Player), engine.Suit(*a.Suit)
		got := s.Excluded(p, suit)
		if got != *a.Excluded {
			return &AssertionError{Index: index, Type: a.Type,
				Expected: fmt.Sprintf("player %d excluded from suit %d = %t", p, suit, *a.Excluded),
				Actual:   fmt.Sprintf("%t", got)}
		}
		return nil
	}

	return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
}

func compareCount(index int, typ, what string, want, got int) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Index:    index,
		Type:     typ,
		Expected: fmt.Sprintf("%s = %d", what, want),
		Actual:   fmt.Sprintf("%s = %d", what, got),
	}
}
