package engine

import (
	"errors"
	"fmt"
)

// RuleErrorCode categorizes rule violations.
type RuleErrorCode string

const (
	// ErrCodeExcludedSuit indicates the player is certified to hold no card of the suit.
	ErrCodeExcludedSuit RuleErrorCode = "EXCLUDED_SUIT"

	// ErrCodeSuitExhausted indicates every card of the suit is already attributed.
	ErrCodeSuitExhausted RuleErrorCode = "SUIT_EXHAUSTED"

	// ErrCodeNoUnknownCards indicates the player has no undetermined card left.
	ErrCodeNoUnknownCards RuleErrorCode = "NO_UNKNOWN_CARDS"

	// ErrCodeContradictsKnown indicates a denial of a card the player is known to hold.
	ErrCodeContradictsKnown RuleErrorCode = "CONTRADICTS_KNOWN"

	// ErrCodeParadox indicates propagation found an impossible belief state.
	ErrCodeParadox RuleErrorCode = "PARADOX"

	// ErrCodeOutOfRange indicates a player or suit index outside the configuration.
	ErrCodeOutOfRange RuleErrorCode = "OUT_OF_RANGE"
)

// NoSuit marks a RuleError that is not about a single suit.
const NoSuit Suit = -1

// RuleError is a player-facing rule violation.
//
// The move that produced it must be discarded; the previously committed
// snapshot stays authoritative. Player and Suit name the offender.
type RuleError struct {
	// Code identifies the error category.
	Code RuleErrorCode

	// Message is a human-readable description naming the player and suit.
	Message string

	// Player is the player whose belief state rejected the move.
	Player Player

	// Suit is the suit in question, or NoSuit.
	Suit Suit
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ruleErrorf(code RuleErrorCode, p Player, s Suit, format string, args ...any) *RuleError {
	return &RuleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Player:  p,
		Suit:    s,
	}
}

// IsRuleError returns true if err is or wraps a *RuleError.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

// IsParadox returns true if err is a paradox found by propagation.
// Uses errors.As to handle wrapped errors.
func IsParadox(err error) bool {
	return ErrorCode(err) == ErrCodeParadox
}

// ErrorCode returns the rule error code carried by err, or "" if none.
func ErrorCode(err error) RuleErrorCode {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// InvariantError reports a broken internal invariant.
//
// It is raised with panic, never returned: reaching it means the transition
// or propagation logic is inconsistent, not that a player moved illegally.
type InvariantError struct {
	Message string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Message
}

// invariant panics with an *InvariantError when cond is false.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantError{Message: fmt.Sprintf(format, args...)})
	}
}
