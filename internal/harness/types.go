package harness

import (
	"github.com/roach88/qgf/internal/engine"
	"github.com/roach88/qgf/internal/ir"
)

// TraceEvent is one attempted move as recorded by the game.
// Move IDs and snapshot hashes are left out so traces stay readable;
// the final snapshot is compared in full instead.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Asking  int64  `json:"asking"`
	Asked   int64  `json:"asked"`
	Suit    int64  `json:"suit"`
	Accept  bool   `json:"accept"`
	Outcome string `json:"outcome"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Turn    int64  `json:"turn"`
}

func traceEventFromMove(m ir.Move) TraceEvent {
	return TraceEvent{
		Seq:     m.Seq,
		Asking:  m.Asking,
		Asked:   m.Asked,
		Suit:    m.Suit,
		Accept:  m.Accept,
		Outcome: m.Outcome,
		Code:    m.ErrorCode,
		Message: m.Message,
		Turn:    m.Turn,
	}
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains every attempted move in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the last committed snapshot.
	Final *engine.Snapshot `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
