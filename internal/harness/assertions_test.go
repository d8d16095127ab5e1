package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qgf/internal/engine"
)

// denied returns a 3x4 snapshot after player 0 asked player 1 for suit 0 and was refused.
func denied(t *testing.T) *engine.Snapshot {
	t.Helper()
	req := engine.Request{Asking: 0, Asked: 1, Suit: 0}
	mid, err := engine.ProcessRequest(engine.Begin(engine.NewConfig(3, 4)), req)
	require.NoError(t, err)
	next, err := engine.ProcessResponse(mid, req, false)
	require.NoError(t, err)
	return next
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	s := denied(t)
	failures := EvaluateAssertions(s, []Assertion{
		{Type: AssertTurn, Value: intPtr(1)},
		{Type: AssertUnrevealed, Suit: intPtr(0), Value: intPtr(3)},
		{Type: AssertUnknown, Player: intPtr(0), Value: intPtr(3)},
		{Type: AssertKnown, Player: intPtr(0), Suit: intPtr(0), Value: intPtr(1)},
		{Type: AssertKnown, Player: intPtr(0), Suit: intPtr(0), Tag: intPtr(1), Value: intPtr(1)},
		{Type: AssertKnown, Player: intPtr(0), Suit: intPtr(0), Tag: intPtr(0), Value: intPtr(0)},
		{Type: AssertExcluded, Player: intPtr(1), Suit: intPtr(0), Excluded: boolPtr(true)},
		{Type: AssertExcluded, Player: intPtr(2), Suit: intPtr(0), Excluded: boolPtr(false)},
	})
	assert.Empty(t, failures)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	s := denied(t)

	tests := []struct {
		name      string
		assertion Assertion
		want      []string
	}{
		{
			name:      "turn",
			assertion: Assertion{Type: AssertTurn, Value: intPtr(2)},
			want:      []string{"Expected: turn = 2", "Actual: turn = 1"},
		},
		{
			name:      "unrevealed",
			assertion: Assertion{Type: AssertUnrevealed, Suit: intPtr(1), Value: intPtr(3)},
			want:      []string{"unrevealed suit 1 = 4"},
		},
		{
			name:      "unknown",
			assertion: Assertion{Type: AssertUnknown, Player: intPtr(1), Value: intPtr(3)},
			want:      []string{"player 1 unknown = 4"},
		},
		{
			name:      "known tally",
			assertion: Assertion{Type: AssertKnown, Player: intPtr(2), Suit: intPtr(0), Value: intPtr(1)},
			want:      []string{"player 2 known suit 0 = 0"},
		},
		{
			name:      "known tag",
			assertion: Assertion{Type: AssertKnown, Player: intPtr(0), Suit: intPtr(0), Tag: intPtr(2), Value: intPtr(1)},
			want:      []string{"player 0 known suit 0 tag 2 = 0"},
		},
		{
			name:      "excluded",
			assertion: Assertion{Type: AssertExcluded, Player: intPtr(0), Suit: intPtr(0), Excluded: boolPtr(true)},
			want:      []string{"player 0 excluded from suit 0 = true", "Actual: false"},
		},
		{
			name:      "player out of range",
			assertion: Assertion{Type: AssertUnknown, Player: intPtr(3), Value: intPtr(0)},
			want:      []string{"player in [0, 3)", "player 3"},
		},
		{
			name:      "suit out of range",
			assertion: Assertion{Type: AssertUnrevealed, Suit: intPtr(-1), Value: intPtr(0)},
			want:      []string{"suit in [0, 3)"},
		},
		{
			name:      "tag out of range",
			assertion: Assertion{Type: AssertKnown, Player: intPtr(0), Suit: intPtr(0), Tag: intPtr(4), Value: intPtr(0)},
			want:      []string{"tag in [0, 4)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures := EvaluateAssertions(s, []Assertion{tt.assertion})
			require.Len(t, failures, 1)
			assert.Contains(t, failures[0], "assertions[0] failed: "+tt.assertion.Type)
			for _, w := range tt.want {
				assert.Contains(t, failures[0], w)
			}
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Index: 2, Type: AssertTurn, Expected: "turn = 1", Actual: "turn = 0"}
	assert.Equal(t, "assertions[2] failed: turn\n  Expected: turn = 1\n  Actual: turn = 0", err.Error())
}
