package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// play runs one full request/response exchange and requires it to commit.
func play(t *testing.T, s *Snapshot, asking, asked Player, suit Suit, accept bool) *Snapshot {
	t.Helper()
	req := Request{Asking: asking, Asked: asked, Suit: suit}
	mid, err := ProcessRequest(s, req)
	require.NoError(t, err, "request %s", req)
	next, err := ProcessResponse(mid, req, accept)
	require.NoError(t, err, "response %s", Response{Request: req, Accept: accept})
	return next
}

func TestRequest_String(t *testing.T) {
	req := Request{Asking: 0, Asked: 2, Suit: 1}
	assert.Equal(t, "player 0 asks player 2 for suit 1", req.String())
	assert.Equal(t, "player 0 asks player 2 for suit 1: yes", Response{Request: req, Accept: true}.String())
	assert.Equal(t, "player 0 asks player 2 for suit 1: no", Response{Request: req}.String())
}

func TestProcessRequest_CarriesRequestClaim(t *testing.T) {
	genesis := Begin(NewConfig(3, 4))
	req := Request{Asking: 0, Asked: 1, Suit: 0}

	mid, err := ProcessRequest(genesis, req)
	require.NoError(t, err)

	assert.Equal(t, 3, mid.Unknown(0))
	assert.Equal(t, 1, mid.Known(0, 0, TagRequested))
	assert.Equal(t, 3, mid.Unrevealed(0))
	assert.Equal(t, 0, mid.Turn())

	// Genesis untouched.
	assert.Equal(t, 4, genesis.Unknown(0))
	assert.Equal(t, 4, genesis.Unrevealed(0))
}

func TestProcessResponse_DenialExcludes(t *testing.T) {
	genesis := Begin(NewConfig(3, 4))
	req := Request{Asking: 0, Asked: 1, Suit: 0}

	mid, err := ProcessRequest(genesis, req)
	require.NoError(t, err)
	next, err := ProcessResponse(mid, req, false)
	require.NoError(t, err)

	assert.True(t, next.Excluded(1, 0))
	assert.Equal(t, 1, next.Turn())
	assert.Equal(t, 4, next.Unknown(1))

	// Neither input was mutated.
	assert.False(t, mid.Excluded(1, 0))
	assert.Equal(t, 0, mid.Turn())
}

func TestProcessResponse_AcceptHandsCardToAsker(t *testing.T) {
	genesis := Begin(NewConfig(3, 4))
	next := play(t, genesis, 0, 1, 2, true)

	assert.Equal(t, 3, next.Unknown(0))
	assert.Equal(t, 3, next.Unknown(1))
	assert.Equal(t, 1, next.Known(0, 2, TagRequested))
	assert.Equal(t, 1, next.Known(0, 2, TagHandOff))
	assert.Equal(t, 0, next.TallyKnown(1, 2))
	assert.Equal(t, 2, next.Unrevealed(2))
	assert.Equal(t, 1, next.Turn())
}

func TestProcessRequest_ExcludedAskerRejected(t *testing.T) {
	s := play(t, Begin(NewConfig(3, 4)), 1, 0, 0, false)
	require.True(t, s.Excluded(0, 0))

	_, err := ProcessRequest(s, Request{Asking: 0, Asked: 2, Suit: 0})
	require.Error(t, err)

	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeExcludedSuit, re.Code)
	assert.Equal(t, Player(0), re.Player)
	assert.Equal(t, Suit(0), re.Suit)
	assert.Contains(t, re.Message, "player 0")
	assert.Contains(t, re.Message, "suit 0")
}

func TestProcessRequest_FastPathReturnsSameSnapshot(t *testing.T) {
	s := play(t, Begin(NewConfig(3, 4)), 1, 0, 0, false)
	require.Equal(t, 1, s.TallyKnown(1, 0))

	mid, err := ProcessRequest(s, Request{Asking: 1, Asked: 2, Suit: 0})
	require.NoError(t, err)
	assert.Same(t, s, mid)
}

func TestProcessResponse_SettledHandOff(t *testing.T) {
	// Player 1 learns a card of suit 0, then player 2 asks for it.
	s := play(t, Begin(NewConfig(3, 4)), 1, 0, 0, true)
	require.Equal(t, 2, s.TallyKnown(1, 0))

	next := play(t, s, 2, 1, 0, true)

	// Player 2's own request claim plus the settled hand-off.
	assert.Equal(t, 1, next.TallyKnown(1, 0))
	assert.Equal(t, 0, next.Known(1, 0, TagHandOff), "first non-zero bucket is debited")
	assert.Equal(t, 1, next.Known(1, 0, TagRequested))
	assert.Equal(t, 1, next.Known(2, 0, TagRequested))
	assert.Equal(t, 1, next.Known(2, 0, TagHandOff))
	assert.Equal(t, 2, next.Turn())
}

func TestProcessResponse_DenyingSettledCardRejected(t *testing.T) {
	s := play(t, Begin(NewConfig(3, 4)), 1, 0, 0, true)
	req := Request{Asking: 2, Asked: 1, Suit: 0}

	mid, err := ProcessRequest(s, req)
	require.NoError(t, err)
	_, err = ProcessResponse(mid, req, false)
	require.Error(t, err)

	assert.Equal(t, ErrCodeContradictsKnown, ErrorCode(err))
	assert.Contains(t, err.Error(), "player 1 does hold suit 0")
}

func TestExhaustedSuit_AutoExcludes(t *testing.T) {
	// Two players, one card each, one card per suit.
	genesis := Begin(NewConfig(2, 1))
	req := Request{Asking: 0, Asked: 1, Suit: 0}

	mid, err := ProcessRequest(genesis, req)
	require.NoError(t, err)

	// Player 0's claim empties suit 0, which excludes player 1 from it and
	// forces player 1's only card to be suit 1.
	assert.Equal(t, 0, mid.Unrevealed(0))
	assert.True(t, mid.Excluded(1, 0))
	assert.Equal(t, 1, mid.Known(1, 1, TagDeduced))
	assert.Equal(t, 0, mid.Unrevealed(1))
	assert.True(t, mid.Excluded(0, 1))

	next, err := ProcessResponse(mid, req, false)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Turn())

	_, err = ProcessRequest(next, Request{Asking: 1, Asked: 0, Suit: 0})
	require.Error(t, err)
	assert.Equal(t, ErrCodeExcludedSuit, ErrorCode(err))

	_, err = ProcessResponse(mid, req, true)
	assert.Equal(t, ErrCodeNoUnknownCards, ErrorCode(err))
}

func TestProcessRequest_SuitExhausted(t *testing.T) {
	// Three players with one card each: player 0 claims suit 0, and the
	// auto-exclusion rejects everyone else before the exhaustion check.
	s := play(t, Begin(NewConfig(3, 1)), 0, 1, 0, false)
	require.Equal(t, 0, s.Unrevealed(0))

	_, err := ProcessRequest(s, Request{Asking: 1, Asked: 0, Suit: 0})
	assert.Equal(t, ErrCodeExcludedSuit, ErrorCode(err))

	// An exhausted suit without the exclusion still fails on exhaustion.
	raw := Begin(NewConfig(3, 1)).Clone()
	raw.unrevealed[0] = 0
	_, err = ProcessRequest(raw, Request{Asking: 1, Asked: 0, Suit: 0})
	assert.Equal(t, ErrCodeSuitExhausted, ErrorCode(err))
	assert.Contains(t, err.Error(), "player 1 cannot hold suit 0")

	_, err = ProcessResponse(raw, Request{Asking: 1, Asked: 0, Suit: 0}, true)
	assert.Equal(t, ErrCodeSuitExhausted, ErrorCode(err))
}

func TestProcessRequest_NoUnknownCards(t *testing.T) {
	// Three players, one card each. Player 0 claims suit 1 and is then fully
	// known, so asking for another suit has no card to claim.
	s := play(t, Begin(NewConfig(3, 1)), 0, 1, 1, false)
	require.Equal(t, 0, s.Unknown(0))

	_, err := ProcessRequest(s, Request{Asking: 0, Asked: 2, Suit: 2})
	require.Error(t, err)
	assert.Equal(t, ErrCodeNoUnknownCards, ErrorCode(err))
	assert.Contains(t, err.Error(), "player 0 cannot hold suit 2")
}

func TestProcessResponse_Paradox(t *testing.T) {
	s := Begin(NewConfig(3, 3))
	s = play(t, s, 0, 1, 1, false) // player 1 has no suit 1
	s = play(t, s, 2, 0, 0, false) // player 0 has no suit 0
	s = play(t, s, 0, 2, 2, false) // player 2 has no suit 2

	require.Equal(t, []int{2, 2, 2}, []int{s.Unrevealed(0), s.Unrevealed(1), s.Unrevealed(2)})
	require.Equal(t, 3, s.Unknown(1))

	// Player 0 already holds suit 2, so the request is a fast path. If
	// player 1 also lacks suit 2, their three unknown cards must all be
	// suit 0, of which only two remain.
	req := Request{Asking: 0, Asked: 1, Suit: 2}
	mid, err := ProcessRequest(s, req)
	require.NoError(t, err)
	require.Same(t, s, mid)

	_, err = ProcessResponse(mid, req, false)
	require.Error(t, err)
	assert.True(t, IsParadox(err))

	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, Player(1), re.Player)
	assert.Equal(t, Suit(2), re.Suit)
	assert.Contains(t, re.Message, "player 1 can hold at most 2 unknown card(s) but has 3")
	assert.Contains(t, re.Message, "possible suits: 0")

	// The committed snapshot is untouched; the accepting answer still works.
	assert.False(t, s.Excluded(1, 2))
	assert.Equal(t, 3, s.Turn())
	next := play(t, s, 0, 1, 2, true)
	assert.Equal(t, 2, next.Unknown(1))
}

func TestPropagation_ForcesRemainingCards(t *testing.T) {
	// Two players, two cards each, two suits.
	s := play(t, Begin(NewConfig(2, 2)), 0, 1, 0, false)

	// Player 1 cannot hold suit 0, so both their cards are suit 1, which
	// leaves player 0's last card as suit 0.
	assert.Equal(t, 2, s.Known(1, 1, TagDeduced))
	assert.Equal(t, 0, s.Unknown(1))
	assert.Equal(t, 1, s.Known(0, 0, TagRequested))
	assert.Equal(t, 1, s.Known(0, 0, TagDeduced))
	assert.Equal(t, 0, s.Unknown(0))
	assert.True(t, s.Excluded(0, 1))
	assert.Equal(t, 0, s.Unrevealed(0))
	assert.Equal(t, 0, s.Unrevealed(1))
}

func TestPropagation_SingleSuitRule(t *testing.T) {
	type move struct {
		asking, asked Player
		suit          Suit
		accept        bool
	}
	tests := []struct {
		name       string
		cfg        Config
		moves      []move
		unrevealed []int
		check      func(t *testing.T, s *Snapshot)
	}{
		{
			// Player 1 is left with suit 1 only but could still hold three
			// cards of it, so only the single-suit rule applies.
			name:       "denial leaves one possible suit",
			cfg:        Config{Players: 3, CardsPerPlayer: 2, Suits: 2},
			moves:      []move{{0, 1, 0, false}},
			unrevealed: []int{2, 1},
			check: func(t *testing.T, s *Snapshot) {
				assert.Equal(t, 2, s.Known(1, 1, TagDeduced))
				assert.Equal(t, 0, s.Unknown(1))
				assert.Equal(t, 1, s.Known(0, 0, TagRequested))
				assert.Equal(t, 1, s.Unknown(0))
				assert.Equal(t, 2, s.Unknown(2))
				assert.False(t, s.Excluded(2, 0))
			},
		},
		{
			// Suit 0 runs out, so player 2 is forced onto suit 1. That drains
			// suit 1 down to player 0's last card, which only a restart from
			// the first player catches.
			name:       "forced suit cascades to an earlier player",
			cfg:        Config{Players: 3, CardsPerPlayer: 2, Suits: 2},
			moves:      []move{{0, 1, 0, true}, {0, 1, 0, true}},
			unrevealed: []int{0, 0},
			check: func(t *testing.T, s *Snapshot) {
				assert.True(t, s.Excluded(2, 0))
				assert.Equal(t, 2, s.Known(2, 1, TagDeduced))
				assert.Equal(t, 1, s.Known(0, 1, TagDeduced))
				assert.Equal(t, 0, s.Unknown(0))
				assert.True(t, s.Excluded(1, 0))
				assert.True(t, s.Excluded(1, 1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Begin(tt.cfg)
			for _, m := range tt.moves {
				s = play(t, s, m.asking, m.asked, m.suit, m.accept)
			}
			for suit, want := range tt.unrevealed {
				assert.Equal(t, want, s.Unrevealed(Suit(suit)), "unrevealed suit %d", suit)
			}
			assert.Equal(t, len(tt.moves), s.Turn())
			tt.check(t, s)
		})
	}
}

func TestProcessResponse_HandOffOfLastCardExcludesHolder(t *testing.T) {
	s := Begin(Config{Players: 3, CardsPerPlayer: 2, Suits: 2})
	s = play(t, s, 0, 1, 0, false)
	s = play(t, s, 0, 1, 1, true)

	// Every card is attributed and player 1 holds exactly one, of suit 1.
	require.Equal(t, 0, s.Unrevealed(1))
	require.Equal(t, 1, s.TallyKnown(1, 1))
	require.False(t, s.Excluded(1, 1))

	next := play(t, s, 0, 1, 1, true)

	assert.True(t, next.Excluded(1, 1), "holder of no remaining card is excluded")
	assert.Equal(t, 0, next.TallyKnown(1, 1))
	assert.Equal(t, 2, next.Known(0, 1, TagHandOff))
	assert.Equal(t, 3, next.Turn())
	assert.False(t, s.Excluded(1, 1), "input snapshot is not mutated")
}

func TestPrimitives_InvariantFaults(t *testing.T) {
	s := Begin(NewConfig(3, 4)).Clone()

	assertInvariantPanic(t, "cannot reveal 5 card(s) of suit 0 for player 0", func() {
		s.revealCard(0, 0, TagDeduced, 5)
	})
	assertInvariantPanic(t, "cannot reveal 5 card(s) of suit 1 with 4 unrevealed", func() {
		s.updateUnrevealed(1, 5)
	})
	assertInvariantPanic(t, "holds no settled card", func() {
		s.giveCard(0, 1, 2)
	})
}

func TestProcessRequest_OutOfRangePanics(t *testing.T) {
	s := Begin(NewConfig(3, 4))
	assertInvariantPanic(t, "player 5 out of range", func() {
		_, _ = ProcessRequest(s, Request{Asking: 0, Asked: 5, Suit: 0})
	})
	assertInvariantPanic(t, "suit 9 out of range", func() {
		_, _ = ProcessRequest(s, Request{Asking: 0, Asked: 1, Suit: 9})
	})
}

func TestErrorHelpers(t *testing.T) {
	err := ruleErrorf(ErrCodeParadox, 1, 2, "boom")
	wrapped := &wrapErr{err}

	assert.True(t, IsRuleError(wrapped))
	assert.True(t, IsParadox(wrapped))
	assert.Equal(t, ErrCodeParadox, ErrorCode(wrapped))
	assert.Equal(t, "PARADOX: boom", err.Error())

	assert.False(t, IsRuleError(assert.AnError))
	assert.Equal(t, RuleErrorCode(""), ErrorCode(nil))
	assert.Equal(t, "invariant violated: x", (&InvariantError{Message: "x"}).Error())
}

type wrapErr struct{ err error }

func (w *wrapErr) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapErr) Unwrap() error { return w.err }
