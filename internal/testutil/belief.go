package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/qgf/internal/engine"
)

// AssertInvariants checks the structural invariants every committed or
// intermediate snapshot must satisfy.
//
//   - 0 ≤ unrevealed[s] ≤ cards per suit
//   - unknown[p] ≥ 0 and fits in the suits p may still hold
//   - an exhausted suit excludes every player holding none of it
func AssertInvariants(t testing.TB, s *engine.Snapshot) bool {
	t.Helper()
	cfg := s.Config()
	ok := true

	for suit := engine.Suit(0); int(suit) < cfg.Suits; suit++ {
		u := s.Unrevealed(suit)
		ok = assert.GreaterOrEqual(t, u, 0, "unrevealed[%d]", suit) && ok
		ok = assert.LessOrEqual(t, u, cfg.CardsPerSuit(), "unrevealed[%d]", suit) && ok
	}

	for p := engine.Player(0); int(p) < cfg.Players; p++ {
		maxUnknown := 0
		for suit := engine.Suit(0); int(suit) < cfg.Suits; suit++ {
			if !s.Excluded(p, suit) {
				maxUnknown += s.Unrevealed(suit)
			}
			if s.Unrevealed(suit) == 0 && s.TallyKnown(p, suit) == 0 {
				ok = assert.True(t, s.Excluded(p, suit),
					"player %d holds no card of exhausted suit %d but is not excluded", p, suit) && ok
			}
		}
		ok = assert.GreaterOrEqual(t, s.Unknown(p), 0, "unknown[%d]", p) && ok
		ok = assert.LessOrEqual(t, s.Unknown(p), maxUnknown, "unknown[%d] exceeds bound", p) && ok
	}
	return ok
}

// AssertMonotone checks that next is a legal successor of prev within one
// lineage: exclusions only grow and unrevealed counts only shrink.
func AssertMonotone(t testing.TB, prev, next *engine.Snapshot) bool {
	t.Helper()
	cfg := prev.Config()
	ok := assert.Equal(t, cfg, next.Config())

	for suit := engine.Suit(0); int(suit) < cfg.Suits; suit++ {
		ok = assert.LessOrEqual(t, next.Unrevealed(suit), prev.Unrevealed(suit),
			"unrevealed[%d] grew", suit) && ok
		for p := engine.Player(0); int(p) < cfg.Players; p++ {
			if prev.Excluded(p, suit) {
				ok = assert.True(t, next.Excluded(p, suit),
					"exclusion of player %d from suit %d was lost", p, suit) && ok
			}
		}
	}
	return ok
}
