package engine

import (
	"fmt"
	"strings"
)

// paradox describes a player whose undetermined cards cannot all fit.
type paradox struct {
	player     Player
	unknown    int
	maxUnknown int
	possible   []Suit
}

func (p *paradox) ruleError(req Request) *RuleError {
	return ruleErrorf(ErrCodeParadox, p.player, req.Suit,
		"paradox after %s: player %d can hold at most %d unknown card(s) but has %d (possible suits: %s)",
		req, p.player, p.maxUnknown, p.unknown, formatSuits(p.possible))
}

func formatSuits(suits []Suit) string {
	if len(suits) == 0 {
		return "none"
	}
	parts := make([]string, len(suits))
	for i, s := range suits {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ", ")
}

// validate runs the propagation closure on s to a fixed point.
//
// It returns the first paradox found, or nil once a full pass fires no rule.
// Forced conclusions are written into s under TagDeduced.
func (s *Snapshot) validate() *paradox {
	quota := newPassQuota(passBudget(s.cfg))
	possible := make([]Suit, 0, s.cfg.Suits)

	for {
		if err := quota.check(); err != nil {
			invariant(false, "%v", err)
		}

		fired := false
		for i := 0; i < s.cfg.Players && !fired; i++ {
			p := Player(i)
			possible = possible[:0]
			maxUnknown := 0
			for suit := 0; suit < s.cfg.Suits; suit++ {
				if !s.exclude[s.pairIndex(p, Suit(suit))] {
					possible = append(possible, Suit(suit))
					maxUnknown += s.unrevealed[suit]
				}
			}
			unknown := s.unknown[p]

			switch {
			case unknown > maxUnknown:
				return &paradox{
					player:     p,
					unknown:    unknown,
					maxUnknown: maxUnknown,
					possible:   append([]Suit(nil), possible...),
				}

			case unknown == maxUnknown && unknown > 0:
				// Every remaining card of every possible suit is this player's.
				for _, suit := range possible {
					if n := s.unrevealed[suit]; n > 0 {
						s.revealCard(p, suit, TagDeduced, n)
					}
				}
				fired = true

			case len(possible) == 1 && unknown > 0:
				s.revealCard(p, possible[0], TagDeduced, unknown)
				fired = true
			}
		}

		if !fired {
			return nil
		}
	}
}

// revealCard attributes count of p's unknown cards to suit under tag.
func (s *Snapshot) revealCard(p Player, suit Suit, tag Tag, count int) {
	invariant(s.unknown[p] >= count,
		"cannot reveal %d card(s) of suit %d for player %d with %d unknown", count, suit, p, s.unknown[p])
	s.unknown[p] -= count
	s.known[s.pairIndex(p, suit)*TagCount+int(tag)] += count
	s.updateUnrevealed(suit, count)
}

// updateUnrevealed removes count cards of suit from the unattributed pool.
// When the pool empties, every player holding none of the suit is excluded.
func (s *Snapshot) updateUnrevealed(suit Suit, count int) {
	invariant(s.unrevealed[suit] >= count,
		"cannot reveal %d card(s) of suit %d with %d unrevealed", count, suit, s.unrevealed[suit])
	s.unrevealed[suit] -= count
	if s.unrevealed[suit] != 0 {
		return
	}
	for i := 0; i < s.cfg.Players; i++ {
		p := Player(i)
		if s.TallyKnown(p, suit) == 0 {
			s.exclude[s.pairIndex(p, suit)] = true
		}
	}
}
