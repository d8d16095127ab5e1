package game

import (
	"fmt"
	"strings"

	"github.com/roach88/qgf/internal/engine"
)

// View is what players are shown of a snapshot at a given difficulty.
//
// Deduction always runs at full strength; difficulty only decides how much
// of it is displayed. Difficulty 0 shows hand sizes only. A known bucket
// with tag t is shown once difficulty exceeds t, so 1 adds hand-offs,
// 2 adds request claims and 3 adds deductions. Exclusions show from 1.
type View struct {
	Turn       int          `json:"turn"`
	Difficulty int          `json:"difficulty"`
	Players    []PlayerView `json:"players"`
}

// PlayerView is one player's displayed belief record.
type PlayerView struct {
	Name     string      `json:"name"`
	HandSize int         `json:"hand_size"`
	Known    []SuitCount `json:"known,omitempty"`
	Excluded []int       `json:"excluded,omitempty"`
}

// SuitCount is a number of cards of one suit.
type SuitCount struct {
	Suit  int `json:"suit"`
	Count int `json:"count"`
}

// NewView renders s for display. names[i] labels player i; missing names
// fall back to "Player i".
func NewView(s *engine.Snapshot, names []string, difficulty int) View {
	cfg := s.Config()
	v := View{
		Turn:       s.Turn(),
		Difficulty: difficulty,
		Players:    make([]PlayerView, cfg.Players),
	}

	for i := range v.Players {
		p := engine.Player(i)
		pv := PlayerView{Name: playerName(names, i), HandSize: s.Unknown(p)}

		for suit := 0; suit < cfg.Suits; suit++ {
			st := engine.Suit(suit)
			pv.HandSize += s.TallyKnown(p, st)

			shown := 0
			for tag := engine.Tag(0); tag < engine.TagCount; tag++ {
				if difficulty > int(tag) {
					shown += s.Known(p, st, tag)
				}
			}
			if shown > 0 {
				pv.Known = append(pv.Known, SuitCount{Suit: suit, Count: shown})
			}
			if difficulty >= 1 && s.Excluded(p, st) {
				pv.Excluded = append(pv.Excluded, suit)
			}
		}
		v.Players[i] = pv
	}
	return v
}

// String renders the view as plain text, one line per player.
func (v View) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "turn %d (difficulty %d)\n", v.Turn, v.Difficulty)
	for _, p := range v.Players {
		fmt.Fprintf(&b, "  %s: %d card(s)", p.Name, p.HandSize)
		if len(p.Known) > 0 {
			parts := make([]string, len(p.Known))
			for i, k := range p.Known {
				parts[i] = fmt.Sprintf("%dx suit %d", k.Count, k.Suit)
			}
			fmt.Fprintf(&b, "; holds %s", strings.Join(parts, ", "))
		}
		if len(p.Excluded) > 0 {
			parts := make([]string, len(p.Excluded))
			for i, s := range p.Excluded {
				parts[i] = fmt.Sprintf("%d", s)
			}
			fmt.Fprintf(&b, "; lacks suit %s", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func playerName(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("Player %d", i)
}
