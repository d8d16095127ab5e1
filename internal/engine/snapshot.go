package engine

import (
	"slices"

	"github.com/roach88/qgf/internal/ir"
)

// Tag records how a known card became known.
type Tag int

const (
	// TagHandOff marks cards received directly during a response.
	TagHandOff Tag = 0

	// TagRequested marks the card an asker claims by asking for its suit.
	TagRequested Tag = 1

	// TagDeduced marks cards forced by elimination during propagation.
	TagDeduced Tag = 2

	// TagReserved is kept for the multiplayer-collapse level. Nothing writes it.
	TagReserved Tag = 3

	// TagCount is the number of provenance buckets per (player, suit).
	TagCount = 4
)

// Snapshot is one immutable belief state.
//
// Fields are flat slices indexed by player and suit:
//
//	exclude[p*S+s]
//	known[(p*S+s)*TagCount+t]
//
// Only the transition functions write to a snapshot, and only to a fresh clone.
type Snapshot struct {
	cfg        Config
	turn       int
	unrevealed []int
	exclude    []bool
	known      []int
	unknown    []int
}

// Begin builds the genesis snapshot for cfg.
//
// Begin panics with *InvariantError if cfg does not validate.
func Begin(cfg Config) *Snapshot {
	if err := cfg.Validate(); err != nil {
		invariant(false, "%v", err)
	}

	s := &Snapshot{
		cfg:        cfg,
		unrevealed: make([]int, cfg.Suits),
		exclude:    make([]bool, cfg.Players*cfg.Suits),
		known:      make([]int, cfg.Players*cfg.Suits*TagCount),
		unknown:    make([]int, cfg.Players),
	}
	for suit := range s.unrevealed {
		s.unrevealed[suit] = cfg.CardsPerSuit()
	}
	for p := range s.unknown {
		s.unknown[p] = cfg.CardsPerPlayer
	}
	return s
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		cfg:        s.cfg,
		turn:       s.turn,
		unrevealed: slices.Clone(s.unrevealed),
		exclude:    slices.Clone(s.exclude),
		known:      slices.Clone(s.known),
		unknown:    slices.Clone(s.unknown),
	}
}

// Config returns the configuration the snapshot was built from.
func (s *Snapshot) Config() Config { return s.cfg }

// Turn returns the number of committed responses.
func (s *Snapshot) Turn() int { return s.turn }

// Unrevealed returns how many cards of suit are not yet attributed to anyone.
func (s *Snapshot) Unrevealed(suit Suit) int {
	s.checkSuit(suit)
	return s.unrevealed[suit]
}

// Excluded reports whether p is certified to hold no card of suit.
func (s *Snapshot) Excluded(p Player, suit Suit) bool {
	return s.exclude[s.pairIndex(p, suit)]
}

// Known returns the number of suit cards attributed to p under tag.
func (s *Snapshot) Known(p Player, suit Suit, tag Tag) int {
	invariant(tag >= 0 && tag < TagCount, "tag %d out of range", tag)
	return s.known[s.pairIndex(p, suit)*TagCount+int(tag)]
}

// TallyKnown returns the number of suit cards certainly held by p, over all tags.
func (s *Snapshot) TallyKnown(p Player, suit Suit) int {
	base := s.pairIndex(p, suit) * TagCount
	total := 0
	for t := 0; t < TagCount; t++ {
		total += s.known[base+t]
	}
	return total
}

// Unknown returns how many of p's cards have an undetermined suit.
func (s *Snapshot) Unknown(p Player) int {
	s.checkPlayer(p)
	return s.unknown[p]
}

// PlayerBelief is a detached copy of one player's belief record.
type PlayerBelief struct {
	Exclude []bool
	Known   [][TagCount]int
	Unknown int
}

// Belief copies out everything the snapshot believes about p.
func (s *Snapshot) Belief(p Player) PlayerBelief {
	s.checkPlayer(p)
	b := PlayerBelief{
		Exclude: make([]bool, s.cfg.Suits),
		Known:   make([][TagCount]int, s.cfg.Suits),
		Unknown: s.unknown[p],
	}
	for suit := 0; suit < s.cfg.Suits; suit++ {
		idx := s.pairIndex(p, Suit(suit))
		b.Exclude[suit] = s.exclude[idx]
		copy(b.Known[suit][:], s.known[idx*TagCount:(idx+1)*TagCount])
	}
	return b
}

// Canonical returns the content-addressable form of the snapshot.
//
// Two snapshots reached by the same move sequence have byte-identical
// canonical encodings.
func (s *Snapshot) Canonical() ir.IRObject {
	players := make(ir.IRArray, s.cfg.Players)
	for p := 0; p < s.cfg.Players; p++ {
		b := s.Belief(Player(p))
		known := make(ir.IRArray, s.cfg.Suits)
		for suit, buckets := range b.Known {
			known[suit] = ir.IntArray(buckets[:])
		}
		players[p] = ir.IRObject{
			"exclude": ir.BoolArray(b.Exclude),
			"known":   known,
			"unknown": ir.IRInt(b.Unknown),
		}
	}
	return ir.IRObject{
		"cards_per_player": ir.IRInt(s.cfg.CardsPerPlayer),
		"players":          players,
		"suits":            ir.IRInt(s.cfg.Suits),
		"turn":             ir.IRInt(s.turn),
		"unrevealed":       ir.IntArray(s.unrevealed),
	}
}

// Hash returns the domain-separated content hash of the canonical form.
func (s *Snapshot) Hash() string {
	return ir.MustSnapshotHash(s.Canonical())
}

// Equal reports whether two snapshots hold the same belief state.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == other {
		return true
	}
	if other == nil || s.cfg != other.cfg || s.turn != other.turn {
		return false
	}
	return slices.Equal(s.unrevealed, other.unrevealed) &&
		slices.Equal(s.known, other.known) &&
		slices.Equal(s.unknown, other.unknown) &&
		slices.Equal(s.exclude, other.exclude)
}

func (s *Snapshot) pairIndex(p Player, suit Suit) int {
	s.checkPlayer(p)
	s.checkSuit(suit)
	return int(p)*s.cfg.Suits + int(suit)
}

func (s *Snapshot) checkPlayer(p Player) {
	invariant(s.cfg.ValidPlayer(p), "player %d out of range [0, %d)", p, s.cfg.Players)
}

func (s *Snapshot) checkSuit(suit Suit) {
	invariant(s.cfg.ValidSuit(suit), "suit %d out of range [0, %d)", suit, s.cfg.Suits)
}
