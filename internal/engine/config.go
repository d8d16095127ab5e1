package engine

import "fmt"

// Player is a seat index in [0, Config.Players).
type Player int

// Suit is a suit index in [0, Config.Suits).
type Suit int

// Config is the immutable shape of one game.
//
// It travels alongside every snapshot rather than being baked into it, so
// two snapshots compare equal only if they share a Config.
type Config struct {
	Players        int
	CardsPerPlayer int
	Suits          int
}

// NewConfig returns the standard configuration: one suit per player.
func NewConfig(players, cardsPerPlayer int) Config {
	return Config{
		Players:        players,
		CardsPerPlayer: cardsPerPlayer,
		Suits:          players,
	}
}

// CardsPerSuit is the number of cards of each suit in the deck.
func (c Config) CardsPerSuit() int {
	if c.Suits == 0 {
		return 0
	}
	return c.Players * c.CardsPerPlayer / c.Suits
}

// Validate reports whether the configuration describes a playable deck.
func (c Config) Validate() error {
	switch {
	case c.Players < 2:
		return fmt.Errorf("config: need at least 2 players, got %d", c.Players)
	case c.CardsPerPlayer < 1:
		return fmt.Errorf("config: need at least 1 card per player, got %d", c.CardsPerPlayer)
	case c.Suits < 1:
		return fmt.Errorf("config: need at least 1 suit, got %d", c.Suits)
	case (c.Players*c.CardsPerPlayer)%c.Suits != 0:
		return fmt.Errorf("config: %d cards do not divide evenly into %d suits",
			c.Players*c.CardsPerPlayer, c.Suits)
	}
	return nil
}

// ValidPlayer reports whether p is a seat in this configuration.
func (c Config) ValidPlayer(p Player) bool {
	return p >= 0 && int(p) < c.Players
}

// ValidSuit reports whether s is a suit in this configuration.
func (c Config) ValidSuit(s Suit) bool {
	return s >= 0 && int(s) < c.Suits
}

// CheckRequest validates the identifiers of req against the configuration.
//
// The transition functions treat out-of-range identifiers as invariant
// faults; callers handling untrusted input check here first to get an
// OUT_OF_RANGE rule error instead.
func (c Config) CheckRequest(req Request) error {
	if !c.ValidPlayer(req.Asking) {
		return ruleErrorf(ErrCodeOutOfRange, req.Asking, req.Suit,
			"asking player %d is not in [0, %d)", req.Asking, c.Players)
	}
	if !c.ValidPlayer(req.Asked) {
		return ruleErrorf(ErrCodeOutOfRange, req.Asked, req.Suit,
			"asked player %d is not in [0, %d)", req.Asked, c.Players)
	}
	if !c.ValidSuit(req.Suit) {
		return ruleErrorf(ErrCodeOutOfRange, req.Asking, req.Suit,
			"suit %d is not in [0, %d)", req.Suit, c.Suits)
	}
	return nil
}
