package game

import "sync/atomic"

// Clock numbers move attempts with strictly increasing seq values.
//
// Seq comes from this clock and never from wall time, so a replayed game
// reproduces the same seq values and therefore the same move IDs.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after a known seq.
// Used when continuing a stored game.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
