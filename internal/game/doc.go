// Package game drives one qgf session on top of the belief-state engine.
//
// A Game owns the committed snapshot lineage, enforces the two-phase
// ask/answer protocol, numbers every attempted move with a logical clock,
// and hands each attempt to an optional Recorder (normally *store.Store).
//
// A Game is single-caller and not safe for concurrent use.
package game
