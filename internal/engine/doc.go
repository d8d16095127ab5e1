// Package engine implements the qgf belief-state engine.
//
// The engine tracks what an observer can deduce about hidden hands in a game
// where players ask one another "do you hold a card of suit S" and answer
// yes or no. It never sees real hands; it only sees the public move sequence.
//
// ARCHITECTURE:
//
// Snapshots are immutable values. Every transition clones the current
// snapshot, applies one change, and runs the propagation closure before the
// result is handed back:
//
//	Begin(cfg) → ProcessRequest → ProcessResponse → ProcessRequest → ...
//
// ProcessRequest yields an intermediate snapshot that must be passed to
// ProcessResponse together with the same request. If either step returns an
// error the caller discards the attempt and keeps the last committed snapshot.
//
// The propagation closure (validate) runs to a fixed point. It rejects any
// belief state in which a player would hold more undetermined cards than the
// suits they might still hold can supply (a paradox), and it promotes forced
// conclusions into known cards tagged TagDeduced.
//
// ERROR CLASSES:
//
// Rule violations are returned as *RuleError. They describe an illegal or
// impossible move and are the caller's to act on.
//
// Invariant violations panic with *InvariantError. They mean the engine's own
// bookkeeping is inconsistent and are never reachable from valid call sequences.
//
// REPRESENTATION:
//
// Players and suits are small integer indices into flat slices, so a clone
// is four slice copies and the hot propagation loop never chases pointers.
// No randomness, no concurrency, no wall clock: replaying the same moves from
// genesis yields byte-identical canonical snapshots.
package engine
