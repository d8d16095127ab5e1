// Package store provides SQLite-backed durable storage for qgf game logs.
//
// The store is an append-only log with two tables:
//   - games: one header per game (setup, setup hash, engine and IR versions)
//   - moves: every attempted move with its outcome and resulting snapshot hash
//
// Moves are keyed by a content-addressed ID computed in internal/ir, so
// writing the same move twice is a no-op. All reads order by
// seq ASC, id COLLATE BINARY ASC for identical results across replays.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
