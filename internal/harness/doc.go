// Package harness runs qgf conformance scenarios.
//
// A scenario is a YAML file naming a game setup, a literal move list with
// optional expectations, and assertions on the final snapshot. Run drives a
// real game.Game backed by an in-memory store, so the trace it returns is
// exactly what a recorded game would contain.
//
// # Scenario Format
//
//	name: denial_excludes
//	description: "A denial excludes the suit for the asked player"
//	game_id: test-game-1
//	setup:
//	  names: [Alice, Bob, Charlie]
//	  cards_per_player: 4
//	moves:
//	  - ask: { asking: 0, asked: 1, suit: 0 }
//	    answer: false
//	    expect:
//	      outcome: committed
//	assertions:
//	  - type: excluded
//	    player: 1
//	    suit: 0
//	    excluded: true
//	  - type: turn
//	    value: 1
//
// A move without an answer only asks; it must expect request_rejected.
//
// # Assertion Types
//
//   - turn: the final turn counter
//   - unrevealed: unattributed cards of a suit
//   - unknown: undetermined cards of a player
//   - known: cards of a suit attributed to a player (one tag, or all tags)
//   - excluded: whether a player is certified to lack a suit
//
// # Deterministic Testing
//
// Every run uses a fixed game ID (scenario game_id, or "test-game-default")
// and a fresh logical clock, so traces are byte-identical across runs and
// can be compared against golden files in testdata/golden.
package harness
