package store

import (
	"context"
	"fmt"

	"github.com/roach88/qgf/internal/ir"
)

// WriteGame inserts a game header into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
//
// The setup is serialized to canonical JSON per RFC 8785 for deterministic replay.
func (s *Store) WriteGame(ctx context.Context, game ir.GameRecord) error {
	setupJSON, err := marshalSetup(game.Setup)
	if err != nil {
		return fmt.Errorf("write game: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games
		(id, setup, setup_hash, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		game.ID,
		setupJSON,
		game.SetupHash,
		game.EngineVersion,
		game.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write game: %w", err)
	}

	return nil
}

// WriteMove inserts a move record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency. A different move with the
// same (game_id, seq) still fails on the UNIQUE constraint.
//
// Note: The game referenced by GameID must exist (foreign key constraint).
func (s *Store) WriteMove(ctx context.Context, move ir.Move) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO moves
		(id, game_id, seq, asking, asked, suit, accept, outcome, error_code, message, turn, snapshot_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		move.ID,
		move.GameID,
		move.Seq,
		move.Asking,
		move.Asked,
		move.Suit,
		boolToInt(move.Accept),
		move.Outcome,
		move.ErrorCode,
		move.Message,
		move.Turn,
		move.SnapshotHash,
	)
	if err != nil {
		return fmt.Errorf("write move: %w", err)
	}

	return nil
}
