package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/qgf/internal/ir"
)

// ReadGame returns the header of one game.
// Returns an error wrapping ErrNotFound if no game has the given ID.
func (s *Store) ReadGame(ctx context.Context, id string) (ir.GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, setup, setup_hash, engine_version, ir_version
		FROM games
		WHERE id = ?
	`, id)

	var (
		game      ir.GameRecord
		setupJSON string
	)
	err := row.Scan(&game.ID, &setupJSON, &game.SetupHash, &game.EngineVersion, &game.IRVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.GameRecord{}, fmt.Errorf("read game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.GameRecord{}, fmt.Errorf("read game %s: %w", id, err)
	}

	game.Setup, err = unmarshalSetup(setupJSON)
	if err != nil {
		return ir.GameRecord{}, fmt.Errorf("read game %s: %w", id, err)
	}
	return game, nil
}

// ListGameIDs returns every stored game ID in binary order.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) ListGameIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM games ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return ids, nil
}

// ReadMoves returns every move of a game in deterministic order:
// ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the game has no moves.
func (s *Store) ReadMoves(ctx context.Context, gameID string) ([]ir.Move, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, seq, asking, asked, suit, accept, outcome, error_code, message, turn, snapshot_hash
		FROM moves
		WHERE game_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	moves := []ir.Move{}
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return moves, nil
}

func scanMove(rows *sql.Rows) (ir.Move, error) {
	var (
		m      ir.Move
		accept int
	)
	err := rows.Scan(
		&m.ID,
		&m.GameID,
		&m.Seq,
		&m.Asking,
		&m.Asked,
		&m.Suit,
		&accept,
		&m.Outcome,
		&m.ErrorCode,
		&m.Message,
		&m.Turn,
		&m.SnapshotHash,
	)
	if err != nil {
		return ir.Move{}, fmt.Errorf("scan move: %w", err)
	}
	m.Accept = accept != 0
	return m, nil
}
