package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/qgf/internal/ir"
)

// GameLog is everything needed to rebuild one game from genesis.
type GameLog struct {
	Game      ir.GameRecord
	Moves     []ir.Move
	LastSeq   int64
	Committed int
}

// ReadGameLog returns the header and ordered move log of one game.
func (s *Store) ReadGameLog(ctx context.Context, gameID string) (GameLog, error) {
	game, err := s.ReadGame(ctx, gameID)
	if err != nil {
		return GameLog{}, fmt.Errorf("read game log: %w", err)
	}

	moves, err := s.ReadMoves(ctx, gameID)
	if err != nil {
		return GameLog{}, fmt.Errorf("read game log: %w", err)
	}

	lastSeq, err := s.GetLastSeq(ctx, gameID)
	if err != nil {
		return GameLog{}, fmt.Errorf("read game log: %w", err)
	}

	log := GameLog{Game: game, Moves: moves, LastSeq: lastSeq}
	for _, m := range moves {
		if m.Committed() {
			log.Committed++
		}
	}
	return log, nil
}

// GetLastSeq returns the highest move seq recorded for a game, or 0.
func (s *Store) GetLastSeq(ctx context.Context, gameID string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM moves WHERE game_id = ?
	`, gameID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}
