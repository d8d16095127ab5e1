package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/qgf/internal/ir"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestGame(t *testing.T, s *Store, id string) ir.GameRecord {
	t.Helper()
	setup := ir.GameSetup{
		Names:          []string{"Alice", "Bob", "Charlie"},
		CardsPerPlayer: 4,
		Suits:          3,
		Difficulty:     2,
	}
	game := ir.GameRecord{
		ID:            id,
		Setup:         setup,
		SetupHash:     mustSetupHash(t, setup),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	require.NoError(t, s.WriteGame(context.Background(), game))
	return game
}

func createTestMove(gameID string, seq int64, outcome string) ir.Move {
	return ir.Move{
		ID:           ir.MustMoveID(gameID, seq, 0, 1, 2, true),
		GameID:       gameID,
		Seq:          seq,
		Asking:       0,
		Asked:        1,
		Suit:         2,
		Accept:       true,
		Outcome:      outcome,
		Turn:         seq,
		SnapshotHash: "hash-" + gameID,
	}
}

func mustSetupHash(t *testing.T, setup ir.GameSetup) string {
	t.Helper()
	h, err := ir.SetupHash(setup)
	require.NoError(t, err)
	return h
}
