package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qgf/internal/ir"
)

func TestReadGame_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadGame(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadMoves_Empty(t *testing.T) {
	s := createTestStore(t)
	createTestGame(t, s, "game-1")

	moves, err := s.ReadMoves(context.Background(), "game-1")
	require.NoError(t, err)
	assert.NotNil(t, moves)
	assert.Empty(t, moves)
}

func TestReadMoves_DeterministicOrdering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "game-1")

	// Written out of order.
	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, s.WriteMove(ctx, createTestMove("game-1", seq, ir.OutcomeCommitted)))
	}

	moves, err := s.ReadMoves(ctx, "game-1")
	require.NoError(t, err)
	require.Len(t, moves, 3)
	for i, m := range moves {
		assert.Equal(t, int64(i+1), m.Seq)
	}
}

func TestReadMoves_RoundTripFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "game-1")

	m := ir.Move{
		ID:           ir.MustMoveID("game-1", 1, 2, 0, 1, false),
		GameID:       "game-1",
		Seq:          1,
		Asking:       2,
		Asked:        0,
		Suit:         1,
		Accept:       false,
		Outcome:      ir.OutcomeResponseRejected,
		ErrorCode:    "PARADOX",
		Message:      "player 0 can hold at most 1 unknown card(s) but has 2",
		Turn:         0,
		SnapshotHash: "abc",
	}
	require.NoError(t, s.WriteMove(ctx, m))

	moves, err := s.ReadMoves(ctx, "game-1")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, m, moves[0])
}

func TestReadMoves_IsolatedByGame(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "game-a")
	createTestGame(t, s, "game-b")

	require.NoError(t, s.WriteMove(ctx, createTestMove("game-a", 1, ir.OutcomeCommitted)))
	require.NoError(t, s.WriteMove(ctx, createTestMove("game-b", 1, ir.OutcomeCommitted)))
	require.NoError(t, s.WriteMove(ctx, createTestMove("game-b", 2, ir.OutcomeRequestRejected)))

	a, err := s.ReadMoves(ctx, "game-a")
	require.NoError(t, err)
	assert.Len(t, a, 1)

	b, err := s.ReadMoves(ctx, "game-b")
	require.NoError(t, err)
	assert.Len(t, b, 2)
}

func TestListGameIDs_BinaryOrder(t *testing.T) {
	s := createTestStore(t)
	for _, id := range []string{"b", "A", "a"} {
		createTestGame(t, s, id)
	}

	ids, err := s.ListGameIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "a", "b"}, ids)
}

func TestReadGameLog(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	game := createTestGame(t, s, "game-1")

	require.NoError(t, s.WriteMove(ctx, createTestMove("game-1", 1, ir.OutcomeCommitted)))
	require.NoError(t, s.WriteMove(ctx, createTestMove("game-1", 2, ir.OutcomeRequestRejected)))
	require.NoError(t, s.WriteMove(ctx, createTestMove("game-1", 3, ir.OutcomeCommitted)))

	log, err := s.ReadGameLog(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, game, log.Game)
	assert.Len(t, log.Moves, 3)
	assert.Equal(t, int64(3), log.LastSeq)
	assert.Equal(t, 2, log.Committed)

	_, err = s.ReadGameLog(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "game-1")

	seq, err := s.GetLastSeq(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	require.NoError(t, s.WriteMove(ctx, createTestMove("game-1", 7, ir.OutcomeCommitted)))
	seq, err = s.GetLastSeq(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}
