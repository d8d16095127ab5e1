package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qgf/internal/engine"
	"github.com/roach88/qgf/internal/ir"
)

// playMixed plays a log with committed, request-rejected and
// response-rejected moves.
func playMixed(t *testing.T) (*Game, *memRecorder) {
	t.Helper()
	g, rec := newTestGame(t, ir.GameSetup{Names: []string{"A", "B", "C"}, CardsPerPlayer: 3})
	ctx := context.Background()

	for _, m := range []engine.Request{req(0, 1, 1), req(2, 0, 0), req(0, 2, 2)} {
		_, err := g.Play(ctx, m, false)
		require.NoError(t, err)
	}
	_, err := g.Play(ctx, req(0, 1, 2), false) // paradox
	require.Error(t, err)
	require.Error(t, g.Ask(ctx, req(0, 1, 0))) // excluded asker
	_, err = g.Play(ctx, req(0, 1, 2), true)
	require.NoError(t, err)
	return g, rec
}

func TestReplay_ReproducesLog(t *testing.T) {
	g, rec := playMixed(t)

	result, err := Replay(context.Background(), rec.game, rec.moves)
	require.NoError(t, err)

	assert.True(t, result.OK(), "divergence: %v", result.Divergence)
	assert.Equal(t, rec.moves, result.Moves)
	assert.Equal(t, 4, result.Committed)
	assert.True(t, g.Current().Equal(result.Final))
	assert.Equal(t, g.Current().Hash(), result.Final.Hash())
}

func TestReplay_Twice(t *testing.T) {
	_, rec := playMixed(t)

	a, err := Replay(context.Background(), rec.game, rec.moves)
	require.NoError(t, err)
	b, err := Replay(context.Background(), rec.game, rec.moves)
	require.NoError(t, err)
	assert.Equal(t, a.Moves, b.Moves)
}

func TestReplay_DetectsTamperedHash(t *testing.T) {
	_, rec := playMixed(t)
	moves := append([]ir.Move(nil), rec.moves...)
	moves[1].SnapshotHash = "tampered"

	result, err := Replay(context.Background(), rec.game, moves)
	require.NoError(t, err)
	require.False(t, result.OK())
	assert.Equal(t, int64(2), result.Divergence.Seq)
	assert.Equal(t, "snapshot_hash", result.Divergence.Field)
	assert.Len(t, result.Moves, 2)
	assert.Contains(t, result.Divergence.String(), `stored "tampered"`)
}

func TestReplay_DetectsOutcomeChange(t *testing.T) {
	_, rec := playMixed(t)
	moves := append([]ir.Move(nil), rec.moves...)

	// Claim the paradox move was committed.
	moves[3].Outcome = ir.OutcomeCommitted
	moves[3].ErrorCode = ""

	result, err := Replay(context.Background(), rec.game, moves)
	require.NoError(t, err)
	require.NotNil(t, result.Divergence)
	assert.Equal(t, int64(4), result.Divergence.Seq)
	assert.Equal(t, "outcome", result.Divergence.Field)
	assert.Equal(t, ir.OutcomeResponseRejected, result.Divergence.Replayed)
}

func TestReplay_DetectsAcceptedRequestLoggedAsRejected(t *testing.T) {
	_, rec := playMixed(t)
	moves := append([]ir.Move(nil), rec.moves...)
	moves[0].Outcome = ir.OutcomeRequestRejected

	result, err := Replay(context.Background(), rec.game, moves)
	require.NoError(t, err)
	require.NotNil(t, result.Divergence)
	assert.Equal(t, int64(1), result.Divergence.Seq)
	assert.Equal(t, "request_accepted", result.Divergence.Replayed)
	assert.Equal(t, 0, result.Committed)
}

func TestReplay_InvalidSetup(t *testing.T) {
	_, err := Replay(context.Background(), ir.GameRecord{ID: "x", Setup: ir.GameSetup{Names: []string{"solo"}}}, nil)
	assert.ErrorIs(t, err, ErrInvalidSetup)
}

func TestResume_ContinuesStoredGame(t *testing.T) {
	ctx := context.Background()
	original, rec := playMixed(t)
	stored := append([]ir.Move(nil), rec.moves...)
	lastSeq := stored[len(stored)-1].Seq

	next := &memRecorder{}
	resumed, err := Resume(ctx, rec.game, stored, WithRecorder(next), WithClock(NewClockAt(lastSeq)))
	require.NoError(t, err)

	assert.Equal(t, original.ID(), resumed.ID())
	assert.Equal(t, lastSeq, resumed.Seq())
	assert.True(t, original.Current().Equal(resumed.Current()))
	assert.Len(t, resumed.History(), len(original.History()))
	assert.Empty(t, next.game.ID, "header is not written again")
	assert.Empty(t, next.moves, "replayed moves are not recorded again")

	// The same move on both games records the same attempt.
	_, wantErr := original.Play(ctx, req(1, 2, 1), false)
	_, gotErr := resumed.Play(ctx, req(1, 2, 1), false)
	assert.Equal(t, wantErr, gotErr)

	require.Len(t, next.moves, 1)
	assert.Equal(t, lastSeq+1, next.moves[0].Seq)
	assert.Equal(t, rec.moves[len(rec.moves)-1], next.moves[0])
	assert.Equal(t, original.Current().Hash(), resumed.Current().Hash())
}

func TestResume_DefaultClockFollowsLog(t *testing.T) {
	_, rec := playMixed(t)

	resumed, err := Resume(context.Background(), rec.game, rec.moves)
	require.NoError(t, err)
	assert.Equal(t, int64(len(rec.moves)), resumed.Seq())
}

func TestResume_RejectsDivergentLog(t *testing.T) {
	_, rec := playMixed(t)
	moves := append([]ir.Move(nil), rec.moves...)
	moves[2].SnapshotHash = "tampered"

	_, err := Resume(context.Background(), rec.game, moves)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLogDiverged)
	assert.Contains(t, err.Error(), "seq 3: snapshot_hash")
}
