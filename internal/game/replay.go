package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/qgf/internal/engine"
	"github.com/roach88/qgf/internal/ir"
)

// ErrLogDiverged is returned by Resume when the stored log does not replay.
var ErrLogDiverged = errors.New("stored move log does not replay")

// Replay rebuilds a stored game from genesis.
//
// Replay is structural: it drives a fresh Game through the same Ask/Answer
// path used during play, then compares every reproduced move with the
// stored one. Because the engine is deterministic and seq comes from a
// logical clock, a faithful log reproduces identical outcomes, move IDs
// and snapshot hashes.
//
// Replay stops at the first divergence. An error is returned only when the
// stored setup cannot start a game.
func Replay(ctx context.Context, record ir.GameRecord, moves []ir.Move) (ReplayResult, error) {
	_, result, err := rebuild(ctx, record, moves)
	return result, err
}

// Resume rebuilds a stored game and returns it ready for further moves.
//
// The rebuilt game keeps the stored ID. Options apply after the rebuild, so
// a recorder passed here sees only new moves and the header is not written
// again. Pass WithClock(NewClockAt(lastSeq)) to continue the stored seq
// numbering; by default the clock resumes after the last replayed move.
func Resume(ctx context.Context, record ir.GameRecord, moves []ir.Move, opts ...Option) (*Game, error) {
	g, result, err := rebuild(ctx, record, moves)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, fmt.Errorf("resume %s: %w: %s", record.ID, ErrLogDiverged, result.Divergence)
	}

	g.recorder = nil
	g.logger = slog.Default()
	for _, opt := range opts {
		opt(g)
	}

	g.logger.Debug("game resumed",
		"game", g.id,
		"seq", g.clock.Current(),
		"turn", g.Current().Turn())
	return g, nil
}

func rebuild(ctx context.Context, record ir.GameRecord, moves []ir.Move) (*Game, ReplayResult, error) {
	rec := &memRecorder{}
	g, err := New(ctx, record.Setup,
		WithIDGenerator(NewFixedGenerator(record.ID)),
		WithRecorder(rec),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return nil, ReplayResult{}, fmt.Errorf("replay %s: %w", record.ID, err)
	}

	result := ReplayResult{GameID: record.ID}
	for _, stored := range moves {
		req := engine.Request{
			Asking: engine.Player(stored.Asking),
			Asked:  engine.Player(stored.Asked),
			Suit:   engine.Suit(stored.Suit),
		}

		before := len(rec.moves)
		if err := g.Ask(ctx, req); err == nil {
			if stored.Outcome == ir.OutcomeRequestRejected {
				g.Cancel()
				result.Divergence = &Divergence{
					Seq:      stored.Seq,
					Field:    "outcome",
					Stored:   stored.Outcome,
					Replayed: "request_accepted",
				}
				break
			}
			_, _ = g.Answer(ctx, stored.Accept)
		}
		if len(rec.moves) != before+1 {
			return g, result, fmt.Errorf("replay %s: move %d was not recorded", record.ID, stored.Seq)
		}

		replayed := rec.moves[len(rec.moves)-1]
		result.Moves = append(result.Moves, replayed)
		if d := compareMoves(stored, replayed); d != nil {
			result.Divergence = d
			break
		}
	}

	result.Final = g.Current()
	result.Committed = len(g.history) - 1
	return g, result, nil
}

// ReplayResult is the outcome of rebuilding one game.
type ReplayResult struct {
	GameID     string
	Moves      []ir.Move
	Final      *engine.Snapshot
	Committed  int
	Divergence *Divergence
}

// OK reports whether every stored move was reproduced exactly.
func (r ReplayResult) OK() bool {
	return r.Divergence == nil
}

// Divergence is the first field where a replayed move differs from the log.
type Divergence struct {
	Seq      int64
	Field    string
	Stored   string
	Replayed string
}

func (d *Divergence) String() string {
	return fmt.Sprintf("seq %d: %s stored %q, replayed %q", d.Seq, d.Field, d.Stored, d.Replayed)
}

func compareMoves(stored, replayed ir.Move) *Divergence {
	fields := []struct {
		name             string
		stored, replayed string
	}{
		{"seq", strconv.FormatInt(stored.Seq, 10), strconv.FormatInt(replayed.Seq, 10)},
		{"outcome", stored.Outcome, replayed.Outcome},
		{"error_code", stored.ErrorCode, replayed.ErrorCode},
		{"turn", strconv.FormatInt(stored.Turn, 10), strconv.FormatInt(replayed.Turn, 10)},
		{"snapshot_hash", stored.SnapshotHash, replayed.SnapshotHash},
		{"id", stored.ID, replayed.ID},
	}
	for _, f := range fields {
		if f.stored != f.replayed {
			return &Divergence{Seq: stored.Seq, Field: f.name, Stored: f.stored, Replayed: f.replayed}
		}
	}
	return nil
}

// memRecorder keeps recorded moves in memory.
type memRecorder struct {
	game  ir.GameRecord
	moves []ir.Move
}

func (r *memRecorder) WriteGame(_ context.Context, game ir.GameRecord) error {
	r.game = game
	return nil
}

func (r *memRecorder) WriteMove(_ context.Context, move ir.Move) error {
	r.moves = append(r.moves, move)
	return nil
}
