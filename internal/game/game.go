package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/qgf/internal/engine"
	"github.com/roach88/qgf/internal/ir"
)

var (
	// ErrRequestPending is returned by Ask while an earlier request awaits its answer.
	ErrRequestPending = errors.New("a request is already awaiting an answer")

	// ErrNoPendingRequest is returned by Answer when nothing has been asked.
	ErrNoPendingRequest = errors.New("no request is awaiting an answer")

	// ErrInvalidSetup wraps every setup validation failure.
	ErrInvalidSetup = errors.New("invalid game setup")
)

// Recorder persists game headers and move attempts.
// Implemented by *store.Store.
type Recorder interface {
	WriteGame(ctx context.Context, game ir.GameRecord) error
	WriteMove(ctx context.Context, move ir.Move) error
}

// Game is one session: a setup, the committed snapshot lineage, and at
// most one request awaiting its answer.
type Game struct {
	id       string
	setup    ir.GameSetup
	cfg      engine.Config
	history  []*engine.Snapshot
	pending  *pendingRequest
	clock    *Clock
	recorder Recorder
	idGen    IDGenerator
	logger   *slog.Logger
}

type pendingRequest struct {
	req engine.Request
	mid *engine.Snapshot
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithRecorder records the game header and every move attempt.
func WithRecorder(r Recorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// WithIDGenerator sets the game ID source. Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(g *Game) {
		g.idGen = gen
	}
}

// WithClock sets the move clock. Default: a fresh clock at 0.
func WithClock(c *Clock) Option {
	return func(g *Game) {
		g.clock = c
	}
}

// ValidateSetup checks a setup after defaults are applied.
func ValidateSetup(setup ir.GameSetup) error {
	if len(setup.Names) < 2 {
		return fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidSetup, len(setup.Names))
	}
	seen := make(map[string]bool, len(setup.Names))
	for i, name := range setup.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: player %d has an empty name", ErrInvalidSetup, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate player name %q", ErrInvalidSetup, name)
		}
		seen[name] = true
	}
	if setup.Difficulty < ir.MinDifficulty || setup.Difficulty > ir.MaxDifficulty {
		return fmt.Errorf("%w: difficulty %d is not in [%d, %d]",
			ErrInvalidSetup, setup.Difficulty, ir.MinDifficulty, ir.MaxDifficulty)
	}
	if err := ConfigFor(setup).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	return nil
}

// ConfigFor returns the engine configuration of a setup.
func ConfigFor(setup ir.GameSetup) engine.Config {
	return engine.Config{
		Players:        setup.PlayerCount(),
		CardsPerPlayer: setup.CardsPerPlayer,
		Suits:          setup.SuitCount(),
	}
}

// New starts a game from setup. Zero-valued setup fields take their
// defaults. With a recorder configured, the game header is written first.
func New(ctx context.Context, setup ir.GameSetup, opts ...Option) (*Game, error) {
	setup = setup.WithDefaults()
	if err := ValidateSetup(setup); err != nil {
		return nil, err
	}

	g := &Game{
		setup:  setup,
		cfg:    ConfigFor(setup),
		clock:  NewClock(),
		idGen:  UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.id = g.idGen.Generate()
	g.history = []*engine.Snapshot{engine.Begin(g.cfg)}

	if g.recorder != nil {
		setupHash, err := ir.SetupHash(setup)
		if err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
		err = g.recorder.WriteGame(ctx, ir.GameRecord{
			ID:            g.id,
			Setup:         setup,
			SetupHash:     setupHash,
			EngineVersion: ir.EngineVersion,
			IRVersion:     ir.IRVersion,
		})
		if err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
	}

	g.logger.Debug("game started",
		"game", g.id,
		"players", g.cfg.Players,
		"cards_per_player", g.cfg.CardsPerPlayer,
		"suits", g.cfg.Suits,
		"difficulty", setup.Difficulty)
	return g, nil
}

// ID returns the game ID.
func (g *Game) ID() string { return g.id }

// Setup returns the setup with defaults applied.
func (g *Game) Setup() ir.GameSetup { return g.setup }

// Config returns the engine configuration.
func (g *Game) Config() engine.Config { return g.cfg }

// Current returns the last committed snapshot.
func (g *Game) Current() *engine.Snapshot {
	return g.history[len(g.history)-1]
}

// History returns every committed snapshot from genesis, oldest first.
func (g *Game) History() []*engine.Snapshot {
	return append([]*engine.Snapshot(nil), g.history...)
}

// Pending reports the request awaiting an answer, if any.
func (g *Game) Pending() (engine.Request, bool) {
	if g.pending == nil {
		return engine.Request{}, false
	}
	return g.pending.req, true
}

// Seq returns the seq of the last attempted move.
func (g *Game) Seq() int64 { return g.clock.Current() }

// Ask submits the request phase of a move.
//
// A rejected request is recorded and returned as a *engine.RuleError; the
// committed snapshot is unchanged and no request is left pending.
func (g *Game) Ask(ctx context.Context, req engine.Request) error {
	if g.pending != nil {
		return ErrRequestPending
	}

	if err := g.cfg.CheckRequest(req); err != nil {
		return g.reject(ctx, req, false, ir.OutcomeRequestRejected, err)
	}

	mid, err := engine.ProcessRequest(g.Current(), req)
	if err != nil {
		return g.reject(ctx, req, false, ir.OutcomeRequestRejected, err)
	}

	g.pending = &pendingRequest{req: req, mid: mid}
	return nil
}

// Answer submits the response phase of the pending move and returns the
// newly committed snapshot.
//
// A rejected answer is recorded and returned as a *engine.RuleError; the
// previously committed snapshot stays current. The move commits only once
// the recorder has accepted it.
func (g *Game) Answer(ctx context.Context, accept bool) (*engine.Snapshot, error) {
	if g.pending == nil {
		return nil, ErrNoPendingRequest
	}
	p := g.pending
	g.pending = nil

	next, err := engine.ProcessResponse(p.mid, p.req, accept)
	if err != nil {
		return nil, g.reject(ctx, p.req, accept, ir.OutcomeResponseRejected, err)
	}

	move, err := g.record(ctx, next, p.req, accept, ir.OutcomeCommitted, nil)
	if err != nil {
		return nil, err
	}
	g.history = append(g.history, next)

	g.logger.Debug("move committed",
		"game", g.id,
		"seq", move.Seq,
		"asking", p.req.Asking,
		"asked", p.req.Asked,
		"suit", p.req.Suit,
		"accept", accept,
		"turn", next.Turn())
	return next, nil
}

// Play runs Ask then Answer.
func (g *Game) Play(ctx context.Context, req engine.Request, accept bool) (*engine.Snapshot, error) {
	if err := g.Ask(ctx, req); err != nil {
		return nil, err
	}
	return g.Answer(ctx, accept)
}

// Cancel drops the pending request without recording anything.
func (g *Game) Cancel() {
	g.pending = nil
}

// reject records a rejected attempt and returns the rule error to the caller.
func (g *Game) reject(ctx context.Context, req engine.Request, accept bool, outcome string, ruleErr error) error {
	move, err := g.record(ctx, g.Current(), req, accept, outcome, ruleErr)
	if err != nil {
		return err
	}

	g.logger.Info("move rejected",
		"game", g.id,
		"seq", move.Seq,
		"asking", req.Asking,
		"asked", req.Asked,
		"suit", req.Suit,
		"outcome", outcome,
		"code", string(engine.ErrorCode(ruleErr)))
	return ruleErr
}

// record stamps the attempt with the next seq and hands it to the recorder.
// cur is the snapshot that is authoritative once the attempt is settled.
func (g *Game) record(ctx context.Context, cur *engine.Snapshot, req engine.Request, accept bool, outcome string, ruleErr error) (ir.Move, error) {
	seq := g.clock.Next()

	move := ir.Move{
		GameID:       g.id,
		Seq:          seq,
		Asking:       int64(req.Asking),
		Asked:        int64(req.Asked),
		Suit:         int64(req.Suit),
		Accept:       accept,
		Outcome:      outcome,
		Turn:         int64(cur.Turn()),
		SnapshotHash: cur.Hash(),
	}
	if ruleErr != nil {
		move.ErrorCode = string(engine.ErrorCode(ruleErr))
		var re *engine.RuleError
		if errors.As(ruleErr, &re) {
			move.Message = re.Message
		} else {
			move.Message = ruleErr.Error()
		}
	}

	id, err := ir.MoveID(g.id, seq, move.Asking, move.Asked, move.Suit, accept)
	if err != nil {
		return move, fmt.Errorf("record move: %w", err)
	}
	move.ID = id

	if g.recorder != nil {
		if err := g.recorder.WriteMove(ctx, move); err != nil {
			return move, fmt.Errorf("record move %d: %w", seq, err)
		}
	}
	return move, nil
}
