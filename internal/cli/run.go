package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qgf/internal/config"
	"github.com/roach88/qgf/internal/engine"
	"github.com/roach88/qgf/internal/game"
	"github.com/roach88/qgf/internal/ir"
	"github.com/roach88/qgf/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	GameID   string

	// IDGenerator allows overriding the game ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator game.IDGenerator
}

// MoveFile is the YAML move list played by run.
type MoveFile struct {
	Moves []MoveLine `yaml:"moves"`
}

// MoveLine is one request and its answer.
type MoveLine struct {
	Asking int  `yaml:"asking"`
	Asked  int  `yaml:"asked"`
	Suit   int  `yaml:"suit"`
	Answer bool `yaml:"answer"`
}

// RunMove is the reported outcome of one move.
type RunMove struct {
	Seq     int64  `json:"seq"`
	Move    string `json:"move"`
	Outcome string `json:"outcome"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Turn    int    `json:"turn"`
}

// RunResult is the report of a played move list. ResumedAfter is the last
// stored seq of a resumed game and 0 for a new one.
type RunResult struct {
	GameID       string    `json:"game_id"`
	ResumedAfter int64     `json:"resumed_after,omitempty"`
	Moves        []RunMove `json:"moves"`
	Committed    int       `json:"committed"`
	Rejected     int       `json:"rejected"`
	View         game.View `json:"view"`
}

func (r RunResult) String() string {
	var b strings.Builder
	if r.ResumedAfter > 0 {
		fmt.Fprintf(&b, "Game %s (resumed after #%d)\n", r.GameID, r.ResumedAfter)
	} else {
		fmt.Fprintf(&b, "Game %s\n", r.GameID)
	}
	for _, m := range r.Moves {
		if m.Outcome == ir.OutcomeCommitted {
			fmt.Fprintf(&b, "  #%d %s -> committed (turn %d)\n", m.Seq, m.Move, m.Turn)
			continue
		}
		fmt.Fprintf(&b, "  #%d %s -> %s [%s] %s\n", m.Seq, m.Move, m.Outcome, m.Code, m.Message)
	}
	fmt.Fprintf(&b, "%d committed, %d rejected\n\n", r.Committed, r.Rejected)
	b.WriteString(r.View.String())
	return strings.TrimRight(b.String(), "\n")
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [<setup.cue>] <moves.yaml>",
		Short: "Play a move list against a game setup",
		Long: `Play a literal move list and print every outcome followed by the
final belief state at the setup's difficulty.

Rejected moves are reported and skipped; the game continues from the last
committed state. With --db (or QGF_DB) every attempted move is recorded.

With --game the stored game is rebuilt from the database and the moves
continue it; the setup file is omitted because the stored setup is used.

Moves file:
  moves:
    - { asking: 0, asked: 1, suit: 0, answer: false }
    - { asking: 1, asked: 2, suit: 1, answer: true }

Examples:
  qgf run setup.cue moves.yaml
  qgf run setup.cue moves.yaml --db ./qgf.db --format json
  qgf run more.yaml --db ./qgf.db --game 0190a1b2-...`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.GameID != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.GameID != "" {
				return resumeGame(opts, args[0], cmd)
			}
			return runGame(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $QGF_DB)")
	cmd.Flags().StringVar(&opts.GameID, "game", "", "continue a stored game instead of starting one")

	return cmd
}

// LoadMoveFile reads a YAML move list with strict field checking.
func LoadMoveFile(path string) (*MoveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read moves file: %w", err)
	}

	var file MoveFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse moves file: %w", err)
	}
	return &file, nil
}

func runGame(opts *RunOptions, setupPath, movesPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	setup, err := LoadSetup(setupPath, config.DefaultDifficulty())
	if err != nil {
		return outputLoadError(formatter, err)
	}

	moves, err := loadMoves(formatter, movesPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gameOpts := []game.Option{game.WithLogger(logger)}
	if opts.IDGenerator != nil {
		gameOpts = append(gameOpts, game.WithIDGenerator(opts.IDGenerator))
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = config.DatabasePath()
	}
	if dbPath != "" {
		logger.Info("opening database", "path", dbPath)
		st, err := store.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		gameOpts = append(gameOpts, game.WithRecorder(st))
	}

	g, err := game.New(ctx, setup, gameOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start game", err)
	}
	formatter.VerboseLog("Started game %s with %d player(s)", g.ID(), setup.PlayerCount())

	result, err := playMoves(ctx, g, moves.Moves)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record move", err)
	}

	return formatter.Success(result)
}

// resumeGame rebuilds a stored game and plays the move list on top of it.
func resumeGame(opts *RunOptions, movesPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = config.DatabasePath()
	}
	if dbPath == "" {
		msg := "--game requires --db or QGF_DB"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	moves, err := loadMoves(formatter, movesPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExistingStore(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	log, err := st.ReadGameLog(ctx, opts.GameID)
	if errors.Is(err, store.ErrNotFound) {
		msg := fmt.Sprintf("game not found: %s", opts.GameID)
		_ = formatter.Error(ErrCodeGameNotFound, msg, nil)
		return WrapExitError(ExitCommandError, msg, err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read game", err)
	}

	g, err := game.Resume(ctx, log.Game, log.Moves,
		game.WithLogger(logger),
		game.WithRecorder(st),
		game.WithClock(game.NewClockAt(log.LastSeq)),
	)
	if errors.Is(err, game.ErrLogDiverged) {
		_ = formatter.Error(ErrCodeNonDeterminism, err.Error(), nil)
		return WrapExitError(ExitFailure, "cannot resume game", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resume game", err)
	}
	formatter.VerboseLog("Resumed game %s after seq %d (turn %d)", g.ID(), log.LastSeq, g.Current().Turn())

	result, err := playMoves(ctx, g, moves.Moves)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record move", err)
	}
	result.ResumedAfter = log.LastSeq

	return formatter.Success(result)
}

func loadMoves(formatter *OutputFormatter, path string) (*MoveFile, error) {
	moves, err := LoadMoveFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeMovesFile, err.Error(), nil)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, WrapExitError(ExitCommandError, "failed to load moves", err)
		}
		return nil, WrapExitError(ExitFailure, "failed to load moves", err)
	}
	return moves, nil
}

// playMoves plays every line, reporting rule violations instead of stopping.
func playMoves(ctx context.Context, g *game.Game, lines []MoveLine) (RunResult, error) {
	names := g.Setup().Names
	result := RunResult{GameID: g.ID(), Moves: make([]RunMove, 0, len(lines))}

	for _, line := range lines {
		req := engine.Request{
			Asking: engine.Player(line.Asking),
			Asked:  engine.Player(line.Asked),
			Suit:   engine.Suit(line.Suit),
		}

		move := RunMove{Move: describeMove(names, line)}
		outcome := ir.OutcomeCommitted
		if err := g.Ask(ctx, req); err != nil {
			outcome = ir.OutcomeRequestRejected
			if !engine.IsRuleError(err) {
				return result, err
			}
			move.Code, move.Message = ruleDetail(err)
		} else if _, err := g.Answer(ctx, line.Answer); err != nil {
			outcome = ir.OutcomeResponseRejected
			if !engine.IsRuleError(err) {
				return result, err
			}
			move.Code, move.Message = ruleDetail(err)
		}

		move.Seq = g.Seq()
		move.Outcome = outcome
		move.Turn = g.Current().Turn()
		if outcome == ir.OutcomeCommitted {
			result.Committed++
		} else {
			result.Rejected++
		}
		result.Moves = append(result.Moves, move)
	}

	result.View = game.NewView(g.Current(), names, g.Setup().Difficulty)
	return result, nil
}

func ruleDetail(err error) (string, string) {
	var re *engine.RuleError
	if errors.As(err, &re) {
		return string(re.Code), re.Message
	}
	return "", err.Error()
}

func describeMove(names []string, line MoveLine) string {
	return fmt.Sprintf("%s: %s", describeRequest(names, line.Asking, line.Asked, line.Suit), answerWord(line.Answer))
}

func answerWord(accept bool) string {
	if accept {
		return "yes"
	}
	return "no"
}

func describeRequest(names []string, asking, asked, suit int) string {
	return fmt.Sprintf("%s asks %s for suit %d", seatName(names, asking), seatName(names, asked), suit)
}

func seatName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("Player %d", i)
}
