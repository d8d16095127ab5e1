package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qgf/internal/game"
	"github.com/roach88/qgf/internal/ir"
	"github.com/roach88/qgf/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database   string
	GameID     string
	Difficulty int // -1 means the game's own difficulty
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	GameID   string       `json:"game_id"`
	Setup    ir.GameSetup `json:"setup"`
	Timeline []ir.Move    `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
	Final    game.View    `json:"final"`

	// Divergence names the first stored move that does not replay. Final is
	// the state reached when the replay stopped.
	Divergence string `json:"divergence,omitempty"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalMoves int            `json:"total_moves"`
	Committed  int            `json:"committed"`
	Rejected   int            `json:"rejected"`
	ByCode     map[string]int `json:"by_code,omitempty"`
}

func (r TraceResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s: %s\n\n", r.GameID, strings.Join(r.Setup.Names, ", "))

	b.WriteString("Timeline:\n")
	for _, m := range r.Timeline {
		line := describeRequest(r.Setup.Names, int(m.Asking), int(m.Asked), int(m.Suit))
		if m.Outcome != ir.OutcomeRequestRejected {
			line += ": " + answerWord(m.Accept)
		}
		fmt.Fprintf(&b, "  [%d] %s\n", m.Seq, line)
		if m.Committed() {
			fmt.Fprintf(&b, "      committed, turn %d, snapshot %s\n", m.Turn, shortHash(m.SnapshotHash))
		} else {
			fmt.Fprintf(&b, "      %s [%s] %s\n", m.Outcome, m.ErrorCode, m.Message)
		}
	}

	fmt.Fprintf(&b, "\nStats: %d move(s), %d committed, %d rejected\n",
		r.Stats.TotalMoves, r.Stats.Committed, r.Stats.Rejected)
	if r.Divergence != "" {
		fmt.Fprintf(&b, "Replay diverged: %s\n", r.Divergence)
	}
	b.WriteString("\n")
	b.WriteString(r.Final.String())
	return strings.TrimRight(b.String(), "\n")
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the move log of a stored game",
		Long: `Show the stored move log of one game: every attempted move in seq
order with its outcome, followed by the final belief state rebuilt from
the log.

Examples:
  qgf trace --db ./qgf.db --game 0190a1b2-...
  qgf trace --db ./qgf.db --game 0190a1b2-... --difficulty 3
  qgf trace --db ./qgf.db --game 0190a1b2-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.GameID, "game", "", "game ID to trace (required)")
	_ = cmd.MarkFlagRequired("game")
	cmd.Flags().IntVar(&opts.Difficulty, "difficulty", -1, "display difficulty for the final state (default: the game's)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Difficulty != -1 && (opts.Difficulty < ir.MinDifficulty || opts.Difficulty > ir.MaxDifficulty) {
		msg := fmt.Sprintf("difficulty %d is not in [%d, %d]", opts.Difficulty, ir.MinDifficulty, ir.MaxDifficulty)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := openExistingStore(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	result, err := buildTrace(ctx, st, opts.GameID, opts.Difficulty)
	if errors.Is(err, store.ErrNotFound) {
		msg := fmt.Sprintf("game not found: %s", opts.GameID)
		_ = formatter.Error(ErrCodeGameNotFound, msg, nil)
		return WrapExitError(ExitCommandError, msg, err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build trace", err)
	}

	if result.Divergence != "" {
		if err := formatter.Failure(ErrCodeNonDeterminism, "stored log does not replay", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "stored log does not replay: "+result.Divergence)
	}
	return formatter.Success(result)
}

func buildTrace(ctx context.Context, st *store.Store, gameID string, difficulty int) (TraceResult, error) {
	log, err := st.ReadGameLog(ctx, gameID)
	if err != nil {
		return TraceResult{}, err
	}

	replayed, err := game.Replay(ctx, log.Game, log.Moves)
	if err != nil {
		return TraceResult{}, err
	}

	if difficulty == -1 {
		difficulty = log.Game.Setup.Difficulty
	}

	stats := TraceStats{TotalMoves: len(log.Moves), Committed: log.Committed}
	for _, m := range log.Moves {
		if m.Committed() {
			continue
		}
		stats.Rejected++
		if stats.ByCode == nil {
			stats.ByCode = make(map[string]int)
		}
		stats.ByCode[m.ErrorCode]++
	}

	result := TraceResult{
		GameID:   gameID,
		Setup:    log.Game.Setup,
		Timeline: log.Moves,
		Stats:    stats,
		Final:    game.NewView(replayed.Final, log.Game.Setup.Names, difficulty),
	}
	if !replayed.OK() {
		result.Divergence = replayed.Divergence.String()
	}
	return result, nil
}
