package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qgf/internal/game"
	"github.com/roach88/qgf/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	GameID   string // optional - specific game only
}

// ReplayGameResult holds the replay result for a single game.
type ReplayGameResult struct {
	GameID        string `json:"game_id"`
	Moves         int    `json:"moves"`
	Committed     int    `json:"committed"`
	FinalHash     string `json:"final_hash"`
	Deterministic bool   `json:"deterministic"`
	Divergence    string `json:"divergence,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Games            []ReplayGameResult `json:"games"`
	TotalGames       int                `json:"total_games"`
	AllDeterministic bool               `json:"all_deterministic"`
}

func (r ReplayResult) String() string {
	if r.TotalGames == 0 {
		return "No games found in database."
	}

	var b strings.Builder
	for _, g := range r.Games {
		if g.Deterministic {
			fmt.Fprintf(&b, "✓ %s: %d move(s), %d committed, final %s\n",
				g.GameID, g.Moves, g.Committed, shortHash(g.FinalHash))
			continue
		}
		fmt.Fprintf(&b, "✗ %s: %s\n", g.GameID, g.Divergence)
	}
	if r.AllDeterministic {
		fmt.Fprintf(&b, "\n✓ All %d game(s) replay deterministically", r.TotalGames)
	} else {
		b.WriteString("\n✗ Non-determinism detected")
	}
	return b.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay stored games and verify determinism",
		Long: `Rebuild every stored game from its setup and move log, twice, and
compare each reproduced move (outcome, error code, turn, snapshot hash and
move ID) with the stored one.

Exit codes:
  0 - All games replay deterministically
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  qgf replay --db ./qgf.db
  qgf replay --db ./qgf.db --game 0190a1b2-...
  qgf replay --db ./qgf.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.GameID, "game", "", "replay specific game only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openExistingStore(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var gameIDs []string
	if opts.GameID != "" {
		gameIDs = []string{opts.GameID}
	} else {
		gameIDs, err = st.ListGameIDs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list games", err)
		}
	}

	result := ReplayResult{
		Games:            make([]ReplayGameResult, 0, len(gameIDs)),
		TotalGames:       len(gameIDs),
		AllDeterministic: true,
	}

	for _, id := range gameIDs {
		formatter.VerboseLog("Replaying game %s", id)
		gameResult, err := replayAndVerifyGame(ctx, st, id)
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error(ErrCodeGameNotFound, fmt.Sprintf("game not found: %s", id), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("game not found: %s", id), err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay game %s", id), err)
		}

		result.Games = append(result.Games, gameResult)
		if !gameResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if !result.AllDeterministic {
		if err := formatter.Failure(ErrCodeNonDeterminism, "replay diverged from the stored log", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "non-deterministic replay detected")
	}
	return formatter.Success(result)
}

// replayAndVerifyGame replays one game twice. The game is deterministic
// when both replays reproduce the stored log and end in the same snapshot.
func replayAndVerifyGame(ctx context.Context, st *store.Store, gameID string) (ReplayGameResult, error) {
	log, err := st.ReadGameLog(ctx, gameID)
	if err != nil {
		return ReplayGameResult{}, err
	}

	first, err := game.Replay(ctx, log.Game, log.Moves)
	if err != nil {
		return ReplayGameResult{}, err
	}
	second, err := game.Replay(ctx, log.Game, log.Moves)
	if err != nil {
		return ReplayGameResult{}, err
	}

	out := ReplayGameResult{
		GameID:        gameID,
		Moves:         len(log.Moves),
		Committed:     log.Committed,
		FinalHash:     first.Final.Hash(),
		Deterministic: true,
	}

	switch {
	case !first.OK():
		out.Deterministic = false
		out.Divergence = first.Divergence.String()
	case !second.OK():
		out.Deterministic = false
		out.Divergence = "second replay: " + second.Divergence.String()
	case first.Final.Hash() != second.Final.Hash():
		out.Deterministic = false
		out.Divergence = fmt.Sprintf("final snapshot differs between replays: %s vs %s",
			shortHash(first.Final.Hash()), shortHash(second.Final.Hash()))
	case first.Committed != log.Committed:
		out.Deterministic = false
		out.Divergence = fmt.Sprintf("replay committed %d move(s), log has %d", first.Committed, log.Committed)
	}
	return out, nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// openExistingStore opens a database that must already exist; store.Open
// alone would create an empty one.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	return store.Open(path)
}
