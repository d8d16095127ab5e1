package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qgf/internal/config"
	"github.com/roach88/qgf/internal/game"
	"github.com/roach88/qgf/internal/ir"
)

// ValidationResult is the resolved setup reported by validate.
type ValidationResult struct {
	Valid        bool         `json:"valid"`
	Setup        ir.GameSetup `json:"setup"`
	CardsPerSuit int          `json:"cards_per_suit"`
}

func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ Setup valid: %d players (%s), %d card(s) each, %d suit(s) of %d, difficulty %d",
		r.Setup.PlayerCount(), strings.Join(r.Setup.Names, ", "),
		r.Setup.CardsPerPlayer, r.Setup.SuitCount(), r.CardsPerSuit, r.Setup.Difficulty)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <setup.cue>",
		Short: "Validate a game setup",
		Long: `Validate a CUE game setup against the #Game schema and check that
the deck it describes divides evenly into suits.

Example setup:
  players: ["Alice", "Bob", "Charlie"]
  cards_per_player: 4
  difficulty: 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	formatter.VerboseLog("Loading setup from %s", path)
	setup, err := LoadSetup(path, config.DefaultDifficulty())
	if err != nil {
		return outputLoadError(formatter, err)
	}

	return formatter.Success(ValidationResult{
		Valid:        true,
		Setup:        setup,
		CardsPerSuit: game.ConfigFor(setup).CardsPerSuit(),
	})
}

// outputLoadError reports a LoadSetup failure and maps it to an exit code.
// A missing file is a command error; anything wrong with its content is a
// validation failure.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load setup", err)
	}

	var details any
	if loadErr.Pos.IsValid() {
		details = map[string]any{
			"file":   loadErr.Pos.Filename(),
			"line":   loadErr.Pos.Line(),
			"column": loadErr.Pos.Column(),
		}
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, details)

	code := ExitFailure
	if loadErr.Code == ErrCodeNotFound || loadErr.Code == ErrCodeLoadFailed {
		code = ExitCommandError
	}
	return WrapExitError(code, loadErr.Code, loadErr)
}
