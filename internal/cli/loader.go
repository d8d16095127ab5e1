package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/qgf/internal/game"
	"github.com/roach88/qgf/internal/ir"
)

//go:embed schema.cue
var setupSchema string

// LoadError represents an error that occurred while loading a setup file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeLoadFailed  = "E004" // File read failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE syntax error

	ErrCodeSchema       = "E101" // Setup does not match #Game
	ErrCodeInvalidSetup = "E102" // Setup matches #Game but cannot be played
	ErrCodeMovesFile    = "E103" // Malformed moves file

	ErrCodeTestFailed     = "E201" // One or more scenarios failed
	ErrCodeNonDeterminism = "E202" // Replay diverged from the stored log
	ErrCodeGameNotFound   = "E203" // No such game in the database
)

// setupFile mirrors #Game for decoding.
type setupFile struct {
	Players        []string `json:"players"`
	CardsPerPlayer int      `json:"cards_per_player"`
	Suits          *int     `json:"suits"`
	Difficulty     *int     `json:"difficulty"`
}

// LoadSetup reads a CUE game setup, validates it against the embedded #Game
// schema and checks that the deck it describes is playable.
//
// defaultDifficulty is used when the file does not set a difficulty.
func LoadSetup(path string, defaultDifficulty int) (ir.GameSetup, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ir.GameSetup{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("setup file not found: %s", path)}
	}
	if err != nil {
		return ir.GameSetup{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading setup file: %v", err)}
	}
	return ParseSetup(data, path, defaultDifficulty)
}

// ParseSetup is LoadSetup on in-memory CUE source. filename labels positions.
func ParseSetup(data []byte, filename string, defaultDifficulty int) (ir.GameSetup, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(setupSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return ir.GameSetup{}, fmt.Errorf("compiling embedded schema: %w", err)
	}
	gameDef := schema.LookupPath(cue.ParsePath("#Game"))

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return ir.GameSetup{}, cueLoadError(ErrCodeBuildFailed, err)
	}

	unified := gameDef.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return ir.GameSetup{}, cueLoadError(ErrCodeSchema, err)
	}

	var file setupFile
	if err := unified.Decode(&file); err != nil {
		return ir.GameSetup{}, cueLoadError(ErrCodeSchema, err)
	}

	setup := ir.GameSetup{
		Names:          file.Players,
		CardsPerPlayer: file.CardsPerPlayer,
		Difficulty:     defaultDifficulty,
	}
	if file.Suits != nil {
		setup.Suits = *file.Suits
	}
	if file.Difficulty != nil {
		setup.Difficulty = *file.Difficulty
	}
	setup = setup.WithDefaults()

	if err := game.ValidateSetup(setup); err != nil {
		return ir.GameSetup{}, &LoadError{Code: ErrCodeInvalidSetup, Message: err.Error()}
	}
	return setup, nil
}

// cueLoadError converts a CUE error to a LoadError at its first position.
func cueLoadError(code string, err error) *LoadError {
	loadErr := &LoadError{Code: code, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		format, args := errs[0].Msg()
		loadErr.Message = fmt.Sprintf(format, args...)
	}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
