package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/qgf/internal/engine"
	"github.com/roach88/qgf/internal/game"
	"github.com/roach88/qgf/internal/ir"
	"github.com/roach88/qgf/internal/store"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a fixed game ID.
// Rule violations are not run errors: they are compared against the move's
// expect clause. An error is returned only for infrastructure failures or
// an unplayable setup.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	gameID := scenario.GameID
	if gameID == "" {
		gameID = DefaultGameID
	}

	ctx := context.Background()
	g, err := game.New(ctx, scenario.Setup.GameSetup(),
		game.WithIDGenerator(game.NewFixedGenerator(gameID)),
		game.WithRecorder(st),
		game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Moves {
		outcome, err := playStep(ctx, g, step)
		if err != nil {
			return nil, fmt.Errorf("moves[%d]: %w", i, err)
		}
		checkExpect(result, i, step, outcome)
	}

	moves, err := st.ReadMoves(ctx, g.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	for _, m := range moves {
		result.Trace = append(result.Trace, traceEventFromMove(m))
	}
	result.Final = g.Current()

	for _, msg := range EvaluateAssertions(result.Final, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// stepOutcome is what actually happened to one move.
type stepOutcome struct {
	outcome string
	err     error
}

func playStep(ctx context.Context, g *game.Game, step MoveStep) (stepOutcome, error) {
	req := engine.Request{
		Asking: engine.Player(step.Ask.Asking),
		Asked:  engine.Player(step.Ask.Asked),
		Suit:   engine.Suit(step.Ask.Suit),
	}

	if err := g.Ask(ctx, req); err != nil {
		if !engine.IsRuleError(err) {
			return stepOutcome{}, err
		}
		return stepOutcome{outcome: ir.OutcomeRequestRejected, err: err}, nil
	}

	if step.Answer == nil {
		// Ask-only steps must expect a rejected request; nothing to answer.
		g.Cancel()
		return stepOutcome{outcome: "request_accepted"}, nil
	}

	if _, err := g.Answer(ctx, *step.Answer); err != nil {
		if !engine.IsRuleError(err) {
			return stepOutcome{}, err
		}
		return stepOutcome{outcome: ir.OutcomeResponseRejected, err: err}, nil
	}
	return stepOutcome{outcome: ir.OutcomeCommitted}, nil
}

func checkExpect(result *Result, index int, step MoveStep, got stepOutcome) {
	want := ir.OutcomeCommitted
	if step.Expect != nil {
		want = step.Expect.Outcome
	}

	if got.outcome != want {
		msg := fmt.Sprintf("moves[%d]: expected outcome %s, got %s", index, want, got.outcome)
		if got.err != nil {
			msg += ": " + got.err.Error()
		}
		result.AddError(msg)
		return
	}
	if step.Expect == nil || got.err == nil {
		return
	}

	if step.Expect.Code != "" {
		if code := string(engine.ErrorCode(got.err)); code != step.Expect.Code {
			result.AddError(fmt.Sprintf("moves[%d]: expected code %s, got %s", index, step.Expect.Code, code))
		}
	}
	if step.Expect.MessageContains != "" {
		var re *engine.RuleError
		msg := got.err.Error()
		if errors.As(got.err, &re) {
			msg = re.Message
		}
		if !strings.Contains(msg, step.Expect.MessageContains) {
			result.AddError(fmt.Sprintf("moves[%d]: expected message containing %q, got %q",
				index, step.Expect.MessageContains, msg))
		}
	}
}
