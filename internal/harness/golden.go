package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/qgf/internal/engine"
	"github.com/roach88/qgf/internal/ir"
)

// TraceSnapshot captures the trace and final belief state of a scenario.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string           `json:"scenario_name"`
	GameID       string           `json:"game_id"`
	Trace        []TraceEvent     `json:"trace"`
	Final        *engine.Snapshot `json:"-"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":     event.Seq,
			"asking":  event.Asking,
			"asked":   event.Asked,
			"suit":    event.Suit,
			"accept":  event.Accept,
			"outcome": event.Outcome,
			"turn":    event.Turn,
		}
		if event.Code != "" {
			eventMap["code"] = event.Code
		}
		if event.Message != "" {
			eventMap["message"] = event.Message
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"game_id":       s.GameID,
		"trace":         traceList,
	}
	if s.Final != nil {
		result["final"] = s.Final.Canonical()
	}
	return result
}

func (s *TraceSnapshot) marshal() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// GoldenBytes returns the canonical golden encoding of a scenario result.
func GoldenBytes(scenario *Scenario, result *Result) ([]byte, error) {
	gameID := scenario.GameID
	if gameID == "" {
		gameID = DefaultGameID
	}
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		GameID:       gameID,
		Trace:        result.Trace,
		Final:        result.Final,
	}
	return snapshot.marshal()
}

// RunWithGolden executes a scenario and compares its trace and final
// snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	data, err := GoldenBytes(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		GameID:       DefaultGameID,
		Trace:        result.Trace,
		Final:        result.Final,
	}
	data, err := snapshot.marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
