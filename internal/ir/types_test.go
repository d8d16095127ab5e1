package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSetupWithDefaults(t *testing.T) {
	names := []string{"Alice", "Bob", "Charlie"}
	s := GameSetup{Names: names}.WithDefaults()

	assert.Equal(t, DefaultCardsPerPlayer, s.CardsPerPlayer)
	assert.Equal(t, 3, s.Suits)
	assert.Equal(t, 3, s.PlayerCount())

	s.Names[0] = "Zed"
	assert.Equal(t, "Alice", names[0], "WithDefaults must copy names")

	kept := GameSetup{Names: names, CardsPerPlayer: 2, Suits: 5}.WithDefaults()
	assert.Equal(t, 2, kept.CardsPerPlayer)
	assert.Equal(t, 5, kept.Suits)
}

func TestGameSetupSuitCount(t *testing.T) {
	assert.Equal(t, 2, GameSetup{Names: []string{"a", "b"}}.SuitCount())
	assert.Equal(t, 6, GameSetup{Names: []string{"a", "b"}, Suits: 6}.SuitCount())
}

func TestGameSetupCanonical(t *testing.T) {
	s := GameSetup{Names: []string{"Alice", "Bob"}, CardsPerPlayer: 4, Difficulty: 3}

	out, err := MarshalCanonical(s.Canonical())
	require.NoError(t, err)
	assert.Equal(t, `{"cards_per_player":4,"difficulty":3,"names":["Alice","Bob"],"suits":2}`, string(out))
}

func TestGameSetupJSONNames(t *testing.T) {
	data, err := json.Marshal(GameSetup{Names: []string{"Alice"}, CardsPerPlayer: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"names":["Alice"],"cards_per_player":1,"difficulty":0}`, string(data))
}

func TestMoveCommitted(t *testing.T) {
	assert.True(t, Move{Outcome: OutcomeCommitted}.Committed())
	assert.False(t, Move{Outcome: OutcomeRequestRejected}.Committed())
	assert.False(t, Move{Outcome: OutcomeResponseRejected}.Committed())
}

func TestMoveJSONOmitsEmptyError(t *testing.T) {
	m := Move{ID: "m1", GameID: "g1", Seq: 1, Asking: 0, Asked: 1, Suit: 0, Accept: true, Outcome: OutcomeCommitted, Turn: 1, SnapshotHash: "abc"}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "error_code")
	assert.NotContains(t, string(data), "message")

	m.Outcome = OutcomeResponseRejected
	m.ErrorCode = "PARADOX"
	m.Message = "no consistent deal"
	data, err = json.Marshal(m)
	require.NoError(t, err)

	var back Move
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestGameRecordJSON(t *testing.T) {
	rec := GameRecord{
		ID:            "g1",
		Setup:         GameSetup{Names: []string{"Alice", "Bob"}, CardsPerPlayer: 4, Suits: 2},
		SetupHash:     "hash",
		EngineVersion: EngineVersion,
		IRVersion:     IRVersion,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"setup_hash":"hash"`)
	assert.Contains(t, string(data), `"engine_version":"0.1.0"`)
	assert.Contains(t, string(data), `"ir_version":"1"`)
}
