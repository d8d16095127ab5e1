package ir

// Difficulty bounds. The difficulty only gates what a view displays;
// deduction always runs at full strength.
const (
	MinDifficulty = 0
	MaxDifficulty = 3
)

// DefaultCardsPerPlayer is the hand size used when a setup leaves it unset.
const DefaultCardsPerPlayer = 4

// GameSetup describes a game before the first move.
// Player count is len(Names). Suits defaults to the player count.
type GameSetup struct {
	Names          []string `json:"names"`
	CardsPerPlayer int      `json:"cards_per_player"`
	Suits          int      `json:"suits,omitempty"`
	Difficulty     int      `json:"difficulty"`
}

// PlayerCount returns the number of seated players.
func (s GameSetup) PlayerCount() int {
	return len(s.Names)
}

// SuitCount returns the configured suit count, defaulting to one suit per player.
func (s GameSetup) SuitCount() int {
	if s.Suits > 0 {
		return s.Suits
	}
	return len(s.Names)
}

// WithDefaults returns a copy with zero-valued fields filled in.
func (s GameSetup) WithDefaults() GameSetup {
	out := s
	out.Names = append([]string(nil), s.Names...)
	if out.CardsPerPlayer == 0 {
		out.CardsPerPlayer = DefaultCardsPerPlayer
	}
	if out.Suits == 0 {
		out.Suits = len(out.Names)
	}
	return out
}

// Canonical returns the setup as an IRObject for hashing and storage.
func (s GameSetup) Canonical() IRObject {
	return IRObject{
		"names":            StringArray(s.Names),
		"cards_per_player": IRInt(s.CardsPerPlayer),
		"suits":            IRInt(s.SuitCount()),
		"difficulty":       IRInt(s.Difficulty),
	}
}

// Outcome values recorded for every attempted move.
const (
	OutcomeCommitted        = "committed"
	OutcomeRequestRejected  = "request_rejected"
	OutcomeResponseRejected = "response_rejected"
)

// Move is the persisted record of one attempted request/response pair.
//
// Seq numbers every attempt, including rejected ones. Turn is the turn
// counter of the snapshot that was authoritative after the attempt, and
// SnapshotHash is that snapshot's content hash, so a rejected move carries
// the hash of the unchanged pre-move snapshot.
type Move struct {
	ID           string `json:"id"`
	GameID       string `json:"game_id"`
	Seq          int64  `json:"seq"`
	Asking       int64  `json:"asking"`
	Asked        int64  `json:"asked"`
	Suit         int64  `json:"suit"`
	Accept       bool   `json:"accept"`
	Outcome      string `json:"outcome"`
	ErrorCode    string `json:"error_code,omitempty"`
	Message      string `json:"message,omitempty"`
	Turn         int64  `json:"turn"`
	SnapshotHash string `json:"snapshot_hash"`
}

// Committed reports whether the move advanced the game.
func (m Move) Committed() bool {
	return m.Outcome == OutcomeCommitted
}

// GameRecord is the persisted header of one game.
type GameRecord struct {
	ID            string    `json:"id"`
	Setup         GameSetup `json:"setup"`
	SetupHash     string    `json:"setup_hash"`
	EngineVersion string    `json:"engine_version"`
	IRVersion     string    `json:"ir_version"`
}
