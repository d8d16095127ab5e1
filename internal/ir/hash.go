package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm change.
const (
	DomainSnapshot = "qgf/snapshot/v1"
	DomainMove     = "qgf/move/v1"
	DomainSetup    = "qgf/setup/v1"
)

// hashWithDomain computes SHA-256(domain || 0x00 || data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SnapshotHash computes the content hash of a canonical snapshot object.
// Two snapshots hash equal iff their canonical forms are byte-identical.
func SnapshotHash(snapshot IRObject) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MoveID computes the content-addressed ID of an attempted move.
// The ID covers what was asked and answered, not what the engine concluded,
// so a replay of the same log reproduces the same IDs.
func MoveID(gameID string, seq int64, asking, asked, suit int64, accept bool) (string, error) {
	obj := IRObject{
		"game_id": IRString(gameID),
		"seq":     IRInt(seq),
		"asking":  IRInt(asking),
		"asked":   IRInt(asked),
		"suit":    IRInt(suit),
		"accept":  IRBool(accept),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("MoveID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMove, canonical), nil
}

// SetupHash computes the content hash of a game setup.
func SetupHash(setup GameSetup) (string, error) {
	canonical, err := MarshalCanonical(setup.Canonical())
	if err != nil {
		return "", fmt.Errorf("SetupHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSetup, canonical), nil
}

// MustSnapshotHash is like SnapshotHash but panics on error.
// Use only when the object is known to contain IR values only.
func MustSnapshotHash(snapshot IRObject) string {
	h, err := SnapshotHash(snapshot)
	if err != nil {
		panic(err)
	}
	return h
}

// MustMoveID is like MoveID but panics on error.
func MustMoveID(gameID string, seq int64, asking, asked, suit int64, accept bool) string {
	id, err := MoveID(gameID, seq, asking, asked, suit, accept)
	if err != nil {
		panic(err)
	}
	return id
}
