package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/qgf/internal/ir"
)

// marshalSetup converts a GameSetup to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so the stored text hashes like SetupHash.
func marshalSetup(setup ir.GameSetup) (string, error) {
	data, err := ir.MarshalCanonical(setup.Canonical())
	if err != nil {
		return "", fmt.Errorf("marshal setup: %w", err)
	}
	return string(data), nil
}

// unmarshalSetup parses stored setup TEXT back into a GameSetup.
func unmarshalSetup(data string) (ir.GameSetup, error) {
	var setup ir.GameSetup
	if err := json.Unmarshal([]byte(data), &setup); err != nil {
		return ir.GameSetup{}, fmt.Errorf("unmarshal setup: %w", err)
	}
	return setup, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
