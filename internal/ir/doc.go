// Package ir provides the canonical value types and record types for qgf.
//
// This package contains type definitions and content-addressing helpers only.
// All other internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - All JSON tags use snake_case
//   - Logical sequence numbers only, never wall-clock timestamps
//   - Canonical JSON (RFC 8785) is the only serialization used for hashing
package ir
