// Package testutil holds shared assertions for belief-state tests.
package testutil
