package engine

import "fmt"

// passQuota bounds the number of propagation passes for one transition.
//
// Every firing of the closure strictly lowers the total unknown count, so a
// well-formed closure finishes within passBudget passes. Exceeding the quota
// means a rule fired without making progress.
type passQuota struct {
	maxPasses int
	current   int
}

func newPassQuota(maxPasses int) *passQuota {
	return &passQuota{maxPasses: maxPasses}
}

// passBudget is the pass limit for cfg: one firing per card that can move
// from unknown to known, one slack pass per player, and the final quiet pass.
func passBudget(cfg Config) int {
	return cfg.Players*cfg.CardsPerPlayer + cfg.Players + 1
}

// check counts one pass and reports an error once the quota is exceeded.
func (q *passQuota) check() error {
	q.current++
	if q.current > q.maxPasses {
		return &passesExceededError{Passes: q.current, Limit: q.maxPasses}
	}
	return nil
}

type passesExceededError struct {
	Passes int
	Limit  int
}

func (e *passesExceededError) Error() string {
	return fmt.Sprintf("propagation did not converge: %d passes > %d limit", e.Passes, e.Limit)
}
