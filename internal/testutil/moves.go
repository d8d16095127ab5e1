package testutil

import (
	"math/rand"

	"github.com/roach88/qgf/internal/engine"
)

// RandomMoves returns n pseudo-random responses for cfg from a fixed seed.
//
// The moves are not guaranteed to be legal; callers feed them through the
// engine and skip the rejected ones. Players never ask themselves.
func RandomMoves(seed int64, cfg engine.Config, n int) []engine.Response {
	rng := rand.New(rand.NewSource(seed))
	moves := make([]engine.Response, n)
	for i := range moves {
		asking := engine.Player(rng.Intn(cfg.Players))
		asked := engine.Player(rng.Intn(cfg.Players - 1))
		if asked >= asking {
			asked++
		}
		moves[i] = engine.Response{
			Request: engine.Request{
				Asking: asking,
				Asked:  asked,
				Suit:   engine.Suit(rng.Intn(cfg.Suits)),
			},
			Accept: rng.Intn(2) == 0,
		}
	}
	return moves
}
