package strategy

import (
	"math/rand"

	"github.com/rickgao/kalshi-backtest/internal/model"
)

// random picks YES, NO or hold uniformly on the first minute of each
// hour. The generator is reseeded on every Reset so replays with the same
// seed produce identical decisions regardless of how many hours ran.
type random struct {
	seed   int64
	rng    *rand.Rand
	frac   float64
	seen   bool
	traded bool
}

func newRandom(cfg Config) *random {
	return &random{
		seed: cfg.Seed,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
		frac: cfg.MaxPositionPct,
	}
}

func (s *random) Name() string { return "random" }

func (s *random) Reset() {
	s.seen = false
	s.traded = false
	s.rng = rand.New(rand.NewSource(s.seed))
}

func (s *random) OnMinute(Minute) { s.seen = true }

func (s *random) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || !s.seen {
		return model.Hold()
	}
	s.traded = true

	switch s.rng.Intn(3) {
	case 0:
		return intent(model.DirectionYes, s.frac)
	case 1:
		return intent(model.DirectionNo, s.frac)
	}
	// A hold draw still counts as this hour's action.
	return model.Hold()
}
