package strategy

import "github.com/rickgao/kalshi-backtest/internal/model"

const momentumLookback = 3

// momentum buys the side whose price has risen for a fixed number of
// consecutive minutes. One trade per hour.
type momentum struct {
	hist     history
	lookback int
	frac     float64
	traded   bool
}

func newMomentum(cfg Config) *momentum {
	return &momentum{lookback: momentumLookback, frac: cfg.MaxPositionPct}
}

func (s *momentum) Name() string { return "momentum" }

func (s *momentum) Reset() {
	s.hist.reset()
	s.traded = false
}

func (s *momentum) OnMinute(m Minute) { s.hist.push(m) }

func (s *momentum) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || s.hist.len() <= s.lookback {
		return model.Hold()
	}

	recent := s.hist.lastN(s.lookback + 1)
	if rising(recent, func(m Minute) float64 { return m.YesPrice }) {
		s.traded = true
		return intent(model.DirectionYes, s.frac)
	}
	if rising(recent, func(m Minute) float64 { return m.NoPrice }) {
		s.traded = true
		return intent(model.DirectionNo, s.frac)
	}
	return model.Hold()
}

// rising reports whether the extracted series strictly increased at every
// step.
func rising(ms []Minute, price func(Minute) float64) bool {
	for i := 1; i < len(ms); i++ {
		if price(ms[i]) <= price(ms[i-1]) {
			return false
		}
	}
	return true
}
