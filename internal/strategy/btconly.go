package strategy

import "github.com/rickgao/kalshi-backtest/internal/model"

const btcOnlyLookback = 3

// btcOnly ignores contract prices entirely: a consistently rising BTC
// price buys YES, a consistently falling one buys NO. One trade per hour.
type btcOnly struct {
	hist     history
	lookback int
	frac     float64
	traded   bool
}

func newBTCOnly(cfg Config) *btcOnly {
	return &btcOnly{lookback: btcOnlyLookback, frac: cfg.MaxPositionPct}
}

func (s *btcOnly) Name() string { return "btc_only" }

func (s *btcOnly) Reset() {
	s.hist.reset()
	s.traded = false
}

func (s *btcOnly) OnMinute(m Minute) { s.hist.push(m) }

func (s *btcOnly) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || s.hist.len() <= s.lookback {
		return model.Hold()
	}

	recent := s.hist.lastN(s.lookback + 1)
	btc := func(m Minute) float64 { return m.BTCPrice }

	if rising(recent, btc) {
		s.traded = true
		return intent(model.DirectionYes, s.frac)
	}
	if falling(recent, btc) {
		s.traded = true
		return intent(model.DirectionNo, s.frac)
	}
	return model.Hold()
}

// falling reports whether the extracted series strictly decreased at
// every step.
func falling(ms []Minute, price func(Minute) float64) bool {
	for i := 1; i < len(ms); i++ {
		if price(ms[i]) >= price(ms[i-1]) {
			return false
		}
	}
	return true
}
