package strategy

import (
	"math"

	"github.com/rickgao/kalshi-backtest/internal/model"
)

const (
	filterMinBTCRange      = 50.0 // dollars of BTC movement over the lookback
	filterMaxSpread        = 0.10
	filterLookbackMinutes  = 30
	filterMomentumMinutes  = 5
	filterMomentumMinTotal = 0.01
)

// noTradeFilter only trades when conditions look favorable: enough BTC
// movement over the lookback and a tight quote spread. Past the filters
// it runs a simple net-change momentum signal. One trade per hour.
type noTradeFilter struct {
	hist   history
	frac   float64
	traded bool
}

func newNoTradeFilter(cfg Config) *noTradeFilter {
	return &noTradeFilter{frac: cfg.MaxPositionPct}
}

func (s *noTradeFilter) Name() string { return "no_trade_filter" }

func (s *noTradeFilter) Reset() {
	s.hist.reset()
	s.traded = false
}

func (s *noTradeFilter) OnMinute(m Minute) { s.hist.push(m) }

func (s *noTradeFilter) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || s.hist.len() < filterLookbackMinutes {
		return model.Hold()
	}
	if !s.passesFilters() {
		return model.Hold()
	}

	recent := s.hist.lastN(filterMomentumMinutes)
	yesChange := recent[len(recent)-1].YesPrice - recent[0].YesPrice
	noChange := recent[len(recent)-1].NoPrice - recent[0].NoPrice

	if yesChange >= filterMomentumMinTotal && yesChange > noChange {
		s.traded = true
		return intent(model.DirectionYes, s.frac)
	}
	if noChange >= filterMomentumMinTotal && noChange > yesChange {
		s.traded = true
		return intent(model.DirectionNo, s.frac)
	}
	return model.Hold()
}

func (s *noTradeFilter) passesFilters() bool {
	lookback := s.hist.lastN(filterLookbackMinutes)

	lo, hi := lookback[0].BTCPrice, lookback[0].BTCPrice
	for _, m := range lookback[1:] {
		lo = min(lo, m.BTCPrice)
		hi = max(hi, m.BTCPrice)
	}
	if hi-lo < filterMinBTCRange {
		return false
	}

	cur := s.hist.last()
	return math.Abs(cur.YesPrice+cur.NoPrice-1.0) <= filterMaxSpread
}
