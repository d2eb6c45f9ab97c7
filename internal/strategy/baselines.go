package strategy

import "github.com/rickgao/kalshi-backtest/internal/model"

// Fixed-bias and inactive baselines for counterfactual comparison.

// alwaysYes buys YES on the first minute of every hour.
type alwaysYes struct {
	seen   bool
	frac   float64
	traded bool
}

func newAlwaysYes(cfg Config) *alwaysYes { return &alwaysYes{frac: cfg.MaxPositionPct} }

func (s *alwaysYes) Name() string { return "always_yes" }

func (s *alwaysYes) Reset() {
	s.seen = false
	s.traded = false
}

func (s *alwaysYes) OnMinute(Minute) { s.seen = true }

func (s *alwaysYes) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || !s.seen {
		return model.Hold()
	}
	s.traded = true
	return intent(model.DirectionYes, s.frac)
}

// alwaysNo buys NO on the first minute of every hour.
type alwaysNo struct {
	seen   bool
	frac   float64
	traded bool
}

func newAlwaysNo(cfg Config) *alwaysNo { return &alwaysNo{frac: cfg.MaxPositionPct} }

func (s *alwaysNo) Name() string { return "always_no" }

func (s *alwaysNo) Reset() {
	s.seen = false
	s.traded = false
}

func (s *alwaysNo) OnMinute(Minute) { s.seen = true }

func (s *alwaysNo) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || !s.seen {
		return model.Hold()
	}
	s.traded = true
	return intent(model.DirectionNo, s.frac)
}

// noTrade never trades. The do-nothing alpha baseline.
type noTrade struct{}

func newNoTrade() *noTrade { return &noTrade{} }

func (*noTrade) Name() string { return "no_trade" }

func (*noTrade) Reset() {}

func (*noTrade) OnMinute(Minute) {}

func (*noTrade) DecideTrade(Snapshot) model.TradeIntent { return model.Hold() }
