package strategy

import "github.com/rickgao/kalshi-backtest/internal/model"

const (
	openingWindowMinutes = 10
	openingMinIncrease   = 0.02
)

// openingAuction trades only during the first minutes of the hour, in the
// direction of early one-sided momentum measured from the hour's first
// quote. Equal momentum on both sides is ambiguous and is not traded.
type openingAuction struct {
	hist        history
	window      float64 // minutes
	minIncrease float64
	frac        float64
	traded      bool
}

func newOpeningAuction(cfg Config) *openingAuction {
	return &openingAuction{
		window:      openingWindowMinutes,
		minIncrease: openingMinIncrease,
		frac:        cfg.MaxPositionPct,
	}
}

func (s *openingAuction) Name() string { return "opening_auction" }

func (s *openingAuction) Reset() {
	s.hist.reset()
	s.traded = false
}

func (s *openingAuction) OnMinute(m Minute) { s.hist.push(m) }

func (s *openingAuction) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || s.hist.len() < 2 {
		return model.Hold()
	}

	first := s.hist.at(0)
	cur := s.hist.last()
	if cur.Timestamp.Sub(first.Timestamp).Minutes() > s.window {
		return model.Hold()
	}

	yesChange := cur.YesPrice - first.YesPrice
	noChange := cur.NoPrice - first.NoPrice

	// Both sides moving up by the same amount is noise, not a signal.
	if yesChange >= s.minIncrease && noChange >= s.minIncrease && yesChange == noChange {
		return model.Hold()
	}

	if yesChange >= s.minIncrease && yesChange > noChange && noChange < s.minIncrease {
		s.traded = true
		return intent(model.DirectionYes, s.frac)
	}
	if noChange >= s.minIncrease && noChange > yesChange && yesChange < s.minIncrease {
		s.traded = true
		return intent(model.DirectionNo, s.frac)
	}
	return model.Hold()
}
