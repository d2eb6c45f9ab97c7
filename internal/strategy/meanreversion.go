package strategy

import "github.com/rickgao/kalshi-backtest/internal/model"

const (
	meanReversionWindow    = 10
	meanReversionThreshold = 0.05
)

// meanReversion fades extremes: when one side trades above its rolling
// mean by more than the threshold, it buys the other side. Unlike the
// momentum family it may trade repeatedly within an hour; the portfolio's
// single-direction rule bounds the exposure.
type meanReversion struct {
	hist      history
	window    int
	threshold float64
	frac      float64
}

func newMeanReversion(cfg Config) *meanReversion {
	return &meanReversion{
		window:    meanReversionWindow,
		threshold: meanReversionThreshold,
		frac:      cfg.MaxPositionPct,
	}
}

func (s *meanReversion) Name() string { return "mean_reversion" }

func (s *meanReversion) Reset() { s.hist.reset() }

func (s *meanReversion) OnMinute(m Minute) { s.hist.push(m) }

func (s *meanReversion) DecideTrade(Snapshot) model.TradeIntent {
	if s.hist.len() < s.window {
		return model.Hold()
	}

	recent := s.hist.lastN(s.window)
	var yesSum, noSum float64
	for _, m := range recent {
		yesSum += m.YesPrice
		noSum += m.NoPrice
	}
	yesMean := yesSum / float64(len(recent))
	noMean := noSum / float64(len(recent))

	cur := s.hist.last()
	if cur.YesPrice > yesMean+s.threshold {
		return intent(model.DirectionNo, s.frac)
	}
	if cur.NoPrice > noMean+s.threshold {
		return intent(model.DirectionYes, s.frac)
	}
	return model.Hold()
}
