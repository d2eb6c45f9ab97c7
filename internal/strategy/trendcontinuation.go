package strategy

import "github.com/rickgao/kalshi-backtest/internal/model"

const (
	trendConfirmationMinutes = 15
	trendMinStrength         = 0.05
)

// trendContinuation waits for a confirmed one-sided trend over the
// confirmation window and enters in its direction. One trade per hour.
type trendContinuation struct {
	hist         history
	confirmation int
	minStrength  float64
	frac         float64
	traded       bool
}

func newTrendContinuation(cfg Config) *trendContinuation {
	return &trendContinuation{
		confirmation: trendConfirmationMinutes,
		minStrength:  trendMinStrength,
		frac:         cfg.MaxPositionPct,
	}
}

func (s *trendContinuation) Name() string { return "trend_continuation" }

func (s *trendContinuation) Reset() {
	s.hist.reset()
	s.traded = false
}

func (s *trendContinuation) OnMinute(m Minute) { s.hist.push(m) }

func (s *trendContinuation) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || s.hist.len() < s.confirmation {
		return model.Hold()
	}

	window := s.hist.lastN(s.confirmation)
	yesTrend := trendStrength(window, func(m Minute) float64 { return m.YesPrice })
	noTrend := trendStrength(window, func(m Minute) float64 { return m.NoPrice })

	if yesTrend >= s.minStrength && yesTrend > noTrend {
		s.traded = true
		return intent(model.DirectionYes, s.frac)
	}
	if noTrend >= s.minStrength && noTrend > yesTrend {
		s.traded = true
		return intent(model.DirectionNo, s.frac)
	}
	return model.Hold()
}

// trendStrength measures the window's net price change relative to its
// average price. Positive values mean an upward trend.
func trendStrength(ms []Minute, price func(Minute) float64) float64 {
	if len(ms) < 2 {
		return 0
	}
	sum := 0.0
	for _, m := range ms {
		sum += price(m)
	}
	avg := sum / float64(len(ms))
	if avg <= 0 {
		return 0
	}
	return (price(ms[len(ms)-1]) - price(ms[0])) / avg
}
