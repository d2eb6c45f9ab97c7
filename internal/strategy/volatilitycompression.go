package strategy

import "github.com/rickgao/kalshi-backtest/internal/model"

const (
	compressionWindow    = 20
	compressionThreshold = 0.02
	breakoutThreshold    = 0.03
)

// volatilityCompression fades breakouts that follow a stretch of
// unusually tight prices: a YES breakout after compression buys NO and
// vice versa. One trade per hour.
type volatilityCompression struct {
	hist          history
	window        int
	compression   float64
	breakout      float64
	frac          float64
	traded        bool
	wasCompressed bool
}

func newVolatilityCompression(cfg Config) *volatilityCompression {
	return &volatilityCompression{
		window:      compressionWindow,
		compression: compressionThreshold,
		breakout:    breakoutThreshold,
		frac:        cfg.MaxPositionPct,
	}
}

func (s *volatilityCompression) Name() string { return "volatility_compression" }

func (s *volatilityCompression) Reset() {
	s.hist.reset()
	s.traded = false
	s.wasCompressed = false
}

func (s *volatilityCompression) OnMinute(m Minute) { s.hist.push(m) }

func (s *volatilityCompression) DecideTrade(Snapshot) model.TradeIntent {
	if s.traded || s.hist.len() < s.window+2 {
		return model.Hold()
	}

	// Compression is checked on the window ending one minute back so the
	// current minute can be the breakout.
	recent := s.hist.lastN(s.window + 1)
	if s.isCompressed(recent[:len(recent)-1]) {
		s.wasCompressed = true
	}
	if !s.wasCompressed {
		return model.Hold()
	}

	cur := s.hist.at(s.hist.len() - 1)
	prev := s.hist.at(s.hist.len() - 2)

	if cur.YesPrice-prev.YesPrice >= s.breakout {
		s.traded = true
		return intent(model.DirectionNo, s.frac)
	}
	if cur.NoPrice-prev.NoPrice >= s.breakout {
		s.traded = true
		return intent(model.DirectionYes, s.frac)
	}
	return model.Hold()
}

// isCompressed reports whether both sides stayed within the compression
// threshold over the window.
func (s *volatilityCompression) isCompressed(ms []Minute) bool {
	if len(ms) == 0 {
		return false
	}
	yesLo, yesHi := ms[0].YesPrice, ms[0].YesPrice
	noLo, noHi := ms[0].NoPrice, ms[0].NoPrice
	for _, m := range ms[1:] {
		yesLo = min(yesLo, m.YesPrice)
		yesHi = max(yesHi, m.YesPrice)
		noLo = min(noLo, m.NoPrice)
		noHi = max(noHi, m.NoPrice)
	}
	return yesHi-yesLo <= s.compression && noHi-noLo <= s.compression
}
