package strategy

import (
	"fmt"
	"time"

	"github.com/rickgao/kalshi-backtest/internal/model"
)

// Minute is one minute of market state for the selected instrument.
type Minute struct {
	Timestamp time.Time
	BTCPrice  float64
	YesPrice  float64
	NoPrice   float64
}

// Snapshot is the portfolio view a strategy may consult when deciding.
type Snapshot struct {
	Cash        float64
	HasPosition bool
	Direction   model.Direction // Direction of the open position, if any
}

// Strategy is the per-minute decision contract. OnMinute is called for
// every minute in timestamp order, DecideTrade immediately after each
// OnMinute. Reset is called at every hour boundary.
type Strategy interface {
	Name() string
	Reset()
	OnMinute(m Minute)
	DecideTrade(snap Snapshot) model.TradeIntent
}

// Config carries the knobs shared by all strategies.
type Config struct {
	MaxPositionPct float64 // Fraction of cash per trade
	Seed           int64   // Seed for randomized strategies
}

// New constructs a strategy by its registered name.
func New(name string, cfg Config) (Strategy, error) {
	switch name {
	case "momentum":
		return newMomentum(cfg), nil
	case "mean_reversion":
		return newMeanReversion(cfg), nil
	case "opening_auction":
		return newOpeningAuction(cfg), nil
	case "trend_continuation":
		return newTrendContinuation(cfg), nil
	case "volatility_compression":
		return newVolatilityCompression(cfg), nil
	case "no_trade_filter":
		return newNoTradeFilter(cfg), nil
	case "always_yes":
		return newAlwaysYes(cfg), nil
	case "always_no":
		return newAlwaysNo(cfg), nil
	case "no_trade":
		return newNoTrade(), nil
	case "random":
		return newRandom(cfg), nil
	case "btc_only":
		return newBTCOnly(cfg), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// Names returns the registered strategy names.
func Names() []string {
	return []string{
		"momentum",
		"mean_reversion",
		"opening_auction",
		"trend_continuation",
		"volatility_compression",
		"no_trade_filter",
		"always_yes",
		"always_no",
		"no_trade",
		"random",
		"btc_only",
	}
}

func intent(dir model.Direction, frac float64) model.TradeIntent {
	return model.TradeIntent{Direction: dir, SizeFraction: frac}
}
