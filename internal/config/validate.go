package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all values are usable. Any error here is fatal at
// startup: the engine never starts a run with a broken configuration.
func (c *Config) Validate() error {
	if c.Trading.StartingBalance <= 0 {
		return errors.New("trading.starting_balance must be positive")
	}
	if c.Trading.MaxPositionPct < 0 || c.Trading.MaxPositionPct > 1 {
		return fmt.Errorf("trading.max_position_pct must be in [0, 1], got %v", c.Trading.MaxPositionPct)
	}
	if c.Trading.FeePerContract < 0 {
		return errors.New("trading.fee_per_contract must be non-negative")
	}

	if c.Market.StrikeInterval <= 0 {
		return errors.New("market.strike_interval must be positive")
	}
	if c.Market.DurationMinutes <= 0 {
		return errors.New("market.duration_minutes must be positive")
	}
	if c.Market.MinTradePrice <= 0 || c.Market.MaxTradePrice >= 1 ||
		c.Market.MinTradePrice >= c.Market.MaxTradePrice {
		return fmt.Errorf("trade price bounds must satisfy 0 < min < max < 1, got [%v, %v]",
			c.Market.MinTradePrice, c.Market.MaxTradePrice)
	}

	if c.Execution.BidAskSpread < 0 {
		return errors.New("execution.bid_ask_spread must be non-negative")
	}
	if c.Execution.SlippagePer100 < 0 {
		return errors.New("execution.slippage_per_100 must be non-negative")
	}
	if c.Execution.MaxLiquidityPerMinute < 1 {
		return errors.New("execution.max_liquidity_per_minute must be >= 1")
	}
	if c.Execution.LatencyMinutes < 0 {
		return errors.New("execution.latency_minutes must be non-negative")
	}

	if c.Selector.LiquidityThreshold < 0 {
		return errors.New("selector.liquidity_threshold must be non-negative")
	}

	if len(c.Run.Strategies) == 0 {
		return errors.New("run.strategies must name at least one strategy")
	}
	for _, field := range []struct{ name, value string }{
		{"run.start_date", c.Run.StartDate},
		{"run.end_date", c.Run.EndDate},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", field.value); err != nil {
			return fmt.Errorf("%s must be YYYY-MM-DD, got %q", field.name, field.value)
		}
	}

	if c.Data.BTCPrices == "" || c.Data.Markets == "" || c.Data.ContractPrices == "" {
		return errors.New("data paths must all be set")
	}

	return nil
}
