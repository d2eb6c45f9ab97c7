package config

// Default values for optional configuration fields. Trading and
// microstructure defaults match the Kalshi hourly BTC contract terms.
const (
	DefaultStartingBalance    = 10000.0
	DefaultMaxPositionPct     = 0.1
	DefaultFeePerContract     = 0.0
	DefaultStrikeInterval     = 250.0
	DefaultDurationMinutes    = 60
	DefaultMinTradePrice      = 0.01
	DefaultMaxTradePrice      = 0.99
	DefaultBidAskSpread       = 0.02
	DefaultSlippagePer100     = 0.01
	DefaultMaxLiquidityPerMin = 500
	DefaultLatencyMinutes     = 1
	DefaultLiquidityThreshold = 0.01
	DefaultRandomSeed         = 42
	DefaultOutputDir          = "out"
	DefaultBTCPricesPath      = "data/btc_prices_minute.csv"
	DefaultMarketsPath        = "data/kalshi_markets.csv"
	DefaultContractPricesPath = "data/kalshi_contract_prices.csv"
)

func (c *Config) applyDefaults() {
	// Run defaults
	if len(c.Run.Strategies) == 0 {
		c.Run.Strategies = []string{"no_trade", "momentum", "mean_reversion"}
	}
	if c.Run.RandomSeed == 0 {
		c.Run.RandomSeed = DefaultRandomSeed
	}

	// Data defaults
	if c.Data.BTCPrices == "" {
		c.Data.BTCPrices = DefaultBTCPricesPath
	}
	if c.Data.Markets == "" {
		c.Data.Markets = DefaultMarketsPath
	}
	if c.Data.ContractPrices == "" {
		c.Data.ContractPrices = DefaultContractPricesPath
	}

	// Trading defaults
	if c.Trading.StartingBalance == 0 {
		c.Trading.StartingBalance = DefaultStartingBalance
	}
	if c.Trading.MaxPositionPct == 0 {
		c.Trading.MaxPositionPct = DefaultMaxPositionPct
	}

	// Market defaults
	if c.Market.StrikeInterval == 0 {
		c.Market.StrikeInterval = DefaultStrikeInterval
	}
	if c.Market.DurationMinutes == 0 {
		c.Market.DurationMinutes = DefaultDurationMinutes
	}
	if c.Market.MinTradePrice == 0 {
		c.Market.MinTradePrice = DefaultMinTradePrice
	}
	if c.Market.MaxTradePrice == 0 {
		c.Market.MaxTradePrice = DefaultMaxTradePrice
	}

	// Execution defaults. A frictionless run (zero spread, slippage and
	// latency) is configured by constructing the Config explicitly rather
	// than through a YAML file, where zero means "unset".
	if c.Execution.BidAskSpread == 0 {
		c.Execution.BidAskSpread = DefaultBidAskSpread
	}
	if c.Execution.SlippagePer100 == 0 {
		c.Execution.SlippagePer100 = DefaultSlippagePer100
	}
	if c.Execution.MaxLiquidityPerMinute == 0 {
		c.Execution.MaxLiquidityPerMinute = DefaultMaxLiquidityPerMin
	}
	if c.Execution.LatencyMinutes == 0 {
		c.Execution.LatencyMinutes = DefaultLatencyMinutes
	}

	// Selector defaults
	if c.Selector.LiquidityThreshold == 0 {
		c.Selector.LiquidityThreshold = DefaultLiquidityThreshold
	}

	// Output defaults
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
}
