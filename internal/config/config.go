package config

// Config is the root configuration for a backtest run.
type Config struct {
	Run       RunConfig       `yaml:"run"`
	Data      DataConfig      `yaml:"data"`
	Trading   TradingConfig   `yaml:"trading"`
	Market    MarketConfig    `yaml:"market"`
	Execution ExecutionConfig `yaml:"execution"`
	Selector  SelectorConfig  `yaml:"selector"`
	Output    OutputConfig    `yaml:"output"`
}

// RunConfig selects which strategies to run and over which date range.
type RunConfig struct {
	Strategies []string `yaml:"strategies"`
	StartDate  string   `yaml:"start_date"` // YYYY-MM-DD, optional
	EndDate    string   `yaml:"end_date"`   // YYYY-MM-DD, optional
	RandomSeed int64    `yaml:"random_seed"`
}

// DataConfig holds paths to the input CSV tables.
type DataConfig struct {
	BTCPrices      string `yaml:"btc_prices"`
	Markets        string `yaml:"markets"`
	ContractPrices string `yaml:"contract_prices"`
}

// TradingConfig holds portfolio-level parameters.
type TradingConfig struct {
	StartingBalance float64 `yaml:"starting_balance"`
	MaxPositionPct  float64 `yaml:"max_position_pct"` // Cap on the cash fraction per trade
	FeePerContract  float64 `yaml:"fee_per_contract"`
}

// MarketConfig holds instrument-level parameters.
type MarketConfig struct {
	StrikeInterval  float64 `yaml:"strike_interval"`  // Dollar spacing between strikes
	DurationMinutes int     `yaml:"duration_minutes"` // Market lifetime (resolution offset)
	MinTradePrice   float64 `yaml:"min_trade_price"`
	MaxTradePrice   float64 `yaml:"max_trade_price"`
}

// ExecutionConfig holds market microstructure parameters.
type ExecutionConfig struct {
	BidAskSpread          float64 `yaml:"bid_ask_spread"`
	SlippagePer100        float64 `yaml:"slippage_per_100"` // Price impact per 100 contracts
	MaxLiquidityPerMinute int64   `yaml:"max_liquidity_per_minute"`
	LatencyMinutes        int     `yaml:"latency_minutes"`
}

// SelectorConfig holds market-selection parameters.
type SelectorConfig struct {
	LiquidityThreshold float64 `yaml:"liquidity_threshold"` // Min volume proxy to qualify
}

// OutputConfig controls where result CSVs are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}
