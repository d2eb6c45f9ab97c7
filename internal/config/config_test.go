package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backtest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
run:
  strategies: [momentum, always_yes]
  start_date: "2024-01-01"
trading:
  starting_balance: 25000
  max_position_pct: 0.25
execution:
  bid_ask_spread: 0.04
  latency_minutes: 2
data:
  btc_prices: testdata/btc.csv
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Run.Strategies) != 2 || cfg.Run.Strategies[0] != "momentum" {
		t.Errorf("Run.Strategies = %v, want [momentum always_yes]", cfg.Run.Strategies)
	}
	if cfg.Trading.StartingBalance != 25000 {
		t.Errorf("Trading.StartingBalance = %v, want 25000", cfg.Trading.StartingBalance)
	}
	if cfg.Execution.BidAskSpread != 0.04 {
		t.Errorf("Execution.BidAskSpread = %v, want 0.04", cfg.Execution.BidAskSpread)
	}
	if cfg.Execution.LatencyMinutes != 2 {
		t.Errorf("Execution.LatencyMinutes = %d, want 2", cfg.Execution.LatencyMinutes)
	}
	if cfg.Data.BTCPrices != "testdata/btc.csv" {
		t.Errorf("Data.BTCPrices = %q, want testdata/btc.csv", cfg.Data.BTCPrices)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_OUTPUT_DIR", "/tmp/backtest-out")

	yaml := `
output:
  dir: ${TEST_OUTPUT_DIR}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Dir != "/tmp/backtest-out" {
		t.Errorf("Output.Dir = %q, want /tmp/backtest-out", cfg.Output.Dir)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "run:\n  strategies: [no_trade]\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Trading.StartingBalance != DefaultStartingBalance {
		t.Errorf("StartingBalance = %v, want %v", cfg.Trading.StartingBalance, DefaultStartingBalance)
	}
	if cfg.Market.StrikeInterval != DefaultStrikeInterval {
		t.Errorf("StrikeInterval = %v, want %v", cfg.Market.StrikeInterval, DefaultStrikeInterval)
	}
	if cfg.Execution.BidAskSpread != DefaultBidAskSpread {
		t.Errorf("BidAskSpread = %v, want %v", cfg.Execution.BidAskSpread, DefaultBidAskSpread)
	}
	if cfg.Execution.MaxLiquidityPerMinute != DefaultMaxLiquidityPerMin {
		t.Errorf("MaxLiquidityPerMinute = %v, want %v", cfg.Execution.MaxLiquidityPerMinute, DefaultMaxLiquidityPerMin)
	}
	if cfg.Output.Dir != DefaultOutputDir {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, DefaultOutputDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero balance", func(c *Config) { c.Trading.StartingBalance = 0 }, "starting_balance"},
		{"negative balance", func(c *Config) { c.Trading.StartingBalance = -5 }, "starting_balance"},
		{"position pct too high", func(c *Config) { c.Trading.MaxPositionPct = 1.5 }, "max_position_pct"},
		{"negative fee", func(c *Config) { c.Trading.FeePerContract = -0.01 }, "fee_per_contract"},
		{"zero interval", func(c *Config) { c.Market.StrikeInterval = 0 }, "strike_interval"},
		{"inverted price bounds", func(c *Config) {
			c.Market.MinTradePrice = 0.99
			c.Market.MaxTradePrice = 0.01
		}, "price bounds"},
		{"negative spread", func(c *Config) { c.Execution.BidAskSpread = -0.02 }, "bid_ask_spread"},
		{"negative slippage", func(c *Config) { c.Execution.SlippagePer100 = -1 }, "slippage_per_100"},
		{"zero liquidity", func(c *Config) { c.Execution.MaxLiquidityPerMinute = 0 }, "max_liquidity_per_minute"},
		{"negative latency", func(c *Config) { c.Execution.LatencyMinutes = -1 }, "latency_minutes"},
		{"no strategies", func(c *Config) { c.Run.Strategies = nil }, "strategies"},
		{"bad start date", func(c *Config) { c.Run.StartDate = "Jan 1 2024" }, "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAndValidate_BadConfig(t *testing.T) {
	path := writeTempFile(t, "trading:\n  starting_balance: -100\n")

	if _, err := LoadAndValidate(path); err == nil {
		t.Fatal("LoadAndValidate should reject a negative starting balance")
	}
}
