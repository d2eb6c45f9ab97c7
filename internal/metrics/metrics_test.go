package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/engine"
	"github.com/rickgao/kalshi-backtest/internal/model"
)

var testHour = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func realized(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Valid: true, Decimal: d(f)}
}

func sampleResult() *engine.Result {
	return &engine.Result{
		Strategy:       "momentum",
		InitialBalance: d(10000),
		FinalBalance:   d(10100),
		TotalPnL:       d(100),
		Trades: []model.TradeRecord{
			{
				HourStart:   testHour,
				ExecutionTS: testHour.Add(10 * time.Minute),
				RealizedPnL: realized(150),
			},
			{
				HourStart:   testHour.Add(time.Hour),
				ExecutionTS: testHour.Add(time.Hour + 40*time.Minute),
				RealizedPnL: realized(-50),
			},
		},
		Equity: []model.EquityPoint{
			{Timestamp: testHour, Value: d(10000)},
			{Timestamp: testHour.Add(time.Minute), Value: d(10500)},
			{Timestamp: testHour.Add(2 * time.Minute), Value: d(9450)},
			{Timestamp: testHour.Add(3 * time.Minute), Value: d(10100)},
		},
		Hours: []model.HourSummary{
			{HourStart: testHour},
			{HourStart: testHour.Add(time.Hour)},
			{HourStart: testHour.Add(2 * time.Hour), Skipped: true, Reason: "no BTC price at hour start"},
		},
	}
}

func TestCompute(t *testing.T) {
	s := Compute(sampleResult(), time.Hour)

	if !s.TotalPnL.Equal(d(100)) {
		t.Errorf("TotalPnL = %s, want 100", s.TotalPnL)
	}
	if s.ReturnPct != 1 {
		t.Errorf("ReturnPct = %v, want 1", s.ReturnPct)
	}
	if s.TotalTrades != 2 || s.Wins != 1 || s.Losses != 1 {
		t.Errorf("trades/wins/losses = %d/%d/%d, want 2/1/1", s.TotalTrades, s.Wins, s.Losses)
	}
	if s.WinRatePct != 50 {
		t.Errorf("WinRatePct = %v, want 50", s.WinRatePct)
	}
	// (150 - 50) / 2 = 50
	if !s.AvgTradePnL.Equal(d(50)) {
		t.Errorf("AvgTradePnL = %s, want 50", s.AvgTradePnL)
	}
	if !s.AvgWin.Equal(d(150)) || !s.AvgLoss.Equal(d(-50)) {
		t.Errorf("AvgWin/AvgLoss = %s/%s, want 150/-50", s.AvgWin, s.AvgLoss)
	}
	// Durations to resolution: 50 and 20 minutes.
	if s.AvgDurationMin != 35 {
		t.Errorf("AvgDurationMin = %v, want 35", s.AvgDurationMin)
	}
	if s.HoursTraded != 2 {
		t.Errorf("HoursTraded = %d, want 2 with one skip", s.HoursTraded)
	}
	// Peak 10500 to trough 9450: 10%.
	if s.MaxDrawdownPct != 10 {
		t.Errorf("MaxDrawdownPct = %v, want 10", s.MaxDrawdownPct)
	}
}

func TestCompute_NoTrades(t *testing.T) {
	res := &engine.Result{
		Strategy:       "no_trade",
		InitialBalance: d(10000),
		FinalBalance:   d(10000),
	}
	s := Compute(res, time.Hour)

	if s.TotalTrades != 0 || s.WinRatePct != 0 || s.MaxDrawdownPct != 0 {
		t.Errorf("empty run summary = %+v, want all-zero trade stats", s)
	}
}

func TestComparisonTable_SortsByPnLDescending(t *testing.T) {
	a := &engine.Result{Strategy: "a", InitialBalance: d(10000), TotalPnL: d(-20)}
	b := &engine.Result{Strategy: "b", InitialBalance: d(10000), TotalPnL: d(300)}
	c := &engine.Result{Strategy: "c", InitialBalance: d(10000), TotalPnL: d(50)}

	table := ComparisonTable([]*engine.Result{a, b, c}, time.Hour)
	got := []string{table[0].Strategy, table[1].Strategy, table[2].Strategy}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRender(t *testing.T) {
	out := Render(ComparisonTable([]*engine.Result{sampleResult()}, time.Hour))
	if !strings.Contains(out, "momentum") {
		t.Errorf("rendered table missing strategy name:\n%s", out)
	}
	if !strings.Contains(out, "STRATEGY") {
		t.Errorf("rendered table missing header:\n%s", out)
	}
}
