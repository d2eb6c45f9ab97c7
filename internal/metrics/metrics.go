// Package metrics summarizes strategy runs: PnL, win rate, drawdown and
// the cross-strategy comparison table.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/engine"
)

// Summary is the performance report for one strategy run.
type Summary struct {
	Strategy       string
	TotalPnL       decimal.Decimal
	ReturnPct      float64
	FinalBalance   decimal.Decimal
	TotalTrades    int
	Wins           int
	Losses         int
	WinRatePct     float64
	AvgTradePnL    decimal.Decimal
	AvgWin         decimal.Decimal
	AvgLoss        decimal.Decimal
	AvgDurationMin float64 // Minutes from execution to resolution
	MaxDrawdownPct float64
	HoursTraded    int // Hours actually simulated, skips excluded
}

// Compute derives the summary for one run. marketDuration is the
// instrument lifetime, used to measure each trade's time to resolution.
func Compute(res *engine.Result, marketDuration time.Duration) Summary {
	s := Summary{
		Strategy:     res.Strategy,
		TotalPnL:     res.TotalPnL,
		FinalBalance: res.FinalBalance,
		TotalTrades:  len(res.Trades),
	}

	if !res.InitialBalance.IsZero() {
		ret, _ := res.TotalPnL.Div(res.InitialBalance).Float64()
		s.ReturnPct = ret * 100
	}

	for _, h := range res.Hours {
		if !h.Skipped {
			s.HoursTraded++
		}
	}

	var pnlSum, winSum, lossSum decimal.Decimal
	var durationSum float64
	for _, tr := range res.Trades {
		resolution := tr.HourStart.Add(marketDuration)
		durationSum += resolution.Sub(tr.ExecutionTS).Minutes()

		if !tr.RealizedPnL.Valid {
			continue
		}
		pnl := tr.RealizedPnL.Decimal
		pnlSum = pnlSum.Add(pnl)
		switch {
		case pnl.IsPositive():
			s.Wins++
			winSum = winSum.Add(pnl)
		case pnl.IsNegative():
			s.Losses++
			lossSum = lossSum.Add(pnl)
		}
	}

	if s.TotalTrades > 0 {
		n := decimal.NewFromInt(int64(s.TotalTrades))
		s.AvgTradePnL = pnlSum.Div(n).Round(4)
		s.WinRatePct = float64(s.Wins) / float64(s.TotalTrades) * 100
		s.AvgDurationMin = durationSum / float64(s.TotalTrades)
	}
	if s.Wins > 0 {
		s.AvgWin = winSum.Div(decimal.NewFromInt(int64(s.Wins))).Round(4)
	}
	if s.Losses > 0 {
		s.AvgLoss = lossSum.Div(decimal.NewFromInt(int64(s.Losses))).Round(4)
	}

	s.MaxDrawdownPct = maxDrawdown(res)
	return s
}

// ComparisonTable computes summaries for several runs, sorted by total
// PnL descending.
func ComparisonTable(results []*engine.Result, marketDuration time.Duration) []Summary {
	out := make([]Summary, len(results))
	for i, res := range results {
		out[i] = Compute(res, marketDuration)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPnL.GreaterThan(out[j].TotalPnL)
	})
	return out
}

// Render formats summaries as an aligned console table.
func Render(sums []Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %12s %9s %14s %7s %6s %7s %9s %10s %6s\n",
		"STRATEGY", "PNL", "RETURN%", "FINAL", "TRADES", "WINS", "LOSSES", "WINRATE%", "MAXDD%", "HOURS")
	for _, s := range sums {
		fmt.Fprintf(&b, "%-24s %12s %9.2f %14s %7d %6d %7d %9.2f %10.2f %6d\n",
			s.Strategy, s.TotalPnL.StringFixed(2), s.ReturnPct,
			s.FinalBalance.StringFixed(2), s.TotalTrades, s.Wins, s.Losses,
			s.WinRatePct, s.MaxDrawdownPct, s.HoursTraded)
	}
	return b.String()
}

// maxDrawdown measures the worst peak-to-trough equity decline as a
// positive percentage. The initial balance seeds the curve so an
// immediate loss still registers.
func maxDrawdown(res *engine.Result) float64 {
	peak, _ := res.InitialBalance.Float64()
	if peak <= 0 {
		return 0
	}

	worst := 0.0
	for _, pt := range res.Equity {
		v, _ := pt.Value.Float64()
		if v > peak {
			peak = v
			continue
		}
		if dd := (peak - v) / peak * 100; dd > worst {
			worst = dd
		}
	}
	return worst
}
