// Package writer exports run results as flat CSV tables: per-trade
// records, the hourly selection log, equity curves, hour summaries and
// the per-strategy metrics summary. One file set per strategy, stamped
// with the run ID.
package writer

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/engine"
	"github.com/rickgao/kalshi-backtest/internal/metrics"
)

// Writer writes result CSVs under a base directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// New creates a Writer rooted at dir. A nil logger falls back to
// slog.Default().
func New(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteResult writes the full file set for one strategy run.
func (w *Writer) WriteResult(res *engine.Result) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	runTag := res.RunID.String()[:8]
	prefix := fmt.Sprintf("%s_%s", res.Strategy, runTag)

	if err := w.writeTrades(filepath.Join(w.dir, prefix+"_trades.csv"), res); err != nil {
		return err
	}
	if err := w.writeSelections(filepath.Join(w.dir, prefix+"_selections.csv"), res); err != nil {
		return err
	}
	if err := w.writeEquity(filepath.Join(w.dir, prefix+"_equity.csv"), res); err != nil {
		return err
	}
	if err := w.writeHours(filepath.Join(w.dir, prefix+"_hours.csv"), res); err != nil {
		return err
	}

	w.logger.Info("results written",
		"strategy", res.Strategy, "dir", w.dir, "run", runTag)
	return nil
}

// WriteSummaries writes the cross-strategy comparison for one run.
func (w *Writer) WriteSummaries(runTag string, sums []metrics.Summary) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(w.dir, fmt.Sprintf("summary_%s.csv", runTag))

	rows := [][]string{{
		"strategy", "total_pnl", "return_pct", "final_balance",
		"total_trades", "wins", "losses", "win_rate_pct",
		"avg_trade_pnl", "avg_win", "avg_loss",
		"avg_duration_min", "max_drawdown_pct", "hours_traded",
	}}
	for _, s := range sums {
		rows = append(rows, []string{
			s.Strategy,
			fmtDec(s.TotalPnL),
			fmtFloat(s.ReturnPct),
			fmtDec(s.FinalBalance),
			strconv.Itoa(s.TotalTrades),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			fmtFloat(s.WinRatePct),
			fmtDec(s.AvgTradePnL),
			fmtDec(s.AvgWin),
			fmtDec(s.AvgLoss),
			fmtFloat(s.AvgDurationMin),
			fmtFloat(s.MaxDrawdownPct),
			strconv.Itoa(s.HoursTraded),
		})
	}
	return writeCSV(path, rows)
}

func (w *Writer) writeTrades(path string, res *engine.Result) error {
	rows := [][]string{{
		"hour_start", "strategy", "strike", "direction",
		"requested_qty", "filled_qty", "fill_price", "fee",
		"decision_ts", "execution_ts", "realized_pnl",
	}}
	for _, tr := range res.Trades {
		realized := ""
		if tr.RealizedPnL.Valid {
			realized = fmtDec(tr.RealizedPnL.Decimal)
		}
		rows = append(rows, []string{
			fmtTime(tr.HourStart),
			tr.Strategy,
			fmtFloat(tr.Strike),
			string(tr.Direction),
			strconv.FormatInt(tr.RequestedQty, 10),
			strconv.FormatInt(tr.FilledQty, 10),
			fmtDec(tr.FillPrice),
			fmtDec(tr.Fee),
			fmtTime(tr.DecisionTS),
			fmtTime(tr.ExecutionTS),
			realized,
		})
	}
	return writeCSV(path, rows)
}

func (w *Writer) writeSelections(path string, res *engine.Result) error {
	rows := [][]string{{
		"hour_start", "btc_spot_price", "selected_strike", "method",
		"avg_spread", "avg_volume_proxy", "price_reaction_score",
		"volatility_estimate", "strikes_considered", "reason",
	}}
	for _, sel := range res.Selections {
		rows = append(rows, []string{
			fmtTime(sel.HourStart),
			fmtFloat(sel.BTCSpotPrice),
			fmtFloat(sel.SelectedStrike),
			sel.Method,
			fmtFloat(sel.AvgSpread),
			fmtFloat(sel.AvgVolumeProxy),
			fmtFloat(sel.PriceReactionScore),
			fmtFloat(sel.VolatilityEstimate),
			strconv.Itoa(sel.StrikesConsidered),
			sel.Reason,
		})
	}
	return writeCSV(path, rows)
}

func (w *Writer) writeEquity(path string, res *engine.Result) error {
	rows := [][]string{{"timestamp", "equity"}}
	for _, pt := range res.Equity {
		rows = append(rows, []string{fmtTime(pt.Timestamp), fmtDec(pt.Value)})
	}
	return writeCSV(path, rows)
}

func (w *Writer) writeHours(path string, res *engine.Result) error {
	rows := [][]string{{
		"hour_start", "strike", "spot_start", "final_price",
		"trade_count", "pnl", "ending_balance", "skipped", "reason",
	}}
	for _, h := range res.Hours {
		rows = append(rows, []string{
			fmtTime(h.HourStart),
			fmtFloat(h.Strike),
			fmtFloat(h.SpotStart),
			fmtFloat(h.FinalPrice),
			strconv.Itoa(h.TradeCount),
			fmtDec(h.PnL),
			fmtDec(h.EndingBalance),
			strconv.FormatBool(h.Skipped),
			h.Reason,
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	cw.Flush()
	return cw.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func fmtDec(d decimal.Decimal) string {
	return d.String()
}
