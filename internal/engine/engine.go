package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/config"
	"github.com/rickgao/kalshi-backtest/internal/data"
	"github.com/rickgao/kalshi-backtest/internal/execution"
	"github.com/rickgao/kalshi-backtest/internal/model"
	"github.com/rickgao/kalshi-backtest/internal/portfolio"
	"github.com/rickgao/kalshi-backtest/internal/selector"
	"github.com/rickgao/kalshi-backtest/internal/strategy"
)

// Result is the full output of one strategy's replay.
type Result struct {
	RunID          uuid.UUID
	Strategy       string
	InitialBalance decimal.Decimal
	FinalBalance   decimal.Decimal
	TotalPnL       decimal.Decimal
	Trades         []model.TradeRecord
	Selections     []model.SelectionRecord
	Equity         []model.EquityPoint
	Hours          []model.HourSummary
}

// Engine replays the dataset for one strategy at a time. The dataset is
// shared read-only; all mutable run state lives in per-run values.
type Engine struct {
	cfg    config.Config
	ds     *data.Dataset
	sel    *selector.Selector
	logger *slog.Logger
}

// New creates an Engine over a loaded dataset. A nil logger falls back
// to slog.Default().
func New(cfg config.Config, ds *data.Dataset, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		ds:     ds,
		sel:    selector.New(cfg.Selector, logger),
		logger: logger,
	}
}

// pendingOrder is a strategy decision waiting out the latency delay.
// It is priced at execution time, not decision time.
type pendingOrder struct {
	decisionTS  time.Time
	executionTS time.Time
	direction   model.Direction
	fraction    float64
}

// runState is the mutable state of one strategy replay.
type runState struct {
	strat  strategy.Strategy
	pf     *portfolio.Portfolio
	exec   *execution.Model
	result *Result
}

// Run replays every loaded hour for one strategy.
func (e *Engine) Run(runID uuid.UUID, strat strategy.Strategy) *Result {
	startBal := decimal.NewFromFloat(e.cfg.Trading.StartingBalance)
	fee := decimal.NewFromFloat(e.cfg.Trading.FeePerContract)

	st := &runState{
		strat: strat,
		pf:    portfolio.New(startBal, fee, e.logger),
		exec:  execution.New(e.cfg.Execution, e.cfg.Market, e.logger),
		result: &Result{
			RunID:          runID,
			Strategy:       strat.Name(),
			InitialBalance: startBal,
		},
	}

	for _, hourStart := range e.ds.Hours() {
		e.runHour(st, hourStart)
	}

	st.result.FinalBalance = st.pf.Cash()
	st.result.TotalPnL = st.pf.TotalPnL()
	st.result.Equity = st.pf.Equity()

	e.logger.Info("strategy run complete",
		"strategy", strat.Name(),
		"final_balance", st.result.FinalBalance,
		"pnl", st.result.TotalPnL,
		"trades", len(st.result.Trades))
	return st.result
}

// RunAll replays every named strategy concurrently. Each strategy gets
// its own portfolio, execution model and strategy instance; only the
// dataset is shared. Results come back in input order.
func (e *Engine) RunAll(names []string) ([]*Result, error) {
	strats := make([]strategy.Strategy, len(names))
	for i, name := range names {
		s, err := strategy.New(name, strategy.Config{
			MaxPositionPct: e.cfg.Trading.MaxPositionPct,
			Seed:           e.cfg.Run.RandomSeed,
		})
		if err != nil {
			return nil, fmt.Errorf("building strategy roster: %w", err)
		}
		strats[i] = s
	}

	runID := uuid.New()
	results := make([]*Result, len(strats))

	var wg sync.WaitGroup
	for i, s := range strats {
		wg.Add(1)
		go func(i int, s strategy.Strategy) {
			defer wg.Done()
			results[i] = e.Run(runID, s)
		}(i, s)
	}
	wg.Wait()

	return results, nil
}

// runHour advances one hour through selection, the minute loop and
// resolution. Hours that cannot be simulated are recorded as skipped,
// never aborted on.
func (e *Engine) runHour(st *runState, hourStart time.Time) {
	st.strat.Reset()
	st.exec.ResetHour()

	duration := time.Duration(e.cfg.Market.DurationMinutes) * time.Minute
	hourEnd := hourStart.Add(duration)

	spot, ok := e.ds.PriceAt(hourStart)
	if !ok {
		st.skipHour(hourStart, "no BTC price at hour start")
		return
	}

	instruments := e.ds.InstrumentsAt(hourStart)
	if len(instruments) == 0 {
		st.skipHour(hourStart, "no candidate instruments")
		return
	}

	prices := e.ds.PricesBetween(hourStart, hourEnd)
	if len(prices) == 0 {
		st.skipHour(hourStart, "no BTC prices within hour")
		return
	}

	cands := make([]selector.Candidate, len(instruments))
	for i, inst := range instruments {
		cands[i] = selector.Candidate{
			Instrument: inst,
			Quotes:     e.ds.QuotesBetween(inst.Strike, hourStart, hourEnd),
		}
	}
	inst, selRec := e.sel.Select(hourStart, spot, cands, prices)
	st.result.Selections = append(st.result.Selections, selRec)

	latency := time.Duration(st.exec.LatencyMinutes()) * time.Minute
	firstTrade := len(st.result.Trades)
	var pending []pendingOrder

	for _, p := range prices {
		quote, ok := e.ds.QuoteAt(p.Timestamp, inst.Strike)
		if !ok {
			// No quote this minute: the strategy sees nothing and
			// pending orders wait for the next quoted minute.
			continue
		}

		yes, _ := quote.YesPrice.Float64()
		no, _ := quote.NoPrice.Float64()
		st.strat.OnMinute(strategy.Minute{
			Timestamp: p.Timestamp,
			BTCPrice:  p.Price,
			YesPrice:  yes,
			NoPrice:   no,
		})

		it := st.strat.DecideTrade(st.snapshot(inst))
		if it.Direction != model.DirectionHold && it.SizeFraction > 0 {
			pending = append(pending, pendingOrder{
				decisionTS:  p.Timestamp,
				executionTS: p.Timestamp.Add(latency),
				direction:   it.Direction,
				fraction:    it.SizeFraction,
			})
		}

		ready := pending[:0]
		for _, ord := range pending {
			if ord.executionTS.After(p.Timestamp) {
				ready = append(ready, ord)
				continue
			}
			e.executeOrder(st, inst, ord, p.Timestamp, quote)
		}
		pending = ready

		st.pf.MarkEquity(p.Timestamp, map[model.Instrument]model.Quote{inst: quote})
	}

	if len(pending) > 0 {
		e.logger.Debug("dropping pending orders at hour end",
			"strategy", st.strat.Name(), "hour", hourStart, "count", len(pending))
	}

	finalPrice, ok := e.ds.PriceAt(hourEnd)
	if !ok {
		// Resolution fallback: last observed price within the hour.
		finalPrice = prices[len(prices)-1].Price
	}

	summary := model.HourSummary{
		HourStart:  hourStart,
		Strike:     inst.Strike,
		SpotStart:  spot,
		FinalPrice: finalPrice,
		TradeCount: len(st.result.Trades) - firstTrade,
	}

	if res, had := st.pf.Resolve(inst, finalPrice, hourEnd); had {
		summary.PnL = res.PnL
		// Backfill realized PnL onto this hour's trade records now that
		// the payoff is known.
		for i := firstTrade; i < len(st.result.Trades); i++ {
			tr := &st.result.Trades[i]
			qty := decimal.NewFromInt(tr.FilledQty)
			tr.RealizedPnL = decimal.NullDecimal{
				Valid:   true,
				Decimal: res.Payoff.Sub(tr.FillPrice).Mul(qty),
			}
		}
	}
	summary.EndingBalance = st.pf.Cash()
	st.result.Hours = append(st.result.Hours, summary)
}

// executeOrder sizes, fills and books one latency-expired order at the
// execution minute's quote.
func (e *Engine) executeOrder(st *runState, inst model.Instrument, ord pendingOrder, ts time.Time, quote model.Quote) {
	if !st.pf.CanOpen(inst, ord.direction) {
		e.logger.Debug("dropping order against held direction",
			"strategy", st.strat.Name(), "strike", inst.Strike, "direction", ord.direction)
		return
	}

	frac := ord.fraction
	if frac > e.cfg.Trading.MaxPositionPct {
		frac = e.cfg.Trading.MaxPositionPct
	}

	mid := quote.Mid(ord.direction)
	qty := st.pf.Cash().Mul(decimal.NewFromFloat(frac)).Div(mid).Floor().IntPart()
	if qty <= 0 {
		return
	}

	fill, ok := st.exec.Fill(execution.Request{
		Instrument:  inst,
		Direction:   ord.direction,
		Qty:         qty,
		Mid:         mid,
		DecisionTS:  ord.decisionTS,
		ExecutionTS: ts,
	})
	if !ok {
		return
	}

	// Friction can push the cost past the sized budget. Shrink the fill
	// to what cash covers and hand the unused liquidity back.
	if maxAff := st.pf.MaxAffordableQty(fill.FillPrice); fill.FilledQty > maxAff {
		st.exec.Release(inst, ts, fill.FilledQty-maxAff)
		fill.FilledQty = maxAff
		if fill.FilledQty <= 0 {
			return
		}
	}

	cost, ok := st.pf.ApplyFill(fill)
	if !ok {
		st.exec.Release(inst, ts, fill.FilledQty)
		return
	}

	filled := decimal.NewFromInt(fill.FilledQty)
	st.result.Trades = append(st.result.Trades, model.TradeRecord{
		HourStart:    inst.HourStart,
		Strategy:     st.strat.Name(),
		Strike:       inst.Strike,
		Direction:    fill.Direction,
		RequestedQty: fill.RequestedQty,
		FilledQty:    fill.FilledQty,
		FillPrice:    fill.FillPrice,
		Fee:          decimal.NewFromFloat(e.cfg.Trading.FeePerContract).Mul(filled),
		DecisionTS:   fill.DecisionTS,
		ExecutionTS:  fill.ExecutionTS,
	})

	e.logger.Debug("trade executed",
		"strategy", st.strat.Name(),
		"strike", inst.Strike,
		"direction", fill.Direction,
		"qty", fill.FilledQty,
		"price", fill.FillPrice,
		"cost", cost)
}

// snapshot builds the portfolio view handed to the strategy.
func (st *runState) snapshot(inst model.Instrument) strategy.Snapshot {
	cash, _ := st.pf.Cash().Float64()
	snap := strategy.Snapshot{Cash: cash}
	for _, pos := range st.pf.OpenPositions() {
		if pos.Instrument == inst {
			snap.HasPosition = true
			snap.Direction = pos.Direction
			break
		}
	}
	return snap
}

func (st *runState) skipHour(hourStart time.Time, reason string) {
	st.result.Hours = append(st.result.Hours, model.HourSummary{
		HourStart:     hourStart,
		EndingBalance: st.pf.Cash(),
		Skipped:       true,
		Reason:        reason,
	})
}
