package execution

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/config"
	"github.com/rickgao/kalshi-backtest/internal/model"
)

// Request is a sized trade request arriving at its execution minute.
// Mid is the quoted mid-price for the requested side at ExecutionTS.
type Request struct {
	Instrument  model.Instrument
	Direction   model.Direction
	Qty         int64
	Mid         decimal.Decimal
	DecisionTS  time.Time
	ExecutionTS time.Time
}

type poolKey struct {
	inst model.Instrument
	ts   int64 // Unix seconds of the execution minute
}

// Model converts trade requests into fills. One Model serves one strategy
// run: the liquidity consumed map is shared by every request touching the
// same instrument-minute within that run.
type Model struct {
	halfSpread     decimal.Decimal
	slippagePer100 decimal.Decimal
	maxLiquidity   int64
	latencyMinutes int
	minPrice       decimal.Decimal
	maxPrice       decimal.Decimal

	consumed map[poolKey]int64
	logger   *slog.Logger
}

// New builds a Model from the execution and market config sections.
func New(exec config.ExecutionConfig, market config.MarketConfig, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		halfSpread:     decimal.NewFromFloat(exec.BidAskSpread).Div(decimal.NewFromInt(2)),
		slippagePer100: decimal.NewFromFloat(exec.SlippagePer100),
		maxLiquidity:   exec.MaxLiquidityPerMinute,
		latencyMinutes: exec.LatencyMinutes,
		minPrice:       decimal.NewFromFloat(market.MinTradePrice),
		maxPrice:       decimal.NewFromFloat(market.MaxTradePrice),
		consumed:       make(map[poolKey]int64),
		logger:         logger,
	}
}

// LatencyMinutes returns the configured decision-to-execution delay.
func (m *Model) LatencyMinutes() int { return m.latencyMinutes }

// ResetHour clears the liquidity ledger at an hour boundary. Budgets are
// per-minute, so entries can never carry across hours anyway; clearing
// keeps the map from growing over a long replay.
func (m *Model) ResetHour() {
	clear(m.consumed)
}

// Remaining returns the liquidity still available at an instrument-minute.
func (m *Model) Remaining(inst model.Instrument, ts time.Time) int64 {
	return m.maxLiquidity - m.consumed[poolKey{inst: inst, ts: ts.Unix()}]
}

// Fill executes a request against the current minute's liquidity budget.
// Returns false for no-ops: zero quantity, a non-positive mid, or an
// exhausted budget. Oversized requests fill partially; the remainder is
// dropped, never queued.
func (m *Model) Fill(req Request) (model.Fill, bool) {
	if req.Qty <= 0 {
		return model.Fill{}, false
	}
	if req.Mid.LessThanOrEqual(decimal.Zero) {
		m.logger.Warn("rejecting request with non-positive mid",
			"strike", req.Instrument.Strike, "mid", req.Mid, "ts", req.ExecutionTS)
		return model.Fill{}, false
	}

	key := poolKey{inst: req.Instrument, ts: req.ExecutionTS.Unix()}
	remaining := m.maxLiquidity - m.consumed[key]
	if remaining <= 0 {
		m.logger.Debug("liquidity exhausted",
			"strike", req.Instrument.Strike, "ts", req.ExecutionTS)
		return model.Fill{}, false
	}

	filled := req.Qty
	if filled > remaining {
		filled = remaining
	}
	m.consumed[key] += filled

	return model.Fill{
		Instrument:   req.Instrument,
		Direction:    req.Direction,
		RequestedQty: req.Qty,
		FilledQty:    filled,
		FillPrice:    m.price(req.Mid, filled),
		DecisionTS:   req.DecisionTS,
		ExecutionTS:  req.ExecutionTS,
	}, true
}

// Release returns unused liquidity to the pool. Used when a fill is
// subsequently reduced by the affordability check.
func (m *Model) Release(inst model.Instrument, ts time.Time, qty int64) {
	if qty <= 0 {
		return
	}
	key := poolKey{inst: inst, ts: ts.Unix()}
	m.consumed[key] -= qty
	if m.consumed[key] < 0 {
		m.consumed[key] = 0
	}
}

// price applies half-spread and size-linear slippage in the adverse
// direction for a buyer, then clamps to the configured bounds. Both YES
// and NO entries are buys on their own mid, so the adjustment is always
// upward.
func (m *Model) price(mid decimal.Decimal, qty int64) decimal.Decimal {
	slippage := decimal.NewFromInt(qty).
		Div(decimal.NewFromInt(100)).
		Mul(m.slippagePer100)

	p := mid.Add(m.halfSpread).Add(slippage)
	if p.LessThan(m.minPrice) {
		return m.minPrice
	}
	if p.GreaterThan(m.maxPrice) {
		return m.maxPrice
	}
	return p
}
