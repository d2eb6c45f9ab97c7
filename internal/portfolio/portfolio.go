package portfolio

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/model"
)

// Resolution is the realized outcome of one position at instrument expiry.
type Resolution struct {
	Instrument model.Instrument
	Direction  model.Direction
	Quantity   int64
	AvgEntry   decimal.Decimal
	Payoff     decimal.Decimal // Per contract: 1.00 or 0.00
	PnL        decimal.Decimal // Quantity * (Payoff - AvgEntry)
	Won        bool
	ResolvedAt time.Time
}

// Portfolio tracks one strategy run's cash and open positions.
type Portfolio struct {
	initial        decimal.Decimal
	cash           decimal.Decimal
	feePerContract decimal.Decimal
	positions      map[model.Instrument]*model.Position
	equity         []model.EquityPoint
	logger         *slog.Logger
}

// New creates a Portfolio with the given starting balance and per-contract
// fee. A nil logger falls back to slog.Default().
func New(startingBalance, feePerContract decimal.Decimal, logger *slog.Logger) *Portfolio {
	if logger == nil {
		logger = slog.Default()
	}
	return &Portfolio{
		initial:        startingBalance,
		cash:           startingBalance,
		feePerContract: feePerContract,
		positions:      make(map[model.Instrument]*model.Position),
		logger:         logger,
	}
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() decimal.Decimal { return p.cash }

// InitialBalance returns the starting balance.
func (p *Portfolio) InitialBalance() decimal.Decimal { return p.initial }

// TotalPnL returns realized profit to date: cash minus the initial
// balance. Meaningful once all positions are resolved.
func (p *Portfolio) TotalPnL() decimal.Decimal { return p.cash.Sub(p.initial) }

// OpenPositions returns copies of all open positions.
func (p *Portfolio) OpenPositions() []model.Position {
	out := make([]model.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	return out
}

// CanOpen reports whether a fill in the given direction would be accepted.
// The first filled direction per instrument is authoritative: while a YES
// position is open, NO fills for the same instrument are rejected, and
// vice versa.
func (p *Portfolio) CanOpen(inst model.Instrument, dir model.Direction) bool {
	pos, ok := p.positions[inst]
	return !ok || pos.Direction == dir
}

// MaxAffordableQty returns the largest quantity payable at the given
// per-contract price plus fee without overdrawing cash.
func (p *Portfolio) MaxAffordableQty(price decimal.Decimal) int64 {
	unit := price.Add(p.feePerContract)
	if unit.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return p.cash.Div(unit).Floor().IntPart()
}

// ApplyFill deducts the fill cost (price plus fee per contract) from cash
// and opens or augments the position. Returns the total cost charged and
// false for rejected fills: opposite-direction conflicts and overdrafts
// are no-ops, never errors.
func (p *Portfolio) ApplyFill(fill model.Fill) (decimal.Decimal, bool) {
	if fill.FilledQty <= 0 {
		return decimal.Decimal{}, false
	}
	if !p.CanOpen(fill.Instrument, fill.Direction) {
		p.logger.Debug("rejecting opposite-direction fill",
			"strike", fill.Instrument.Strike,
			"held", p.positions[fill.Instrument].Direction,
			"requested", fill.Direction)
		return decimal.Decimal{}, false
	}

	qty := decimal.NewFromInt(fill.FilledQty)
	cost := fill.FillPrice.Add(p.feePerContract).Mul(qty)
	if cost.GreaterThan(p.cash) {
		p.logger.Debug("rejecting unaffordable fill",
			"strike", fill.Instrument.Strike, "cost", cost, "cash", p.cash)
		return decimal.Decimal{}, false
	}
	p.cash = p.cash.Sub(cost)

	pos, ok := p.positions[fill.Instrument]
	if !ok {
		p.positions[fill.Instrument] = &model.Position{
			Instrument:    fill.Instrument,
			Direction:     fill.Direction,
			Quantity:      fill.FilledQty,
			AvgEntryPrice: fill.FillPrice,
			EntryTS:       fill.ExecutionTS,
		}
		return cost, true
	}

	// Same direction: aggregate with a volume-weighted average entry.
	oldNotional := pos.AvgEntryPrice.Mul(decimal.NewFromInt(pos.Quantity))
	newNotional := fill.FillPrice.Mul(qty)
	pos.Quantity += fill.FilledQty
	pos.AvgEntryPrice = oldNotional.Add(newNotional).Div(decimal.NewFromInt(pos.Quantity))
	return cost, true
}

// Resolve settles the position in the given instrument at expiry.
// Payoff per contract is 1.00 when (YES and finalPrice >= strike) or
// (NO and finalPrice < strike), else 0.00; equality resolves YES.
// The position is closed and cash credited with the payout.
func (p *Portfolio) Resolve(inst model.Instrument, finalPrice float64, ts time.Time) (Resolution, bool) {
	pos, ok := p.positions[inst]
	if !ok {
		return Resolution{}, false
	}
	delete(p.positions, inst)

	won := false
	switch pos.Direction {
	case model.DirectionYes:
		won = finalPrice >= inst.Strike
	case model.DirectionNo:
		won = finalPrice < inst.Strike
	}

	payoff := decimal.Zero
	if won {
		payoff = decimal.NewFromInt(1)
	}

	qty := decimal.NewFromInt(pos.Quantity)
	payout := payoff.Mul(qty)
	p.cash = p.cash.Add(payout)

	return Resolution{
		Instrument: inst,
		Direction:  pos.Direction,
		Quantity:   pos.Quantity,
		AvgEntry:   pos.AvgEntryPrice,
		Payoff:     payoff,
		PnL:        payoff.Sub(pos.AvgEntryPrice).Mul(qty),
		Won:        won,
		ResolvedAt: ts,
	}, true
}

// MarkEquity appends an equity point: cash plus open positions marked at
// the latest observed mid for their side. Positions without a mark fall
// back to their entry price.
func (p *Portfolio) MarkEquity(ts time.Time, marks map[model.Instrument]model.Quote) {
	total := p.cash
	for inst, pos := range p.positions {
		mark := pos.AvgEntryPrice
		if q, ok := marks[inst]; ok {
			mark = q.Mid(pos.Direction)
		}
		total = total.Add(pos.Value(mark))
	}
	p.equity = append(p.equity, model.EquityPoint{Timestamp: ts, Value: total})
}

// Equity returns the accumulated equity curve.
func (p *Portfolio) Equity() []model.EquityPoint { return p.equity }
