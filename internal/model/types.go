package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Market Data Types
// -----------------------------------------------------------------------------

// PricePoint is one minute of the underlying BTC price series.
type PricePoint struct {
	Timestamp time.Time // Minute timestamp (UTC)
	Price     float64   // Spot price in dollars, always positive
}

// Instrument identifies one hourly binary contract. It resolves at
// HourStart plus the configured market duration (default 60 minutes).
// Instruments are immutable and comparable (usable as map keys).
type Instrument struct {
	HourStart time.Time // Start of the trading hour (UTC)
	Strike    float64   // Strike price in dollars
}

// Quote holds the per-minute YES/NO mid-prices for one instrument.
// Invariant (enforced at load time): YesPrice + NoPrice within 0.01 of 1.00,
// both within [0.01, 0.99].
type Quote struct {
	Timestamp time.Time       // Minute timestamp (UTC)
	Strike    float64         // Strike price of the quoted instrument
	YesPrice  decimal.Decimal // YES mid-price
	NoPrice   decimal.Decimal // NO mid-price
}

// Mid returns the mid-price for the given contract side.
func (q Quote) Mid(d Direction) decimal.Decimal {
	if d == DirectionNo {
		return q.NoPrice
	}
	return q.YesPrice
}

// -----------------------------------------------------------------------------
// Trading Types
// -----------------------------------------------------------------------------

// Direction is the side of a binary contract trade.
type Direction string

const (
	DirectionYes  Direction = "YES"
	DirectionNo   Direction = "NO"
	DirectionHold Direction = "HOLD"
)

// TradeIntent is a strategy's requested action at a given minute.
// SizeFraction is the fraction of the current cash balance to deploy;
// the engine caps it at the configured max position fraction and converts
// it to a whole-contract quantity at execution time.
type TradeIntent struct {
	Direction    Direction
	SizeFraction float64
}

// Hold is the no-op intent.
func Hold() TradeIntent { return TradeIntent{Direction: DirectionHold} }

// Fill is the realized outcome of a trade request after microstructure
// effects. FilledQty <= RequestedQty (liquidity cap). ExecutionTS is
// DecisionTS plus the configured latency, always within the instrument's
// active window.
type Fill struct {
	Instrument   Instrument
	Direction    Direction
	RequestedQty int64
	FilledQty    int64
	FillPrice    decimal.Decimal // Post spread/slippage, clamped to price bounds
	DecisionTS   time.Time
	ExecutionTS  time.Time
}

// Position is an open exposure in one instrument. At most one position
// per instrument is open at a time; same-direction fills aggregate into
// a volume-weighted average entry price.
type Position struct {
	Instrument    Instrument
	Direction     Direction
	Quantity      int64
	AvgEntryPrice decimal.Decimal
	EntryTS       time.Time // Execution time of the first fill
}

// Value returns Quantity * price for the given mark price.
func (p Position) Value(mark decimal.Decimal) decimal.Decimal {
	return mark.Mul(decimal.NewFromInt(p.Quantity))
}

// -----------------------------------------------------------------------------
// Output Record Types
// -----------------------------------------------------------------------------

// TradeRecord is one row of the per-trade output table. RealizedPnL is
// null until the instrument resolves (fills that never reach resolution
// cannot happen: every open position is resolved at hour end).
type TradeRecord struct {
	HourStart    time.Time
	Strategy     string
	Strike       float64
	Direction    Direction
	RequestedQty int64
	FilledQty    int64
	FillPrice    decimal.Decimal
	Fee          decimal.Decimal // Total fee charged on this fill
	DecisionTS   time.Time
	ExecutionTS  time.Time
	RealizedPnL  decimal.NullDecimal // FilledQty * (payoff - FillPrice), set at resolution
}

// Selection methods for SelectionRecord.Method.
const (
	SelectionIntelligent = "intelligent"
	SelectionFallback    = "fallback"
)

// SelectionRecord is one row of the per-hour market-selection log,
// emitted for every hour that has at least one candidate instrument.
type SelectionRecord struct {
	HourStart          time.Time
	BTCSpotPrice       float64
	SelectedStrike     float64
	Method             string  // "intelligent" or "fallback"
	AvgSpread          float64 // mean |yes+no-1| of the selected candidate
	AvgVolumeProxy     float64 // sum |dYes|+|dNo| of the selected candidate
	PriceReactionScore float64 // corr(dBTC, dYes) of the selected candidate
	VolatilityEstimate float64 // stddev of minute-over-minute BTC changes
	StrikesConsidered  int
	Reason             string
}

// EquityPoint is one point of a strategy's equity curve:
// cash plus marked-to-market value of open positions.
type EquityPoint struct {
	Timestamp time.Time
	Value     decimal.Decimal
}

// HourSummary records the outcome of one simulated hour. Skipped hours
// (data gaps, no candidate instruments) are recorded with Skipped=true
// and a reason instead of aborting the run.
type HourSummary struct {
	HourStart     time.Time
	Strike        float64
	SpotStart     float64
	FinalPrice    float64
	TradeCount    int
	PnL           decimal.Decimal
	EndingBalance decimal.Decimal
	Skipped       bool
	Reason        string
}
