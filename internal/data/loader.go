package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/config"
	"github.com/rickgao/kalshi-backtest/internal/model"
)

// Tolerance for the yes+no ≈ 1.00 quote invariant, in dollars.
const quoteSumTolerance = 0.01

var (
	ErrMissingColumn = errors.New("data: missing required column")
	ErrEmptyTable    = errors.New("data: table has no rows")
)

// Loader reads and validates the input CSV tables.
type Loader struct {
	cfg    config.DataConfig
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger falls back to slog.Default().
func NewLoader(cfg config.DataConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load reads all three tables and builds the Dataset. start and end are
// optional date bounds (zero time = unbounded) applied to the BTC series;
// strikeInterval is used to exclude misaligned market rows.
func (l *Loader) Load(start, end time.Time, strikeInterval float64) (*Dataset, error) {
	prices, err := l.LoadBTCPrices(start, end)
	if err != nil {
		return nil, fmt.Errorf("load btc prices: %w", err)
	}
	instruments, err := l.LoadMarkets(strikeInterval)
	if err != nil {
		return nil, fmt.Errorf("load markets: %w", err)
	}
	quotes, err := l.LoadQuotes()
	if err != nil {
		return nil, fmt.Errorf("load contract prices: %w", err)
	}
	return NewDataset(prices, instruments, quotes), nil
}

// LoadBTCPrices reads the minute-level BTC price series.
// Prices must be positive and timestamps strictly increasing.
func (l *Loader) LoadBTCPrices(start, end time.Time) ([]model.PricePoint, error) {
	rows, idx, err := readTable(l.cfg.BTCPrices, []string{"timestamp", "price"})
	if err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, 0, len(rows))
	var prev time.Time
	for i, row := range rows {
		ts, err := parseTimestamp(row[idx["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		price, err := strconv.ParseFloat(row[idx["price"]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse price: %w", i+2, err)
		}
		if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, fmt.Errorf("row %d: price must be positive and finite, got %v", i+2, price)
		}
		if !prev.IsZero() && !ts.After(prev) {
			return nil, fmt.Errorf("row %d: timestamps must be strictly increasing (%s after %s)", i+2, ts, prev)
		}
		prev = ts

		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		points = append(points, model.PricePoint{Timestamp: ts, Price: price})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s (after date filtering)", ErrEmptyTable, l.cfg.BTCPrices)
	}
	return points, nil
}

// LoadMarkets reads the hourly instrument table. Rows whose strike does
// not sit on the configured interval are excluded, not fatal.
func (l *Loader) LoadMarkets(strikeInterval float64) ([]model.Instrument, error) {
	rows, idx, err := readTable(l.cfg.Markets, []string{"hour_start", "strike_price"})
	if err != nil {
		return nil, err
	}

	instruments := make([]model.Instrument, 0, len(rows))
	excluded := 0
	for i, row := range rows {
		hour, err := parseTimestamp(row[idx["hour_start"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		strike, err := strconv.ParseFloat(row[idx["strike_price"]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse strike_price: %w", i+2, err)
		}
		if strike <= 0 {
			return nil, fmt.Errorf("row %d: strike_price must be positive, got %v", i+2, strike)
		}
		if !onInterval(strike, strikeInterval) {
			excluded++
			l.logger.Warn("excluding off-interval strike",
				"hour_start", hour, "strike", strike, "interval", strikeInterval)
			continue
		}
		instruments = append(instruments, model.Instrument{HourStart: hour, Strike: strike})
	}

	if excluded > 0 {
		l.logger.Info("markets loaded with exclusions", "kept", len(instruments), "excluded", excluded)
	}
	return instruments, nil
}

// LoadQuotes reads the per-minute contract price table. Rows violating
// the yes+no tolerance or the (0,1) price bounds are excluded, not fatal.
func (l *Loader) LoadQuotes() ([]model.Quote, error) {
	rows, idx, err := readTable(l.cfg.ContractPrices,
		[]string{"timestamp", "strike_price", "yes_price", "no_price"})
	if err != nil {
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(rows))
	excluded := 0
	for i, row := range rows {
		ts, err := parseTimestamp(row[idx["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		strike, err := strconv.ParseFloat(row[idx["strike_price"]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse strike_price: %w", i+2, err)
		}
		yes, err := decimal.NewFromString(row[idx["yes_price"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse yes_price: %w", i+2, err)
		}
		no, err := decimal.NewFromString(row[idx["no_price"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse no_price: %w", i+2, err)
		}

		if !validQuote(yes, no) {
			excluded++
			l.logger.Warn("excluding invalid quote",
				"timestamp", ts, "strike", strike, "yes", yes, "no", no)
			continue
		}
		quotes = append(quotes, model.Quote{
			Timestamp: ts,
			Strike:    strike,
			YesPrice:  yes,
			NoPrice:   no,
		})
	}

	if excluded > 0 {
		l.logger.Info("quotes loaded with exclusions", "kept", len(quotes), "excluded", excluded)
	}
	return quotes, nil
}

// validQuote checks the (0,1) bounds and the yes+no ≈ 1.00 invariant.
func validQuote(yes, no decimal.Decimal) bool {
	one := decimal.NewFromInt(1)
	if yes.LessThanOrEqual(decimal.Zero) || yes.GreaterThanOrEqual(one) {
		return false
	}
	if no.LessThanOrEqual(decimal.Zero) || no.GreaterThanOrEqual(one) {
		return false
	}
	diff := yes.Add(no).Sub(one).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(quoteSumTolerance))
}

// onInterval reports whether strike is a multiple of interval, within a
// small epsilon for float round-trip through CSV.
func onInterval(strike, interval float64) bool {
	ratio := strike / interval
	return math.Abs(ratio-math.Round(ratio)) < 1e-6
}

// readTable reads a CSV file with a header row and returns the data rows
// plus a column-name index. All wanted columns must be present.
func readTable(path string, want []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[name] = i
	}
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, name, path)
		}
	}
	return records[1:], idx, nil
}

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
