package data

import (
	"sort"
	"time"

	"github.com/rickgao/kalshi-backtest/internal/model"
)

type quoteKey struct {
	ts     int64 // Unix seconds
	strike float64
}

// Dataset is the immutable, fully-indexed view of the loaded tables.
// It is built once before the simulation starts and shared read-only by
// all strategy runs; the engine never touches the filesystem mid-run.
type Dataset struct {
	prices      []model.PricePoint
	priceAt     map[int64]float64
	instruments map[int64][]model.Instrument // keyed by hour_start unix
	quotes      map[quoteKey]model.Quote
	hours       []time.Time
}

// NewDataset indexes the loaded rows. Instruments per hour are sorted by
// strike ascending so downstream tie-breaks are deterministic.
func NewDataset(prices []model.PricePoint, instruments []model.Instrument, quotes []model.Quote) *Dataset {
	ds := &Dataset{
		prices:      prices,
		priceAt:     make(map[int64]float64, len(prices)),
		instruments: make(map[int64][]model.Instrument),
		quotes:      make(map[quoteKey]model.Quote, len(quotes)),
	}

	for _, p := range prices {
		ds.priceAt[p.Timestamp.Unix()] = p.Price
	}
	for _, inst := range instruments {
		key := inst.HourStart.Unix()
		ds.instruments[key] = append(ds.instruments[key], inst)
	}
	for key, list := range ds.instruments {
		sort.Slice(list, func(i, j int) bool { return list[i].Strike < list[j].Strike })
		ds.instruments[key] = list
		ds.hours = append(ds.hours, list[0].HourStart)
	}
	sort.Slice(ds.hours, func(i, j int) bool { return ds.hours[i].Before(ds.hours[j]) })

	for _, q := range quotes {
		ds.quotes[quoteKey{ts: q.Timestamp.Unix(), strike: q.Strike}] = q
	}

	return ds
}

// Hours returns all hour starts that have at least one instrument,
// ascending.
func (ds *Dataset) Hours() []time.Time {
	return ds.hours
}

// PriceAt returns the BTC price at the exact minute, if present.
func (ds *Dataset) PriceAt(ts time.Time) (float64, bool) {
	p, ok := ds.priceAt[ts.Unix()]
	return p, ok
}

// InstrumentsAt returns the candidate instruments for an hour, sorted by
// strike ascending. The slice must not be mutated.
func (ds *Dataset) InstrumentsAt(hourStart time.Time) []model.Instrument {
	return ds.instruments[hourStart.Unix()]
}

// QuoteAt returns the quote for (minute, strike), if present.
func (ds *Dataset) QuoteAt(ts time.Time, strike float64) (model.Quote, bool) {
	q, ok := ds.quotes[quoteKey{ts: ts.Unix(), strike: strike}]
	return q, ok
}

// PricesBetween returns the BTC price points in [from, to), ascending.
func (ds *Dataset) PricesBetween(from, to time.Time) []model.PricePoint {
	lo := sort.Search(len(ds.prices), func(i int) bool {
		return !ds.prices[i].Timestamp.Before(from)
	})
	hi := sort.Search(len(ds.prices), func(i int) bool {
		return !ds.prices[i].Timestamp.Before(to)
	})
	return ds.prices[lo:hi]
}

// QuotesBetween returns the quotes for one strike in [from, to), in
// minute order. Minutes without a quote row are simply absent.
func (ds *Dataset) QuotesBetween(strike float64, from, to time.Time) []model.Quote {
	var out []model.Quote
	for ts := from; ts.Before(to); ts = ts.Add(time.Minute) {
		if q, ok := ds.QuoteAt(ts, strike); ok {
			out = append(out, q)
		}
	}
	return out
}
