package selector

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/rickgao/kalshi-backtest/internal/config"
	"github.com/rickgao/kalshi-backtest/internal/model"
)

// Composite score weights. Spread is negated before normalization so a
// tighter spread scores higher.
const (
	weightSpread   = 0.4
	weightVolume   = 0.3
	weightReaction = 0.3
)

// Candidate pairs an instrument with its quotes for the hour, in minute
// order.
type Candidate struct {
	Instrument model.Instrument
	Quotes     []model.Quote
}

// metrics holds the per-candidate scoring inputs.
type metrics struct {
	spread   float64 // mean |yes+no-1|
	volume   float64 // sum |dYes| + |dNo|
	reaction float64 // corr(dBTC, dYes)
}

// Selector scores and picks one instrument per hour.
type Selector struct {
	liquidityThreshold float64
	logger             *slog.Logger
}

// New creates a Selector. A nil logger falls back to slog.Default().
func New(cfg config.SelectorConfig, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{liquidityThreshold: cfg.LiquidityThreshold, logger: logger}
}

// Select picks one instrument from a non-empty candidate set and emits
// the selection record for the hour. prices is the BTC minute series for
// the hour, used for the reaction correlation and volatility estimate.
func (s *Selector) Select(hourStart time.Time, spot float64, cands []Candidate, prices []model.PricePoint) (model.Instrument, model.SelectionRecord) {
	sort.Slice(cands, func(i, j int) bool {
		return cands[i].Instrument.Strike < cands[j].Instrument.Strike
	})

	priceAt := make(map[int64]float64, len(prices))
	deltas := make([]float64, 0, len(prices))
	for i, p := range prices {
		priceAt[p.Timestamp.Unix()] = p.Price
		if i > 0 {
			deltas = append(deltas, p.Price-prices[i-1].Price)
		}
	}
	volatility := stddev(deltas)

	all := make([]metrics, len(cands))
	for i, c := range cands {
		all[i] = computeMetrics(c.Quotes, priceAt)
	}

	// Liquidity filter: candidates whose quotes barely move are not
	// tradeable however tight their spread looks.
	var liquid []int
	for i, m := range all {
		if m.volume >= s.liquidityThreshold {
			liquid = append(liquid, i)
		}
	}

	record := model.SelectionRecord{
		HourStart:          hourStart,
		BTCSpotPrice:       spot,
		VolatilityEstimate: volatility,
		StrikesConsidered:  len(cands),
	}

	if len(liquid) == 0 {
		idx := closestStrike(cands, spot)
		record.Method = model.SelectionFallback
		record.SelectedStrike = cands[idx].Instrument.Strike
		record.AvgSpread = all[idx].spread
		record.AvgVolumeProxy = all[idx].volume
		record.PriceReactionScore = all[idx].reaction
		record.Reason = fmt.Sprintf(
			"no candidate met liquidity threshold %.4f; strike closest to spot %.2f",
			s.liquidityThreshold, spot)
		s.logger.Debug("selection fallback",
			"hour", hourStart, "strike", record.SelectedStrike, "spot", spot)
		return cands[idx].Instrument, record
	}

	spreads := make([]float64, len(liquid))
	volumes := make([]float64, len(liquid))
	reactions := make([]float64, len(liquid))
	for j, i := range liquid {
		spreads[j] = -all[i].spread // tighter spread scores higher
		volumes[j] = all[i].volume
		reactions[j] = all[i].reaction
	}
	normSpread := minMaxNormalize(spreads)
	normVolume := minMaxNormalize(volumes)
	normReaction := minMaxNormalize(reactions)

	// Candidates are sorted by strike ascending and the comparison is
	// strict, so ties resolve to the lowest strike.
	best, bestScore := 0, math.Inf(-1)
	for j := range liquid {
		score := weightSpread*normSpread[j] + weightVolume*normVolume[j] + weightReaction*normReaction[j]
		if score > bestScore {
			best, bestScore = j, score
		}
	}

	idx := liquid[best]
	record.Method = model.SelectionIntelligent
	record.SelectedStrike = cands[idx].Instrument.Strike
	record.AvgSpread = all[idx].spread
	record.AvgVolumeProxy = all[idx].volume
	record.PriceReactionScore = all[idx].reaction
	record.Reason = fmt.Sprintf(
		"best composite score %.4f among %d liquid of %d candidates",
		bestScore, len(liquid), len(cands))
	s.logger.Debug("selection scored",
		"hour", hourStart, "strike", record.SelectedStrike, "score", bestScore)
	return cands[idx].Instrument, record
}

// computeMetrics derives the scoring inputs from one candidate's quotes.
// Quotes must be in minute order. BTC deltas for the reaction correlation
// are aligned to consecutive quote pairs; pairs with a missing BTC price
// on either end are skipped.
func computeMetrics(quotes []model.Quote, priceAt map[int64]float64) metrics {
	var m metrics
	if len(quotes) == 0 {
		return m
	}

	spreadSum := 0.0
	var btcDeltas, yesDeltas []float64
	for i, q := range quotes {
		yes, _ := q.YesPrice.Float64()
		no, _ := q.NoPrice.Float64()
		spreadSum += math.Abs(yes + no - 1.0)

		if i == 0 {
			continue
		}
		prevYes, _ := quotes[i-1].YesPrice.Float64()
		prevNo, _ := quotes[i-1].NoPrice.Float64()
		m.volume += math.Abs(yes-prevYes) + math.Abs(no-prevNo)

		btc, ok := priceAt[q.Timestamp.Unix()]
		prevBTC, prevOK := priceAt[quotes[i-1].Timestamp.Unix()]
		if ok && prevOK {
			btcDeltas = append(btcDeltas, btc-prevBTC)
			yesDeltas = append(yesDeltas, yes-prevYes)
		}
	}

	m.spread = spreadSum / float64(len(quotes))
	m.reaction = correlation(btcDeltas, yesDeltas)
	return m
}

// closestStrike returns the index of the candidate whose strike is
// numerically closest to spot; ties break to the lower strike.
func closestStrike(cands []Candidate, spot float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range cands {
		dist := math.Abs(c.Instrument.Strike - spot)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
