// Package selector picks the single instrument to trade for each hour.
//
// Candidates are scored on three per-hour metrics: average quote spread
// (|yes+no-1|), a volume proxy (summed absolute quote movement) and price
// reaction (correlation of BTC changes with YES price changes). Candidates
// below the liquidity threshold are filtered out; survivors are ranked by
// a min-max normalized composite score. When nothing survives the filter,
// selection falls back to the strike closest to the BTC spot price at
// hour start. Both branches emit a SelectionRecord for the selection log.
package selector
