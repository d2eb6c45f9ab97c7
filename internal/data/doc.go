// Package data loads the three input CSV tables and serves them through
// in-memory indexes.
//
// Tables (produced by the kalshi-data gatherer's export pipeline):
//   - btc_prices_minute: timestamp, price
//   - kalshi_markets: hour_start, strike_price
//   - kalshi_contract_prices: timestamp, strike_price, yes_price, no_price
//
// Structural problems (missing columns, unparseable timestamps, duplicate
// minutes) fail the load. Row-level invariant violations (yes+no outside
// tolerance, off-interval strikes, out-of-range prices) exclude the row
// and continue: the run absorbs data gaps, it does not abort on them.
package data
