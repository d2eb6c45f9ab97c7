// Package portfolio owns cash, open positions and the equity curve for
// one strategy run.
//
// Policy decisions owned here:
//   - one open position per instrument; same-direction fills aggregate
//     into a volume-weighted average entry, opposite-direction fills are
//     rejected as no-ops (the first filled direction is authoritative)
//   - fills that would overdraw cash are rejected; the engine sizes
//     requests against current cash so this only triggers on friction
//     pushing the price above the estimate
//
// All money amounts are decimal.Decimal; the ledger balances exactly.
package portfolio
