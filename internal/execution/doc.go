// Package execution implements the market microstructure model.
//
// A requested trade is turned into a fill by applying, in order:
//   - half the configured bid-ask spread (buyers pay above mid)
//   - linear slippage proportional to the filled size
//   - a shared per-(instrument, minute) liquidity budget that partially
//     fills oversized requests (never queues the remainder)
//   - a clamp to the configured [min, max] trade price bounds
//
// Latency is owned here as configuration; the engine queues decisions and
// prices them at decision time plus latency, dropping any that would land
// after the instrument has resolved.
//
// All price arithmetic uses shopspring/decimal so that a zero-friction
// configuration fills at exactly the quoted mid.
package execution
