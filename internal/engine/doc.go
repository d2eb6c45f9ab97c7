// Package engine drives the simulation: it walks the loaded hours in
// order, selects one instrument per hour, replays the hour minute by
// minute feeding the strategy and routing its intents through the
// execution model, resolves open positions at the hour boundary and
// accumulates the trade, selection, equity and hour records.
//
// One Engine run is single-threaded and deterministic. RunAll replays
// several strategies concurrently, each with its own portfolio,
// execution model and strategy instance over the shared immutable
// dataset.
package engine
