// Package strategy defines the per-minute trading decision contract and
// the built-in strategy roster.
//
// A Strategy receives every minute of the selected instrument's hour via
// OnMinute, in timestamp order, and is asked once per minute for a
// TradeIntent via DecideTrade. Intents carry a direction and a cash
// fraction; the engine converts fractions to whole-contract quantities.
// Strategies never see future data and keep their own bounded rolling
// history, reset at every hour boundary.
//
// Strategies are constructed by name through New; Names lists the roster.
package strategy
