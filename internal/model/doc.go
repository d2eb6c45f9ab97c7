// Package model defines shared data types used across the backtester.
//
// Conventions:
//   - Contract prices and money: decimal.Decimal dollars ($0.00-$1.00 per contract)
//   - Underlying (BTC) prices and strikes: float64 dollars
//   - Quantities: int64 whole contracts
//   - Timestamps: time.Time in UTC, minute resolution
package model
