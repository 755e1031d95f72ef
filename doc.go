// Package girohist reconstructs a daily, single-currency portfolio history
// from a brokerage transaction ledger and derives a cash-flow-neutral
// performance series from it.
//
// The core functionalities include:
//   - Ledger Management: validating and ordering the raw transaction records
//     (deposits, withdrawals, buys, sells, dividends, fees, fx legs) into an
//     immutable, chronological ledger.
//   - Market Data Resolution: fetching sparse daily close and FX series,
//     memoizing them per run, and aligning them onto the full calendar axis
//     with an explicit forward-fill policy.
//   - Portfolio Reconstruction: folding each asset's trades and price series
//     over the shared calendar to produce one dense snapshot per day, with
//     share and cash conservation holding on every date.
//   - Return Measurement: a flow-adjusted daily time-weighted return series
//     with geometric linking, plus the usual descriptive risk metrics and
//     period windows.
//   - Data Persistence: encoding and decoding the ledger in a human-readable
//     JSONL format, and exporting snapshots and returns as CSV.
//
// This package serves as the foundational logic for the `giro` command-line
// tool.
package girohist
