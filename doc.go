// Package carteira tracks a personal portfolio of B3 stocks and real-estate
// funds (FIIs) through a chronological trade ledger.
//
// The core functionalities include:
//   - Trade Ledger: recording buys, sells, and splits per asset, with the
//     weighted average purchase price and the realized profit of each sell
//     maintained as trades are applied.
//   - Retroactive Safety: trades never rewrite the past; a split multiplies
//     the held quantity and divides the average price from its date on, and
//     out-of-order trades are rejected.
//   - Tax Reporting: realized profit aggregated by month, with the sold
//     amount and the swing-trade tax due when sales exceed the monthly
//     exemption.
//   - Valuation: current portfolio value and per-asset performance against
//     quotes fetched from the mfinance API.
//   - Data Persistence: the ledger is encoded as human-readable JSONL and
//     replayed through the mutation API on load, so every loaded portfolio
//     satisfies the ledger invariants.
//
// This package is the foundational logic for the `carteira` command-line
// tool.
package carteira
