// Package opat reconstructs the daily state of a portfolio from a ledger of
// trades.
//
// The computations are stateless transforms over in-memory tables:
//   - Holdings: trades and splits become a dense table of positions, one row
//     per business day and ticker held, forward-filled between trades.
//   - PnL: holdings, trades and prices become a daily profit and loss
//     attribution per ticker, split between holding and trading components.
//   - NAV: holdings, trades, prices and cash flows become a daily net asset
//     value ledger with one cash row and one equity row per ticker held.
//
// A Book groups all the inputs and resolves the options once. Missing prices
// and ambiguous inputs are reported alongside the results instead of being
// silently defaulted. Return statistics over the resulting series live in the
// stats package.
package opat
