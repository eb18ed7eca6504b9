// Package market provides market prices to the opat engines.
//
// A Source returns the daily prices of a ticker over a range of dates. Dir
// reads them from a folder of per ticker files, HTTP from a web API, and Table
// serves an in-memory price table.
package market

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/opat/opat"
	"github.com/opat/opat/date"
)

// ErrUnknownTicker is returned by a Source that has no price for a ticker.
var ErrUnknownTicker = errors.New("unknown ticker")

// Source looks up market prices.
type Source interface {
	// Prices returns the prices of ticker within rng, in chronological order.
	// Zero boundaries of rng are unbounded.
	Prices(ctx context.Context, ticker string, rng date.Range) ([]opat.Price, error)
}

// within reports whether on is in rng, zero boundaries being unbounded.
func within(rng date.Range, on date.Date) bool {
	if !rng.From.IsZero() && on.Before(rng.From) {
		return false
	}
	if !rng.To.IsZero() && on.After(rng.To) {
		return false
	}
	return true
}

// filter keeps the prices within rng, in place, and sorts them.
func filter(prices []opat.Price, rng date.Range) []opat.Price {
	kept := prices[:0]
	for _, p := range prices {
		if within(rng, p.Date) {
			kept = append(kept, p)
		}
	}
	sortPrices(kept)
	return kept
}

func sortPrices(prices []opat.Price) {
	slices.SortStableFunc(prices, func(a, b opat.Price) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
}

// Table is an in-memory Source.
type Table []opat.Price

// Prices implements Source.
func (t Table) Prices(ctx context.Context, ticker string, rng date.Range) ([]opat.Price, error) {
	var prices []opat.Price
	for _, p := range t {
		if p.Ticker == ticker && within(rng, p.Date) {
			prices = append(prices, p)
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownTicker, ticker)
	}
	sortPrices(prices)
	return prices, nil
}

// Load returns the prices of all tickers within rng. Tickers unknown to src
// are skipped and returned in missing.
func Load(ctx context.Context, src Source, tickers []string, rng date.Range) (prices []opat.Price, missing []string, err error) {
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		list, err := src.Prices(ctx, ticker, rng)
		if errors.Is(err, ErrUnknownTicker) {
			missing = append(missing, ticker)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("could not load prices of %q: %w", ticker, err)
		}
		prices = append(prices, list...)
	}
	return prices, missing, nil
}
