package opat

import (
	"maps"
	"slices"

	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

// Market indexes price records by ticker for as-of lookups.
type Market struct {
	closes    map[string]*date.History[decimal.Decimal]
	dividends map[string]*date.History[decimal.Decimal]
}

// NewMarket indexes prices. Close prices keep their own date and are
// forward-filled on lookup. Dividends are rolled forward onto the business day
// grid and summed when several fall on the same day. On a duplicated
// (ticker, date) close, the last record wins.
func NewMarket(prices []Price) *Market {
	m := &Market{
		closes:    make(map[string]*date.History[decimal.Decimal]),
		dividends: make(map[string]*date.History[decimal.Decimal]),
	}
	for _, p := range prices {
		c, ok := m.closes[p.Ticker]
		if !ok {
			c = new(date.History[decimal.Decimal])
			m.closes[p.Ticker] = c
		}
		c.Append(p.Date, p.Close)

		if p.Dividend.IsZero() {
			continue
		}
		d, ok := m.dividends[p.Ticker]
		if !ok {
			d = new(date.History[decimal.Decimal])
			m.dividends[p.Ticker] = d
		}
		on := p.Date.RollForward()
		prev, _ := d.Get(on)
		d.Append(on, prev.Add(p.Dividend))
	}
	return m
}

// Has reports whether the market has any price for ticker.
func (m *Market) Has(ticker string) bool {
	_, ok := m.closes[ticker]
	return ok
}

// Tickers returns the priced tickers in alphabetical order.
func (m *Market) Tickers() []string { return slices.Sorted(maps.Keys(m.closes)) }

// Close returns the close of ticker on day, or the most recent one before it.
// ok is false if there is no price on or before day.
func (m *Market) Close(ticker string, day date.Date) (price decimal.Decimal, ok bool) {
	c, found := m.closes[ticker]
	if !found {
		return decimal.Zero, false
	}
	return c.ValueAsOf(day)
}

// Dividend returns the dividend per share paid by ticker on the business day
// day, zero if none.
func (m *Market) Dividend(ticker string, day date.Date) decimal.Decimal {
	d, ok := m.dividends[ticker]
	if !ok {
		return decimal.Zero
	}
	v, _ := d.Get(day)
	return v
}

// Dividends returns the dividend history of ticker. It is nil if ticker
// never paid a dividend.
func (m *Market) Dividends(ticker string) *date.History[decimal.Decimal] {
	return m.dividends[ticker]
}
