package opat

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

// PnLRecord is the profit and loss of a ticker on a day. A cell is invalid
// when a price it needs is missing.
type PnLRecord struct {
	Date    date.Date
	Ticker  string
	Holding decimal.NullDecimal // from the position held the day before.
	Trading decimal.NullDecimal // from the trades of the day, marked to the close.
	Total   decimal.NullDecimal
}

// PnL is the daily profit and loss table, sorted by date and ticker.
type PnL struct {
	Report

	rows []PnLRecord
}

// BuildPnL attributes the daily profit and loss of every ticker of h.
//
// The holding component is prev×r×(close[t] − close[t−1]/r) + dividend×prev×r
// where prev is the previous business day quantity and r the split ratio
// applied on t. The trading component is the sum of (close[t] − price) ×
// signed quantity over the trades of the day. Rows exist on days with a
// previous day position or a trade.
func BuildPnL(h *Holdings, trades []Trade, prices []Price) (*PnL, error) {
	p := new(PnL)
	valid, err := validTrades(trades, h.lenient, &p.Report)
	if err != nil {
		return nil, fmt.Errorf("building pnl: %w", err)
	}
	byTicker := make(map[string][]signedTrade)
	for _, t := range valid {
		if t.Date.After(h.end) {
			continue
		}
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	market := NewMarket(prices)
	seen := make(map[tickerDay]struct{})

	tickers := slices.Sorted(maps.Keys(h.series))
	buffers := make([][]PnLRecord, 0, len(tickers))
	size := 0
	for _, ticker := range tickers {
		rows := p.walk(h, market, ticker, byTicker[ticker], seen)
		buffers = append(buffers, rows)
		size += len(rows)
	}

	p.rows = make([]PnLRecord, 0, size)
	for _, rows := range buffers {
		p.rows = append(p.rows, rows...)
	}
	slices.SortStableFunc(p.rows, func(a, b PnLRecord) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	slices.SortFunc(p.Missing, func(a, b *MissingPriceError) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return p, nil
}

func (p *PnL) walk(h *Holdings, market *Market, ticker string, trades []signedTrade, seen map[tickerDay]struct{}) []PnLRecord {
	first, ok := h.firstDay(ticker)
	if !ok {
		return nil
	}
	from := date.Max(first, h.start)
	rows := make([]PnLRecord, 0, date.CountBusinessDays(from, h.end))

	i := 0
	for i < len(trades) && trades[i].Date.Before(from) {
		i++
	}
	for day := range date.BusinessDays(from, h.end) {
		before := day.PrevBusinessDay()
		prev := h.Quantity(ticker, before)
		j := i
		for j < len(trades) && trades[j].Date.Equal(day) {
			j++
		}
		today := trades[i:j]
		i = j
		if prev.IsZero() && len(today) == 0 {
			continue
		}

		rec := PnLRecord{Date: day, Ticker: ticker}
		closeT, okT := market.Close(ticker, day)
		if !okT {
			p.missing(seen, ticker, day)
		}

		rec.Holding = decimal.NewNullDecimal(decimal.Zero)
		if !prev.IsZero() {
			closeP, okP := market.Close(ticker, before)
			if !okP {
				p.missing(seen, ticker, day)
			}
			if okT && okP {
				r := h.SplitRatio(ticker, day)
				held := prev.Mul(r)
				v := held.Mul(closeT.Sub(closeP.Div(r)))
				v = v.Add(market.Dividend(ticker, day).Mul(held))
				rec.Holding = decimal.NewNullDecimal(v)
			} else {
				rec.Holding = decimal.NullDecimal{}
			}
		}

		rec.Trading = decimal.NewNullDecimal(decimal.Zero)
		if len(today) > 0 {
			if okT {
				v := decimal.Zero
				for _, t := range today {
					v = v.Add(closeT.Sub(t.Price).Mul(t.delta))
				}
				rec.Trading = decimal.NewNullDecimal(v)
			} else {
				rec.Trading = decimal.NullDecimal{}
			}
		}

		if rec.Holding.Valid && rec.Trading.Valid {
			rec.Total = decimal.NewNullDecimal(rec.Holding.Decimal.Add(rec.Trading.Decimal))
		}
		rows = append(rows, rec)
	}
	return rows
}

// Rows returns a copy of the records, sorted by date and ticker.
func (p *PnL) Rows() []PnLRecord { return slices.Clone(p.rows) }

// Len returns the number of records.
func (p *PnL) Len() int { return len(p.rows) }

// Total returns the sum of all valid total cells.
func (p *PnL) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range p.rows {
		if r.Total.Valid {
			sum = sum.Add(r.Total.Decimal)
		}
	}
	return sum
}

// ByTicker returns the sum of the valid total cells per ticker.
func (p *PnL) ByTicker() map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range p.rows {
		if r.Total.Valid {
			sums[r.Ticker] = sums[r.Ticker].Add(r.Total.Decimal)
		}
	}
	return sums
}

// Daily returns the sum of the valid total cells per date.
func (p *PnL) Daily() *date.History[decimal.Decimal] {
	daily := new(date.History[decimal.Decimal])
	for _, r := range p.rows {
		if !r.Total.Valid {
			continue
		}
		v, _ := daily.Get(r.Date)
		daily.Append(r.Date, v.Add(r.Total.Decimal))
	}
	return daily
}
