package opat

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Options control the reconstruction of holdings.
type Options struct {
	// AsOf is the last day computed. When zero, the latest event date of the
	// input is used. The wall clock is never read.
	AsOf date.Date
	// Start is the first day emitted. Earlier trades are still accounted for.
	Start date.Date
	// Lenient skips invalid trades and splits instead of failing, and reports
	// them.
	Lenient bool
}

// Holding is the position on a ticker at the close of a day.
type Holding struct {
	Date        date.Date
	Ticker      string
	Type        string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// Holdings is the dense daily position table reconstructed from a ledger.
//
// Rows have a non zero quantity and are sorted by date and ticker. The
// embedded Report lists the skipped inputs and the ambiguous splits.
type Holdings struct {
	Report

	rows    []Holding
	lenient bool
	start   date.Date
	end     date.Date

	// per ticker, every business day from the first trade to end, zeros included.
	series map[string]*date.History[decimal.Decimal]
	types  map[string]string
	ratios map[tickerDay]decimal.Decimal
}

// signedTrade is a validated trade rolled onto the business day grid.
type signedTrade struct {
	Trade
	delta decimal.Decimal
}

// validTrades returns the valid trades rolled on the business day grid, in a
// stable chronological order. Invalid trades fail unless lenient.
func validTrades(trades []Trade, lenient bool, report *Report) ([]signedTrade, error) {
	valid := make([]signedTrade, 0, len(trades))
	for _, t := range trades {
		delta, err := t.signed()
		if err != nil {
			if !lenient {
				return nil, err
			}
			report.Skipped = append(report.Skipped, err)
			continue
		}
		t.Date = t.Date.RollForward()
		valid = append(valid, signedTrade{Trade: t, delta: delta})
	}
	slices.SortStableFunc(valid, func(a, b signedTrade) int { return a.Date.Compare(b.Date) })
	return valid, nil
}

// BuildHoldings reconstructs the daily holdings from trades and splits.
//
// Every business day (Monday to Friday) from a ticker's first trade to
// opts.AsOf gets the cumulated quantity of that ticker. On a split day the
// quantity becomes floor(prev×(ratio−1) + q) where prev is the previous
// business day quantity and q the quantity after that day's trades.
func BuildHoldings(trades []Trade, splits []Split, opts Options) (*Holdings, error) {
	h := &Holdings{
		lenient: opts.Lenient,
		start:   opts.Start,
		end:     opts.AsOf,
		series:  make(map[string]*date.History[decimal.Decimal]),
		types:   make(map[string]string),
		ratios:  make(map[tickerDay]decimal.Decimal),
	}

	valid, err := validTrades(trades, opts.Lenient, &h.Report)
	if err != nil {
		return nil, fmt.Errorf("building holdings: %w", err)
	}
	byTicker := make(map[string][]signedTrade)
	for _, t := range valid {
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	// splits per ticker and rolled date. Several splits on the same day compound.
	splitsBy := make(map[string]map[date.Date]Split)
	var lastSplit date.Date
	for _, s := range splits {
		if !s.Ratio.IsPositive() {
			err := &InvalidSplitError{Split: s}
			if !opts.Lenient {
				return nil, fmt.Errorf("building holdings: %w", err)
			}
			h.Skipped = append(h.Skipped, err)
			continue
		}
		on := s.Date.RollForward()
		m, ok := splitsBy[s.Ticker]
		if !ok {
			m = make(map[date.Date]Split)
			splitsBy[s.Ticker] = m
		}
		if prev, ok := m[on]; ok {
			s.Ratio = prev.Ratio.Mul(s.Ratio)
		}
		m[on] = s
		lastSplit = date.Max(lastSplit, on)
	}

	if h.end.IsZero() {
		h.end = lastSplit
		if n := len(valid); n > 0 {
			h.end = date.Max(h.end, valid[n-1].Date)
		}
	}

	tickers := slices.Sorted(maps.Keys(byTicker))
	buffers := make([][]Holding, 0, len(tickers))
	size := 0
	for _, ticker := range tickers {
		rows := h.walk(ticker, byTicker[ticker], splitsBy[ticker])
		buffers = append(buffers, rows)
		size += len(rows)
	}

	// splits on tickers never traded.
	for ticker, m := range splitsBy {
		if _, traded := byTicker[ticker]; traded {
			continue
		}
		for on, s := range m {
			if !on.After(h.end) {
				h.Ambiguous = append(h.Ambiguous, &AmbiguousSplitInputError{Split: s})
			}
		}
	}
	slices.SortFunc(h.Ambiguous, func(a, b *AmbiguousSplitInputError) int {
		if c := a.Split.Date.Compare(b.Split.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Split.Ticker, b.Split.Ticker)
	})

	h.rows = make([]Holding, 0, size)
	for _, rows := range buffers {
		h.rows = append(h.rows, rows...)
	}
	slices.SortStableFunc(h.rows, func(a, b Holding) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return h, nil
}

// walk computes the daily series of one ticker, day by day, and returns the
// rows to emit. trades are sorted by date.
func (h *Holdings) walk(ticker string, trades []signedTrade, splits map[date.Date]Split) []Holding {
	first := trades[0].Date
	h.types[ticker] = trades[0].Type
	if first.After(h.end) {
		for _, s := range splits {
			if !s.Date.RollForward().After(h.end) {
				h.Ambiguous = append(h.Ambiguous, &AmbiguousSplitInputError{Split: s})
			}
		}
		return nil
	}

	n := date.CountBusinessDays(first, h.end)
	series := date.NewHistory[decimal.Decimal](n)
	rows := make([]Holding, 0, n)
	applied := 0

	var q, cost decimal.Decimal
	i := 0
	for day := range date.BusinessDays(first, h.end) {
		prev := q
		for ; i < len(trades) && trades[i].Date.Equal(day); i++ {
			t := trades[i]
			cost = averageCost(q, cost, t.delta, t.Price)
			q = q.Add(t.delta)
			if t.Type != "" {
				h.types[ticker] = t.Type
			}
		}

		if s, ok := splits[day]; ok {
			applied++
			if prev.IsZero() {
				h.Ambiguous = append(h.Ambiguous, &AmbiguousSplitInputError{Split: s})
			} else {
				pre := q
				// fractional shares are dropped toward zero, long or short.
				q = prev.Mul(s.Ratio.Sub(one)).Add(q).Truncate(0)
				if !pre.IsZero() && !q.IsZero() {
					cost = cost.Mul(pre).Div(q)
				}
				h.ratios[tickerDay{day, ticker}] = s.Ratio
			}
		}
		if q.IsZero() {
			cost = decimal.Zero
		}

		series.Append(day, q)
		if q.IsZero() || day.Before(h.start) {
			continue
		}
		rows = append(rows, Holding{
			Date:        day,
			Ticker:      ticker,
			Type:        h.types[ticker],
			Quantity:    q,
			AverageCost: cost,
		})
	}
	h.series[ticker] = series

	// splits before the first trade were never walked over.
	if applied < len(splits) {
		for on, s := range splits {
			if on.Before(first) {
				h.Ambiguous = append(h.Ambiguous, &AmbiguousSplitInputError{Split: s})
			}
		}
	}
	return rows
}

// averageCost returns the average cost of a position of quantity q and
// average cost cost after a trade of delta at price.
//
// Increasing a position blends the cost, reducing it keeps the cost, and
// crossing zero resets it to the execution price.
func averageCost(q, cost, delta, price decimal.Decimal) decimal.Decimal {
	after := q.Add(delta)
	switch {
	case q.IsZero():
		return price
	case after.IsZero():
		return decimal.Zero
	case q.Sign() == delta.Sign():
		return cost.Mul(q).Add(price.Mul(delta)).Div(after)
	case q.Sign() == after.Sign():
		return cost
	default:
		return price
	}
}

// Rows returns a copy of the holding rows, sorted by date and ticker.
func (h *Holdings) Rows() []Holding { return slices.Clone(h.rows) }

// Len returns the number of rows.
func (h *Holdings) Len() int { return len(h.rows) }

// AsOf returns the last day computed.
func (h *Holdings) AsOf() date.Date { return h.end }

// Start returns the first day emitted, zero if not restricted.
func (h *Holdings) Start() date.Date { return h.start }

// Quantity returns the quantity of ticker held at the close of day. It is
// zero before the first trade of the ticker.
func (h *Holdings) Quantity(ticker string, day date.Date) decimal.Decimal {
	s, ok := h.series[ticker]
	if !ok {
		return decimal.Zero
	}
	q, _ := s.ValueAsOf(day)
	return q
}

// SplitRatio returns the split ratio applied on ticker on day, one if none.
func (h *Holdings) SplitRatio(ticker string, day date.Date) decimal.Decimal {
	if r, ok := h.ratios[tickerDay{day, ticker}]; ok {
		return r
	}
	return one
}

// Type returns the contract type of ticker.
func (h *Holdings) Type(ticker string) string { return h.types[ticker] }

// firstDay returns the first business day computed for ticker.
func (h *Holdings) firstDay(ticker string) (date.Date, bool) {
	s, ok := h.series[ticker]
	if !ok || s.Len() == 0 {
		return date.Date{}, false
	}
	on, _ := s.First()
	return on, true
}

// Tickers returns the tickers with at least one row, in alphabetical order.
func (h *Holdings) Tickers() []string {
	set := make(map[string]struct{})
	for _, r := range h.rows {
		set[r.Ticker] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Days returns the distinct dates of the rows in chronological order.
func (h *Holdings) Days() []date.Date {
	var days []date.Date
	for _, r := range h.rows {
		if n := len(days); n == 0 || !days[n-1].Equal(r.Date) {
			days = append(days, r.Date)
		}
	}
	return days
}

// First returns the date of the first row, zero if empty.
func (h *Holdings) First() date.Date {
	if len(h.rows) == 0 {
		return date.Date{}
	}
	return h.rows[0].Date
}

// Last returns the date of the last row, zero if empty.
func (h *Holdings) Last() date.Date {
	if len(h.rows) == 0 {
		return date.Date{}
	}
	return h.rows[len(h.rows)-1].Date
}

// On returns the rows of day.
func (h *Holdings) On(day date.Date) []Holding {
	i, _ := slices.BinarySearchFunc(h.rows, day, func(r Holding, d date.Date) int { return r.Date.Compare(d) })
	j := i
	for j < len(h.rows) && h.rows[j].Date.Equal(day) {
		j++
	}
	return slices.Clone(h.rows[i:j])
}
