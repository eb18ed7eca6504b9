package opat

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

// NavType is the kind of a NAV row.
type NavType string

const (
	Cash   NavType = "cash"
	Equity NavType = "equity"
)

// NavRecord is one component of the net asset value of a day. Cash rows have
// an empty ticker.
type NavRecord struct {
	Date   date.Date
	Type   NavType
	Ticker string
	Value  decimal.NullDecimal
}

// NAV is the daily net asset value table, sorted by date, type and ticker.
type NAV struct {
	Report

	rows  []NavRecord
	flows map[date.Date]decimal.Decimal
}

// BuildNAV values the portfolio every business day from the first flow, or
// the start of the holdings if later, to the last holding row.
//
// The cash row cumulates, from inception, the flows, the dividends received on
// the previous day position and the cash paid or received by trades. Equity
// rows mark every holding row to the forward-filled close.
func BuildNAV(h *Holdings, trades []Trade, prices []Price, flows []Flow) (*NAV, error) {
	n := &NAV{flows: make(map[date.Date]decimal.Decimal)}
	valid, err := validTrades(trades, h.lenient, &n.Report)
	if err != nil {
		return nil, fmt.Errorf("building nav: %w", err)
	}
	market := NewMarket(prices)

	// cash increments per business day.
	cash := make(map[date.Date]decimal.Decimal)
	var firstEvent, lastFlow, firstFlow date.Date
	for _, f := range flows {
		on := f.Date.RollForward()
		cash[on] = cash[on].Add(f.Amount)
		n.flows[on] = n.flows[on].Add(f.Amount)
		firstFlow = date.Min(firstFlow, on)
		lastFlow = date.Max(lastFlow, on)
	}
	firstEvent = firstFlow
	for _, t := range valid {
		if t.Date.After(h.end) {
			continue
		}
		cash[t.Date] = cash[t.Date].Sub(t.Price.Mul(t.delta))
		firstEvent = date.Min(firstEvent, t.Date)
	}
	for ticker := range h.series {
		divs := market.Dividends(ticker)
		if divs == nil {
			continue
		}
		for on, div := range divs.Values() {
			if on.After(h.end) {
				break
			}
			held := h.Quantity(ticker, on.PrevBusinessDay()).Mul(h.SplitRatio(ticker, on))
			if held.IsZero() {
				continue
			}
			cash[on] = cash[on].Add(div.Mul(held))
		}
	}

	from, to := firstFlow, h.Last()
	if from.IsZero() {
		from = h.First()
	}
	if to.IsZero() {
		to = lastFlow
	}
	// earlier events still count in the opening cash balance.
	if !h.start.IsZero() && from.Before(h.start) {
		from = h.start.RollForward()
	}
	if from.IsZero() || to.IsZero() || from.After(to) {
		return n, nil
	}

	rows := make([]NavRecord, 0, h.Len()+date.CountBusinessDays(from, to))
	seen := make(map[tickerDay]struct{})
	balance := decimal.Zero
	start := date.Min(firstEvent, from)
	for day := range date.BusinessDays(start, to) {
		balance = balance.Add(cash[day])
		if day.Before(from) {
			continue
		}
		rows = append(rows, NavRecord{Date: day, Type: Cash, Value: decimal.NewNullDecimal(balance)})
	}
	for _, r := range h.rows {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		rec := NavRecord{Date: r.Date, Type: Equity, Ticker: r.Ticker}
		if c, ok := market.Close(r.Ticker, r.Date); ok {
			rec.Value = decimal.NewNullDecimal(r.Quantity.Mul(c))
		} else {
			n.missing(seen, r.Ticker, r.Date)
		}
		rows = append(rows, rec)
	}
	slices.SortStableFunc(rows, func(a, b NavRecord) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := strings.Compare(string(a.Type), string(b.Type)); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	n.rows = rows
	return n, nil
}

// Rows returns a copy of the records.
func (n *NAV) Rows() []NavRecord { return slices.Clone(n.rows) }

// Len returns the number of records.
func (n *NAV) Len() int { return len(n.rows) }

// Days returns the dates of the table in chronological order.
func (n *NAV) Days() []date.Date {
	var days []date.Date
	for _, r := range n.rows {
		if k := len(days); k == 0 || !days[k-1].Equal(r.Date) {
			days = append(days, r.Date)
		}
	}
	return days
}

// Total returns the net asset value of day, the sum of its rows. It is
// invalid if a row of that day is invalid or if day is not in the table.
func (n *NAV) Total(day date.Date) decimal.NullDecimal {
	i, found := slices.BinarySearchFunc(n.rows, day, func(r NavRecord, d date.Date) int { return r.Date.Compare(d) })
	if !found {
		return decimal.NullDecimal{}
	}
	sum := decimal.Zero
	for ; i < len(n.rows) && n.rows[i].Date.Equal(day); i++ {
		if !n.rows[i].Value.Valid {
			return decimal.NullDecimal{}
		}
		sum = sum.Add(n.rows[i].Value.Decimal)
	}
	return decimal.NewNullDecimal(sum)
}

// Totals returns the daily net asset value. Invalid days are absent.
func (n *NAV) Totals() *date.History[decimal.Decimal] {
	days := n.Days()
	totals := date.NewHistory[decimal.Decimal](len(days))
	for _, day := range days {
		if t := n.Total(day); t.Valid {
			totals.Append(day, t.Decimal)
		}
	}
	return totals
}

// Returns derives the daily returns adjusted for the external flows:
// r[t] = (NAV[t] − flow[t]) / NAV[t−1] − 1. The return is NaN when either
// value is missing or the previous value is zero.
func (n *NAV) Returns() *date.History[float64] {
	days := n.Days()
	returns := date.NewHistory[float64](len(days))
	for i := 1; i < len(days); i++ {
		cur, prev := n.Total(days[i]), n.Total(days[i-1])
		if !cur.Valid || !prev.Valid || prev.Decimal.IsZero() {
			returns.Append(days[i], math.NaN())
			continue
		}
		r := cur.Decimal.Sub(n.flows[days[i]]).Div(prev.Decimal).Sub(one)
		returns.Append(days[i], r.InexactFloat64())
	}
	return returns
}
