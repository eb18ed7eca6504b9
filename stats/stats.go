// Package stats computes return statistics over daily return series.
//
// A series is a *date.History[float64] of simple returns expressed as decimal
// fractions (0.01 is 1%). Missing observations are NaN: they compound as a
// zero return.
package stats

import (
	"fmt"
	"math"

	"github.com/opat/opat/date"
)

// DefaultVAMIBase is the traditional starting value of a VAMI.
const DefaultVAMIBase = 1000

// DaysPerYear is the average length of a year, leap years included.
const DaysPerYear = 365.25

// growth returns 1+r, with a missing r counted as 0.
func growth(r float64) float64 {
	if math.IsNaN(r) {
		return 1
	}
	return 1 + r
}

// TotalReturn returns the compounded return of the whole series:
// Π(1+rᵢ) − 1. It is NaN for an empty series.
func TotalReturn(r *date.History[float64]) float64 {
	if r.Len() == 0 {
		return math.NaN()
	}
	p := 1.0
	for _, v := range r.Values() {
		p *= growth(v)
	}
	return p - 1
}

// CumReturn returns the cumulative return series: cum[t] = Π_{i≤t}(1+rᵢ) − 1.
func CumReturn(r *date.History[float64]) *date.History[float64] {
	p := 1.0
	return date.Map(r, func(_ date.Date, v float64) float64 {
		p *= growth(v)
		return p - 1
	})
}

// VAMI returns the cumulative return rebased on start: start × (1 + cum).
func VAMI(r *date.History[float64], start float64) *date.History[float64] {
	return date.Map(CumReturn(r), func(_ date.Date, c float64) float64 { return start * (1 + c) })
}

// PeriodReturn returns the compounded return of each calendar period. Each
// point is dated by the last day of its period: weeks end on Sunday.
func PeriodReturn(r *date.History[float64], p date.Period) *date.History[float64] {
	var bucket func(date.Date) date.Date
	switch p {
	case date.Daily:
		bucket = func(d date.Date) date.Date { return d }
	case date.Weekly, date.Monthly, date.Quarterly, date.Yearly:
		bucket = func(d date.Date) date.Date { return d.EndOf(p) }
	default:
		panic(fmt.Sprintf("unknown period %d", int(p)))
	}

	out := new(date.History[float64])
	var (
		current date.Date
		g       float64
	)
	for on, v := range r.Values() {
		end := bucket(on)
		if !end.Equal(current) {
			if !current.IsZero() {
				out.Append(current, g-1)
			}
			current, g = end, 1
		}
		g *= growth(v)
	}
	if !current.IsZero() {
		out.Append(current, g-1)
	}
	return out
}

// WeeklyReturn returns the compounded return of each week, ending on Sunday.
func WeeklyReturn(r *date.History[float64]) *date.History[float64] {
	return PeriodReturn(r, date.Weekly)
}

// MonthlyReturn returns the compounded return of each month.
func MonthlyReturn(r *date.History[float64]) *date.History[float64] {
	return PeriodReturn(r, date.Monthly)
}

// QuarterlyReturn returns the compounded return of each quarter.
func QuarterlyReturn(r *date.History[float64]) *date.History[float64] {
	return PeriodReturn(r, date.Quarterly)
}

// AnnualReturn returns the compounded return of each calendar year.
func AnnualReturn(r *date.History[float64]) *date.History[float64] {
	return PeriodReturn(r, date.Yearly)
}

// span returns rng where zero boundaries default to the first and last day
// of r, and the number of years it covers.
func span(r *date.History[float64], rng date.Range) (date.Range, float64) {
	first, _ := r.First()
	last, _ := r.Latest()
	rng = rng.Or(date.Range{From: first, To: last})
	return rng, float64(rng.Days()) / DaysPerYear
}

// AnnualizedReturn returns (1+total)^(365.25/days) − 1 where days is the
// length of rng. Zero boundaries of rng default to the first and last day of
// the series, a sparse series can pass explicit ones. It is NaN when the
// range is empty.
func AnnualizedReturn(r *date.History[float64], rng date.Range) float64 {
	if r.Len() == 0 {
		return math.NaN()
	}
	_, years := span(r, rng)
	if years <= 0 {
		return math.NaN()
	}
	return math.Pow(1+TotalReturn(r), 1/years) - 1
}

// AnnualizedStd returns the sample standard deviation of the returns scaled
// by √(count/years). Missing observations are not counted. It is NaN with
// fewer than two observations or an empty range.
func AnnualizedStd(r *date.History[float64], rng date.Range) float64 {
	var n, mean, m2 float64
	for _, v := range r.Values() {
		if math.IsNaN(v) {
			continue
		}
		// Welford
		n++
		delta := v - mean
		mean += delta / n
		m2 += delta * (v - mean)
	}
	if n < 2 {
		return math.NaN()
	}
	_, years := span(r, rng)
	if years <= 0 {
		return math.NaN()
	}
	return math.Sqrt(m2/(n-1)) * math.Sqrt(n/years)
}

// Summary gathers the statistics of a series.
type Summary struct {
	Name       string
	Range      date.Range
	Count      int     // number of observations, missing ones excluded.
	Total      float64 // compounded return over the series.
	Annualized float64 // annualized return.
	Volatility float64 // annualized standard deviation.
	VAMI       float64 // last VAMI value.
}

// Summarize computes the Summary of r over rng. VAMI is computed from base.
func Summarize(name string, r *date.History[float64], rng date.Range, base float64) Summary {
	s := Summary{
		Name:       name,
		Total:      TotalReturn(r),
		Annualized: AnnualizedReturn(r, rng),
		Volatility: AnnualizedStd(r, rng),
		VAMI:       math.NaN(),
	}
	s.Range, _ = span(r, rng)
	for _, v := range r.Values() {
		if !math.IsNaN(v) {
			s.Count++
		}
	}
	if r.Len() > 0 {
		_, s.VAMI = VAMI(r, base).Latest()
	}
	return s
}
