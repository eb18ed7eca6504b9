// Package date provides a day-granularity Date, a Monday to Friday business
// day calendar, calendar periods and date-indexed series.
package date

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// alternate layouts accepted by Parse, tried in order after readDateFormat.
var layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/1/2",
	"1/2/2006",
	"20060102",
}

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the Date of t, in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current date. The computing packages never call it: the
// command line resolves it once and passes it down.
func Today() Date { return New(time.Now().Date()) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// ISOWeek returns the ISO 8601 year and week number in which d occurs.
func (d Date) ISOWeek() (year, week int) { return d.time().ISOWeek() }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns midnight UTC of that day.
func (d Date) Time() time.Time { return d.time() }

// UnixMilli returns the number of milliseconds elapsed since the Unix epoch at
// midnight UTC of that day.
func (d Date) UnixMilli() int64 { return d.time().UnixMilli() }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Format returns a textual representation of the date value formatted according to the layout defined by the argument.
//
//	See the documentation for the [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool { return d == x }

// Compare returns -1, 0 or +1 depending on whether d is before, equal or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmpInt(d.y, x.y)
	case d.m != x.m:
		return cmpInt(int(d.m), int(x.m))
	default:
		return cmpInt(d.d, x.d)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Sub returns the number of days between x and d (d - x).
func (d Date) Sub(x Date) int { return int(d.time().Sub(x.time()) / (24 * time.Hour)) }

// IsBusinessDay reports whether d is a Monday to Friday. Holidays are not
// taken into account.
func (d Date) IsBusinessDay() bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// RollForward returns d if it is a business day, or the next business day.
func (d Date) RollForward() Date {
	for !d.IsBusinessDay() {
		d = d.Add(1)
	}
	return d
}

// NextBusinessDay returns the first business day strictly after d.
func (d Date) NextBusinessDay() Date { return d.Add(1).RollForward() }

// PrevBusinessDay returns the last business day strictly before d.
func (d Date) PrevBusinessDay() Date {
	d = d.Add(-1)
	for !d.IsBusinessDay() {
		d = d.Add(-1)
	}
	return d
}

// BusinessDays returns an iterator over all business days between from and to,
// both included.
func BusinessDays(from, to Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := from.RollForward(); !d.After(to); d = d.NextBusinessDay() {
			if !yield(d) {
				return
			}
		}
	}
}

// CountBusinessDays returns the number of business days between from and to, both included.
func CountBusinessDays(from, to Date) int {
	n := 0
	for range BusinessDays(from, to) {
		n++
	}
	return n
}

// StartOf returns the date of begining of a given period
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		offset := int(d.Weekday() - time.Monday)
		if offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		quarter := (d.m - 1) / 3
		return New(d.y, quarter*3+1, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	default:
		panic(fmt.Sprintf("unknown period %d", period))
	}
}

// EndOf returns the date of end of a given period. Weeks end on Sunday.
func (d Date) EndOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		offset := int(time.Sunday - d.Weekday())
		if offset < 0 {
			offset += 7
		}
		return d.Add(offset)
	case Monthly:
		return New(d.y, d.m+1, 0)
	case Quarterly:
		quarter := (d.m - 1) / 3       // in [0..3]
		endMonth := quarter*3 + 3      // in [1..12] hence the +3
		return New(d.y, endMonth+1, 0) // last is next month on the day 0
	case Yearly:
		return New(d.y+1, time.January, 0)
	default:
		panic(fmt.Sprintf("unknown period %d", period))
	}
}

// Parse parses a Date from a string. It is lenient and accepts formats like
// "2025-7-1", "2025-07-01T00:00:00Z" or "7/1/2025".
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)
	on, err := time.Parse(readDateFormat, str)
	if err == nil {
		return Of(on), nil
	}
	for _, layout := range layouts {
		if on, lerr := time.Parse(layout, str); lerr == nil {
			return Of(on), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Min returns the earliest of the non zero dates, or the zero Date.
func Min(dates ...Date) Date {
	var m Date
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if m.IsZero() || d.Before(m) {
			m = d
		}
	}
	return m
}

// Max returns the latest of the dates, or the zero Date.
func Max(dates ...Date) Date {
	var m Date
	for _, d := range dates {
		if d.After(m) {
			m = d
		}
	}
	return m
}
