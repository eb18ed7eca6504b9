// Package renderer formats opat tables as markdown, and return series as
// chart data.
package renderer

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// missing is printed in place of a value that could not be computed.
const missing = "n/a"

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "USD"

// currency returns the currency of code, never nil.
func currency(code string) money.Currency {
	if code == "" {
		code = DefaultCurrency
	}
	// to get a never nil currency the Money constructor must be called.
	return *money.New(0, code).Currency()
}

// ValidCurrency reports whether code is a known ISO 4217 currency code.
func ValidCurrency(code string) bool { return money.GetCurrency(code) != nil }

// Amount formats v with the rules of currency code, e.g. "$1,234.56".
func Amount(v decimal.Decimal, code string) string {
	cur := currency(code)
	minor := v.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// SignedAmount is like Amount with an explicit sign. Zero is "-".
func SignedAmount(v decimal.Decimal, code string) string {
	switch {
	case v.IsZero():
		return "-"
	case v.IsPositive():
		return "+" + Amount(v, code)
	}
	return Amount(v, code)
}

// NullAmount formats a nullable amount, "n/a" when missing.
func NullAmount(v decimal.NullDecimal, code string) string {
	if !v.Valid {
		return missing
	}
	return SignedAmount(v.Decimal, code)
}

// Percent formats a ratio as a signed percentage with two decimals.
func Percent(r float64) string {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return missing
	}
	return fmt.Sprintf("%+.2f%%", r*100)
}

// table writes markdown tables.
type table struct {
	w io.Writer
}

// header prints the header row. Columns starting with ">" are right aligned.
func (t table) header(columns ...string) {
	names := make([]string, len(columns))
	align := make([]string, len(columns))
	for i, c := range columns {
		if right, ok := strings.CutPrefix(c, ">"); ok {
			names[i], align[i] = right, "---:"
		} else {
			names[i], align[i] = c, ":---"
		}
	}
	t.row(names...)
	t.row(align...)
}

func (t table) row(cells ...string) {
	fmt.Fprintf(t.w, "| %s |\n", strings.Join(cells, " | "))
}

func bold(s string) string { return "**" + s + "**" }
