package renderer

import (
	"fmt"
	"strings"

	"github.com/opat/opat"
	"github.com/shopspring/decimal"
)

// NAVMarkdown renders the daily net asset value, split between cash and
// equity, with the daily return.
func NAVMarkdown(n *opat.NAV, code string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Net Asset Value\n\n")

	returns := n.Returns()
	t := table{&b}
	t.header("Date", ">Cash", ">Equity", ">NAV", ">Return")

	rows := n.Rows()
	for i := 0; i < len(rows); {
		day := rows[i].Date
		var cash, equity decimal.NullDecimal
		equity = decimal.NewNullDecimal(decimal.Zero)
		for ; i < len(rows) && rows[i].Date.Equal(day); i++ {
			r := rows[i]
			switch r.Type {
			case opat.Cash:
				cash = r.Value
			case opat.Equity:
				if equity.Valid && r.Value.Valid {
					equity.Decimal = equity.Decimal.Add(r.Value.Decimal)
				} else {
					equity = decimal.NullDecimal{}
				}
			}
		}
		ret := missing
		if v, ok := returns.Get(day); ok {
			ret = Percent(v)
		}
		t.row(day.String(), nullAmount(cash, code), nullAmount(equity, code), nullAmount(n.Total(day), code), ret)
	}
	fmt.Fprintln(&b)

	renderReport(&b, &n.Report)
	return b.String()
}

// nullAmount is like NullAmount without sign.
func nullAmount(v decimal.NullDecimal, code string) string {
	if !v.Valid {
		return missing
	}
	return Amount(v.Decimal, code)
}
