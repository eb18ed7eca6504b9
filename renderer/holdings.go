package renderer

import (
	"fmt"
	"strings"

	"github.com/opat/opat"
	"github.com/opat/opat/date"
)

// HoldingsMarkdown renders the positions held at the close of day. A zero day
// means the last day of the holdings. A weekend day shows the Friday before.
func HoldingsMarkdown(h *opat.Holdings, day date.Date, code string) string {
	if day.IsZero() {
		day = h.AsOf()
	}
	if !day.IsBusinessDay() {
		day = day.PrevBusinessDay()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings on %s\n\n", day)

	rows := h.On(day)
	if len(rows) == 0 {
		fmt.Fprint(&b, "No position.\n\n")
	} else {
		t := table{&b}
		t.header("Ticker", "Type", ">Quantity", ">Average Cost")
		for _, r := range rows {
			t.row(r.Ticker, r.Type, r.Quantity.String(), Amount(r.AverageCost, code))
		}
		fmt.Fprintln(&b)
	}
	renderReport(&b, &h.Report)
	return b.String()
}
