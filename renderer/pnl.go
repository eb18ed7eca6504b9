package renderer

import (
	"fmt"
	"strings"

	"github.com/opat/opat"
)

// PnLMarkdown renders the profit and loss per ticker, then per day.
func PnLMarkdown(p *opat.PnL, code string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Profit and Loss\n\n")

	fmt.Fprint(&b, "## Per Ticker\n\n")
	t := table{&b}
	t.header("Ticker", ">PnL")
	byTicker := p.ByTicker()
	for _, ticker := range sortedKeys(byTicker) {
		t.row(ticker, SignedAmount(byTicker[ticker], code))
	}
	t.row(bold("Total"), bold(SignedAmount(p.Total(), code)))
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Daily\n\n")
	t.header("Date", "Ticker", ">Holding", ">Trading", ">Total")
	for _, r := range p.Rows() {
		t.row(r.Date.String(), r.Ticker, NullAmount(r.Holding, code), NullAmount(r.Trading, code), NullAmount(r.Total, code))
	}
	fmt.Fprintln(&b)

	renderReport(&b, &p.Report)
	return b.String()
}
