package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opat/opat/date"
	"github.com/sirupsen/logrus/hooks/test"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newInputs(t *testing.T) (*inputs, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	return &inputs{cfg: &Config{Currency: "USD", VAMIBase: 1000, JSONPath: "$[*]"}, log: log, asof: "2025-01-10"}, hook
}

func TestInputs_Book(t *testing.T) {
	dir := t.TempDir()
	in, hook := newInputs(t)
	in.trades = writeFile(t, dir, "trades.csv", `date,ticker,price,quantity,action
2025-01-06,AAPL,100,10,Buy
2025-01-07,MSFT,50,4,Buy
`)
	in.flows = writeFile(t, dir, "flows.csv", "date,amount\n2025-01-06,10000\n")
	quotes := filepath.Join(dir, "quotes")
	if err := os.Mkdir(quotes, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, quotes, "AAPL.csv", `date,close
2025-01-06,101
2025-01-07,102
2025-01-13,110
`)
	in.pricesDir = quotes

	book, err := in.book(context.Background(), true)
	if err != nil {
		t.Fatalf("book() failed: %v", err)
	}
	if got, want := len(book.Trades), 2; got != want {
		t.Errorf("len(Trades) = %d, want %d", got, want)
	}
	if got, want := len(book.Flows), 1; got != want {
		t.Errorf("len(Flows) = %d, want %d", got, want)
	}
	// the price after -asof is not loaded.
	if got, want := len(book.Prices), 2; got != want {
		t.Errorf("len(Prices) = %d, want %d", got, want)
	}
	if got, want := book.Options.AsOf, date.New(2025, 1, 10); got != want {
		t.Errorf("AsOf = %v, want %v", got, want)
	}

	// MSFT has no price file.
	entries := hook.AllEntries()
	if len(entries) != 1 || entries[0].Data["ticker"] != "MSFT" {
		t.Errorf("got log entries %v, want one warning for MSFT", entries)
	}
}

func TestInputs_BookErrors(t *testing.T) {
	dir := t.TempDir()
	trades := writeFile(t, dir, "trades.csv", "date,ticker,price,quantity,action\n2025-01-06,AAPL,100,10,Buy\n")

	tests := []struct {
		name   string
		setup  func(in *inputs)
		prices bool
		want   string
	}{
		{"missing trades", func(in *inputs) { in.trades = filepath.Join(dir, "none.csv") }, false, "none.csv"},
		{"bad asof", func(in *inputs) { in.trades, in.asof = trades, "soon" }, false, "-asof"},
		{"bad start", func(in *inputs) { in.trades, in.start = trades, "later" }, false, "-start"},
		{"no prices", func(in *inputs) { in.trades = trades }, true, "no prices"},
		{"bad trades", func(in *inputs) {
			in.trades = writeFile(t, dir, "bad.csv", "date,ticker,price,quantity,action\nnot a date,AAPL,100,10,Buy\n")
		}, false, "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := newInputs(t)
			tt.setup(in)
			_, err := in.book(context.Background(), tt.prices)
			if err == nil {
				t.Fatalf("book() succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("book() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestPrintMarkdown_Raw(t *testing.T) {
	var b strings.Builder
	md := "# Title\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n"
	if err := printMarkdown(&b, md, true); err != nil {
		t.Fatalf("printMarkdown() failed: %v", err)
	}
	if got := b.String(); got != md {
		t.Errorf("printMarkdown(raw) = %q, want %q", got, md)
	}
}
