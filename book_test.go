package opat

import (
	"math"
	"testing"
)

func TestBook(t *testing.T) {
	b := &Book{
		Trades: []Trade{buy("2025-01-06", "AAPL", "100", "100")},
		Prices: []Price{
			px("2025-01-06", "AAPL", "100"),
			{Date: d("2025-01-07"), Ticker: "AAPL", Close: dec("55"), Split: dec("2")},
			px("2025-01-08", "AAPL", "55"),
		},
		Flows:   []Flow{{Date: d("2025-01-06"), Amount: dec("10000")}},
		Options: Options{AsOf: d("2025-01-08")},
	}

	h, err := b.Holdings()
	if err != nil {
		t.Fatalf("Holdings() unexpected error: %v", err)
	}
	if got, want := h.Quantity("AAPL", d("2025-01-07")), dec("200"); !got.Equal(want) {
		t.Errorf("Quantity(2025-01-07) = %v, want %v (inline split)", got, want)
	}

	p, _, err := b.PnL()
	if err != nil {
		t.Fatalf("PnL() unexpected error: %v", err)
	}
	if got, want := p.Total(), dec("1000"); !got.Equal(want) {
		t.Errorf("PnL().Total() = %v, want %v", got, want)
	}

	n, _, err := b.NAV()
	if err != nil {
		t.Fatalf("NAV() unexpected error: %v", err)
	}
	if got, want := n.Total(d("2025-01-08")).Decimal, dec("11000"); !got.Equal(want) {
		t.Errorf("NAV().Total(2025-01-08) = %v, want %v", got, want)
	}

	r, err := b.Returns()
	if err != nil {
		t.Fatalf("Returns() unexpected error: %v", err)
	}
	got, _ := r.Get(d("2025-01-07"))
	if want := 0.1; math.Abs(got-want) > 1e-12 {
		t.Errorf("Returns()[2025-01-07] = %v, want %v", got, want)
	}
}

func TestBook_ExplicitSplitWins(t *testing.T) {
	b := &Book{
		Trades:  []Trade{buy("2025-01-06", "AAPL", "10", "100")},
		Splits:  []Split{{Date: d("2025-01-07"), Ticker: "AAPL", Ratio: dec("3")}},
		Prices:  []Price{{Date: d("2025-01-07"), Ticker: "AAPL", Close: dec("50"), Split: dec("2")}},
		Options: Options{AsOf: d("2025-01-07")},
	}
	h, err := b.Holdings()
	if err != nil {
		t.Fatalf("Holdings() unexpected error: %v", err)
	}
	if got, want := h.Quantity("AAPL", d("2025-01-07")), dec("30"); !got.Equal(want) {
		t.Errorf("Quantity(2025-01-07) = %v, want %v", got, want)
	}
}
