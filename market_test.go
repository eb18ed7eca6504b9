package opat

import "testing"

func TestMarket(t *testing.T) {
	m := NewMarket([]Price{
		px("2025-01-06", "AAPL", "100"),
		px("2025-01-08", "AAPL", "102"),
		{Date: d("2025-01-11"), Ticker: "AAPL", Close: dec("103"), Dividend: dec("0.25")},
		{Date: d("2025-01-13"), Ticker: "AAPL", Close: dec("104"), Dividend: dec("0.25")},
		px("2025-01-07", "GOOG", "200"),
	})

	testCases := []struct {
		ticker string
		on     string
		want   string
		wantOK bool
	}{
		{"AAPL", "2025-01-03", "0", false},
		{"AAPL", "2025-01-06", "100", true},
		{"AAPL", "2025-01-07", "100", true},
		{"AAPL", "2025-01-08", "102", true},
		{"AAPL", "2025-01-12", "103", true},
		{"GOOG", "2025-01-06", "0", false},
		{"MSFT", "2025-01-06", "0", false},
	}
	for _, tc := range testCases {
		got, ok := m.Close(tc.ticker, d(tc.on))
		if ok != tc.wantOK || !got.Equal(dec(tc.want)) {
			t.Errorf("Close(%s, %s) = %v, %v, want %s, %v", tc.ticker, tc.on, got, ok, tc.want, tc.wantOK)
		}
	}

	// the saturday dividend is rolled to monday and summed.
	if got, want := m.Dividend("AAPL", d("2025-01-13")), dec("0.5"); !got.Equal(want) {
		t.Errorf("Dividend(AAPL, 2025-01-13) = %v, want %v", got, want)
	}
	if got := m.Dividend("GOOG", d("2025-01-13")); !got.IsZero() {
		t.Errorf("Dividend(GOOG, 2025-01-13) = %v, want 0", got)
	}
	if !m.Has("GOOG") || m.Has("MSFT") {
		t.Errorf("Has(GOOG), Has(MSFT) = %v, %v, want true, false", m.Has("GOOG"), m.Has("MSFT"))
	}
	if got := m.Tickers(); len(got) != 2 || got[0] != "AAPL" {
		t.Errorf("Tickers() = %v, want [AAPL GOOG]", got)
	}
}
