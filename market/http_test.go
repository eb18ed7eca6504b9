package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opat/opat"
	"github.com/opat/opat/date"
)

// newServer serves a JSON document per ticker under /eod/<ticker> and counts the requests.
func newServer(t *testing.T, docs map[string]string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	hits := new(atomic.Int64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, doc)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestHTTP(t *testing.T) {
	srv, _ := newServer(t, map[string]string{
		"/eod/AAPL.US": `[
			{"date": "2025-01-07", "open": 100, "close": 101.5, "volume": 1000},
			{"date": "2025-01-06", "open": 99, "close": 100, "volume": 900},
			{"date": "2025-01-08", "open": 101, "close": 103, "volume": 800}
		]`,
		"/eod/BAD": `{"oops": true}`,
	})
	src := &HTTP{URL: srv.URL + "/eod/{ticker}?fmt=json"}
	ctx := context.Background()

	got, err := src.Prices(ctx, "AAPL.US", date.Range{To: date.MustParse("2025-01-07")})
	if err != nil {
		t.Fatalf("Prices() unexpected error: %v", err)
	}
	want := []opat.Price{price("2025-01-06", "AAPL.US", "100"), price("2025-01-07", "AAPL.US", "101.5")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Prices() mismatch (-want +got):\n%s", diff)
	}

	if _, err := src.Prices(ctx, "MSFT", date.Range{}); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("Prices(MSFT) error = %v, want %v", err, ErrUnknownTicker)
	}
	if _, err := src.Prices(ctx, "BAD", date.Range{}); err == nil {
		t.Error("Prices(BAD) succeeded, want a format error")
	}
}

func TestDailyCache(t *testing.T) {
	srv, hits := newServer(t, map[string]string{
		"/eod/AAPL": `[{"date": "2025-01-06", "close": 100}]`,
	})
	cache := t.TempDir()
	day := date.MustParse("2025-01-06")
	ctx := context.Background()

	src := &HTTP{URL: srv.URL + "/eod/{ticker}", Client: NewDailyClient(day, cache)}
	for i := 0; i < 3; i++ {
		got, err := src.Prices(ctx, "AAPL", date.Range{})
		if err != nil {
			t.Fatalf("Prices() call %d unexpected error: %v", i, err)
		}
		if len(got) != 1 || !got[0].Close.Equal(price("2025-01-06", "AAPL", "100").Close) {
			t.Errorf("Prices() call %d = %v, want the close of 2025-01-06", i, got)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}

	// not found responses are not cached.
	for i := 0; i < 2; i++ {
		src.Prices(ctx, "MSFT", date.Range{})
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}

	// the next day has its own entries.
	src.Client = NewDailyClient(day.Add(1), cache)
	if _, err := src.Prices(ctx, "AAPL", date.Range{}); err != nil {
		t.Fatalf("Prices() unexpected error: %v", err)
	}
	if got := hits.Load(); got != 4 {
		t.Errorf("server hit %d times, want 4", got)
	}
}
