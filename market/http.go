package market

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/opat/opat"
	"github.com/opat/opat/date"
)

// TickerParam is replaced by the ticker in HTTP.URL.
const TickerParam = "{ticker}"

// HTTP is a Source fetching the prices of a ticker from a JSON web API.
//
// URL is a template where TickerParam is replaced by the escaped ticker, e.g.
// "https://eodhd.com/api/eod/{ticker}?fmt=json&api_token=<key>". The price
// records are selected in the response by JSONPath, as for Dir.
type HTTP struct {
	URL      string
	JSONPath string       // DefaultJSONPath if empty.
	Client   *http.Client // http.DefaultClient if nil.
}

// Prices implements Source. A ticker not found (HTTP 404) is an unknown ticker.
func (s *HTTP) Prices(ctx context.Context, ticker string, rng date.Range) ([]opat.Price, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	addr := strings.ReplaceAll(s.URL, TickerParam, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownTicker, ticker, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	prices, err := DecodeJSON(content, s.JSONPath, ticker)
	if err != nil {
		return nil, fmt.Errorf("format error in %v%v: %w", req.URL.Host, req.URL.Path, err)
	}
	return filter(prices, rng), nil
}

// DailyCache is an http.RoundTripper that keeps the successful responses on
// disk for the rest of the day. Responses are keyed by day, method and URL.
type DailyCache struct {
	Day  date.Date
	Dir  string            // os.TempDir() if empty.
	Base http.RoundTripper // http.DefaultTransport if nil.
}

// NewDailyClient returns a client caching responses in dir until the end of day.
func NewDailyClient(day date.Date, dir string) *http.Client {
	return &http.Client{Transport: &DailyCache{Day: day, Dir: dir}}
}

func (c *DailyCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", c.Day, req.Method, req.URL)
	key = fmt.Sprintf("opat-%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}

	base := c.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil || resp.StatusCode >= 300 {
		return resp, err
	}
	// a failure to store only costs a new request.
	_ = c.put(key, resp)
	return resp, nil
}

func (c *DailyCache) file(key string) string {
	dir := c.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, key)
}

func (c *DailyCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(c.file(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores resp on disk. resp.Body is replaced so that it can still be read.
func (c *DailyCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(c.file(key), content, 0o644)
}
