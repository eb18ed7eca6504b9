package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/opat/opat"
	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

// DefaultJSONPath selects every element of a top level array.
const DefaultJSONPath = "$[*]"

// Dir is a Source reading one file per ticker in a folder: <TICKER>.csv or
// <TICKER>.json.
//
// CSV files have the columns of a price table, the ticker column being
// optional. JSON files are provider dumps: JSONPath selects the price
// records, each an object with date, close and optionally dividend and split
// members. Numbers may be written as JSON numbers or strings.
type Dir struct {
	Path     string
	JSONPath string // DefaultJSONPath if empty.
}

// Prices implements Source.
func (d *Dir) Prices(ctx context.Context, ticker string, rng date.Range) ([]opat.Price, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		prices []opat.Price
		err    error
	)
	base := filepath.Join(d.Path, ticker)
	switch {
	case exists(base + ".csv"):
		prices, err = d.readCSV(base+".csv", ticker)
	case exists(base + ".json"):
		prices, err = d.readJSON(base+".json", ticker)
	default:
		return nil, fmt.Errorf("%w %q: no price file in %q", ErrUnknownTicker, ticker, d.Path)
	}
	if err != nil {
		return nil, err
	}

	return filter(prices, rng), nil
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return !errors.Is(err, fs.ErrNotExist)
}

func (d *Dir) readCSV(name, ticker string) ([]opat.Price, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prices, err := opat.DecodeTickerPrices(f, ticker)
	if err != nil {
		return nil, fmt.Errorf("format error in %q: %w", name, err)
	}
	return prices, nil
}

func (d *Dir) readJSON(name, ticker string) ([]opat.Price, error) {
	content, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	prices, err := DecodeJSON(content, d.JSONPath, ticker)
	if err != nil {
		return nil, fmt.Errorf("format error in %q: %w", name, err)
	}
	return prices, nil
}

// DecodeJSON extracts the price records of ticker selected by path in a JSON
// document.
func DecodeJSON(content []byte, path, ticker string) ([]opat.Price, error) {
	if path == "" {
		path = DefaultJSONPath
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// jsonpath returns a single answer for a definite path, a list otherwise.
	jlist, ok := jval.([]any)
	if !ok {
		jlist = []any{jval}
	}

	prices := make([]opat.Price, 0, len(jlist))
	for i, jrec := range jlist {
		rec, ok := jrec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: not an object: %v", i, jrec)
		}
		p, err := decodeRecord(rec, ticker)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		prices = append(prices, p)
	}
	return prices, nil
}

func decodeRecord(rec map[string]any, ticker string) (p opat.Price, err error) {
	// member names are case insensitive.
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		fields[strings.ToLower(k)] = v
	}

	s, ok := fields["date"].(string)
	if !ok {
		return p, fmt.Errorf("missing date in %v", rec)
	}
	if p.Date, err = date.Parse(s); err != nil {
		return p, err
	}
	p.Ticker = ticker
	if t, ok := fields["ticker"].(string); ok && t != "" {
		p.Ticker = t
	}
	if p.Close, err = number(fields, "close", true); err != nil {
		return p, err
	}
	if p.Dividend, err = number(fields, "dividend", false); err != nil {
		return p, err
	}
	p.Split, err = number(fields, "split", false)
	return p, err
}

// number reads a decimal member written as a JSON number or a string.
func number(fields map[string]any, name string, required bool) (decimal.Decimal, error) {
	switch v := fields[name].(type) {
	case nil:
		if required {
			return decimal.Zero, fmt.Errorf("missing %s", name)
		}
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// some providers use a decimal comma.
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		if s == "" && !required {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("invalid %s: %v", name, v)
	}
}
