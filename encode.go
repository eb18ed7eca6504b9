package opat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

// This file reads the input tables and writes the derived ones as CSV.
//
// Header names are case insensitive and may appear in any order. Unknown
// columns are ignored. A few aliases are accepted so that ledgers exported by
// other tools can be read as is.

var aliases = map[string]string{
	"contract":      "ticker",
	"symbol":        "ticker",
	"contract type": "type",
	"contract-type": "type",
	"contract_type": "type",
	"qty":           "quantity",
	"side":          "action",
	"ratio":         "split",
}

// header maps canonical column names to their index.
type header map[string]int

func newHeader(names []string) header {
	h := make(header, len(names))
	for i, name := range names {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

// row is a record read with its header.
type row struct {
	h   header
	rec []string
}

func (r row) str(name string) string {
	i, ok := r.h[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) date(name string) (date.Date, error) {
	s := r.str(name)
	if s == "" {
		return date.Date{}, fmt.Errorf("missing %s", name)
	}
	return date.Parse(s)
}

func (r row) decimal(name string) (decimal.Decimal, error) {
	s := r.str(name)
	if s == "" {
		return decimal.Zero, fmt.Errorf("missing %s", name)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return d, nil
}

// optional returns zero for an empty cell.
func (r row) optional(name string) (decimal.Decimal, error) {
	if r.str(name) == "" {
		return decimal.Zero, nil
	}
	return r.decimal(name)
}

// decodeCSV reads a CSV table whose header contains the required columns and
// parses every record with parse. Errors carry the line number.
func decodeCSV[T any](r io.Reader, required []string, parse func(row) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	names, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	h := newHeader(names)
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header %q", name, strings.Join(names, ","))
		}
	}

	var list []T
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return list, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		v, err := parse(row{h, rec})
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		list = append(list, v)
	}
}

// DecodeTrades reads a trade table: date, ticker, type (optional), price,
// quantity, action.
func DecodeTrades(r io.Reader) ([]Trade, error) {
	return decodeCSV(r, []string{"date", "ticker", "price", "quantity", "action"}, func(r row) (t Trade, err error) {
		if t.Date, err = r.date("date"); err != nil {
			return t, err
		}
		if t.Ticker = r.str("ticker"); t.Ticker == "" {
			return t, errors.New("missing ticker")
		}
		t.Type = r.str("type")
		if t.Price, err = r.decimal("price"); err != nil {
			return t, err
		}
		if t.Quantity, err = r.decimal("quantity"); err != nil {
			return t, err
		}
		t.Action = ParseAction(r.str("action"))
		return t, nil
	})
}

// DecodeSplits reads a split table: date, ticker, split.
func DecodeSplits(r io.Reader) ([]Split, error) {
	return decodeCSV(r, []string{"date", "ticker", "split"}, func(r row) (s Split, err error) {
		if s.Date, err = r.date("date"); err != nil {
			return s, err
		}
		if s.Ticker = r.str("ticker"); s.Ticker == "" {
			return s, errors.New("missing ticker")
		}
		s.Ratio, err = r.decimal("split")
		return s, err
	})
}

// DecodePrices reads a price table: date, ticker, close, dividend (optional),
// split (optional).
func DecodePrices(r io.Reader) ([]Price, error) {
	return decodePrices(r, "", []string{"date", "ticker", "close"})
}

// DecodeTickerPrices reads the price table of a single ticker. The ticker
// column is optional and defaults to ticker.
func DecodeTickerPrices(r io.Reader, ticker string) ([]Price, error) {
	return decodePrices(r, ticker, []string{"date", "close"})
}

func decodePrices(r io.Reader, ticker string, required []string) ([]Price, error) {
	return decodeCSV(r, required, func(r row) (p Price, err error) {
		if p.Date, err = r.date("date"); err != nil {
			return p, err
		}
		if p.Ticker = r.str("ticker"); p.Ticker == "" {
			p.Ticker = ticker
		}
		if p.Ticker == "" {
			return p, errors.New("missing ticker")
		}
		if p.Close, err = r.decimal("close"); err != nil {
			return p, err
		}
		if p.Dividend, err = r.optional("dividend"); err != nil {
			return p, err
		}
		p.Split, err = r.optional("split")
		return p, err
	})
}

// DecodeFlows reads a cash flow table: date, amount.
func DecodeFlows(r io.Reader) ([]Flow, error) {
	return decodeCSV(r, []string{"date", "amount"}, func(r row) (f Flow, err error) {
		if f.Date, err = r.date("date"); err != nil {
			return f, err
		}
		f.Amount, err = r.decimal("amount")
		return f, err
	})
}

// cell formats a nullable decimal, empty when missing.
func cell(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

func writeCSV(w io.Writer, head []string, records iter.Seq[[]string]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(head); err != nil {
		return err
	}
	for rec := range records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeHoldings writes the holdings as CSV.
func EncodeHoldings(w io.Writer, h *Holdings) error {
	return writeCSV(w, []string{"date", "ticker", "type", "quantity", "average_cost"}, func(yield func([]string) bool) {
		for _, r := range h.rows {
			if !yield([]string{r.Date.String(), r.Ticker, r.Type, r.Quantity.String(), r.AverageCost.String()}) {
				return
			}
		}
	})
}

// EncodePnL writes the PnL records as CSV. Missing cells are empty.
func EncodePnL(w io.Writer, p *PnL) error {
	return writeCSV(w, []string{"date", "ticker", "holding", "trading", "total"}, func(yield func([]string) bool) {
		for _, r := range p.rows {
			if !yield([]string{r.Date.String(), r.Ticker, cell(r.Holding), cell(r.Trading), cell(r.Total)}) {
				return
			}
		}
	})
}

// EncodeNAV writes the NAV records as CSV. Missing cells are empty.
func EncodeNAV(w io.Writer, n *NAV) error {
	return writeCSV(w, []string{"date", "type", "ticker", "nav"}, func(yield func([]string) bool) {
		for _, r := range n.rows {
			if !yield([]string{r.Date.String(), string(r.Type), r.Ticker, cell(r.Value)}) {
				return
			}
		}
	})
}
