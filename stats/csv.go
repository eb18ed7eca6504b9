package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/opat/opat/date"
)

// Series is a named return series.
type Series struct {
	Name    string
	Returns *date.History[float64]
}

// ReadCSV reads a table of return series. The first column holds the dates,
// every other column is a series named after its header. Blank cells and
// "NaN" are missing observations.
func ReadCSV(r io.Reader) ([]Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(head) < 2 {
		return nil, fmt.Errorf("header %q: want a date column and at least one series", strings.Join(head, ","))
	}

	series := make([]Series, len(head)-1)
	for i, name := range head[1:] {
		series[i] = Series{Name: strings.TrimSpace(name), Returns: new(date.History[float64])}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return series, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		on, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for i, cell := range rec[1:] {
			v, err := parseReturn(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, series[i].Name, err)
			}
			series[i].Returns.Append(on, v)
		}
	}
}

func parseReturn(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
