package renderer

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/opat/opat/date"
	"github.com/opat/opat/stats"
)

// Point is a chart point: a timestamp in milliseconds since the Unix epoch
// (UTC midnight of the day) and a value.
type Point struct {
	Time  int64
	Value float64
}

// MarshalJSON encodes p as [time, value]. A NaN value is null.
func (p Point) MarshalJSON() ([]byte, error) {
	b := []byte{'['}
	b = strconv.AppendInt(b, p.Time, 10)
	b = append(b, ',')
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		b = append(b, "null"...)
	} else {
		b = strconv.AppendFloat(b, p.Value, 'g', -1, 64)
	}
	return append(b, ']'), nil
}

// ChartSeries is one named line of a chart.
type ChartSeries struct {
	Name string  `json:"name"`
	Data []Point `json:"data"`
}

// NewChartSeries converts a date indexed series.
func NewChartSeries(name string, h *date.History[float64]) ChartSeries {
	s := ChartSeries{Name: name, Data: make([]Point, 0, h.Len())}
	for on, v := range h.Values() {
		s.Data = append(s.Data, Point{Time: on.UnixMilli(), Value: v})
	}
	return s
}

// Chart converts each return series into its cumulative return, or its VAMI
// when base is not zero.
func Chart(series []stats.Series, base float64) []ChartSeries {
	out := make([]ChartSeries, 0, len(series))
	for _, s := range series {
		h := stats.CumReturn(s.Returns)
		if base != 0 {
			h = stats.VAMI(s.Returns, base)
		}
		out = append(out, NewChartSeries(s.Name, h))
	}
	return out
}

// WriteChart writes the chart series as JSON.
func WriteChart(w io.Writer, series []ChartSeries) error {
	enc := json.NewEncoder(w)
	return enc.Encode(series)
}
