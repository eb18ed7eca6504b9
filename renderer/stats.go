package renderer

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/opat/opat/date"
	"github.com/opat/opat/stats"
)

func sortedKeys[V any](m map[string]V) []string { return slices.Sorted(maps.Keys(m)) }

// StatsMarkdown renders the summary statistics of several series.
func StatsMarkdown(summaries []stats.Summary) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Return Statistics\n\n")
	t := table{&b}
	t.header("Series", "From", "To", ">Obs.", ">Total", ">Annualized", ">Volatility", ">VAMI")
	for _, s := range summaries {
		vami := missing
		if !math.IsNaN(s.VAMI) {
			vami = strconv.FormatFloat(s.VAMI, 'f', 2, 64)
		}
		t.row(s.Name, s.Range.From.String(), s.Range.To.String(), strconv.Itoa(s.Count),
			Percent(s.Total), Percent(s.Annualized), Percent(s.Volatility), vami)
	}
	fmt.Fprintln(&b)
	return b.String()
}

// PeriodicMarkdown renders the compounded return of each period of every
// series, one column per series.
func PeriodicMarkdown(series []stats.Series, p date.Period) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Returns\n\n", title(p.String()))

	resampled := make([]*date.History[float64], len(series))
	var days []date.Date
	for i, s := range series {
		resampled[i] = stats.PeriodReturn(s.Returns, p)
		days = append(days, resampled[i].Days()...)
	}
	slices.SortFunc(days, date.Date.Compare)
	days = slices.Compact(days)

	t := table{&b}
	columns := []string{"Period"}
	for _, s := range series {
		columns = append(columns, ">"+s.Name)
	}
	t.header(columns...)
	for _, end := range days {
		cells := []string{date.NewRange(end, p).Identifier()}
		for _, r := range resampled {
			v, ok := r.Get(end)
			if !ok {
				cells = append(cells, missing)
				continue
			}
			cells = append(cells, Percent(v))
		}
		t.row(cells...)
	}
	fmt.Fprintln(&b)
	return b.String()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
