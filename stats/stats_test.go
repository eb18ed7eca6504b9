package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/opat/opat/date"
)

const epsilon = 1e-12

// series is a helper for test to create a return series from date/value pairs.
func series(pairs ...any) *date.History[float64] {
	h := new(date.History[float64])
	for i := 0; i < len(pairs); i += 2 {
		h.Append(date.MustParse(pairs[i].(string)), pairs[i+1].(float64))
	}
	return h
}

func near(a, b float64) bool { return math.Abs(a-b) < epsilon }

func TestCumReturn(t *testing.T) {
	r := series("2025-01-06", 0.1, "2025-01-07", -0.05, "2025-01-08", 0.02)
	cum := CumReturn(r)
	want := []float64{0.1, 1.1*0.95 - 1, 1.1*0.95*1.02 - 1}
	if cum.Len() != len(want) {
		t.Fatalf("CumReturn().Len() = %d, want %d", cum.Len(), len(want))
	}
	i := 0
	for on, got := range cum.Values() {
		if !near(got, want[i]) {
			t.Errorf("CumReturn()[%s] = %v, want %v", on, got, want[i])
		}
		i++
	}
	if got, want := TotalReturn(r), 1.1*0.95*1.02-1; !near(got, want) {
		t.Errorf("TotalReturn() = %v, want %v", got, want)
	}
}

func TestCumReturn_Missing(t *testing.T) {
	r := series("2025-01-06", 0.1, "2025-01-07", math.NaN(), "2025-01-08", 0.1)
	_, got := CumReturn(r).Latest()
	if want := 1.1*1.1 - 1; !near(got, want) {
		t.Errorf("CumReturn() last = %v, want %v", got, want)
	}
}

func TestEmpty(t *testing.T) {
	empty := new(date.History[float64])
	if got := CumReturn(empty).Len(); got != 0 {
		t.Errorf("CumReturn(empty).Len() = %d, want 0", got)
	}
	if got := VAMI(empty, DefaultVAMIBase).Len(); got != 0 {
		t.Errorf("VAMI(empty).Len() = %d, want 0", got)
	}
	if got := TotalReturn(empty); !math.IsNaN(got) {
		t.Errorf("TotalReturn(empty) = %v, want NaN", got)
	}
	if got := AnnualizedReturn(empty, date.Range{}); !math.IsNaN(got) {
		t.Errorf("AnnualizedReturn(empty) = %v, want NaN", got)
	}
	if got := MonthlyReturn(empty).Len(); got != 0 {
		t.Errorf("MonthlyReturn(empty).Len() = %d, want 0", got)
	}
}

func TestVAMI(t *testing.T) {
	r := series("2025-01-06", 0.0, "2025-01-07", 0.0, "2025-01-08", 0.0)
	for on, got := range VAMI(r, DefaultVAMIBase).Values() {
		if got != 1000 {
			t.Errorf("VAMI()[%s] = %v, want 1000", on, got)
		}
	}

	r = series("2025-01-06", 0.1, "2025-01-07", -0.1)
	_, got := VAMI(r, 100).Latest()
	if want := 99.0; !near(got, want) {
		t.Errorf("VAMI(100) last = %v, want %v", got, want)
	}
}

func TestPeriodReturn(t *testing.T) {
	r := series(
		"2024-12-31", 0.1, // Tuesday, Q4 2024
		"2025-01-02", 0.1, // Thursday
		"2025-01-03", 0.1, // Friday
		"2025-01-06", 0.05, // Monday
		"2025-02-03", -0.5, // Monday
		"2025-04-01", 1.0, // Tuesday, Q2
	)
	testCases := []struct {
		name string
		got  *date.History[float64]
		want map[string]float64
	}{
		{
			name: "weekly",
			got:  WeeklyReturn(r),
			want: map[string]float64{"2025-01-05": 1.1*1.1*1.1 - 1, "2025-01-12": 0.05, "2025-02-09": -0.5, "2025-04-06": 1},
		},
		{
			name: "monthly",
			got:  MonthlyReturn(r),
			want: map[string]float64{"2024-12-31": 0.1, "2025-01-31": 1.1*1.1*1.05 - 1, "2025-02-28": -0.5, "2025-04-30": 1},
		},
		{
			name: "quarterly",
			got:  QuarterlyReturn(r),
			want: map[string]float64{"2024-12-31": 0.1, "2025-03-31": 1.1*1.1*1.05*0.5 - 1, "2025-06-30": 1},
		},
		{
			name: "annual",
			got:  AnnualReturn(r),
			want: map[string]float64{"2024-12-31": 0.1, "2025-12-31": 1.1*1.1*1.05*0.5*2 - 1},
		},
		{
			name: "daily",
			got:  PeriodReturn(r, date.Daily),
			want: map[string]float64{"2025-01-02": 0.1, "2025-02-03": -0.5},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.name != "daily" && tc.got.Len() != len(tc.want) {
				t.Errorf("Len() = %d, want %d", tc.got.Len(), len(tc.want))
			}
			for on, want := range tc.want {
				got, ok := tc.got.Get(date.MustParse(on))
				if !ok || !near(got, want) {
					t.Errorf("[%s] = %v, %v, want %v", on, got, ok, want)
				}
			}
		})
	}
}

func TestAnnualizedReturn(t *testing.T) {
	// 2020-01-01 to 2024-01-01 is 1461 days, exactly 4 years of 365.25 days.
	fourYears := math.Pow(1.1, 4) - 1
	r := series("2020-01-01", 0.0, "2024-01-01", fourYears)
	if got, want := AnnualizedReturn(r, date.Range{}), 0.1; !near(got, want) {
		t.Errorf("AnnualizedReturn() = %v, want %v", got, want)
	}

	// one year: the annualized return is the total return.
	r = series("2023-01-02", 0.05, "2023-07-03", 0.05)
	oneYear := date.Range{From: date.MustParse("2023-01-01"), To: date.MustParse("2023-01-01").Add(365)}
	got := AnnualizedReturn(r, oneYear)
	if want := math.Pow(1.05*1.05, DaysPerYear/365) - 1; !near(got, want) {
		t.Errorf("AnnualizedReturn(one year) = %v, want %v", got, want)
	}
	if math.Abs(got-TotalReturn(r)) > 1e-4 {
		t.Errorf("AnnualizedReturn(one year) = %v, want close to TotalReturn() = %v", got, TotalReturn(r))
	}

	single := series("2023-01-02", 0.05)
	if got := AnnualizedReturn(single, date.Range{}); !math.IsNaN(got) {
		t.Errorf("AnnualizedReturn(single) = %v, want NaN", got)
	}
}

func TestAnnualizedStd(t *testing.T) {
	r := series("2024-01-02", 0.01, "2024-01-03", -0.01, "2024-01-04", 0.01, "2024-01-05", -0.01, "2024-01-08", math.NaN())
	rng := date.Range{From: date.MustParse("2024-01-01"), To: date.MustParse("2025-01-01")}
	years := 366 / DaysPerYear
	want := math.Sqrt(0.0004/3) * math.Sqrt(4/years)
	if got := AnnualizedStd(r, rng); !near(got, want) {
		t.Errorf("AnnualizedStd() = %v, want %v", got, want)
	}

	if got := AnnualizedStd(series("2024-01-02", 0.01), rng); !math.IsNaN(got) {
		t.Errorf("AnnualizedStd(single) = %v, want NaN", got)
	}
}

func TestSummarize(t *testing.T) {
	r := series("2020-01-01", 0.0, "2024-01-01", math.Pow(1.1, 4)-1)
	s := Summarize("fund", r, date.Range{}, DefaultVAMIBase)
	if s.Count != 2 {
		t.Errorf("Count = %d, want 2", s.Count)
	}
	if !near(s.Annualized, 0.1) {
		t.Errorf("Annualized = %v, want 0.1", s.Annualized)
	}
	if !near(s.VAMI, 1000*math.Pow(1.1, 4)) {
		t.Errorf("VAMI = %v, want %v", s.VAMI, 1000*math.Pow(1.1, 4))
	}
	if got, want := s.Range.Days(), 1461; got != want {
		t.Errorf("Range.Days() = %d, want %d", got, want)
	}
}

func TestReadCSV(t *testing.T) {
	in := `Date,fund,benchmark
2025-01-06,0.01,0.02
2025-01-07,,NaN
2025-01-08,-0.01,0.005
`
	list, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "fund" || list[1].Name != "benchmark" {
		t.Fatalf("ReadCSV() = %v, want fund and benchmark", list)
	}
	if got := list[0].Returns.Len(); got != 3 {
		t.Errorf("fund Len() = %d, want 3", got)
	}
	if v, _ := list[1].Returns.Get(date.MustParse("2025-01-07")); !math.IsNaN(v) {
		t.Errorf("benchmark[2025-01-07] = %v, want NaN", v)
	}
	if v, _ := list[1].Returns.Get(date.MustParse("2025-01-08")); v != 0.005 {
		t.Errorf("benchmark[2025-01-08] = %v, want 0.005", v)
	}

	_, err = ReadCSV(strings.NewReader("date,fund\n2025-01-06,abc\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadCSV() error = %v, want a line 2 error", err)
	}
}
