package date

import (
	"slices"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	if got, want := New(2024, time.February, 30), New(2024, time.March, 1); got != want {
		t.Errorf("New(2024, 2, 30) = %v, want %v", got, want)
	}
	if got, want := New(2025, time.January, 0), New(2024, time.December, 31); got != want {
		t.Errorf("New(2025, 1, 0) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Date
		err   bool
	}{
		{"2025-01-15", New(2025, time.January, 15), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{" 2025-07-01 ", New(2025, time.July, 1), false},
		{"2025-07-01T00:00:00Z", New(2025, time.July, 1), false},
		{"2025-07-01 16:00:00", New(2025, time.July, 1), false},
		{"7/1/2025", New(2025, time.July, 1), false},
		{"20250701", New(2025, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, time.December, 31), New(2025, time.January, 1)
	if !a.Before(b) || b.Before(a) || !b.After(a) || a.After(b) {
		t.Errorf("Before/After inconsistent for %v and %v", a, b)
	}
	if a.Compare(a) != 0 || !a.Equal(a) {
		t.Errorf("%v.Compare(itself) != 0", a)
	}
	if got := b.Sub(a); got != 1 {
		t.Errorf("Sub() = %d, want 1", got)
	}
	if got := New(2021, 1, 1).Sub(New(2020, 1, 1)); got != 366 {
		t.Errorf("Sub() over a leap year = %d, want 366", got)
	}
}

func TestBusinessDays(t *testing.T) {
	// 2025-01-03 is a Friday.
	fri := New(2025, time.January, 3)
	sat, sun, mon := fri.Add(1), fri.Add(2), fri.Add(3)

	if !fri.IsBusinessDay() || sat.IsBusinessDay() || sun.IsBusinessDay() || !mon.IsBusinessDay() {
		t.Fatalf("IsBusinessDay() wrong around the weekend of %v", fri)
	}
	if got := sat.RollForward(); got != mon {
		t.Errorf("RollForward(%v) = %v, want %v", sat, got, mon)
	}
	if got := fri.RollForward(); got != fri {
		t.Errorf("RollForward(%v) = %v, want itself", fri, got)
	}
	if got := fri.NextBusinessDay(); got != mon {
		t.Errorf("NextBusinessDay(%v) = %v, want %v", fri, got, mon)
	}
	if got := mon.PrevBusinessDay(); got != fri {
		t.Errorf("PrevBusinessDay(%v) = %v, want %v", mon, got, fri)
	}

	got := slices.Collect(BusinessDays(New(2025, time.January, 2), New(2025, time.January, 7)))
	want := []Date{New(2025, 1, 2), New(2025, 1, 3), New(2025, 1, 6), New(2025, 1, 7)}
	if !slices.Equal(got, want) {
		t.Errorf("BusinessDays() = %v, want %v", got, want)
	}
	if n := CountBusinessDays(sat, sun); n != 0 {
		t.Errorf("CountBusinessDays(weekend) = %d, want 0", n)
	}
}

func TestStartOfEndOf(t *testing.T) {
	d := New(2025, time.May, 21) // a Wednesday
	tests := []struct {
		period     Period
		start, end Date
	}{
		{Daily, d, d},
		{Weekly, New(2025, time.May, 19), New(2025, time.May, 25)},
		{Monthly, New(2025, time.May, 1), New(2025, time.May, 31)},
		{Quarterly, New(2025, time.April, 1), New(2025, time.June, 30)},
		{Yearly, New(2025, time.January, 1), New(2025, time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			if got := d.StartOf(tt.period); got != tt.start {
				t.Errorf("StartOf(%v) = %v, want %v", tt.period, got, tt.start)
			}
			if got := d.EndOf(tt.period); got != tt.end {
				t.Errorf("EndOf(%v) = %v, want %v", tt.period, got, tt.end)
			}
		})
	}

	sunday := New(2025, time.May, 25)
	if got := sunday.EndOf(Weekly); got != sunday {
		t.Errorf("EndOf(Weekly) on a Sunday = %v, want itself", got)
	}
}

func TestUnixMilli(t *testing.T) {
	if got := New(1970, time.January, 2).UnixMilli(); got != 86400000 {
		t.Errorf("UnixMilli() = %d, want 86400000", got)
	}
}

func TestMinMax(t *testing.T) {
	a, b := New(2025, 1, 1), New(2025, 2, 1)
	if got := Min(Date{}, b, a); got != a {
		t.Errorf("Min() = %v, want %v", got, a)
	}
	if got := Max(a, Date{}, b); got != b {
		t.Errorf("Max() = %v, want %v", got, b)
	}
	if got := Min(); !got.IsZero() {
		t.Errorf("Min() of nothing = %v, want zero", got)
	}
}
