package bond

import (
	"math"
	"testing"
	"time"
)

const yearFractionTolerance = 1e-12

func TestYearFraction(t *testing.T) {
	tests := []struct {
		name  string
		start Date
		end   Date
		want  float64
	}{
		{"same day", NewDate(2025, time.March, 15), NewDate(2025, time.March, 15), 0},
		{"one day regular year", NewDate(2025, time.March, 15), NewDate(2025, time.March, 16), 1.0 / 365},
		{"one day leap year", NewDate(2024, time.February, 28), NewDate(2024, time.February, 29), 1.0 / 366},
		{"whole regular year", NewDate(2025, time.January, 1), NewDate(2026, time.January, 1), 1},
		{"whole leap year", NewDate(2024, time.January, 1), NewDate(2025, time.January, 1), 1},
		{"half of regular year", NewDate(2025, time.January, 1), NewDate(2025, time.July, 1), 181.0 / 365},
		{"spanning leap boundary", NewDate(2023, time.July, 1), NewDate(2024, time.July, 1), 184.0/365 + 182.0/366},
		{"three whole years", NewDate(2024, time.January, 1), NewDate(2027, time.January, 1), 3},
		{"backwards", NewDate(2026, time.January, 1), NewDate(2025, time.January, 1), -1},
		{"century non leap", NewDate(1900, time.January, 1), NewDate(1901, time.January, 1), 1},
		{"year 2000 leap", NewDate(2000, time.February, 28), NewDate(2000, time.March, 1), 2.0 / 366},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YearFraction(tt.start, tt.end)
			if math.Abs(got-tt.want) > yearFractionTolerance {
				t.Errorf("YearFraction(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// TestYearFractionAdditivity checks that splitting an interval at any point
// leaves the total unchanged: every day contributes 1/length-of-its-year, so
// the sum telescopes.
func TestYearFractionAdditivity(t *testing.T) {
	start := NewDate(2023, time.November, 15)
	end := NewDate(2025, time.March, 10)
	whole := YearFraction(start, end)

	for split := start; !split.After(end); split = split.Add(7) {
		sum := YearFraction(start, split) + YearFraction(split, end)
		if math.Abs(sum-whole) > yearFractionTolerance {
			t.Errorf("split at %v: %v + %v = %v, want %v",
				split, YearFraction(start, split), YearFraction(split, end), sum, whole)
		}
	}
}

// TestYearFractionAntisymmetry checks YearFraction(a, b) == -YearFraction(b, a).
func TestYearFractionAntisymmetry(t *testing.T) {
	a := NewDate(2024, time.February, 29)
	b := NewDate(2026, time.August, 1)
	if got, want := YearFraction(a, b), -YearFraction(b, a); got != want {
		t.Errorf("YearFraction(%v, %v) = %v, want %v", a, b, got, want)
	}
}

func TestDaysInYear(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2023, 365},
		{2024, 366},
		{1900, 365}, // divisible by 100 but not 400
		{2000, 366}, // divisible by 400
		{2100, 365},
	}
	for _, tt := range tests {
		if got := daysInYear(tt.year); got != tt.want {
			t.Errorf("daysInYear(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}
