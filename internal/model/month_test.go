package model_test

import (
	"testing"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/model"
)

// TestMonthYear_AddMonths tests calendar month arithmetic.
//
// WHY: Every buffer write and baseline lookup is built on month arithmetic.
// An off-by-one at a year boundary silently corrupts the snapshot series, so
// rollover in both directions gets explicit coverage.
func TestMonthYear_AddMonths(t *testing.T) {
	tests := []struct {
		name string
		m    model.MonthYear
		n    int
		want model.MonthYear
	}{
		{"zero months", model.MonthYear{Month: 5, Year: 2024}, 0, model.MonthYear{Month: 5, Year: 2024}},
		{"within year", model.MonthYear{Month: 3, Year: 2024}, 4, model.MonthYear{Month: 7, Year: 2024}},
		{"forward over year boundary", model.MonthYear{Month: 11, Year: 2024}, 3, model.MonthYear{Month: 2, Year: 2025}},
		{"december plus one", model.MonthYear{Month: 12, Year: 2024}, 1, model.MonthYear{Month: 1, Year: 2025}},
		{"backward within year", model.MonthYear{Month: 5, Year: 2024}, -2, model.MonthYear{Month: 3, Year: 2024}},
		{"backward over year boundary", model.MonthYear{Month: 1, Year: 2024}, -2, model.MonthYear{Month: 11, Year: 2023}},
		{"full year forward", model.MonthYear{Month: 6, Year: 2024}, 12, model.MonthYear{Month: 6, Year: 2025}},
		{"full year backward", model.MonthYear{Month: 6, Year: 2024}, -12, model.MonthYear{Month: 6, Year: 2023}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.AddMonths(tt.n)
			if got != tt.want {
				t.Errorf("AddMonths(%d) on %v = %v, want %v", tt.n, tt.m, got, tt.want)
			}
		})
	}
}

// TestMonthYear_Ordering tests Before and After comparisons.
func TestMonthYear_Ordering(t *testing.T) {
	earlier := model.MonthYear{Month: 12, Year: 2023}
	later := model.MonthYear{Month: 1, Year: 2024}

	if !earlier.Before(later) {
		t.Errorf("Expected %v to be before %v", earlier, later)
	}
	if !later.After(earlier) {
		t.Errorf("Expected %v to be after %v", later, earlier)
	}
	if earlier.Before(earlier) {
		t.Error("A month must not be before itself")
	}
	if earlier.After(earlier) {
		t.Error("A month must not be after itself")
	}
}

// TestMonthYear_Start tests the month start timestamp.
func TestMonthYear_Start(t *testing.T) {
	m := model.MonthYear{Month: 2, Year: 2024}
	want := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	if got := m.Start(); !got.Equal(want) {
		t.Errorf("Start() = %v, want %v", got, want)
	}
}

// TestMonthYearOf tests extraction from a timestamp.
func TestMonthYearOf(t *testing.T) {
	ts := time.Date(2024, time.November, 30, 23, 59, 59, 0, time.UTC)
	want := model.MonthYear{Month: 11, Year: 2024}

	if got := model.MonthYearOf(ts); got != want {
		t.Errorf("MonthYearOf(%v) = %v, want %v", ts, got, want)
	}
}
