package util

import (
	"testing"
	"time"
)

func TestAddMonths_SameYear(t *testing.T) {
	tests := []struct {
		start  string
		months int
		want   string
	}{
		{"2024-01-01", 0, "2024-01-01"},
		{"2024-01-01", 1, "2024-02-01"},
		{"2024-01-15", 3, "2024-04-15"},
		{"2024-03-10", 6, "2024-09-10"},
	}

	for _, tt := range tests {
		start, _ := time.Parse("2006-01-02", tt.start)
		got := AddMonths(start, tt.months)
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("AddMonths(%s, %d) = %s, want %s",
				tt.start, tt.months, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestAddMonths_YearWrap(t *testing.T) {
	start := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 3)
	want := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonths(2024-11-05, 3) = %s, want %s", got, want)
	}
}

func TestAddMonths_MultipleYears(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 24)
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonths(2024-01-01, 24) = %s, want %s", got, want)
	}
}

// Pins the day-overflow resolution: clamp to the last day of the target month.
func TestAddMonths_ClampsDayOverflow(t *testing.T) {
	tests := []struct {
		start  string
		months int
		want   string
	}{
		{"2024-01-31", 1, "2024-02-29"}, // leap year
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-03-31", 1, "2024-04-30"},
		{"2024-10-31", 4, "2025-02-28"},
	}

	for _, tt := range tests {
		start, _ := time.Parse("2006-01-02", tt.start)
		got := AddMonths(start, tt.months)
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("AddMonths(%s, %d) = %s, want %s",
				tt.start, tt.months, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestAddMonths_Negative(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, -2)
	want := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonths(2024-01-15, -2) = %s, want %s", got, want)
	}
}

func TestActualDate_Clamps(t *testing.T) {
	got := ActualDate(2023, time.February, 31)
	want := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ActualDate(2023, Feb, 31) = %s, want %s", got, want)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2024, 2, 14, 10, 30, 0, 0, time.UTC))
	if start.Format("2006-01-02") != "2024-02-01" {
		t.Errorf("expected start 2024-02-01, got %s", start.Format("2006-01-02"))
	}
	if end.Format("2006-01-02") != "2024-02-29" {
		t.Errorf("expected end 2024-02-29, got %s", end.Format("2006-01-02"))
	}
}
