package util

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name string
		t    time.Time
		loc  *time.Location
		want string
	}{
		{"utc mid month", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), nil, "2024-03"},
		{"utc first instant", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.UTC, "2024-04"},
		{"shifted back a month", time.Date(2024, 4, 1, 1, 0, 0, 0, time.UTC), saoPaulo, "2024-03"},
		{"year boundary", time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC), saoPaulo, "2024-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthKey(tt.t, tt.loc); got != tt.want {
				t.Errorf("MonthKey() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseMonthKey(t *testing.T) {
	got, err := ParseMonthKey("2024-02", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseMonthKey() = %v, want %v", got, want)
	}

	if _, err := ParseMonthKey("2024/02", nil); err == nil {
		t.Error("Expected error for malformed key")
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	start := StartOfDay(now, time.UTC)
	if !start.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay() = %v", start)
	}

	end := EndOfDay(now, time.UTC)
	if !end.Equal(time.Date(2024, 3, 15, 23, 59, 59, 999000000, time.UTC)) {
		t.Errorf("EndOfDay() = %v", end)
	}
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2024, 2, 29, 18, 30, 0, 0, time.UTC), nil)
	if !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfMonth() = %v", got)
	}
}

func TestElapsedMonths(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 0},
		{"one day short", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), 0},
		{"exactly one month", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 1},
		{"across year", time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 4},
		{"to before from", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedMonths(tt.from, tt.to); got != tt.want {
				t.Errorf("ElapsedMonths() = %d, want %d", got, tt.want)
			}
		})
	}
}
