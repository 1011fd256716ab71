package domain

import (
	"testing"
	"time"
)

func TestProductivityScore(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		target    int
		want      int
	}{
		{"partial target", 8, 15, 53},
		{"exact target", 15, 15, 100},
		{"over target", 20, 15, 133},
		{"zero completed", 0, 15, 0},
		{"rounds half up", 1, 8, 13},
		{"zero target yields zero", 10, 0, 0},
		{"negative target yields zero", 10, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProductivityScore(tt.completed, tt.target); got != tt.want {
				t.Errorf("ProductivityScore(%d, %d) = %d, want %d", tt.completed, tt.target, got, tt.want)
			}
		})
	}
}

func TestShiftHours(t *testing.T) {
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"standard shift", day.Add(9 * time.Hour), day.Add(17*time.Hour + 30*time.Minute), 8.5},
		{"short shift", day.Add(10 * time.Hour), day.Add(10*time.Hour + 45*time.Minute), 0.75},
		{"rounds to 2 decimals", day, day.Add(100 * time.Minute), 1.67},
		{"end equals start", day, day, 0},
		{"end before start", day.Add(time.Hour), day, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShiftHours(tt.start, tt.end); got != tt.want {
				t.Errorf("ShiftHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekWindow(t *testing.T) {
	// 2026-03-04 is a Wednesday
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	start, end := WeekWindow(wed)

	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	if !start.Equal(wantStart) {
		t.Errorf("week start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("week end = %v, want %v", end, wantEnd)
	}
}

func TestWeekWindowSundayWrapsBack(t *testing.T) {
	// 2026-03-08 is a Sunday; it belongs to the week starting Monday 03-02
	sun := time.Date(2026, 3, 8, 8, 0, 0, 0, time.UTC)
	start, _ := WeekWindow(sun)

	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("week start = %v, want %v", start, wantStart)
	}
}

func TestMonthWindow(t *testing.T) {
	jan := time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)
	start, end := MonthWindow(jan)

	if !start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month start = %v", start)
	}
	if !end.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month end = %v", end)
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		target    int
		want      int
	}{
		{"half way", 50, 100, 50},
		{"over target", 120, 100, 120},
		{"zero target", 10, 0, 0},
		{"rounds", 1, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressPercent(tt.completed, tt.target); got != tt.want {
				t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.completed, tt.target, got, tt.want)
			}
		})
	}
}
