package domain

import (
	"math"
	"time"
)

const (
	// DefaultTargetVideos is the per-day video target when a submission omits one
	DefaultTargetVideos = 15

	// ConsistencyThreshold is the productivity score an entry must reach
	// to count toward the consistency score
	ConsistencyThreshold = 80

	// FallbackPeakHour is reported as the most productive hour when no
	// entry carries a shift start time
	FallbackPeakHour = 10

	// MinEnergyLevel and MaxEnergyLevel bound the 1-5 energy scale
	MinEnergyLevel = 1
	MaxEnergyLevel = 5
)

// ProductivityScore computes the percentage of target videos completed,
// rounded to the nearest integer. Target must be >= 1; callers validate.
func ProductivityScore(videosCompleted, targetVideos int) int {
	if targetVideos < 1 {
		return 0
	}
	return int(math.Round(float64(videosCompleted) / float64(targetVideos) * 100))
}

// ShiftHours computes the shift duration in hours, rounded to 2 decimals.
// Returns 0 when end is not after start.
func ShiftHours(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	hours := end.Sub(start).Hours()
	return math.Round(hours*100) / 100
}

// Round2 rounds a float to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DateOf truncates a timestamp to its calendar date in local time
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekWindow returns the half-open [start, end) bounds of the week
// containing t. Weeks start Monday at local midnight.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	day := DateOf(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday wraps to the previous Monday
	}
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// MonthWindow returns the half-open [start, end) bounds of the calendar
// month containing t, at local midnight.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// ProgressPercent expresses completed as a percentage of target, rounded
// to the nearest integer. A zero target yields 0, not an error.
func ProgressPercent(completed, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(target) * 100))
}
