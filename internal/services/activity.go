package services

import (
	"time"

	"github.com/fitfam/fitfam/internal/clock"
	"github.com/fitfam/fitfam/internal/models"
)

// WorkoutSnapshot is the per-day detail attached to an activity cell.
type WorkoutSnapshot struct {
	WorkoutType     string `json:"workoutType"`
	WorkoutDuration int    `json:"workoutDuration"`
	CaloriesBurnt   int    `json:"caloriesBurnt"`
	OverallRating   string `json:"overallRating"`
}

// ActivityDay is one cell of the dense calendar grid.
type ActivityDay struct {
	Date       string           `json:"date"`
	HasWorkout bool             `json:"hasWorkout"`
	Workout    *WorkoutSnapshot `json:"workoutDetails,omitempty"`
}

// BuildActivitySequence expands records into one entry per calendar day of
// [windowStart, windowEnd], chronological. Days carry a snapshot of the
// latest record on that civil day; duplicates (possible if the one-per-day
// invariant was ever violated) resolve last-write-wins.
func BuildActivitySequence(records []models.ProgressRecord, windowStart time.Time, windowEnd time.Time, location *time.Location) []ActivityDay {
	latestByDay := make(map[string]models.ProgressRecord, len(records))
	for _, record := range records {
		key := clock.DateKey(record.CreatedAt, location)
		existing, exists := latestByDay[key]
		if !exists || record.CreatedAt.After(existing.CreatedAt) ||
			(record.CreatedAt.Equal(existing.CreatedAt) && record.ID > existing.ID) {
			latestByDay[key] = record
		}
	}

	startDay := clock.DateAtLocation(windowStart, location)
	endDay := clock.DateAtLocation(windowEnd, location)

	sequence := make([]ActivityDay, 0, endDay.Sub(startDay)/(24*time.Hour)+1)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := clock.DateKey(day, location)
		record, hasWorkout := latestByDay[key]
		cell := ActivityDay{Date: key, HasWorkout: hasWorkout}
		if hasWorkout {
			cell.Workout = &WorkoutSnapshot{
				WorkoutType:     record.WorkoutType,
				WorkoutDuration: record.WorkoutDuration,
				CaloriesBurnt:   record.CaloriesBurnt,
				OverallRating:   record.OverallRating,
			}
		}
		sequence = append(sequence, cell)
	}

	return sequence
}

// CalculateStreaks scans the dense sequence once in each direction: the
// current streak counts backward from the most recent day until the first gap,
// the longest streak is the forward-scan running maximum.
func CalculateStreaks(sequence []ActivityDay) (int, int) {
	currentStreak := 0
	for index := len(sequence) - 1; index >= 0; index-- {
		if !sequence[index].HasWorkout {
			break
		}
		currentStreak++
	}

	longestStreak := 0
	run := 0
	for _, day := range sequence {
		if !day.HasWorkout {
			run = 0
			continue
		}
		run++
		if run > longestStreak {
			longestStreak = run
		}
	}

	return currentStreak, longestStreak
}

// CurrentStreakFromDays walks backward one civil day at a time starting from
// today, so a streak is freshly broken the moment today has no entry even when
// older window days are filled.
func CurrentStreakFromDays(workoutDays map[string]bool, today time.Time, location *time.Location) int {
	streak := 0
	for day := clock.DateAtLocation(today, location); workoutDays[clock.DateKey(day, location)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
