package services

import (
	"testing"
	"time"

	"github.com/fitfam/fitfam/internal/clock"
	"github.com/fitfam/fitfam/internal/models"
)

func mustParseServiceDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return day
}

func recordOn(t *testing.T, day string, hour int) models.ProgressRecord {
	t.Helper()
	createdAt := mustParseServiceDay(t, day).Add(time.Duration(hour) * time.Hour)
	return models.ProgressRecord{
		CreatedAt:       createdAt,
		DayKey:          day,
		WorkoutType:     "run",
		WorkoutDuration: 30,
		CaloriesBurnt:   200,
		OverallRating:   "good",
	}
}

func TestBuildActivitySequenceIsDense(t *testing.T) {
	t.Parallel()

	windowStart := mustParseServiceDay(t, "2026-05-01")
	windowEnd := mustParseServiceDay(t, "2026-05-10").Add(24*time.Hour - time.Millisecond)
	records := []models.ProgressRecord{
		recordOn(t, "2026-05-03", 7),
		recordOn(t, "2026-05-07", 19),
	}

	sequence := BuildActivitySequence(records, windowStart, windowEnd, time.UTC)
	if len(sequence) != 10 {
		t.Fatalf("expected 10 calendar days, got %d", len(sequence))
	}
	if sequence[0].Date != "2026-05-01" || sequence[9].Date != "2026-05-10" {
		t.Fatalf("unexpected window edges: %s .. %s", sequence[0].Date, sequence[9].Date)
	}

	workoutDays := 0
	for _, day := range sequence {
		if day.HasWorkout {
			workoutDays++
			if day.Workout == nil {
				t.Fatalf("day %s has workout but no snapshot", day.Date)
			}
		} else if day.Workout != nil {
			t.Fatalf("day %s has snapshot without workout", day.Date)
		}
	}
	if workoutDays != 2 {
		t.Fatalf("expected 2 workout days, got %d", workoutDays)
	}
}

func TestBuildActivitySequenceLastWriteWinsOnDuplicateDay(t *testing.T) {
	t.Parallel()

	windowStart := mustParseServiceDay(t, "2026-05-01")
	windowEnd := mustParseServiceDay(t, "2026-05-01").Add(24*time.Hour - time.Millisecond)

	earlier := recordOn(t, "2026-05-01", 6)
	earlier.ID = 1
	earlier.WorkoutType = "yoga"
	later := recordOn(t, "2026-05-01", 20)
	later.ID = 2
	later.WorkoutType = "cycling"

	sequence := BuildActivitySequence([]models.ProgressRecord{earlier, later}, windowStart, windowEnd, time.UTC)
	if len(sequence) != 1 {
		t.Fatalf("expected single day, got %d", len(sequence))
	}
	if !sequence[0].HasWorkout || sequence[0].Workout.WorkoutType != "cycling" {
		t.Fatalf("expected latest record to win, got %+v", sequence[0].Workout)
	}
}

func TestCalculateStreaksProperties(t *testing.T) {
	t.Parallel()

	build := func(pattern string) []ActivityDay {
		sequence := make([]ActivityDay, 0, len(pattern))
		for index, mark := range pattern {
			sequence = append(sequence, ActivityDay{
				Date:       mustParseServiceDay(t, "2026-05-01").AddDate(0, 0, index).Format("2006-01-02"),
				HasWorkout: mark == 'x',
			})
		}
		return sequence
	}

	tests := []struct {
		name        string
		pattern     string
		wantCurrent int
		wantLongest int
	}{
		{name: "empty window", pattern: "....", wantCurrent: 0, wantLongest: 0},
		{name: "all days filled", pattern: "xxxxx", wantCurrent: 5, wantLongest: 5},
		{name: "broken today", pattern: "xxx.", wantCurrent: 0, wantLongest: 3},
		{name: "current shorter than longest", pattern: "xxxx.xx", wantCurrent: 2, wantLongest: 4},
		{name: "single day", pattern: "x", wantCurrent: 1, wantLongest: 1},
		{name: "gap in middle", pattern: "x.x", wantCurrent: 1, wantLongest: 1},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			sequence := build(test.pattern)
			current, longest := CalculateStreaks(sequence)
			if current != test.wantCurrent || longest != test.wantLongest {
				t.Fatalf("CalculateStreaks(%q) = (%d, %d), want (%d, %d)",
					test.pattern, current, longest, test.wantCurrent, test.wantLongest)
			}
			if current > len(sequence) {
				t.Fatalf("current streak %d exceeds window length %d", current, len(sequence))
			}
			if longest < current {
				t.Fatalf("longest streak %d below current streak %d", longest, current)
			}
		})
	}
}

func TestCurrentStreakFromDaysStartsAtActualToday(t *testing.T) {
	t.Parallel()

	today := mustParseServiceDay(t, "2026-05-10")
	workoutDays := map[string]bool{
		"2026-05-08": true,
		"2026-05-09": true,
	}

	// Yesterday and the day before are filled, but today is not: the streak
	// is already broken.
	if got := CurrentStreakFromDays(workoutDays, today, time.UTC); got != 0 {
		t.Fatalf("expected streak 0 without today's workout, got %d", got)
	}

	workoutDays[clock.DateKey(today, time.UTC)] = true
	if got := CurrentStreakFromDays(workoutDays, today, time.UTC); got != 3 {
		t.Fatalf("expected streak 3 with today's workout, got %d", got)
	}
}
