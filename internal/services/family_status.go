package services

import (
	"sort"
	"time"

	"github.com/fitfam/fitfam/internal/clock"
	"github.com/fitfam/fitfam/internal/models"
)

// Period tokens accepted by the family status endpoint. The day counts are
// kept exactly as deployed clients expect them: "1m" deliberately equals
// "30d" and "3m" equals "90d".
const DefaultStatusPeriod = "30d"

var periodTrailingDays = map[string]int{
	"7d":  6,
	"30d": 29,
	"90d": 89,
	"1m":  29,
	"2m":  59,
	"3m":  89,
}

// PeriodWindow resolves a period token against the current civil day. The
// "all" token anchors the window start at the family's creation date; unknown
// tokens fall back to the default 30-day window.
func PeriodWindow(period string, familyCreatedAt time.Time, now time.Time, location *time.Location) (time.Time, time.Time) {
	_, windowEnd := clock.DayBounds(now, location)

	if period == "all" {
		return clock.DateAtLocation(familyCreatedAt, location), windowEnd
	}

	days, known := periodTrailingDays[period]
	if !known {
		days = periodTrailingDays[DefaultStatusPeriod]
	}
	return clock.DateAtLocation(now, location).AddDate(0, 0, -days), windowEnd
}

// MemberStatus is one member's rollup over the requested window.
type MemberStatus struct {
	UserID          uint                    `json:"userId"`
	UserName        string                  `json:"userName"`
	UserEmail       string                  `json:"userEmail"`
	Role            string                  `json:"role"`
	TotalWorkouts   int                     `json:"totalWorkouts"`
	TotalCalories   int                     `json:"totalCalories"`
	TotalDuration   int                     `json:"totalDuration"`
	AvgRating       float64                 `json:"avgRating"`
	CurrentStreak   int                     `json:"currentStreak"`
	LastWorkout     *time.Time              `json:"lastWorkout"`
	ProgressEntries []models.ProgressRecord `json:"progressEntries"`
}

// FamilyTotals is the family-wide rollup.
type FamilyTotals struct {
	TotalWorkouts int `json:"totalWorkouts"`
	TotalCalories int `json:"totalCalories"`
	TotalDuration int `json:"totalDuration"`
	ActiveMembers int `json:"activeMembers"`
}

// DateRange reports the resolved aggregation window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FamilyStatusReport is the full family status payload.
type FamilyStatusReport struct {
	FamilyName      string         `json:"familyName"`
	FamilyCreatedAt time.Time      `json:"familyCreatedAt"`
	TotalMembers    int            `json:"totalMembers"`
	DateRange       DateRange      `json:"dateRange"`
	MembersProgress []MemberStatus `json:"membersProgress"`
	FamilyStats     FamilyTotals   `json:"familyStats"`
}

// BuildMemberStatus rolls one member's window records up into totals, average
// rating, streak, and last-workout. records may arrive in any order. today is
// the actual current civil day, not the window end.
func BuildMemberStatus(membership models.FamilyMembership, user models.User, records []models.ProgressRecord, today time.Time, location *time.Location) MemberStatus {
	status := MemberStatus{
		UserID:          membership.UserID,
		UserName:        user.Name,
		UserEmail:       user.Email,
		Role:            membership.Role,
		TotalWorkouts:   len(records),
		ProgressEntries: records,
	}

	ratings := make([]string, 0, len(records))
	workoutDays := make(map[string]bool, len(records))
	for _, record := range records {
		status.TotalCalories += record.CaloriesBurnt
		status.TotalDuration += record.WorkoutDuration
		ratings = append(ratings, record.OverallRating)
		workoutDays[clock.DateKey(record.CreatedAt, location)] = true

		if status.LastWorkout == nil || record.CreatedAt.After(*status.LastWorkout) {
			last := record.CreatedAt
			status.LastWorkout = &last
		}
	}

	status.AvgRating = AverageRating(ratings)
	status.CurrentStreak = CurrentStreakFromDays(workoutDays, today, location)
	return status
}

// SortMembersByWorkouts orders members by total workouts descending; ties keep
// their encounter order.
func SortMembersByWorkouts(members []MemberStatus) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].TotalWorkouts > members[j].TotalWorkouts
	})
}

// PartitionByUser groups the family's window records per member without
// re-querying the store.
func PartitionByUser(records []models.ProgressRecord) map[uint][]models.ProgressRecord {
	byUser := make(map[uint][]models.ProgressRecord)
	for _, record := range records {
		byUser[record.UserID] = append(byUser[record.UserID], record)
	}
	return byUser
}
