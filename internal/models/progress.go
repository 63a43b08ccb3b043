package models

import "time"

// ProgressRecord is one logged workout. CreatedAt holds the resolved civil-time
// instant of the log, not raw server time, so date bucketing stays stable across
// server locales. DayKey stores the civil calendar date of CreatedAt; the unique
// index over (user_id, family_id, day_key) enforces one log per member per family
// per civil day even under concurrent writes.
type ProgressRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index;uniqueIndex:uidx_progress_member_day" json:"userId"`
	FamilyID        uint      `gorm:"not null;index;uniqueIndex:uidx_progress_member_day" json:"familyId"`
	DayKey          string    `gorm:"not null;uniqueIndex:uidx_progress_member_day" json:"dayKey"`
	CheckInTime     time.Time `gorm:"not null" json:"checkInTime"`
	WorkoutType     string    `gorm:"not null" json:"workoutType"`
	WorkoutDuration int       `gorm:"not null" json:"workoutDuration"`
	CaloriesBurnt   int       `gorm:"not null" json:"caloriesBurnt"`
	OverallRating   string    `json:"overallRating"`
	ProgressDetails string    `json:"progressDetails"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
}
