package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fitfam/fitfam/internal/clock"
	"github.com/fitfam/fitfam/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotMember          = errors.New("not a member of this family")
	ErrFamilyInactive     = errors.New("family is not active")
	ErrAlreadyLoggedToday = errors.New("already logged today")
	ErrNoMembers          = errors.New("no family members found")
)

// activityFetchDays matches the grid clients render: a full trailing year
// regardless of the months parameter, which only echoes back in the response.
const activityFetchDays = 365

type ProgressRecordRepository interface {
	Create(record *models.ProgressRecord) error
	FindLatestByMember(userID uint, familyID uint) (models.ProgressRecord, bool, error)
	ListByMemberRange(userID uint, familyID uint, from time.Time, to time.Time) ([]models.ProgressRecord, error)
	ListByFamilyRange(familyID uint, from time.Time, to time.Time) ([]models.ProgressRecord, error)
	ListByUserPage(userID uint, familyID *uint, limit int, offset int) ([]models.ProgressRecord, error)
	CountByUser(userID uint, familyID *uint) (int64, error)
}

type MembershipReader interface {
	FindByUserAndFamily(userID uint, familyID uint) (models.FamilyMembership, bool, error)
	ListByFamily(familyID uint) ([]models.FamilyMembership, error)
}

type FamilyReader interface {
	FindByID(familyID uint) (models.Family, bool, error)
}

type MemberUserReader interface {
	ListByIDs(userIDs []uint) ([]models.User, error)
}

// CivilNowSource abstracts the time-authority resolver so aggregation tests
// can pin "today".
type CivilNowSource interface {
	Now(ctx context.Context) clock.CivilTime
}

// ProgressWriteInput is a fully validated workout log request.
type ProgressWriteInput struct {
	CheckInHour     int
	CheckInMinute   int
	WorkoutType     string
	WorkoutDuration int
	CaloriesBurnt   int
	OverallRating   string
	ProgressDetails string
}

type ProgressService struct {
	records     ProgressRecordRepository
	memberships MembershipReader
	families    FamilyReader
	users       MemberUserReader
	civilNow    CivilNowSource
	location    *time.Location

	// writeLocks serializes LogWorkout per (user, family): the read-then-create
	// gate alone is a check-then-act race under concurrent requests.
	writeLocksMu sync.Mutex
	writeLocks   map[string]*sync.Mutex
}

func NewProgressService(records ProgressRecordRepository, memberships MembershipReader, families FamilyReader, users MemberUserReader, civilNow CivilNowSource, location *time.Location) *ProgressService {
	if location == nil {
		location = time.UTC
	}
	return &ProgressService{
		records:     records,
		memberships: memberships,
		families:    families,
		users:       users,
		civilNow:    civilNow,
		location:    location,
		writeLocks:  make(map[string]*sync.Mutex),
	}
}

func (service *ProgressService) memberWriteLock(userID uint, familyID uint) *sync.Mutex {
	service.writeLocksMu.Lock()
	defer service.writeLocksMu.Unlock()

	key := fmt.Sprintf("%d:%d", userID, familyID)
	lock, exists := service.writeLocks[key]
	if !exists {
		lock = &sync.Mutex{}
		service.writeLocks[key] = lock
	}
	return lock
}

// requireActiveMembership short-circuits every progress operation: the caller
// must be a member, and the family must be active.
func (service *ProgressService) requireActiveMembership(userID uint, familyID uint) (models.Family, error) {
	_, isMember, err := service.memberships.FindByUserAndFamily(userID, familyID)
	if err != nil {
		return models.Family{}, err
	}
	if !isMember {
		return models.Family{}, ErrNotMember
	}

	family, found, err := service.families.FindByID(familyID)
	if err != nil {
		return models.Family{}, err
	}
	if !found {
		return models.Family{}, ErrNotMember
	}
	if !family.IsActive {
		return models.Family{}, ErrFamilyInactive
	}
	return family, nil
}

// LogWorkout is the write gate: at most one record per (user, family) per
// civil day. The check-then-create window is closed twice over, by the per-key
// mutex and by the store's unique index on (user_id, family_id, day_key).
func (service *ProgressService) LogWorkout(ctx context.Context, userID uint, familyID uint, input ProgressWriteInput) (models.ProgressRecord, error) {
	if _, err := service.requireActiveMembership(userID, familyID); err != nil {
		return models.ProgressRecord{}, err
	}

	lock := service.memberWriteLock(userID, familyID)
	lock.Lock()
	defer lock.Unlock()

	civilNow := service.civilNow.Now(ctx)
	nowInstant := civilNow.Instant(service.location)
	todayKey := clock.DateKey(nowInstant, service.location)

	latest, found, err := service.records.FindLatestByMember(userID, familyID)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	if found && clock.DateKey(latest.CreatedAt, service.location) == todayKey {
		return models.ProgressRecord{}, ErrAlreadyLoggedToday
	}

	checkIn := time.Date(
		civilNow.Year,
		time.Month(civilNow.Month),
		civilNow.Day,
		input.CheckInHour,
		input.CheckInMinute,
		0,
		0,
		service.location,
	)

	record := models.ProgressRecord{
		UserID:          userID,
		FamilyID:        familyID,
		DayKey:          todayKey,
		CheckInTime:     checkIn,
		WorkoutType:     strings.TrimSpace(input.WorkoutType),
		WorkoutDuration: input.WorkoutDuration,
		CaloriesBurnt:   input.CaloriesBurnt,
		OverallRating:   strings.TrimSpace(input.OverallRating),
		ProgressDetails: strings.TrimSpace(input.ProgressDetails),
		CreatedAt:       nowInstant,
	}
	if err := service.records.Create(&record); err != nil {
		if isUniqueViolation(err) {
			return models.ProgressRecord{}, ErrAlreadyLoggedToday
		}
		return models.ProgressRecord{}, err
	}
	return record, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// PeriodRange echoes the resolved activity window back to clients.
type PeriodRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Months    int       `json:"months"`
}

// ActivityStatistics summarizes the activity window.
type ActivityStatistics struct {
	TotalWorkouts int         `json:"totalWorkouts"`
	CurrentStreak int         `json:"currentStreak"`
	LongestStreak int         `json:"longestStreak"`
	Period        PeriodRange `json:"period"`
}

// ActivityReport is the activity endpoint payload.
type ActivityReport struct {
	ActivityData []ActivityDay      `json:"activityData"`
	Statistics   ActivityStatistics `json:"statistics"`
}

// BuildActivity produces the member's dense day-by-day grid and streaks over
// the trailing year, anchored at the resolved civil today. TotalWorkouts
// counts raw fetched rows, not distinct days.
func (service *ProgressService) BuildActivity(ctx context.Context, userID uint, familyID uint, months int) (ActivityReport, error) {
	if _, err := service.requireActiveMembership(userID, familyID); err != nil {
		return ActivityReport{}, err
	}

	today := service.civilNow.Now(ctx).Instant(service.location)
	windowStart, windowEnd := clock.TrailingWindow(today, activityFetchDays, service.location)

	records, err := service.records.ListByMemberRange(userID, familyID, windowStart, windowEnd)
	if err != nil {
		return ActivityReport{}, err
	}

	sequence := BuildActivitySequence(records, windowStart, windowEnd, service.location)
	currentStreak, longestStreak := CalculateStreaks(sequence)

	return ActivityReport{
		ActivityData: sequence,
		Statistics: ActivityStatistics{
			TotalWorkouts: len(records),
			CurrentStreak: currentStreak,
			LongestStreak: longestStreak,
			Period: PeriodRange{
				StartDate: windowStart,
				EndDate:   windowEnd,
				Months:    months,
			},
		},
	}, nil
}

// BuildFamilyStatus rolls the whole family up over the requested period.
// A family with zero memberships is a data-integrity signal (every family has
// at least its creator) and returns ErrNoMembers rather than an empty payload.
func (service *ProgressService) BuildFamilyStatus(ctx context.Context, userID uint, familyID uint, period string) (FamilyStatusReport, error) {
	family, err := service.requireActiveMembership(userID, familyID)
	if err != nil {
		return FamilyStatusReport{}, err
	}

	today := service.civilNow.Now(ctx).Instant(service.location)
	windowStart, windowEnd := PeriodWindow(period, family.CreatedAt, today, service.location)

	memberships, err := service.memberships.ListByFamily(familyID)
	if err != nil {
		return FamilyStatusReport{}, err
	}
	if len(memberships) == 0 {
		return FamilyStatusReport{}, ErrNoMembers
	}

	userIDs := make([]uint, 0, len(memberships))
	for _, membership := range memberships {
		userIDs = append(userIDs, membership.UserID)
	}
	users, err := service.users.ListByIDs(userIDs)
	if err != nil {
		return FamilyStatusReport{}, err
	}
	usersByID := make(map[uint]models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	records, err := service.records.ListByFamilyRange(familyID, windowStart, windowEnd)
	if err != nil {
		return FamilyStatusReport{}, err
	}
	recordsByUser := PartitionByUser(records)

	members := make([]MemberStatus, 0, len(memberships))
	totals := FamilyTotals{TotalWorkouts: len(records)}
	for _, membership := range memberships {
		status := BuildMemberStatus(membership, usersByID[membership.UserID], recordsByUser[membership.UserID], today, service.location)
		totals.TotalCalories += status.TotalCalories
		totals.TotalDuration += status.TotalDuration
		if status.TotalWorkouts > 0 {
			totals.ActiveMembers++
		}
		members = append(members, status)
	}
	SortMembersByWorkouts(members)

	return FamilyStatusReport{
		FamilyName:      family.Name,
		FamilyCreatedAt: family.CreatedAt,
		TotalMembers:    len(memberships),
		DateRange:       DateRange{Start: windowStart, End: windowEnd},
		MembersProgress: members,
		FamilyStats:     totals,
	}, nil
}

// ProgressPage is one page of the caller's own workout history.
type ProgressPage struct {
	Records []models.ProgressRecord `json:"progress"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
	Total   int64                   `json:"total"`
	Pages   int                     `json:"pages"`
}

// ListProgress pages through the caller's records newest first, optionally
// scoped to one family (which then requires membership).
func (service *ProgressService) ListProgress(userID uint, familyID *uint, page int, limit int) (ProgressPage, error) {
	if familyID != nil {
		_, isMember, err := service.memberships.FindByUserAndFamily(userID, *familyID)
		if err != nil {
			return ProgressPage{}, err
		}
		if !isMember {
			return ProgressPage{}, ErrNotMember
		}
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	records, err := service.records.ListByUserPage(userID, familyID, limit, (page-1)*limit)
	if err != nil {
		return ProgressPage{}, err
	}
	total, err := service.records.CountByUser(userID, familyID)
	if err != nil {
		return ProgressPage{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return ProgressPage{
		Records: records,
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
	}, nil
}
