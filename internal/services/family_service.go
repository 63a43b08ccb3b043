package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fitfam/fitfam/internal/models"
	"github.com/fitfam/fitfam/internal/security"
)

var (
	ErrInviteCodeNotFound = errors.New("invalid invite code")
	ErrAlreadyMember      = errors.New("already a member of this family")
	ErrFamilyNotFound     = errors.New("family not found")
)

const inviteCodeAttempts = 5

type FamilyStore interface {
	FindByID(familyID uint) (models.Family, bool, error)
	FindActiveByInviteCode(inviteCode string) (models.Family, bool, error)
	CreateWithCreator(family *models.Family, joinedAt time.Time) error
	ListByIDs(familyIDs []uint) ([]models.Family, error)
}

type MembershipStore interface {
	FindByUserAndFamily(userID uint, familyID uint) (models.FamilyMembership, bool, error)
	ListByFamily(familyID uint) ([]models.FamilyMembership, error)
	ListByUser(userID uint) ([]models.FamilyMembership, error)
	Create(membership *models.FamilyMembership) error
}

type FamilyService struct {
	families    FamilyStore
	memberships MembershipStore
	users       MemberUserReader
	civilNow    CivilNowSource
	location    *time.Location
}

func NewFamilyService(families FamilyStore, memberships MembershipStore, users MemberUserReader, civilNow CivilNowSource, location *time.Location) *FamilyService {
	if location == nil {
		location = time.UTC
	}
	return &FamilyService{
		families:    families,
		memberships: memberships,
		users:       users,
		civilNow:    civilNow,
		location:    location,
	}
}

// FamilyInput carries the optional create-family fields alongside the name.
type FamilyInput struct {
	Name        string
	Description string
	Goal        string
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateFamily makes the new family and its creator's admin membership in one
// step. Invite code collisions are retried a few times before giving up.
func (service *FamilyService) CreateFamily(ctx context.Context, userID uint, input FamilyInput) (models.Family, error) {
	now := service.civilNow.Now(ctx).Instant(service.location)

	var lastErr error
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		inviteCode, err := security.InviteCode(models.InviteCodeLength)
		if err != nil {
			return models.Family{}, err
		}

		family := models.Family{
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			Goal:        strings.TrimSpace(input.Goal),
			InviteCode:  inviteCode,
			IsActive:    true,
			CreatedBy:   userID,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			CreatedAt:   now,
		}
		if err := service.families.CreateWithCreator(&family, now); err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return models.Family{}, err
		}
		return family, nil
	}
	return models.Family{}, lastErr
}

// JoinFamily adds the caller as a regular member of the family behind the
// invite code. Inactive families are invisible to joiners.
func (service *FamilyService) JoinFamily(ctx context.Context, userID uint, inviteCode string) (models.Family, error) {
	family, found, err := service.families.FindActiveByInviteCode(strings.TrimSpace(inviteCode))
	if err != nil {
		return models.Family{}, err
	}
	if !found {
		return models.Family{}, ErrInviteCodeNotFound
	}

	_, alreadyMember, err := service.memberships.FindByUserAndFamily(userID, family.ID)
	if err != nil {
		return models.Family{}, err
	}
	if alreadyMember {
		return models.Family{}, ErrAlreadyMember
	}

	membership := models.FamilyMembership{
		UserID:   userID,
		FamilyID: family.ID,
		Role:     models.RoleMember,
		JoinedAt: service.civilNow.Now(ctx).Instant(service.location),
	}
	if err := service.memberships.Create(&membership); err != nil {
		if isUniqueViolation(err) {
			return models.Family{}, ErrAlreadyMember
		}
		return models.Family{}, err
	}
	return family, nil
}

// FamilyWithRole is one entry of a user's family list.
type FamilyWithRole struct {
	models.Family
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ListFamiliesForUser returns every family the user belongs to, with the
// user's role and join date attached.
func (service *FamilyService) ListFamiliesForUser(userID uint) ([]FamilyWithRole, error) {
	memberships, err := service.memberships.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	familyIDs := make([]uint, 0, len(memberships))
	for _, membership := range memberships {
		familyIDs = append(familyIDs, membership.FamilyID)
	}
	families, err := service.families.ListByIDs(familyIDs)
	if err != nil {
		return nil, err
	}
	familiesByID := make(map[uint]models.Family, len(families))
	for _, family := range families {
		familiesByID[family.ID] = family
	}

	entries := make([]FamilyWithRole, 0, len(memberships))
	for _, membership := range memberships {
		family, exists := familiesByID[membership.FamilyID]
		if !exists {
			continue
		}
		entries = append(entries, FamilyWithRole{
			Family:   family,
			Role:     membership.Role,
			JoinedAt: membership.JoinedAt,
		})
	}
	return entries, nil
}

// FamilyMemberDetail is one member row of a family detail payload.
type FamilyMemberDetail struct {
	ID       uint        `json:"id"`
	Role     string      `json:"role"`
	JoinedAt time.Time   `json:"joinedAt"`
	User     models.User `json:"user"`
}

// FamilyDetail is the member-visible view of one family.
type FamilyDetail struct {
	models.Family
	Members    []FamilyMemberDetail `json:"members"`
	CallerRole string               `json:"userRole"`
}

// LoadFamilyDetail returns the family with its member roster. Only members
// may look; inactive or missing families read as not found.
func (service *FamilyService) LoadFamilyDetail(userID uint, familyID uint) (FamilyDetail, error) {
	family, found, err := service.families.FindByID(familyID)
	if err != nil {
		return FamilyDetail{}, err
	}
	if !found || !family.IsActive {
		return FamilyDetail{}, ErrFamilyNotFound
	}

	memberships, err := service.memberships.ListByFamily(familyID)
	if err != nil {
		return FamilyDetail{}, err
	}

	callerRole := ""
	userIDs := make([]uint, 0, len(memberships))
	for _, membership := range memberships {
		userIDs = append(userIDs, membership.UserID)
		if membership.UserID == userID {
			callerRole = membership.Role
		}
	}
	if callerRole == "" {
		return FamilyDetail{}, ErrNotMember
	}

	users, err := service.users.ListByIDs(userIDs)
	if err != nil {
		return FamilyDetail{}, err
	}
	usersByID := make(map[uint]models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	members := make([]FamilyMemberDetail, 0, len(memberships))
	for _, membership := range memberships {
		members = append(members, FamilyMemberDetail{
			ID:       membership.ID,
			Role:     membership.Role,
			JoinedAt: membership.JoinedAt,
			User:     usersByID[membership.UserID],
		})
	}

	return FamilyDetail{
		Family:     family,
		Members:    members,
		CallerRole: callerRole,
	}, nil
}
