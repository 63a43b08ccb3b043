package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// InviteCodeLength is the number of characters in a generated family invite code.
const InviteCodeLength = 8

type Family struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description,omitempty"`
	Goal        string     `json:"goal,omitempty"`
	InviteCode  string     `gorm:"uniqueIndex;not null" json:"inviteCode,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedBy   uint       `gorm:"not null" json:"createdBy"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
}

type FamilyMembership struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:uidx_member_family" json:"userId"`
	FamilyID uint      `gorm:"not null;uniqueIndex:uidx_member_family" json:"familyId"`
	Role     string    `gorm:"not null;default:member" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
}
