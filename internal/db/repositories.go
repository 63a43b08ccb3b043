package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Families    *FamilyRepository
	Memberships *MembershipRepository
	Progress    *ProgressRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Families:    NewFamilyRepository(database),
		Memberships: NewMembershipRepository(database),
		Progress:    NewProgressRepository(database),
	}
}
