package db

import (
	"github.com/fitfam/fitfam/internal/models"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	database *gorm.DB
}

func NewMembershipRepository(database *gorm.DB) *MembershipRepository {
	return &MembershipRepository{database: database}
}

func (repo *MembershipRepository) FindByUserAndFamily(userID uint, familyID uint) (models.FamilyMembership, bool, error) {
	var membership models.FamilyMembership
	result := repo.database.
		Where("user_id = ? AND family_id = ?", userID, familyID).
		Limit(1).
		Find(&membership)
	if result.Error != nil {
		return models.FamilyMembership{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.FamilyMembership{}, false, nil
	}
	return membership, true, nil
}

func (repo *MembershipRepository) ListByFamily(familyID uint) ([]models.FamilyMembership, error) {
	memberships := make([]models.FamilyMembership, 0)
	if err := repo.database.
		Where("family_id = ?", familyID).
		Order("joined_at ASC, id ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (repo *MembershipRepository) ListByUser(userID uint) ([]models.FamilyMembership, error) {
	memberships := make([]models.FamilyMembership, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("joined_at ASC, id ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (repo *MembershipRepository) Create(membership *models.FamilyMembership) error {
	return repo.database.Create(membership).Error
}
