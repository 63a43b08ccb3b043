package db

import (
	"time"

	"github.com/fitfam/fitfam/internal/models"
	"gorm.io/gorm"
)

type FamilyRepository struct {
	database *gorm.DB
}

func NewFamilyRepository(database *gorm.DB) *FamilyRepository {
	return &FamilyRepository{database: database}
}

func (repo *FamilyRepository) FindByID(familyID uint) (models.Family, bool, error) {
	var family models.Family
	result := repo.database.Limit(1).Find(&family, familyID)
	if result.Error != nil {
		return models.Family{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Family{}, false, nil
	}
	return family, true, nil
}

func (repo *FamilyRepository) FindActiveByInviteCode(inviteCode string) (models.Family, bool, error) {
	var family models.Family
	result := repo.database.
		Where("invite_code = ? AND is_active = ?", inviteCode, true).
		Limit(1).
		Find(&family)
	if result.Error != nil {
		return models.Family{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Family{}, false, nil
	}
	return family, true, nil
}

// CreateWithCreator persists the family and its creator's admin membership in
// one transaction so a half-created family can never exist.
func (repo *FamilyRepository) CreateWithCreator(family *models.Family, joinedAt time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(family).Error; err != nil {
			return err
		}
		membership := models.FamilyMembership{
			UserID:   family.CreatedBy,
			FamilyID: family.ID,
			Role:     models.RoleAdmin,
			JoinedAt: joinedAt,
		}
		return tx.Create(&membership).Error
	})
}

func (repo *FamilyRepository) ListByIDs(familyIDs []uint) ([]models.Family, error) {
	families := make([]models.Family, 0, len(familyIDs))
	if len(familyIDs) == 0 {
		return families, nil
	}
	if err := repo.database.Where("id IN ?", familyIDs).Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}
