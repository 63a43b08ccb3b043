package db

import (
	"time"

	"github.com/fitfam/fitfam/internal/models"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	database *gorm.DB
}

func NewProgressRepository(database *gorm.DB) *ProgressRepository {
	return &ProgressRepository{database: database}
}

func (repo *ProgressRepository) Create(record *models.ProgressRecord) error {
	return repo.database.Create(record).Error
}

// FindLatestByMember returns the member's most recent record in the family.
// The write gate compares its civil date against today's.
func (repo *ProgressRepository) FindLatestByMember(userID uint, familyID uint) (models.ProgressRecord, bool, error) {
	var record models.ProgressRecord
	result := repo.database.
		Where("user_id = ? AND family_id = ?", userID, familyID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.ProgressRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ProgressRecord{}, false, nil
	}
	return record, true, nil
}

// ListByMemberRange returns one member's records with created_at inside
// [from, to], oldest first so later rows win day-snapshot conflicts.
func (repo *ProgressRepository) ListByMemberRange(userID uint, familyID uint, from time.Time, to time.Time) ([]models.ProgressRecord, error) {
	records := make([]models.ProgressRecord, 0)
	if err := repo.database.
		Where("user_id = ? AND family_id = ? AND created_at >= ? AND created_at <= ?", userID, familyID, from, to).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListByFamilyRange returns every member's records in the window, newest first.
func (repo *ProgressRepository) ListByFamilyRange(familyID uint, from time.Time, to time.Time) ([]models.ProgressRecord, error) {
	records := make([]models.ProgressRecord, 0)
	if err := repo.database.
		Where("family_id = ? AND created_at >= ? AND created_at <= ?", familyID, from, to).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListByUserPage returns the user's records newest first, optionally scoped to
// one family, with offset pagination.
func (repo *ProgressRepository) ListByUserPage(userID uint, familyID *uint, limit int, offset int) ([]models.ProgressRecord, error) {
	query := repo.database.Where("user_id = ?", userID)
	if familyID != nil {
		query = query.Where("family_id = ?", *familyID)
	}

	records := make([]models.ProgressRecord, 0, limit)
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *ProgressRepository) CountByUser(userID uint, familyID *uint) (int64, error) {
	query := repo.database.Model(&models.ProgressRecord{}).Where("user_id = ?", userID)
	if familyID != nil {
		query = query.Where("family_id = ?", *familyID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
