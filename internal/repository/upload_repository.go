package repository

import (
	"fmt"

	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// UploadRepository keeps the audit trail of processed statement files.
// Successful batches are written by TradeRepository.SaveBatch inside the
// batch transaction; this repository records failures and serves history.
type UploadRepository interface {
	Save(upload *models.Upload) error
	ListByUser(userID uint) ([]models.Upload, error)
}

type gormUploadRepository struct {
	db *gorm.DB
}

var _ UploadRepository = (*gormUploadRepository)(nil)

// NewUploadRepository creates a gorm-backed UploadRepository.
func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &gormUploadRepository{db: db}
}

func (r *gormUploadRepository) Save(upload *models.Upload) error {
	if err := r.db.Save(upload).Error; err != nil {
		return fmt.Errorf("failed to save upload record: %w", err)
	}
	return nil
}

func (r *gormUploadRepository) ListByUser(userID uint) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0)
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return uploads, nil
}
