package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByJob finds every area confirmation of a job
func (r *GormReviewRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]recon.ReviewConfirmation, error) {
	var confirmations []recon.ReviewConfirmation
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("confirmed_at ASC").
		Find(&confirmations).Error; err != nil {
		return nil, err
	}
	return confirmations, nil
}

// FindByJobAndArea finds the confirmation of one area, if any
func (r *GormReviewRepository) FindByJobAndArea(ctx context.Context, jobID uuid.UUID, area recon.Area) (*recon.ReviewConfirmation, error) {
	var confirmation recon.ReviewConfirmation
	if err := r.db.WithContext(ctx).
		Where("job_id = ? AND area = ?", jobID, area).
		First(&confirmation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &confirmation, nil
}

// Save creates or updates a confirmation
func (r *GormReviewRepository) Save(ctx context.Context, confirmation *recon.ReviewConfirmation) error {
	return r.db.WithContext(ctx).Save(confirmation).Error
}

// Ensure GormReviewRepository implements ReviewRepository
var _ recon.ReviewRepository = (*GormReviewRepository)(nil)
