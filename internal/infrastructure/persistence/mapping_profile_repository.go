package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMappingProfileRepository is the shared tier of profile storage. Every
// operator can see and reuse profiles stored here; the local tier lives in
// per-user files outside the database.
type GormMappingProfileRepository struct {
	db *gorm.DB
}

// NewGormMappingProfileRepository creates a new GormMappingProfileRepository
func NewGormMappingProfileRepository(db *gorm.DB) *GormMappingProfileRepository {
	return &GormMappingProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormMappingProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.MappingProfile, error) {
	var profile recon.MappingProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindCompatible returns profiles matching the layout, signature and file
// format, most recently used first. Shared profiles are visible to
// everyone, so the owner argument is ignored here.
func (r *GormMappingProfileRepository) FindCompatible(ctx context.Context, layout, signature string, format recon.FileFormat, _ uuid.UUID) ([]recon.MappingProfile, error) {
	query := r.db.WithContext(ctx).
		Where("layout = ? AND signature = ?", layout, signature)
	if format != "" {
		query = query.Where("format IN ?", []recon.FileFormat{format, recon.FormatAuto})
	}
	var profiles []recon.MappingProfile
	if err := query.Order("last_used DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindByOwner finds the profiles saved by one user
func (r *GormMappingProfileRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	var profiles []recon.MappingProfile
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("last_used DESC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// CountByOwner counts the profiles saved by one user
func (r *GormMappingProfileRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&recon.MappingProfile{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a profile
func (r *GormMappingProfileRepository) Save(ctx context.Context, profile *recon.MappingProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Delete removes a profile
func (r *GormMappingProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&recon.MappingProfile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormMappingProfileRepository implements MappingProfileRepository
var _ recon.MappingProfileRepository = (*GormMappingProfileRepository)(nil)
