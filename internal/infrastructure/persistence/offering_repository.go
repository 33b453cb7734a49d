package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOfferingRepository implements OfferingRepository using GORM
type GormOfferingRepository struct {
	db *gorm.DB
}

// NewGormOfferingRepository creates a new GormOfferingRepository
func NewGormOfferingRepository(db *gorm.DB) *GormOfferingRepository {
	return &GormOfferingRepository{db: db}
}

// FindByID finds an offering by its ID
func (r *GormOfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Offering, error) {
	var offering catalog.Offering
	if err := r.db.WithContext(ctx).First(&offering, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &offering, nil
}

// FindByExactName finds offerings by case-insensitive name equality
func (r *GormOfferingRepository) FindByExactName(ctx context.Context, name string) ([]catalog.Offering, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return []catalog.Offering{}, nil
	}
	var offerings []catalog.Offering
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", lowered).
		Order("name ASC").
		Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

// SearchByName is a substring search over offering names
func (r *GormOfferingRepository) SearchByName(ctx context.Context, name string, limit int) ([]catalog.Offering, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	if limit <= 0 {
		limit = 20
	}
	var offerings []catalog.Offering
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(limit).
		Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

// Save creates or updates an offering
func (r *GormOfferingRepository) Save(ctx context.Context, offering *catalog.Offering) error {
	return r.db.WithContext(ctx).Save(offering).Error
}

// SaveOwner creates or updates an offering owner link
func (r *GormOfferingRepository) SaveOwner(ctx context.Context, owner *catalog.OfferingOwner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

// SaveContact creates or updates an offering contact
func (r *GormOfferingRepository) SaveContact(ctx context.Context, contact *catalog.OfferingContact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// Ensure GormOfferingRepository implements OfferingRepository
var _ catalog.OfferingRepository = (*GormOfferingRepository)(nil)
