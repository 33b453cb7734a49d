package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormImportJobRepository implements ImportJobRepository using GORM
type GormImportJobRepository struct {
	db *gorm.DB
}

// NewGormImportJobRepository creates a new GormImportJobRepository
func NewGormImportJobRepository(db *gorm.DB) *GormImportJobRepository {
	return &GormImportJobRepository{db: db}
}

// FindByID finds an import job by its ID
func (r *GormImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.ImportJob, error) {
	var job recon.ImportJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindAll finds all import jobs matching the filter
func (r *GormImportJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recon.ImportJob, error) {
	var jobs []recon.ImportJob
	query := r.applyFilter(r.db.WithContext(ctx).Model(&recon.ImportJob{}), filter)

	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindBySubmitter finds jobs submitted by a specific user
func (r *GormImportJobRepository) FindBySubmitter(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]recon.ImportJob, error) {
	var jobs []recon.ImportJob
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&recon.ImportJob{}).Where("submitted_by = ?", userID),
		filter,
	)

	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Count counts all import jobs
func (r *GormImportJobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&recon.ImportJob{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an import job
func (r *GormImportJobRepository) Save(ctx context.Context, job *recon.ImportJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// applyFilter applies filter options to the query
func (r *GormImportJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(source_system) LIKE ? OR LOWER(layout) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "layout":
			query = query.Where("layout = ?", value)
		case "source_system":
			query = query.Where("source_system = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormImportJobRepository implements ImportJobRepository
var _ recon.ImportJobRepository = (*GormImportJobRepository)(nil)
