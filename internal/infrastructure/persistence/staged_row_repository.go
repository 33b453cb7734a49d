package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStagedRowRepository implements StagedRowRepository using GORM
type GormStagedRowRepository struct {
	db *gorm.DB
}

// NewGormStagedRowRepository creates a new GormStagedRowRepository
func NewGormStagedRowRepository(db *gorm.DB) *GormStagedRowRepository {
	return &GormStagedRowRepository{db: db}
}

// FindByID finds a staged row by its ID
func (r *GormStagedRowRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.StagedRow, error) {
	var row recon.StagedRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByJobAndArea finds staged rows of one job and area, in source order
func (r *GormStagedRowRepository) FindByJobAndArea(ctx context.Context, jobID uuid.UUID, area recon.Area, filter shared.Filter) ([]recon.StagedRow, error) {
	var rows []recon.StagedRow
	query := r.db.WithContext(ctx).Model(&recon.StagedRow{}).
		Where("job_id = ? AND area = ?", jobID, area)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "decision":
			query = query.Where("decision = ?", value)
		case "outcome":
			query = query.Where("outcome = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("source_file ASC, source_line ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByJobAndStatus counts a job's rows grouped by row status
func (r *GormStagedRowRepository) CountByJobAndStatus(ctx context.Context, jobID uuid.UUID) (map[recon.RowStatus]int64, error) {
	type statusCount struct {
		Status recon.RowStatus
		Count  int64
	}
	var counts []statusCount
	if err := r.db.WithContext(ctx).Model(&recon.StagedRow{}).
		Select("status, COUNT(*) AS count").
		Where("job_id = ?", jobID).
		Group("status").
		Find(&counts).Error; err != nil {
		return nil, err
	}

	result := make(map[recon.RowStatus]int64, len(counts))
	for _, c := range counts {
		result[c.Status] = c.Count
	}
	return result, nil
}

// CountByArea counts a job's rows grouped by target area
func (r *GormStagedRowRepository) CountByArea(ctx context.Context, jobID uuid.UUID) (map[recon.Area]int64, error) {
	type areaCount struct {
		Area  recon.Area
		Count int64
	}
	var counts []areaCount
	if err := r.db.WithContext(ctx).Model(&recon.StagedRow{}).
		Select("area, COUNT(*) AS count").
		Where("job_id = ?", jobID).
		Group("area").
		Find(&counts).Error; err != nil {
		return nil, err
	}

	result := make(map[recon.Area]int64, len(counts))
	for _, c := range counts {
		result[c.Area] = c.Count
	}
	return result, nil
}

// FindEligible returns the ready non-skip rows of one area in source order
func (r *GormStagedRowRepository) FindEligible(ctx context.Context, jobID uuid.UUID, area recon.Area) ([]recon.StagedRow, error) {
	var rows []recon.StagedRow
	if err := r.db.WithContext(ctx).
		Where("job_id = ? AND area = ? AND status = ? AND decision <> ?",
			jobID, area, recon.RowStatusReady, recon.MatchDecisionSkip).
		Order("source_file ASC, source_line ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveBatch creates or updates staged rows in chunks
func (r *GormStagedRowRepository) SaveBatch(ctx context.Context, rows []*recon.StagedRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

// Save creates or updates a single staged row
func (r *GormStagedRowRepository) Save(ctx context.Context, row *recon.StagedRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// DeleteByJob removes every staged row of a job. Re-staging replaces the
// whole row set.
func (r *GormStagedRowRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&recon.StagedRow{}, "job_id = ?", jobID).Error
}

// Ensure GormStagedRowRepository implements StagedRowRepository
var _ recon.StagedRowRepository = (*GormStagedRowRepository)(nil)
