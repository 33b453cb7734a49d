package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormApprovalRepository implements ApprovalRepository using GORM
type GormApprovalRepository struct {
	db *gorm.DB
}

// NewGormApprovalRepository creates a new GormApprovalRepository
func NewGormApprovalRepository(db *gorm.DB) *GormApprovalRepository {
	return &GormApprovalRepository{db: db}
}

// FindByID finds an approval request by its ID
func (r *GormApprovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.MappingApprovalRequest, error) {
	var request recon.MappingApprovalRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByKey returns the latest request for a layout shape. A rejected
// shape keeps its rejection on record until a newer request supersedes it.
func (r *GormApprovalRepository) FindByKey(ctx context.Context, layout, signature string, format recon.FileFormat) (*recon.MappingApprovalRequest, error) {
	var request recon.MappingApprovalRequest
	if err := r.db.WithContext(ctx).
		Where("layout = ? AND signature = ? AND format = ?", layout, signature, format).
		Order("created_at DESC").
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindPending finds undecided requests, oldest first. A "state" filter
// widens the query to decided requests.
func (r *GormApprovalRepository) FindPending(ctx context.Context, filter shared.Filter) ([]recon.MappingApprovalRequest, error) {
	state := recon.ApprovalStatePending
	if v, ok := filter.Filters["state"].(string); ok && v != "" {
		state = recon.ApprovalState(v)
	}

	var requests []recon.MappingApprovalRequest
	query := r.db.WithContext(ctx).Model(&recon.MappingApprovalRequest{}).
		Where("state = ?", state)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates an approval request
func (r *GormApprovalRepository) Save(ctx context.Context, request *recon.MappingApprovalRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Ensure GormApprovalRepository implements ApprovalRepository
var _ recon.ApprovalRepository = (*GormApprovalRepository)(nil)
