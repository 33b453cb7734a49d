package recon

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// ImportJobRepository persists import jobs
type ImportJobRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ImportJob, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ImportJob, error)
	FindBySubmitter(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ImportJob, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, job *ImportJob) error
}

// MappingProfileRepository is one tier of profile storage. The shared tier
// is backed by the database; the local tier lives in a per-user file on the
// server. Both expose the same surface so the profile service can search
// them uniformly.
type MappingProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MappingProfile, error)
	// FindCompatible returns profiles matching the layout, signature and
	// file format, most recently used first. Auto-format profiles match any
	// format.
	FindCompatible(ctx context.Context, layout, signature string, format FileFormat, ownerID uuid.UUID) ([]MappingProfile, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]MappingProfile, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Save(ctx context.Context, profile *MappingProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StagedRowRepository persists staged rows per job and area
type StagedRowRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StagedRow, error)
	FindByJobAndArea(ctx context.Context, jobID uuid.UUID, area Area, filter shared.Filter) ([]StagedRow, error)
	CountByJobAndStatus(ctx context.Context, jobID uuid.UUID) (map[RowStatus]int64, error)
	CountByArea(ctx context.Context, jobID uuid.UUID) (map[Area]int64, error)
	// FindEligible returns the rows the apply engine should attempt for one
	// area, in source order.
	FindEligible(ctx context.Context, jobID uuid.UUID, area Area) ([]StagedRow, error)
	SaveBatch(ctx context.Context, rows []*StagedRow) error
	Save(ctx context.Context, row *StagedRow) error
	DeleteByJob(ctx context.Context, jobID uuid.UUID) error
}

// ApprovalRepository persists mapping approval requests
type ApprovalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MappingApprovalRequest, error)
	// FindByKey returns the latest request for a layout shape, or
	// shared.ErrNotFound when the shape has never been submitted.
	FindByKey(ctx context.Context, layout, signature string, format FileFormat) (*MappingApprovalRequest, error)
	FindPending(ctx context.Context, filter shared.Filter) ([]MappingApprovalRequest, error)
	Save(ctx context.Context, request *MappingApprovalRequest) error
}

// ReviewRepository persists per-area review confirmations
type ReviewRepository interface {
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]ReviewConfirmation, error)
	FindByJobAndArea(ctx context.Context, jobID uuid.UUID, area Area) (*ReviewConfirmation, error)
	Save(ctx context.Context, confirmation *ReviewConfirmation) error
}
