package recon

import (
	"time"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// ErrApprovalPending is returned when staging is requested for a mapping
// that still awaits an administrator's decision. Callers surface it as a
// distinct condition rather than a generic failure.
var ErrApprovalPending = shared.NewDomainError("APPROVAL_PENDING",
	"The mapping is awaiting administrative approval")

// ApprovalState tracks the administrative decision on a mapping
type ApprovalState string

const (
	ApprovalStatePending  ApprovalState = "pending"
	ApprovalStateApproved ApprovalState = "approved"
	ApprovalStateRejected ApprovalState = "rejected"
)

// MappingApprovalRequest asks an administrator to vouch for a previously
// unseen column layout before it can stage data. Approval is keyed by
// layout, signature and format, so one decision covers every later file
// with the same shape.
type MappingApprovalRequest struct {
	shared.BaseAggregateRoot
	Layout      string        `gorm:"type:varchar(100);not null;index:idx_approval_key"`
	Signature   string        `gorm:"type:char(64);not null;index:idx_approval_key"`
	Format      FileFormat    `gorm:"type:varchar(20);not null;index:idx_approval_key"`
	State       ApprovalState `gorm:"type:varchar(10);not null;index"`
	RequestedBy uuid.UUID     `gorm:"type:uuid;not null"`
	JobID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	ProfileID   uuid.UUID     `gorm:"type:uuid;not null"`
	DecidedBy   *uuid.UUID    `gorm:"type:uuid"`
	DecidedAt   *time.Time
	Reason      string `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (MappingApprovalRequest) TableName() string {
	return "mapping_approval_requests"
}

// NewMappingApprovalRequest opens a pending request for a layout shape
func NewMappingApprovalRequest(layout, signature string, format FileFormat, jobID, profileID, requestedBy uuid.UUID) (*MappingApprovalRequest, error) {
	if layout == "" || signature == "" {
		return nil, shared.NewDomainError("INVALID_APPROVAL_KEY", "Layout and signature are required")
	}
	if !format.IsValid() || format == FormatAuto {
		return nil, shared.NewDomainError("INVALID_FORMAT", "A resolved file format is required")
	}
	if jobID == uuid.Nil || profileID == uuid.Nil || requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPROVAL_REQUEST", "Job, profile and requester are required")
	}
	return &MappingApprovalRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Layout:            layout,
		Signature:         signature,
		Format:            format,
		State:             ApprovalStatePending,
		RequestedBy:       requestedBy,
		JobID:             jobID,
		ProfileID:         profileID,
	}, nil
}

func (r *MappingApprovalRequest) decide(state ApprovalState, decidedBy uuid.UUID, reason string) error {
	if r.State != ApprovalStatePending {
		return shared.NewDomainError("INVALID_STATE",
			"The request has already been decided: "+string(r.State))
	}
	if decidedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Deciding administrator is required")
	}
	now := time.Now()
	r.State = state
	r.DecidedBy = &decidedBy
	r.DecidedAt = &now
	r.Reason = reason
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// Approve marks the layout shape as trusted for staging
func (r *MappingApprovalRequest) Approve(decidedBy uuid.UUID) error {
	return r.decide(ApprovalStateApproved, decidedBy, "")
}

// Reject blocks the layout shape. The submitting operator must rework the
// mapping and open a new request.
func (r *MappingApprovalRequest) Reject(decidedBy uuid.UUID, reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A rejection needs a reason")
	}
	return r.decide(ApprovalStateRejected, decidedBy, reason)
}

// IsApproved reports whether staging may proceed under this request
func (r *MappingApprovalRequest) IsApproved() bool {
	return r.State == ApprovalStateApproved
}
