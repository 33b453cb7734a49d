package reconapp

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// ApprovalService handles the administrative decision queue for mapping
// layouts
type ApprovalService struct {
	approvals recon.ApprovalRepository
	jobs      recon.ImportJobRepository
	audit     shared.AuditRecorder
	logger    *zap.Logger
}

// NewApprovalService creates the approval service
func NewApprovalService(approvals recon.ApprovalRepository, jobs recon.ImportJobRepository, audit shared.AuditRecorder, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		approvals: approvals,
		jobs:      jobs,
		audit:     audit,
		logger:    logger,
	}
}

// ListPending returns undecided requests, oldest first
func (s *ApprovalService) ListPending(ctx context.Context, filter shared.Filter) ([]ApprovalSummary, error) {
	requests, err := s.approvals.FindPending(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ApprovalSummary, 0, len(requests))
	for i := range requests {
		out = append(out, NewApprovalSummary(&requests[i]))
	}
	return out, nil
}

// Decide records an administrator's decision and unblocks the requesting
// job on approval. A rejection leaves the job parked; the operator must
// rework the mapping and resubmit.
func (s *ApprovalService) Decide(ctx context.Context, requestID, adminID uuid.UUID, approve bool, reason string) (*ApprovalSummary, error) {
	request, err := s.approvals.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if approve {
		err = request.Approve(adminID)
	} else {
		err = request.Reject(adminID, reason)
	}
	if err != nil {
		return nil, err
	}
	if err := s.approvals.Save(ctx, request); err != nil {
		return nil, err
	}

	if approve {
		job, err := s.jobs.FindByID(ctx, request.JobID)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		// The job may have been re-mapped since the request was opened; an
		// approval for a stale request then has nothing to unblock.
		if err == nil && job.IsPendingApproval() &&
			job.MappingRequestID != nil && *job.MappingRequestID == request.ID {
			if err := job.MappingApproved(); err != nil {
				return nil, err
			}
			if err := s.jobs.Save(ctx, job); err != nil {
				return nil, err
			}
		}
	}

	action := "mapping.reject"
	if approve {
		action = "mapping.approve"
	}
	s.audit.Record(ctx, shared.AuditEntry{
		Actor: adminID.String(), Action: action,
		Subject: "mapping_approval", SubjectID: request.ID.String(),
		Detail: reason,
	})
	s.logger.Info("mapping approval decided",
		zap.String("request_id", request.ID.String()),
		zap.Bool("approved", approve))

	summary := NewApprovalSummary(request)
	return &summary, nil
}
