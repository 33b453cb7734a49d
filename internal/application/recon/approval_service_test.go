package reconapp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

func newParkedJob(t *testing.T) (*recon.ImportJob, *recon.MappingApprovalRequest) {
	t.Helper()
	job, err := recon.NewImportJob("legacy-erp", "vendor_master", recon.FormatCSV,
		[]string{"vendors.csv"}, newTestUserID())
	require.NoError(t, err)
	require.NoError(t, job.MarkPreviewed(2))
	profileID := uuid.New()
	require.NoError(t, job.AttachMapping(profileID))

	request, err := recon.NewMappingApprovalRequest("vendor_master", "sig", recon.FormatCSV,
		job.ID, profileID, newTestUserID())
	require.NoError(t, err)
	require.NoError(t, job.EnterApprovalGate(request.ID))
	return job, request
}

func TestApprovalService_Decide_Approve(t *testing.T) {
	ctx := context.Background()
	job, request := newParkedJob(t)

	approvals := new(MockApprovalRepository)
	jobs := new(MockImportJobRepository)
	service := NewApprovalService(approvals, jobs, shared.NoopAuditRecorder{}, zap.NewNop())

	approvals.On("FindByID", ctx, request.ID).Return(request, nil)
	approvals.On("Save", ctx, request).Return(nil)
	jobs.On("FindByID", ctx, job.ID).Return(job, nil)
	jobs.On("Save", ctx, job).Return(nil)

	summary, err := service.Decide(ctx, request.ID, newTestAdminID(), true, "")

	require.NoError(t, err)
	assert.Equal(t, recon.ApprovalStateApproved, summary.State)
	require.NotNil(t, summary.DecidedBy)
	assert.Equal(t, newTestAdminID(), *summary.DecidedBy)
	// The parked job is unblocked back to mapped.
	assert.Equal(t, recon.JobStatusMapped, job.Status)
	jobs.AssertExpectations(t)
}

func TestApprovalService_Decide_StaleRequest(t *testing.T) {
	ctx := context.Background()
	job, request := newParkedJob(t)

	// The operator re-mapped while the request sat in the queue; the job now
	// rides a newer request.
	require.NoError(t, job.AttachMapping(uuid.New()))
	newer := uuid.New()
	require.NoError(t, job.EnterApprovalGate(newer))

	approvals := new(MockApprovalRepository)
	jobs := new(MockImportJobRepository)
	service := NewApprovalService(approvals, jobs, shared.NoopAuditRecorder{}, zap.NewNop())

	approvals.On("FindByID", ctx, request.ID).Return(request, nil)
	approvals.On("Save", ctx, request).Return(nil)
	jobs.On("FindByID", ctx, job.ID).Return(job, nil)

	summary, err := service.Decide(ctx, request.ID, newTestAdminID(), true, "")

	require.NoError(t, err)
	assert.Equal(t, recon.ApprovalStateApproved, summary.State)
	// The stale approval must not unblock the job.
	assert.Equal(t, recon.JobStatusPendingApproval, job.Status)
	assert.Equal(t, newer, *job.MappingRequestID)
	jobs.AssertNotCalled(t, "Save")
}

func TestApprovalService_Decide_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection parks the job", func(t *testing.T) {
		job, request := newParkedJob(t)
		approvals := new(MockApprovalRepository)
		jobs := new(MockImportJobRepository)
		service := NewApprovalService(approvals, jobs, shared.NoopAuditRecorder{}, zap.NewNop())

		approvals.On("FindByID", ctx, request.ID).Return(request, nil)
		approvals.On("Save", ctx, request).Return(nil)

		summary, err := service.Decide(ctx, request.ID, newTestAdminID(), false, "columns misread")

		require.NoError(t, err)
		assert.Equal(t, recon.ApprovalStateRejected, summary.State)
		assert.Equal(t, "columns misread", summary.Reason)
		// The job stays parked until the operator reworks the mapping.
		assert.Equal(t, recon.JobStatusPendingApproval, job.Status)
		jobs.AssertNotCalled(t, "FindByID")
	})

	t.Run("rejection needs a reason", func(t *testing.T) {
		_, request := newParkedJob(t)
		approvals := new(MockApprovalRepository)
		jobs := new(MockImportJobRepository)
		service := NewApprovalService(approvals, jobs, shared.NoopAuditRecorder{}, zap.NewNop())

		approvals.On("FindByID", ctx, request.ID).Return(request, nil)

		_, err := service.Decide(ctx, request.ID, newTestAdminID(), false, "")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
		approvals.AssertNotCalled(t, "Save")
	})

	t.Run("a decided request cannot be decided again", func(t *testing.T) {
		_, request := newParkedJob(t)
		require.NoError(t, request.Reject(newTestAdminID(), "columns misread"))

		approvals := new(MockApprovalRepository)
		jobs := new(MockImportJobRepository)
		service := NewApprovalService(approvals, jobs, shared.NoopAuditRecorder{}, zap.NewNop())

		approvals.On("FindByID", ctx, request.ID).Return(request, nil)

		_, err := service.Decide(ctx, request.ID, newTestAdminID(), true, "")

		require.Error(t, err)
		approvals.AssertNotCalled(t, "Save")
	})
}

func TestApprovalService_ListPending(t *testing.T) {
	ctx := context.Background()
	_, request := newParkedJob(t)

	approvals := new(MockApprovalRepository)
	jobs := new(MockImportJobRepository)
	service := NewApprovalService(approvals, jobs, shared.NoopAuditRecorder{}, zap.NewNop())

	filter := shared.Filter{Page: 1, PageSize: 20}
	approvals.On("FindPending", ctx, filter).
		Return([]recon.MappingApprovalRequest{*request}, nil)

	pending, err := service.ListPending(ctx, filter)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, request.ID, pending[0].ID)
	assert.Equal(t, recon.ApprovalStatePending, pending[0].State)
}
