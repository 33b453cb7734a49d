package recon

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFormat_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		format FileFormat
		want   bool
	}{
		{"auto", FormatAuto, true},
		{"csv", FormatCSV, true},
		{"tsv", FormatTSV, true},
		{"json", FormatJSON, true},
		{"xml", FormatXML, true},
		{"delimited", FormatDelimited, true},
		{"invalid", FileFormat("yaml"), false},
		{"empty", FileFormat(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNewImportJob(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		job, err := NewImportJob("legacy-erp", "vendor_catalog", FormatCSV, []string{"vendors.csv"}, userID)

		require.NoError(t, err)
		assert.Equal(t, "legacy-erp", job.SourceSystem)
		assert.Equal(t, "vendor_catalog", job.Layout)
		assert.Equal(t, FormatCSV, job.Format)
		assert.Equal(t, JobStatusSubmitted, job.Status)
		assert.Equal(t, userID, job.SubmittedBy)
		assert.NotEqual(t, uuid.Nil, job.ID)
	})

	t.Run("empty source system", func(t *testing.T) {
		_, err := NewImportJob("", "vendor_catalog", FormatCSV, []string{"a.csv"}, userID)
		assert.Error(t, err)
	})

	t.Run("empty layout", func(t *testing.T) {
		_, err := NewImportJob("legacy-erp", "", FormatCSV, []string{"a.csv"}, userID)
		assert.Error(t, err)
	})

	t.Run("no files", func(t *testing.T) {
		_, err := NewImportJob("legacy-erp", "vendor_catalog", FormatCSV, nil, userID)
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewImportJob("legacy-erp", "vendor_catalog", FileFormat("yaml"), []string{"a.yaml"}, userID)
		assert.Error(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := NewImportJob("legacy-erp", "vendor_catalog", FormatCSV, []string{"a.csv"}, uuid.Nil)
		assert.Error(t, err)
	})
}

func newTestJob(t *testing.T) *ImportJob {
	t.Helper()
	job, err := NewImportJob("legacy-erp", "vendor_catalog", FormatCSV, []string{"vendors.csv"}, uuid.New())
	require.NoError(t, err)
	return job
}

func TestImportJob_HappyPath(t *testing.T) {
	job := newTestJob(t)
	profileID := uuid.New()

	require.NoError(t, job.MarkPreviewed(150))
	assert.Equal(t, JobStatusPreviewed, job.Status)
	assert.Equal(t, 150, job.RowCount)

	require.NoError(t, job.AttachMapping(profileID))
	assert.Equal(t, JobStatusMapped, job.Status)
	assert.Equal(t, &profileID, job.MappingProfileID)

	require.NoError(t, job.MarkStaged(145, 5))
	assert.Equal(t, JobStatusStaged, job.Status)
	assert.Equal(t, 145, job.StagedCount)
	assert.Equal(t, 5, job.ErrorCount)

	require.NoError(t, job.StartReview())
	assert.Equal(t, JobStatusInReview, job.Status)

	require.NoError(t, job.ApproveForApply())
	assert.Equal(t, JobStatusApprovedForApply, job.Status)

	require.NoError(t, job.CompleteApply(0))
	assert.Equal(t, JobStatusApplied, job.Status)
	assert.NotNil(t, job.AppliedAt)
	assert.True(t, job.Status.IsTerminal())
}

func TestImportJob_ApprovalGate(t *testing.T) {
	job := newTestJob(t)
	profileID := uuid.New()
	requestID := uuid.New()

	require.NoError(t, job.MarkPreviewed(10))
	require.NoError(t, job.AttachMapping(profileID))
	require.NoError(t, job.EnterApprovalGate(requestID))
	assert.True(t, job.IsPendingApproval())
	assert.Equal(t, &requestID, job.MappingRequestID)

	t.Run("staging blocked while pending", func(t *testing.T) {
		assert.Error(t, job.MarkStaged(10, 0))
	})

	t.Run("resubmission allowed while pending", func(t *testing.T) {
		otherProfile := uuid.New()
		require.NoError(t, job.AttachMapping(otherProfile))
		assert.Equal(t, JobStatusMapped, job.Status)
		assert.Nil(t, job.MappingRequestID)
	})

	t.Run("approval unblocks", func(t *testing.T) {
		require.NoError(t, job.EnterApprovalGate(uuid.New()))
		require.NoError(t, job.MappingApproved())
		assert.Equal(t, JobStatusMapped, job.Status)
		require.NoError(t, job.MarkStaged(10, 0))
	})
}

func TestImportJob_PartialApply(t *testing.T) {
	job := newTestJob(t)
	require.NoError(t, job.MarkPreviewed(20))
	require.NoError(t, job.AttachMapping(uuid.New()))
	require.NoError(t, job.MarkStaged(20, 0))
	require.NoError(t, job.StartReview())
	require.NoError(t, job.ApproveForApply())

	require.NoError(t, job.CompleteApply(3))
	assert.Equal(t, JobStatusAppliedWithErrors, job.Status)
	assert.Equal(t, 3, job.FailedApplyCount)

	t.Run("re-apply can reach clean state", func(t *testing.T) {
		require.NoError(t, job.CompleteApply(0))
		assert.Equal(t, JobStatusApplied, job.Status)
		assert.Equal(t, 0, job.FailedApplyCount)
	})
}

func TestImportJob_InvalidTransitions(t *testing.T) {
	t.Run("stage before mapping", func(t *testing.T) {
		job := newTestJob(t)
		require.NoError(t, job.MarkPreviewed(5))
		assert.Error(t, job.MarkStaged(5, 0))
	})

	t.Run("apply before review complete", func(t *testing.T) {
		job := newTestJob(t)
		require.NoError(t, job.MarkPreviewed(5))
		require.NoError(t, job.AttachMapping(uuid.New()))
		require.NoError(t, job.MarkStaged(5, 0))
		assert.Error(t, job.CompleteApply(0))
	})

	t.Run("review before staging", func(t *testing.T) {
		job := newTestJob(t)
		assert.Error(t, job.StartReview())
	})

	t.Run("mapping on fresh job", func(t *testing.T) {
		job := newTestJob(t)
		assert.Error(t, job.AttachMapping(uuid.New()))
	})
}
