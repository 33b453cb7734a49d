package recon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// FileFormat represents the declared or detected format of uploaded files
type FileFormat string

const (
	FormatAuto      FileFormat = "auto"
	FormatCSV       FileFormat = "csv"
	FormatTSV       FileFormat = "tsv"
	FormatJSON      FileFormat = "json"
	FormatXML       FileFormat = "xml"
	FormatDelimited FileFormat = "delimited"
)

// IsValid checks if the file format is supported
func (f FileFormat) IsValid() bool {
	switch f {
	case FormatAuto, FormatCSV, FormatTSV, FormatJSON, FormatXML, FormatDelimited:
		return true
	}
	return false
}

// JobStatus represents the import job's position in the pipeline
type JobStatus string

const (
	JobStatusSubmitted         JobStatus = "submitted"
	JobStatusPreviewed         JobStatus = "previewed"
	JobStatusMapped            JobStatus = "mapped"
	JobStatusPendingApproval   JobStatus = "pending_approval"
	JobStatusStaged            JobStatus = "staged"
	JobStatusInReview          JobStatus = "in_review"
	JobStatusApprovedForApply  JobStatus = "approved_for_apply"
	JobStatusApplied           JobStatus = "applied"
	JobStatusAppliedWithErrors JobStatus = "applied_with_errors"
)

// IsTerminal returns true when the job has completed an apply pass
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusApplied || s == JobStatusAppliedWithErrors
}

// ImportJob tracks one import of peer-system reference data from upload
// through apply. Jobs are never physically deleted; terminal states are
// retained for inspection. The status field is the only concurrency guard:
// each stage checks its entry precondition against the current status.
type ImportJob struct {
	shared.BaseAggregateRoot
	SourceSystem     string     `gorm:"type:varchar(200);not null"`
	FileNames        StringList `gorm:"type:jsonb;not null;default:'[]'"`
	Format           FileFormat `gorm:"type:varchar(20);not null;default:'auto'"`
	Layout           string     `gorm:"type:varchar(100);not null;index"`
	RecordPath       string     `gorm:"type:varchar(300)"` // XML repeating-record path, optional
	Status           JobStatus  `gorm:"type:varchar(30);not null;index"`
	RowCount         int        `gorm:"not null;default:0"`
	StagedCount      int        `gorm:"not null;default:0"`
	ErrorCount       int        `gorm:"not null;default:0"`
	FailedApplyCount int        `gorm:"not null;default:0"`
	MappingProfileID *uuid.UUID `gorm:"type:uuid;index"`
	MappingRequestID *uuid.UUID `gorm:"type:uuid;index"`
	SubmittedBy      uuid.UUID  `gorm:"type:uuid;not null;index"`
	AppliedAt        *time.Time
}

// TableName returns the table name for GORM
func (ImportJob) TableName() string {
	return "import_jobs"
}

// NewImportJob creates a new import job in the submitted state
func NewImportJob(sourceSystem, layout string, format FileFormat, fileNames []string, submittedBy uuid.UUID) (*ImportJob, error) {
	if sourceSystem == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_SYSTEM", "Source system cannot be empty")
	}
	if layout == "" {
		return nil, shared.NewDomainError("INVALID_LAYOUT", "Target layout cannot be empty")
	}
	if !format.IsValid() {
		return nil, shared.NewDomainError("INVALID_FORMAT", fmt.Sprintf("Unsupported file format: %s", format))
	}
	if len(fileNames) == 0 {
		return nil, shared.NewDomainError("INVALID_FILES", "At least one source file is required")
	}
	if submittedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Submitting user is required")
	}
	return &ImportJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SourceSystem:      sourceSystem,
		FileNames:         fileNames,
		Format:            format,
		Layout:            layout,
		Status:            JobStatusSubmitted,
		SubmittedBy:       submittedBy,
	}, nil
}

func (j *ImportJob) transition(to JobStatus, from ...JobStatus) error {
	for _, f := range from {
		if j.Status == f {
			j.Status = to
			j.UpdatedAt = time.Now()
			j.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("Cannot move job from %s to %s", j.Status, to))
}

// MarkPreviewed records extraction results and moves the job to previewed
func (j *ImportJob) MarkPreviewed(rowCount int) error {
	if rowCount < 0 {
		return shared.NewDomainError("INVALID_ROW_COUNT", "Row count cannot be negative")
	}
	if err := j.transition(JobStatusPreviewed, JobStatusSubmitted, JobStatusPreviewed); err != nil {
		return err
	}
	j.RowCount = rowCount
	return nil
}

// AttachMapping records the mapping profile used by this job and moves it
// to mapped. Re-submission after a rejected approval is allowed.
func (j *ImportJob) AttachMapping(profileID uuid.UUID) error {
	if profileID == uuid.Nil {
		return shared.NewDomainError("INVALID_PROFILE", "Mapping profile is required")
	}
	if err := j.transition(JobStatusMapped, JobStatusPreviewed, JobStatusMapped, JobStatusPendingApproval); err != nil {
		return err
	}
	j.MappingProfileID = &profileID
	j.MappingRequestID = nil
	return nil
}

// EnterApprovalGate parks the job behind the administrative approval gate
func (j *ImportJob) EnterApprovalGate(requestID uuid.UUID) error {
	if requestID == uuid.Nil {
		return shared.NewDomainError("INVALID_REQUEST", "Mapping request ID is required")
	}
	if err := j.transition(JobStatusPendingApproval, JobStatusMapped); err != nil {
		return err
	}
	j.MappingRequestID = &requestID
	return nil
}

// MappingApproved unblocks a job parked behind the approval gate
func (j *ImportJob) MappingApproved() error {
	return j.transition(JobStatusMapped, JobStatusPendingApproval)
}

// MarkStaged records staging results. Error rows are counted here and then
// only consulted at apply time, where they are excluded.
func (j *ImportJob) MarkStaged(stagedCount, errorCount int) error {
	if err := j.transition(JobStatusStaged, JobStatusMapped); err != nil {
		return err
	}
	j.StagedCount = stagedCount
	j.ErrorCount = errorCount
	return nil
}

// StartReview moves a staged job into the review workflow
func (j *ImportJob) StartReview() error {
	return j.transition(JobStatusInReview, JobStatusStaged, JobStatusInReview)
}

// ApproveForApply moves the job to its terminal pre-apply state. Callers
// must have confirmed every review area first.
func (j *ImportJob) ApproveForApply() error {
	return j.transition(JobStatusApprovedForApply, JobStatusInReview)
}

// CompleteApply records the apply outcome. Re-applying an already-applied
// job re-attempts every eligible row, so terminal states accept another
// apply pass.
func (j *ImportJob) CompleteApply(failedRows int) error {
	to := JobStatusApplied
	if failedRows > 0 {
		to = JobStatusAppliedWithErrors
	}
	if err := j.transition(to, JobStatusApprovedForApply, JobStatusApplied, JobStatusAppliedWithErrors); err != nil {
		return err
	}
	j.FailedApplyCount = failedRows
	now := time.Now()
	j.AppliedAt = &now
	return nil
}

// IsPendingApproval reports whether the job is parked behind the gate
func (j *ImportJob) IsPendingApproval() bool {
	return j.Status == JobStatusPendingApproval
}
