package reconapp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/infrastructure/extract"
)

// Caps are the operational limits of the pipeline
type Caps struct {
	MaxRowsPerJob       int
	PreviewRows         int
	MaxResultErrors     int
	MaxProfilesPerOwner int
}

// DefaultCaps are the limits used when configuration is silent
func DefaultCaps() Caps {
	return Caps{
		MaxRowsPerJob:       20000,
		PreviewRows:         1200,
		MaxResultErrors:     800,
		MaxProfilesPerOwner: 120,
	}
}

// FileArchive stores the uploaded source files of a job so later pipeline
// stages can re-read them
type FileArchive interface {
	Store(ctx context.Context, jobID uuid.UUID, name string, data []byte) error
	Fetch(ctx context.Context, jobID uuid.UUID, name string) ([]byte, error)
}

// SubmitJobRequest starts a new import job
type SubmitJobRequest struct {
	SourceSystem string
	Layout       string
	Format       recon.FileFormat
	RecordPath   string
	Files        []extract.File
}

// JobSummary is the list and detail representation of a job
type JobSummary struct {
	ID               uuid.UUID        `json:"id"`
	SourceSystem     string           `json:"source_system"`
	Layout           string           `json:"layout"`
	Format           recon.FileFormat `json:"format"`
	FileNames        []string         `json:"file_names"`
	Status           recon.JobStatus  `json:"status"`
	RowCount         int              `json:"row_count"`
	StagedCount      int              `json:"staged_count"`
	ErrorCount       int              `json:"error_count"`
	FailedApplyCount int              `json:"failed_apply_count"`
	SubmittedBy      uuid.UUID        `json:"submitted_by"`
	CreatedAt        time.Time        `json:"created_at"`
	AppliedAt        *time.Time       `json:"applied_at,omitempty"`
}

// NewJobSummary converts a job aggregate for transport
func NewJobSummary(job *recon.ImportJob) JobSummary {
	return JobSummary{
		ID:               job.ID,
		SourceSystem:     job.SourceSystem,
		Layout:           job.Layout,
		Format:           job.Format,
		FileNames:        job.FileNames,
		Status:           job.Status,
		RowCount:         job.RowCount,
		StagedCount:      job.StagedCount,
		ErrorCount:       job.ErrorCount,
		FailedApplyCount: job.FailedApplyCount,
		SubmittedBy:      job.SubmittedBy,
		CreatedAt:        job.CreatedAt,
		AppliedAt:        job.AppliedAt,
	}
}

// PreviewResponse is the submit/preview result: the job plus a capped
// sample of extracted rows
type PreviewResponse struct {
	Job        JobSummary           `json:"job"`
	Columns    []recon.SourceField  `json:"columns"`
	Rows       []map[string]string  `json:"rows"`
	TotalRows  int                  `json:"total_rows"`
	Truncated  bool                 `json:"truncated"`
	FileErrors []FileErrorDTO       `json:"file_errors,omitempty"`
	Signature  string               `json:"signature"`
}

// FileErrorDTO reports a source file that failed extraction
type FileErrorDTO struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProfileSummary is the transport form of a mapping profile
type ProfileSummary struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Layout    string               `json:"layout"`
	Signature string               `json:"signature"`
	Format    recon.FileFormat     `json:"format"`
	Scope     recon.ProfileScope   `json:"scope"`
	Fields    []recon.SourceField  `json:"fields"`
	Bindings  []recon.FieldBinding `json:"bindings"`
	LastUsed  time.Time            `json:"last_used"`
}

// NewProfileSummary converts a profile aggregate for transport
func NewProfileSummary(p *recon.MappingProfile) ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		Name:      p.Name,
		Layout:    p.Layout,
		Signature: p.Signature,
		Format:    p.Format,
		Scope:     p.Scope,
		Fields:    p.Fields,
		Bindings:  p.Bindings,
		LastUsed:  p.LastUsed,
	}
}

// MappingContext is everything the mapping screen needs: observed columns,
// compatible saved profiles and the target field catalog
type MappingContext struct {
	Job       JobSummary                       `json:"job"`
	Columns   []recon.SourceField              `json:"columns"`
	Signature string                           `json:"signature"`
	Profiles  []ProfileSummary                 `json:"profiles"`
	Targets   map[recon.Area][]TargetField     `json:"targets"`
}

// SubmitMappingRequest applies a mapping to a job. Either an existing
// profile is referenced or inline bindings are supplied, optionally saved
// as a new profile.
type SubmitMappingRequest struct {
	ProfileID *uuid.UUID           `json:"profile_id"`
	Bindings  []recon.FieldBinding `json:"bindings"`
	SaveAs    string               `json:"save_as"`
	SaveScope recon.ProfileScope   `json:"save_scope"`
}

// MappingResult reports the outcome of a mapping submission
type MappingResult struct {
	Job             JobSummary `json:"job"`
	ProfileID       uuid.UUID  `json:"profile_id"`
	PendingApproval bool       `json:"pending_approval"`
	RequestID       *uuid.UUID `json:"request_id,omitempty"`
}

// StagingResult reports the outcome of a staging pass
type StagingResult struct {
	Job         JobSummary              `json:"job"`
	StagedCount int                     `json:"staged_count"`
	ReviewCount int                     `json:"review_count"`
	ErrorCount  int                     `json:"error_count"`
	ByArea      map[recon.Area]int      `json:"by_area"`
	Errors      []extract.RowError      `json:"errors,omitempty"`
	Truncated   bool                    `json:"errors_truncated,omitempty"`
}

// StagedRowDTO is the review representation of one staged row
type StagedRowDTO struct {
	ID         uuid.UUID           `json:"id"`
	Area       recon.Area          `json:"area"`
	SourceFile string              `json:"source_file"`
	SourceLine int                 `json:"source_line"`
	Raw        map[string]string   `json:"raw"`
	Mapped     map[string]string   `json:"mapped"`
	Status     recon.RowStatus     `json:"status"`
	Decision   recon.MatchDecision `json:"decision"`
	MatchedID  *uuid.UUID          `json:"matched_id,omitempty"`
	ParentID   *uuid.UUID          `json:"parent_id,omitempty"`
	MatchNote  string              `json:"match_note,omitempty"`
	ErrorText  string              `json:"error_text,omitempty"`
	Outcome    recon.ApplyOutcome  `json:"outcome,omitempty"`
	AppliedID  *uuid.UUID          `json:"applied_id,omitempty"`
	FailReason string              `json:"fail_reason,omitempty"`
}

// NewStagedRowDTO converts a staged row for transport
func NewStagedRowDTO(row *recon.StagedRow) StagedRowDTO {
	return StagedRowDTO{
		ID:         row.ID,
		Area:       row.Area,
		SourceFile: row.SourceFile,
		SourceLine: row.SourceLine,
		Raw:        row.Raw,
		Mapped:     row.Mapped,
		Status:     row.Status,
		Decision:   row.Decision,
		MatchedID:  row.MatchedID,
		ParentID:   row.ParentID,
		MatchNote:  row.MatchNote,
		ErrorText:  row.ErrorText,
		Outcome:    row.Outcome,
		AppliedID:  row.AppliedID,
		FailReason: row.FailReason,
	}
}

// AreaReviewView is one area's review page
type AreaReviewView struct {
	Area        recon.Area     `json:"area"`
	Rows        []StagedRowDTO `json:"rows"`
	TotalRows   int64          `json:"total_rows"`
	ReviewCount int64          `json:"review_count"`
	Confirmed   bool           `json:"confirmed"`
	ConfirmedBy *uuid.UUID     `json:"confirmed_by,omitempty"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty"`
}

// ReviewOverview is the whole-job review state across areas
type ReviewOverview struct {
	Job       JobSummary       `json:"job"`
	Areas     []AreaReviewView `json:"areas"`
	AllSigned bool             `json:"all_signed"`
}

// ApprovalSummary is the transport form of a mapping approval request
type ApprovalSummary struct {
	ID          uuid.UUID           `json:"id"`
	Layout      string              `json:"layout"`
	Signature   string              `json:"signature"`
	Format      recon.FileFormat    `json:"format"`
	State       recon.ApprovalState `json:"state"`
	RequestedBy uuid.UUID           `json:"requested_by"`
	JobID       uuid.UUID           `json:"job_id"`
	DecidedBy   *uuid.UUID          `json:"decided_by,omitempty"`
	DecidedAt   *time.Time          `json:"decided_at,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewApprovalSummary converts an approval request for transport
func NewApprovalSummary(r *recon.MappingApprovalRequest) ApprovalSummary {
	return ApprovalSummary{
		ID:          r.ID,
		Layout:      r.Layout,
		Signature:   r.Signature,
		Format:      r.Format,
		State:       r.State,
		RequestedBy: r.RequestedBy,
		JobID:       r.JobID,
		DecidedBy:   r.DecidedBy,
		DecidedAt:   r.DecidedAt,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}
}

// AreaApplyResult is one area's apply outcome
type AreaApplyResult struct {
	Area    recon.Area `json:"area"`
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Failed  int        `json:"failed"`
}

// ApplyResult is the whole-job apply outcome
type ApplyResult struct {
	Job       JobSummary          `json:"job"`
	Areas     []AreaApplyResult   `json:"areas"`
	Failed    int                 `json:"failed"`
	Errors    []extract.RowError  `json:"errors,omitempty"`
	Truncated bool                `json:"errors_truncated,omitempty"`
}
