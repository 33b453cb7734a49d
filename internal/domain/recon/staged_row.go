package recon

import (
	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// RowStatus classifies a staged row after mapping and matching
type RowStatus string

const (
	// RowStatusReady rows passed validation and matching with no ambiguity.
	RowStatusReady RowStatus = "ready"
	// RowStatusReview rows need a human decision: ambiguous match, weak
	// match, or a conflict with canonical data.
	RowStatusReview RowStatus = "review"
	// RowStatusError rows failed validation and are excluded from apply.
	RowStatusError RowStatus = "error"
)

// MatchDecision is how a staged row relates to canonical data
type MatchDecision string

const (
	// MatchDecisionCreate stages the row as a new canonical entity.
	MatchDecisionCreate MatchDecision = "create"
	// MatchDecisionUpdate stages the row as an update to a matched entity.
	MatchDecisionUpdate MatchDecision = "update"
	// MatchDecisionSkip leaves the canonical catalog untouched for this row.
	MatchDecisionSkip MatchDecision = "skip"
)

// ApplyOutcome records what the apply engine did with a row
type ApplyOutcome string

const (
	ApplyOutcomeNone    ApplyOutcome = ""
	ApplyOutcomeCreated ApplyOutcome = "created"
	ApplyOutcomeUpdated ApplyOutcome = "updated"
	ApplyOutcomeFailed  ApplyOutcome = "failed"
)

// StagedRow is one extracted source row routed to a target area, carrying
// its raw values, mapped values, match result, and apply outcome. Rows are
// stored per area and keep their source line for traceability.
type StagedRow struct {
	shared.BaseEntity
	JobID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	Area       Area          `gorm:"type:varchar(30);not null;index"`
	SourceFile string        `gorm:"type:varchar(300);not null"`
	SourceLine int           `gorm:"not null"`
	Raw        FieldMap      `gorm:"type:jsonb;not null;default:'{}'"`
	Mapped     FieldMap      `gorm:"type:jsonb;not null;default:'{}'"`
	Status     RowStatus     `gorm:"type:varchar(10);not null;index"`
	Decision   MatchDecision `gorm:"type:varchar(10);not null;default:'create'"`
	MatchedID  *uuid.UUID    `gorm:"type:uuid;index"`
	// ParentID is the canonical parent entity resolved at staging for rows
	// whose source line carries no parent row of its own.
	ParentID   *uuid.UUID    `gorm:"type:uuid"`
	MatchNote  string        `gorm:"type:varchar(500)"`
	ErrorText  string        `gorm:"type:varchar(1000)"`
	Outcome    ApplyOutcome  `gorm:"type:varchar(10);not null;default:''"`
	AppliedID  *uuid.UUID    `gorm:"type:uuid"`
	FailReason string        `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (StagedRow) TableName() string {
	return "staged_rows"
}

// NewStagedRow creates a staged row for an area in the ready state
func NewStagedRow(jobID uuid.UUID, area Area, sourceFile string, sourceLine int, raw, mapped FieldMap) (*StagedRow, error) {
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB_ID", "Job ID is required")
	}
	if !area.IsValid() {
		return nil, shared.NewDomainError("INVALID_AREA", "Unknown target area: "+string(area))
	}
	return &StagedRow{
		BaseEntity: shared.NewBaseEntity(),
		JobID:      jobID,
		Area:       area,
		SourceFile: sourceFile,
		SourceLine: sourceLine,
		Raw:        raw,
		Mapped:     mapped,
		Status:     RowStatusReady,
		Decision:   MatchDecisionCreate,
	}, nil
}

// MarkMatched records an unambiguous match and stages the row as an update
func (r *StagedRow) MarkMatched(matchedID uuid.UUID, note string) {
	r.MatchedID = &matchedID
	r.MatchNote = note
	r.Decision = MatchDecisionUpdate
	r.Touch()
}

// SetParent pins the row to an already-resolved canonical parent entity
func (r *StagedRow) SetParent(parentID uuid.UUID) {
	r.ParentID = &parentID
	r.Touch()
}

// MarkReview flags the row for human review
func (r *StagedRow) MarkReview(note string) {
	r.Status = RowStatusReview
	r.MatchNote = note
	r.Touch()
}

// MarkError excludes the row from apply with a validation message
func (r *StagedRow) MarkError(message string) {
	r.Status = RowStatusError
	r.ErrorText = message
	r.Touch()
}

// Resolve records a reviewer's decision on a review row
func (r *StagedRow) Resolve(decision MatchDecision, matchedID *uuid.UUID) error {
	if r.Status == RowStatusError {
		return shared.NewDomainError("INVALID_STATE", "Error rows cannot be resolved")
	}
	switch decision {
	case MatchDecisionCreate:
		r.MatchedID = nil
	case MatchDecisionUpdate:
		if matchedID == nil || *matchedID == uuid.Nil {
			return shared.NewDomainError("INVALID_MATCH", "An update decision needs a target entity")
		}
		r.MatchedID = matchedID
	case MatchDecisionSkip:
	default:
		return shared.NewDomainError("INVALID_DECISION", "Unknown match decision: "+string(decision))
	}
	r.Decision = decision
	r.Status = RowStatusReady
	r.Touch()
	return nil
}

// Eligible reports whether the apply engine should attempt this row
func (r *StagedRow) Eligible() bool {
	return r.Status == RowStatusReady && r.Decision != MatchDecisionSkip
}

// RecordApplied annotates the row with a successful apply outcome
func (r *StagedRow) RecordApplied(outcome ApplyOutcome, appliedID uuid.UUID) {
	r.Outcome = outcome
	r.AppliedID = &appliedID
	r.FailReason = ""
	r.Touch()
}

// RecordFailed annotates the row with an apply failure. The row stays in
// place so a later re-apply can pick it up again.
func (r *StagedRow) RecordFailed(reason string) {
	r.Outcome = ApplyOutcomeFailed
	r.FailReason = reason
	r.Touch()
}
