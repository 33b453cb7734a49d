package reconapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// ReviewService walks a staged job through the ordered area sign-off
type ReviewService struct {
	jobs    recon.ImportJobRepository
	rows    recon.StagedRowRepository
	reviews recon.ReviewRepository
	audit   shared.AuditRecorder
	logger  *zap.Logger
}

// NewReviewService creates the review service
func NewReviewService(jobs recon.ImportJobRepository, rows recon.StagedRowRepository, reviews recon.ReviewRepository, audit shared.AuditRecorder, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		jobs:    jobs,
		rows:    rows,
		reviews: reviews,
		audit:   audit,
		logger:  logger,
	}
}

func reviewable(status recon.JobStatus) bool {
	switch status {
	case recon.JobStatusStaged, recon.JobStatusInReview, recon.JobStatusApprovedForApply,
		recon.JobStatusApplied, recon.JobStatusAppliedWithErrors:
		return true
	}
	return false
}

// AreaView returns one area's staged rows with its confirmation state
func (s *ReviewService) AreaView(ctx context.Context, jobID uuid.UUID, area recon.Area, filter shared.Filter) (*AreaReviewView, error) {
	if !area.IsValid() {
		return nil, shared.NewDomainError("INVALID_AREA", "Unknown review area: "+string(area))
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !reviewable(job.Status) {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Job is not reviewable in status %s", job.Status))
	}

	rows, err := s.rows.FindByJobAndArea(ctx, jobID, area, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.rows.CountByArea(ctx, jobID)
	if err != nil {
		return nil, err
	}

	view := &AreaReviewView{
		Area:      area,
		Rows:      make([]StagedRowDTO, 0, len(rows)),
		TotalRows: counts[area],
	}
	for i := range rows {
		view.Rows = append(view.Rows, NewStagedRowDTO(&rows[i]))
		if rows[i].Status == recon.RowStatusReview {
			view.ReviewCount++
		}
	}

	confirmation, err := s.reviews.FindByJobAndArea(ctx, jobID, area)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if confirmation != nil {
		view.Confirmed = true
		view.ConfirmedBy = &confirmation.ConfirmedBy
		view.ConfirmedAt = &confirmation.ConfirmedAt
	}

	return view, nil
}

// ResolveRow records a reviewer's decision on a single row
func (s *ReviewService) ResolveRow(ctx context.Context, jobID, rowID, userID uuid.UUID, decision recon.MatchDecision, matchedID *uuid.UUID) (*StagedRowDTO, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != recon.JobStatusStaged && job.Status != recon.JobStatusInReview {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Rows can only be resolved before the job is approved for apply")
	}

	row, err := s.rows.FindByID(ctx, rowID)
	if err != nil {
		return nil, err
	}
	if row.JobID != jobID {
		return nil, shared.ErrNotFound
	}

	// Resolving a row reopens its area; the confirmation must be redone.
	if confirmed, err := s.reviews.FindByJobAndArea(ctx, jobID, row.Area); err == nil && confirmed != nil {
		return nil, shared.NewDomainError("AREA_CONFIRMED",
			fmt.Sprintf("Area %s is already confirmed", row.Area))
	} else if err != nil && err != shared.ErrNotFound {
		return nil, err
	}

	if err := row.Resolve(decision, matchedID); err != nil {
		return nil, err
	}
	if err := s.rows.Save(ctx, row); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.AuditEntry{
		Actor: userID.String(), Action: "review.resolve",
		Subject: "staged_row", SubjectID: row.ID.String(),
		Detail: string(decision),
	})

	dto := NewStagedRowDTO(row)
	return &dto, nil
}

// ConfirmArea signs off one area. Areas confirm in the fixed order; a
// repeat confirmation of an already-signed area is a no-op.
func (s *ReviewService) ConfirmArea(ctx context.Context, jobID uuid.UUID, area recon.Area, userID uuid.UUID, note string) (*ReviewOverview, error) {
	if !area.IsValid() {
		return nil, shared.NewDomainError("INVALID_AREA", "Unknown review area: "+string(area))
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == recon.JobStatusStaged {
		if err := job.StartReview(); err != nil {
			return nil, err
		}
	} else if job.Status != recon.JobStatusInReview {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Job cannot be reviewed in status %s", job.Status))
	}

	confirmations, err := s.reviews.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	confirmed := make(map[recon.Area]bool, len(confirmations))
	for _, c := range confirmations {
		confirmed[c.Area] = true
	}

	if !confirmed[area] {
		if err := recon.CheckReviewOrder(area, confirmed); err != nil {
			return nil, err
		}

		// Unresolved review rows block the sign-off.
		rows, err := s.rows.FindByJobAndArea(ctx, jobID, area, shared.Filter{
			Page: 1, PageSize: 1,
			Filters: map[string]interface{}{"status": string(recon.RowStatusReview)},
		})
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return nil, shared.NewDomainError("UNRESOLVED_ROWS",
				fmt.Sprintf("Area %s still has rows awaiting a decision", area))
		}

		confirmation, err := recon.NewReviewConfirmation(jobID, area, userID, note)
		if err != nil {
			return nil, err
		}
		if err := s.reviews.Save(ctx, confirmation); err != nil {
			return nil, err
		}
		confirmed[area] = true

		s.audit.Record(ctx, shared.AuditEntry{
			Actor: userID.String(), Action: "review.confirm",
			Subject: "import_job", SubjectID: jobID.String(),
			Detail: string(area),
		})
	}

	if recon.AllAreasConfirmed(confirmed) && job.Status == recon.JobStatusInReview {
		if err := job.ApproveForApply(); err != nil {
			return nil, err
		}
		s.logger.Info("import job approved for apply", zap.String("job_id", job.ID.String()))
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	return s.Overview(ctx, jobID)
}

// Overview returns the whole-job review state across every area
func (s *ReviewService) Overview(ctx context.Context, jobID uuid.UUID) (*ReviewOverview, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	confirmations, err := s.reviews.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	byArea := make(map[recon.Area]*recon.ReviewConfirmation, len(confirmations))
	for i := range confirmations {
		byArea[confirmations[i].Area] = &confirmations[i]
	}

	counts, err := s.rows.CountByArea(ctx, jobID)
	if err != nil {
		return nil, err
	}

	overview := &ReviewOverview{
		Job:       NewJobSummary(job),
		Areas:     make([]AreaReviewView, 0, len(recon.AreaOrder)),
		AllSigned: true,
	}
	for _, area := range recon.AreaOrder {
		view := AreaReviewView{Area: area, TotalRows: counts[area]}
		if c, ok := byArea[area]; ok {
			view.Confirmed = true
			view.ConfirmedBy = &c.ConfirmedBy
			view.ConfirmedAt = &c.ConfirmedAt
		} else {
			overview.AllSigned = false
		}
		overview.Areas = append(overview.Areas, view)
	}

	return overview, nil
}
