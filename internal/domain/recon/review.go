package recon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// ReviewConfirmation records that a reviewer signed off one area of a
// staged job. Areas must be confirmed in the fixed AreaOrder; confirming
// an already-confirmed area is a harmless no-op at the service layer.
type ReviewConfirmation struct {
	shared.BaseEntity
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_job_area"`
	Area        Area      `gorm:"type:varchar(30);not null;uniqueIndex:idx_review_job_area"`
	ConfirmedBy uuid.UUID `gorm:"type:uuid;not null"`
	ConfirmedAt time.Time `gorm:"not null"`
	Note        string    `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (ReviewConfirmation) TableName() string {
	return "review_confirmations"
}

// NewReviewConfirmation signs off one area for a job
func NewReviewConfirmation(jobID uuid.UUID, area Area, confirmedBy uuid.UUID, note string) (*ReviewConfirmation, error) {
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB_ID", "Job ID is required")
	}
	if !area.IsValid() {
		return nil, shared.NewDomainError("INVALID_AREA", "Unknown review area: "+string(area))
	}
	if confirmedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Confirming reviewer is required")
	}
	return &ReviewConfirmation{
		BaseEntity:  shared.NewBaseEntity(),
		JobID:       jobID,
		Area:        area,
		ConfirmedBy: confirmedBy,
		ConfirmedAt: time.Now(),
		Note:        note,
	}, nil
}

// CheckReviewOrder verifies that confirming the given area respects the
// fixed order: every prior area must already be in the confirmed set.
func CheckReviewOrder(area Area, confirmed map[Area]bool) error {
	for _, prior := range area.Prior() {
		if !confirmed[prior] {
			return shared.NewDomainError("REVIEW_ORDER",
				fmt.Sprintf("Area %s must be confirmed before %s", prior, area))
		}
	}
	return nil
}

// AllAreasConfirmed reports whether every area in the fixed order has been
// signed off
func AllAreasConfirmed(confirmed map[Area]bool) bool {
	for _, a := range AreaOrder {
		if !confirmed[a] {
			return false
		}
	}
	return true
}
