package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditLog is the persisted form of an audit entry
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Actor     string    `gorm:"type:varchar(100);not null;index"`
	Action    string    `gorm:"type:varchar(100);not null;index"`
	Subject   string    `gorm:"type:varchar(100);not null"`
	SubjectID string    `gorm:"type:varchar(100);index"`
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// GormAuditRecorder persists audit entries to the audit_logs table. Audit
// writes never fail the recorded operation; failures are logged instead.
type GormAuditRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditRecorder creates a new GormAuditRecorder
func NewGormAuditRecorder(db *gorm.DB, logger *zap.Logger) *GormAuditRecorder {
	return &GormAuditRecorder{db: db, logger: logger}
}

// Record persists one audit entry
func (r *GormAuditRecorder) Record(ctx context.Context, entry shared.AuditEntry) {
	log := AuditLog{
		ID:        uuid.New(),
		Actor:     entry.Actor,
		Action:    entry.Action,
		Subject:   entry.Subject,
		SubjectID: entry.SubjectID,
		Detail:    entry.Detail,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		r.logger.Error("failed to record audit entry",
			zap.String("action", entry.Action),
			zap.String("subject_id", entry.SubjectID),
			zap.Error(err),
		)
	}
}

// Ensure GormAuditRecorder implements AuditRecorder
var _ shared.AuditRecorder = (*GormAuditRecorder)(nil)
