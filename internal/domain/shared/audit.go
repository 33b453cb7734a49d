package shared

import "context"

// AuditEntry describes one recorded pipeline action. Persistence of audit
// entries is owned by an external collaborator; the pipeline only emits them.
type AuditEntry struct {
	Actor     string
	Action    string
	Subject   string
	SubjectID string
	Detail    string
}

// AuditRecorder records audit entries for state-changing pipeline actions.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// NoopAuditRecorder discards all entries.
type NoopAuditRecorder struct{}

// Record implements AuditRecorder
func (NoopAuditRecorder) Record(context.Context, AuditEntry) {}
