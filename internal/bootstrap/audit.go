package bootstrap

import "context"

// Audit actions emitted by the service.
const (
	AuditServerShutdown     = "SERVER_SHUTDOWN"
	AuditInvariantViolation = "INVARIANT_VIOLATION"
	AuditLeaveTransition    = "LEAVE_TRANSITION"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records security and integrity relevant events. Log must not
// block the caller for long and never fails.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
