package notification

import (
	"context"

	"go-portal-rh/internal/bootstrap"
	"go-portal-rh/internal/events"
	"go-portal-rh/internal/messaging/kafka"
	"go-portal-rh/internal/shared/contextutil"
)

// OutboxSink stores transitions in the outbox; the worker process publishes
// them to Kafka.
type OutboxSink struct {
	repo kafka.OutboxRepository
}

func NewOutboxSink(repo kafka.OutboxRepository) *OutboxSink {
	return &OutboxSink{repo: repo}
}

func (s *OutboxSink) Deliver(ctx context.Context, evt events.LeaveTransitionEvent) error {
	row, err := kafka.NewLeaveTransitionEvent(evt, contextutil.GetRequestID(ctx))
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, &row)
}

// AuditSink is the final recipient: it records each transition in the audit
// trail.
type AuditSink struct {
	audit bootstrap.AuditLogger
}

func NewAuditSink(audit bootstrap.AuditLogger) *AuditSink {
	return &AuditSink{audit: audit}
}

func (s *AuditSink) Deliver(ctx context.Context, evt events.LeaveTransitionEvent) error {
	from := evt.FromStatus
	if from == "" {
		from = "none"
	}
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  bootstrap.AuditLeaveTransition,
		Message: "leave request " + evt.RequestID + " moved from " + from + " to " + evt.ToStatus,
		Meta: map[string]any{
			"leave_id":    evt.RequestID,
			"employee_id": evt.EmployeeID,
			"from_status": evt.FromStatus,
			"to_status":   evt.ToStatus,
			"actor_id":    evt.ActorID,
			"timestamp":   evt.Timestamp,
		},
	})
	return nil
}
