package bootstrap

import (
	"context"
	"testing"
	"time"

	"go-portal-rh/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	audit := NewStdoutAuditLogger(zap.New(core))
	audit.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithActorID(ctx, "emp-1")

	audit.Log(ctx, AuditLog{Action: AuditServerShutdown, Message: "bye"})
	audit.Log(context.Background(), AuditLog{
		Action:  AuditInvariantViolation,
		Message: "balance drift",
		Meta:    map[string]any{"request_id": "r-9"},
	})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "rid-1", fields["request_id"])
		assert.Equal(t, "emp-1", fields["actor_id"])
		assert.Equal(t, "2025-01-02T03:04:05Z", fields["timestamp"])

		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, AuditInvariantViolation, entries[1].ContextMap()["action"])
	}
}
