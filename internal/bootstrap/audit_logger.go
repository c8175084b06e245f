package bootstrap

import (
	"context"
	"time"

	"go-erp/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	AuditPayrollRunGenerated = "PAYROLL_RUN_GENERATED"
	AuditPayrollRunDeleted   = "PAYROLL_RUN_DELETED"
	AuditServerShutdown      = "SERVER_SHUTDOWN"
)

type AuditLog struct {
	Action  string
	ActorID uint64
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

// ZapAuditLogger writes audit entries to the "audit" child of the given logger.
type ZapAuditLogger struct {
	logger *zap.Logger
}

func NewZapAuditLogger(logger *zap.Logger) *ZapAuditLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &ZapAuditLogger{logger: logger.Named("audit")}
}

func (l *ZapAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	}
	if entry.ActorID != 0 {
		fields = append(fields, zap.Uint64("actor_id", entry.ActorID))
	}
	if reqID := contextutil.GetRequestID(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	l.logger.Info("audit event", fields...)
}

type NopAuditLogger struct{}

func (NopAuditLogger) Log(context.Context, AuditLog) {}
