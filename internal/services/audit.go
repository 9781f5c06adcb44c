package services

import (
	"context"
	"strconv"
	"time"

	"koinonia/internal/logging"
	"koinonia/internal/models/entities"
)

// AuditLogger is the write/count surface of the audit log the services
// depend on. The sqlx-backed repository implements it in production;
// tests substitute an in-memory fake.
type AuditLogger interface {
	Log(ctx context.Context, entry *entities.AuditLogEntry) error
	CountLoginFailuresByIP(ctx context.Context, ip string, since time.Time) (int64, error)
	CountLoginFailuresByAccount(ctx context.Context, accountID uint, since time.Time) (int64, error)
}

// writeAudit appends an entry and logs (but does not propagate) write
// failures: a broken audit sink must not turn a completed operation
// into a caller-visible error.
func writeAudit(ctx context.Context, audit AuditLogger, entry *entities.AuditLogEntry) {
	if err := audit.Log(ctx, entry); err != nil {
		logging.Error("audit write failed",
			"action", entry.ActionType,
			"error", err.Error(),
		)
	}
}

func uintPtr(v uint) *uint { return &v }

// userResource renders a numeric id for the resource_id audit column.
func userResource(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
