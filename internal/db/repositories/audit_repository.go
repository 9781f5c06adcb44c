package repositories

import (
	"context"
	"fmt"
	"time"

	"koinonia/internal/constants"
	"koinonia/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// AuditRepository appends security events and answers the windowed
// failure counts the rate limiter runs on. Counting goes through the
// typed account_id column, never through string matching on the
// metadata blob.
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Log appends one entry. Entries are never updated or deleted.
func (r *AuditRepository) Log(ctx context.Context, entry *entities.AuditLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, constants.InsertAuditLog,
		entry.Timestamp,
		entry.ActorID,
		entry.AccountID,
		entry.ActionType,
		entry.ResourceType,
		entry.ResourceID,
		entry.Metadata,
		entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// CountLoginFailuresByIP counts AUTH_LOGIN_FAIL entries from one IP
// since the given instant.
func (r *AuditRepository) CountLoginFailuresByIP(ctx context.Context, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, constants.CountLoginFailuresByIP,
		constants.ActionLoginFail, ip, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count failures by ip: %w", err)
	}
	return count, nil
}

// CountLoginFailuresByAccount counts AUTH_LOGIN_FAIL entries against
// one account since the given instant.
func (r *AuditRepository) CountLoginFailuresByAccount(ctx context.Context, accountID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, constants.CountLoginFailuresByAccount,
		constants.ActionLoginFail, accountID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count failures by account: %w", err)
	}
	return count, nil
}
