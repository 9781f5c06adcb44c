package entities

import (
	"encoding/json"
	"time"
)

// AuditLogEntry is an append-only record of a security-relevant
// action. ActorID is who performed the action (nil for anonymous
// failures); AccountID is the account the action targeted, and is the
// typed column the rate limiter counts on.
type AuditLogEntry struct {
	ID           int64     `db:"id"`
	Timestamp    time.Time `db:"timestamp"`
	ActorID      *uint     `db:"actor_id"`
	AccountID    *uint     `db:"account_id"`
	ActionType   string    `db:"action_type"`
	ResourceType *string   `db:"resource_type"`
	ResourceID   *string   `db:"resource_id"`
	Metadata     *string   `db:"metadata"` // JSON blob
	IPAddress    string    `db:"ip_address"`
}

// NewAuditLogEntry builds an entry with a UTC timestamp and marshalled
// metadata. A nil metadata map leaves the column NULL.
func NewAuditLogEntry(actorID, accountID *uint, action, resourceType, resourceID string, metadata map[string]any, ip string) *AuditLogEntry {
	e := &AuditLogEntry{
		Timestamp:  time.Now().UTC(),
		ActorID:    actorID,
		AccountID:  accountID,
		ActionType: action,
		IPAddress:  ip,
	}
	if resourceType != "" {
		e.ResourceType = &resourceType
	}
	if resourceID != "" {
		e.ResourceID = &resourceID
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			s := string(raw)
			e.Metadata = &s
		}
	}
	return e
}
