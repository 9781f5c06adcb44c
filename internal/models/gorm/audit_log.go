package gorm

import "time"

// AuditLog is the append-only audit table. Writes go through the sqlx
// repository; this model exists so the migrator owns the schema.
type AuditLog struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	Timestamp    time.Time `gorm:"column:timestamp;index;not null"`
	ActorID      *uint     `gorm:"column:actor_id"`
	AccountID    *uint     `gorm:"column:account_id;index"`
	ActionType   string    `gorm:"column:action_type;index;not null"`
	ResourceType string    `gorm:"column:resource_type"`
	ResourceID   string    `gorm:"column:resource_id"`
	Metadata     *string   `gorm:"column:metadata"`
	IPAddress    string    `gorm:"column:ip_address;index"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}
