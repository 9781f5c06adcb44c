package gorm

import (
	"time"

	"koinonia/internal/constants"

	"gorm.io/gorm"
)

// Announcement is a tenant-scoped post targeted at everyone, one role,
// or one ministry. Expiry is a read-time filter; expired rows are
// never purged.
type Announcement struct {
	ID             uint                 `gorm:"column:id;primaryKey"`
	Title          string               `gorm:"column:title;not null"`
	Body           string               `gorm:"column:body"`
	TargetType     constants.TargetType `gorm:"column:target_type;default:Global;index"`
	TargetID       string               `gorm:"column:target_id"` // role name or ministry id, per TargetType
	IsPinned       bool                 `gorm:"column:is_pinned;default:false"`
	ExpiresAt      *time.Time           `gorm:"column:expires_at"`
	CreatedBy      uint                 `gorm:"column:created_by"`
	OrganizationID uint                 `gorm:"column:organization_id;index"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	DeletedAt      gorm.DeletedAt       `gorm:"column:deleted_at"`
}

// TableName specifies the table name for GORM
func (Announcement) TableName() string {
	return "announcements"
}
