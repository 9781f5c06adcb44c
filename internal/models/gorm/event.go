package gorm

import (
	"encoding/json"
	"time"

	"koinonia/internal/constants"

	"gorm.io/gorm"
)

// Event is a tenant-scoped calendar entry. Non-public events with an
// empty target list are visible to every Active member; a non-empty
// list restricts visibility to members of the listed ministries.
type Event struct {
	ID                uint           `gorm:"column:id;primaryKey"`
	Title             string         `gorm:"column:title;not null"`
	Description       string         `gorm:"column:description"`
	StartAt           time.Time      `gorm:"column:start_at;index"`
	EndAt             time.Time      `gorm:"column:end_at"`
	Location          string         `gorm:"column:location"`
	IsPublic          bool           `gorm:"column:is_public;default:false"`
	TargetMinistryIDs string         `gorm:"column:target_ministry_ids"` // JSON-encoded []uint
	CreatedBy         uint           `gorm:"column:created_by"`
	OrganizationID    uint           `gorm:"column:organization_id;index"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// MinistryTargets decodes the target ministry list. A malformed or
// empty column reads as "no restriction".
func (e *Event) MinistryTargets() []uint {
	if e.TargetMinistryIDs == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(e.TargetMinistryIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// EventRSVP is keyed by (event, user); re-submitting updates the row
// instead of inserting a duplicate.
type EventRSVP struct {
	ID          uint                 `gorm:"column:id;primaryKey"`
	EventID     uint                 `gorm:"column:event_id;uniqueIndex:idx_rsvps_event_user;not null"`
	UserID      uint                 `gorm:"column:user_id;uniqueIndex:idx_rsvps_event_user;not null"`
	Status      constants.RSVPStatus `gorm:"column:status"`
	GuestsCount int                  `gorm:"column:guests_count;default:1"`
	Notes       string               `gorm:"column:notes"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (EventRSVP) TableName() string {
	return "event_rsvps"
}
