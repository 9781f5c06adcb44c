package gorm

import (
	"time"

	"gorm.io/gorm"
)

type Ministry struct {
	ID             uint           `gorm:"column:id;primaryKey"`
	Name           string         `gorm:"column:name;not null"`
	Description    string         `gorm:"column:description"`
	OrganizationID uint           `gorm:"column:organization_id;index"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at"`
}

// TableName specifies the table name for GORM
func (Ministry) TableName() string {
	return "ministries"
}

// MinistryAssignment links a user to a ministry. Assignments are never
// updated in place: revoked rows are soft-deleted and replacements are
// inserted fresh, so history stays intact.
type MinistryAssignment struct {
	ID         uint           `gorm:"column:id;primaryKey"`
	UserID     uint           `gorm:"column:user_id;index;not null"`
	MinistryID uint           `gorm:"column:ministry_id;index;not null"`
	Role       string         `gorm:"column:role"`
	IsLead     bool           `gorm:"column:is_lead;default:false;index"`
	AssignedBy uint           `gorm:"column:assigned_by"`
	StartDate  time.Time      `gorm:"column:start_date;autoCreateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID"`
	Ministry Ministry `gorm:"foreignKey:MinistryID"`
}

// TableName specifies the table name for GORM
func (MinistryAssignment) TableName() string {
	return "ministry_assignments"
}
