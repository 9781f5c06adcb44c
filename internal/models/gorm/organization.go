package gorm

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the tenant boundary. Every resource and most
// uniqueness constraints are scoped to one organization.
type Organization struct {
	ID        uint           `gorm:"column:id;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Slug      string         `gorm:"column:slug;uniqueIndex;not null"`
	IsActive  bool           `gorm:"column:is_active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

// TableName specifies the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}
