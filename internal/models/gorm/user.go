package gorm

import (
	"time"

	"koinonia/internal/constants"

	"gorm.io/gorm"
)

// User is the identity record. Accounts are never hard-deleted; the
// soft-delete marker keeps audit references resolvable.
type User struct {
	ID             uint             `gorm:"column:id;primaryKey"`
	Email          string           `gorm:"column:email;not null;uniqueIndex:idx_users_org_email"`
	PasswordHash   string           `gorm:"column:password_hash;not null"`
	Role           constants.Role   `gorm:"column:role;default:Pending"`
	Status         constants.Status `gorm:"column:status;default:Pending;index"`
	OrganizationID uint             `gorm:"column:organization_id;uniqueIndex:idx_users_org_email"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt   `gorm:"column:deleted_at"`

	// Relationships
	Profile     *MemberProfile       `gorm:"foreignKey:UserID"`
	Assignments []MinistryAssignment `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// MemberProfile holds the PII attached 1:1 to a user. Field exposure
// is decided per viewer at read time, never stored on the row.
type MemberProfile struct {
	UserID          uint      `gorm:"column:user_id;primaryKey"`
	FullName        string    `gorm:"column:full_name"`
	Phone           string    `gorm:"column:phone"`
	Address         string    `gorm:"column:address"`
	DOB             string    `gorm:"column:dob"` // YYYY-MM-DD
	Bio             string    `gorm:"column:bio"`
	ProfilePicURL   string    `gorm:"column:profile_pic_url"`
	MinistryHistory string    `gorm:"column:ministry_history"`
	SharePhone      bool      `gorm:"column:share_phone;default:false"`
	OrganizationID  uint      `gorm:"column:organization_id"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MemberProfile) TableName() string {
	return "member_profiles"
}
