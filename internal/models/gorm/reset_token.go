package gorm

import "time"

// PasswordResetToken is single-use and time-limited. Requesting a new
// token marks every prior unused token for the user as used, inside
// the same transaction, so at most one unused token exists per user.
type PasswordResetToken struct {
	Token     string    `gorm:"column:token;primaryKey"`
	UserID    uint      `gorm:"column:user_id;index;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"` // UTC
	IsUsed    bool      `gorm:"column:is_used;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (PasswordResetToken) TableName() string {
	return "password_resets"
}
