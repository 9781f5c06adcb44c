package db

import (
	"fmt"

	gormModels "koinonia/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitPostgresORM opens the GORM connection used by the aggregate
// repositories. TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return conn, nil
}

// Migrate applies the schema for every aggregate the engine persists.
// The audit_logs table is included here even though it is only ever
// written through sqlx.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&gormModels.Organization{},
		&gormModels.User{},
		&gormModels.MemberProfile{},
		&gormModels.Ministry{},
		&gormModels.MinistryAssignment{},
		&gormModels.Announcement{},
		&gormModels.Event{},
		&gormModels.EventRSVP{},
		&gormModels.PasswordResetToken{},
		&gormModels.AuditLog{},
	)
}
