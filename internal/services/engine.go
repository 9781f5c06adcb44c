package services

import (
	"context"

	"koinonia/internal/auth"
	"koinonia/internal/config"
	"koinonia/internal/db/repositories"
	"koinonia/internal/metrics"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Engine bundles every service behind one constructor so callers wire
// a single value instead of nine constructors in the right order.
type Engine struct {
	Auth          *AuthService
	Reset         *ResetService
	Announcements *AnnouncementService
	Events        *EventService
	Directory     *DirectoryService
	Members       *MemberService

	sqlDB *sqlx.DB
	orm   *gorm.DB
}

func NewEngine(cfg *config.Config, orm *gorm.DB, sqlDB *sqlx.DB, m *metrics.Registry) *Engine {
	audit := repositories.NewAuditRepository(sqlDB)
	orgs := repositories.NewOrgRepository(orm)
	hasher := auth.NewHasher(cfg.Argon2)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret)
	limiter := NewLoginLimiter(audit, cfg.RateLimit.Window, cfg.RateLimit.Threshold)

	return &Engine{
		Auth: NewAuthService(
			orm, orgs, audit, hasher, tokens, limiter, m,
			cfg.JWT.TTL, cfg.DefaultOrganizationID,
		),
		Reset:         NewResetService(orm, audit, hasher, m, cfg.Reset.TokenTTL),
		Announcements: NewAnnouncementService(orm, audit),
		Events:        NewEventService(orm, audit),
		Directory:     NewDirectoryService(orm),
		Members:       NewMemberService(orm, audit),
		sqlDB:         sqlDB,
		orm:           orm,
	}
}

// Health pings both database handles.
func (e *Engine) Health(ctx context.Context) error {
	if err := e.sqlDB.PingContext(ctx); err != nil {
		return err
	}
	sqlFromORM, err := e.orm.DB()
	if err != nil {
		return err
	}
	return sqlFromORM.PingContext(ctx)
}
