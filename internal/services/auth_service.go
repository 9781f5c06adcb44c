package services

import (
	"context"
	"errors"
	"time"

	"koinonia/internal/auth"
	"koinonia/internal/constants"
	"koinonia/internal/db/repositories"
	"koinonia/internal/logging"
	"koinonia/internal/metrics"
	"koinonia/internal/models/dtos"
	"koinonia/internal/models/entities"
	gormModels "koinonia/internal/models/gorm"
	"koinonia/internal/rbac"

	"gorm.io/gorm"
)

// AuthService implements the identity slice: registration, login,
// approval, and banning. Every outcome is audit-logged; the rate
// limiter gates login before any password comparison.
type AuthService struct {
	db           *gorm.DB
	orgs         *repositories.OrgRepository
	audit        AuditLogger
	hasher       *auth.Hasher
	tokens       *auth.TokenIssuer
	limiter      *LoginLimiter
	metrics      *metrics.Registry
	tokenTTL     time.Duration
	defaultOrgID uint

	// dummyHash keeps the unknown-account path doing the same argon2
	// work as a real mismatch, so response timing does not reveal
	// whether the email exists.
	dummyHash string
}

func NewAuthService(
	db *gorm.DB,
	orgs *repositories.OrgRepository,
	audit AuditLogger,
	hasher *auth.Hasher,
	tokens *auth.TokenIssuer,
	limiter *LoginLimiter,
	m *metrics.Registry,
	tokenTTL time.Duration,
	defaultOrgID uint,
) *AuthService {
	dummy, err := hasher.Hash("decoy-credential-for-timing")
	if err != nil {
		logging.Error("failed to precompute decoy hash", "error", err.Error())
	}

	return &AuthService{
		db:           db,
		orgs:         orgs,
		audit:        audit,
		hasher:       hasher,
		tokens:       tokens,
		limiter:      limiter,
		metrics:      m,
		tokenTTL:     tokenTTL,
		defaultOrgID: defaultOrgID,
		dummyHash:    dummy,
	}
}

// resolveOrgID maps an optional tenant slug to an organization id.
// Unknown or empty slugs fall back to the default organization; the
// caller is never told which case applied.
func (s *AuthService) resolveOrgID(ctx context.Context, slug string) uint {
	if slug == "" {
		return s.defaultOrgID
	}
	org, err := s.orgs.FindBySlug(ctx, slug)
	if err != nil {
		return s.defaultOrgID
	}
	return org.ID
}

// Register creates a Pending user and their member profile atomically.
func (s *AuthService) Register(ctx context.Context, email, password, fullName, orgSlug string) dtos.Result[dtos.RegisterData] {
	if !auth.ValidatePasswordStrength(password) {
		return dtos.Err[dtos.RegisterData](constants.ErrPasswordWeak)
	}

	pwdHash, err := s.hasher.Hash(password)
	if err != nil {
		logging.Error("password hash failed during registration", "error", err.Error())
		return dtos.Err[dtos.RegisterData](constants.ErrInternal)
	}

	orgID := s.resolveOrgID(ctx, orgSlug)

	user := gormModels.User{
		Email:          email,
		PasswordHash:   pwdHash,
		Role:           constants.RolePending,
		Status:         constants.StatusPending,
		OrganizationID: orgID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := gormModels.MemberProfile{
			UserID:         user.ID,
			FullName:       fullName,
			OrganizationID: orgID,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// One error regardless of which tenant matched.
			return dtos.Err[dtos.RegisterData](constants.ErrAlreadyRegistered)
		}
		logging.Error("registration insert failed", "error", err.Error())
		return dtos.Err[dtos.RegisterData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(user.ID), uintPtr(user.ID), constants.ActionRegister,
		"user", userResource(user.ID),
		map[string]any{"email": email}, "",
	))
	s.metrics.RegistrationsTotal.Inc()
	s.metrics.AuditWritesTotal.WithLabelValues(constants.ActionRegister).Inc()

	return dtos.Ok(dtos.RegisterData{
		UserID:  user.ID,
		Message: constants.MsgRegisterSuccess,
	})
}

// Login authenticates a user and issues a session token. Unknown
// accounts and wrong passwords are indistinguishable to the caller;
// rate-limited attempts never reach password verification.
func (s *AuthService) Login(ctx context.Context, email, password, orgSlug, originIP string) dtos.Result[dtos.LoginData] {
	var (
		user  gormModels.User
		found = true
	)

	q := s.db.WithContext(ctx).Where("email = ?", email)
	if orgSlug != "" {
		q = q.Where("organization_id = ?", s.resolveOrgID(ctx, orgSlug))
	}
	if err := q.First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Error("user lookup failed during login", "error", err.Error())
			return dtos.Err[dtos.LoginData](constants.ErrInternal)
		}
		found = false
	}

	var accountID *uint
	if found {
		accountID = uintPtr(user.ID)
	}

	allowed, err := s.limiter.Allow(ctx, originIP, accountID)
	if err != nil {
		logging.Error("rate limit check failed", "error", err.Error())
		return dtos.Err[dtos.LoginData](constants.ErrInternal)
	}
	if !allowed {
		writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
			nil, accountID, constants.ActionLoginFail,
			"user", email,
			map[string]any{"reason": constants.ReasonRateLimit}, originIP,
		))
		s.metrics.RateLimitDenialsTotal.Inc()
		s.metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
		return dtos.Err[dtos.LoginData](constants.ErrTooManyAttempts)
	}

	if !found {
		// Same argon2 work as a real mismatch.
		s.hasher.Verify(s.dummyHash, password)
		writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
			nil, nil, constants.ActionLoginFail,
			"user", email,
			map[string]any{"reason": constants.ReasonUserNotFound}, originIP,
		))
		s.metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return dtos.Err[dtos.LoginData](constants.ErrInvalidCreds)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
			uintPtr(user.ID), uintPtr(user.ID), constants.ActionLoginFail,
			"user", userResource(user.ID),
			map[string]any{"reason": constants.ReasonInvalidPassword}, originIP,
		))
		s.metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return dtos.Err[dtos.LoginData](constants.ErrInvalidCreds)
	}

	switch user.Status {
	case constants.StatusBanned:
		writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
			uintPtr(user.ID), uintPtr(user.ID), constants.ActionLoginFail,
			"user", userResource(user.ID),
			map[string]any{"reason": constants.ReasonBanned}, originIP,
		))
		s.metrics.LoginAttemptsTotal.WithLabelValues("banned").Inc()
		return dtos.Err[dtos.LoginData](constants.ErrAccountBanned)
	case constants.StatusPending:
		writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
			uintPtr(user.ID), uintPtr(user.ID), constants.ActionLoginFail,
			"user", userResource(user.ID),
			map[string]any{"reason": constants.ReasonPending}, originIP,
		))
		s.metrics.LoginAttemptsTotal.WithLabelValues("pending").Inc()
		return dtos.Err[dtos.LoginData](constants.ErrAccountPending)
	}

	token, err := s.tokens.Issue(auth.SessionClaims{
		UserID: user.ID,
		Role:   user.Role,
		OrgID:  user.OrganizationID,
	}, s.tokenTTL)
	if err != nil {
		logging.Error("token issue failed", "error", err.Error())
		return dtos.Err[dtos.LoginData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(user.ID), uintPtr(user.ID), constants.ActionLoginSuccess,
		"user", userResource(user.ID),
		nil, originIP,
	))
	s.metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return dtos.Ok(dtos.LoginData{
		Token:  token,
		UserID: user.ID,
		Role:   user.Role,
	})
}

// Approve moves a Pending account to Active and promotes its role to
// Member. Re-approval fails loudly instead of silently succeeding.
func (s *AuthService) Approve(ctx context.Context, adminID uint, email string) dtos.Result[dtos.StatusChangeData] {
	var user gormModels.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.StatusChangeData](constants.ErrUserNotFound)
		}
		logging.Error("user lookup failed during approval", "error", err.Error())
		return dtos.Err[dtos.StatusChangeData](constants.ErrInternal)
	}

	if !rbac.CanTransition(user.Status, constants.StatusActive) {
		return dtos.Err[dtos.StatusChangeData](constants.ErrAlreadyApproved)
	}

	err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"status": constants.StatusActive,
		"role":   constants.RoleMember,
	}).Error
	if err != nil {
		logging.Error("approval update failed", "error", err.Error())
		return dtos.Err[dtos.StatusChangeData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(adminID), uintPtr(user.ID), constants.ActionStatusChange,
		"user", userResource(user.ID),
		map[string]any{
			"previous_status": string(constants.StatusPending),
			"new_status":      string(constants.StatusActive),
		}, "",
	))
	s.metrics.AuditWritesTotal.WithLabelValues(constants.ActionStatusChange).Inc()

	return dtos.Ok(dtos.StatusChangeData{
		UserID:  user.ID,
		Message: constants.MsgUserApproved,
	})
}

// Ban moves an Active account to Banned. Banned is terminal; there is
// no transition back.
func (s *AuthService) Ban(ctx context.Context, adminID uint, email string) dtos.Result[dtos.StatusChangeData] {
	var user gormModels.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.StatusChangeData](constants.ErrUserNotFound)
		}
		logging.Error("user lookup failed during ban", "error", err.Error())
		return dtos.Err[dtos.StatusChangeData](constants.ErrInternal)
	}

	if !rbac.CanTransition(user.Status, constants.StatusBanned) {
		return dtos.Err[dtos.StatusChangeData](constants.ErrForbidden)
	}

	previous := user.Status
	if err := s.db.WithContext(ctx).Model(&user).Update("status", constants.StatusBanned).Error; err != nil {
		logging.Error("ban update failed", "error", err.Error())
		return dtos.Err[dtos.StatusChangeData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(adminID), uintPtr(user.ID), constants.ActionStatusChange,
		"user", userResource(user.ID),
		map[string]any{
			"previous_status": string(previous),
			"new_status":      string(constants.StatusBanned),
		}, "",
	))
	s.metrics.AuditWritesTotal.WithLabelValues(constants.ActionStatusChange).Inc()

	return dtos.Ok(dtos.StatusChangeData{
		UserID:  user.ID,
		Message: constants.MsgUserBanned,
	})
}
