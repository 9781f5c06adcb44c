package services

import (
	"context"
	"errors"
	"time"

	"koinonia/internal/auth"
	"koinonia/internal/constants"
	"koinonia/internal/logging"
	"koinonia/internal/metrics"
	"koinonia/internal/models/dtos"
	"koinonia/internal/models/entities"
	gormModels "koinonia/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetService manages the password reset lifecycle. Requesting a
// reset always looks the same from the outside, whether or not the
// email maps to an account.
type ResetService struct {
	db       *gorm.DB
	audit    AuditLogger
	hasher   *auth.Hasher
	metrics  *metrics.Registry
	tokenTTL time.Duration
}

func NewResetService(db *gorm.DB, audit AuditLogger, hasher *auth.Hasher, m *metrics.Registry, tokenTTL time.Duration) *ResetService {
	return &ResetService{
		db:       db,
		audit:    audit,
		hasher:   hasher,
		metrics:  m,
		tokenTTL: tokenTTL,
	}
}

// genericResponse is what every RequestReset caller sees.
func genericResponse() dtos.Result[dtos.ResetRequestData] {
	return dtos.Ok(dtos.ResetRequestData{Message: constants.ErrResetSent})
}

// RequestReset mints a fresh single-use token for an existing,
// non-banned account, invalidating all prior unused tokens in the same
// transaction. Unknown and banned accounts are silent no-ops with an
// identical response.
func (s *ResetService) RequestReset(ctx context.Context, email string) dtos.Result[dtos.ResetRequestData] {
	s.metrics.ResetRequestsTotal.Inc()

	var user gormModels.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Error("user lookup failed during reset request", "error", err.Error())
		}
		return genericResponse()
	}

	if user.Status == constants.StatusBanned {
		return genericResponse()
	}

	token := gormModels.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&gormModels.PasswordResetToken{}).
			Where("user_id = ? AND is_used = ?", user.ID, false).
			Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		logging.Error("reset token rotation failed", "error", err.Error())
		return genericResponse()
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(user.ID), uintPtr(user.ID), constants.ActionResetRequest,
		"user", userResource(user.ID),
		nil, "",
	))
	s.metrics.AuditWritesTotal.WithLabelValues(constants.ActionResetRequest).Inc()

	return genericResponse()
}

// ConfirmReset exchanges a valid token for a new password hash.
// Missing, used, and expired tokens all fail with the same key.
func (s *ResetService) ConfirmReset(ctx context.Context, token, newPassword string) dtos.Result[dtos.ResetConfirmData] {
	if !auth.ValidatePasswordStrength(newPassword) {
		return dtos.Err[dtos.ResetConfirmData](constants.ErrPasswordWeak)
	}

	var reset gormModels.PasswordResetToken
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&reset).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Error("reset token lookup failed", "error", err.Error())
			return dtos.Err[dtos.ResetConfirmData](constants.ErrInternal)
		}
		return dtos.Err[dtos.ResetConfirmData](constants.ErrResetInvalid)
	}

	if reset.IsUsed || time.Now().UTC().After(reset.ExpiresAt.UTC()) {
		return dtos.Err[dtos.ResetConfirmData](constants.ErrResetInvalid)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		logging.Error("password hash failed during reset confirm", "error", err.Error())
		return dtos.Err[dtos.ResetConfirmData](constants.ErrInternal)
	}

	raced := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Rowcount-checked consume: a concurrent confirm with the same
		// token loses here instead of double-spending it.
		res := tx.Model(&gormModels.PasswordResetToken{}).
			Where("token = ? AND is_used = ?", token, false).
			Update("is_used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			raced = true
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&gormModels.User{}).
			Where("id = ?", reset.UserID).
			Update("password_hash", newHash).Error
	})
	if err != nil {
		if raced {
			return dtos.Err[dtos.ResetConfirmData](constants.ErrResetInvalid)
		}
		logging.Error("reset confirm transaction failed", "error", err.Error())
		return dtos.Err[dtos.ResetConfirmData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(reset.UserID), uintPtr(reset.UserID), constants.ActionResetConfirm,
		"user", userResource(reset.UserID),
		nil, "",
	))
	s.metrics.AuditWritesTotal.WithLabelValues(constants.ActionResetConfirm).Inc()

	return dtos.Ok(dtos.ResetConfirmData{Message: constants.MsgPasswordUpdated})
}
