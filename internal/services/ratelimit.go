package services

import (
	"context"
	"time"
)

// LoginLimiter denies login attempts once either the origin IP or the
// target account has accumulated too many recent failures. Counts
// are derived from persisted AUTH_LOGIN_FAIL audit entries, so they
// survive restarts and are shared across instances; there is no
// in-process counter to drift.
type LoginLimiter struct {
	audit     AuditLogger
	window    time.Duration
	threshold int64
}

// NewLoginLimiter creates a limiter over the given trailing window.
func NewLoginLimiter(audit AuditLogger, window time.Duration, threshold int64) *LoginLimiter {
	return &LoginLimiter{
		audit:     audit,
		window:    window,
		threshold: threshold,
	}
}

// Allow reports whether a login attempt may proceed. accountID is nil
// when the email did not resolve to an account; the account axis is
// skipped in that case. Callers must run Allow before any password
// comparison.
func (l *LoginLimiter) Allow(ctx context.Context, ip string, accountID *uint) (bool, error) {
	since := time.Now().UTC().Add(-l.window)

	ipCount, err := l.audit.CountLoginFailuresByIP(ctx, ip, since)
	if err != nil {
		return false, err
	}
	if ipCount >= l.threshold {
		return false, nil
	}

	if accountID != nil {
		accountCount, err := l.audit.CountLoginFailuresByAccount(ctx, *accountID, since)
		if err != nil {
			return false, err
		}
		if accountCount >= l.threshold {
			return false, nil
		}
	}

	return true, nil
}
