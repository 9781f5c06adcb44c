package constants

// Stable error keys returned in the result envelope. The transport
// layer maps them to its own status codes and translations; nothing
// here leaks which internal rule failed.
const (
	ErrPasswordWeak      = "auth.password_too_weak"
	ErrInvalidCreds      = "auth.invalid_credentials"
	ErrAccountPending    = "auth.account_pending"
	ErrAccountBanned     = "auth.account_banned"
	ErrTooManyAttempts   = "auth.too_many_attempts"
	ErrAlreadyRegistered = "auth.email_already_registered"
	ErrResetSent         = "auth.reset_sent"
	ErrResetInvalid      = "auth.reset_invalid_or_expired"
	ErrForbidden         = "auth.forbidden"

	ErrUserNotFound    = "user.not_found"
	ErrAlreadyApproved = "user.already_approved"

	ErrInvalidTargetType = "announcement.invalid_target_type"
	ErrMissingTargetID   = "announcement.missing_target_id"

	ErrInvalidDates      = "event.invalid_dates"
	ErrInvalidDateFormat = "event.invalid_date_format"
	ErrInvalidRSVPStatus = "event.invalid_rsvp_status"
	ErrEventNotFound     = "event.not_found"

	ErrProfileNotFound    = "profile.not_found"
	ErrAssignmentNotFound = "ministry.assignment_not_found"

	ErrInternal = "internal_error"
)

// Success message keys carried in response payloads.
const (
	MsgRegisterSuccess = "auth.register_success"
	MsgUserApproved    = "auth.user_approved"
	MsgUserBanned      = "auth.user_banned"
	MsgPasswordUpdated = "auth.password_updated"
	MsgProfileUpdated  = "profile.updated"
	MsgProfileNoChange = "profile.no_changes"
	MsgMinistryAssign  = "ministry.assigned"
	MsgMinistryRevoked = "ministry.revoked"
	MsgRSVPSaved       = "event.rsvp_saved"
)
