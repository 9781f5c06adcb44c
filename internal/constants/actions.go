package constants

// Audit action types. AUTH_LOGIN_FAIL rows are the sole input to the
// login rate limiter, so its name must not change without migrating
// the audit_logs table.
const (
	ActionRegister     = "AUTH_REGISTER"
	ActionLoginSuccess = "AUTH_LOGIN_SUCCESS"
	ActionLoginFail    = "AUTH_LOGIN_FAIL"
	ActionStatusChange = "AUTH_STATUS_CHANGE"
	ActionResetRequest = "AUTH_PASSWORD_RESET_REQUEST"
	ActionResetConfirm = "AUTH_PASSWORD_RESET_CONFIRM"

	ActionAnnouncementCreate = "ANNOUNCEMENT_CREATE"
	ActionEventCreate        = "EVENT_CREATE"
	ActionRSVPChange         = "RSVP_CHANGE"
	ActionProfileUpdate      = "MEMBER_PROFILE_UPDATE"
	ActionMinistryAssign     = "MINISTRY_ASSIGN"
	ActionMinistryRevoke     = "MINISTRY_REVOKE"
)

// Structured failure reasons recorded in AUTH_LOGIN_FAIL metadata.
const (
	ReasonRateLimit       = "rate_limit"
	ReasonUserNotFound    = "user_not_found"
	ReasonInvalidPassword = "invalid_password"
	ReasonBanned          = "banned"
	ReasonPending         = "pending"
)
