package rbac

import "koinonia/internal/constants"

// Central allow/deny rules. Every service routes its permission
// decisions through here so there is exactly one place each rule
// lives.

// CanModerate reports whether the role carries staff-level privileges.
func CanModerate(role constants.Role) bool {
	return role == constants.RoleAdmin || role == constants.RoleStaff
}

// CanPostAnnouncement decides posting permission per target. Global
// and Role targets are staff-only; Ministry targets additionally allow
// the lead of that specific ministry.
func CanPostAnnouncement(role constants.Role, target constants.TargetType, isLead bool) bool {
	switch target {
	case constants.TargetGlobal, constants.TargetRole:
		return CanModerate(role)
	case constants.TargetMinistry:
		return CanModerate(role) || isLead
	}
	return false
}

// CanCreateEvent restricts event creation to admins.
func CanCreateEvent(role constants.Role) bool {
	return role == constants.RoleAdmin
}

// CanViewDirectory gates the member directory: Active accounts, or
// staff regardless of status.
func CanViewDirectory(role constants.Role, status constants.Status) bool {
	return status == constants.StatusActive || CanModerate(role)
}

// CanAssignMinistry allows staff or the lead of the target ministry.
func CanAssignMinistry(role constants.Role, isLead bool) bool {
	return CanModerate(role) || isLead
}

// CanTransition encodes the account lifecycle: Pending -> Active and
// Active -> Banned only. Banned is terminal.
func CanTransition(from, to constants.Status) bool {
	switch {
	case from == constants.StatusPending && to == constants.StatusActive:
		return true
	case from == constants.StatusActive && to == constants.StatusBanned:
		return true
	}
	return false
}

// SameTenant reports whether two resources share an organization.
// Cross-tenant access is a forbidden outcome, not a not-found one.
func SameTenant(a, b uint) bool {
	return a == b
}
