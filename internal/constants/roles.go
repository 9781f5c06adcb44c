package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the permission level stored on the users table. It is
// distinct from Status: role says what an account may do, status says
// where it is in its lifecycle.
type Role string

const (
	RolePending   Role = "Pending"
	RoleMember    Role = "Member"
	RoleVolunteer Role = "Volunteer"
	RoleStaff     Role = "Staff"
	RoleAdmin     Role = "Admin"
)

func (r Role) String() string { return string(r) }

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// Status is the account lifecycle state. The only legal transitions
// are Pending -> Active and Active -> Banned; Banned is terminal.
type Status string

const (
	StatusPending Status = "Pending"
	StatusActive  Status = "Active"
	StatusBanned  Status = "Banned"
)

func (s Status) String() string { return string(s) }

// Scan implements the sql.Scanner interface
func (s *Status) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = Status(v)
	case []byte:
		*s = Status(v)
	default:
		return fmt.Errorf("Status: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s Status) Value() (driver.Value, error) { return string(s), nil }

// TargetType scopes an announcement to everyone, one role, or one
// ministry within the organization.
type TargetType string

const (
	TargetGlobal   TargetType = "Global"
	TargetRole     TargetType = "Role"
	TargetMinistry TargetType = "Ministry"
)

func (t TargetType) String() string { return string(t) }

// RSVPStatus is the attendee's answer for an event.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPNotGoing RSVPStatus = "not_going"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}
