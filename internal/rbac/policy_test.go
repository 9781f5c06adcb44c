package rbac

import (
	"testing"

	"koinonia/internal/constants"
)

func TestCanModerate(t *testing.T) {
	for _, role := range []constants.Role{constants.RoleAdmin, constants.RoleStaff} {
		if !CanModerate(role) {
			t.Errorf("Expected %s to moderate", role)
		}
	}
	for _, role := range []constants.Role{constants.RolePending, constants.RoleMember, constants.RoleVolunteer} {
		if CanModerate(role) {
			t.Errorf("Expected %s not to moderate", role)
		}
	}
}

func TestCanPostAnnouncement(t *testing.T) {
	cases := []struct {
		name   string
		role   constants.Role
		target constants.TargetType
		isLead bool
		want   bool
	}{
		{"admin posts global", constants.RoleAdmin, constants.TargetGlobal, false, true},
		{"staff posts role", constants.RoleStaff, constants.TargetRole, false, true},
		{"member denied global", constants.RoleMember, constants.TargetGlobal, false, false},
		{"lead posts own ministry", constants.RoleVolunteer, constants.TargetMinistry, true, true},
		{"non-lead denied ministry", constants.RoleVolunteer, constants.TargetMinistry, false, false},
		{"lead flag useless for global", constants.RoleVolunteer, constants.TargetGlobal, true, false},
		{"unknown target denied", constants.RoleAdmin, constants.TargetType("Everyone"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanPostAnnouncement(tc.role, tc.target, tc.isLead); got != tc.want {
				t.Errorf("CanPostAnnouncement(%s, %s, %v) = %v, want %v", tc.role, tc.target, tc.isLead, got, tc.want)
			}
		})
	}
}

func TestCanCreateEvent(t *testing.T) {
	if !CanCreateEvent(constants.RoleAdmin) {
		t.Error("Expected admin to create events")
	}
	if CanCreateEvent(constants.RoleStaff) {
		t.Error("Expected staff not to create events")
	}
}

func TestCanViewDirectory(t *testing.T) {
	if !CanViewDirectory(constants.RoleMember, constants.StatusActive) {
		t.Error("Expected an active member to view the directory")
	}
	if CanViewDirectory(constants.RoleMember, constants.StatusPending) {
		t.Error("Expected a pending member to be denied")
	}
	if !CanViewDirectory(constants.RoleAdmin, constants.StatusPending) {
		t.Error("Expected staff-level roles to view regardless of status")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from constants.Status
		to   constants.Status
		want bool
	}{
		{constants.StatusPending, constants.StatusActive, true},
		{constants.StatusActive, constants.StatusBanned, true},
		{constants.StatusActive, constants.StatusActive, false},
		{constants.StatusPending, constants.StatusBanned, false},
		{constants.StatusBanned, constants.StatusActive, false},
		{constants.StatusBanned, constants.StatusPending, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSameTenant(t *testing.T) {
	if !SameTenant(1, 1) {
		t.Error("Expected matching organizations to be same tenant")
	}
	if SameTenant(1, 2) {
		t.Error("Expected different organizations to be different tenants")
	}
}
