package services

import (
	"context"
	"testing"
	"time"

	"koinonia/internal/constants"
	gormModels "koinonia/internal/models/gorm"

	"gorm.io/gorm"
)

func createEvent(t *testing.T, db *gorm.DB, title string, public bool, targets string, orgID uint) *gormModels.Event {
	t.Helper()
	now := time.Now().UTC()
	e := gormModels.Event{
		Title:             title,
		StartAt:           now.Add(24 * time.Hour),
		EndAt:             now.Add(26 * time.Hour),
		IsPublic:          public,
		TargetMinistryIDs: targets,
		OrganizationID:    orgID,
	}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("Failed to create fixture event: %v", err)
	}
	return &e
}

func TestEventService_Create_NonAdminForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeAudit{})

	staff := createUser(t, db, "staff@example.com", constants.RoleStaff, constants.StatusActive, 1)

	res := svc.Create(context.Background(), staff.ID, staff.Role, CreateEventInput{
		Title:          "Staff event",
		StartAt:        time.Now().UTC().Format(time.RFC3339),
		EndAt:          time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		OrganizationID: 1,
	})
	if res.OK {
		t.Fatal("Expected non-admin event creation to fail")
	}
	if res.ErrorKey != constants.ErrForbidden {
		t.Errorf("Expected %s, got %s", constants.ErrForbidden, res.ErrorKey)
	}
}

func TestEventService_Create_DateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeAudit{})

	admin := createUser(t, db, "admin@example.com", constants.RoleAdmin, constants.StatusActive, 1)

	malformed := svc.Create(context.Background(), admin.ID, admin.Role, CreateEventInput{
		Title:          "Bad start",
		StartAt:        "next tuesday",
		EndAt:          time.Now().UTC().Format(time.RFC3339),
		OrganizationID: 1,
	})
	if malformed.OK || malformed.ErrorKey != constants.ErrInvalidDateFormat {
		t.Errorf("Expected %s, got ok=%v key=%s", constants.ErrInvalidDateFormat, malformed.OK, malformed.ErrorKey)
	}

	start := time.Now().UTC().Add(2 * time.Hour)
	inverted := svc.Create(context.Background(), admin.ID, admin.Role, CreateEventInput{
		Title:          "Ends before it starts",
		StartAt:        start.Format(time.RFC3339),
		EndAt:          start.Add(-time.Hour).Format(time.RFC3339),
		OrganizationID: 1,
	})
	if inverted.OK || inverted.ErrorKey != constants.ErrInvalidDates {
		t.Errorf("Expected %s, got ok=%v key=%s", constants.ErrInvalidDates, inverted.OK, inverted.ErrorKey)
	}
}

func TestEventService_Create_AdminSuccess(t *testing.T) {
	db := setupTestDB(t)
	audit := &fakeAudit{}
	svc := NewEventService(db, audit)

	admin := createUser(t, db, "admin@example.com", constants.RoleAdmin, constants.StatusActive, 1)

	start := time.Now().UTC().Add(24 * time.Hour)
	res := svc.Create(context.Background(), admin.ID, admin.Role, CreateEventInput{
		Title:             "Worship night",
		StartAt:           start.Format(time.RFC3339),
		EndAt:             start.Add(2 * time.Hour).Format(time.RFC3339),
		TargetMinistryIDs: []uint{7},
		OrganizationID:    1,
	})
	if !res.OK {
		t.Fatalf("Event creation failed: %s", res.ErrorKey)
	}

	var stored gormModels.Event
	if err := db.Where("id = ?", res.Data.EventID).First(&stored).Error; err != nil {
		t.Fatalf("Stored event lookup failed: %v", err)
	}
	targets := stored.MinistryTargets()
	if len(targets) != 1 || targets[0] != 7 {
		t.Errorf("Expected target list [7], got %v", targets)
	}
	if audit.lastAction() != constants.ActionEventCreate {
		t.Errorf("Expected event create audit entry, got %s", audit.lastAction())
	}
}

func TestEventService_ResolveEvents_AnonymousSeesPublicOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeAudit{})

	createEvent(t, db, "Open house", true, "[]", 1)
	createEvent(t, db, "Members retreat", false, "[]", 1)

	res := svc.ResolveEvents(context.Background(), nil, 1, nil, nil)
	if !res.OK {
		t.Fatalf("Event resolve failed: %s", res.ErrorKey)
	}
	if len(res.Data.Results) != 1 {
		t.Fatalf("Expected only the public event, got %d rows", len(res.Data.Results))
	}
	if res.Data.Results[0].Title != "Open house" {
		t.Errorf("Expected the public event, got %q", res.Data.Results[0].Title)
	}
}

func TestEventService_ResolveEvents_MinistryIntersection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeAudit{})

	worship := createUser(t, db, "worship@example.com", constants.RoleMember, constants.StatusActive, 1)
	assignMinistry(t, db, worship.ID, 7, false)

	createEvent(t, db, "Open house", true, "[]", 1)
	createEvent(t, db, "All members", false, "[]", 1)
	createEvent(t, db, "Worship rehearsal", false, "[7]", 1)
	createEvent(t, db, "Youth lock-in", false, "[9]", 1)

	res := svc.ResolveEvents(context.Background(), &worship.ID, 1, nil, nil)
	if !res.OK {
		t.Fatalf("Event resolve failed: %s", res.ErrorKey)
	}

	seen := map[string]bool{}
	for _, row := range res.Data.Results {
		seen[row.Title] = true
	}
	for _, want := range []string{"Open house", "All members", "Worship rehearsal"} {
		if !seen[want] {
			t.Errorf("Expected %q to be visible", want)
		}
	}
	if seen["Youth lock-in"] {
		t.Error("Expected a ministry-targeted event outside the viewer's ministries to be hidden")
	}
}

func TestEventService_ResolveEvents_DateRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeAudit{})

	viewer := createUser(t, db, "viewer@example.com", constants.RoleMember, constants.StatusActive, 1)

	now := time.Now().UTC()
	early := createEvent(t, db, "Early", true, "[]", 1)
	db.Model(early).Update("start_at", now.Add(24*time.Hour))
	late := createEvent(t, db, "Late", true, "[]", 1)
	db.Model(late).Update("start_at", now.Add(30*24*time.Hour))

	from := now.Add(48 * time.Hour)
	res := svc.ResolveEvents(context.Background(), &viewer.ID, 1, &from, nil)
	if !res.OK {
		t.Fatalf("Event resolve failed: %s", res.ErrorKey)
	}
	if len(res.Data.Results) != 1 || res.Data.Results[0].Title != "Late" {
		t.Errorf("Expected only the later event, got %+v", res.Data.Results)
	}
}

func TestEventService_RSVP_UpsertKeepsOneRow(t *testing.T) {
	db := setupTestDB(t)
	audit := &fakeAudit{}
	svc := NewEventService(db, audit)

	member := createUser(t, db, "member@example.com", constants.RoleMember, constants.StatusActive, 1)
	event := createEvent(t, db, "Potluck", true, "[]", 1)

	first := svc.RSVP(context.Background(), member.ID, event.ID, constants.RSVPGoing, 2, "bringing salad")
	if !first.OK {
		t.Fatalf("First RSVP failed: %s", first.ErrorKey)
	}
	second := svc.RSVP(context.Background(), member.ID, event.ID, constants.RSVPMaybe, 1, "")
	if !second.OK {
		t.Fatalf("Second RSVP failed: %s", second.ErrorKey)
	}

	var rows []gormModels.EventRSVP
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, member.ID).Find(&rows).Error; err != nil {
		t.Fatalf("RSVP lookup failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected exactly one RSVP row, got %d", len(rows))
	}
	if rows[0].Status != constants.RSVPMaybe {
		t.Errorf("Expected latest status maybe, got %s", rows[0].Status)
	}
	if got := audit.countAction(constants.ActionRSVPChange); got != 2 {
		t.Errorf("Expected 2 RSVP audit entries, got %d", got)
	}
}

func TestEventService_RSVP_GuestsFloorAtOne(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeAudit{})

	member := createUser(t, db, "member@example.com", constants.RoleMember, constants.StatusActive, 1)
	event := createEvent(t, db, "Potluck", true, "[]", 1)

	res := svc.RSVP(context.Background(), member.ID, event.ID, constants.RSVPGoing, 0, "")
	if !res.OK {
		t.Fatalf("RSVP failed: %s", res.ErrorKey)
	}

	var row gormModels.EventRSVP
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, member.ID).First(&row).Error; err != nil {
		t.Fatalf("RSVP lookup failed: %v", err)
	}
	if row.GuestsCount != 1 {
		t.Errorf("Expected guests_count floored to 1, got %d", row.GuestsCount)
	}
}

func TestEventService_RSVP_Denials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeAudit{})

	otherOrg := gormModels.Organization{Name: "Second Church", Slug: "second-church", IsActive: true}
	if err := db.Create(&otherOrg).Error; err != nil {
		t.Fatalf("Failed to seed second organization: %v", err)
	}

	member := createUser(t, db, "member@example.com", constants.RoleMember, constants.StatusActive, 1)
	pending := createUser(t, db, "pending@example.com", constants.RolePending, constants.StatusPending, 1)
	outsider := createUser(t, db, "outsider@example.com", constants.RoleMember, constants.StatusActive, otherOrg.ID)
	event := createEvent(t, db, "Potluck", true, "[]", 1)

	if res := svc.RSVP(context.Background(), member.ID, event.ID, constants.RSVPStatus("attending"), 1, ""); res.OK || res.ErrorKey != constants.ErrInvalidRSVPStatus {
		t.Errorf("Expected %s, got ok=%v key=%s", constants.ErrInvalidRSVPStatus, res.OK, res.ErrorKey)
	}
	if res := svc.RSVP(context.Background(), member.ID, 9999, constants.RSVPGoing, 1, ""); res.OK || res.ErrorKey != constants.ErrEventNotFound {
		t.Errorf("Expected %s, got ok=%v key=%s", constants.ErrEventNotFound, res.OK, res.ErrorKey)
	}
	if res := svc.RSVP(context.Background(), pending.ID, event.ID, constants.RSVPGoing, 1, ""); res.OK || res.ErrorKey != constants.ErrForbidden {
		t.Errorf("Expected pending RSVP to be forbidden, got ok=%v key=%s", res.OK, res.ErrorKey)
	}
	if res := svc.RSVP(context.Background(), outsider.ID, event.ID, constants.RSVPGoing, 1, ""); res.OK || res.ErrorKey != constants.ErrForbidden {
		t.Errorf("Expected cross-tenant RSVP to be forbidden, got ok=%v key=%s", res.OK, res.ErrorKey)
	}
}
