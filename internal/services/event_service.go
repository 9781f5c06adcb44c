package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"koinonia/internal/constants"
	"koinonia/internal/logging"
	"koinonia/internal/models/dtos"
	"koinonia/internal/models/entities"
	gormModels "koinonia/internal/models/gorm"
	"koinonia/internal/rbac"

	"gorm.io/gorm"
)

// EventService creates events, resolves the per-viewer event list, and
// records RSVPs.
type EventService struct {
	db    *gorm.DB
	audit AuditLogger
}

func NewEventService(db *gorm.DB, audit AuditLogger) *EventService {
	return &EventService{db: db, audit: audit}
}

type CreateEventInput struct {
	Title             string
	Description       string
	StartAt           string // RFC3339
	EndAt             string // RFC3339
	Location          string
	IsPublic          bool
	TargetMinistryIDs []uint
	OrganizationID    uint
}

// Create validates and inserts an event. Malformed timestamps and an
// end before (or at) the start are distinct failures.
func (s *EventService) Create(ctx context.Context, adminID uint, role constants.Role, in CreateEventInput) dtos.Result[dtos.EventCreateData] {
	if !rbac.CanCreateEvent(role) {
		return dtos.Err[dtos.EventCreateData](constants.ErrForbidden)
	}

	start, err := time.Parse(time.RFC3339, in.StartAt)
	if err != nil {
		return dtos.Err[dtos.EventCreateData](constants.ErrInvalidDateFormat)
	}
	end, err := time.Parse(time.RFC3339, in.EndAt)
	if err != nil {
		return dtos.Err[dtos.EventCreateData](constants.ErrInvalidDateFormat)
	}
	if !end.After(start) {
		return dtos.Err[dtos.EventCreateData](constants.ErrInvalidDates)
	}

	targets := "[]"
	if len(in.TargetMinistryIDs) > 0 {
		raw, err := json.Marshal(in.TargetMinistryIDs)
		if err != nil {
			logging.Error("target ministry encode failed", "error", err.Error())
			return dtos.Err[dtos.EventCreateData](constants.ErrInternal)
		}
		targets = string(raw)
	}

	event := gormModels.Event{
		Title:             in.Title,
		Description:       in.Description,
		StartAt:           start.UTC(),
		EndAt:             end.UTC(),
		Location:          in.Location,
		IsPublic:          in.IsPublic,
		TargetMinistryIDs: targets,
		CreatedBy:         adminID,
		OrganizationID:    in.OrganizationID,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		logging.Error("event insert failed", "error", err.Error())
		return dtos.Err[dtos.EventCreateData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(adminID), nil, constants.ActionEventCreate,
		"event", userResource(event.ID),
		map[string]any{"title": in.Title}, "",
	))

	return dtos.Ok(dtos.EventCreateData{EventID: event.ID})
}

// ResolveEvents lists events the viewer may see. Anonymous and
// non-Active viewers get public events only; Active viewers also see
// targeted events whose ministry list is empty or intersects theirs.
func (s *EventService) ResolveEvents(ctx context.Context, viewerID *uint, orgID uint, from, to *time.Time) dtos.Result[dtos.EventListData] {
	active := false
	ministries := map[uint]bool{}

	if viewerID != nil {
		var viewer gormModels.User
		err := s.db.WithContext(ctx).Where("id = ?", *viewerID).First(&viewer).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Error("viewer lookup failed during event resolve", "error", err.Error())
			return dtos.Err[dtos.EventListData](constants.ErrInternal)
		}
		if err == nil && viewer.Status == constants.StatusActive {
			active = true

			var assignments []gormModels.MinistryAssignment
			if err := s.db.WithContext(ctx).Where("user_id = ?", *viewerID).Find(&assignments).Error; err != nil {
				logging.Error("ministry lookup failed during event resolve", "error", err.Error())
				return dtos.Err[dtos.EventListData](constants.ErrInternal)
			}
			for _, a := range assignments {
				ministries[a.MinistryID] = true
			}
		}
	}

	q := s.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if !active {
		q = q.Where("is_public = ?", true)
	}
	if from != nil {
		q = q.Where("start_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("start_at <= ?", to.UTC())
	}

	var rows []gormModels.Event
	if err := q.Order("start_at ASC").Find(&rows).Error; err != nil {
		logging.Error("event query failed", "error", err.Error())
		return dtos.Err[dtos.EventListData](constants.ErrInternal)
	}

	results := make([]dtos.EventView, 0, len(rows))
	for _, row := range rows {
		if !row.IsPublic && active {
			targets := row.MinistryTargets()
			if len(targets) > 0 && !intersects(targets, ministries) {
				continue
			}
		}
		results = append(results, dtos.EventView{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Start:       row.StartAt,
			End:         row.EndAt,
			Location:    row.Location,
			Public:      row.IsPublic,
		})
	}

	return dtos.Ok(dtos.EventListData{Results: results})
}

// RSVP upserts the viewer's answer for an event, keyed by (event,
// user). Only Active users in the event's own organization may RSVP;
// a cross-tenant attempt is forbidden, not not-found.
func (s *EventService) RSVP(ctx context.Context, userID, eventID uint, status constants.RSVPStatus, guests int, notes string) dtos.Result[dtos.RSVPData] {
	if !status.Valid() {
		return dtos.Err[dtos.RSVPData](constants.ErrInvalidRSVPStatus)
	}

	var event gormModels.Event
	if err := s.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.RSVPData](constants.ErrEventNotFound)
		}
		logging.Error("event lookup failed during rsvp", "error", err.Error())
		return dtos.Err[dtos.RSVPData](constants.ErrInternal)
	}

	var user gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.RSVPData](constants.ErrForbidden)
		}
		logging.Error("user lookup failed during rsvp", "error", err.Error())
		return dtos.Err[dtos.RSVPData](constants.ErrInternal)
	}

	if user.Status != constants.StatusActive || !rbac.SameTenant(user.OrganizationID, event.OrganizationID) {
		return dtos.Err[dtos.RSVPData](constants.ErrForbidden)
	}

	if guests < 1 {
		guests = 1
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Rowcount-checked upsert: update first, insert only when no
		// row exists. The unique (event, user) index backstops races.
		res := tx.Model(&gormModels.EventRSVP{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Updates(map[string]interface{}{
				"status":       status,
				"guests_count": guests,
				"notes":        notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&gormModels.EventRSVP{
			EventID:     eventID,
			UserID:      userID,
			Status:      status,
			GuestsCount: guests,
			Notes:       notes,
		}).Error
	})
	if err != nil {
		logging.Error("rsvp upsert failed", "error", err.Error())
		return dtos.Err[dtos.RSVPData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(userID), nil, constants.ActionRSVPChange,
		"event", userResource(eventID),
		map[string]any{"status": string(status)}, "",
	))

	return dtos.Ok(dtos.RSVPData{
		EventID: eventID,
		Status:  status,
		Message: constants.MsgRSVPSaved,
	})
}

func intersects(targets []uint, ministries map[uint]bool) bool {
	for _, id := range targets {
		if ministries[id] {
			return true
		}
	}
	return false
}
