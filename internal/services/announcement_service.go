package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"koinonia/internal/constants"
	"koinonia/internal/logging"
	"koinonia/internal/models/dtos"
	"koinonia/internal/models/entities"
	gormModels "koinonia/internal/models/gorm"
	"koinonia/internal/rbac"

	"gorm.io/gorm"
)

// AnnouncementService posts announcements and resolves the per-viewer
// feed. Visibility is a set decision: a row is either in the feed or
// absent, never partially redacted.
type AnnouncementService struct {
	db    *gorm.DB
	audit AuditLogger
}

func NewAnnouncementService(db *gorm.DB, audit AuditLogger) *AnnouncementService {
	return &AnnouncementService{db: db, audit: audit}
}

type PostAnnouncementInput struct {
	Title          string
	Body           string
	TargetType     constants.TargetType
	TargetID       string
	IsPinned       bool
	ExpiresAt      *time.Time
	OrganizationID uint
}

// Post creates an announcement after checking posting permission for
// the target: Global and Role need staff, Ministry additionally allows
// that ministry's lead.
func (s *AnnouncementService) Post(ctx context.Context, actorID uint, actorRole constants.Role, in PostAnnouncementInput) dtos.Result[dtos.PostAnnouncementData] {
	switch in.TargetType {
	case constants.TargetGlobal:
		in.TargetID = ""
	case constants.TargetRole, constants.TargetMinistry:
		if in.TargetID == "" {
			return dtos.Err[dtos.PostAnnouncementData](constants.ErrMissingTargetID)
		}
	default:
		return dtos.Err[dtos.PostAnnouncementData](constants.ErrInvalidTargetType)
	}

	isLead := false
	if in.TargetType == constants.TargetMinistry && !rbac.CanModerate(actorRole) {
		lead, err := s.isMinistryLead(ctx, actorID, in.TargetID)
		if err != nil {
			logging.Error("lead lookup failed during announcement post", "error", err.Error())
			return dtos.Err[dtos.PostAnnouncementData](constants.ErrInternal)
		}
		isLead = lead
	}

	if !rbac.CanPostAnnouncement(actorRole, in.TargetType, isLead) {
		return dtos.Err[dtos.PostAnnouncementData](constants.ErrForbidden)
	}

	announcement := gormModels.Announcement{
		Title:          in.Title,
		Body:           in.Body,
		TargetType:     in.TargetType,
		TargetID:       in.TargetID,
		IsPinned:       in.IsPinned,
		ExpiresAt:      in.ExpiresAt,
		CreatedBy:      actorID,
		OrganizationID: in.OrganizationID,
	}
	if err := s.db.WithContext(ctx).Create(&announcement).Error; err != nil {
		logging.Error("announcement insert failed", "error", err.Error())
		return dtos.Err[dtos.PostAnnouncementData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(actorID), nil, constants.ActionAnnouncementCreate,
		"announcement", userResource(announcement.ID),
		map[string]any{"title": in.Title}, "",
	))

	return dtos.Ok(dtos.PostAnnouncementData{AnnouncementID: announcement.ID})
}

// ResolveFeed returns announcements visible to the viewer: Global
// always, plus Role- and Ministry-targeted rows when the viewer is an
// Active match. Expiry filters at query time against UTC now; pinned
// rows sort first, then newest.
func (s *AnnouncementService) ResolveFeed(ctx context.Context, viewerID, orgID uint, limit, offset int) dtos.Result[dtos.FeedData] {
	var (
		viewerRole constants.Role
		active     bool
	)

	var viewer gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", viewerID).First(&viewer).Error; err == nil {
		viewerRole = viewer.Role
		active = viewer.Status == constants.StatusActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Error("viewer lookup failed during feed resolve", "error", err.Error())
		return dtos.Err[dtos.FeedData](constants.ErrInternal)
	}

	vis := s.db.Where("target_type = ?", constants.TargetGlobal)
	if active {
		vis = vis.Or(s.db.Where("target_type = ? AND target_id = ?", constants.TargetRole, string(viewerRole)))

		ministryIDs, err := s.viewerMinistryIDs(ctx, viewerID)
		if err != nil {
			logging.Error("ministry lookup failed during feed resolve", "error", err.Error())
			return dtos.Err[dtos.FeedData](constants.ErrInternal)
		}
		if len(ministryIDs) > 0 {
			vis = vis.Or(s.db.Where("target_type = ? AND target_id IN ?", constants.TargetMinistry, ministryIDs))
		}
	}

	var rows []gormModels.Announcement
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Where(vis).
		Order("is_pinned DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		logging.Error("feed query failed", "error", err.Error())
		return dtos.Err[dtos.FeedData](constants.ErrInternal)
	}

	results := make([]dtos.AnnouncementView, 0, len(rows))
	for _, row := range rows {
		results = append(results, dtos.AnnouncementView{
			ID:         row.ID,
			Title:      row.Title,
			Body:       row.Body,
			TargetType: row.TargetType,
			IsPinned:   row.IsPinned,
			CreatedAt:  row.CreatedAt,
		})
	}

	return dtos.Ok(dtos.FeedData{Results: results, Limit: limit, Offset: offset})
}

// isMinistryLead checks a live lead assignment for the ministry named
// by targetID.
func (s *AnnouncementService) isMinistryLead(ctx context.Context, userID uint, targetID string) (bool, error) {
	ministryID, err := strconv.ParseUint(targetID, 10, 64)
	if err != nil {
		return false, nil
	}

	var count int64
	err = s.db.WithContext(ctx).
		Model(&gormModels.MinistryAssignment{}).
		Where("user_id = ? AND ministry_id = ? AND is_lead = ?", userID, ministryID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// viewerMinistryIDs returns the viewer's live ministry ids rendered as
// target_id strings.
func (s *AnnouncementService) viewerMinistryIDs(ctx context.Context, viewerID uint) ([]string, error) {
	var assignments []gormModels.MinistryAssignment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", viewerID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, strconv.FormatUint(uint64(a.MinistryID), 10))
	}
	return ids, nil
}
