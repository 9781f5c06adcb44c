package services

import (
	"context"
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

// MemberService updates member profiles and manages ministry
// assignments.
type MemberService struct {
	db    *gorm.DB
	audit AuditLogger
}

func NewMemberService(db *gorm.DB, audit AuditLogger) *MemberService {
	return &MemberService{db: db, audit: audit}
}

// ProfileUpdateInput carries the writable profile fields. Nil means
// leave the stored value alone, so a partial update never clears
// untouched fields.
type ProfileUpdateInput struct {
	FullName      *string
	Phone         *string
	Address       *string
	DOB           *string
	Bio           *string
	ProfilePicURL *string
	SharePhone    *bool
}

// UpdateProfile applies a whitelisted partial update to a member's
// profile. Members update their own profile; staff may update anyone in
// their organization.
func (s *MemberService) UpdateProfile(ctx context.Context, actorID, targetUserID uint, in ProfileUpdateInput) dtos.Result[dtos.ProfileUpdateData] {
	var actor gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", actorID).First(&actor).Error; err != nil {
		logging.Error("actor lookup failed during profile update", "error", err.Error())
		return dtos.Err[dtos.ProfileUpdateData](constants.ErrInternal)
	}

	var target gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", targetUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.ProfileUpdateData](constants.ErrUserNotFound)
		}
		logging.Error("target lookup failed during profile update", "error", err.Error())
		return dtos.Err[dtos.ProfileUpdateData](constants.ErrInternal)
	}

	if !rbac.SameTenant(actor.OrganizationID, target.OrganizationID) {
		return dtos.Err[dtos.ProfileUpdateData](constants.ErrForbidden)
	}
	if actorID != targetUserID && !rbac.CanModerate(actor.Role) {
		return dtos.Err[dtos.ProfileUpdateData](constants.ErrForbidden)
	}

	updates := map[string]any{}
	if in.FullName != nil {
		updates["full_name"] = *in.FullName
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.DOB != nil {
		if *in.DOB != "" {
			if _, err := time.Parse("2006-01-02", *in.DOB); err != nil {
				return dtos.Err[dtos.ProfileUpdateData](constants.ErrInvalidDateFormat)
			}
		}
		updates["dob"] = *in.DOB
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.ProfilePicURL != nil {
		updates["profile_pic_url"] = *in.ProfilePicURL
	}
	if in.SharePhone != nil {
		updates["share_phone"] = *in.SharePhone
	}

	if len(updates) == 0 {
		return dtos.Ok(dtos.ProfileUpdateData{Message: constants.MsgProfileNoChange})
	}

	res := s.db.WithContext(ctx).
		Model(&gormModels.MemberProfile{}).
		Where("user_id = ?", targetUserID).
		Updates(updates)
	if res.Error != nil {
		logging.Error("profile update failed", "error", res.Error.Error())
		return dtos.Err[dtos.ProfileUpdateData](constants.ErrInternal)
	}
	if res.RowsAffected == 0 {
		return dtos.Err[dtos.ProfileUpdateData](constants.ErrProfileNotFound)
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(actorID), uintPtr(targetUserID), constants.ActionProfileUpdate,
		"member_profile", userResource(targetUserID),
		map[string]any{"fields": fields}, "",
	))

	return dtos.Ok(dtos.ProfileUpdateData{Message: constants.MsgProfileUpdated})
}

// AssignMinistry links a user to a ministry. Staff may assign anywhere
// in the organization; a ministry lead may assign into their own
// ministry. Re-assigning an already-assigned user refreshes the lead
// flag on the live row instead of inserting a duplicate.
func (s *MemberService) AssignMinistry(ctx context.Context, actorID, targetUserID, ministryID uint, isLead bool) dtos.Result[dtos.MinistryAssignData] {
	var actor gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", actorID).First(&actor).Error; err != nil {
		logging.Error("actor lookup failed during ministry assign", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}

	actorLeads, err := s.leadsMinistry(ctx, actorID, ministryID)
	if err != nil {
		logging.Error("lead lookup failed during ministry assign", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}
	if !rbac.CanAssignMinistry(actor.Role, actorLeads) {
		return dtos.Err[dtos.MinistryAssignData](constants.ErrForbidden)
	}

	var ministry gormModels.Ministry
	if err := s.db.WithContext(ctx).Where("id = ?", ministryID).First(&ministry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.MinistryAssignData](constants.ErrAssignmentNotFound)
		}
		logging.Error("ministry lookup failed during assign", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}

	var target gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", targetUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.MinistryAssignData](constants.ErrUserNotFound)
		}
		logging.Error("target lookup failed during ministry assign", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}
	if !rbac.SameTenant(actor.OrganizationID, ministry.OrganizationID) ||
		!rbac.SameTenant(target.OrganizationID, ministry.OrganizationID) {
		return dtos.Err[dtos.MinistryAssignData](constants.ErrForbidden)
	}

	var assignment gormModels.MinistryAssignment
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND ministry_id = ?", targetUserID, ministryID).
		First(&assignment).Error
	switch {
	case err == nil:
		if assignment.IsLead != isLead {
			upd := s.db.WithContext(ctx).
				Model(&gormModels.MinistryAssignment{}).
				Where("id = ?", assignment.ID).
				Update("is_lead", isLead)
			if upd.Error != nil {
				logging.Error("assignment update failed", "error", upd.Error.Error())
				return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = gormModels.MinistryAssignment{
			UserID:     targetUserID,
			MinistryID: ministryID,
			IsLead:     isLead,
			AssignedBy: actorID,
		}
		if err := s.db.WithContext(ctx).Create(&assignment).Error; err != nil {
			logging.Error("assignment insert failed", "error", err.Error())
			return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
		}
	default:
		logging.Error("assignment lookup failed", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(actorID), uintPtr(targetUserID), constants.ActionMinistryAssign,
		"ministry_assignment", userResource(assignment.ID),
		map[string]any{"ministry_id": ministryID, "is_lead": isLead}, "",
	))

	return dtos.Ok(dtos.MinistryAssignData{
		AssignmentID: assignment.ID,
		Message:      constants.MsgMinistryAssign,
	})
}

// RevokeMinistry soft-deletes a user's assignment, keeping the row for
// history.
func (s *MemberService) RevokeMinistry(ctx context.Context, actorID, targetUserID, ministryID uint) dtos.Result[dtos.MinistryAssignData] {
	var actor gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", actorID).First(&actor).Error; err != nil {
		logging.Error("actor lookup failed during ministry revoke", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}

	actorLeads, err := s.leadsMinistry(ctx, actorID, ministryID)
	if err != nil {
		logging.Error("lead lookup failed during ministry revoke", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}
	if !rbac.CanAssignMinistry(actor.Role, actorLeads) {
		return dtos.Err[dtos.MinistryAssignData](constants.ErrForbidden)
	}

	var assignment gormModels.MinistryAssignment
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND ministry_id = ?", targetUserID, ministryID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.MinistryAssignData](constants.ErrAssignmentNotFound)
		}
		logging.Error("assignment lookup failed during revoke", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}

	if err := s.db.WithContext(ctx).Delete(&assignment).Error; err != nil {
		logging.Error("assignment delete failed", "error", err.Error())
		return dtos.Err[dtos.MinistryAssignData](constants.ErrInternal)
	}

	writeAudit(ctx, s.audit, entities.NewAuditLogEntry(
		uintPtr(actorID), uintPtr(targetUserID), constants.ActionMinistryRevoke,
		"ministry_assignment", userResource(assignment.ID),
		map[string]any{"ministry_id": ministryID}, "",
	))

	return dtos.Ok(dtos.MinistryAssignData{
		AssignmentID: assignment.ID,
		Message:      constants.MsgMinistryRevoked,
	})
}

func (s *MemberService) leadsMinistry(ctx context.Context, userID, ministryID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&gormModels.MinistryAssignment{}).
		Where("user_id = ? AND ministry_id = ? AND is_lead = ?", userID, ministryID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
