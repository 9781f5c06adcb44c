package services

import (
	"context"
	"errors"
	"time"

	"koinonia/internal/constants"
	"koinonia/internal/logging"
	"koinonia/internal/models/dtos"
	gormModels "koinonia/internal/models/gorm"
	"koinonia/internal/rbac"

	"gorm.io/gorm"
)

// DirectoryService lists member profiles with per-viewer, per-field
// redaction. Redaction happens at read time: nothing on the stored row
// marks a field as hidden.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// ResolveDirectory returns the viewer's organization directory. Only
// Active viewers (or staff regardless of status) may call it; everyone
// else gets a uniform pending denial with no further detail.
func (s *DirectoryService) ResolveDirectory(ctx context.Context, viewerID uint, search string, limit, offset int) dtos.Result[dtos.DirectoryData] {
	var viewer gormModels.User
	if err := s.db.WithContext(ctx).Where("id = ?", viewerID).First(&viewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.Err[dtos.DirectoryData](constants.ErrAccountPending)
		}
		logging.Error("viewer lookup failed during directory resolve", "error", err.Error())
		return dtos.Err[dtos.DirectoryData](constants.ErrInternal)
	}

	if !rbac.CanViewDirectory(viewer.Role, viewer.Status) {
		return dtos.Err[dtos.DirectoryData](constants.ErrAccountPending)
	}

	q := s.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Select("users.*").
		Joins("LEFT JOIN member_profiles ON member_profiles.user_id = users.id").
		Where("users.organization_id = ?", viewer.OrganizationID).
		Preload("Profile")
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("member_profiles.full_name LIKE ? OR users.email LIKE ?", pattern, pattern)
	}

	var members []gormModels.User
	err := q.Order("member_profiles.full_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	if err != nil {
		logging.Error("directory query failed", "error", err.Error())
		return dtos.Err[dtos.DirectoryData](constants.ErrInternal)
	}

	isStaff := rbac.CanModerate(viewer.Role)

	results := make([]dtos.MemberView, 0, len(members))
	for _, member := range members {
		results = append(results, redactMember(&member, viewerID, isStaff))
	}

	return dtos.Ok(dtos.DirectoryData{Results: results, Limit: limit, Offset: offset})
}

// redactMember applies the field visibility rules for one row. Hidden
// fields come back nil, not blank.
func redactMember(member *gormModels.User, viewerID uint, viewerIsStaff bool) dtos.MemberView {
	view := dtos.MemberView{
		ID:    member.ID,
		Email: member.Email,
	}

	profile := member.Profile
	if profile == nil {
		return view
	}

	view.FullName = profile.FullName
	view.Bio = profile.Bio
	view.ProfilePicURL = profile.ProfilePicURL

	isSelf := member.ID == viewerID
	privileged := viewerIsStaff || isSelf

	// Phone has an opt-in exposure path; address does not.
	if (privileged || profile.SharePhone) && profile.Phone != "" {
		phone := profile.Phone
		view.Phone = &phone
	}
	if privileged && profile.Address != "" {
		address := profile.Address
		view.Address = &address
	}

	view.DOB = redactDOB(profile.DOB, privileged)

	return view
}

// redactDOB strips the year for unprivileged viewers so birthday
// reminders work without exposing age. Malformed stored dates degrade
// to omitted.
func redactDOB(dob string, privileged bool) *string {
	if dob == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil
	}
	if privileged {
		full := parsed.Format("2006-01-02")
		return &full
	}
	monthDay := parsed.Format("01-02")
	return &monthDay
}
