package dtos

import (
	"time"

	"koinonia/internal/constants"
)

type RegisterData struct {
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

type LoginData struct {
	Token  string         `json:"token"`
	UserID uint           `json:"user_id"`
	Role   constants.Role `json:"role"`
}

type StatusChangeData struct {
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

type ResetRequestData struct {
	Message string `json:"message"`
}

type ResetConfirmData struct {
	Message string `json:"message"`
}

// AnnouncementView is one row of the resolved feed. Rows the viewer
// may not see are filtered out entirely; there is no per-field
// redaction here.
type AnnouncementView struct {
	ID         uint                 `json:"id"`
	Title      string               `json:"title"`
	Body       string               `json:"body"`
	TargetType constants.TargetType `json:"target_type"`
	IsPinned   bool                 `json:"is_pinned"`
	CreatedAt  time.Time            `json:"created_at"`
}

type FeedData struct {
	Results []AnnouncementView `json:"results"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

type PostAnnouncementData struct {
	AnnouncementID uint `json:"announcement_id"`
}

type EventView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location"`
	Public      bool      `json:"public"`
}

type EventListData struct {
	Results []EventView `json:"results"`
}

type EventCreateData struct {
	EventID uint `json:"event_id"`
}

type RSVPData struct {
	EventID uint                 `json:"event_id"`
	Status  constants.RSVPStatus `json:"status"`
	Message string               `json:"message"`
}

// MemberView is one directory row after redaction. Omitted fields are
// nil, never empty strings, so the transport serializes them as
// absent. DOB is either the full date or month-day depending on the
// viewer.
type MemberView struct {
	ID            uint    `json:"id"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Bio           string  `json:"bio"`
	ProfilePicURL string  `json:"profile_pic_url"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	DOB           *string `json:"dob,omitempty"`
}

type DirectoryData struct {
	Results []MemberView `json:"results"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}

type ProfileUpdateData struct {
	Message string `json:"message"`
}

type MinistryAssignData struct {
	AssignmentID uint   `json:"assignment_id"`
	Message      string `json:"message"`
}
