package notification

import "time"

// Notification type tags. Clients use them only for icon selection; the
// server uses them to distinguish staff signals awaiting admin action.
const (
	TypeStatusUpdate        = "STATUS_UPDATE"
	TypeEscalation          = "ESCALATION"
	TypeResolvedPending     = "RESOLVED_PENDING"
	TypeStatusChangeRequest = "STATUS_CHANGE_REQUEST"
	TypeEscalatedResolved   = "ESCALATED_RESOLVED"
)

// Space selects one of the two parallel notification feeds. A viewer's role
// picks exactly one space; the feeds are never merged.
type Space string

const (
	SpaceAdmin Space = "admin"
	SpaceUser  Space = "user"
)

// Notification is one feed entry. UserID is empty for admin-space entries,
// which address the admin pool as a whole. RequestedStatus is populated only
// for STATUS_CHANGE_REQUEST entries and carries the proposed workflow status.
type Notification struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Message         string    `json:"message"`
	ComplaintID     *string   `json:"complaintId,omitempty"`
	UserID          string    `json:"userId,omitempty"`
	CreatedBy       *string   `json:"createdBy,omitempty"`
	RequestedStatus *string   `json:"requestedStatus,omitempty"`
	Read            bool      `json:"read"`
	CreatedAt       time.Time `json:"createdAt"`
}
