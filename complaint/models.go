package complaint

import (
	"time"

	"resolveit/workflow"
)

// Complaint is the core grievance record tracked through the status lattice.
type Complaint struct {
	ID          string          `json:"id"`
	Number      string          `json:"complaintNumber"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Priority    string          `json:"priority"`
	Status      workflow.Status `json:"status"`
	Anonymous   bool            `json:"anonymous"`
	Escalated   bool            `json:"escalated"`
	EscalatedAt *time.Time      `json:"escalatedAt,omitempty"`
	CreatedByID string          `json:"createdById,omitempty"`
	CreatedBy   string          `json:"createdByName,omitempty"`
	AssignedTo  *string         `json:"assignedTo,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// StatusUpdate is an immutable audit record of one transition or comment.
// Rows are append-only; nothing outside the admin data reset removes them.
type StatusUpdate struct {
	ID          string          `json:"id"`
	ComplaintID string          `json:"complaintId"`
	OldStatus   workflow.Status `json:"oldStatus"`
	NewStatus   workflow.Status `json:"newStatus"`
	UpdatedBy   *string         `json:"updatedBy,omitempty"`
	Comment     string          `json:"comment,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProposalState is the lifecycle of a staff status-change request.
type ProposalState string

const (
	ProposalOpen      ProposalState = "OPEN"
	ProposalApproved  ProposalState = "APPROVED"
	ProposalDismissed ProposalState = "DISMISSED"
)

// StatusChangeRequest is a staff proposal to move a complaint. It never
// touches the complaint's status; only the admin commit path does that.
type StatusChangeRequest struct {
	ID          string
	ComplaintID string
	RequestedBy string
	FromStatus  workflow.Status
	ToStatus    workflow.Status
	Comment     string
	State       ProposalState
	CreatedAt   time.Time
}

// Categories is the unified complaint category set. The legacy create and
// edit forms carried two divergent lists; this is the superset the backend
// accepts for both paths.
var Categories = []string{
	"General",
	"Technical",
	"Administrative",
	"Facilities",
	"Academic",
	"Billing",
	"Service",
	"Other",
}

// Priorities in ascending urgency order.
var Priorities = []string{"Low", "Medium", "High", "Critical"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}
