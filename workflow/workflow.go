// Package workflow holds the role-aware complaint workflow rules: which status
// a complaint may move to next, and which actions each role may take on it.
// It is pure logic with no storage or transport dependencies; the complaint
// service validates committing transitions against the same tables the API
// serves to clients, so the two can never drift apart.
package workflow

import "resolveit/auth"

type Status string

const (
	StatusNew         Status = "NEW"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusResolved    Status = "RESOLVED"
	StatusClosed      Status = "CLOSED"
)

// Statuses lists every workflow state in lattice order.
var Statuses = []Status{StatusNew, StatusUnderReview, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusUnderReview, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

// nextAdmin is the strictly forward-moving admin lattice. CLOSED is terminal.
var nextAdmin = map[Status]Status{
	StatusNew:         StatusUnderReview,
	StatusUnderReview: StatusResolved,
	StatusResolved:    StatusClosed,
}

// staffRequestable is the wider staff lattice: forward or one step backward.
// Staff entries are proposals only; they never commit a status change.
var staffRequestable = map[Status][]Status{
	StatusNew:         {StatusUnderReview},
	StatusUnderReview: {StatusResolved, StatusNew},
	StatusResolved:    {StatusClosed, StatusUnderReview},
	StatusClosed:      {},
}

// NextAdminStatus returns the single status an admin advance commits, or
// ok=false when the complaint is CLOSED and no further transition exists.
func NextAdminStatus(current Status) (Status, bool) {
	next, ok := nextAdmin[current]
	return next, ok
}

// StaffRequestableStatuses returns the set of statuses staff may propose for a
// complaint in the given state. The returned slice is a copy.
func StaffRequestableStatuses(current Status) []Status {
	set := staffRequestable[current]
	out := make([]Status, len(set))
	copy(out, set)
	return out
}

// CanReportResolved reports whether staff may flag the complaint as resolved
// pending admin approval. Only complaints under review qualify.
func CanReportResolved(status Status) bool {
	return status == StatusUnderReview
}

// CanEscalate reports whether the complaint may be escalated. Escalation is
// independent of the status lattice, settable once, and never offered for
// complaints already resolved or closed.
func CanEscalate(status Status, escalated bool) bool {
	if escalated {
		return false
	}
	return status != StatusResolved && status != StatusClosed
}

// ValidAdminTransition reports whether an admin commit from one status to
// another is allowed. Same-status updates pass so a comment can be recorded
// without moving the complaint.
func ValidAdminTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return from != StatusClosed
	}
	next, ok := nextAdmin[from]
	return ok && next == to
}

// ValidStaffRequest reports whether staff may propose moving a complaint from
// one status to another.
func ValidStaffRequest(from, to Status) bool {
	for _, s := range staffRequestable[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Actions is the capability set a viewer holds over one complaint. Exactly the
// fields relevant to the viewer's role are populated; the rest stay zero.
type Actions struct {
	AdvanceTo         *Status  `json:"advanceTo,omitempty"`
	CanEscalate       bool     `json:"canEscalate"`
	CanAssign         bool     `json:"canAssign"`
	Requestable       []Status `json:"requestable,omitempty"`
	CanReportResolved bool     `json:"canReportResolved"`
	CanEdit           bool     `json:"canEdit"`
	CanDelete         bool     `json:"canDelete"`
}

// ActionsFor computes the permitted actions for a viewer role against a
// complaint in the given state. It is the single dispatch point replacing
// per-view role conditionals.
func ActionsFor(role auth.Role, status Status, escalated bool, isOwner bool) Actions {
	var a Actions
	switch role {
	case auth.RoleAdmin:
		if next, ok := NextAdminStatus(status); ok {
			a.AdvanceTo = &next
		}
		a.CanEscalate = CanEscalate(status, escalated)
		a.CanAssign = status != StatusClosed
		a.CanEdit = true
		a.CanDelete = true
	case auth.RoleStaff:
		a.Requestable = StaffRequestableStatuses(status)
		a.CanReportResolved = CanReportResolved(status)
	case auth.RoleUser:
		// Owners may amend or withdraw a complaint only before review starts.
		if isOwner && status == StatusNew {
			a.CanEdit = true
			a.CanDelete = true
		}
	}
	return a
}
