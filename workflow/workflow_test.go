package workflow

import (
	"testing"

	"resolveit/auth"
)

func TestNextAdminStatus(t *testing.T) {
	cases := []struct {
		current Status
		want    Status
		ok      bool
	}{
		{StatusNew, StatusUnderReview, true},
		{StatusUnderReview, StatusResolved, true},
		{StatusResolved, StatusClosed, true},
		{StatusClosed, "", false},
	}

	for _, tc := range cases {
		got, ok := NextAdminStatus(tc.current)
		if ok != tc.ok {
			t.Fatalf("%s: expected ok=%v got %v", tc.current, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("%s: expected next %s got %s", tc.current, tc.want, got)
		}
		if ok && !got.Valid() {
			t.Fatalf("%s: next status %q is outside the lattice", tc.current, got)
		}
	}
}

func TestStaffRequestableStatuses(t *testing.T) {
	cases := []struct {
		current Status
		want    []Status
	}{
		{StatusNew, []Status{StatusUnderReview}},
		{StatusUnderReview, []Status{StatusResolved, StatusNew}},
		{StatusResolved, []Status{StatusClosed, StatusUnderReview}},
		{StatusClosed, []Status{}},
	}

	for _, tc := range cases {
		got := StaffRequestableStatuses(tc.current)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.current, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: expected %v got %v", tc.current, tc.want, got)
			}
			if !got[i].Valid() {
				t.Fatalf("%s: requestable status %q is outside the lattice", tc.current, got[i])
			}
		}
	}
}

func TestCanReportResolved(t *testing.T) {
	for _, s := range Statuses {
		got := CanReportResolved(s)
		want := s == StatusUnderReview
		if got != want {
			t.Fatalf("%s: expected CanReportResolved=%v got %v", s, want, got)
		}
	}
}

func TestCanEscalate(t *testing.T) {
	for _, s := range Statuses {
		if CanEscalate(s, true) {
			t.Fatalf("%s: escalated complaint must never be escalatable again", s)
		}
	}

	cases := map[Status]bool{
		StatusNew:         true,
		StatusUnderReview: true,
		StatusResolved:    false,
		StatusClosed:      false,
	}
	for s, want := range cases {
		if got := CanEscalate(s, false); got != want {
			t.Fatalf("%s: expected CanEscalate=%v got %v", s, want, got)
		}
	}
}

func TestValidAdminTransition(t *testing.T) {
	for _, from := range Statuses {
		for _, to := range Statuses {
			got := ValidAdminTransition(from, to)
			want := false
			if from == to && from != StatusClosed {
				want = true
			}
			if next, ok := nextAdmin[from]; ok && next == to {
				want = true
			}
			if got != want {
				t.Fatalf("%s -> %s: expected %v got %v", from, to, want, got)
			}
		}
	}

	if ValidAdminTransition(StatusClosed, StatusClosed) {
		t.Fatal("CLOSED is terminal; even same-status commits must be rejected")
	}
	if ValidAdminTransition("BOGUS", StatusNew) {
		t.Fatal("unknown source status must be rejected")
	}
	if ValidAdminTransition(StatusNew, "BOGUS") {
		t.Fatal("unknown target status must be rejected")
	}
}

func TestValidStaffRequest(t *testing.T) {
	if !ValidStaffRequest(StatusUnderReview, StatusNew) {
		t.Fatal("staff may request one step backward from UNDER_REVIEW")
	}
	if ValidStaffRequest(StatusNew, StatusResolved) {
		t.Fatal("staff may not skip states forward")
	}
	if ValidStaffRequest(StatusClosed, StatusUnderReview) {
		t.Fatal("no staff requests from CLOSED")
	}
}

func TestActionsFor_Admin(t *testing.T) {
	a := ActionsFor(auth.RoleAdmin, StatusNew, false, false)
	if a.AdvanceTo == nil || *a.AdvanceTo != StatusUnderReview {
		t.Fatalf("NEW: expected advance to UNDER_REVIEW, got %v", a.AdvanceTo)
	}
	if !a.CanEscalate {
		t.Fatal("NEW, not escalated: admin must be offered escalation")
	}

	a = ActionsFor(auth.RoleAdmin, StatusUnderReview, false, false)
	if a.AdvanceTo == nil || *a.AdvanceTo != StatusResolved {
		t.Fatalf("UNDER_REVIEW: expected advance to RESOLVED, got %v", a.AdvanceTo)
	}
	if !a.CanEscalate {
		t.Fatal("UNDER_REVIEW, not escalated: admin must be offered escalation")
	}

	a = ActionsFor(auth.RoleAdmin, StatusClosed, false, false)
	if a.AdvanceTo != nil {
		t.Fatalf("CLOSED: expected no advance action, got %v", *a.AdvanceTo)
	}
	if a.CanEscalate {
		t.Fatal("CLOSED: escalation must not be offered")
	}
}

func TestActionsFor_Staff(t *testing.T) {
	a := ActionsFor(auth.RoleStaff, StatusNew, false, false)
	if len(a.Requestable) != 1 || a.Requestable[0] != StatusUnderReview {
		t.Fatalf("NEW: expected staff set {UNDER_REVIEW}, got %v", a.Requestable)
	}
	if a.CanReportResolved {
		t.Fatal("NEW: report-resolved must be disabled")
	}

	a = ActionsFor(auth.RoleStaff, StatusUnderReview, false, false)
	if !a.CanReportResolved {
		t.Fatal("UNDER_REVIEW: report-resolved must be enabled")
	}

	a = ActionsFor(auth.RoleStaff, StatusClosed, false, false)
	if len(a.Requestable) != 0 {
		t.Fatalf("CLOSED: expected empty staff set, got %v", a.Requestable)
	}
}

func TestActionsFor_User(t *testing.T) {
	a := ActionsFor(auth.RoleUser, StatusNew, false, true)
	if !a.CanEdit || !a.CanDelete {
		t.Fatal("owner of a NEW complaint may edit and delete it")
	}

	a = ActionsFor(auth.RoleUser, StatusNew, false, false)
	if a.CanEdit || a.CanDelete {
		t.Fatal("non-owners may not edit or delete")
	}

	a = ActionsFor(auth.RoleUser, StatusUnderReview, false, true)
	if a.CanEdit || a.CanDelete {
		t.Fatal("complaints under review are no longer editable by the owner")
	}
}
