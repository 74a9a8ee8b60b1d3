package complaint

import (
	"context"
	"errors"
	"testing"

	"resolveit/auth"
	"resolveit/workflow"
)

func TestCreate(t *testing.T) {
	repo := newFakeCrudRepo()
	svc := NewService(repo)

	rec, err := svc.Create(context.Background(), "user-1", CreateParams{
		Title:       "Broken projector",
		Description: "Room 4 projector does not power on",
		Category:    "Technical",
		Priority:    "High",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if rec.Status != workflow.StatusNew {
		t.Errorf("expected NEW, got %s", rec.Status)
	}
	if rec.CreatedByID != "user-1" {
		t.Errorf("expected creator user-1, got %s", rec.CreatedByID)
	}
}

func TestCreate_Validation(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name   string
		params CreateParams
	}{
		{"missing title", CreateParams{Description: "d", Category: "Technical", Priority: "High"}},
		{"missing description", CreateParams{Title: "t", Category: "Technical", Priority: "High"}},
		{"title too long", CreateParams{Title: string(long), Description: "d", Category: "Technical", Priority: "High"}},
		{"bad category", CreateParams{Title: "t", Description: "d", Category: "Gossip", Priority: "High"}},
		{"bad priority", CreateParams{Title: "t", Description: "d", Category: "Technical", Priority: "Urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeCrudRepo()
			svc := NewService(repo)

			_, err := svc.Create(context.Background(), "user-1", tt.params)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(repo.records) != 0 {
				t.Errorf("expected no write")
			}
		})
	}
}

func TestUpdate_Authorization(t *testing.T) {
	tests := []struct {
		name    string
		status  workflow.Status
		actorID string
		role    auth.Role
		wantErr error
	}{
		{"owner while new", workflow.StatusNew, "owner", auth.RoleUser, nil},
		{"owner after review starts", workflow.StatusUnderReview, "owner", auth.RoleUser, ErrForbidden},
		{"stranger", workflow.StatusNew, "other", auth.RoleUser, ErrForbidden},
		{"staff not owner", workflow.StatusNew, "other", auth.RoleStaff, ErrForbidden},
		{"admin any status", workflow.StatusResolved, "other", auth.RoleAdmin, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeCrudRepo()
			repo.seed(Complaint{ID: "c-1", Title: "t", Status: tt.status, CreatedByID: "owner"})
			svc := NewService(repo)

			title := "updated"
			_, err := svc.Update(context.Background(), "c-1", tt.actorID, tt.role, UpdateParams{Title: &title})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDelete_Authorization(t *testing.T) {
	repo := newFakeCrudRepo()
	repo.seed(Complaint{ID: "c-1", Status: workflow.StatusUnderReview, CreatedByID: "owner"})
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), "c-1", "owner", auth.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden once under review, got %v", err)
	}
	if err := svc.Delete(context.Background(), "c-1", "admin-1", auth.RoleAdmin); err != nil {
		t.Fatalf("expected admin delete to succeed, got %v", err)
	}
	if _, ok := repo.records["c-1"]; ok {
		t.Errorf("expected record removed")
	}
}

func TestActionsFor_OwnershipFlows(t *testing.T) {
	repo := newFakeCrudRepo()
	repo.seed(Complaint{ID: "c-1", Status: workflow.StatusNew, CreatedByID: "owner"})
	svc := NewService(repo)

	actions, err := svc.ActionsFor(context.Background(), "c-1", "owner", auth.RoleUser)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !actions.CanEdit || !actions.CanDelete {
		t.Errorf("expected owner edit/delete on NEW, got %+v", actions)
	}

	actions, err = svc.ActionsFor(context.Background(), "c-1", "stranger", auth.RoleUser)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if actions.CanEdit || actions.CanDelete {
		t.Errorf("expected no capabilities for stranger, got %+v", actions)
	}
}

type fakeCrudRepo struct {
	records map[string]Complaint
	seq     int
}

func newFakeCrudRepo() *fakeCrudRepo {
	return &fakeCrudRepo{records: make(map[string]Complaint)}
}

func (f *fakeCrudRepo) seed(rec Complaint) {
	f.records[rec.ID] = rec
}

func (f *fakeCrudRepo) Create(ctx context.Context, params CreateParams) (Complaint, error) {
	f.seq++
	rec := Complaint{
		ID:          params.Title + "-id",
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Priority:    params.Priority,
		Status:      workflow.StatusNew,
		Anonymous:   params.Anonymous,
		CreatedByID: params.CreatedByID,
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeCrudRepo) GetByID(ctx context.Context, id string) (Complaint, error) {
	rec, ok := f.records[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	return rec, nil
}

func (f *fakeCrudRepo) ListAll(ctx context.Context) ([]Complaint, error) {
	var out []Complaint
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeCrudRepo) ListByCreator(ctx context.Context, userID string) ([]Complaint, error) {
	var out []Complaint
	for _, rec := range f.records {
		if rec.CreatedByID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeCrudRepo) ListByAssignee(ctx context.Context, userID string) ([]Complaint, error) {
	var out []Complaint
	for _, rec := range f.records {
		if rec.AssignedTo != nil && *rec.AssignedTo == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeCrudRepo) Update(ctx context.Context, id string, params UpdateParams) (Complaint, error) {
	rec, ok := f.records[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	if params.Title != nil {
		rec.Title = *params.Title
	}
	if params.Description != nil {
		rec.Description = *params.Description
	}
	if params.Category != nil {
		rec.Category = *params.Category
	}
	if params.Priority != nil {
		rec.Priority = *params.Priority
	}
	f.records[id] = rec
	return rec, nil
}

func (f *fakeCrudRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeCrudRepo) Timeline(ctx context.Context, complaintID string) ([]StatusUpdate, error) {
	if _, ok := f.records[complaintID]; !ok {
		return nil, ErrNotFound
	}
	return nil, nil
}

func (f *fakeCrudRepo) Assign(ctx context.Context, complaintID, userID string) (Complaint, error) {
	rec, ok := f.records[complaintID]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	rec.AssignedTo = &userID
	f.records[complaintID] = rec
	return rec, nil
}

func (f *fakeCrudRepo) Reset(ctx context.Context) error {
	return nil
}
