package complaint

import (
	"context"
	"errors"
	"fmt"

	"resolveit/auth"
	"resolveit/workflow"
)

var (
	// ErrForbidden signals the actor may not perform the operation on this complaint.
	ErrForbidden = errors.New("complaint: forbidden")
	// ErrValidation signals a malformed create or edit payload.
	ErrValidation = errors.New("complaint: invalid input")
)

// Service exposes complaint CRUD operations with role-aware authorization.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create files a new complaint for the actor. Status is always NEW.
func (s *Service) Create(ctx context.Context, actorID string, params CreateParams) (Complaint, error) {
	if params.Title == "" || params.Description == "" {
		return Complaint{}, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if len(params.Title) > 100 {
		return Complaint{}, fmt.Errorf("%w: title exceeds 100 characters", ErrValidation)
	}
	if !ValidCategory(params.Category) {
		return Complaint{}, fmt.Errorf("%w: unknown category %q", ErrValidation, params.Category)
	}
	if !ValidPriority(params.Priority) {
		return Complaint{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, params.Priority)
	}

	params.CreatedByID = actorID
	return s.repo.Create(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (Complaint, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll returns every complaint; admin dashboards only.
func (s *Service) ListAll(ctx context.Context) ([]Complaint, error) {
	return s.repo.ListAll(ctx)
}

// ListMine returns the complaints filed by the actor.
func (s *Service) ListMine(ctx context.Context, actorID string) ([]Complaint, error) {
	return s.repo.ListByCreator(ctx, actorID)
}

// ListAssigned returns the complaints assigned to the actor.
func (s *Service) ListAssigned(ctx context.Context, actorID string) ([]Complaint, error) {
	return s.repo.ListByAssignee(ctx, actorID)
}

// Update applies a partial edit. Admins may edit any complaint; owners only
// while it is still NEW, matching the capability set ActionsFor computes.
func (s *Service) Update(ctx context.Context, id, actorID string, role auth.Role, params UpdateParams) (Complaint, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Complaint{}, err
	}
	if err := s.authorizeMutation(rec, actorID, role); err != nil {
		return Complaint{}, err
	}

	if params.Category != nil && !ValidCategory(*params.Category) {
		return Complaint{}, fmt.Errorf("%w: unknown category %q", ErrValidation, *params.Category)
	}
	if params.Priority != nil && !ValidPriority(*params.Priority) {
		return Complaint{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, *params.Priority)
	}

	return s.repo.Update(ctx, id, params)
}

// Delete removes a complaint under the same authorization rule as Update.
func (s *Service) Delete(ctx context.Context, id, actorID string, role auth.Role) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeMutation(rec, actorID, role); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) authorizeMutation(rec Complaint, actorID string, role auth.Role) error {
	if role == auth.RoleAdmin {
		return nil
	}
	if rec.CreatedByID == actorID && rec.Status == workflow.StatusNew {
		return nil
	}
	return ErrForbidden
}

// Timeline returns the ordered status-update history for a complaint.
func (s *Service) Timeline(ctx context.Context, complaintID string) ([]StatusUpdate, error) {
	return s.repo.Timeline(ctx, complaintID)
}

// Assign hands a complaint to a staff member; admin only (enforced at the API
// layer, like every role guard).
func (s *Service) Assign(ctx context.Context, complaintID, userID string) (Complaint, error) {
	return s.repo.Assign(ctx, complaintID, userID)
}

// Reset clears workflow history and re-serializes complaint numbers.
func (s *Service) Reset(ctx context.Context) error {
	return s.repo.Reset(ctx)
}

// ActionsFor resolves the viewer's capability set over one complaint.
func (s *Service) ActionsFor(ctx context.Context, complaintID, viewerID string, role auth.Role) (workflow.Actions, error) {
	rec, err := s.repo.GetByID(ctx, complaintID)
	if err != nil {
		return workflow.Actions{}, err
	}
	return workflow.ActionsFor(role, rec.Status, rec.Escalated, rec.CreatedByID == viewerID), nil
}
