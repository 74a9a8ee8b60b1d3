package complaint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"

	"resolveit/mail"
	"resolveit/notification"
	"resolveit/workflow"
)

var (
	// ErrInvalidTransition signals a status commit outside the admin lattice.
	ErrInvalidTransition = errors.New("complaint: invalid status transition")
	// ErrClosed signals an attempt to touch a complaint that is already CLOSED.
	ErrClosed = errors.New("complaint: already closed")
	// ErrAlreadyEscalated signals a repeated escalation attempt.
	ErrAlreadyEscalated = errors.New("complaint: already escalated")
	// ErrNotEscalatable signals escalation of a resolved or closed complaint.
	ErrNotEscalatable = errors.New("complaint: resolved or closed complaints cannot be escalated")
	// ErrNotReportable signals report-resolved on a complaint not under review.
	ErrNotReportable = errors.New("complaint: only complaints under review can be reported resolved")
	// ErrInvalidRequest signals a staff proposal outside the staff lattice.
	ErrInvalidRequest = errors.New("complaint: requested status not reachable from current status")
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Locked is the complaint snapshot taken under FOR UPDATE at the start of
// every workflow transaction.
type Locked struct {
	Number       string
	Title        string
	Status       workflow.Status
	Escalated    bool
	Anonymous    bool
	CreatorID    string
	CreatorEmail string
}

// AppendUpdateParams describes one audit-trail row.
type AppendUpdateParams struct {
	ComplaintID string
	ActorID     string
	OldStatus   workflow.Status
	NewStatus   workflow.Status
	Comment     string
}

// StatusRepository defines the transaction-scoped writes the workflow
// service composes. Every method runs inside the caller's transaction so a
// transition, its audit row, and its notifications commit or roll back
// together.
type StatusRepository interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, complaintID string) (Locked, error)
	SetStatus(ctx context.Context, tx pgx.Tx, complaintID string, status workflow.Status) error
	SetAssigneeByEmail(ctx context.Context, tx pgx.Tx, complaintID, email string) error
	MarkEscalated(ctx context.Context, tx pgx.Tx, complaintID string) error
	AppendUpdate(ctx context.Context, tx pgx.Tx, params AppendUpdateParams) error
	InsertUserNotification(ctx context.Context, tx pgx.Tx, userID, typ, message, complaintID string) error
	InsertAdminNotification(ctx context.Context, tx pgx.Tx, typ, message, complaintID, createdBy string, requestedStatus *workflow.Status) error
	InsertProposal(ctx context.Context, tx pgx.Tx, params ProposalParams) (string, error)
	ApproveMatchingProposals(ctx context.Context, tx pgx.Tx, complaintID string, status workflow.Status) error
}

// TransitionParams carries one admin status commit.
type TransitionParams struct {
	ComplaintID   string
	ActorID       string
	NextStatus    workflow.Status
	Comment       string
	AssigneeEmail string
}

// ProposalParams carries one staff status-change request.
type ProposalParams struct {
	ComplaintID string
	RequestedBy string
	FromStatus  workflow.Status
	ToStatus    workflow.Status
	Comment     string
}

// Actor identifies the user driving a workflow action, with the display name
// used in notification messages.
type Actor struct {
	ID   string
	Name string
}

// StatusService owns every state-changing workflow action. Admin commits move
// the status; staff actions only produce admin-facing signals. All writes for
// one action share a single transaction.
type StatusService struct {
	pool   TxBeginner
	repo   StatusRepository
	mailer mail.Sender
}

// NewStatusService wires the workflow service. A nil repo gets the PostgreSQL
// implementation; a nil mailer disables email delivery.
func NewStatusService(pool TxBeginner, repo StatusRepository, mailer mail.Sender) *StatusService {
	if repo == nil {
		repo = NewPGStatusRepository()
	}
	return &StatusService{pool: pool, repo: repo, mailer: mailer}
}

// Transition commits an admin status change. Same-status commits record a
// comment without moving the complaint. On a real transition the creator is
// notified (unless anonymous), any matching open staff proposal is approved,
// and resolving an escalated complaint raises an admin-space alert.
func (s *StatusService) Transition(ctx context.Context, params TransitionParams) error {
	if !params.NextStatus.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, params.NextStatus)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("complaint: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cur, err := s.repo.GetForUpdate(ctx, tx, params.ComplaintID)
	if err != nil {
		return err
	}

	if cur.Status == workflow.StatusClosed {
		return ErrClosed
	}
	if !workflow.ValidAdminTransition(cur.Status, params.NextStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, params.NextStatus)
	}

	if err := s.repo.SetStatus(ctx, tx, params.ComplaintID, params.NextStatus); err != nil {
		return err
	}

	if email := strings.TrimSpace(params.AssigneeEmail); email != "" {
		if err := s.repo.SetAssigneeByEmail(ctx, tx, params.ComplaintID, email); err != nil {
			return err
		}
	}

	if err := s.repo.AppendUpdate(ctx, tx, AppendUpdateParams{
		ComplaintID: params.ComplaintID,
		ActorID:     params.ActorID,
		OldStatus:   cur.Status,
		NewStatus:   params.NextStatus,
		Comment:     params.Comment,
	}); err != nil {
		return err
	}

	if cur.Status != params.NextStatus {
		if !cur.Anonymous && cur.CreatorID != "" {
			msg := fmt.Sprintf("Your complaint '%s' status changed to %s",
				cur.Title, strings.ReplaceAll(string(params.NextStatus), "_", " "))
			if err := s.repo.InsertUserNotification(ctx, tx, cur.CreatorID, notification.TypeStatusUpdate, msg, params.ComplaintID); err != nil {
				return err
			}
		}

		if cur.Escalated && params.NextStatus == workflow.StatusResolved {
			msg := fmt.Sprintf("Escalated complaint '%s' (%s) has been RESOLVED. Please review and close.",
				cur.Title, cur.Number)
			if err := s.repo.InsertAdminNotification(ctx, tx, notification.TypeEscalatedResolved, msg, params.ComplaintID, params.ActorID, nil); err != nil {
				return err
			}
		}

		if err := s.repo.ApproveMatchingProposals(ctx, tx, params.ComplaintID, params.NextStatus); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("complaint: commit transition: %w", err)
	}

	if cur.Status != params.NextStatus {
		s.emailStatusChange(ctx, cur, params.NextStatus)
	}
	return nil
}

// emailStatusChange tells the creator by email after a committed transition.
// Delivery happens outside the transaction; a failed send is logged and never
// undoes the commit.
func (s *StatusService) emailStatusChange(ctx context.Context, cur Locked, next workflow.Status) {
	if s.mailer == nil || cur.Anonymous || cur.CreatorEmail == "" {
		return
	}
	subject, body := mail.StatusUpdateMessage(cur.Number, cur.Title, string(cur.Status), string(next))
	if err := s.mailer.Send(ctx, cur.CreatorEmail, subject, body); err != nil {
		log.Printf("complaint: status email to %s: %v", cur.CreatorEmail, err)
	}
}

// Escalate flags a complaint as escalated. The flag is orthogonal to the
// status lattice, settable once, and never cleared through this service.
func (s *StatusService) Escalate(ctx context.Context, complaintID string, actor Actor) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("complaint: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cur, err := s.repo.GetForUpdate(ctx, tx, complaintID)
	if err != nil {
		return err
	}
	if cur.Escalated {
		return ErrAlreadyEscalated
	}
	if !workflow.CanEscalate(cur.Status, cur.Escalated) {
		return ErrNotEscalatable
	}

	if err := s.repo.MarkEscalated(ctx, tx, complaintID); err != nil {
		return err
	}
	if err := s.repo.AppendUpdate(ctx, tx, AppendUpdateParams{
		ComplaintID: complaintID,
		ActorID:     actor.ID,
		OldStatus:   cur.Status,
		NewStatus:   cur.Status,
		Comment:     "Manual escalation by admin",
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("complaint: commit escalation: %w", err)
	}
	return nil
}

// ReportResolved raises an admin-space signal that staff consider the
// complaint resolved. The complaint's status is untouched; the admin commit
// path is the only writer.
func (s *StatusService) ReportResolved(ctx context.Context, complaintID string, actor Actor) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("complaint: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cur, err := s.repo.GetForUpdate(ctx, tx, complaintID)
	if err != nil {
		return err
	}
	if !workflow.CanReportResolved(cur.Status) {
		return ErrNotReportable
	}

	msg := fmt.Sprintf("Staff %s reports complaint #%s (%q) as resolved. Awaiting admin approval.",
		actor.Name, cur.Number, cur.Title)
	if err := s.repo.InsertAdminNotification(ctx, tx, notification.TypeResolvedPending, msg, complaintID, actor.ID, nil); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("complaint: commit report-resolved: %w", err)
	}
	return nil
}

// RequestStatusChange records a staff proposal as an explicit
// StatusChangeRequest row and raises the matching admin-space notification.
// The proposal is approved automatically when an admin later commits the
// requested status.
func (s *StatusService) RequestStatusChange(ctx context.Context, complaintID string, actor Actor, requested workflow.Status, comment string) (string, error) {
	if !requested.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, requested)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("complaint: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cur, err := s.repo.GetForUpdate(ctx, tx, complaintID)
	if err != nil {
		return "", err
	}
	if !workflow.ValidStaffRequest(cur.Status, requested) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidRequest, cur.Status, requested)
	}

	proposalID, err := s.repo.InsertProposal(ctx, tx, ProposalParams{
		ComplaintID: complaintID,
		RequestedBy: actor.ID,
		FromStatus:  cur.Status,
		ToStatus:    requested,
		Comment:     comment,
	})
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf("Staff %s requests to change complaint #%s (%q) from %s to %s",
		actor.Name, cur.Number, cur.Title, cur.Status, requested)
	if comment != "" {
		msg += ". Comment: " + comment
	}
	if err := s.repo.InsertAdminNotification(ctx, tx, notification.TypeStatusChangeRequest, msg, complaintID, actor.ID, &requested); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("complaint: commit status request: %w", err)
	}
	return proposalID, nil
}
