package complaint

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"resolveit/workflow"
)

// PGStatusRepository issues the transaction-scoped workflow writes. It holds
// no connection of its own; every method borrows the caller's transaction.
type PGStatusRepository struct{}

func NewPGStatusRepository() *PGStatusRepository {
	return &PGStatusRepository{}
}

func (r *PGStatusRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, complaintID string) (Locked, error) {
	var l Locked
	err := tx.QueryRow(ctx, `
		SELECT c.complaint_number, c.title, c.status, c.escalated, c.anonymous, c.created_by,
		       COALESCE((SELECT u.email FROM users u WHERE u.id = c.created_by), '')
		FROM complaints c
		WHERE c.id = $1
		FOR UPDATE OF c`,
		complaintID,
	).Scan(&l.Number, &l.Title, &l.Status, &l.Escalated, &l.Anonymous, &l.CreatorID, &l.CreatorEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		return Locked{}, ErrNotFound
	}
	if err != nil {
		return Locked{}, fmt.Errorf("complaint: lock complaint: %w", err)
	}
	return l, nil
}

func (r *PGStatusRepository) SetStatus(ctx context.Context, tx pgx.Tx, complaintID string, status workflow.Status) error {
	_, err := tx.Exec(ctx, `
		UPDATE complaints SET status = $2, updated_at = now() WHERE id = $1`,
		complaintID, status,
	)
	if err != nil {
		return fmt.Errorf("complaint: set status: %w", err)
	}
	return nil
}

// SetAssigneeByEmail resolves the assignee inside the transaction. An unknown
// email is ignored rather than failing the whole commit.
func (r *PGStatusRepository) SetAssigneeByEmail(ctx context.Context, tx pgx.Tx, complaintID, email string) error {
	_, err := tx.Exec(ctx, `
		UPDATE complaints
		SET assigned_to = (SELECT id FROM users WHERE email = $2),
		    updated_at = now()
		WHERE id = $1 AND EXISTS (SELECT 1 FROM users WHERE email = $2)`,
		complaintID, email,
	)
	if err != nil {
		return fmt.Errorf("complaint: set assignee: %w", err)
	}
	return nil
}

func (r *PGStatusRepository) MarkEscalated(ctx context.Context, tx pgx.Tx, complaintID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE complaints SET escalated = TRUE, escalated_at = now(), updated_at = now()
		WHERE id = $1`,
		complaintID,
	)
	if err != nil {
		return fmt.Errorf("complaint: mark escalated: %w", err)
	}
	return nil
}

func (r *PGStatusRepository) AppendUpdate(ctx context.Context, tx pgx.Tx, params AppendUpdateParams) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO complaint_updates (complaint_id, updated_by, old_status, new_status, comment)
		VALUES ($1, $2, $3, $4, $5)`,
		params.ComplaintID, params.ActorID, params.OldStatus, params.NewStatus, params.Comment,
	)
	if err != nil {
		return fmt.Errorf("complaint: append update: %w", err)
	}
	return nil
}

func (r *PGStatusRepository) InsertUserNotification(ctx context.Context, tx pgx.Tx, userID, typ, message, complaintID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_notifications (user_id, type, message, complaint_id)
		VALUES ($1, $2, $3, $4)`,
		userID, typ, message, complaintID,
	)
	if err != nil {
		return fmt.Errorf("complaint: insert user notification: %w", err)
	}
	return nil
}

func (r *PGStatusRepository) InsertAdminNotification(ctx context.Context, tx pgx.Tx, typ, message, complaintID, createdBy string, requestedStatus *workflow.Status) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO notifications (type, message, complaint_id, created_by, requested_status)
		VALUES ($1, $2, $3, $4, $5)`,
		typ, message, complaintID, createdBy, requestedStatus,
	)
	if err != nil {
		return fmt.Errorf("complaint: insert admin notification: %w", err)
	}
	return nil
}

func (r *PGStatusRepository) InsertProposal(ctx context.Context, tx pgx.Tx, params ProposalParams) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO status_change_requests (complaint_id, requested_by, from_status, to_status, comment, state)
		VALUES ($1, $2, $3, $4, $5, 'OPEN')
		RETURNING id`,
		params.ComplaintID, params.RequestedBy, params.FromStatus, params.ToStatus, params.Comment,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("complaint: insert proposal: %w", err)
	}
	return id, nil
}

// ApproveMatchingProposals closes every open proposal asking for the status
// the admin just committed.
func (r *PGStatusRepository) ApproveMatchingProposals(ctx context.Context, tx pgx.Tx, complaintID string, status workflow.Status) error {
	_, err := tx.Exec(ctx, `
		UPDATE status_change_requests
		SET state = 'APPROVED', decided_at = now()
		WHERE complaint_id = $1 AND to_status = $2 AND state = 'OPEN'`,
		complaintID, status,
	)
	if err != nil {
		return fmt.Errorf("complaint: approve proposals: %w", err)
	}
	return nil
}
