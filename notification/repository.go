package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when the notification does not exist in the
// caller's space.
var ErrNotFound = errors.New("notification: not found")

// Repository handles data access for both notification spaces. Admin-space
// rows live in notifications; user-space rows in user_notifications. Writers
// (the complaint status service, the escalation worker) insert rows inside
// their own transactions; this repository only reads and flips read flags.
type Repository interface {
	ListAdmin(ctx context.Context) ([]Notification, error)
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	UnreadCountAdmin(ctx context.Context) (int64, error)
	UnreadCountForUser(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, space Space, id, userID string) error
	MarkAllRead(ctx context.Context, space Space, userID string) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ListAdmin(ctx context.Context) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.type, n.message, n.complaint_id, creator.username, n.requested_status, n.read, n.created_at
		FROM notifications n
		LEFT JOIN users creator ON creator.id = n.created_by
		ORDER BY n.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("notification: list admin: %w", err)
	}
	defer rows.Close()

	out := make([]Notification, 0, 16)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Message, &n.ComplaintID, &n.CreatedBy, &n.RequestedStatus, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notification: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notification: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, message, complaint_id, user_id, read, created_at
		FROM user_notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("notification: list for user: %w", err)
	}
	defer rows.Close()

	out := make([]Notification, 0, 16)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Message, &n.ComplaintID, &n.UserID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notification: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notification: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) UnreadCountAdmin(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE read = FALSE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("notification: unread admin: %w", err)
	}
	return count, nil
}

func (r *PGRepository) UnreadCountForUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("notification: unread for user: %w", err)
	}
	return count, nil
}

// MarkRead flips one notification's read flag. In user space the row must
// belong to the caller.
func (r *PGRepository) MarkRead(ctx context.Context, space Space, id, userID string) error {
	var query string
	args := []any{id}
	switch space {
	case SpaceAdmin:
		query = `UPDATE notifications SET read = TRUE WHERE id = $1`
	case SpaceUser:
		query = `UPDATE user_notifications SET read = TRUE WHERE id = $1 AND user_id = $2`
		args = append(args, userID)
	default:
		return fmt.Errorf("notification: unknown space %q", space)
	}

	res, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("notification: mark read: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) MarkAllRead(ctx context.Context, space Space, userID string) error {
	var err error
	switch space {
	case SpaceAdmin:
		_, err = r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE read = FALSE`)
	case SpaceUser:
		_, err = r.pool.Exec(ctx, `UPDATE user_notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	default:
		return fmt.Errorf("notification: unknown space %q", space)
	}
	if err != nil {
		return fmt.Errorf("notification: mark all read: %w", err)
	}
	return nil
}
