package escalation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"resolveit/notification"
)

type PGStore struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Candidates(ctx context.Context) ([]Candidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.complaint_number, c.title, c.priority, c.created_by,
		       COALESCE(u.email, ''), c.anonymous, c.created_at
		FROM complaints c
		LEFT JOIN users u ON u.id = c.created_by
		WHERE NOT c.escalated AND c.status IN ('NEW', 'UNDER_REVIEW')`)
	if err != nil {
		return nil, fmt.Errorf("escalation: list candidates: %w", err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Number, &c.Title, &c.Priority,
			&c.CreatorID, &c.CreatorEmail, &c.Anonymous, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("escalation: scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PGStore) EscalateOne(ctx context.Context, c Candidate, message string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("escalation: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The escalated guard makes the sweep idempotent under concurrent runs.
	tag, err := tx.Exec(ctx, `
		UPDATE complaints SET escalated = TRUE, escalated_at = now(), updated_at = now()
		WHERE id = $1 AND NOT escalated AND status IN ('NEW', 'UNDER_REVIEW')`,
		c.ID,
	)
	if err != nil {
		return false, fmt.Errorf("escalation: mark escalated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if !c.Anonymous && c.CreatorID != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_notifications (user_id, type, message, complaint_id)
			VALUES ($1, $2, $3, $4)`,
			c.CreatorID, notification.TypeEscalation, message, c.ID,
		)
		if err != nil {
			return false, fmt.Errorf("escalation: insert notification: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("escalation: commit: %w", err)
	}
	return true, nil
}
