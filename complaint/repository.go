package complaint

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no complaint row exists for the identifier.
	ErrNotFound = errors.New("complaint: not found")
)

// CreateParams enumerates the fields required to file a new complaint.
// Status is always NEW and the number is generated inside the insert
// transaction.
type CreateParams struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Anonymous   bool
	CreatedByID string
}

// UpdateParams carries a partial edit; nil fields are left untouched.
type UpdateParams struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
}

// Repository defines the data access the CRUD service requires.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Complaint, error)
	GetByID(ctx context.Context, id string) (Complaint, error)
	ListAll(ctx context.Context) ([]Complaint, error)
	ListByCreator(ctx context.Context, userID string) ([]Complaint, error)
	ListByAssignee(ctx context.Context, userID string) ([]Complaint, error)
	Update(ctx context.Context, id string, params UpdateParams) (Complaint, error)
	Delete(ctx context.Context, id string) error
	Timeline(ctx context.Context, complaintID string) ([]StatusUpdate, error)
	Assign(ctx context.Context, complaintID, userID string) (Complaint, error)
	Reset(ctx context.Context) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const complaintColumns = `
	c.id, c.complaint_number, c.title, c.description, c.category, c.priority,
	c.status, c.anonymous, c.escalated, c.escalated_at,
	c.created_by, creator.name, assignee.username,
	c.created_at, c.updated_at`

const complaintJoins = `
	FROM complaints c
	JOIN users creator ON creator.id = c.created_by
	LEFT JOIN users assignee ON assignee.id = c.assigned_to`

// Create inserts a new complaint in NEW state, generating the next sequential
// complaint number inside the same transaction so concurrent creates cannot
// collide.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Complaint, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Complaint{}, fmt.Errorf("complaint: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize number generation across concurrent creates.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('complaint_number'))`); err != nil {
		return Complaint{}, fmt.Errorf("complaint: number lock: %w", err)
	}

	var seq int
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(NULLIF(substring(complaint_number FROM 5), '')::int), 0) + 1
		FROM complaints
		WHERE complaint_number LIKE 'CMP-%'
	`).Scan(&seq); err != nil {
		return Complaint{}, fmt.Errorf("complaint: next number: %w", err)
	}
	number := fmt.Sprintf("CMP-%05d", seq)

	var id string
	if err := tx.QueryRow(ctx, `
		INSERT INTO complaints (complaint_number, title, description, category, priority, status, anonymous, created_by)
		VALUES ($1, $2, $3, $4, $5, 'NEW', $6, $7)
		RETURNING id
	`, number, params.Title, params.Description, params.Category, params.Priority, params.Anonymous, params.CreatedByID).Scan(&id); err != nil {
		return Complaint{}, fmt.Errorf("complaint: insert: %w", err)
	}

	rec, err := getByIDTx(ctx, tx, id)
	if err != nil {
		return Complaint{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Complaint{}, fmt.Errorf("complaint: commit: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Complaint, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+complaintColumns+complaintJoins+` WHERE c.id = $1`, id)
	rec, err := scanComplaint(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Complaint{}, ErrNotFound
		}
		return Complaint{}, fmt.Errorf("complaint: get by id: %w", err)
	}
	return rec, nil
}

func getByIDTx(ctx context.Context, tx pgx.Tx, id string) (Complaint, error) {
	row := tx.QueryRow(ctx, `SELECT `+complaintColumns+complaintJoins+` WHERE c.id = $1`, id)
	rec, err := scanComplaint(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Complaint{}, ErrNotFound
		}
		return Complaint{}, fmt.Errorf("complaint: get by id: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) ListAll(ctx context.Context) ([]Complaint, error) {
	return r.list(ctx, ``)
}

func (r *PGRepository) ListByCreator(ctx context.Context, userID string) ([]Complaint, error) {
	return r.list(ctx, ` WHERE c.created_by = $1`, userID)
}

func (r *PGRepository) ListByAssignee(ctx context.Context, userID string) ([]Complaint, error) {
	return r.list(ctx, ` WHERE c.assigned_to = $1`, userID)
}

func (r *PGRepository) list(ctx context.Context, where string, args ...any) ([]Complaint, error) {
	query := `SELECT ` + complaintColumns + complaintJoins + where + ` ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("complaint: list: %w", err)
	}
	defer rows.Close()

	out := make([]Complaint, 0, 16)
	for rows.Next() {
		rec, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("complaint: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("complaint: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Update(ctx context.Context, id string, params UpdateParams) (Complaint, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE complaints
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    category = COALESCE($3, category),
		    priority = COALESCE($4, priority),
		    updated_at = now()
		WHERE id = $5
	`, params.Title, params.Description, params.Category, params.Priority, id)
	if err != nil {
		return Complaint{}, fmt.Errorf("complaint: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Complaint{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("complaint: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Timeline returns the ordered status-update history, newest first.
func (r *PGRepository) Timeline(ctx context.Context, complaintID string) ([]StatusUpdate, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM complaints WHERE id = $1)`, complaintID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("complaint: verify exists: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.complaint_id, u.old_status, u.new_status, actor.username, COALESCE(u.comment, ''), u.updated_at
		FROM complaint_updates u
		LEFT JOIN users actor ON actor.id = u.updated_by
		WHERE u.complaint_id = $1
		ORDER BY u.updated_at DESC
	`, complaintID)
	if err != nil {
		return nil, fmt.Errorf("complaint: timeline: %w", err)
	}
	defer rows.Close()

	out := make([]StatusUpdate, 0, 8)
	for rows.Next() {
		var u StatusUpdate
		if err := rows.Scan(&u.ID, &u.ComplaintID, &u.OldStatus, &u.NewStatus, &u.UpdatedBy, &u.Comment, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("complaint: scan update: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("complaint: iterate updates: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Assign(ctx context.Context, complaintID, userID string) (Complaint, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE complaints SET assigned_to = $1, updated_at = now() WHERE id = $2
	`, userID, complaintID)
	if err != nil {
		return Complaint{}, fmt.Errorf("complaint: assign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Complaint{}, ErrNotFound
	}
	return r.GetByID(ctx, complaintID)
}

// Reset clears all workflow history and re-serializes complaint numbers. The
// complaints themselves survive with status NEW, no assignee, and no
// escalation flag.
func (r *PGRepository) Reset(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("complaint: begin reset: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM attachments`,
		`DELETE FROM complaint_updates`,
		`DELETE FROM status_change_requests`,
		`DELETE FROM notifications`,
		`DELETE FROM user_notifications`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("complaint: reset purge: %w", err)
		}
	}

	// Two-phase renumbering sidesteps the unique constraint on
	// complaint_number while rows swap positions.
	if _, err := tx.Exec(ctx, `UPDATE complaints SET complaint_number = 'T-' || id`); err != nil {
		return fmt.Errorf("complaint: reset renumber (phase 1): %w", err)
	}
	if _, err := tx.Exec(ctx, `
		WITH ordered AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY created_at) AS rn
			FROM complaints
		)
		UPDATE complaints c
		SET complaint_number = 'CMP-' || LPAD(ordered.rn::text, 5, '0'),
		    status = 'NEW',
		    assigned_to = NULL,
		    escalated = FALSE,
		    escalated_at = NULL
		FROM ordered
		WHERE ordered.id = c.id
	`); err != nil {
		return fmt.Errorf("complaint: reset renumber (phase 2): %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("complaint: commit reset: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (Complaint, error) {
	var rec Complaint
	err := row.Scan(
		&rec.ID,
		&rec.Number,
		&rec.Title,
		&rec.Description,
		&rec.Category,
		&rec.Priority,
		&rec.Status,
		&rec.Anonymous,
		&rec.Escalated,
		&rec.EscalatedAt,
		&rec.CreatedByID,
		&rec.CreatedBy,
		&rec.AssignedTo,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Complaint{}, err
	}
	return rec, nil
}
