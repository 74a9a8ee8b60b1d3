package staffapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("staffapp: application not found")
	ErrNotPending = errors.New("staffapp: application is not pending")
)

type CreateParams struct {
	ApplicantID string
	Answers     []int
	Score       int
	Total       int
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (Application, error)
	HasPending(ctx context.Context, applicantID string) (bool, error)
	LatestByApplicant(ctx context.Context, applicantID string) (Application, error)
	ListPending(ctx context.Context) ([]Application, error)
	GetByID(ctx context.Context, id string) (Application, error)
	// Approve marks the pending application approved and promotes the
	// applicant to staff under a generated StaffN name, atomically.
	Approve(ctx context.Context, id, reviewerID string) (Application, error)
	Reject(ctx context.Context, id, reviewerID, reason string) (Application, error)
	StaffList(ctx context.Context) ([]StaffMember, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const applicationColumns = `
	a.id, a.applicant_id, u.name, u.email, a.status, a.answers,
	a.score, a.total_questions, a.submitted_at, a.reviewed_at,
	r.name, a.rejection_reason`

const applicationJoins = `
	FROM staff_applications a
	JOIN users u ON u.id = a.applicant_id
	LEFT JOIN users r ON r.id = a.reviewed_by`

func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Application, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO staff_applications (applicant_id, answers, score, total_questions, status)
		VALUES ($1, $2, $3, $4, 'PENDING')
		RETURNING id`,
		params.ApplicantID, params.Answers, params.Score, params.Total,
	).Scan(&id)
	if err != nil {
		return Application{}, fmt.Errorf("staffapp: create application: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PGRepository) HasPending(ctx context.Context, applicantID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM staff_applications
			WHERE applicant_id = $1 AND status = 'PENDING')`,
		applicantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("staffapp: check pending: %w", err)
	}
	return exists, nil
}

func (r *PGRepository) LatestByApplicant(ctx context.Context, applicantID string) (Application, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+applicationColumns+applicationJoins+`
		WHERE a.applicant_id = $1
		ORDER BY a.submitted_at DESC
		LIMIT 1`,
		applicantID,
	)
	return scanApplication(row)
}

func (r *PGRepository) ListPending(ctx context.Context) ([]Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+applicationJoins+`
		WHERE a.status = 'PENDING'
		ORDER BY a.submitted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("staffapp: list pending: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Application, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+applicationColumns+applicationJoins+`
		WHERE a.id = $1`,
		id,
	)
	return scanApplication(row)
}

func (r *PGRepository) Approve(ctx context.Context, id, reviewerID string) (Application, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Application{}, fmt.Errorf("staffapp: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var applicantID string
	var status State
	err = tx.QueryRow(ctx, `
		SELECT applicant_id, status FROM staff_applications WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&applicantID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("staffapp: lock application: %w", err)
	}
	if status != StatePending {
		return Application{}, ErrNotPending
	}

	_, err = tx.Exec(ctx, `
		UPDATE staff_applications
		SET status = 'APPROVED', reviewed_by = $2, reviewed_at = now()
		WHERE id = $1`,
		id, reviewerID,
	)
	if err != nil {
		return Application{}, fmt.Errorf("staffapp: approve application: %w", err)
	}

	// Promote under the next sequential StaffN name.
	_, err = tx.Exec(ctx, `
		UPDATE users
		SET role = 'staff',
		    name = 'Staff' || (SELECT count(*) + 1 FROM users WHERE role = 'staff'),
		    updated_at = now()
		WHERE id = $1`,
		applicantID,
	)
	if err != nil {
		return Application{}, fmt.Errorf("staffapp: promote applicant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Application{}, fmt.Errorf("staffapp: commit approval: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PGRepository) Reject(ctx context.Context, id, reviewerID, reason string) (Application, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE staff_applications
		SET status = 'REJECTED', reviewed_by = $2, reviewed_at = now(), rejection_reason = $3
		WHERE id = $1 AND status = 'PENDING'`,
		id, reviewerID, reason,
	)
	if err != nil {
		return Application{}, fmt.Errorf("staffapp: reject application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return Application{}, err
		}
		return Application{}, ErrNotPending
	}
	return r.GetByID(ctx, id)
}

func (r *PGRepository) StaffList(ctx context.Context) ([]StaffMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email, name FROM users WHERE role = 'staff' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("staffapp: list staff: %w", err)
	}
	defer rows.Close()

	var staff []StaffMember
	for rows.Next() {
		var m StaffMember
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("staffapp: scan staff member: %w", err)
		}
		staff = append(staff, m)
	}
	return staff, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var a Application
	err := row.Scan(
		&a.ID, &a.ApplicantID, &a.ApplicantName, &a.ApplicantEmail, &a.State,
		&a.Answers, &a.Score, &a.TotalQuestions, &a.SubmittedAt, &a.ReviewedAt,
		&a.ReviewedByName, &a.RejectionReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("staffapp: scan application: %w", err)
	}
	if a.TotalQuestions > 0 {
		a.ScorePercent = float64(a.Score) / float64(a.TotalQuestions) * 100
	}
	a.Passing = a.ScorePercent >= PassPercent
	return a, nil
}
