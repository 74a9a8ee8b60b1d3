package attachment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("attachment: not found")

// Attachment is one stored upload tied to a complaint.
type Attachment struct {
	ID           string    `json:"id"`
	ComplaintID  string    `json:"complaintId"`
	StoredName   string    `json:"-"`
	OriginalName string    `json:"fileName"`
	ContentType  string    `json:"fileType"`
	Size         int64     `json:"fileSize"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateParams struct {
	ComplaintID  string
	StoredName   string
	OriginalName string
	ContentType  string
	Size         int64
	UploadedBy   string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (Attachment, error)
	GetByID(ctx context.Context, id string) (Attachment, error)
	ListByComplaint(ctx context.Context, complaintID string) ([]Attachment, error)
	Delete(ctx context.Context, id string) error
	// ListAll feeds PurgeAll so files on disk can be removed alongside rows.
	ListAll(ctx context.Context) ([]Attachment, error)
	DeleteAll(ctx context.Context) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const attachmentColumns = `id, complaint_id, stored_name, original_name, content_type, file_size, uploaded_by, created_at`

func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Attachment, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attachments (complaint_id, stored_name, original_name, content_type, file_size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		params.ComplaintID, params.StoredName, params.OriginalName,
		params.ContentType, params.Size, params.UploadedBy,
	).Scan(&id)
	if err != nil {
		return Attachment{}, fmt.Errorf("attachment: create: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Attachment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id)
	return scanAttachment(row)
}

func (r *PGRepository) ListByComplaint(ctx context.Context, complaintID string) ([]Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attachmentColumns+` FROM attachments
		WHERE complaint_id = $1
		ORDER BY created_at`, complaintID)
	if err != nil {
		return nil, fmt.Errorf("attachment: list by complaint: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("attachment: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) ListAll(ctx context.Context) ([]Attachment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+attachmentColumns+` FROM attachments`)
	if err != nil {
		return nil, fmt.Errorf("attachment: list all: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PGRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM attachments`); err != nil {
		return fmt.Errorf("attachment: delete all: %w", err)
	}
	return nil
}

func collect(rows pgx.Rows) ([]Attachment, error) {
	var atts []Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		atts = append(atts, a)
	}
	return atts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttachment(row rowScanner) (Attachment, error) {
	var a Attachment
	err := row.Scan(&a.ID, &a.ComplaintID, &a.StoredName, &a.OriginalName,
		&a.ContentType, &a.Size, &a.UploadedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attachment{}, ErrNotFound
	}
	if err != nil {
		return Attachment{}, fmt.Errorf("attachment: scan: %w", err)
	}
	return a, nil
}
