package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Totals is the headline block of the stats report.
type Totals struct {
	Total     int `json:"totalComplaints"`
	Resolved  int `json:"resolvedCount"`
	Closed    int `json:"closedCount"`
	Pending   int `json:"pendingCount"`
	Escalated int `json:"escalatedCount"`
}

// Stats aggregates the whole complaint corpus for the admin dashboard.
type Stats struct {
	Totals
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
	ByPriority map[string]int `json:"byPriority"`
}

// TrendPoint is one day of complaint volume.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Row is one complaint flattened for export.
type Row struct {
	Number     string
	Title      string
	Category   string
	Priority   string
	Status     string
	CreatedBy  string
	AssignedTo string
	CreatedAt  time.Time
	Escalated  bool
}

// Store reads the aggregates behind reports. Aggregation happens in SQL so
// the corpus never crosses the wire row by row except for exports.
type Store interface {
	Totals(ctx context.Context) (Totals, error)
	CountBy(ctx context.Context, column string) (map[string]int, error)
	Trends(ctx context.Context, since time.Time) ([]TrendPoint, error)
	ExportRows(ctx context.Context) ([]Row, error)
}

type PGStore struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'RESOLVED'),
		       count(*) FILTER (WHERE status = 'CLOSED'),
		       count(*) FILTER (WHERE status IN ('NEW', 'UNDER_REVIEW')),
		       count(*) FILTER (WHERE escalated)
		FROM complaints`,
	).Scan(&t.Total, &t.Resolved, &t.Closed, &t.Pending, &t.Escalated)
	if err != nil {
		return Totals{}, fmt.Errorf("report: totals: %w", err)
	}
	return t, nil
}

// CountBy groups complaints by one of the enumerated columns. The column name
// is restricted to a fixed set, never caller input.
func (s *PGStore) CountBy(ctx context.Context, column string) (map[string]int, error) {
	switch column {
	case "status", "category", "priority":
	default:
		return nil, fmt.Errorf("report: unsupported grouping column %q", column)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+column+`, count(*) FROM complaints GROUP BY `+column)
	if err != nil {
		return nil, fmt.Errorf("report: count by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("report: scan count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func (s *PGStore) Trends(ctx context.Context, since time.Time) ([]TrendPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(created_at::date, 'YYYY-MM-DD'), count(*)
		FROM complaints
		WHERE created_at >= $1
		GROUP BY created_at::date
		ORDER BY created_at::date`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("report: trends: %w", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, fmt.Errorf("report: scan trend: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *PGStore) ExportRows(ctx context.Context) ([]Row, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.complaint_number, c.title, c.category, c.priority, c.status,
		       COALESCE(creator.email, 'N/A'),
		       COALESCE(assignee.email, 'Unassigned'),
		       c.created_at, c.escalated
		FROM complaints c
		LEFT JOIN users creator ON creator.id = c.created_by
		LEFT JOIN users assignee ON assignee.id = c.assigned_to
		ORDER BY c.complaint_number`)
	if err != nil {
		return nil, fmt.Errorf("report: export rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Number, &r.Title, &r.Category, &r.Priority, &r.Status,
			&r.CreatedBy, &r.AssignedTo, &r.CreatedAt, &r.Escalated); err != nil {
			return nil, fmt.Errorf("report: scan export row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
