package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

var csvHeader = []string{
	"Complaint Number", "Title", "Category", "Priority", "Status",
	"Created By", "Assigned To", "Created At", "Escalated",
}

// ExportCSV writes the full complaint corpus as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.store.ExportRows(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("report: write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Number, r.Title, r.Category, r.Priority, r.Status,
			r.CreatedBy, r.AssignedTo,
			r.CreatedAt.Format("2006-01-02 15:04"),
			yesNo(r.Escalated),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("report: write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: flush csv: %w", err)
	}
	return nil
}

// ExportPDF writes a summary line plus the complaint table.
func (s *Service) ExportPDF(ctx context.Context, w io.Writer) error {
	rows, err := s.store.ExportRows(ctx)
	if err != nil {
		return err
	}
	totals, err := s.store.Totals(ctx)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "ResolveIT - Complaints Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated: "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	summary := fmt.Sprintf("Summary: Total: %d | Resolved: %d | Pending: %d | Escalated: %d",
		totals.Total, totals.Resolved, totals.Pending, totals.Escalated)
	pdf.CellFormat(0, 8, summary, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{28, 50, 28, 20, 28, 36}
	headers := []string{"ID", "Title", "Category", "Priority", "Status", "Created"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cells := []string{
			r.Number, truncate(r.Title, 30), r.Category, r.Priority,
			r.Status, r.CreatedAt.Format("2006-01-02"),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: write pdf: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
