package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	return s.Store.Dashboard(ctx)
}

func (s *Service) PeriodRows(ctx context.Context, periodID string) ([]PeriodRow, error) {
	return s.Store.PeriodRows(ctx, periodID)
}

func (s *Service) JobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.ListJobRuns(ctx, jobType, limit, offset)
}

// WritePeriodCSV streams the period's evaluation results as CSV.
func (s *Service) WritePeriodCSV(ctx context.Context, periodID string, w io.Writer) error {
	rows, err := s.Store.PeriodRows(ctx, periodID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_number", "first_name", "last_name", "department", "status", "total_score", "grade", "submitted_at", "reviewed_at"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.EmployeeNumber, r.FirstName, r.LastName, r.Department, r.Status,
			formatScore(r.TotalScore), r.Grade,
			formatTime(r.SubmittedAt), formatTime(r.ReviewedAt),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePeriodPDF renders the period's results as a simple tabular PDF.
func (s *Service) WritePeriodPDF(ctx context.Context, periodID string, w io.Writer) error {
	name, err := s.Store.PeriodName(ctx, periodID)
	if err != nil {
		return err
	}
	rows, err := s.Store.PeriodRows(ctx, periodID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Evaluation Results")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 8, "Number", "1", 0, "", false, 0, "")
	pdf.CellFormat(60, 8, "Employee", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Status", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Score", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Grade", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(30, 8, r.EmployeeNumber, "1", 0, "", false, 0, "")
		pdf.CellFormat(60, 8, r.FirstName+" "+r.LastName, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 8, r.Status, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, formatScore(r.TotalScore), "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 8, r.Grade, "1", 1, "", false, 0, "")
	}

	return pdf.Output(w)
}

func formatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *score)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
