package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Dashboard struct {
	Employees          int `json:"employees"`
	ActiveEmployees    int `json:"activeEmployees"`
	Departments        int `json:"departments"`
	ActivePeriods      int `json:"activePeriods"`
	PendingEvaluations int `json:"pendingEvaluations"`
	OpenTasks          int `json:"openTasks"`
	UpcomingTrainings  int `json:"upcomingTrainings"`
}

type PeriodRow struct {
	EmployeeID     string     `json:"employeeId"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Department     string     `json:"department"`
	Status         string     `json:"status"`
	TotalScore     *float64   `json:"totalScore,omitempty"`
	Grade          string     `json:"grade,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
}

func (s *Store) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM employees),
           (SELECT COUNT(1) FROM employees WHERE status = 'active'),
           (SELECT COUNT(1) FROM departments),
           (SELECT COUNT(1) FROM evaluation_periods WHERE status = 'active'),
           (SELECT COUNT(1) FROM employee_evaluations WHERE status IN ('pending', 'revision_requested')),
           (SELECT COUNT(1) FROM tasks WHERE status IN ('todo', 'in_progress')),
           (SELECT COUNT(1) FROM trainings WHERE status = 'scheduled' AND start_at > now())
  `).Scan(&d.Employees, &d.ActiveEmployees, &d.Departments, &d.ActivePeriods, &d.PendingEvaluations, &d.OpenTasks, &d.UpcomingTrainings)
	return d, err
}

func (s *Store) PeriodRows(ctx context.Context, periodID string) ([]PeriodRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.employee_number, e.first_name, e.last_name,
           COALESCE(d.name, ''),
           ev.status, ev.total_score, COALESCE(ev.grade, ''),
           ev.submitted_at, ev.reviewed_at
    FROM employee_evaluations ev
    JOIN employees e ON ev.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE ev.period_id = $1
    ORDER BY e.last_name, e.first_name
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PeriodRow
	for rows.Next() {
		var r PeriodRow
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeNumber, &r.FirstName, &r.LastName,
			&r.Department, &r.Status, &r.TotalScore, &r.Grade, &r.SubmittedAt, &r.ReviewedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) PeriodName(ctx context.Context, periodID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, `SELECT name FROM evaluation_periods WHERE id = $1`, periodID).Scan(&name)
	return name, err
}

func (s *Store) ListJobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, COALESCE(details_json::text, '{}'), started_at, completed_at
    FROM job_runs
    WHERE ($1 = '' OR job_type = $1)
    ORDER BY started_at DESC
    LIMIT $2 OFFSET $3
  `, jobType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var id, jt, status, details string
		var startedAt time.Time
		var completedAt *time.Time
		if err := rows.Scan(&id, &jt, &status, &details, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"id":          id,
			"jobType":     jt,
			"status":      status,
			"details":     details,
			"startedAt":   startedAt,
			"completedAt": completedAt,
		})
	}
	return out, rows.Err()
}
