package training

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const trainingColumns = `
    id, title, COALESCE(description, ''), COALESCE(trainer, ''), COALESCE(location, ''),
    start_at, end_at, capacity, status, created_by, created_at`

func scanTraining(row pgx.Row) (Training, error) {
	var t Training
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Trainer, &t.Location,
		&t.StartAt, &t.EndAt, &t.Capacity, &t.Status, &t.CreatedBy, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Training{}, ErrNotFound
	}
	return t, err
}

func (s *Store) Get(ctx context.Context, trainingID string) (Training, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+trainingColumns+`
    FROM trainings
    WHERE id = $1
  `, trainingID)
	return scanTraining(row)
}

func (s *Store) List(ctx context.Context, status string, limit, offset int) ([]Training, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+trainingColumns+`
    FROM trainings
    WHERE ($1 = '' OR status = $1)
    ORDER BY start_at DESC
    LIMIT $2 OFFSET $3
  `, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Training
	for rows.Next() {
		t, err := scanTraining(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, input TrainingInput, createdBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO trainings (title, description, trainer, location, start_at, end_at, capacity, status, created_by)
    VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), $5, $6, $7, $8, $9)
    RETURNING id
  `, input.Title, input.Description, input.Trainer, input.Location,
		input.StartAt, input.EndAt, input.Capacity, StatusScheduled, createdBy).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, trainingID string, input TrainingInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE trainings
    SET title = $1, description = NULLIF($2,''), trainer = NULLIF($3,''), location = NULLIF($4,''),
        start_at = $5, end_at = $6, capacity = $7, updated_at = now()
    WHERE id = $8
  `, input.Title, input.Description, input.Trainer, input.Location,
		input.StartAt, input.EndAt, input.Capacity, trainingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, trainingID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE trainings
    SET status = $1, updated_at = now()
    WHERE id = $2
  `, status, trainingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) EnrollmentCount(ctx context.Context, trainingID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM training_enrollments
    WHERE training_id = $1 AND status <> 'withdrawn'
  `, trainingID).Scan(&count)
	return count, err
}

func (s *Store) IsEnrolled(ctx context.Context, trainingID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM training_enrollments
    WHERE training_id = $1 AND employee_id = $2 AND status <> 'withdrawn'
  `, trainingID, employeeID).Scan(&count)
	return count > 0, err
}

func (s *Store) Enroll(ctx context.Context, trainingID, employeeID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_enrollments (training_id, employee_id, status)
    VALUES ($1, $2, $3)
    ON CONFLICT (training_id, employee_id) DO UPDATE SET status = $3
    RETURNING id
  `, trainingID, employeeID, EnrollmentEnrolled).Scan(&id)
	return id, err
}

func (s *Store) Withdraw(ctx context.Context, trainingID, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_enrollments
    SET status = 'withdrawn'
    WHERE training_id = $1 AND employee_id = $2 AND status <> 'withdrawn'
  `, trainingID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotEnrolled
	}
	return nil
}

func (s *Store) ListEnrollments(ctx context.Context, trainingID string) ([]Enrollment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, training_id, employee_id, status, enrolled_at
    FROM training_enrollments
    WHERE training_id = $1
    ORDER BY enrolled_at
  `, trainingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.ID, &e.TrainingID, &e.EmployeeID, &e.Status, &e.EnrolledAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
