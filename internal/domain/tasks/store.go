package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const taskColumns = `
    id, title, COALESCE(description, ''),
    COALESCE(assignee_id::text, ''), created_by,
    priority, status, due_date, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssigneeID, &t.CreatedBy,
		&t.Priority, &t.Status, &t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *Store) Get(ctx context.Context, taskID string) (Task, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+taskColumns+`
    FROM tasks
    WHERE id = $1
  `, taskID)
	return scanTask(row)
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+taskColumns+`
    FROM tasks
    WHERE ($1 = '' OR assignee_id::text = $1)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.AssigneeID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, input TaskInput, createdBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (title, description, assignee_id, created_by, priority, status, due_date)
    VALUES ($1, NULLIF($2,''), NULLIF($3,'')::uuid, $4, $5, $6, $7)
    RETURNING id
  `, input.Title, input.Description, input.AssigneeID, createdBy, input.Priority, StatusTodo, input.DueDate).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, taskID string, input TaskInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET title = $1, description = NULLIF($2,''), assignee_id = NULLIF($3,'')::uuid,
        priority = $4, due_date = $5, updated_at = now()
    WHERE id = $6
  `, input.Title, input.Description, input.AssigneeID, input.Priority, input.DueDate, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, taskID, status string, completedAt *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET status = $1, completed_at = $2, updated_at = now()
    WHERE id = $3
  `, status, completedAt, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, taskID string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
