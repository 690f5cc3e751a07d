package attendance

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

func (s *Store) RecordForDay(ctx context.Context, employeeID string, day time.Time) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, date, check_in, check_out, status, COALESCE(worked_minutes, 0), COALESCE(note, ''), created_at
    FROM attendance_records
    WHERE employee_id = $1 AND date = $2::date
  `, employeeID, day)
	return scanRecord(row)
}

func (s *Store) InsertCheckIn(ctx context.Context, employeeID string, at time.Time, status, note string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, date, check_in, status, note)
    VALUES ($1, $2::date, $2, $3, NULLIF($4,''))
    RETURNING id
  `, employeeID, at, status, note).Scan(&id)
	return id, err
}

func (s *Store) SetCheckOut(ctx context.Context, recordID string, at time.Time, workedMins int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET check_out = $1, worked_minutes = $2
    WHERE id = $3
  `, at, workedMins, recordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, filter Filter) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, date, check_in, check_out, status, COALESCE(worked_minutes, 0), COALESCE(note, ''), created_at
    FROM attendance_records
    WHERE employee_id = $1
      AND ($2::date IS NULL OR date >= $2::date)
      AND ($3::date IS NULL OR date <= $3::date)
    ORDER BY date DESC
    LIMIT $4 OFFSET $5
  `, filter.EmployeeID, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Summary(ctx context.Context, employeeID string, from, to time.Time) (Summary, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = 'present'),
           COUNT(1) FILTER (WHERE status = 'late'),
           COUNT(1) FILTER (WHERE status = 'absent'),
           COALESCE(SUM(worked_minutes), 0)
    FROM attendance_records
    WHERE employee_id = $1 AND date BETWEEN $2::date AND $3::date
  `, employeeID, from, to)

	summary := Summary{EmployeeID: employeeID}
	err := row.Scan(&summary.Days, &summary.Present, &summary.Late, &summary.Absent, &summary.WorkedMins)
	return summary, err
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
		&rec.Status, &rec.WorkedMins, &rec.Note, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}
