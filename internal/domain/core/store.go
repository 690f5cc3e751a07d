package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id,
    COALESCE(user_id::text, ''),
    employee_number,
    first_name, last_name, email,
    COALESCE(phone, ''),
    COALESCE(position, ''),
    COALESCE(department_id::text, ''),
    COALESCE(manager_id::text, ''),
    hire_date, end_date, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Phone, &emp.Position, &emp.DepartmentID, &emp.ManagerID,
		&emp.HireDate, &emp.EndDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, employeeID)
	return scanEmployee(row)
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE user_id = $1
  `, userID)
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		where = append(where, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args), len(args)))
	}
	args = append(args, filter.Limit, filter.Offset)
	limitPos := len(args) - 1
	offsetPos := len(args)

	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT%s
    FROM employees
    WHERE %s
    ORDER BY last_name, first_name
    LIMIT $%d OFFSET $%d
  `, employeeColumns, strings.Join(where, " AND "), limitPos, offsetPos), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, input EmployeeInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, first_name, last_name, email, phone, position, department_id, manager_id, hire_date, end_date, status)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, $5, NULLIF($6,''), NULLIF($7,''), NULLIF($8,'')::uuid, NULLIF($9,'')::uuid, $10, $11, $12)
    RETURNING id
  `, input.UserID, input.EmployeeNumber, input.FirstName, input.LastName, input.Email,
		input.Phone, input.Position, input.DepartmentID, input.ManagerID,
		input.HireDate, input.EndDate, input.Status).Scan(&id)
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, input EmployeeInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET employee_number = $1, first_name = $2, last_name = $3, email = $4,
        phone = NULLIF($5,''), position = NULLIF($6,''),
        department_id = NULLIF($7,'')::uuid, manager_id = NULLIF($8,'')::uuid,
        hire_date = $9, end_date = $10, status = $11, updated_at = now()
    WHERE id = $12
  `, input.EmployeeNumber, input.FirstName, input.LastName, input.Email,
		input.Phone, input.Position, input.DepartmentID, input.ManagerID,
		input.HireDate, input.EndDate, input.Status, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM employees WHERE id = $1`, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) EmployeeNumberExists(ctx context.Context, number, excludeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE employee_number = $1 AND id::text <> $2
  `, number, excludeID).Scan(&count)
	return count > 0, err
}

func (s *Store) EmployeeEmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE email = $1 AND id::text <> $2
  `, email, excludeID).Scan(&count)
	return count > 0, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, ''), COALESCE(manager_id::text, '')
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.Description, &dep.ManagerID); err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, dep Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, manager_id)
    VALUES ($1, NULLIF($2,''), NULLIF($3,'')::uuid)
    RETURNING id
  `, dep.Name, dep.Description, dep.ManagerID).Scan(&id)
	return id, err
}

func (s *Store) UpdateDepartment(ctx context.Context, departmentID string, dep Department) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments
    SET name = $1, description = NULLIF($2,''), manager_id = NULLIF($3,'')::uuid, updated_at = now()
    WHERE id = $4
  `, dep.Name, dep.Description, dep.ManagerID, departmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DepartmentHasEmployees(ctx context.Context, departmentID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE department_id = $1
  `, departmentID).Scan(&count)
	return count > 0, err
}

func (s *Store) DeleteDepartment(ctx context.Context, departmentID string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM departments WHERE id = $1`, departmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `SELECT id FROM employees WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}
