package core

import (
	"context"
	"strings"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	return s.store.GetEmployeeByUserID(ctx, userID)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) CreateEmployee(ctx context.Context, input EmployeeInput) (string, error) {
	input.Status = normalizeStatus(input.Status)
	if err := s.checkUnique(ctx, input, ""); err != nil {
		return "", err
	}
	return s.store.CreateEmployee(ctx, input)
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID string, input EmployeeInput) error {
	input.Status = normalizeStatus(input.Status)
	if err := s.checkUnique(ctx, input, employeeID); err != nil {
		return err
	}
	return s.store.UpdateEmployee(ctx, employeeID, input)
}

func (s *Service) DeleteEmployee(ctx context.Context, employeeID string) error {
	return s.store.DeleteEmployee(ctx, employeeID)
}

func (s *Service) checkUnique(ctx context.Context, input EmployeeInput, excludeID string) error {
	if taken, err := s.store.EmployeeNumberExists(ctx, input.EmployeeNumber, excludeID); err != nil {
		return err
	} else if taken {
		return ErrEmployeeNumberTaken
	}
	if taken, err := s.store.EmployeeEmailExists(ctx, input.Email, excludeID); err != nil {
		return err
	} else if taken {
		return ErrEmailTaken
	}
	return nil
}

func normalizeStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	for _, known := range EmployeeStatuses {
		if status == known {
			return status
		}
	}
	return EmployeeStatusActive
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, dep Department) (string, error) {
	return s.store.CreateDepartment(ctx, dep)
}

func (s *Service) UpdateDepartment(ctx context.Context, departmentID string, dep Department) error {
	return s.store.UpdateDepartment(ctx, departmentID, dep)
}

func (s *Service) DeleteDepartment(ctx context.Context, departmentID string) error {
	hasEmployees, err := s.store.DepartmentHasEmployees(ctx, departmentID)
	if err != nil {
		return err
	}
	if hasEmployees {
		return ErrDepartmentHasEmployees
	}
	return s.store.DeleteDepartment(ctx, departmentID)
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, userID)
}
