package core

import "errors"

var (
	ErrNotFound               = errors.New("record not found")
	ErrEmployeeNumberTaken    = errors.New("employee number already in use")
	ErrEmailTaken             = errors.New("email already in use")
	ErrDepartmentHasEmployees = errors.New("department still has employees")
)
