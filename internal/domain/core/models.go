package core

import "time"

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId,omitempty"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Position       string     `json:"position,omitempty"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	ManagerID      string     `json:"managerId,omitempty"`
	HireDate       time.Time  `json:"hireDate"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ManagerID   string `json:"managerId,omitempty"`
}

type EmployeeInput struct {
	UserID         string
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Position       string
	DepartmentID   string
	ManagerID      string
	HireDate       time.Time
	EndDate        *time.Time
	Status         string
}

type EmployeeFilter struct {
	DepartmentID string
	Status       string
	Search       string
	Limit        int
	Offset       int
}
