package core

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusOnLeave  = "on_leave"
	EmployeeStatusResigned = "resigned"
)

var EmployeeStatuses = []string{
	EmployeeStatusActive,
	EmployeeStatusOnLeave,
	EmployeeStatusResigned,
}
