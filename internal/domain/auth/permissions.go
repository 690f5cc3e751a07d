package auth

const (
	RoleAdmin = "admin"
	RoleHR    = "hr"
	RoleStaff = "staff"
)

const (
	PermEmployeesRead     = "core.employees.read"
	PermEmployeesWrite    = "core.employees.write"
	PermAttendanceRead    = "attendance.read"
	PermAttendanceWrite   = "attendance.write"
	PermTasksRead         = "tasks.read"
	PermTasksWrite        = "tasks.write"
	PermTasksAssign       = "tasks.assign"
	PermTrainingRead      = "training.read"
	PermTrainingWrite     = "training.write"
	PermEvaluationsRead   = "evaluations.read"
	PermEvaluationsWrite  = "evaluations.write"
	PermEvaluationsManage = "evaluations.manage"
	PermEvaluationsReview = "evaluations.review"
	PermAnnouncementsRead = "announcements.read"
	PermAnnouncementsPost = "announcements.post"
	PermMessagesUse       = "messages.use"
	PermReportsRead       = "reports.read"
	PermReportsExport     = "reports.export"
	PermAuditRead         = "audit.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermTasksRead,
	PermTasksWrite,
	PermTasksAssign,
	PermTrainingRead,
	PermTrainingWrite,
	PermEvaluationsRead,
	PermEvaluationsWrite,
	PermEvaluationsManage,
	PermEvaluationsReview,
	PermAnnouncementsRead,
	PermAnnouncementsPost,
	PermMessagesUse,
	PermReportsRead,
	PermReportsExport,
	PermAuditRead,
}

// RolePermissions is the single place role tiers are mapped to capabilities.
// Handlers never test role names directly; they gate routes through
// middleware.RequirePermission, which consults this catalog via the store.
var RolePermissions = map[string][]string{
	RoleStaff: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermTasksRead,
		PermTasksWrite,
		PermTrainingRead,
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermAnnouncementsRead,
		PermMessagesUse,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermTasksRead,
		PermTasksWrite,
		PermTasksAssign,
		PermTrainingRead,
		PermTrainingWrite,
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermEvaluationsManage,
		PermEvaluationsReview,
		PermAnnouncementsRead,
		PermAnnouncementsPost,
		PermMessagesUse,
		PermReportsRead,
		PermReportsExport,
	},
	RoleAdmin: DefaultPermissions,
}
