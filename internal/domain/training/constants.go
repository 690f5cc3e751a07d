package training

const (
	StatusScheduled = "scheduled"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	EnrollmentEnrolled  = "enrolled"
	EnrollmentAttended  = "attended"
	EnrollmentWithdrawn = "withdrawn"
)
