package notifications

const (
	TypeEvaluationAssigned  = "evaluation_assigned"
	TypeEvaluationSubmitted = "evaluation_submitted"
	TypeEvaluationReviewed  = "evaluation_reviewed"
	TypeRevisionRequested   = "evaluation_revision_requested"
	TypeTaskAssigned        = "task_assigned"
	TypeAnnouncement        = "announcement"
	TypeTrainingEnrolled    = "training_enrolled"
	TypeMessage             = "message_received"
)
