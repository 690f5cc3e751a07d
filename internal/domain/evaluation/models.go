package evaluation

import "time"

type Period struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	PeriodCode             string     `json:"periodCode"`
	PeriodType             string     `json:"periodType"`
	StartDate              time.Time  `json:"startDate"`
	EndDate                time.Time  `json:"endDate"`
	SelfAssessmentDeadline *time.Time `json:"selfAssessmentDeadline,omitempty"`
	HREvaluationDeadline   *time.Time `json:"hrEvaluationDeadline,omitempty"`
	Description            string     `json:"description"`
	Guidelines             string     `json:"guidelines"`
	Status                 string     `json:"status"`
	CreatedBy              string     `json:"createdBy"`
	CreatedAt              time.Time  `json:"createdAt"`
}

type Criterion struct {
	ID          string  `json:"id"`
	PeriodID    *string `json:"periodId,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	IsDefault   bool    `json:"isDefault"`
	OrderIndex  int     `json:"orderIndex"`
}

type Evaluation struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	PeriodID        string     `json:"periodId"`
	Status          string     `json:"status"`
	TotalScore      *float64   `json:"totalScore,omitempty"`
	Grade           string     `json:"grade,omitempty"`
	ManagerFeedback string     `json:"managerFeedback,omitempty"`
	ReviewerID      *string    `json:"reviewerId,omitempty"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
}

type Answer struct {
	ID           string `json:"id"`
	EvaluationID string `json:"evaluationId"`
	CriteriaID   string `json:"criteriaId"`
	SelfScore    *int   `json:"selfScore,omitempty"`
	SelfNote     string `json:"selfNote,omitempty"`
	HRScore      *int   `json:"hrScore,omitempty"`
	HRFeedback   string `json:"hrFeedback,omitempty"`
}

// PeriodInput carries the create/update payload for a period. Indicators are
// only honored on create; the bulk-creation path fixes their type to rating.
type PeriodInput struct {
	Name                   string
	PeriodCode             string
	PeriodType             string
	StartDate              time.Time
	EndDate                time.Time
	SelfAssessmentDeadline *time.Time
	HREvaluationDeadline   *time.Time
	Description            string
	Guidelines             string
	AutoCreateEvaluations  bool
	Indicators             []IndicatorInput
}

type IndicatorInput struct {
	Title       string
	Description string
	OrderIndex  int
}

type CriterionInput struct {
	Title       string
	Description string
	Type        string
	OrderIndex  int
}

// AnswerSubmission is one employee-side answer update inside a submit call.
type AnswerSubmission struct {
	ID        string
	SelfScore *int
	SelfNote  string
}

type AnswerUpdate struct {
	ID        string
	SelfScore *int
	SelfNote  string
}

type HRScoreInput struct {
	AnswerID string
	Score    *int
	Feedback string
}

// EvaluationContext is the minimal join used for workflow guards.
type EvaluationContext struct {
	ID           string
	EmployeeID   string
	PeriodID     string
	Status       string
	PeriodStatus string
}

type FanOutResult struct {
	Employees          int `json:"employees"`
	EvaluationsCreated int `json:"evaluationsCreated"`
	AnswersCreated     int `json:"answersCreated"`
}

type ReviewUpdate struct {
	EvaluationID string
	ReviewerID   string
	Feedback     string
	TotalScore   float64
	Grade        string
	ReviewedAt   time.Time
	HRScores     []HRScoreInput
}
