package evaluation

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreatePeriodWithCriteria(ctx context.Context, input PeriodInput, createdBy string) (string, error)
	PeriodByID(ctx context.Context, periodID string) (Period, error)
	ListPeriods(ctx context.Context, limit, offset int) ([]Period, error)
	PeriodCodeExists(ctx context.Context, code string) (bool, error)
	UpdatePeriod(ctx context.Context, periodID string, input PeriodInput) error
	DeletePeriod(ctx context.Context, periodID string) error
	UpdatePeriodStatus(ctx context.Context, periodID, status string) error

	CreateCriterion(ctx context.Context, periodID string, input CriterionInput) (string, error)
	UpdateCriterion(ctx context.Context, periodID, criterionID string, input CriterionInput) error
	DeleteCriterion(ctx context.Context, periodID, criterionID string) error
	ListCriteria(ctx context.Context, periodID string) ([]Criterion, error)
	ListDefaultCriteria(ctx context.Context) ([]Criterion, error)
	CriterionIDs(ctx context.Context, periodID string) ([]string, error)

	RosterEmployeeIDs(ctx context.Context, statuses []string) ([]string, error)
	FanOutEvaluations(ctx context.Context, periodID string, employeeIDs, criteriaIDs []string, activate bool) (FanOutResult, error)

	EvaluationByID(ctx context.Context, evaluationID string) (Evaluation, error)
	EvaluationContext(ctx context.Context, evaluationID string) (EvaluationContext, error)
	ListEvaluationsByPeriod(ctx context.Context, periodID string) ([]Evaluation, error)
	ListEvaluationsForEmployee(ctx context.Context, employeeID string) ([]Evaluation, error)
	AnswersByEvaluation(ctx context.Context, evaluationID string) ([]Answer, error)
	SubmitSelfAssessment(ctx context.Context, evaluationID string, updates []AnswerUpdate, submittedAt time.Time) error
	ReviewEvaluation(ctx context.Context, review ReviewUpdate) error
	RequestRevision(ctx context.Context, evaluationID, reviewerID, feedback string) error

	EmployeeIDByUserID(ctx context.Context, userID string) (string, error)
	UserIDByEmployeeID(ctx context.Context, employeeID string) (string, error)
}
