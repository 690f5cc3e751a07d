package evaluation

const (
	PeriodStatusDraft  = "draft"
	PeriodStatusActive = "active"
	PeriodStatusClosed = "closed"

	PeriodTypeMonthly   = "monthly"
	PeriodTypeQuarterly = "quarterly"
	PeriodTypeYearly    = "yearly"

	EvaluationStatusPending           = "pending"
	EvaluationStatusSubmitted         = "submitted"
	EvaluationStatusReviewed          = "reviewed"
	EvaluationStatusRevisionRequested = "revision_requested"

	CriterionTypeRating = "rating"
	CriterionTypeNumber = "number"
	CriterionTypeText   = "text"
)

// Scores use the canonical 0-100 scale everywhere; any 1-5 presentation is a
// client concern.
const (
	ScoreMin = 0
	ScoreMax = 100
)

var PeriodTypes = []string{PeriodTypeMonthly, PeriodTypeQuarterly, PeriodTypeYearly}

var CriterionTypes = []string{CriterionTypeRating, CriterionTypeNumber, CriterionTypeText}
