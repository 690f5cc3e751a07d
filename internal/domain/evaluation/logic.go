package evaluation

import (
	"math"
	"time"
)

// ComputeTotalScore averages the non-null scores across the answers, rounded
// to two decimals. HR scores take priority over self scores per answer only
// when useHRScores is set. Answers with no usable score are excluded from the
// denominator; nil is returned when nothing is scored.
func ComputeTotalScore(answers []Answer, useHRScores bool) *float64 {
	sum := 0
	count := 0
	for _, a := range answers {
		score := a.SelfScore
		if useHRScores && a.HRScore != nil {
			score = a.HRScore
		}
		if score == nil {
			continue
		}
		sum += *score
		count++
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(float64(sum)/float64(count)*100) / 100
	return &avg
}

// GradeFor maps a total score to its letter band.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// ValidatePeriodDates enforces the period date invariants: end strictly after
// start, self-assessment deadline on or after start, HR deadline on or after
// the self-assessment deadline.
func ValidatePeriodDates(start, end time.Time, selfDeadline, hrDeadline *time.Time) error {
	verr := &ValidationError{}
	if start.IsZero() {
		verr.add("startDate", "is required")
	}
	if end.IsZero() {
		verr.add("endDate", "is required")
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		verr.add("endDate", "must be after startDate")
	}
	if selfDeadline != nil && !start.IsZero() && selfDeadline.Before(start) {
		verr.add("selfAssessmentDeadline", "must be on or after startDate")
	}
	if hrDeadline != nil && selfDeadline != nil && hrDeadline.Before(*selfDeadline) {
		verr.add("hrEvaluationDeadline", "must be on or after selfAssessmentDeadline")
	}
	return verr.orNil()
}

// CanTransitionPeriod reports whether a period status change is allowed.
// Periods only move forward: draft to active, active to closed.
func CanTransitionPeriod(from, to string) bool {
	switch from {
	case PeriodStatusDraft:
		return to == PeriodStatusActive
	case PeriodStatusActive:
		return to == PeriodStatusClosed
	default:
		return false
	}
}
