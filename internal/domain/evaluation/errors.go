package evaluation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("evaluation record not found")
	ErrForbidden       = errors.New("forbidden")
	ErrPeriodNotDraft  = errors.New("can only modify criteria in draft periods")
	ErrPeriodNotActive = errors.New("period is not active")
	ErrPeriodClosed    = errors.New("period is closed")
	ErrNoCriteria      = errors.New("period has no criteria")
	ErrAlreadyReviewed = errors.New("evaluation already reviewed")
	ErrNotSubmitted    = errors.New("evaluation has not been submitted")
	ErrNoScoredAnswers = errors.New("evaluation has no scored answers")
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every per-field problem in a payload so the
// caller sees all of them at once instead of the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
