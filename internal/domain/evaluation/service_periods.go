package evaluation

import (
	"context"
	"strconv"
	"strings"
)

// CreatePeriod validates and creates a draft period with its bundled
// indicator criteria. When AutoCreateEvaluations is set the period is opened
// immediately, which fans evaluations out to the roster.
func (s *Service) CreatePeriod(ctx context.Context, input PeriodInput, createdBy string) (string, *FanOutResult, error) {
	if err := s.validatePeriodInput(ctx, input, ""); err != nil {
		return "", nil, err
	}

	id, err := s.store.CreatePeriodWithCriteria(ctx, input, createdBy)
	if err != nil {
		return "", nil, err
	}

	if !input.AutoCreateEvaluations {
		return id, nil, nil
	}

	result, err := s.OpenPeriod(ctx, id)
	if err != nil {
		// The draft still exists; the caller gets its id so the period can be
		// fixed up and opened explicitly.
		return id, nil, err
	}
	return id, &result, nil
}

func (s *Service) PeriodByID(ctx context.Context, periodID string) (Period, error) {
	return s.store.PeriodByID(ctx, periodID)
}

func (s *Service) ListPeriods(ctx context.Context, limit, offset int) ([]Period, error) {
	return s.store.ListPeriods(ctx, limit, offset)
}

func (s *Service) UpdatePeriod(ctx context.Context, periodID string, input PeriodInput) error {
	period, err := s.store.PeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status != PeriodStatusDraft {
		return ErrPeriodNotDraft
	}
	if err := s.validatePeriodInput(ctx, input, period.PeriodCode); err != nil {
		return err
	}
	return s.store.UpdatePeriod(ctx, periodID, input)
}

func (s *Service) DeletePeriod(ctx context.Context, periodID string) error {
	period, err := s.store.PeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status != PeriodStatusDraft {
		return ErrPeriodNotDraft
	}
	return s.store.DeletePeriod(ctx, periodID)
}

// OpenPeriod moves a draft period to active and fans out one evaluation per
// roster employee with one answer per criterion, all in one transaction.
func (s *Service) OpenPeriod(ctx context.Context, periodID string) (FanOutResult, error) {
	period, err := s.store.PeriodByID(ctx, periodID)
	if err != nil {
		return FanOutResult{}, err
	}
	if !CanTransitionPeriod(period.Status, PeriodStatusActive) {
		return FanOutResult{}, ErrPeriodNotDraft
	}

	criteriaIDs, err := s.store.CriterionIDs(ctx, periodID)
	if err != nil {
		return FanOutResult{}, err
	}
	if len(criteriaIDs) == 0 {
		return FanOutResult{}, ErrNoCriteria
	}

	return s.fanOut(ctx, periodID, criteriaIDs, true)
}

func (s *Service) ClosePeriod(ctx context.Context, periodID string) error {
	period, err := s.store.PeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if !CanTransitionPeriod(period.Status, PeriodStatusClosed) {
		return ErrPeriodNotActive
	}
	return s.store.UpdatePeriodStatus(ctx, periodID, PeriodStatusClosed)
}

// BackfillPeriod re-runs the fan-out for an active period, covering employees
// added after the period opened. The upsert keys make it idempotent.
func (s *Service) BackfillPeriod(ctx context.Context, periodID string) (FanOutResult, error) {
	period, err := s.store.PeriodByID(ctx, periodID)
	if err != nil {
		return FanOutResult{}, err
	}
	if period.Status != PeriodStatusActive {
		return FanOutResult{}, ErrPeriodNotActive
	}

	criteriaIDs, err := s.store.CriterionIDs(ctx, periodID)
	if err != nil {
		return FanOutResult{}, err
	}
	return s.fanOut(ctx, periodID, criteriaIDs, false)
}

func (s *Service) fanOut(ctx context.Context, periodID string, criteriaIDs []string, activate bool) (FanOutResult, error) {
	employeeIDs, err := s.store.RosterEmployeeIDs(ctx, s.rosterStatuses)
	if err != nil {
		return FanOutResult{}, err
	}
	return s.store.FanOutEvaluations(ctx, periodID, employeeIDs, criteriaIDs, activate)
}

func (s *Service) AddCriterion(ctx context.Context, periodID string, input CriterionInput) (string, error) {
	if err := s.requireDraft(ctx, periodID); err != nil {
		return "", err
	}
	if err := validateCriterionInput(input); err != nil {
		return "", err
	}
	return s.store.CreateCriterion(ctx, periodID, input)
}

func (s *Service) UpdateCriterion(ctx context.Context, periodID, criterionID string, input CriterionInput) error {
	if err := s.requireDraft(ctx, periodID); err != nil {
		return err
	}
	if err := validateCriterionInput(input); err != nil {
		return err
	}
	return s.store.UpdateCriterion(ctx, periodID, criterionID, input)
}

func (s *Service) DeleteCriterion(ctx context.Context, periodID, criterionID string) error {
	if err := s.requireDraft(ctx, periodID); err != nil {
		return err
	}
	return s.store.DeleteCriterion(ctx, periodID, criterionID)
}

func (s *Service) ListCriteria(ctx context.Context, periodID string) ([]Criterion, error) {
	return s.store.ListCriteria(ctx, periodID)
}

func (s *Service) requireDraft(ctx context.Context, periodID string) error {
	period, err := s.store.PeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status != PeriodStatusDraft {
		return ErrPeriodNotDraft
	}
	return nil
}

func (s *Service) validatePeriodInput(ctx context.Context, input PeriodInput, currentCode string) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "is required")
	}
	if strings.TrimSpace(input.PeriodCode) == "" {
		verr.add("periodCode", "is required")
	}
	if !validPeriodType(input.PeriodType) {
		verr.add("periodType", "must be one of monthly, quarterly, yearly")
	}

	if dateErr := ValidatePeriodDates(input.StartDate, input.EndDate, input.SelfAssessmentDeadline, input.HREvaluationDeadline); dateErr != nil {
		verr.Fields = append(verr.Fields, dateErr.(*ValidationError).Fields...)
	}

	if input.PeriodCode != "" && input.PeriodCode != currentCode {
		taken, err := s.store.PeriodCodeExists(ctx, input.PeriodCode)
		if err != nil {
			return err
		}
		if taken {
			verr.add("periodCode", "is already in use")
		}
	}

	for i, indicator := range input.Indicators {
		if strings.TrimSpace(indicator.Title) == "" {
			verr.add(indicatorField(i, "title"), "is required")
		}
	}

	return verr.orNil()
}

func validateCriterionInput(input CriterionInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		verr.add("title", "is required")
	}
	if !validCriterionType(input.Type) {
		verr.add("type", "must be one of rating, number, text")
	}
	return verr.orNil()
}

func validPeriodType(value string) bool {
	for _, t := range PeriodTypes {
		if value == t {
			return true
		}
	}
	return false
}

func validCriterionType(value string) bool {
	for _, t := range CriterionTypes {
		if value == t {
			return true
		}
	}
	return false
}

func indicatorField(index int, name string) string {
	return "indicators[" + strconv.Itoa(index) + "]." + name
}
