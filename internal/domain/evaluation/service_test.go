package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
)

type memEmployee struct {
	ID     string
	UserID string
	Status string
}

// memStore is an in-memory StoreAPI used to exercise the workflow rules
// without a database.
type memStore struct {
	seq         int
	periods     map[string]*Period
	criteria    map[string]*Criterion
	evaluations map[string]*Evaluation
	answers     map[string]*Answer
	employees   []memEmployee
	fanOutErr   error
}

func newMemStore(employees ...memEmployee) *memStore {
	return &memStore{
		periods:     map[string]*Period{},
		criteria:    map[string]*Criterion{},
		evaluations: map[string]*Evaluation{},
		answers:     map[string]*Answer{},
		employees:   employees,
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) CreatePeriodWithCriteria(_ context.Context, input PeriodInput, createdBy string) (string, error) {
	id := m.nextID("period")
	m.periods[id] = &Period{
		ID:                     id,
		Name:                   input.Name,
		PeriodCode:             input.PeriodCode,
		PeriodType:             input.PeriodType,
		StartDate:              input.StartDate,
		EndDate:                input.EndDate,
		SelfAssessmentDeadline: input.SelfAssessmentDeadline,
		HREvaluationDeadline:   input.HREvaluationDeadline,
		Description:            input.Description,
		Guidelines:             input.Guidelines,
		Status:                 PeriodStatusDraft,
		CreatedBy:              createdBy,
		CreatedAt:              time.Now(),
	}
	for _, indicator := range input.Indicators {
		cid := m.nextID("criterion")
		periodID := id
		m.criteria[cid] = &Criterion{
			ID:         cid,
			PeriodID:   &periodID,
			Title:      indicator.Title,
			Type:       CriterionTypeRating,
			OrderIndex: indicator.OrderIndex,
		}
	}
	return id, nil
}

func (m *memStore) PeriodByID(_ context.Context, periodID string) (Period, error) {
	p, ok := m.periods[periodID]
	if !ok {
		return Period{}, ErrNotFound
	}
	return *p, nil
}

func (m *memStore) ListPeriods(_ context.Context, limit, offset int) ([]Period, error) {
	var out []Period
	for _, p := range m.periods {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) PeriodCodeExists(_ context.Context, code string) (bool, error) {
	for _, p := range m.periods {
		if p.PeriodCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdatePeriod(_ context.Context, periodID string, input PeriodInput) error {
	p, ok := m.periods[periodID]
	if !ok {
		return ErrNotFound
	}
	p.Name = input.Name
	p.PeriodCode = input.PeriodCode
	p.PeriodType = input.PeriodType
	p.StartDate = input.StartDate
	p.EndDate = input.EndDate
	p.SelfAssessmentDeadline = input.SelfAssessmentDeadline
	p.HREvaluationDeadline = input.HREvaluationDeadline
	p.Description = input.Description
	p.Guidelines = input.Guidelines
	return nil
}

func (m *memStore) DeletePeriod(_ context.Context, periodID string) error {
	if _, ok := m.periods[periodID]; !ok {
		return ErrNotFound
	}
	delete(m.periods, periodID)
	return nil
}

func (m *memStore) UpdatePeriodStatus(_ context.Context, periodID, status string) error {
	p, ok := m.periods[periodID]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *memStore) CreateCriterion(_ context.Context, periodID string, input CriterionInput) (string, error) {
	id := m.nextID("criterion")
	m.criteria[id] = &Criterion{
		ID:          id,
		PeriodID:    &periodID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		OrderIndex:  input.OrderIndex,
	}
	return id, nil
}

func (m *memStore) UpdateCriterion(_ context.Context, periodID, criterionID string, input CriterionInput) error {
	c, ok := m.criteria[criterionID]
	if !ok || c.PeriodID == nil || *c.PeriodID != periodID {
		return ErrNotFound
	}
	c.Title = input.Title
	c.Description = input.Description
	c.Type = input.Type
	c.OrderIndex = input.OrderIndex
	return nil
}

func (m *memStore) DeleteCriterion(_ context.Context, periodID, criterionID string) error {
	c, ok := m.criteria[criterionID]
	if !ok || c.PeriodID == nil || *c.PeriodID != periodID {
		return ErrNotFound
	}
	delete(m.criteria, criterionID)
	return nil
}

func (m *memStore) ListCriteria(_ context.Context, periodID string) ([]Criterion, error) {
	var out []Criterion
	for _, c := range m.criteria {
		if c.PeriodID != nil && *c.PeriodID == periodID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *memStore) ListDefaultCriteria(_ context.Context) ([]Criterion, error) {
	var out []Criterion
	for _, c := range m.criteria {
		if c.PeriodID == nil && c.IsDefault {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) CriterionIDs(ctx context.Context, periodID string) ([]string, error) {
	criteria, _ := m.ListCriteria(ctx, periodID)
	ids := make([]string, 0, len(criteria))
	for _, c := range criteria {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (m *memStore) RosterEmployeeIDs(_ context.Context, statuses []string) ([]string, error) {
	allowed := map[string]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	var ids []string
	for _, e := range m.employees {
		if allowed[e.Status] {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

func (m *memStore) FanOutEvaluations(_ context.Context, periodID string, employeeIDs, criteriaIDs []string, activate bool) (FanOutResult, error) {
	if m.fanOutErr != nil {
		return FanOutResult{}, m.fanOutErr
	}
	if activate {
		p, ok := m.periods[periodID]
		if !ok {
			return FanOutResult{}, ErrNotFound
		}
		if p.Status != PeriodStatusDraft {
			return FanOutResult{}, ErrPeriodNotDraft
		}
		p.Status = PeriodStatusActive
	}
	result := FanOutResult{Employees: len(employeeIDs)}
	for _, employeeID := range employeeIDs {
		var evaluationID string
		for _, e := range m.evaluations {
			if e.EmployeeID == employeeID && e.PeriodID == periodID {
				evaluationID = e.ID
				break
			}
		}
		if evaluationID == "" {
			evaluationID = m.nextID("eval")
			m.evaluations[evaluationID] = &Evaluation{
				ID:         evaluationID,
				EmployeeID: employeeID,
				PeriodID:   periodID,
				Status:     EvaluationStatusPending,
			}
			result.EvaluationsCreated++
		}
		for _, criterionID := range criteriaIDs {
			exists := false
			for _, a := range m.answers {
				if a.EvaluationID == evaluationID && a.CriteriaID == criterionID {
					exists = true
					break
				}
			}
			if exists {
				continue
			}
			aid := m.nextID("answer")
			m.answers[aid] = &Answer{ID: aid, EvaluationID: evaluationID, CriteriaID: criterionID}
			result.AnswersCreated++
		}
	}
	return result, nil
}

func (m *memStore) EvaluationByID(_ context.Context, evaluationID string) (Evaluation, error) {
	e, ok := m.evaluations[evaluationID]
	if !ok {
		return Evaluation{}, ErrNotFound
	}
	return *e, nil
}

func (m *memStore) EvaluationContext(_ context.Context, evaluationID string) (EvaluationContext, error) {
	e, ok := m.evaluations[evaluationID]
	if !ok {
		return EvaluationContext{}, ErrNotFound
	}
	p, ok := m.periods[e.PeriodID]
	if !ok {
		return EvaluationContext{}, ErrNotFound
	}
	return EvaluationContext{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		PeriodID:     e.PeriodID,
		Status:       e.Status,
		PeriodStatus: p.Status,
	}, nil
}

func (m *memStore) ListEvaluationsByPeriod(_ context.Context, periodID string) ([]Evaluation, error) {
	var out []Evaluation
	for _, e := range m.evaluations {
		if e.PeriodID == periodID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListEvaluationsForEmployee(_ context.Context, employeeID string) ([]Evaluation, error) {
	var out []Evaluation
	for _, e := range m.evaluations {
		if e.EmployeeID == employeeID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) AnswersByEvaluation(_ context.Context, evaluationID string) ([]Answer, error) {
	var out []Answer
	for _, a := range m.answers {
		if a.EvaluationID == evaluationID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SubmitSelfAssessment(_ context.Context, evaluationID string, updates []AnswerUpdate, submittedAt time.Time) error {
	e, ok := m.evaluations[evaluationID]
	if !ok {
		return ErrNotFound
	}
	for _, update := range updates {
		a, ok := m.answers[update.ID]
		if !ok || a.EvaluationID != evaluationID {
			continue
		}
		a.SelfScore = update.SelfScore
		a.SelfNote = update.SelfNote
	}
	e.Status = EvaluationStatusSubmitted
	at := submittedAt
	e.SubmittedAt = &at
	return nil
}

func (m *memStore) ReviewEvaluation(_ context.Context, review ReviewUpdate) error {
	e, ok := m.evaluations[review.EvaluationID]
	if !ok {
		return ErrNotFound
	}
	for _, hr := range review.HRScores {
		if a, ok := m.answers[hr.AnswerID]; ok && a.EvaluationID == review.EvaluationID {
			a.HRScore = hr.Score
			a.HRFeedback = hr.Feedback
		}
	}
	e.Status = EvaluationStatusReviewed
	score := review.TotalScore
	e.TotalScore = &score
	e.Grade = review.Grade
	e.ManagerFeedback = review.Feedback
	reviewer := review.ReviewerID
	e.ReviewerID = &reviewer
	at := review.ReviewedAt
	e.ReviewedAt = &at
	return nil
}

func (m *memStore) RequestRevision(_ context.Context, evaluationID, reviewerID, feedback string) error {
	e, ok := m.evaluations[evaluationID]
	if !ok {
		return ErrNotFound
	}
	e.Status = EvaluationStatusRevisionRequested
	e.ManagerFeedback = feedback
	reviewer := reviewerID
	e.ReviewerID = &reviewer
	return nil
}

func (m *memStore) EmployeeIDByUserID(_ context.Context, userID string) (string, error) {
	for _, e := range m.employees {
		if e.UserID == userID {
			return e.ID, nil
		}
	}
	return "", ErrNotFound
}

func (m *memStore) UserIDByEmployeeID(_ context.Context, employeeID string) (string, error) {
	for _, e := range m.employees {
		if e.ID == employeeID {
			return e.UserID, nil
		}
	}
	return "", ErrNotFound
}

func quarterInput(code string) PeriodInput {
	return PeriodInput{
		Name:       "Quarter One",
		PeriodCode: code,
		PeriodType: PeriodTypeQuarterly,
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Indicators: []IndicatorInput{
			{Title: "Quality", OrderIndex: 1},
			{Title: "Teamwork", OrderIndex: 2},
		},
	}
}

func activeRoster(n int) []memEmployee {
	var out []memEmployee
	for i := 1; i <= n; i++ {
		out = append(out, memEmployee{
			ID:     fmt.Sprintf("emp-%d", i),
			UserID: fmt.Sprintf("user-%d", i),
			Status: "active",
		})
	}
	return out
}

func TestOpenPeriodFansOutEvaluations(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(3)...)
	svc := NewService(store)

	id, _, err := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	if err != nil {
		t.Fatalf("create period: %v", err)
	}

	result, err := svc.OpenPeriod(ctx, id)
	if err != nil {
		t.Fatalf("open period: %v", err)
	}
	if result.EvaluationsCreated != 3 {
		t.Fatalf("expected 3 evaluations, got %d", result.EvaluationsCreated)
	}
	if result.AnswersCreated != 6 {
		t.Fatalf("expected 6 answers, got %d", result.AnswersCreated)
	}

	evaluations, _ := svc.ListEvaluationsByPeriod(ctx, id)
	for _, e := range evaluations {
		if e.Status != EvaluationStatusPending {
			t.Fatalf("expected pending evaluation, got %s", e.Status)
		}
		answers, _ := svc.AnswersByEvaluation(ctx, e.ID)
		for _, a := range answers {
			if a.SelfScore != nil {
				t.Fatalf("expected null self score, got %v", *a.SelfScore)
			}
		}
	}
}

func TestOpenPeriodRequiresCriteria(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)

	input := quarterInput("Q1-2025")
	input.Indicators = nil
	id, _, err := svc.CreatePeriod(ctx, input, "admin-1")
	if err != nil {
		t.Fatalf("create period: %v", err)
	}

	if _, err := svc.OpenPeriod(ctx, id); !errors.Is(err, ErrNoCriteria) {
		t.Fatalf("expected ErrNoCriteria, got %v", err)
	}
}

func TestRosterFilterSkipsResignedEmployees(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(
		memEmployee{ID: "emp-1", Status: "active"},
		memEmployee{ID: "emp-2", Status: "resigned"},
		memEmployee{ID: "emp-3", Status: "active"},
	)
	svc := NewService(store)

	id, _, err := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	if err != nil {
		t.Fatalf("create period: %v", err)
	}
	result, err := svc.OpenPeriod(ctx, id)
	if err != nil {
		t.Fatalf("open period: %v", err)
	}
	if result.EvaluationsCreated != 2 {
		t.Fatalf("expected 2 evaluations for active employees, got %d", result.EvaluationsCreated)
	}
}

func TestAutoCreateEvaluationsOpensPeriod(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(2)...)
	svc := NewService(store)

	input := quarterInput("Q1-2025")
	input.AutoCreateEvaluations = true
	id, result, err := svc.CreatePeriod(ctx, input, "admin-1")
	if err != nil {
		t.Fatalf("create period: %v", err)
	}
	if result == nil || result.EvaluationsCreated != 2 {
		t.Fatalf("expected auto fan-out for 2 employees, got %+v", result)
	}
	period, _ := svc.PeriodByID(ctx, id)
	if period.Status != PeriodStatusActive {
		t.Fatalf("expected active period, got %s", period.Status)
	}
}

func TestOpenPeriodFanOutFailureLeavesDraft(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(2)...)
	svc := NewService(store)

	id, _, err := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	if err != nil {
		t.Fatalf("create period: %v", err)
	}

	store.fanOutErr = errors.New("insert failed")
	if _, err := svc.OpenPeriod(ctx, id); err == nil {
		t.Fatal("expected fan-out error")
	}
	period, _ := svc.PeriodByID(ctx, id)
	if period.Status != PeriodStatusDraft {
		t.Fatalf("expected period to stay draft after failed fan-out, got %s", period.Status)
	}

	store.fanOutErr = nil
	result, err := svc.OpenPeriod(ctx, id)
	if err != nil {
		t.Fatalf("reopen after failure: %v", err)
	}
	if result.EvaluationsCreated != 2 {
		t.Fatalf("expected 2 evaluations, got %d", result.EvaluationsCreated)
	}
}

func TestCreatePeriodReturnsIDWhenAutoOpenFails(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)

	input := quarterInput("Q1-2025")
	input.AutoCreateEvaluations = true
	input.Indicators = nil
	id, result, err := svc.CreatePeriod(ctx, input, "admin-1")
	if !errors.Is(err, ErrNoCriteria) {
		t.Fatalf("expected ErrNoCriteria, got %v", err)
	}
	if id == "" {
		t.Fatal("expected the draft id alongside the error")
	}
	if result != nil {
		t.Fatalf("expected no fan-out result, got %+v", result)
	}
	period, err := svc.PeriodByID(ctx, id)
	if err != nil {
		t.Fatalf("draft should persist: %v", err)
	}
	if period.Status != PeriodStatusDraft {
		t.Fatalf("expected draft, got %s", period.Status)
	}
}

func TestCreatePeriodRejectsDuplicateCode(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)

	if _, _, err := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1"); err != nil {
		t.Fatalf("create period: %v", err)
	}
	_, _, err := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreatePeriodRejectsEndEqualStart(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	input := quarterInput("Q1-2025")
	input.EndDate = input.StartDate
	_, _, err := svc.CreatePeriod(ctx, input, "admin-1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestClosePeriodIdempotenceGuard(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)

	id, _, _ := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	if _, err := svc.OpenPeriod(ctx, id); err != nil {
		t.Fatalf("open period: %v", err)
	}
	if err := svc.ClosePeriod(ctx, id); err != nil {
		t.Fatalf("close period: %v", err)
	}
	if err := svc.ClosePeriod(ctx, id); !errors.Is(err, ErrPeriodNotActive) {
		t.Fatalf("expected ErrPeriodNotActive on second close, got %v", err)
	}
	period, _ := svc.PeriodByID(ctx, id)
	if period.Status != PeriodStatusClosed {
		t.Fatalf("expected closed period, got %s", period.Status)
	}
}

func TestCriteriaLockedOutsideDraft(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)

	id, _, _ := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	if _, err := svc.OpenPeriod(ctx, id); err != nil {
		t.Fatalf("open period: %v", err)
	}

	_, err := svc.AddCriterion(ctx, id, CriterionInput{Title: "Late", Type: CriterionTypeRating})
	if !errors.Is(err, ErrPeriodNotDraft) {
		t.Fatalf("expected ErrPeriodNotDraft, got %v", err)
	}
}

func TestBackfillCoversNewEmployees(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(2)...)
	svc := NewService(store)

	id, _, _ := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	if _, err := svc.OpenPeriod(ctx, id); err != nil {
		t.Fatalf("open period: %v", err)
	}

	store.employees = append(store.employees, memEmployee{ID: "emp-3", UserID: "user-3", Status: "active"})

	result, err := svc.BackfillPeriod(ctx, id)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if result.EvaluationsCreated != 1 || result.AnswersCreated != 2 {
		t.Fatalf("expected 1 evaluation and 2 answers for the new hire, got %+v", result)
	}

	again, err := svc.BackfillPeriod(ctx, id)
	if err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	if again.EvaluationsCreated != 0 || again.AnswersCreated != 0 {
		t.Fatalf("expected idempotent backfill, got %+v", again)
	}
}

func openedEvaluation(t *testing.T, svc *Service, store *memStore) (string, []Answer) {
	t.Helper()
	ctx := context.Background()
	id, _, err := svc.CreatePeriod(ctx, quarterInput("Q1-2025"), "admin-1")
	if err != nil {
		t.Fatalf("create period: %v", err)
	}
	if _, err := svc.OpenPeriod(ctx, id); err != nil {
		t.Fatalf("open period: %v", err)
	}
	evaluations, _ := svc.ListEvaluationsByPeriod(ctx, id)
	if len(evaluations) == 0 {
		t.Fatal("expected at least one evaluation")
	}
	answers, _ := svc.AnswersByEvaluation(ctx, evaluations[0].ID)
	return evaluations[0].ID, answers
}

func TestSubmitSelfAssessment(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(80), SelfNote: "steady quarter"},
		{ID: answers[1].ID, SelfScore: intPtr(90)},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	evaluation, _ := svc.EvaluationByID(ctx, evalID)
	if evaluation.Status != EvaluationStatusSubmitted {
		t.Fatalf("expected submitted, got %s", evaluation.Status)
	}
	if evaluation.SubmittedAt == nil {
		t.Fatal("expected submitted_at to be set")
	}

	saved, _ := svc.AnswersByEvaluation(ctx, evalID)
	scores := map[int]bool{}
	for _, a := range saved {
		if a.SelfScore != nil {
			scores[*a.SelfScore] = true
		}
	}
	if !scores[80] || !scores[90] {
		t.Fatalf("expected both self scores persisted, got %+v", saved)
	}
}

func TestSubmitRejectsForeignAnswer(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(80)},
		{ID: "answer-from-elsewhere", SelfScore: intPtr(50)},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for foreign answer, got %v", err)
	}

	evaluation, _ := svc.EvaluationByID(ctx, evalID)
	if evaluation.Status != EvaluationStatusPending {
		t.Fatalf("expected evaluation untouched, got %s", evaluation.Status)
	}
}

func TestSubmitRejectsOutOfRangeScore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(101)},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for out-of-range score, got %v", err)
	}
}

func TestSubmitRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(2)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	err := svc.SubmitSelfAssessment(ctx, evalID, "emp-2", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(80)},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestApproveComputesScoreAndGrade(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	if err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(80)},
		{ID: answers[1].ID, SelfScore: intPtr(90)},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	evaluation, err := svc.Approve(ctx, evalID, "hr-1", "solid quarter", nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if evaluation.Status != EvaluationStatusReviewed {
		t.Fatalf("expected reviewed, got %s", evaluation.Status)
	}
	if evaluation.TotalScore == nil || *evaluation.TotalScore != 85.00 {
		t.Fatalf("expected total score 85.00, got %v", evaluation.TotalScore)
	}
	if evaluation.Grade != "B" {
		t.Fatalf("expected grade B, got %s", evaluation.Grade)
	}
	if evaluation.ReviewedAt == nil {
		t.Fatal("expected reviewed_at to be set")
	}
	if evaluation.ReviewerID == nil || *evaluation.ReviewerID != "hr-1" {
		t.Fatalf("expected reviewer hr-1, got %v", evaluation.ReviewerID)
	}
}

func TestApproveRequiresSubmission(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, _ := openedEvaluation(t, svc, store)

	if _, err := svc.Approve(ctx, evalID, "hr-1", "", nil); !errors.Is(err, ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}
}

func TestApproveIsTerminal(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	if err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(70)},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Approve(ctx, evalID, "hr-1", "", nil); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if _, err := svc.Approve(ctx, evalID, "hr-1", "", nil); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
	if err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", nil); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed on resubmit, got %v", err)
	}
}

func TestRequestRevisionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	if err := svc.RequestRevision(ctx, evalID, "hr-1", "too thin"); !errors.Is(err, ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted for pending evaluation, got %v", err)
	}

	if err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(40)},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.RequestRevision(ctx, evalID, "hr-1", "please add detail"); err != nil {
		t.Fatalf("request revision: %v", err)
	}

	evaluation, _ := svc.EvaluationByID(ctx, evalID)
	if evaluation.Status != EvaluationStatusRevisionRequested {
		t.Fatalf("expected revision_requested, got %s", evaluation.Status)
	}
	if evaluation.ReviewedAt != nil {
		t.Fatal("expected reviewed_at to remain null")
	}

	if err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(75), SelfNote: "expanded"},
	}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	evaluation, _ = svc.EvaluationByID(ctx, evalID)
	if evaluation.Status != EvaluationStatusSubmitted {
		t.Fatalf("expected submitted after resubmission, got %s", evaluation.Status)
	}
}

func TestApproveWithoutScoredAnswers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, _ := openedEvaluation(t, svc, store)

	if err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Approve(ctx, evalID, "hr-1", "", nil); !errors.Is(err, ErrNoScoredAnswers) {
		t.Fatalf("expected ErrNoScoredAnswers, got %v", err)
	}
}

func TestClosedPeriodLocksWorkflow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store)
	evalID, answers := openedEvaluation(t, svc, store)

	evaluation, _ := svc.EvaluationByID(ctx, evalID)
	if err := svc.ClosePeriod(ctx, evaluation.PeriodID); err != nil {
		t.Fatalf("close period: %v", err)
	}

	err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(80)},
	})
	if !errors.Is(err, ErrPeriodClosed) {
		t.Fatalf("expected ErrPeriodClosed on submit, got %v", err)
	}
	if _, err := svc.Approve(ctx, evalID, "hr-1", "", nil); !errors.Is(err, ErrPeriodClosed) && !errors.Is(err, ErrNotSubmitted) {
		t.Fatalf("expected closed-period guard, got %v", err)
	}
}

func TestApproveBlendsHRScoresWhenEnabled(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(activeRoster(1)...)
	svc := NewService(store, WithHRScores(true))
	evalID, answers := openedEvaluation(t, svc, store)

	if err := svc.SubmitSelfAssessment(ctx, evalID, "emp-1", []AnswerSubmission{
		{ID: answers[0].ID, SelfScore: intPtr(50)},
		{ID: answers[1].ID, SelfScore: intPtr(90)},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	evaluation, err := svc.Approve(ctx, evalID, "hr-1", "adjusted", []HRScoreInput{
		{AnswerID: answers[0].ID, Score: intPtr(70)},
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if evaluation.TotalScore == nil || *evaluation.TotalScore != 80.00 {
		t.Fatalf("expected blended total 80.00, got %v", evaluation.TotalScore)
	}
}
