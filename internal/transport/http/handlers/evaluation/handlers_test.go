package evaluationhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/evaluation"
	"hrms/internal/transport/http/middleware"
)

// fakeStore records the calls the period workflow makes so tests can assert
// on fan-out and activation without a database.
type fakeStore struct {
	periods     map[string]*evaluation.Period
	criteriaIDs []string
	employees   []string
	fanOutCalls int
}

func newFakeStore(employees ...string) *fakeStore {
	return &fakeStore{periods: map[string]*evaluation.Period{}, employees: employees}
}

func (f *fakeStore) CreatePeriodWithCriteria(_ context.Context, input evaluation.PeriodInput, createdBy string) (string, error) {
	id := "period-1"
	f.periods[id] = &evaluation.Period{
		ID:         id,
		Name:       input.Name,
		PeriodCode: input.PeriodCode,
		PeriodType: input.PeriodType,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Status:     evaluation.PeriodStatusDraft,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
	}
	for i := range input.Indicators {
		f.criteriaIDs = append(f.criteriaIDs, fmt.Sprintf("criterion-%d", i+1))
	}
	return id, nil
}

func (f *fakeStore) PeriodByID(_ context.Context, periodID string) (evaluation.Period, error) {
	p, ok := f.periods[periodID]
	if !ok {
		return evaluation.Period{}, evaluation.ErrNotFound
	}
	return *p, nil
}

func (f *fakeStore) ListPeriods(_ context.Context, _, _ int) ([]evaluation.Period, error) {
	return nil, nil
}

func (f *fakeStore) PeriodCodeExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeStore) UpdatePeriod(_ context.Context, _ string, _ evaluation.PeriodInput) error {
	return nil
}

func (f *fakeStore) DeletePeriod(_ context.Context, _ string) error { return nil }

func (f *fakeStore) UpdatePeriodStatus(_ context.Context, periodID, status string) error {
	p, ok := f.periods[periodID]
	if !ok {
		return evaluation.ErrNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeStore) CreateCriterion(_ context.Context, _ string, _ evaluation.CriterionInput) (string, error) {
	return "", nil
}

func (f *fakeStore) UpdateCriterion(_ context.Context, _, _ string, _ evaluation.CriterionInput) error {
	return nil
}

func (f *fakeStore) DeleteCriterion(_ context.Context, _, _ string) error { return nil }

func (f *fakeStore) ListCriteria(_ context.Context, _ string) ([]evaluation.Criterion, error) {
	return nil, nil
}

func (f *fakeStore) ListDefaultCriteria(_ context.Context) ([]evaluation.Criterion, error) {
	return nil, nil
}

func (f *fakeStore) CriterionIDs(_ context.Context, _ string) ([]string, error) {
	return f.criteriaIDs, nil
}

func (f *fakeStore) RosterEmployeeIDs(_ context.Context, _ []string) ([]string, error) {
	return f.employees, nil
}

func (f *fakeStore) FanOutEvaluations(_ context.Context, periodID string, employeeIDs, criteriaIDs []string, activate bool) (evaluation.FanOutResult, error) {
	f.fanOutCalls++
	if activate {
		p, ok := f.periods[periodID]
		if !ok {
			return evaluation.FanOutResult{}, evaluation.ErrNotFound
		}
		if p.Status != evaluation.PeriodStatusDraft {
			return evaluation.FanOutResult{}, evaluation.ErrPeriodNotDraft
		}
		p.Status = evaluation.PeriodStatusActive
	}
	return evaluation.FanOutResult{
		Employees:          len(employeeIDs),
		EvaluationsCreated: len(employeeIDs),
		AnswersCreated:     len(employeeIDs) * len(criteriaIDs),
	}, nil
}

func (f *fakeStore) EvaluationByID(_ context.Context, _ string) (evaluation.Evaluation, error) {
	return evaluation.Evaluation{}, evaluation.ErrNotFound
}

func (f *fakeStore) EvaluationContext(_ context.Context, _ string) (evaluation.EvaluationContext, error) {
	return evaluation.EvaluationContext{}, evaluation.ErrNotFound
}

func (f *fakeStore) ListEvaluationsByPeriod(_ context.Context, _ string) ([]evaluation.Evaluation, error) {
	return nil, nil
}

func (f *fakeStore) ListEvaluationsForEmployee(_ context.Context, _ string) ([]evaluation.Evaluation, error) {
	return nil, nil
}

func (f *fakeStore) AnswersByEvaluation(_ context.Context, _ string) ([]evaluation.Answer, error) {
	return nil, nil
}

func (f *fakeStore) SubmitSelfAssessment(_ context.Context, _ string, _ []evaluation.AnswerUpdate, _ time.Time) error {
	return nil
}

func (f *fakeStore) ReviewEvaluation(_ context.Context, _ evaluation.ReviewUpdate) error {
	return nil
}

func (f *fakeStore) RequestRevision(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeStore) EmployeeIDByUserID(_ context.Context, _ string) (string, error) {
	return "", evaluation.ErrNotFound
}

func (f *fakeStore) UserIDByEmployeeID(_ context.Context, _ string) (string, error) {
	return "", evaluation.ErrNotFound
}

type allowAllPerms struct{}

func (allowAllPerms) HasPermission(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

func newTestRouter(t *testing.T, store *fakeStore) (http.Handler, string) {
	t.Helper()
	service := evaluation.NewService(store)

	router := chi.NewRouter()
	router.Use(middleware.Auth("test-secret"))
	NewHandler(service, allowAllPerms{}, nil, nil).RegisterRoutes(router)

	token, err := auth.GenerateToken("test-secret", auth.Claims{UserID: "admin-1", RoleID: "r1", RoleName: "hr"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return router, token
}

func postPeriod(t *testing.T, router http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/evaluation-periods", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePeriodDefaultsToAutoOpen(t *testing.T) {
	store := newFakeStore("emp-1", "emp-2")
	router, token := newTestRouter(t, store)

	// autoCreateEvaluations omitted on purpose: the default is to open and
	// fan out immediately.
	rec := postPeriod(t, router, token, `{
		"name": "Q1 2025",
		"periodCode": "Q1-2025",
		"periodType": "quarterly",
		"startDate": "2025-01-01",
		"endDate": "2025-03-31",
		"indicators": [{"title": "Quality of work", "orderIndex": 1}]
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.fanOutCalls != 1 {
		t.Fatalf("expected one fan-out call, got %d", store.fanOutCalls)
	}
	if store.periods["period-1"].Status != evaluation.PeriodStatusActive {
		t.Fatalf("expected active period, got %s", store.periods["period-1"].Status)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			ID     string                   `json:"id"`
			FanOut *evaluation.FanOutResult `json:"fanOut"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Data.FanOut == nil || envelope.Data.FanOut.EvaluationsCreated != 2 {
		t.Fatalf("expected fan-out summary for 2 employees, got %+v", envelope.Data.FanOut)
	}
}

func TestCreatePeriodExplicitFalseStaysDraft(t *testing.T) {
	store := newFakeStore("emp-1")
	router, token := newTestRouter(t, store)

	rec := postPeriod(t, router, token, `{
		"name": "Q1 2025",
		"periodCode": "Q1-2025",
		"periodType": "quarterly",
		"startDate": "2025-01-01",
		"endDate": "2025-03-31",
		"autoCreateEvaluations": false,
		"indicators": [{"title": "Quality of work", "orderIndex": 1}]
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.fanOutCalls != 0 {
		t.Fatalf("expected no fan-out, got %d calls", store.fanOutCalls)
	}
	if store.periods["period-1"].Status != evaluation.PeriodStatusDraft {
		t.Fatalf("expected draft period, got %s", store.periods["period-1"].Status)
	}
}

func TestCreatePeriodAutoOpenFailureReturnsDraftID(t *testing.T) {
	store := newFakeStore("emp-1")
	router, token := newTestRouter(t, store)

	// No indicators: the draft is created but opening fails on the empty
	// criteria set, and the response must still carry the draft id.
	rec := postPeriod(t, router, token, `{
		"name": "Q1 2025",
		"periodCode": "Q1-2025",
		"periodType": "quarterly",
		"startDate": "2025-01-01",
		"endDate": "2025-03-31"
	}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				ID string `json:"id"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Error.Code != "period_auto_open_failed" {
		t.Fatalf("expected period_auto_open_failed, got %q", envelope.Error.Code)
	}
	if envelope.Error.Details.ID != "period-1" {
		t.Fatalf("expected the draft id in error details, got %q", envelope.Error.Details.ID)
	}
	if store.periods["period-1"].Status != evaluation.PeriodStatusDraft {
		t.Fatalf("expected draft to persist, got %s", store.periods["period-1"].Status)
	}
}
