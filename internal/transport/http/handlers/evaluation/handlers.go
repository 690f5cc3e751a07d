package evaluationhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/evaluation"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *evaluation.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *evaluation.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluation-periods", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/", h.handleListPeriods)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Post("/", h.handleCreatePeriod)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/{periodID}", h.handleGetPeriod)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Put("/{periodID}", h.handleUpdatePeriod)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Delete("/{periodID}", h.handleDeletePeriod)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Post("/{periodID}/open", h.handleOpenPeriod)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Post("/{periodID}/close", h.handleClosePeriod)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Post("/{periodID}/backfill", h.handleBackfillPeriod)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/{periodID}/criteria", h.handleListCriteria)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Post("/{periodID}/criteria", h.handleAddCriterion)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Put("/{periodID}/criteria/{criterionID}", h.handleUpdateCriterion)
		r.With(middleware.RequirePermission(auth.PermEvaluationsManage, h.Perms)).Delete("/{periodID}/criteria/{criterionID}", h.handleDeleteCriterion)
		r.With(middleware.RequirePermission(auth.PermEvaluationsReview, h.Perms)).Get("/{periodID}/evaluations", h.handleListPeriodEvaluations)
	})

	r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).
		Get("/evaluation-criteria/defaults", h.handleListDefaultCriteria)

	r.Route("/evaluations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/", h.handleMyEvaluations)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/mine", h.handleMyEvaluations)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/{evaluationID}", h.handleGetEvaluation)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/{evaluationID}/answers", h.handleListAnswers)
		r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Post("/{evaluationID}/submit", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermEvaluationsReview, h.Perms)).Post("/{evaluationID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermEvaluationsReview, h.Perms)).Post("/{evaluationID}/request-revision", h.handleRequestRevision)
	})
}

type periodPayload struct {
	Name                   string `json:"name"`
	PeriodCode             string `json:"periodCode"`
	PeriodType             string `json:"periodType"`
	StartDate              string `json:"startDate"`
	EndDate                string `json:"endDate"`
	SelfAssessmentDeadline string `json:"selfAssessmentDeadline"`
	HREvaluationDeadline   string `json:"hrEvaluationDeadline"`
	Description            string `json:"description"`
	Guidelines             string `json:"guidelines"`
	AutoCreateEvaluations  *bool  `json:"autoCreateEvaluations"`
	Indicators             []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"orderIndex"`
	} `json:"indicators"`
}

func (p periodPayload) toInput(w http.ResponseWriter, requestID string) (evaluation.PeriodInput, bool) {
	v := shared.NewValidator()
	start, _ := v.Date("startDate", p.StartDate)
	end, _ := v.Date("endDate", p.EndDate)

	var selfDeadline, hrDeadline *time.Time
	if p.SelfAssessmentDeadline != "" {
		if t, ok := v.Date("selfAssessmentDeadline", p.SelfAssessmentDeadline); ok {
			selfDeadline = &t
		}
	}
	if p.HREvaluationDeadline != "" {
		if t, ok := v.Date("hrEvaluationDeadline", p.HREvaluationDeadline); ok {
			hrDeadline = &t
		}
	}
	if v.Reject(w, requestID) {
		return evaluation.PeriodInput{}, false
	}

	// Omitted autoCreateEvaluations means auto-open; only an explicit false
	// leaves the period in draft.
	autoCreate := true
	if p.AutoCreateEvaluations != nil {
		autoCreate = *p.AutoCreateEvaluations
	}

	input := evaluation.PeriodInput{
		Name:                   p.Name,
		PeriodCode:             p.PeriodCode,
		PeriodType:             p.PeriodType,
		StartDate:              start,
		EndDate:                end,
		SelfAssessmentDeadline: selfDeadline,
		HREvaluationDeadline:   hrDeadline,
		Description:            p.Description,
		Guidelines:             p.Guidelines,
		AutoCreateEvaluations:  autoCreate,
	}
	for _, ind := range p.Indicators {
		input.Indicators = append(input.Indicators, evaluation.IndicatorInput{
			Title:       ind.Title,
			Description: ind.Description,
			OrderIndex:  ind.OrderIndex,
		})
	}
	return input, true
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	periods, err := h.Service.ListPeriods(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_list_failed", "failed to list evaluation periods", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, periods, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload periodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	input, ok := payload.toInput(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	id, fanOut, err := h.Service.CreatePeriod(r.Context(), input, user.UserID)
	if err != nil {
		if id != "" {
			// Created but auto-open failed; surface the draft id so the caller
			// can repair and open it explicitly.
			api.FailWithDetails(w, http.StatusConflict, "period_auto_open_failed",
				"period created as draft but could not be opened: "+err.Error(),
				map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
			return
		}
		h.writeError(w, r, err, "period_create_failed", "failed to create evaluation period")
		return
	}

	h.recordAudit(r, user.UserID, "evaluation_period.create", "evaluation_period", id, nil, payload)

	data := map[string]any{"id": id}
	if fanOut != nil {
		data["fanOut"] = fanOut
	}
	api.Created(w, data, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.Service.PeriodByID(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		h.writeError(w, r, err, "period_get_failed", "failed to load evaluation period")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")

	var payload periodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	input, ok := payload.toInput(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	if err := h.Service.UpdatePeriod(r.Context(), periodID, input); err != nil {
		h.writeError(w, r, err, "period_update_failed", "failed to update evaluation period")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_period.update", "evaluation_period", periodID, nil, payload)
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")
	if err := h.Service.DeletePeriod(r.Context(), periodID); err != nil {
		h.writeError(w, r, err, "period_delete_failed", "failed to delete evaluation period")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_period.delete", "evaluation_period", periodID, nil, nil)
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOpenPeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")

	result, err := h.Service.OpenPeriod(r.Context(), periodID)
	if err != nil {
		h.writeError(w, r, err, "period_open_failed", "failed to open evaluation period")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_period.open", "evaluation_period", periodID, nil, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClosePeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")
	if err := h.Service.ClosePeriod(r.Context(), periodID); err != nil {
		h.writeError(w, r, err, "period_close_failed", "failed to close evaluation period")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_period.close", "evaluation_period", periodID, nil, nil)
	api.Success(w, map[string]any{"closed": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBackfillPeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")

	result, err := h.Service.BackfillPeriod(r.Context(), periodID)
	if err != nil {
		h.writeError(w, r, err, "period_backfill_failed", "failed to backfill evaluation period")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_period.backfill", "evaluation_period", periodID, nil, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type criterionPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	OrderIndex  int    `json:"orderIndex"`
}

func (h *Handler) handleListCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.Service.ListCriteria(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		h.writeError(w, r, err, "criteria_list_failed", "failed to list criteria")
		return
	}
	api.Success(w, criteria, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDefaultCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.Service.ListDefaultCriteria(r.Context())
	if err != nil {
		h.writeError(w, r, err, "criteria_list_failed", "failed to list default criteria")
		return
	}
	api.Success(w, criteria, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddCriterion(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")

	var payload criterionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.AddCriterion(r.Context(), periodID, evaluation.CriterionInput(payload))
	if err != nil {
		h.writeError(w, r, err, "criterion_create_failed", "failed to add criterion")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_criterion.create", "evaluation_criterion", id, nil, payload)
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCriterion(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")
	criterionID := chi.URLParam(r, "criterionID")

	var payload criterionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateCriterion(r.Context(), periodID, criterionID, evaluation.CriterionInput(payload)); err != nil {
		h.writeError(w, r, err, "criterion_update_failed", "failed to update criterion")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_criterion.update", "evaluation_criterion", criterionID, nil, payload)
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCriterion(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")
	criterionID := chi.URLParam(r, "criterionID")

	if err := h.Service.DeleteCriterion(r.Context(), periodID, criterionID); err != nil {
		h.writeError(w, r, err, "criterion_delete_failed", "failed to delete criterion")
		return
	}
	h.recordAudit(r, user.UserID, "evaluation_criterion.delete", "evaluation_criterion", criterionID, nil, nil)
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPeriodEvaluations(w http.ResponseWriter, r *http.Request) {
	evaluations, err := h.Service.ListEvaluationsByPeriod(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		h.writeError(w, r, err, "evaluation_list_failed", "failed to list evaluations")
		return
	}
	api.Success(w, evaluations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyEvaluations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, evaluation.ErrNotFound) {
			api.Success(w, []evaluation.Evaluation{}, middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}

	evaluations, err := h.Service.ListEvaluationsForEmployee(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, evaluations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Service.EvaluationByID(r.Context(), chi.URLParam(r, "evaluationID"))
	if err != nil {
		h.writeError(w, r, err, "evaluation_get_failed", "failed to load evaluation")
		return
	}
	api.Success(w, ev, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.Service.AnswersByEvaluation(r.Context(), chi.URLParam(r, "evaluationID"))
	if err != nil {
		h.writeError(w, r, err, "answer_list_failed", "failed to list answers")
		return
	}
	api.Success(w, answers, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	evaluationID := chi.URLParam(r, "evaluationID")

	employeeID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Answers []struct {
			ID        string `json:"id"`
			SelfScore *int   `json:"selfScore"`
			SelfNote  string `json:"selfNote"`
		} `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	submissions := make([]evaluation.AnswerSubmission, 0, len(payload.Answers))
	for _, a := range payload.Answers {
		submissions = append(submissions, evaluation.AnswerSubmission{ID: a.ID, SelfScore: a.SelfScore, SelfNote: a.SelfNote})
	}

	if err := h.Service.SubmitSelfAssessment(r.Context(), evaluationID, employeeID, submissions); err != nil {
		h.writeError(w, r, err, "evaluation_submit_failed", "failed to submit self-assessment")
		return
	}

	h.recordAudit(r, user.UserID, "evaluation.submit", "employee_evaluation", evaluationID, nil, nil)
	api.Success(w, map[string]any{"submitted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	evaluationID := chi.URLParam(r, "evaluationID")

	var payload struct {
		Feedback string `json:"feedback"`
		HRScores []struct {
			AnswerID string `json:"answerId"`
			Score    *int   `json:"score"`
			Feedback string `json:"feedback"`
		} `json:"hrScores"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	hrScores := make([]evaluation.HRScoreInput, 0, len(payload.HRScores))
	for _, s := range payload.HRScores {
		hrScores = append(hrScores, evaluation.HRScoreInput{AnswerID: s.AnswerID, Score: s.Score, Feedback: s.Feedback})
	}

	ev, err := h.Service.Approve(r.Context(), evaluationID, user.UserID, payload.Feedback, hrScores)
	if err != nil {
		h.writeError(w, r, err, "evaluation_approve_failed", "failed to approve evaluation")
		return
	}

	h.recordAudit(r, user.UserID, "evaluation.approve", "employee_evaluation", evaluationID, nil, ev)
	h.notifyEmployee(r, ev.EmployeeID, notifications.TypeEvaluationReviewed,
		"Your evaluation has been reviewed", "Your evaluation was approved and a final score has been recorded.")
	api.Success(w, ev, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRequestRevision(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	evaluationID := chi.URLParam(r, "evaluationID")

	var payload struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.RequestRevision(r.Context(), evaluationID, user.UserID, payload.Feedback); err != nil {
		h.writeError(w, r, err, "evaluation_revision_failed", "failed to request revision")
		return
	}

	h.recordAudit(r, user.UserID, "evaluation.request_revision", "employee_evaluation", evaluationID, nil, payload)
	if ev, err := h.Service.EvaluationByID(r.Context(), evaluationID); err == nil {
		h.notifyEmployee(r, ev.EmployeeID, notifications.TypeRevisionRequested,
			"Revision requested on your evaluation", payload.Feedback)
	}
	api.Success(w, map[string]any{"revisionRequested": true}, middleware.GetRequestID(r.Context()))
}

// writeError maps domain errors onto the response envelope. Unknown
// errors are logged and surfaced as a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())

	var verr *evaluation.ValidationError
	if errors.As(err, &verr) {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "validation failed", verr.Fields, requestID)
		return
	}

	switch {
	case errors.Is(err, evaluation.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.Is(err, evaluation.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "you do not own this evaluation", requestID)
	case errors.Is(err, evaluation.ErrPeriodNotDraft),
		errors.Is(err, evaluation.ErrPeriodNotActive),
		errors.Is(err, evaluation.ErrPeriodClosed),
		errors.Is(err, evaluation.ErrNoCriteria),
		errors.Is(err, evaluation.ErrAlreadyReviewed),
		errors.Is(err, evaluation.ErrNotSubmitted),
		errors.Is(err, evaluation.ErrNoScoredAnswers):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	default:
		slog.Error("evaluation handler error", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

func (h *Handler) notifyEmployee(r *http.Request, employeeID, ntype, title, body string) {
	if h.Notify == nil {
		return
	}
	userID, err := h.Service.UserIDByEmployeeID(r.Context(), employeeID)
	if err != nil || userID == "" {
		return
	}
	if err := h.Notify.Create(r.Context(), userID, ntype, title, body); err != nil {
		slog.Warn("evaluation notification failed", "type", ntype, "err", err)
	}
}

func (h *Handler) recordAudit(r *http.Request, actorID, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
