package traininghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/training"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *training.Service
	Core    *core.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
}

func NewHandler(service *training.Service, coreSvc *core.Service, perms middleware.PermissionStore, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Core: coreSvc, Perms: perms, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trainings", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Get("/{trainingID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Put("/{trainingID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/{trainingID}/status", h.handleUpdateStatus)
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Post("/{trainingID}/enroll", h.handleEnroll)
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Post("/{trainingID}/withdraw", h.handleWithdraw)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Get("/{trainingID}/enrollments", h.handleListEnrollments)
	})
}

type trainingPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Trainer     string `json:"trainer"`
	Location    string `json:"location"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt"`
	Capacity    int    `json:"capacity"`
}

func (p trainingPayload) toInput(w http.ResponseWriter, requestID string) (training.TrainingInput, bool) {
	v := shared.NewValidator()
	v.Required("title", p.Title, "is required")
	start, _ := v.Date("startAt", p.StartAt)
	end, _ := v.Date("endAt", p.EndAt)
	v.DateOrder("startAt", start, "endAt", end)
	if p.Capacity < 0 {
		v.Add("capacity", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return training.TrainingInput{}, false
	}

	return training.TrainingInput{
		Title:       p.Title,
		Description: p.Description,
		Trainer:     p.Trainer,
		Location:    p.Location,
		StartAt:     start,
		EndAt:       end,
		Capacity:    p.Capacity,
	}, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Service.List(r.Context(), r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_list_failed", "failed to list trainings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.Get(r.Context(), chi.URLParam(r, "trainingID"))
	if err != nil {
		h.writeError(w, r, err, "training_get_failed", "failed to load training")
		return
	}
	api.Success(w, t, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload trainingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	input, ok := payload.toInput(w, requestID)
	if !ok {
		return
	}

	id, err := h.Service.Create(r.Context(), input, user.UserID)
	if err != nil {
		h.writeError(w, r, err, "training_create_failed", "failed to create training")
		return
	}
	api.Created(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	trainingID := chi.URLParam(r, "trainingID")

	var payload trainingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	input, ok := payload.toInput(w, requestID)
	if !ok {
		return
	}

	if err := h.Service.Update(r.Context(), trainingID, input); err != nil {
		h.writeError(w, r, err, "training_update_failed", "failed to update training")
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	trainingID := chi.URLParam(r, "trainingID")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Enum("status", payload.Status, []string{
		training.StatusScheduled, training.StatusOngoing, training.StatusCompleted, training.StatusCancelled,
	}, "is not a valid status")
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), trainingID, payload.Status); err != nil {
		h.writeError(w, r, err, "training_status_failed", "failed to update training status")
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	trainingID := chi.URLParam(r, "trainingID")

	employeeID, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", requestID)
		return
	}

	id, err := h.Service.Enroll(r.Context(), trainingID, employeeID)
	if err != nil {
		h.writeError(w, r, err, "training_enroll_failed", "failed to enroll")
		return
	}

	if h.Notify != nil {
		if t, err := h.Service.Get(r.Context(), trainingID); err == nil {
			if err := h.Notify.Create(r.Context(), user.UserID, notifications.TypeTrainingEnrolled,
				"Enrolled in training", t.Title); err != nil {
				slog.Warn("training notification failed", "err", err)
			}
		}
	}

	api.Created(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	employeeID, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", requestID)
		return
	}

	if err := h.Service.Withdraw(r.Context(), chi.URLParam(r, "trainingID"), employeeID); err != nil {
		h.writeError(w, r, err, "training_withdraw_failed", "failed to withdraw")
		return
	}
	api.Success(w, map[string]any{"withdrawn": true}, requestID)
}

func (h *Handler) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.Service.ListEnrollments(r.Context(), chi.URLParam(r, "trainingID"))
	if err != nil {
		h.writeError(w, r, err, "enrollment_list_failed", "failed to list enrollments")
		return
	}
	api.Success(w, enrollments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, training.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.Is(err, training.ErrNotOpen),
		errors.Is(err, training.ErrFull),
		errors.Is(err, training.ErrAlreadyEnrolled),
		errors.Is(err, training.ErrNotEnrolled),
		errors.Is(err, training.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	default:
		slog.Error("training handler error", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
