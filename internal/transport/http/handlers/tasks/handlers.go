package taskshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/tasks"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
	Core    *core.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
}

func NewHandler(service *tasks.Service, coreSvc *core.Service, perms middleware.PermissionStore, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Core: coreSvc, Perms: perms, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTasksAssign, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/{taskID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTasksAssign, h.Perms)).Put("/{taskID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/{taskID}/transition", h.handleTransition)
		r.With(middleware.RequirePermission(auth.PermTasksAssign, h.Perms)).Delete("/{taskID}", h.handleDelete)
	})
}

type taskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  string `json:"assigneeId"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

func (p taskPayload) toInput(w http.ResponseWriter, requestID string) (tasks.TaskInput, bool) {
	v := shared.NewValidator()
	v.Required("title", p.Title, "is required")

	var dueDate *time.Time
	if p.DueDate != "" {
		if t, ok := v.Date("dueDate", p.DueDate); ok {
			dueDate = &t
		}
	}
	if v.Reject(w, requestID) {
		return tasks.TaskInput{}, false
	}

	return tasks.TaskInput{
		Title:       p.Title,
		Description: p.Description,
		AssigneeID:  p.AssigneeID,
		Priority:    p.Priority,
		DueDate:     dueDate,
	}, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := tasks.Filter{
		AssigneeID: r.URL.Query().Get("assigneeId"),
		Status:     r.URL.Query().Get("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_list_failed", "failed to list tasks", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	task, err := h.Service.Get(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		h.writeError(w, r, err, "task_get_failed", "failed to load task")
		return
	}
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload taskPayload
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
		h.writeError(w, r, err, "task_create_failed", "failed to create task")
		return
	}

	if h.Notify != nil && input.AssigneeID != "" {
		if emp, err := h.Core.GetEmployee(r.Context(), input.AssigneeID); err == nil && emp.UserID != "" {
			if err := h.Notify.Create(r.Context(), emp.UserID, notifications.TypeTaskAssigned,
				"New task assigned", input.Title); err != nil {
				slog.Warn("task notification failed", "err", err)
			}
		}
	}

	api.Created(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	taskID := chi.URLParam(r, "taskID")

	var payload taskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	input, ok := payload.toInput(w, requestID)
	if !ok {
		return
	}

	if err := h.Service.Update(r.Context(), taskID, input); err != nil {
		h.writeError(w, r, err, "task_update_failed", "failed to update task")
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	taskID := chi.URLParam(r, "taskID")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	actorEmployeeID := ""
	if id, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID); err == nil {
		actorEmployeeID = id
	}
	isManager, err := h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermTasksAssign)
	if err != nil {
		slog.Warn("task transition permission lookup failed", "err", err)
	}

	task, err := h.Service.Transition(r.Context(), taskID, payload.Status, actorEmployeeID, isManager)
	if err != nil {
		h.writeError(w, r, err, "task_transition_failed", "failed to move task")
		return
	}
	api.Success(w, task, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "taskID")); err != nil {
		h.writeError(w, r, err, "task_delete_failed", "failed to delete task")
		return
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.Is(err, tasks.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	case errors.Is(err, tasks.ErrNotAssignee):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	default:
		slog.Error("task handler error", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
