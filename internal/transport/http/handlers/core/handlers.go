package corehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *core.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDelete)
	})
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{departmentID}", h.handleUpdateDepartment)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{departmentID}", h.handleDeleteDepartment)
	})
}

type employeePayload struct {
	UserID         string `json:"userId"`
	EmployeeNumber string `json:"employeeNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Position       string `json:"position"`
	DepartmentID   string `json:"departmentId"`
	ManagerID      string `json:"managerId"`
	HireDate       string `json:"hireDate"`
	EndDate        string `json:"endDate"`
	Status         string `json:"status"`
}

func (p employeePayload) toInput(w http.ResponseWriter, requestID string) (core.EmployeeInput, bool) {
	v := shared.NewValidator()
	v.Required("employeeNumber", p.EmployeeNumber, "is required")
	v.Required("firstName", p.FirstName, "is required")
	v.Required("lastName", p.LastName, "is required")
	v.Required("email", p.Email, "is required")
	hireDate, _ := v.Date("hireDate", p.HireDate)

	var endDate *time.Time
	if p.EndDate != "" {
		if t, ok := v.Date("endDate", p.EndDate); ok {
			endDate = &t
		}
	}
	if v.Reject(w, requestID) {
		return core.EmployeeInput{}, false
	}

	return core.EmployeeInput{
		UserID:         p.UserID,
		EmployeeNumber: p.EmployeeNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		Position:       p.Position,
		DepartmentID:   p.DepartmentID,
		ManagerID:      p.ManagerID,
		HireDate:       hireDate,
		EndDate:        endDate,
		Status:         p.Status,
	}, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := core.EmployeeFilter{
		DepartmentID: r.URL.Query().Get("departmentId"),
		Status:       r.URL.Query().Get("status"),
		Search:       r.URL.Query().Get("search"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	employees, err := h.Service.ListEmployees(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Service.GetEmployeeByUserID(r.Context(), user.UserID)
	if err != nil {
		h.writeError(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.writeError(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	input, ok := payload.toInput(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	id, err := h.Service.CreateEmployee(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}
	h.recordAudit(r, user.UserID, "employee.create", "employee", id, nil, payload)
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	input, ok := payload.toInput(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	if err := h.Service.UpdateEmployee(r.Context(), employeeID, input); err != nil {
		h.writeError(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	h.recordAudit(r, user.UserID, "employee.update", "employee", employeeID, nil, payload)
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	if err := h.Service.DeleteEmployee(r.Context(), employeeID); err != nil {
		h.writeError(w, r, err, "employee_delete_failed", "failed to delete employee")
		return
	}
	h.recordAudit(r, user.UserID, "employee.delete", "employee", employeeID, nil, nil)
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

type departmentPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   string `json:"managerId"`
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateDepartment(r.Context(), core.Department{
		Name:        payload.Name,
		Description: payload.Description,
		ManagerID:   payload.ManagerID,
	})
	if err != nil {
		h.writeError(w, r, err, "department_create_failed", "failed to create department")
		return
	}
	h.recordAudit(r, user.UserID, "department.create", "department", id, nil, payload)
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	departmentID := chi.URLParam(r, "departmentID")

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateDepartment(r.Context(), departmentID, core.Department{
		Name:        payload.Name,
		Description: payload.Description,
		ManagerID:   payload.ManagerID,
	}); err != nil {
		h.writeError(w, r, err, "department_update_failed", "failed to update department")
		return
	}
	h.recordAudit(r, user.UserID, "department.update", "department", departmentID, nil, payload)
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	departmentID := chi.URLParam(r, "departmentID")
	if err := h.Service.DeleteDepartment(r.Context(), departmentID); err != nil {
		h.writeError(w, r, err, "department_delete_failed", "failed to delete department")
		return
	}
	h.recordAudit(r, user.UserID, "department.delete", "department", departmentID, nil, nil)
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, core.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.Is(err, core.ErrEmployeeNumberTaken),
		errors.Is(err, core.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "duplicate", err.Error(), requestID)
	case errors.Is(err, core.ErrDepartmentHasEmployees):
		api.Fail(w, http.StatusConflict, "department_in_use", err.Error(), requestID)
	default:
		slog.Error("core handler error", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
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
