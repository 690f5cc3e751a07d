package attendancehandler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Core    *core.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *attendance.Service, coreSvc *core.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Core: coreSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/check-out", h.handleCheckOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/me", h.handleMyRecords)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/employees/{employeeID}", h.handleEmployeeRecords)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/employees/{employeeID}/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Get("/employees/{employeeID}/export.csv", h.handleExportCSV)
	})
}

func (h *Handler) employeeID(r *http.Request) (string, error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return "", errors.New("no user in context")
	}
	return h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, err := h.employeeID(r)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", requestID)
		return
	}

	var payload struct {
		Note string `json:"note"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
	}

	rec, err := h.Service.CheckIn(r.Context(), employeeID, payload.Note)
	if err != nil {
		h.writeError(w, r, err, "check_in_failed", "failed to check in")
		return
	}
	api.Created(w, rec, requestID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, err := h.employeeID(r)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", requestID)
		return
	}

	rec, err := h.Service.CheckOut(r.Context(), employeeID)
	if err != nil {
		h.writeError(w, r, err, "check_out_failed", "failed to check out")
		return
	}
	api.Success(w, rec, requestID)
}

func (h *Handler) handleMyRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, err := h.employeeID(r)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", requestID)
		return
	}
	h.listRecords(w, r, employeeID)
}

func (h *Handler) handleEmployeeRecords(w http.ResponseWriter, r *http.Request) {
	h.listRecords(w, r, chi.URLParam(r, "employeeID"))
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request, employeeID string) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	filter := attendance.Filter{EmployeeID: employeeID, Limit: page.Limit, Offset: page.Offset}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid from date", requestID)
			return
		}
		filter.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid to date", requestID)
			return
		}
		filter.To = &t
	}

	records, err := h.Service.ListRecords(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", requestID)
		return
	}
	api.Success(w, records, requestID)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	filter := attendance.Filter{EmployeeID: employeeID, Limit: 1000}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := shared.ParseDate(raw); err == nil {
			filter.From = &t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := shared.ParseDate(raw); err == nil {
			filter.To = &t
		}
	}

	records, err := h.Service.ListRecords(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_export_failed", "failed to export attendance", requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "check_in", "check_out", "status", "worked_minutes", "note"})
	for _, rec := range records {
		_ = cw.Write([]string{
			shared.FormatDate(rec.Date),
			formatTime(rec.CheckIn),
			formatTime(rec.CheckOut),
			rec.Status,
			strconv.Itoa(rec.WorkedMins),
			rec.Note,
		})
	}
	cw.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		from = time.Now().AddDate(0, -1, 0)
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		to = time.Now()
	}

	summary, err := h.Service.Summary(r.Context(), employeeID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_summary_failed", "failed to build summary", requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	default:
		slog.Error("attendance handler error", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
