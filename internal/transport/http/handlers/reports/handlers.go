package reportshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/reports"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Audit   *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *reports.Service, auditSvc *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/evaluation-periods/{periodID}", h.handlePeriodResults)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Get("/evaluation-periods/{periodID}/export.csv", h.handlePeriodCSV)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Get("/evaluation-periods/{periodID}/export.pdf", h.handlePeriodPDF)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/job-runs", h.handleJobRuns)
	})
	r.Route("/audit-events", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/", h.handleAuditEvents)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.Dashboard(r.Context())
	if err != nil {
		slog.Error("dashboard report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePeriodResults(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.PeriodRows(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		slog.Error("period report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build period report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePeriodCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation-results.csv"`)
	if err := h.Service.WritePeriodCSV(r.Context(), chi.URLParam(r, "periodID"), w); err != nil {
		slog.Error("csv export failed", "err", err)
	}
}

func (h *Handler) handlePeriodPDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation-results.pdf"`)
	if err := h.Service.WritePeriodPDF(r.Context(), chi.URLParam(r, "periodID"), w); err != nil {
		slog.Error("pdf export failed", "err", err)
	}
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.Service.JobRuns(r.Context(), r.URL.Query().Get("jobType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_runs_failed", "failed to list job runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAuditEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorID:    r.URL.Query().Get("actorId"),
	}
	includeDetails := r.URL.Query().Get("details") == "true"

	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	events, err := h.Audit.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	api.Success(w, map[string]any{"total": total, "events": events}, requestID)
}
