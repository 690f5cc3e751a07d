package announcementshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/announcements"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

// UserLister yields the audience for announcement notifications.
type UserLister interface {
	ActiveUserIDs(ctx context.Context) ([]string, error)
}

type Handler struct {
	Service *announcements.Service
	Perms   middleware.PermissionStore
	Users   UserLister
	Notify  *notifications.Service
}

func NewHandler(service *announcements.Service, perms middleware.PermissionStore, users UserLister, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Users: users, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/announcements", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsPost, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Get("/{announcementID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsPost, h.Perms)).Put("/{announcementID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsPost, h.Perms)).Delete("/{announcementID}", h.handleDeactivate)
	})
}

type announcementPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Pinned    bool   `json:"pinned"`
	ExpiresAt string `json:"expiresAt"`
}

func (p announcementPayload) toInput(w http.ResponseWriter, requestID string) (announcements.Input, bool) {
	v := shared.NewValidator()
	v.Required("title", p.Title, "is required")
	v.Required("body", p.Body, "is required")

	var expiresAt *time.Time
	if p.ExpiresAt != "" {
		if t, ok := v.Date("expiresAt", p.ExpiresAt); ok {
			expiresAt = &t
		}
	}
	if v.Reject(w, requestID) {
		return announcements.Input{}, false
	}
	return announcements.Input{Title: p.Title, Body: p.Body, Pinned: p.Pinned, ExpiresAt: expiresAt}, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcement_list_failed", "failed to list announcements", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.Get(r.Context(), chi.URLParam(r, "announcementID"))
	if err != nil {
		h.writeError(w, r, err, "announcement_get_failed", "failed to load announcement")
		return
	}
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload announcementPayload
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
		h.writeError(w, r, err, "announcement_create_failed", "failed to create announcement")
		return
	}
	h.notifyAll(r.Context(), input.Title)
	api.Created(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	announcementID := chi.URLParam(r, "announcementID")

	var payload announcementPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	input, ok := payload.toInput(w, requestID)
	if !ok {
		return
	}

	if err := h.Service.Update(r.Context(), announcementID, input); err != nil {
		h.writeError(w, r, err, "announcement_update_failed", "failed to update announcement")
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Deactivate(r.Context(), chi.URLParam(r, "announcementID")); err != nil {
		h.writeError(w, r, err, "announcement_delete_failed", "failed to deactivate announcement")
		return
	}
	api.Success(w, map[string]any{"deactivated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyAll(ctx context.Context, title string) {
	if h.Users == nil || h.Notify == nil {
		return
	}
	userIDs, err := h.Users.ActiveUserIDs(ctx)
	if err != nil {
		slog.Warn("announcement audience lookup failed", "err", err)
		return
	}
	for _, userID := range userIDs {
		if err := h.Notify.Create(ctx, userID, notifications.TypeAnnouncement, "New announcement", title); err != nil {
			slog.Warn("announcement notification failed", "userId", userID, "err", err)
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	if errors.Is(err, announcements.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
		return
	}
	slog.Error("announcement handler error", "code", code, "err", err)
	api.Fail(w, http.StatusInternalServerError, code, message, requestID)
}
