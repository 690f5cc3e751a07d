package messageshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/messages"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *messages.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
}

func NewHandler(service *messages.Service, perms middleware.PermissionStore, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermMessagesUse, h.Perms))
		r.Get("/", h.handleInbox)
		r.Post("/", h.handleSend)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Get("/with/{userID}", h.handleConversation)
		r.Post("/{messageID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleInbox(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	inbox, err := h.Service.Inbox(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_list_failed", "failed to list messages", requestID)
		return
	}
	api.Success(w, inbox, requestID)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload struct {
		RecipientID string `json:"recipientId"`
		Body        string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("recipientId", payload.RecipientID, "is required")
	v.Required("body", payload.Body, "is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.Send(r.Context(), user.UserID, payload.RecipientID, payload.Body)
	if err != nil {
		if errors.Is(err, messages.ErrSelfMessage) {
			api.Fail(w, http.StatusBadRequest, "invalid_recipient", err.Error(), requestID)
			return
		}
		slog.Error("message send failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "message_send_failed", "failed to send message", requestID)
		return
	}

	if h.Notify != nil {
		if err := h.Notify.Create(r.Context(), payload.RecipientID, notifications.TypeMessage,
			"New message", ""); err != nil {
			slog.Warn("message notification failed", "err", err)
		}
	}

	api.Created(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	conversation, err := h.Service.Conversation(r.Context(), user.UserID, chi.URLParam(r, "userID"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_list_failed", "failed to list messages", requestID)
		return
	}
	api.Success(w, conversation, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	if err := h.Service.MarkRead(r.Context(), user.UserID, chi.URLParam(r, "messageID")); err != nil {
		if errors.Is(err, messages.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "message not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "message_read_failed", "failed to mark message read", requestID)
		return
	}
	api.Success(w, map[string]any{"read": true}, requestID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	count, err := h.Service.CountUnread(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_count_failed", "failed to count messages", requestID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, requestID)
}
