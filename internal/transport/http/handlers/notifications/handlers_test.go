package notificationshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/middleware"
)

type memStore struct {
	items []notifications.Notification
}

func (m *memStore) CreateNotification(_ context.Context, userID, ntype, title, body string) error {
	m.items = append(m.items, notifications.Notification{
		ID:        "n1",
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *memStore) ListNotifications(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]notifications.Notification, error) {
	var out []notifications.Notification
	for _, n := range m.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memStore) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range m.items {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (m *memStore) MarkRead(_ context.Context, userID, notificationID string) error {
	now := time.Now()
	for i, n := range m.items {
		if n.ID == notificationID && n.UserID == userID {
			m.items[i].ReadAt = &now
			return nil
		}
	}
	return notifications.ErrNotFound
}

func (m *memStore) MarkAllRead(_ context.Context, userID string) error {
	now := time.Now()
	for i, n := range m.items {
		if n.UserID == userID {
			m.items[i].ReadAt = &now
		}
	}
	return nil
}

func (m *memStore) UserEmail(_ context.Context, _ string) (string, error) {
	return "", nil
}

func newTestRouter(t *testing.T, store *memStore) (http.Handler, string) {
	t.Helper()
	service := notifications.New(store, nil, "")

	router := chi.NewRouter()
	router.Use(middleware.Auth("test-secret"))
	NewHandler(service).RegisterRoutes(router)

	token, err := auth.GenerateToken("test-secret", auth.Claims{UserID: "u1", RoleID: "r1", RoleName: "staff"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return router, token
}

func TestNotificationsRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t, &memStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous request, got %d", rec.Code)
	}
}

func TestNotificationsListAndUnreadCount(t *testing.T) {
	store := &memStore{}
	router, token := newTestRouter(t, store)

	service := notifications.New(store, nil, "")
	if err := service.Create(context.Background(), "u1", notifications.TypeEvaluationAssigned, "Evaluation assigned", ""); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := service.Create(context.Background(), "u2", notifications.TypeAnnouncement, "Not for u1", ""); err != nil {
		t.Fatalf("create error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !envelope.Success || envelope.Data["unread"] != 1 {
		t.Fatalf("expected one unread notification, got %+v", envelope)
	}
}

func TestNotificationsMarkReadScopedToOwner(t *testing.T) {
	store := &memStore{}
	router, token := newTestRouter(t, store)

	service := notifications.New(store, nil, "")
	if err := service.Create(context.Background(), "u2", notifications.TypeMessage, "Someone else's", ""); err != nil {
		t.Fatalf("create error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign notification, got %d", rec.Code)
	}
}
