package authhandler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store    *auth.Store
	Secret   string
	TokenTTL time.Duration
	Mailer   notifications.Mailer
	From     string
}

func NewHandler(store *auth.Store, secret string, tokenTTL time.Duration, mailer notifications.Mailer, from string) *Handler {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &Handler{Store: store, Secret: secret, TokenTTL: tokenTTL, Mailer: mailer, From: from}
}

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/password-reset/request", h.handleRequestReset)
	r.Post("/auth/password-reset/confirm", h.handleResetPassword)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/auth/me", h.handleMe)
	r.Post("/auth/logout", h.handleLogout)
	r.Post("/auth/change-password", h.handleChangePassword)
	r.Post("/auth/mfa/setup", h.handleMFASetup)
	r.Post("/auth/mfa/enable", h.handleMFAEnable)
	r.Post("/auth/mfa/disable", h.handleMFADisable)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	user, err := h.Store.FindActiveUserByEmail(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}
	if err := auth.CheckPassword(user.Password, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}

	if user.MFAEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
			return
		}
		if user.MFASecret == "" || !totp.Validate(payload.MFACode, user.MFASecret) {
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
			return
		}
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, RoleID: user.RoleID, RoleName: user.RoleName}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  map[string]string{"id": user.ID, "roleId": user.RoleID, "role": user.RoleName},
	}, requestID)
}

// Tokens are stateless, so logout only acknowledges; clients discard the token.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"loggedOut": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{
		"id":     user.UserID,
		"roleId": user.RoleID,
		"role":   user.RoleName,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("newPassword", payload.NewPassword, "is required")
	if len(payload.NewPassword) > 0 && len(payload.NewPassword) < 8 {
		v.Add("newPassword", "must be at least 8 characters")
	}
	if v.Reject(w, requestID) {
		return
	}

	currentHash, err := h.Store.PasswordHash(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "password_change_failed", "failed to change password", requestID)
		return
	}
	if err := auth.CheckPassword(currentHash, payload.CurrentPassword); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "current password is incorrect", requestID)
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "password_change_failed", "failed to change password", requestID)
		return
	}
	if err := h.Store.UpdateUserPassword(r.Context(), user.UserID, hash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "password_change_failed", "failed to change password", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "password_changed"}, requestID)
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "hrms",
		AccountName: user.UserID,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", requestID)
		return
	}

	if err := h.Store.UpdateMFASecret(r.Context(), user.UserID, key.Secret()); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestID)
		return
	}

	api.Success(w, map[string]string{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
	}, requestID)
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	secret, err := h.Store.MFASecret(r.Context(), user.UserID)
	if err != nil || secret == "" {
		api.Fail(w, http.StatusBadRequest, "mfa_not_setup", "run mfa setup first", requestID)
		return
	}
	if !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestID)
		return
	}

	if err := h.Store.SetMFAEnabled(r.Context(), user.UserID, true); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_enable_failed", "failed to enable mfa", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "enabled"}, requestID)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	secret, err := h.Store.MFASecret(r.Context(), user.UserID)
	if err != nil || secret == "" || !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestID)
		return
	}

	if err := h.Store.SetMFAEnabled(r.Context(), user.UserID, false); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_disable_failed", "failed to disable mfa", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "disabled"}, requestID)
}

// handleRequestReset always answers success so the endpoint cannot be
// used to discover which emails exist.
func (h *Handler) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	if userID, err := h.Store.UserIDByEmail(r.Context(), payload.Email); err == nil {
		token, err := generateToken()
		if err != nil {
			slog.Warn("password reset token generation failed", "userId", userID, "err", err)
		} else {
			expires := time.Now().Add(2 * time.Hour)
			if err := h.Store.CreatePasswordReset(r.Context(), userID, auth.HashToken(token), expires); err != nil {
				slog.Warn("password reset insert failed", "userId", userID, "err", err)
			} else if h.Mailer != nil {
				body := "Use this token to reset your password: " + token
				if err := h.Mailer.Send(r.Context(), h.From, payload.Email, "Password reset", body); err != nil {
					slog.Warn("password reset email failed", "err", err)
				}
			}
		}
	}

	api.Success(w, map[string]string{"status": "reset_requested"}, requestID)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("token", payload.Token, "is required")
	v.Required("newPassword", payload.NewPassword, "is required")
	if len(payload.NewPassword) > 0 && len(payload.NewPassword) < 8 {
		v.Add("newPassword", "must be at least 8 characters")
	}
	if v.Reject(w, requestID) {
		return
	}

	tokenHash := auth.HashToken(payload.Token)
	userID, err := h.Store.PasswordResetUserID(r.Context(), tokenHash)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_token", "invalid or expired token", requestID)
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to update password", requestID)
		return
	}
	if err := h.Store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update password", requestID)
		return
	}
	if err := h.Store.MarkPasswordResetUsed(r.Context(), tokenHash); err != nil {
		slog.Warn("password reset mark used failed", "err", err)
	}

	api.Success(w, map[string]string{"status": "password_reset"}, requestID)
}

func generateToken() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}
