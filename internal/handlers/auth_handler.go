package handlers

import (
	"errors"
	"log"
	"net/http"

	"teyra/internal/service"
	"teyra/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService

	oauthGoogle          *OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, google *OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		oauthGoogle:          google,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	user, token, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Error(), "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email is already registered", "", nil)
		case errors.Is(err, service.ErrSignupClosed):
			writeError(w, http.StatusForbidden, "Signups are currently closed", "", nil)
		default:
			writeError(w, http.StatusInternalServerError, "Registration failed", "Error registering user", err)
		}
		return
	}

	if h.emailService.IsEnabled() {
		if err := h.emailService.SendWelcome(user); err != nil {
			log.Printf("Error sending welcome email to %s: %v", user.Email, err)
		}
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: newUserView(user)})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Login failed", "Error logging in", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: newUserView(user)})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, newUserView(user))
}

// UpdatePreferences handles PATCH /api/auth/me
func (h *AuthHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		DailySummary *bool `json:"daily_summary"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if req.DailySummary != nil {
		if err := h.authService.SetDailySummary(user.ID, *req.DailySummary); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update preferences", "Error updating preferences", err)
			return
		}
		user.DailySummary = *req.DailySummary
	}

	writeJSON(w, http.StatusOK, newUserView(user))
}

// DeleteAccount handles DELETE /api/auth/me
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.authService.DeleteAccount(user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete account", "Error deleting account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
