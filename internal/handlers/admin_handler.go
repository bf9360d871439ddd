package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"teyra/internal/progress"
	"teyra/internal/repository"
	"teyra/internal/service"
)

// AdminHandler serves the operator endpoints
type AdminHandler struct {
	userRepo        *repository.UserRepository
	settingsRepo    *repository.SettingsRepository
	progressService *service.ProgressService
	exportService   *service.ExportService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userRepo *repository.UserRepository, settingsRepo *repository.SettingsRepository, progressService *service.ProgressService, exportService *service.ExportService) *AdminHandler {
	return &AdminHandler{
		userRepo:        userRepo,
		settingsRepo:    settingsRepo,
		progressService: progressService,
		exportService:   exportService,
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", "Error listing users", err)
		return
	}

	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": views})
}

// ResetLifetime handles POST /api/admin/users/{id}/reset-lifetime.
// It zeroes the lifetime counter, which drops the user back to the
// first milestone tier.
func (h *AdminHandler) ResetLifetime(w http.ResponseWriter, r *http.Request) {
	actor := GetUserFromContext(r.Context())
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	rec, err := h.progressService.AdminResetLifetime(userID, actor.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset lifetime counter", "Error resetting lifetime counter", err)
		return
	}

	writeJSON(w, http.StatusOK, recordGaugeView(rec))
}

// ZeroCategory handles POST /api/admin/users/{id}/zero-limit. It
// clears one daily limit counter without waiting for the next reset.
func (h *AdminHandler) ZeroCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	category, err := progress.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown limit category", "", nil)
		return
	}

	rec, err := h.progressService.ZeroCategory(userID, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to zero limit counter", "Error zeroing limit counter", err)
		return
	}

	writeJSON(w, http.StatusOK, recordGaugeView(rec))
}

// SetPro handles POST /api/admin/users/{id}/pro
func (h *AdminHandler) SetPro(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		IsPro     bool       `json:"is_pro"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if err := h.userRepo.SetPro(userID, req.IsPro, req.ExpiresAt); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update subscription", "Error updating subscription", err)
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user", "Error loading user after subscription change", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(user))
}

// SetSignupClosed handles POST /api/admin/signups
func (h *AdminHandler) SetSignupClosed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Closed bool `json:"closed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if err := h.settingsRepo.SetSignupClosed(req.Closed); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update signup setting", "Error updating signup setting", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"closed": req.Closed})
}

// Export handles GET /api/admin/export
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=teyra-export.json")

	if err := h.exportService.ExportAll(w); err != nil {
		// Headers are already written, so all we can do is log
		log.Printf("Error exporting data: %v", err)
	}
}

func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid user id", "", nil)
		return 0, false
	}
	return userID, true
}
