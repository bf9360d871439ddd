package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"

	"teyra/internal/models"
	"teyra/internal/repository"
	"teyra/internal/service"
)

// CronHandler serves the scheduler-triggered endpoints. Requests
// authenticate with a shared secret rather than a user token.
type CronHandler struct {
	progressService *service.ProgressService
	emailService    *service.EmailService
	userRepo        *repository.UserRepository
	cronSecret      string
	sweepBatchSize  int
}

// NewCronHandler creates a new cron handler
func NewCronHandler(progressService *service.ProgressService, emailService *service.EmailService, userRepo *repository.UserRepository, cronSecret string, sweepBatchSize int) *CronHandler {
	return &CronHandler{
		progressService: progressService,
		emailService:    emailService,
		userRepo:        userRepo,
		cronSecret:      cronSecret,
		sweepBatchSize:  sweepBatchSize,
	}
}

// Reset handles POST /api/cron/reset. It sweeps every progress record
// whose reset is due and, for subscribers, mails a summary of the day
// that just closed.
func (h *CronHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Invalid cron secret", "", nil)
		return
	}

	count, err := h.progressService.RunResetSweep(h.sweepBatchSize, h.sendSummary)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Reset sweep failed", "Error running reset sweep", err)
		return
	}

	log.Printf("Reset sweep completed: %d records reset", count)
	writeJSON(w, http.StatusOK, map[string]int{"reset": count})
}

func (h *CronHandler) authorized(r *http.Request) bool {
	if h.cronSecret == "" {
		return false
	}
	provided := r.Header.Get("X-Cron-Secret")
	if provided == "" {
		provided = bearerToken(r)
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(h.cronSecret)) == 1
}

// sendSummary mails the pre-reset counters to users who opted in.
// Email failures never fail the sweep.
func (h *CronHandler) sendSummary(before models.ProgressRecord) {
	if !h.emailService.IsEnabled() {
		return
	}

	user, err := h.userRepo.GetUserByID(before.UserID)
	if err != nil || user == nil || !user.DailySummary {
		return
	}

	if err := h.emailService.SendDailySummary(user, before); err != nil {
		log.Printf("Error sending daily summary to %s: %v", user.Email, err)
	}
}
