package progress

import (
	"time"

	"teyra/internal/models"
)

// ResetInterval is the rolling window after which a user's daily
// counters reset. The window is anchored to the user's own last reset,
// not to midnight, so two users reset at different instants
// indefinitely.
const ResetInterval = 24 * time.Hour

// ResetDue reports whether a daily reset should fire. A record that has
// never reset is always due.
func ResetDue(lastResetAt *time.Time, now time.Time) bool {
	if lastResetAt == nil {
		return true
	}
	return now.Sub(*lastResetAt) >= ResetInterval
}

// CheckDailyReset applies the daily boundary if it is due and reports
// whether it fired. All four daily counters zero together; the lifetime
// counter, mood and ceiling are untouched. Calling it again inside the
// same window is a no-op, so the scheduled sweep and the lazy
// per-request path can both run it and produce identical state.
func CheckDailyReset(rec models.ProgressRecord, now time.Time) (models.ProgressRecord, bool) {
	if !ResetDue(rec.LastResetAt, now) {
		return rec, false
	}

	rec.DailyCompletedTasks = 0
	rec.DailyMoodChecks = 0
	rec.DailyAISplits = 0
	rec.DailyParses = 0
	resetAt := now
	rec.LastResetAt = &resetAt
	rec.UpdatedAt = now
	return rec, true
}

// NextResetAt returns when the current window closes, or nil when a
// reset has never happened (the next touch will fire one).
func NextResetAt(rec models.ProgressRecord) *time.Time {
	if rec.LastResetAt == nil {
		return nil
	}
	next := rec.LastResetAt.Add(ResetInterval)
	return &next
}
