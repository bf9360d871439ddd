package progress

import (
	"time"

	"teyra/internal/models"
)

// NewRecord builds the default progress record for a user observed for
// the first time: zero counters, lowest-tier mood and ceiling, and no
// reset history.
func NewRecord(userID int64, now time.Time) models.ProgressRecord {
	tier := ResolveMilestone(0)
	return models.ProgressRecord{
		UserID:      userID,
		CurrentMood: string(tier.Mood),
		MaxValue:    tier.MaxValue,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyCompletionDelta applies a single completion (+1) or
// uncompletion (-1) to both the lifetime and the daily counter, then
// re-resolves the milestone so mood and ceiling land in the same write
// as the counter change. Counters floor at 0; an uncompletion racing a
// daily reset is benign rather than an error.
//
// The caller guarantees the delta corresponds to exactly one task
// actually transitioning between incomplete and complete.
func ApplyCompletionDelta(rec models.ProgressRecord, delta int, now time.Time) models.ProgressRecord {
	if delta > 0 {
		rec.AllTimeCompleted++
		rec.DailyCompletedTasks++
	} else if delta < 0 {
		if rec.AllTimeCompleted > 0 {
			rec.AllTimeCompleted--
		}
		if rec.DailyCompletedTasks > 0 {
			rec.DailyCompletedTasks--
		}
	}

	tier := ResolveMilestone(rec.AllTimeCompleted)
	rec.CurrentMood = string(tier.Mood)
	rec.MaxValue = tier.MaxValue
	rec.UpdatedAt = now
	return rec
}

// AdminResetLifetime zeroes the lifetime counter and drops the record
// back to the lowest tier. This is the explicit administrative reset;
// it is never part of normal operation and callers are expected to log
// the actor and the prior value.
func AdminResetLifetime(rec models.ProgressRecord, now time.Time) models.ProgressRecord {
	rec.AllTimeCompleted = 0
	rec.DailyCompletedTasks = 0
	tier := ResolveMilestone(0)
	rec.CurrentMood = string(tier.Mood)
	rec.MaxValue = tier.MaxValue
	rec.UpdatedAt = now
	return rec
}
