package progress

import (
	"fmt"
	"strings"
	"time"

	"teyra/internal/models"
)

// Category is one of the daily rate-limited action kinds.
type Category string

const (
	CategoryMoodCheck Category = "mood-check"
	CategoryAISplit   Category = "ai-split"
	CategoryAIParse   Category = "ai-parse"
)

// Default per-day limits for free-tier users.
const (
	DefaultMoodCheckLimit = 3
	DefaultAISplitLimit   = 3
	DefaultAIParseLimit   = 5
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMoodCheck, CategoryAISplit, CategoryAIParse:
		return true
	default:
		return false
	}
}

// ParseCategory normalizes and validates a category string.
func ParseCategory(input string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(input)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid limit category: %q", input)
	}
	return c, nil
}

// counter returns the daily counter for a category.
func counter(rec models.ProgressRecord, c Category) int {
	switch c {
	case CategoryMoodCheck:
		return rec.DailyMoodChecks
	case CategoryAISplit:
		return rec.DailyAISplits
	default:
		return rec.DailyParses
	}
}

// setCounter writes the daily counter for a category.
func setCounter(rec models.ProgressRecord, c Category, v int) models.ProgressRecord {
	switch c {
	case CategoryMoodCheck:
		rec.DailyMoodChecks = v
	case CategoryAISplit:
		rec.DailyAISplits = v
	default:
		rec.DailyParses = v
	}
	return rec
}

// CheckDailyLimit runs the daily reset first so a stale counter is
// never evaluated, then decides whether the action is allowed. Free
// users are allowed while the counter is under the limit; pro users are
// always allowed, with the counter still incremented so usage stays
// observable. The returned record reflects any reset and any increment.
func CheckDailyLimit(rec models.ProgressRecord, c Category, limit int, isPro bool, now time.Time) (models.ProgressRecord, models.LimitStatus, error) {
	if !c.IsValid() {
		return rec, models.LimitStatus{}, fmt.Errorf("invalid limit category: %q", c)
	}

	rec, _ = CheckDailyReset(rec, now)

	before := counter(rec, c)
	status := models.LimitStatus{Before: before, After: before, Limit: limit}

	if !isPro && before >= limit {
		return rec, status, nil
	}

	rec = setCounter(rec, c, before+1)
	rec.UpdatedAt = now
	status.Allowed = true
	status.After = before + 1
	return rec, status, nil
}

// ZeroCategory clears a single daily counter. This is the debug path
// only; normal resets always clear all categories together.
func ZeroCategory(rec models.ProgressRecord, c Category, now time.Time) models.ProgressRecord {
	rec = setCounter(rec, c, 0)
	rec.UpdatedAt = now
	return rec
}
