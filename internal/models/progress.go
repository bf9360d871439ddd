package models

import "time"

// ProgressRecord holds the per-user counters behind the milestone gauge
// and the daily rate limits. One row per user; every counter mutation
// follows the progress engine's rules and the mood and gauge ceiling
// never go stale relative to the lifetime count.
type ProgressRecord struct {
	UserID              int64
	AllTimeCompleted    int
	DailyCompletedTasks int
	DailyMoodChecks     int
	DailyAISplits       int
	DailyParses         int
	CurrentMood         string
	MaxValue            int
	LastResetAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProgressView is the display shape handed to API consumers: the
// lifetime gauge, the today gauge, and the raw counters behind them.
type ProgressView struct {
	Mood            string
	GaugeValue      int
	GaugeMax        int
	TodayValue      int
	TodayMax        int
	AllTime         int
	CompletedToday  int
	DidReset        bool
	NextResetAt     *time.Time
	NextMilestoneAt *int
	Limits          LimitsSnapshot
}

// LimitStatus reports the outcome of a daily rate-limit check so a
// caller can present "N of M used" feedback.
type LimitStatus struct {
	Allowed bool
	Before  int
	After   int
	Limit   int
}

// LimitUsage is one category's position against its daily cap
type LimitUsage struct {
	Used  int
	Limit int
}

// LimitsSnapshot reports all rate-limited categories at once, shown
// alongside the gauge so clients can grey out exhausted features.
type LimitsSnapshot struct {
	MoodChecks LimitUsage
	AISplits   LimitUsage
	AIParses   LimitUsage
}
