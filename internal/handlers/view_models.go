package handlers

import (
	"time"

	"teyra/internal/models"
	"teyra/internal/progress"
)

// userView is the account shape returned to API consumers. The
// password hash and OAuth subject never leave the server.
type userView struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	IsPro        bool       `json:"is_pro"`
	DailySummary bool       `json:"daily_summary"`
	IsAdmin      bool       `json:"is_admin,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	PlanExpires  *time.Time `json:"plan_expires_at,omitempty"`
}

type taskView struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Completed    bool       `json:"completed"`
	HasBeenSplit bool       `json:"has_been_split"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type progressView struct {
	Mood           string      `json:"mood"`
	GaugeValue     int         `json:"gauge_value"`
	GaugeMax       int         `json:"gauge_max"`
	TodayValue     int         `json:"today_value"`
	TodayMax       int         `json:"today_max"`
	AllTime        int         `json:"all_time_completed"`
	CompletedToday int         `json:"completed_today"`
	DidReset       bool        `json:"did_reset"`
	NextResetAt    *time.Time  `json:"next_reset_at,omitempty"`
	NextMilestone  *int        `json:"next_milestone_at,omitempty"`
	Limits         *limitsView `json:"limits,omitempty"`
}

type limitsView struct {
	MoodChecks limitView `json:"mood_checks"`
	AISplits   limitView `json:"ai_splits"`
	AIParses   limitView `json:"ai_parses"`
}

type limitView struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		IsPro:        u.IsPro,
		DailySummary: u.DailySummary,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		PlanExpires:  u.PlanExpiresAt,
	}
}

func newTaskView(t *models.Task) taskView {
	return taskView{
		ID:           t.ID,
		Title:        t.Title,
		Completed:    t.Completed,
		HasBeenSplit: t.HasBeenSplit,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
	}
}

func newTaskViews(tasks []models.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, newTaskView(&tasks[i]))
	}
	return views
}

func newProgressView(v *models.ProgressView) progressView {
	return progressView{
		Mood:           v.Mood,
		GaugeValue:     v.GaugeValue,
		GaugeMax:       v.GaugeMax,
		TodayValue:     v.TodayValue,
		TodayMax:       v.TodayMax,
		AllTime:        v.AllTime,
		CompletedToday: v.CompletedToday,
		DidReset:       v.DidReset,
		NextResetAt:    v.NextResetAt,
		NextMilestone:  v.NextMilestoneAt,
		Limits: &limitsView{
			MoodChecks: limitView{Used: v.Limits.MoodChecks.Used, Limit: v.Limits.MoodChecks.Limit},
			AISplits:   limitView{Used: v.Limits.AISplits.Used, Limit: v.Limits.AISplits.Limit},
			AIParses:   limitView{Used: v.Limits.AIParses.Used, Limit: v.Limits.AIParses.Limit},
		},
	}
}

func newLimitView(s models.LimitStatus) limitView {
	return limitView{Used: s.After, Limit: s.Limit}
}

// taskGaugeView renders the gauge block attached to a task list. The
// today value is capped at the tier ceiling like every other gauge.
func taskGaugeView(g *models.TaskWithGauge) progressView {
	return progressView{
		Mood:           g.Mood,
		GaugeValue:     g.GaugeValue,
		GaugeMax:       g.GaugeMax,
		TodayValue:     progress.GaugeValue(g.CompletedToday, g.GaugeMax),
		TodayMax:       g.GaugeMax,
		CompletedToday: g.CompletedToday,
	}
}

// recordGaugeView summarizes a freshly written progress record the way
// task mutations report it back.
func recordGaugeView(rec models.ProgressRecord) progressView {
	return progressView{
		Mood:           rec.CurrentMood,
		GaugeValue:     progress.GaugeValue(rec.AllTimeCompleted, rec.MaxValue),
		GaugeMax:       rec.MaxValue,
		TodayValue:     progress.GaugeValue(rec.DailyCompletedTasks, rec.MaxValue),
		TodayMax:       rec.MaxValue,
		AllTime:        rec.AllTimeCompleted,
		CompletedToday: rec.DailyCompletedTasks,
	}
}
