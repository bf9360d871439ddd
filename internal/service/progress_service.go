package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"teyra/internal/models"
	"teyra/internal/progress"
	"teyra/internal/repository"
)

// ErrLimitReached is returned when a free-tier user has exhausted a
// daily category.
var ErrLimitReached = errors.New("daily limit reached")

// SubscriptionProvider answers whether a user is on the pro plan.
// Billing itself is an external system; this is the only question the
// progress rules ever ask it.
type SubscriptionProvider interface {
	IsPro(userID int64) (bool, error)
}

// DailyLimits carries the configured free-tier limits per category.
type DailyLimits struct {
	MoodCheck int
	AISplit   int
	AIParse   int
}

func (l DailyLimits) forCategory(c progress.Category) int {
	switch c {
	case progress.CategoryMoodCheck:
		return l.MoodCheck
	case progress.CategoryAISplit:
		return l.AISplit
	default:
		return l.AIParse
	}
}

// ProgressService orchestrates the progress engine against storage:
// it loads a record, applies the pure rules, and persists the outcome
// through the repository's guarded statements, re-reading and deciding
// again when a concurrent writer got there first.
type ProgressService struct {
	progressRepo *repository.ProgressRepository
	taskRepo     *repository.TaskRepository
	subs         SubscriptionProvider
	limits       DailyLimits
	now          func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(progressRepo *repository.ProgressRepository, taskRepo *repository.TaskRepository, subs SubscriptionProvider, limits DailyLimits) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		taskRepo:     taskRepo,
		subs:         subs,
		limits:       limits,
		now:          time.Now,
	}
}

// getOrCreate loads a user's record, lazily initializing on first use.
func (s *ProgressService) getOrCreate(userID int64) (models.ProgressRecord, error) {
	rec, err := s.progressRepo.GetByUserID(userID)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	if rec != nil {
		return *rec, nil
	}

	fresh := progress.NewRecord(userID, s.now())
	if err := s.progressRepo.Create(fresh); err != nil {
		return models.ProgressRecord{}, fmt.Errorf("failed to initialize progress record: %w", err)
	}
	return fresh, nil
}

// loadWithReset loads a record and applies the daily boundary if due.
// The reset write is guarded on the last_reset_at value that was read;
// losing the race to another writer just means re-reading the fresh
// state, so counters reset exactly once per window.
func (s *ProgressService) loadWithReset(userID int64) (models.ProgressRecord, bool, error) {
	rec, err := s.getOrCreate(userID)
	if err != nil {
		return models.ProgressRecord{}, false, err
	}

	updated, didReset := progress.CheckDailyReset(rec, s.now())
	if !didReset {
		return rec, false, nil
	}

	applied, err := s.progressRepo.SaveReset(updated, rec.LastResetAt)
	if err != nil {
		return models.ProgressRecord{}, false, err
	}
	if !applied {
		// Another request or the sweep got here first.
		fresh, err := s.progressRepo.GetByUserID(userID)
		if err != nil {
			return models.ProgressRecord{}, false, err
		}
		if fresh == nil {
			return models.ProgressRecord{}, false, fmt.Errorf("progress record vanished for user %d", userID)
		}
		return *fresh, false, nil
	}
	return updated, true, nil
}

// GetProgress returns the display view: lifetime gauge, today gauge and
// counters, running the lazy reset first.
func (s *ProgressService) GetProgress(userID int64) (*models.ProgressView, error) {
	rec, didReset, err := s.loadWithReset(userID)
	if err != nil {
		return nil, err
	}

	return &models.ProgressView{
		Mood:            rec.CurrentMood,
		GaugeValue:      progress.GaugeValue(rec.AllTimeCompleted, rec.MaxValue),
		GaugeMax:        rec.MaxValue,
		TodayValue:      progress.GaugeValue(rec.DailyCompletedTasks, rec.MaxValue),
		TodayMax:        rec.MaxValue,
		AllTime:         rec.AllTimeCompleted,
		CompletedToday:  rec.DailyCompletedTasks,
		DidReset:        didReset,
		NextResetAt:     progress.NextResetAt(rec),
		NextMilestoneAt: nextMilestoneAt(rec.AllTimeCompleted),
		Limits: models.LimitsSnapshot{
			MoodChecks: models.LimitUsage{Used: rec.DailyMoodChecks, Limit: s.limits.MoodCheck},
			AISplits:   models.LimitUsage{Used: rec.DailyAISplits, Limit: s.limits.AISplit},
			AIParses:   models.LimitUsage{Used: rec.DailyParses, Limit: s.limits.AIParse},
		},
	}, nil
}

// nextMilestoneAt returns the lifetime count that unlocks the next
// tier, or nil when the user sits in the top tier.
func nextMilestoneAt(allTimeCompleted int) *int {
	for _, m := range progress.Milestones() {
		if m.Threshold > allTimeCompleted {
			at := m.Threshold
			return &at
		}
	}
	return nil
}

// ConsumeLimit decides whether a rate-limited action may run, and
// persists the counter increment when it does. The increment is
// guarded on the counter value the decision saw; losing that guard to
// a concurrent consumer means re-reading and deciding again, so the
// counter never skips or loses a consumption.
func (s *ProgressService) ConsumeLimit(userID int64, category progress.Category) (models.LimitStatus, error) {
	isPro, err := s.subs.IsPro(userID)
	if err != nil {
		return models.LimitStatus{}, fmt.Errorf("failed to check subscription: %w", err)
	}

	limit := s.limits.forCategory(category)
	for attempt := 0; attempt < 3; attempt++ {
		rec, _, err := s.loadWithReset(userID)
		if err != nil {
			return models.LimitStatus{}, err
		}

		_, status, err := progress.CheckDailyLimit(rec, category, limit, isPro, s.now())
		if err != nil {
			return models.LimitStatus{}, err
		}
		if !status.Allowed {
			return status, nil
		}

		applied, err := s.progressRepo.ConsumeCategory(userID, string(category), status.Before)
		if err != nil {
			return models.LimitStatus{}, err
		}
		if applied {
			return status, nil
		}
	}
	return models.LimitStatus{}, fmt.Errorf("limit counter contention for user %d", userID)
}

// CheckIn records a user-submitted mood, rate-limited as the
// mood-check category. The override persists until the next milestone
// crossing rewrites the derived mood.
func (s *ProgressService) CheckIn(userID int64, mood progress.Mood) (models.LimitStatus, error) {
	status, err := s.ConsumeLimit(userID, progress.CategoryMoodCheck)
	if err != nil {
		return models.LimitStatus{}, err
	}
	if !status.Allowed {
		return status, ErrLimitReached
	}

	if err := s.progressRepo.SaveMood(userID, string(mood)); err != nil {
		return status, err
	}
	return status, nil
}

// Honesty computes the behavioral trust score from the last week of
// task activity plus today's check-in state.
func (s *ProgressService) Honesty(userID int64) (int, progress.Mood, progress.HonestyMetrics, error) {
	rec, _, err := s.loadWithReset(userID)
	if err != nil {
		return 0, "", progress.HonestyMetrics{}, err
	}

	weekAgo := s.now().Add(-7 * 24 * time.Hour)
	stats, err := s.taskRepo.GetActivityStats(userID, weekAgo)
	if err != nil {
		return 0, "", progress.HonestyMetrics{}, err
	}

	metrics := honestyMetricsFrom(stats, rec)
	score := progress.ComputeHonestyScore(metrics)
	return score, progress.MoodFromHonesty(score), metrics, nil
}

// honestyMetricsFrom normalizes raw activity counts into the four
// [0,1] sub-metrics.
func honestyMetricsFrom(stats *repository.ActivityStats, rec models.ProgressRecord) progress.HonestyMetrics {
	var m progress.HonestyMetrics

	if stats.TotalTasks > 0 {
		m.TaskUpdateFrequency = ratio(stats.UpdatedSince, stats.TotalTasks)

		// Variety peaks when open and completed tasks are balanced
		// and bottoms out when every task is in one state.
		open := stats.TotalTasks - stats.CompletedTasks
		m.StatusVariety = ratio(2*min(open, stats.CompletedTasks), stats.TotalTasks)
	}

	m.TimelyUpdates = ratio(stats.ActiveDaysSince, 7)

	if rec.DailyMoodChecks > 0 {
		m.ConsistentCheckins = 1
	}

	return m
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	r := float64(n) / float64(d)
	if r > 1 {
		return 1
	}
	return r
}

// AdminResetLifetime zeroes a user's lifetime counter. actorID is the
// admin performing the reset; the prior value is logged so the reset
// stays auditable.
func (s *ProgressService) AdminResetLifetime(userID, actorID int64) (models.ProgressRecord, error) {
	rec, err := s.getOrCreate(userID)
	if err != nil {
		return models.ProgressRecord{}, err
	}

	log.Printf("admin %d reset lifetime counter for user %d (was %d)", actorID, userID, rec.AllTimeCompleted)

	rec = progress.AdminResetLifetime(rec, s.now())
	if err := s.progressRepo.ResetLifetime(userID, rec.CurrentMood, rec.MaxValue); err != nil {
		return models.ProgressRecord{}, err
	}
	return rec, nil
}

// ZeroCategory clears one daily counter for a user (debug path)
func (s *ProgressService) ZeroCategory(userID int64, category progress.Category) (models.ProgressRecord, error) {
	rec, err := s.getOrCreate(userID)
	if err != nil {
		return models.ProgressRecord{}, err
	}

	rec = progress.ZeroCategory(rec, category, s.now())
	if err := s.progressRepo.ZeroCategory(userID, string(category)); err != nil {
		return models.ProgressRecord{}, err
	}
	return rec, nil
}

// RunResetSweep walks every progress record and applies the daily
// boundary where due. onReset, when non-nil, runs once per record that
// actually reset, with the pre-reset state so callers can report
// yesterday's numbers.
func (s *ProgressService) RunResetSweep(batchSize int, onReset func(before models.ProgressRecord)) (int, error) {
	resets := 0
	err := s.progressRepo.ListAll(batchSize, func(rec models.ProgressRecord) error {
		updated, due := progress.CheckDailyReset(rec, s.now())
		if !due {
			return nil
		}

		applied, err := s.progressRepo.SaveReset(updated, rec.LastResetAt)
		if err != nil {
			return err
		}
		if !applied {
			// A lazy per-request check beat the sweep; nothing to do.
			return nil
		}

		resets++
		if onReset != nil {
			onReset(rec)
		}
		return nil
	})
	if err != nil {
		return resets, fmt.Errorf("reset sweep failed: %w", err)
	}
	return resets, nil
}

// CountDueResets reports how many records a sweep would reset right
// now, without writing anything.
func (s *ProgressService) CountDueResets(batchSize int) (int, error) {
	due := 0
	err := s.progressRepo.ListAll(batchSize, func(rec models.ProgressRecord) error {
		if progress.ResetDue(rec.LastResetAt, s.now()) {
			due++
		}
		return nil
	})
	if err != nil {
		return due, fmt.Errorf("failed to count due resets: %w", err)
	}
	return due, nil
}
