package progress

import (
	"testing"
	"time"
)

func TestResetDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	hoursAgo := func(h int) *time.Time {
		ts := now.Add(-time.Duration(h) * time.Hour)
		return &ts
	}

	tests := []struct {
		name        string
		lastResetAt *time.Time
		want        bool
	}{
		{"never reset", nil, true},
		{"one hour ago", hoursAgo(1), false},
		{"just under the window", hoursAgo(23), false},
		{"exactly 24 hours", hoursAgo(24), true},
		{"well past the window", hoursAgo(25), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResetDue(tt.lastResetAt, now); got != tt.want {
				t.Errorf("ResetDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckDailyResetClearsDailyCountersOnly(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-25 * time.Hour)

	rec := NewRecord(1, last)
	rec.AllTimeCompleted = 12
	rec.DailyCompletedTasks = 3
	rec.DailyMoodChecks = 2
	rec.DailyAISplits = 1
	rec.DailyParses = 4
	rec.CurrentMood = string(MoodNeutral)
	rec.MaxValue = 15
	rec.LastResetAt = &last

	got, didReset := CheckDailyReset(rec, now)

	if !didReset {
		t.Fatal("expected reset to fire")
	}
	if got.DailyCompletedTasks != 0 || got.DailyMoodChecks != 0 || got.DailyAISplits != 0 || got.DailyParses != 0 {
		t.Errorf("daily counters not all zeroed: %+v", got)
	}
	if got.AllTimeCompleted != 12 {
		t.Errorf("AllTimeCompleted changed: %d", got.AllTimeCompleted)
	}
	if got.CurrentMood != string(MoodNeutral) || got.MaxValue != 15 {
		t.Errorf("lifetime mood/ceiling touched: mood=%s max=%d", got.CurrentMood, got.MaxValue)
	}
	if got.LastResetAt == nil || !got.LastResetAt.Equal(now) {
		t.Errorf("LastResetAt = %v, want %v", got.LastResetAt, now)
	}
}

func TestCheckDailyResetIdempotentWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := NewRecord(1, now)
	rec.DailyCompletedTasks = 2

	first, didReset := CheckDailyReset(rec, now)
	if !didReset {
		t.Fatal("first call on a never-reset record should fire")
	}

	second, didReset := CheckDailyReset(first, now.Add(time.Minute))
	if didReset {
		t.Error("second call inside the window should be a no-op")
	}
	if second != first {
		t.Errorf("record changed on no-op: %+v vs %+v", second, first)
	}
}

func TestNextResetAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := NewRecord(1, now)
	if got := NextResetAt(rec); got != nil {
		t.Errorf("NextResetAt on never-reset record = %v, want nil", got)
	}

	rec.LastResetAt = &now
	got := NextResetAt(rec)
	if got == nil || !got.Equal(now.Add(24*time.Hour)) {
		t.Errorf("NextResetAt = %v, want %v", got, now.Add(24*time.Hour))
	}
}
