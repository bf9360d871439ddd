package progress

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewRecordDefaults(t *testing.T) {
	rec := NewRecord(42, testNow)

	if rec.UserID != 42 {
		t.Errorf("UserID = %d, want 42", rec.UserID)
	}
	if rec.AllTimeCompleted != 0 || rec.DailyCompletedTasks != 0 {
		t.Errorf("counters not zero: allTime=%d daily=%d", rec.AllTimeCompleted, rec.DailyCompletedTasks)
	}
	if rec.CurrentMood != string(MoodOverwhelmed) {
		t.Errorf("CurrentMood = %s, want %s", rec.CurrentMood, MoodOverwhelmed)
	}
	if rec.MaxValue != 10 {
		t.Errorf("MaxValue = %d, want 10", rec.MaxValue)
	}
	if rec.LastResetAt != nil {
		t.Error("LastResetAt should be nil before first reset")
	}
}

func TestApplyCompletionDeltaIncrement(t *testing.T) {
	rec := NewRecord(1, testNow)

	// Ten completions one at a time: tier must land on the
	// threshold-10 milestone with the ceiling at 15.
	for i := 0; i < 10; i++ {
		rec = ApplyCompletionDelta(rec, +1, testNow)
	}

	if rec.AllTimeCompleted != 10 {
		t.Errorf("AllTimeCompleted = %d, want 10", rec.AllTimeCompleted)
	}
	if rec.DailyCompletedTasks != 10 {
		t.Errorf("DailyCompletedTasks = %d, want 10", rec.DailyCompletedTasks)
	}
	if rec.CurrentMood != string(MoodNeutral) {
		t.Errorf("CurrentMood = %s, want %s", rec.CurrentMood, MoodNeutral)
	}
	if rec.MaxValue != 15 {
		t.Errorf("MaxValue = %d, want 15", rec.MaxValue)
	}
	if got := GaugeValue(rec.AllTimeCompleted, rec.MaxValue); got != 10 {
		t.Errorf("gauge value = %d, want 10", got)
	}
}

func TestApplyCompletionDeltaRoundTrip(t *testing.T) {
	rec := NewRecord(1, testNow)
	rec.AllTimeCompleted = 5
	rec.DailyCompletedTasks = 2

	after := ApplyCompletionDelta(ApplyCompletionDelta(rec, +1, testNow), -1, testNow)

	if after.AllTimeCompleted != rec.AllTimeCompleted {
		t.Errorf("AllTimeCompleted = %d, want %d", after.AllTimeCompleted, rec.AllTimeCompleted)
	}
	if after.DailyCompletedTasks != rec.DailyCompletedTasks {
		t.Errorf("DailyCompletedTasks = %d, want %d", after.DailyCompletedTasks, rec.DailyCompletedTasks)
	}
	if after.CurrentMood != string(MoodOverwhelmed) || after.MaxValue != 10 {
		t.Errorf("tier not restored: mood=%s max=%d", after.CurrentMood, after.MaxValue)
	}
}

func TestApplyCompletionDeltaFloorsAtZero(t *testing.T) {
	rec := NewRecord(1, testNow)

	for i := 0; i < 3; i++ {
		rec = ApplyCompletionDelta(rec, -1, testNow)
	}

	if rec.AllTimeCompleted != 0 {
		t.Errorf("AllTimeCompleted went negative: %d", rec.AllTimeCompleted)
	}
	if rec.DailyCompletedTasks != 0 {
		t.Errorf("DailyCompletedTasks went negative: %d", rec.DailyCompletedTasks)
	}
}

func TestApplyCompletionDeltaCrossesTierDownward(t *testing.T) {
	rec := NewRecord(1, testNow)
	rec.AllTimeCompleted = 10
	rec.DailyCompletedTasks = 1

	rec = ApplyCompletionDelta(rec, -1, testNow)

	if rec.AllTimeCompleted != 9 {
		t.Errorf("AllTimeCompleted = %d, want 9", rec.AllTimeCompleted)
	}
	if rec.CurrentMood != string(MoodOverwhelmed) || rec.MaxValue != 10 {
		t.Errorf("tier not re-resolved downward: mood=%s max=%d", rec.CurrentMood, rec.MaxValue)
	}
}

func TestAdminResetLifetime(t *testing.T) {
	rec := NewRecord(1, testNow)
	rec.AllTimeCompleted = 50
	rec.DailyCompletedTasks = 4
	rec.CurrentMood = string(MoodExcited)
	rec.MaxValue = 25

	rec = AdminResetLifetime(rec, testNow)

	if rec.AllTimeCompleted != 0 || rec.DailyCompletedTasks != 0 {
		t.Errorf("counters not zeroed: allTime=%d daily=%d", rec.AllTimeCompleted, rec.DailyCompletedTasks)
	}
	if rec.CurrentMood != string(MoodOverwhelmed) || rec.MaxValue != 10 {
		t.Errorf("not back on lowest tier: mood=%s max=%d", rec.CurrentMood, rec.MaxValue)
	}
}
