package progress

import (
	"testing"
	"time"

	"teyra/internal/models"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{"mood check", "mood-check", CategoryMoodCheck, false},
		{"ai split", "ai-split", CategoryAISplit, false},
		{"ai parse", "ai-parse", CategoryAIParse, false},
		{"mixed case with space", " AI-Parse ", CategoryAIParse, false},
		{"unknown", "emails", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheckDailyLimitFreeTier(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := NewRecord(1, now)
	rec.LastResetAt = &now

	// Exhaust a limit of 2.
	for i := 0; i < 2; i++ {
		var status models.LimitStatus
		var err error
		rec, status, err = CheckDailyLimit(rec, CategoryAIParse, 2, false, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.Allowed {
			t.Fatalf("call %d should be allowed", i+1)
		}
		if status.Before != i || status.After != i+1 {
			t.Errorf("call %d: before/after = %d/%d, want %d/%d", i+1, status.Before, status.After, i, i+1)
		}
	}

	rec, status, err := CheckDailyLimit(rec, CategoryAIParse, 2, false, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Allowed {
		t.Error("third call should be blocked at limit 2")
	}
	if status.Before != 2 || status.After != 2 {
		t.Errorf("blocked call must not increment: before/after = %d/%d", status.Before, status.After)
	}
	if rec.DailyParses != 2 {
		t.Errorf("DailyParses = %d, want 2", rec.DailyParses)
	}
}

func TestCheckDailyLimitProNeverBlocks(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := NewRecord(1, now)
	rec.LastResetAt = &now
	rec.DailyAISplits = 99

	rec, status, err := CheckDailyLimit(rec, CategoryAISplit, 3, true, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Allowed {
		t.Error("pro user must always be allowed")
	}
	if rec.DailyAISplits != 100 {
		t.Errorf("pro usage should still count: DailyAISplits = %d, want 100", rec.DailyAISplits)
	}
}

func TestCheckDailyLimitRunsResetFirst(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-30 * time.Hour)

	rec := NewRecord(1, stale)
	rec.DailyMoodChecks = 5
	rec.LastResetAt = &stale

	rec, status, err := CheckDailyLimit(rec, CategoryMoodCheck, 3, false, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Allowed {
		t.Error("stale counter must be reset before evaluation")
	}
	if status.Before != 0 || status.After != 1 {
		t.Errorf("before/after = %d/%d, want 0/1", status.Before, status.After)
	}
	if rec.LastResetAt == nil || !rec.LastResetAt.Equal(now) {
		t.Errorf("reset did not stamp LastResetAt: %v", rec.LastResetAt)
	}
}

func TestCheckDailyLimitInvalidCategory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecord(1, now)

	if _, _, err := CheckDailyLimit(rec, Category("bogus"), 3, false, now); err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestZeroCategory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := NewRecord(1, now)
	rec.DailyMoodChecks = 3
	rec.DailyParses = 4

	rec = ZeroCategory(rec, CategoryMoodCheck, now)

	if rec.DailyMoodChecks != 0 {
		t.Errorf("DailyMoodChecks = %d, want 0", rec.DailyMoodChecks)
	}
	if rec.DailyParses != 4 {
		t.Errorf("other categories must be untouched: DailyParses = %d, want 4", rec.DailyParses)
	}
}
