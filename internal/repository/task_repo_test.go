package repository

import (
	"fmt"
	"testing"
	"time"
)

func TestSetCompletedWithProgressMovesCountersPerTransition(t *testing.T) {
	db := openTestDB(t)
	userID := createTestUser(t, db, "tasks@example.com")
	taskRepo := NewTaskRepository(db)
	progressRepo := NewProgressRepository(db)
	createTestProgress(t, progressRepo, userID)

	for _, id := range []string{"task-1", "task-2"} {
		if _, err := taskRepo.CreateTask(id, userID, "Task "+id); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	// Two requests read the same starting state before either one
	// writes; the in-database increment must still count both.
	if _, err := progressRepo.GetByUserID(userID); err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if _, err := progressRepo.GetByUserID(userID); err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}

	now := time.Now()
	if _, err := taskRepo.SetCompletedWithProgress("task-1", userID, true, &now); err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}
	rec, err := taskRepo.SetCompletedWithProgress("task-2", userID, true, &now)
	if err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}

	if rec.AllTimeCompleted != 2 {
		t.Errorf("AllTimeCompleted = %d, want 2", rec.AllTimeCompleted)
	}
	if rec.DailyCompletedTasks != 2 {
		t.Errorf("DailyCompletedTasks = %d, want 2", rec.DailyCompletedTasks)
	}

	task, err := taskRepo.GetTaskByID("task-1")
	if err != nil {
		t.Fatalf("GetTaskByID failed: %v", err)
	}
	if !task.Completed || task.CompletedAt == nil {
		t.Error("task-1 should be completed with a timestamp")
	}
}

func TestSetCompletedWithProgressIgnoresRepeatedTransition(t *testing.T) {
	db := openTestDB(t)
	userID := createTestUser(t, db, "repeat@example.com")
	taskRepo := NewTaskRepository(db)
	progressRepo := NewProgressRepository(db)
	createTestProgress(t, progressRepo, userID)

	if _, err := taskRepo.CreateTask("task-1", userID, "Submit expenses"); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	now := time.Now()
	if _, err := taskRepo.SetCompletedWithProgress("task-1", userID, true, &now); err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}

	rec, err := taskRepo.SetCompletedWithProgress("task-1", userID, true, &now)
	if err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}
	if rec != nil {
		t.Fatal("repeating the same transition should report no transition")
	}

	fresh, err := progressRepo.GetByUserID(userID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if fresh.AllTimeCompleted != 1 {
		t.Errorf("AllTimeCompleted = %d, want 1", fresh.AllTimeCompleted)
	}
}

func TestSetCompletedWithProgressUncompletionFloorsAtZero(t *testing.T) {
	db := openTestDB(t)
	userID := createTestUser(t, db, "floor@example.com")
	taskRepo := NewTaskRepository(db)
	progressRepo := NewProgressRepository(db)
	createTestProgress(t, progressRepo, userID)

	if _, err := taskRepo.CreateTask("task-1", userID, "Water plants"); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	now := time.Now()
	if _, err := taskRepo.SetCompletedWithProgress("task-1", userID, true, &now); err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}

	rec, err := taskRepo.SetCompletedWithProgress("task-1", userID, false, nil)
	if err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}
	if rec.AllTimeCompleted != 0 || rec.DailyCompletedTasks != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0)", rec.AllTimeCompleted, rec.DailyCompletedTasks)
	}

	// Another un-completion on a zeroed record must not go negative.
	if _, err := taskRepo.SetCompletedWithProgress("task-1", userID, true, &now); err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}
	if err := progressRepo.ResetLifetime(userID, "overwhelmed", 10); err != nil {
		t.Fatalf("ResetLifetime failed: %v", err)
	}
	rec, err = taskRepo.SetCompletedWithProgress("task-1", userID, false, nil)
	if err != nil {
		t.Fatalf("SetCompletedWithProgress failed: %v", err)
	}
	if rec.AllTimeCompleted != 0 || rec.DailyCompletedTasks != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0) after flooring", rec.AllTimeCompleted, rec.DailyCompletedTasks)
	}
}

func TestSetCompletedWithProgressRewritesMilestoneOnCrossing(t *testing.T) {
	db := openTestDB(t)
	userID := createTestUser(t, db, "milestone@example.com")
	taskRepo := NewTaskRepository(db)
	progressRepo := NewProgressRepository(db)
	createTestProgress(t, progressRepo, userID)

	now := time.Now()
	var lastMood string
	var lastMax int
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("task-%d", i)
		if _, err := taskRepo.CreateTask(id, userID, "Task "+id); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		rec, err := taskRepo.SetCompletedWithProgress(id, userID, true, &now)
		if err != nil {
			t.Fatalf("SetCompletedWithProgress failed: %v", err)
		}
		lastMood, lastMax = rec.CurrentMood, rec.MaxValue
	}

	if lastMood != "neutral" || lastMax != 15 {
		t.Errorf("milestone after 10 completions = (%q, %d), want (neutral, 15)", lastMood, lastMax)
	}

	fresh, err := progressRepo.GetByUserID(userID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if fresh.CurrentMood != "neutral" || fresh.MaxValue != 15 {
		t.Errorf("persisted milestone = (%q, %d), want (neutral, 15)", fresh.CurrentMood, fresh.MaxValue)
	}
}
