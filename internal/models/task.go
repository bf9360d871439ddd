package models

import "time"

// Task represents a single task owned by a user
type Task struct {
	ID           string
	UserID       int64
	Title        string
	Completed    bool
	HasBeenSplit bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// TaskWithGauge combines a task list summary with the owner's gauge state
type TaskWithGauge struct {
	Tasks          []Task
	CompletedToday int
	GaugeValue     int
	GaugeMax       int
	Mood           string
}
