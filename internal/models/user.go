package models

import "time"

// User represents an account in the system
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	OAuthProvider string
	OAuthSubject  string
	IsPro         bool
	PlanExpiresAt *time.Time
	DailySummary  bool
	IsAdmin       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasActivePlan reports whether the user's pro plan is currently active.
// A nil PlanExpiresAt on a pro user means a non-expiring plan.
func (u *User) HasActivePlan(now time.Time) bool {
	if !u.IsPro {
		return false
	}
	if u.PlanExpiresAt == nil {
		return true
	}
	return now.Before(*u.PlanExpiresAt)
}
