package service

import (
	"fmt"
	"time"

	"teyra/internal/repository"
)

// UserSubscriptionProvider answers pro-status questions from the users
// table. The billing system that flips the flag lives outside this
// service; webhooks land on the admin surface.
type UserSubscriptionProvider struct {
	userRepo *repository.UserRepository
	now      func() time.Time
}

func NewUserSubscriptionProvider(userRepo *repository.UserRepository) *UserSubscriptionProvider {
	return &UserSubscriptionProvider{userRepo: userRepo, now: time.Now}
}

// IsPro reports whether the user has an active pro plan
func (p *UserSubscriptionProvider) IsPro(userID int64) (bool, error) {
	user, err := p.userRepo.GetUserByID(userID)
	if err != nil {
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return false, nil
	}
	return user.HasActivePlan(p.now()), nil
}
