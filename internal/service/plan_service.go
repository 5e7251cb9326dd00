package service

import (
	"context"

	"tapforward/internal/cache"
	"tapforward/internal/models"
	"tapforward/internal/repository"
)

// PlanService resolves a user's billing plan. Plans change rarely and gate
// only message retention, so reads go through a short Redis cache.
type PlanService struct {
	subscriptionRepo repository.SubscriptionRepository
}

func NewPlanService(subscriptionRepo repository.SubscriptionRepository) *PlanService {
	return &PlanService{subscriptionRepo: subscriptionRepo}
}

// ResolvePlan returns the user's active plan, defaulting to free.
func (s *PlanService) ResolvePlan(ctx context.Context, userID uint) (models.Plan, error) {
	var plan models.Plan
	err := cache.CacheAside(ctx, cache.PlanKey(userID), &plan, cache.PlanTTL, func() error {
		var err error
		plan, err = s.subscriptionRepo.GetActivePlan(ctx, userID)
		return err
	})
	if err != nil {
		return "", err
	}
	return plan, nil
}
