package repository

import (
	"context"
	"errors"

	"tapforward/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository reads plan assignments maintained by the external
// billing integration.
type SubscriptionRepository interface {
	// GetActivePlan returns the user's active plan, defaulting to free when
	// no active subscription exists.
	GetActivePlan(ctx context.Context, userID uint) (models.Plan, error)
}

// subscriptionRepository implements SubscriptionRepository
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetActivePlan(ctx context.Context, userID uint) (models.Plan, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("updated_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PlanFree, nil
		}
		return "", models.NewUpstreamUnavailableError(err)
	}
	return sub.Plan, nil
}
