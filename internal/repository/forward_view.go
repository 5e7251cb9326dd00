package repository

import (
	"context"

	"tapforward/internal/models"

	"gorm.io/gorm"
)

// ForwardViewRepository records unique-viewer events. Inserts that lose to
// the (forward_id, viewer_fingerprint) constraint are reported as already
// counted, not as errors; rows are never mutated or deleted, so counts are
// monotonically non-decreasing.
type ForwardViewRepository interface {
	// Record inserts a view for (forwardID, viewerFingerprint). isNew is
	// false when the viewer was already counted for this forward.
	Record(ctx context.Context, forwardID uint, viewerFingerprint string) (isNew bool, err error)
	Count(ctx context.Context, forwardID uint) (int64, error)
	CountByMessage(ctx context.Context, messageID uint) (int64, error)
}

// forwardViewRepository implements ForwardViewRepository
type forwardViewRepository struct {
	db *gorm.DB
}

// NewForwardViewRepository creates a new forward view repository
func NewForwardViewRepository(db *gorm.DB) ForwardViewRepository {
	return &forwardViewRepository{db: db}
}

func (r *forwardViewRepository) Record(ctx context.Context, forwardID uint, viewerFingerprint string) (bool, error) {
	view := &models.ForwardView{
		ForwardID:         forwardID,
		ViewerFingerprint: viewerFingerprint,
	}
	if err := r.db.WithContext(ctx).Create(view).Error; err != nil {
		if isConflict(err) {
			return false, nil
		}
		return false, models.NewUpstreamUnavailableError(err)
	}
	return true, nil
}

func (r *forwardViewRepository) Count(ctx context.Context, forwardID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ForwardView{}).
		Where("forward_id = ?", forwardID).
		Count(&count).Error; err != nil {
		return 0, models.NewUpstreamUnavailableError(err)
	}
	return count, nil
}

func (r *forwardViewRepository) CountByMessage(ctx context.Context, messageID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ForwardView{}).
		Joins("JOIN forwards ON forwards.id = forward_views.forward_id").
		Where("forwards.message_id = ?", messageID).
		Count(&count).Error; err != nil {
		return 0, models.NewUpstreamUnavailableError(err)
	}
	return count, nil
}
