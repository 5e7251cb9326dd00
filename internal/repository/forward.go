package repository

import (
	"context"
	"errors"
	"fmt"

	"tapforward/internal/models"
	"tapforward/internal/token"

	"gorm.io/gorm"
)

// ForwardRepository is the append-only ledger of share links. Rows are never
// mutated or deleted; uniqueness of the (message, parent, identity) triple is
// delegated to the store and conflicts are absorbed as lookups.
type ForwardRepository interface {
	// CreateOrReuse inserts a forward for the triple, or returns the existing
	// one when the insert loses the race. reused reports which happened.
	CreateOrReuse(ctx context.Context, messageID uint, parentID *uint, senderID *uint, anonFingerprint *string) (fwd *models.Forward, reused bool, err error)
	GetByID(ctx context.Context, id uint) (*models.Forward, error)
	GetByCode(ctx context.Context, code string) (*models.Forward, error)
	// ListByMessage returns all forwards of a message with their view counts,
	// busiest links first.
	ListByMessage(ctx context.Context, messageID uint) ([]models.Forward, error)
	CountByMessage(ctx context.Context, messageID uint) (int64, error)
	// WalkToRoot follows parent links from the forward up to its root. The
	// walk is bounded by the ledger size; exceeding the bound means the
	// forest invariant was violated outside this application.
	WalkToRoot(ctx context.Context, forwardID uint) ([]models.Forward, error)
}

// forwardRepository implements ForwardRepository
type forwardRepository struct {
	db *gorm.DB
}

// NewForwardRepository creates a new forward repository
func NewForwardRepository(db *gorm.DB) ForwardRepository {
	return &forwardRepository{db: db}
}

// mintAttempts bounds retries when a freshly minted code collides. With 8
// base62 characters a single retry is already overkill.
const mintAttempts = 3

func (r *forwardRepository) CreateOrReuse(ctx context.Context, messageID uint, parentID *uint, senderID *uint, anonFingerprint *string) (*models.Forward, bool, error) {
	for attempt := 0; attempt < mintAttempts; attempt++ {
		code, err := token.NewCode()
		if err != nil {
			return nil, false, models.NewInternalError(err)
		}

		fwd := &models.Forward{
			MessageID:       messageID,
			ParentID:        parentID,
			SenderID:        senderID,
			AnonFingerprint: anonFingerprint,
			UniqueCode:      code,
		}

		createErr := r.db.WithContext(ctx).Create(fwd).Error
		if createErr == nil {
			return fwd, false, nil
		}
		if !isConflict(createErr) {
			return nil, false, models.NewUpstreamUnavailableError(createErr)
		}

		// Conflict absorbed: either the triple already has a forward (the
		// common case) or, far less likely, the code itself collided. Look
		// up by scope key; BeforeCreate filled it in before the insert ran.
		existing, lookupErr := r.getByScopeKey(ctx, fwd.ScopeKey)
		if lookupErr == nil {
			return existing, true, nil
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil, false, models.NewUpstreamUnavailableError(lookupErr)
		}
		// Code collision; mint a new one and try again.
	}
	return nil, false, models.NewInternalError(fmt.Errorf("could not mint a unique forward code after %d attempts", mintAttempts))
}

func (r *forwardRepository) getByScopeKey(ctx context.Context, scopeKey string) (*models.Forward, error) {
	var fwd models.Forward
	if err := r.db.WithContext(ctx).Where("scope_key = ?", scopeKey).First(&fwd).Error; err != nil {
		return nil, err
	}
	return &fwd, nil
}

func (r *forwardRepository) GetByID(ctx context.Context, id uint) (*models.Forward, error) {
	var fwd models.Forward
	if err := r.db.WithContext(ctx).First(&fwd, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Forward", id)
		}
		return nil, models.NewUpstreamUnavailableError(err)
	}
	return &fwd, nil
}

func (r *forwardRepository) GetByCode(ctx context.Context, code string) (*models.Forward, error) {
	var fwd models.Forward
	if err := r.db.WithContext(ctx).Where("unique_code = ?", code).First(&fwd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Forward", code)
		}
		return nil, models.NewUpstreamUnavailableError(err)
	}
	return &fwd, nil
}

func (r *forwardRepository) ListByMessage(ctx context.Context, messageID uint) ([]models.Forward, error) {
	var forwards []models.Forward
	if err := r.db.WithContext(ctx).
		Model(&models.Forward{}).
		Select("forwards.*, (SELECT COUNT(*) FROM forward_views WHERE forward_views.forward_id = forwards.id) AS view_count").
		Where("forwards.message_id = ?", messageID).
		Order("view_count DESC, forwards.created_at ASC").
		Find(&forwards).Error; err != nil {
		return nil, models.NewUpstreamUnavailableError(err)
	}
	return forwards, nil
}

func (r *forwardRepository) CountByMessage(ctx context.Context, messageID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Forward{}).
		Where("message_id = ?", messageID).
		Count(&count).Error; err != nil {
		return 0, models.NewUpstreamUnavailableError(err)
	}
	return count, nil
}

func (r *forwardRepository) WalkToRoot(ctx context.Context, forwardID uint) ([]models.Forward, error) {
	fwd, err := r.GetByID(ctx, forwardID)
	if err != nil {
		return nil, err
	}

	bound, err := r.CountByMessage(ctx, fwd.MessageID)
	if err != nil {
		return nil, err
	}

	chain := []models.Forward{*fwd}
	for fwd.ParentID != nil {
		if int64(len(chain)) > bound {
			return nil, models.NewInternalError(fmt.Errorf("forward %d: parent chain exceeds ledger size %d", forwardID, bound))
		}
		fwd, err = r.GetByID(ctx, *fwd.ParentID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *fwd)
	}
	return chain, nil
}
