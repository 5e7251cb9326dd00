package repository

import (
	"context"
	"errors"

	"tapforward/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	GetBySlug(ctx context.Context, slug string) (*models.Message, error)
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	Update(ctx context.Context, message *models.Message) error
	Delete(ctx context.Context, id uint) error
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		if isConflict(err) {
			// Slug collision; the random suffix makes this vanishingly rare,
			// the caller mints a fresh slug and retries.
			return models.NewValidationError("Slug already taken")
		}
		return models.NewUpstreamUnavailableError(err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewUpstreamUnavailableError(err)
	}
	return &message, nil
}

func (r *messageRepository) GetBySlug(ctx context.Context, slug string) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", slug)
		}
		return nil, models.NewUpstreamUnavailableError(err)
	}
	return &message, nil
}

func (r *messageRepository) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewUpstreamUnavailableError(err)
	}
	return messages, nil
}

func (r *messageRepository) Update(ctx context.Context, message *models.Message) error {
	// Slug is immutable after creation; update the mutable columns only.
	if err := r.db.WithContext(ctx).
		Model(message).
		Select("title", "content", "unlocks_needed").
		Updates(message).Error; err != nil {
		return models.NewUpstreamUnavailableError(err)
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	// Soft delete; forwards and views under the message are kept.
	if err := r.db.WithContext(ctx).Delete(&models.Message{}, id).Error; err != nil {
		return models.NewUpstreamUnavailableError(err)
	}
	return nil
}
