package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tapforward/internal/cache"
	"tapforward/internal/models"
	"tapforward/internal/repository"
	"tapforward/internal/token"
)

type MessageService struct {
	messageRepo repository.MessageRepository
}

type CreateMessageInput struct {
	UserID        uint
	Title         string
	Content       string
	UnlocksNeeded int
}

type UpdateMessageInput struct {
	UserID        uint
	MessageID     uint
	Title         string
	Content       string
	UnlocksNeeded int
}

func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

const (
	maxTitleLen   = 200
	maxContentLen = 10000

	// slugSuffixLen keeps slugs guessable-resistant without getting ugly.
	slugSuffixLen = 6
	maxSlugStem   = 40

	// slugAttempts bounds retries on slug collisions; with a random suffix
	// a second attempt should never be needed.
	slugAttempts = 3
)

func (s *MessageService) CreateMessage(ctx context.Context, in CreateMessageInput) (*models.Message, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		slug, err := mintSlug(title)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		message := &models.Message{
			Slug:          slug,
			Title:         title,
			Content:       in.Content,
			UnlocksNeeded: models.ClampUnlocksNeeded(in.UnlocksNeeded),
			UserID:        in.UserID,
		}
		err = s.messageRepo.Create(ctx, message)
		if err == nil {
			return message, nil
		}
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
			return nil, err
		}
		// Slug collision; mint again.
	}
	return nil, models.NewInternalError(fmt.Errorf("could not mint a unique slug after %d attempts", slugAttempts))
}

func (s *MessageService) GetMessageByID(ctx context.Context, userID, messageID uint) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.UserID != userID {
		// Owners read their messages by id; everyone else goes through the
		// public visit flow. Hide existence from non-owners.
		return nil, models.NewNotFoundError("Message", messageID)
	}
	return message, nil
}

func (s *MessageService) ListMessages(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	return s.messageRepo.ListByUserID(ctx, userID, limit, offset)
}

func (s *MessageService) UpdateMessage(ctx context.Context, in UpdateMessageInput) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, in.MessageID)
	if err != nil {
		return nil, err
	}
	if message.UserID != in.UserID {
		return nil, models.NewNotFoundError("Message", in.MessageID)
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		message.Title = strings.TrimSpace(in.Title)
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 10000 characters)")
		}
		message.Content = in.Content
	}
	if in.UnlocksNeeded != 0 {
		// Raising the threshold can re-lock forwards that already unlocked;
		// that is the owner's call to make.
		message.UnlocksNeeded = models.ClampUnlocksNeeded(in.UnlocksNeeded)
	}

	if err := s.messageRepo.Update(ctx, message); err != nil {
		return nil, err
	}
	cache.InvalidateMessage(ctx, message.Slug)
	return message, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return models.NewNotFoundError("Message", messageID)
	}
	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}
	cache.InvalidateMessage(ctx, message.Slug)
	return nil
}

// mintSlug turns the title into a URL stem and appends a random suffix so
// identical titles never contend.
func mintSlug(title string) (string, error) {
	stem := slugify(title)
	suffix, err := token.New(slugSuffixLen)
	if err != nil {
		return "", err
	}
	if stem == "" {
		return strings.ToLower(suffix), nil
	}
	return stem + "-" + strings.ToLower(suffix), nil
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
		if b.Len() >= maxSlugStem {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
