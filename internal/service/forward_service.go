package service

import (
	"context"
	"errors"
	"time"

	"tapforward/internal/cache"
	"tapforward/internal/models"
	"tapforward/internal/observability"
	"tapforward/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ForwardService orchestrates the visit flow: resolving a referral, counting
// the view, handing the visitor their own share link, and evaluating unlock
// state. It owns no state of its own; every decision is recomputed from the
// ledger on each visit.
type ForwardService struct {
	forwardRepo repository.ForwardRepository
	viewRepo    repository.ForwardViewRepository
	messageRepo repository.MessageRepository
	resolvePlan func(ctx context.Context, userID uint) (models.Plan, error)
	now         func() time.Time
}

// VisitInput identifies a visitor opening a message page. UserID is set for
// authenticated visitors; Fingerprint is always set.
type VisitInput struct {
	Slug        string
	RefCode     string
	UserID      *uint
	Fingerprint string
}

// VisitResult is everything the message page needs to render.
type VisitResult struct {
	MessageID     uint       `json:"message_id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Content       string     `json:"content,omitempty"`
	Unlocked      bool       `json:"unlocked"`
	ViewCount     int64      `json:"view_count"`
	Remaining     int64      `json:"remaining"`
	UnlocksNeeded int        `json:"unlocks_needed"`
	ShareCode     string     `json:"share_code,omitempty"`
	ReusedForward bool       `json:"reused_forward"`
	DuplicateView bool       `json:"duplicate_view"`
	Expired       bool       `json:"expired"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

func NewForwardService(
	forwardRepo repository.ForwardRepository,
	viewRepo repository.ForwardViewRepository,
	messageRepo repository.MessageRepository,
	resolvePlan func(ctx context.Context, userID uint) (models.Plan, error),
) *ForwardService {
	return &ForwardService{
		forwardRepo: forwardRepo,
		viewRepo:    viewRepo,
		messageRepo: messageRepo,
		resolvePlan: resolvePlan,
		now:         time.Now,
	}
}

// Visit handles one open of a message page.
func (s *ForwardService) Visit(ctx context.Context, in VisitInput) (*VisitResult, error) {
	span, ctx := observability.NewSpan(ctx, "forward.visit")
	defer span.End()
	span.AddAttributes(attribute.String("message.slug", in.Slug))

	message, err := s.loadMessage(ctx, in.Slug)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	viewerKey := in.Fingerprint
	if in.UserID != nil {
		viewerKey = models.UserIdentityKey(*in.UserID)
	}

	plan, err := s.resolvePlan(ctx, message.UserID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	expiresAt := message.ExpiresAt(plan.Retention())
	result := &VisitResult{
		MessageID:     message.ID,
		Slug:          message.Slug,
		Title:         message.Title,
		UnlocksNeeded: message.UnlocksNeeded,
		ExpiresAt:     &expiresAt,
	}
	if message.Expired(plan.Retention(), s.now()) {
		// An expired page neither counts views nor hands out share links.
		result.Expired = true
		return result, nil
	}

	parent, err := s.resolveParent(ctx, message, in.RefCode)
	if err != nil {
		if !models.IsInvalidParentRef(err) {
			span.SetError(err)
			return nil, err
		}
		// A broken referral link still lets the viewer participate: the
		// ledger failure degrades to a root visit at the page boundary.
		observability.InvalidParentRefs.Inc()
		parent = nil
	}

	var own *models.Forward
	var reused bool
	switch {
	case parent != nil && parent.OwnerKey() == viewerKey:
		// The owner reopened their own link. No view is counted and no
		// child is minted under it; they get their existing link back.
		observability.ViewsDeduplicated.WithLabelValues("self").Inc()
		own, reused = parent, true
		result.DuplicateView = true

	case parent != nil:
		isNew, err := s.viewRepo.Record(ctx, parent.ID, viewerKey)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		if isNew {
			observability.ViewsRecorded.Inc()
			if err := s.noteUnlockCrossing(ctx, parent.ID, message.UnlocksNeeded); err != nil {
				span.SetError(err)
				return nil, err
			}
		} else {
			observability.ViewsDeduplicated.WithLabelValues("repeat").Inc()
		}
		result.DuplicateView = !isNew

		own, reused, err = s.mintOrReuse(ctx, message.ID, &parent.ID, in)
		if err != nil {
			span.SetError(err)
			return nil, err
		}

	default:
		own, reused, err = s.mintOrReuse(ctx, message.ID, nil, in)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
	}

	count, err := s.viewRepo.Count(ctx, own.ID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	result.ShareCode = own.UniqueCode
	result.ReusedForward = reused
	result.ViewCount = count
	result.Remaining = Remaining(count, message.UnlocksNeeded)
	result.Unlocked = IsUnlocked(count, message.UnlocksNeeded)
	if result.Unlocked {
		result.Content = message.Content
	}
	return result, nil
}

// ResolveUnlock recomputes the unlock state of a single forward, for polling
// from an already-rendered page.
func (s *ForwardService) ResolveUnlock(ctx context.Context, code string) (*VisitResult, error) {
	fwd, err := s.forwardRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	message, err := s.messageRepo.GetByID(ctx, fwd.MessageID)
	if err != nil {
		return nil, err
	}
	count, err := s.viewRepo.Count(ctx, fwd.ID)
	if err != nil {
		return nil, err
	}

	result := &VisitResult{
		MessageID:     message.ID,
		Slug:          message.Slug,
		Title:         message.Title,
		UnlocksNeeded: message.UnlocksNeeded,
		ShareCode:     fwd.UniqueCode,
		ViewCount:     count,
		Remaining:     Remaining(count, message.UnlocksNeeded),
		Unlocked:      IsUnlocked(count, message.UnlocksNeeded),
	}
	if result.Unlocked {
		result.Content = message.Content
	}
	return result, nil
}

func (s *ForwardService) loadMessage(ctx context.Context, slug string) (*models.Message, error) {
	var message models.Message
	err := cache.CacheAside(ctx, cache.MessageKey(slug), &message, cache.MessageTTL, func() error {
		m, err := s.messageRepo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		message = *m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// resolveParent maps a referral code to its forward. An unknown code or a
// code belonging to a different message fails with an invalid-referral error;
// Visit absorbs that failure into a root visit, other callers see it as-is.
func (s *ForwardService) resolveParent(ctx context.Context, message *models.Message, refCode string) (*models.Forward, error) {
	if refCode == "" {
		return nil, nil
	}
	parent, err := s.forwardRepo.GetByCode(ctx, refCode)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, models.NewInvalidParentRefError(refCode)
		}
		return nil, err
	}
	if parent.MessageID != message.ID {
		return nil, models.NewInvalidParentRefError(refCode)
	}
	return parent, nil
}

func (s *ForwardService) mintOrReuse(ctx context.Context, messageID uint, parentID *uint, in VisitInput) (*models.Forward, bool, error) {
	var anonFingerprint *string
	if in.UserID == nil {
		anonFingerprint = &in.Fingerprint
	}
	fwd, reused, err := s.forwardRepo.CreateOrReuse(ctx, messageID, parentID, in.UserID, anonFingerprint)
	if err != nil {
		return nil, false, err
	}
	if reused {
		observability.ForwardsReused.Inc()
	} else if parentID == nil {
		observability.ForwardsMinted.WithLabelValues("root").Inc()
	} else {
		observability.ForwardsMinted.WithLabelValues("child").Inc()
	}
	return fwd, reused, nil
}

// noteUnlockCrossing bumps the unlock counter when a fresh view lands a
// forward exactly on its threshold.
func (s *ForwardService) noteUnlockCrossing(ctx context.Context, forwardID uint, unlocksNeeded int) error {
	count, err := s.viewRepo.Count(ctx, forwardID)
	if err != nil {
		return err
	}
	if count == int64(unlocksNeeded) {
		observability.UnlocksReached.Inc()
	}
	return nil
}
