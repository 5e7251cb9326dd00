package repository

import (
	"context"
	"testing"

	"tapforward/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCreateAndGetBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	owner := models.User{Username: "creator", Email: "creator@example.com", Password: "pw"}
	require.NoError(t, db.Create(&owner).Error)

	msg := &models.Message{
		Slug:          "launch-teaser-a1b2",
		Title:         "Launch teaser",
		Content:       "we ship friday",
		UnlocksNeeded: 3,
		UserID:        owner.ID,
	}
	require.NoError(t, repo.Create(ctx, msg))
	assert.NotZero(t, msg.ID)

	got, err := repo.GetBySlug(ctx, "launch-teaser-a1b2")
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, "Launch teaser", got.Title)
	assert.Equal(t, owner.Username, got.User.Username)
}

func TestMessageCreateRejectsDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	first := createTestMessage(t, db, 2)

	dup := &models.Message{
		Slug:          first.Slug,
		Title:         "Another",
		Content:       "body",
		UnlocksNeeded: 2,
		UserID:        first.UserID,
	}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestMessageUpdatePreservesSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	msg := createTestMessage(t, db, 2)
	originalSlug := msg.Slug

	msg.Slug = "hijacked-slug"
	msg.Title = "Edited"
	msg.UnlocksNeeded = 5
	require.NoError(t, repo.Update(ctx, msg))

	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, originalSlug, got.Slug)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, 5, got.UnlocksNeeded)
}

func TestMessageDeleteIsSoft(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	msg := createTestMessage(t, db, 2)
	require.NoError(t, repo.Delete(ctx, msg.ID))

	_, err := repo.GetBySlug(ctx, msg.Slug)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// The row itself survives for the forwards and views hanging off it.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Message{}).Where("id = ?", msg.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMessageListByUserIDPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	owner := models.User{Username: "lister", Email: "lister@example.com", Password: "pw"}
	require.NoError(t, db.Create(&owner).Error)
	for _, slug := range []string{"list-a", "list-b", "list-c"} {
		require.NoError(t, db.Create(&models.Message{
			Slug: slug, Title: slug, Content: "c", UnlocksNeeded: 2, UserID: owner.ID,
		}).Error)
	}

	page, err := repo.ListByUserID(ctx, owner.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repo.ListByUserID(ctx, owner.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, err := repo.ListByUserID(ctx, owner.ID+1000, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSubscriptionGetActivePlanDefaultsToFree(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	owner := models.User{Username: "planless", Email: "planless@example.com", Password: "pw"}
	require.NoError(t, db.Create(&owner).Error)

	plan, err := repo.GetActivePlan(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, plan)

	require.NoError(t, db.Create(&models.Subscription{
		UserID: owner.ID, Plan: models.PlanGrowth, Status: models.SubscriptionStatusCanceled,
	}).Error)
	plan, err = repo.GetActivePlan(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, plan, "canceled subscriptions do not count")

	require.NoError(t, db.Create(&models.Subscription{
		UserID: owner.ID, Plan: models.PlanPro, Status: models.SubscriptionStatusActive,
	}).Error)
	plan, err = repo.GetActivePlan(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, plan)
}

func TestUserGetByEmailMissingIsNotAnError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}
