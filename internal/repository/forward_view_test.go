package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDeduplicatesViewers(t *testing.T) {
	db := setupTestDB(t)
	fwdRepo := NewForwardRepository(db)
	viewRepo := NewForwardViewRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	fwd, _, err := fwdRepo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-owner"))
	require.NoError(t, err)

	isNew, err := viewRepo.Record(ctx, fwd.ID, "fp-viewer")
	require.NoError(t, err)
	assert.True(t, isNew)

	// Second open by the same viewer is absorbed, not an error.
	isNew, err = viewRepo.Record(ctx, fwd.ID, "fp-viewer")
	require.NoError(t, err)
	assert.False(t, isNew)

	count, err := viewRepo.Count(ctx, fwd.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCountIsNonDecreasing(t *testing.T) {
	db := setupTestDB(t)
	fwdRepo := NewForwardRepository(db)
	viewRepo := NewForwardViewRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	fwd, _, err := fwdRepo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-owner"))
	require.NoError(t, err)

	var last int64
	viewers := []string{"v1", "v1", "v2", "v2", "v3", "v1"}
	for _, viewer := range viewers {
		_, err := viewRepo.Record(ctx, fwd.ID, viewer)
		require.NoError(t, err)

		count, err := viewRepo.Count(ctx, fwd.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, last, "view count must never decrease")
		last = count
	}
	assert.EqualValues(t, 3, last)
}

func TestCountByMessageAggregatesForwards(t *testing.T) {
	db := setupTestDB(t)
	fwdRepo := NewForwardRepository(db)
	viewRepo := NewForwardViewRepository(db)
	msg := createTestMessage(t, db, 3)
	other := createTestMessage(t, db, 3)
	ctx := context.Background()

	a, _, err := fwdRepo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-a"))
	require.NoError(t, err)
	b, _, err := fwdRepo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-b"))
	require.NoError(t, err)
	unrelated, _, err := fwdRepo.CreateOrReuse(ctx, other.ID, nil, nil, strPtr("fp-c"))
	require.NoError(t, err)

	for i, fwdID := range []uint{a.ID, a.ID, b.ID, unrelated.ID} {
		viewer := []string{"v1", "v2", "v1", "v1"}[i]
		_, err := viewRepo.Record(ctx, fwdID, viewer)
		require.NoError(t, err)
	}

	count, err := viewRepo.CountByMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count, "views of the other message are excluded")
}
