package repository

import (
	"context"
	"testing"

	"tapforward/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrReuseIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForwardRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	first, reused, err := repo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-viewer"))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Len(t, first.UniqueCode, 8)

	second, reused, err := repo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-viewer"))
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.UniqueCode, second.UniqueCode)
	assert.Equal(t, first.ID, second.ID)

	count, err := repo.CountByMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreateOrReuseDistinguishesIdentities(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForwardRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	anon, _, err := repo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-a"))
	require.NoError(t, err)
	other, _, err := repo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-b"))
	require.NoError(t, err)
	authed, _, err := repo.CreateOrReuse(ctx, msg.ID, nil, uintPtr(msg.UserID), nil)
	require.NoError(t, err)

	codes := map[string]bool{anon.UniqueCode: true, other.UniqueCode: true, authed.UniqueCode: true}
	assert.Len(t, codes, 3, "each identity gets its own forward")
}

func TestCreateOrReuseDistinguishesParents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForwardRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	root, _, err := repo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-parent"))
	require.NoError(t, err)

	// Same viewer under a parent is a different triple than at the root.
	child, reused, err := repo.CreateOrReuse(ctx, msg.ID, uintPtr(root.ID), nil, strPtr("fp-child"))
	require.NoError(t, err)
	assert.False(t, reused)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
}

func TestGetByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForwardRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	fwd, _, err := repo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-x"))
	require.NoError(t, err)

	got, err := repo.GetByCode(ctx, fwd.UniqueCode)
	require.NoError(t, err)
	assert.Equal(t, fwd.ID, got.ID)

	_, err = repo.GetByCode(ctx, "nope1234")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestWalkToRootTerminates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForwardRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	// Build a chain root <- a <- b <- c by distinct viewers.
	root, _, err := repo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-0"))
	require.NoError(t, err)
	parent := root
	for i, fp := range []string{"fp-1", "fp-2", "fp-3"} {
		child, _, err := repo.CreateOrReuse(ctx, msg.ID, uintPtr(parent.ID), nil, strPtr(fp))
		require.NoError(t, err, "link %d", i)
		parent = child
	}

	chain, err := repo.WalkToRoot(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, chain, 4)
	assert.Equal(t, parent.ID, chain[0].ID)
	assert.True(t, chain[len(chain)-1].IsRoot())
	// Every hop points at the next element of the chain.
	for i := 0; i < len(chain)-1; i++ {
		require.NotNil(t, chain[i].ParentID)
		assert.Equal(t, chain[i+1].ID, *chain[i].ParentID)
	}
}

func TestListByMessageOrdersByViews(t *testing.T) {
	db := setupTestDB(t)
	fwdRepo := NewForwardRepository(db)
	viewRepo := NewForwardViewRepository(db)
	msg := createTestMessage(t, db, 3)
	ctx := context.Background()

	quiet, _, err := fwdRepo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-quiet"))
	require.NoError(t, err)
	busy, _, err := fwdRepo.CreateOrReuse(ctx, msg.ID, nil, nil, strPtr("fp-busy"))
	require.NoError(t, err)

	for _, viewer := range []string{"v1", "v2", "v3"} {
		isNew, err := viewRepo.Record(ctx, busy.ID, viewer)
		require.NoError(t, err)
		assert.True(t, isNew)
	}
	isNew, err := viewRepo.Record(ctx, quiet.ID, "v1")
	require.NoError(t, err)
	assert.True(t, isNew)

	forwards, err := fwdRepo.ListByMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, forwards, 2)
	assert.Equal(t, busy.ID, forwards[0].ID)
	assert.EqualValues(t, 3, forwards[0].ViewCount)
	assert.Equal(t, quiet.ID, forwards[1].ID)
	assert.EqualValues(t, 1, forwards[1].ViewCount)
}
