package seed

import (
	"testing"

	"tapforward/internal/database"
	"tapforward/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeederPopulatesDomain(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 5, NumMessages: 8}))

	var users, messages, forwards int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Message{}).Count(&messages).Error)
	require.NoError(t, db.Model(&models.Forward{}).Count(&forwards).Error)

	assert.EqualValues(t, 5, users)
	assert.EqualValues(t, 8, messages)
	assert.GreaterOrEqual(t, forwards, int64(8), "every message gets at least one root forward")

	// Every non-root forward must reference a forward of the same message.
	var broken int64
	require.NoError(t, db.Model(&models.Forward{}).
		Joins("JOIN forwards parents ON parents.id = forwards.parent_id").
		Where("parents.message_id != forwards.message_id").
		Count(&broken).Error)
	assert.Zero(t, broken)
}

func TestSeederClearAll(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)
	require.NoError(t, s.Run(Options{NumUsers: 2, NumMessages: 3}))

	require.NoError(t, s.ClearAll())

	var users, views int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.ForwardView{}).Count(&views).Error)
	assert.Zero(t, users)
	assert.Zero(t, views)
}
