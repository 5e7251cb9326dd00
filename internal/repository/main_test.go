package repository

import (
	"strconv"
	"sync/atomic"
	"testing"

	"tapforward/internal/database"
	"tapforward/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
// TranslateError matches the production connection so conflict absorption
// behaves identically.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A pooled second connection would see its own empty :memory: database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

var messageSeq atomic.Uint64

func createTestMessage(t *testing.T, db *gorm.DB, unlocksNeeded int) *models.Message {
	t.Helper()
	n := strconv.FormatUint(messageSeq.Add(1), 10)
	owner := models.User{Username: "owner-" + n, Email: "owner-" + n + "@example.com", Password: "pw"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}
	msg := models.Message{
		Slug:          "msg-" + n,
		Title:         "Secret",
		Content:       "the content",
		UnlocksNeeded: unlocksNeeded,
		UserID:        owner.ID,
	}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}
	return &msg
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }
