package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// MinUnlocksNeeded is the lowest unlock threshold a creator may set.
	MinUnlocksNeeded = 1
	// MaxUnlocksNeeded is the highest unlock threshold a creator may set.
	MaxUnlocksNeeded = 10
)

// Message represents a locked message that viewers unlock by sharing.
// The slug is the public identifier used in share URLs; it is globally
// unique and immutable after creation.
type Message struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title         string         `gorm:"not null" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content,omitempty"`
	UnlocksNeeded int            `gorm:"not null;default:2" json:"unlocks_needed"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// ClampUnlocksNeeded forces n into the [MinUnlocksNeeded, MaxUnlocksNeeded] range.
func ClampUnlocksNeeded(n int) int {
	if n < MinUnlocksNeeded {
		return MinUnlocksNeeded
	}
	if n > MaxUnlocksNeeded {
		return MaxUnlocksNeeded
	}
	return n
}

// ExpiresAt returns when the message stops being visible, given the owner's
// plan retention window.
func (m *Message) ExpiresAt(retention time.Duration) time.Time {
	return m.CreatedAt.Add(retention)
}

// Expired reports whether the message is past its visibility window at now.
func (m *Message) Expired(retention time.Duration, now time.Time) bool {
	return !now.Before(m.ExpiresAt(retention))
}
