package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Forward is a personal, shareable link instance tied to one
// (message, parent, identity) triple. Forwards form a forest per message:
// parent_id is null only at roots, and a parent always references a
// pre-existing row of the same message, so cycles cannot be constructed.
//
// Exactly one of SenderID and AnonFingerprint identifies the owner:
// SenderID for authenticated senders, AnonFingerprint for anonymous ones.
// ScopeKey collapses the triple into a single non-null column so the
// uniqueness constraint also covers root forwards (a plain composite unique
// index would treat NULL parents as distinct in Postgres).
type Forward struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MessageID       uint      `gorm:"not null;index" json:"message_id"`
	Message         Message   `gorm:"foreignKey:MessageID" json:"-"`
	ParentID        *uint     `gorm:"index" json:"parent_id,omitempty"`
	SenderID        *uint     `gorm:"index" json:"sender_id,omitempty"`
	AnonFingerprint *string   `json:"-"`
	UniqueCode      string    `gorm:"uniqueIndex;not null" json:"unique_code"`
	ScopeKey        string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt       time.Time `json:"created_at"`

	// ViewCount is not persisted; computed at query time for analytics.
	ViewCount int64 `gorm:"->" json:"view_count,omitempty"`
}

// TableName specifies the table name for GORM
func (Forward) TableName() string {
	return "forwards"
}

// OwnerKey returns the identity key of whoever owns this link: the sender's
// user key when authenticated, otherwise the anonymous fingerprint.
func (f *Forward) OwnerKey() string {
	if f.SenderID != nil {
		return UserIdentityKey(*f.SenderID)
	}
	if f.AnonFingerprint != nil {
		return *f.AnonFingerprint
	}
	return ""
}

// IsRoot reports whether the forward has no parent.
func (f *Forward) IsRoot() bool {
	return f.ParentID == nil
}

// BeforeCreate derives the scope key carrying the at-most-one-forward-per-
// (message, parent, identity) constraint.
func (f *Forward) BeforeCreate(_ *gorm.DB) error {
	f.ScopeKey = ForwardScopeKey(f.MessageID, f.ParentID, f.OwnerKey())
	return nil
}

// ForwardScopeKey builds the dedup key for a (message, parent, identity) triple.
// Roots use parent 0, which no real row ever has as an ID.
func ForwardScopeKey(messageID uint, parentID *uint, ownerKey string) string {
	var parent uint
	if parentID != nil {
		parent = *parentID
	}
	return fmt.Sprintf("%d:%d:%s", messageID, parent, ownerKey)
}

// UserIdentityKey returns the identity key for an authenticated user.
func UserIdentityKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}
