package models

import "time"

// ForwardView records that a distinct viewer opened a forward's link.
// The composite unique index is the sole dedup mechanism: concurrent opens
// by the same viewer race to insert and exactly one row wins. Rows are never
// mutated or deleted, so per-forward view counts only ever grow.
type ForwardView struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ForwardID         uint      `gorm:"not null;uniqueIndex:idx_forward_viewer" json:"forward_id"`
	Forward           Forward   `gorm:"foreignKey:ForwardID" json:"-"`
	ViewerFingerprint string    `gorm:"not null;uniqueIndex:idx_forward_viewer" json:"viewer_fingerprint"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ForwardView) TableName() string {
	return "forward_views"
}
