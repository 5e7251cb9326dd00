package models

import "time"

// Plan is a billing tier. It only influences how long a message stays
// visible after creation; billing itself lives with an external processor.
type Plan string

const (
	PlanFree   Plan = "free"
	PlanGrowth Plan = "growth"
	PlanPro    Plan = "pro"
)

// Retention returns the message visibility window for the plan.
// Unknown plans fall back to the free window.
func (p Plan) Retention() time.Duration {
	switch p {
	case PlanGrowth:
		return 7 * 24 * time.Hour
	case PlanPro:
		return 30 * 24 * time.Hour
	default:
		return 48 * time.Hour
	}
}

// SubscriptionStatus mirrors the processor's subscription lifecycle.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
)

// Subscription links a user to their paid plan. Kept in sync by an external
// billing integration; this service only ever reads it.
type Subscription struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UserID    uint               `gorm:"not null;index" json:"user_id"`
	Plan      Plan               `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}
