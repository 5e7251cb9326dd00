package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	MessageKeyPrefix = "message:%s"
	PlanKeyPrefix    = "plan:%d"
	UserKeyPrefix    = "user:%d"
)

const (
	// MessageTTL is short: edits to title/threshold should show up quickly.
	MessageTTL = 2 * time.Minute
	// PlanTTL tolerates the billing webhook lag anyway.
	PlanTTL = 10 * time.Minute
	UserTTL = 5 * time.Minute
)

func MessageKey(slug string) string {
	return fmt.Sprintf(MessageKeyPrefix, slug)
}

func PlanKey(userID uint) string {
	return fmt.Sprintf(PlanKeyPrefix, userID)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateMessage(ctx context.Context, slug string) {
	Invalidate(ctx, MessageKey(slug))
}

func InvalidatePlan(ctx context.Context, userID uint) {
	Invalidate(ctx, PlanKey(userID))
}
