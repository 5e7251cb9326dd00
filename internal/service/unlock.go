// Package service contains the business logic layer between handlers and
// repositories.
package service

// IsUnlocked reports whether a forward with the given unique view count has
// crossed its message's unlock threshold. View counts only ever grow, so once
// a forward unlocks it stays unlocked.
func IsUnlocked(viewCount int64, unlocksNeeded int) bool {
	return viewCount >= int64(unlocksNeeded)
}

// Remaining returns how many more unique views the forward needs to unlock.
// Never negative.
func Remaining(viewCount int64, unlocksNeeded int) int64 {
	remaining := int64(unlocksNeeded) - viewCount
	if remaining < 0 {
		return 0
	}
	return remaining
}
