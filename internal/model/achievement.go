package model

import "time"

// AchievementID is the stable identifier of an achievement definition
type AchievementID string

// Unlock records the first time a player earned an achievement.
// Unlocks are monotonic: once present they are never removed or overwritten,
// and there is at most one per (player, achievement) pair.
type Unlock struct {
	PlayerID      PlayerID
	AchievementID AchievementID
	UnlockedAt    time.Time
}
