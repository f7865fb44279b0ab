package redis

import (
	"fmt"

	"github.com/chalkline/chalkline/internal/model"
)

// Key prefix for all league data
const keyPrefix = "chalkline"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player ids
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionsIndexKey returns the Redis key for the SET of all session ids
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}

// frameKey returns the Redis key for a Frame
func frameKey(id model.FrameID) string {
	return fmt.Sprintf("%s:frame:%s", keyPrefix, id)
}

// framesIndexKey returns the Redis key for the ZSET of frame ids scored by
// recorded time
func framesIndexKey() string {
	return fmt.Sprintf("%s:idx:frames", keyPrefix)
}

// unlocksKey returns the Redis key for a player's unlock HASH
// (achievement id -> unlock time)
func unlocksKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:unlocks:%s", keyPrefix, playerID)
}

// unlockPlayersIndexKey returns the Redis key for the SET of players that
// hold at least one unlock
func unlockPlayersIndexKey() string {
	return fmt.Sprintf("%s:idx:unlock_players", keyPrefix)
}
