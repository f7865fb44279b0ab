package achievements

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage"
)

// State is the cache lifecycle: uninitialized until hydration is requested,
// loading while the one-time read from the store is in flight, ready after.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Cache holds every known unlock, keyed by player then achievement. It is
// constructor-built rather than a package singleton so tests can run
// isolated instances. The mutex exists because hydration runs on a startup
// goroutine concurrent with readers; unlock recording itself is synchronous
// on the caller.
type Cache struct {
	mu      sync.RWMutex
	state   State
	unlocks map[model.PlayerID]map[model.AchievementID]time.Time
}

// NewCache creates an empty, uninitialized cache
func NewCache() *Cache {
	return &Cache{
		unlocks: make(map[model.PlayerID]map[model.AchievementID]time.Time),
	}
}

// State returns the current lifecycle state
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Ready reports whether hydration has completed
func (c *Cache) Ready() bool {
	return c.State() == StateReady
}

// Hydrate loads all unlocks from the store. It runs at most once: calls
// after the first (or while a load is in flight) are no-ops. On failure the
// cache returns to uninitialized so hydration can be retried.
func (c *Cache) Hydrate(ctx context.Context, store storage.Storage) error {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return nil
	}
	c.state = StateLoading
	c.mu.Unlock()

	unlocks, err := store.ListUnlocks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateUninitialized
		return err
	}
	for _, u := range unlocks {
		c.record(u)
	}
	c.state = StateReady
	return nil
}

// Unlocked reports whether the player already holds the achievement
func (c *Cache) Unlocked(playerID model.PlayerID, achievementID model.AchievementID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.unlocks[playerID][achievementID]
	return ok
}

// Record stores an unlock. Returns false if the pair was already present;
// an existing first-unlock timestamp is never overwritten.
func (c *Cache) Record(u model.Unlock) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record(u)
}

func (c *Cache) record(u model.Unlock) bool {
	byPlayer := c.unlocks[u.PlayerID]
	if byPlayer == nil {
		byPlayer = make(map[model.AchievementID]time.Time)
		c.unlocks[u.PlayerID] = byPlayer
	}
	if _, ok := byPlayer[u.AchievementID]; ok {
		return false
	}
	byPlayer[u.AchievementID] = u.UnlockedAt
	return true
}

// ListForPlayer returns the player's unlocks ordered by unlock time, then
// id. Empty while the cache is not ready.
func (c *Cache) ListForPlayer(playerID model.PlayerID) []model.Unlock {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byPlayer := c.unlocks[playerID]
	if len(byPlayer) == 0 {
		return nil
	}
	list := make([]model.Unlock, 0, len(byPlayer))
	for id, at := range byPlayer {
		list = append(list, model.Unlock{PlayerID: playerID, AchievementID: id, UnlockedAt: at})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UnlockedAt.Equal(list[j].UnlockedAt) {
			return list[i].UnlockedAt.Before(list[j].UnlockedAt)
		}
		return list[i].AchievementID < list[j].AchievementID
	})
	return list
}
