package achievements

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/chalkline/chalkline/internal/dependencies/clock"
	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage"
)

// writeTimeout bounds each detached unlock write
const writeTimeout = 5 * time.Second

// Service is the unlock orchestrator: it evaluates the rule table against a
// data snapshot, records new unlocks in the cache, and persists them.
type Service struct {
	storage storage.Storage
	cache   *Cache
	clock   clock.Clock
	logger  *slog.Logger
	defs    []Definition
	writes  sync.WaitGroup
}

// New creates a new achievements Service with the full rule table
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		cache:   NewCache(),
		clock:   clock,
		logger:  logger,
		defs:    All(),
	}
}

// Hydrate performs the one-time unlock load. Call it once at startup,
// typically on a goroutine so it doesn't block serving.
func (s *Service) Hydrate(ctx context.Context) error {
	if err := s.cache.Hydrate(ctx, s.storage); err != nil {
		return err
	}
	s.logger.Info("achievement cache hydrated")
	return nil
}

// Ready reports whether the cache has been hydrated
func (s *Service) Ready() bool {
	return s.cache.Ready()
}

// Definitions returns the fixed achievement table
func (s *Service) Definitions() []Definition {
	return s.defs
}

// UnlockCheck evaluates every rule the player has not yet unlocked and
// returns the newly unlocked definitions, in table order, for caller
// notification.
//
// Before hydration completes this is a documented no-op returning nil:
// events during startup are skipped, not queued, so a UI event handler is
// never stalled. Each new unlock is recorded in the cache synchronously
// (a second call with the same snapshot returns nothing) and written to the
// store on a detached goroutine; UnlockCheck never waits for persistence.
func (s *Service) UnlockCheck(ctx context.Context, playerID model.PlayerID, ec Context) []Definition {
	if !s.cache.Ready() {
		return nil
	}
	ec.PlayerID = playerID

	var unlocked []Definition
	now := s.clock.Now()
	for _, def := range s.defs {
		if s.cache.Unlocked(playerID, def.ID) {
			continue
		}
		if !def.Rule.Met(ec) {
			continue
		}
		u := model.Unlock{PlayerID: playerID, AchievementID: def.ID, UnlockedAt: now}
		if !s.cache.Record(u) {
			continue
		}
		unlocked = append(unlocked, def)
		s.persist(u)
	}
	return unlocked
}

// ListUnlockedForPlayer returns the player's unlocks from the cache,
// ordered by unlock time. Empty before hydration completes.
func (s *Service) ListUnlockedForPlayer(playerID model.PlayerID) []model.Unlock {
	return s.cache.ListForPlayer(playerID)
}

// Wait blocks until every dispatched unlock write has finished. Shutdown
// and tests use it to await persistence that UnlockCheck intentionally does
// not wait for.
func (s *Service) Wait() {
	s.writes.Wait()
}

// persist writes the unlock on a detached goroutine. A duplicate row is
// success; any other failure is logged and the in-memory unlock stands.
// That inconsistency window is accepted: a missed durable write must not
// block or roll back gameplay.
func (s *Service) persist(u model.Unlock) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		err := s.storage.InsertUnlock(ctx, u)
		if err == nil || errors.Is(err, model.ErrDuplicateUnlock) {
			return
		}
		s.logger.Error("failed to persist achievement unlock",
			slog.String("player_id", string(u.PlayerID)),
			slog.String("achievement_id", string(u.AchievementID)),
			slog.String("error", err.Error()),
		)
	}()
}
