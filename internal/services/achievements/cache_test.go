package achievements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage/memory"
)

type CacheSuite struct {
	suite.Suite
	storage *memory.Storage
	cache   *Cache
	ctx     context.Context
	now     time.Time
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.storage = memory.New()
	s.cache = NewCache()
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
}

func (s *CacheSuite) TestStartsUninitialized() {
	s.Equal(StateUninitialized, s.cache.State())
	s.False(s.cache.Ready())
}

func (s *CacheSuite) TestHydrateLoadsStoredUnlocks() {
	err := s.storage.InsertUnlock(s.ctx, model.Unlock{
		PlayerID: "alice", AchievementID: "first-win", UnlockedAt: s.now,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.cache.Hydrate(s.ctx, s.storage))

	s.True(s.cache.Ready())
	s.True(s.cache.Unlocked("alice", "first-win"))
	s.False(s.cache.Unlocked("alice", "wins-10"))
	s.False(s.cache.Unlocked("bob", "first-win"))
}

func (s *CacheSuite) TestHydrateRunsOnce() {
	s.Require().NoError(s.cache.Hydrate(s.ctx, s.storage))

	// A second hydration is a no-op and doesn't pick up new rows
	err := s.storage.InsertUnlock(s.ctx, model.Unlock{
		PlayerID: "alice", AchievementID: "first-win", UnlockedAt: s.now,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.cache.Hydrate(s.ctx, s.storage))

	s.False(s.cache.Unlocked("alice", "first-win"))
}

func (s *CacheSuite) TestHydrateFailureAllowsRetry() {
	failing := &failingStore{Storage: s.storage, err: errors.New("connection refused")}

	err := s.cache.Hydrate(s.ctx, failing)
	s.Require().Error(err)
	s.Equal(StateUninitialized, s.cache.State())

	// Retry against a working store succeeds
	s.Require().NoError(s.cache.Hydrate(s.ctx, s.storage))
	s.True(s.cache.Ready())
}

func (s *CacheSuite) TestRecordIsIdempotent() {
	first := model.Unlock{PlayerID: "alice", AchievementID: "first-win", UnlockedAt: s.now}
	s.True(s.cache.Record(first))

	later := first
	later.UnlockedAt = s.now.Add(time.Hour)
	s.False(s.cache.Record(later))

	// The original timestamp survives
	list := s.cache.ListForPlayer("alice")
	s.Require().Len(list, 1)
	s.Equal(s.now, list[0].UnlockedAt)
}

func (s *CacheSuite) TestListForPlayerOrderedByUnlockTime() {
	s.cache.Record(model.Unlock{PlayerID: "alice", AchievementID: "wins-10", UnlockedAt: s.now.Add(time.Hour)})
	s.cache.Record(model.Unlock{PlayerID: "alice", AchievementID: "first-win", UnlockedAt: s.now})
	s.cache.Record(model.Unlock{PlayerID: "bob", AchievementID: "first-win", UnlockedAt: s.now})

	list := s.cache.ListForPlayer("alice")

	s.Require().Len(list, 2)
	s.Equal(model.AchievementID("first-win"), list[0].AchievementID)
	s.Equal(model.AchievementID("wins-10"), list[1].AchievementID)
}

func (s *CacheSuite) TestListForPlayerEmptyWithoutUnlocks() {
	s.Empty(s.cache.ListForPlayer("nobody"))
}

// failingStore wraps a working store but fails unlock reads
type failingStore struct {
	*memory.Storage
	err error
}

func (f *failingStore) ListUnlocks(ctx context.Context) ([]model.Unlock, error) {
	return nil, f.err
}
