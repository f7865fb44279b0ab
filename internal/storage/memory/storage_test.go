package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/chalkline/chalkline/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "p1",
		DisplayName: "Alice",
		Nickname:    "Ace",
		CreatedAt:   s.now,
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(player.DisplayName, got.DisplayName)
	s.Equal(player.Nickname, got.Nickname)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerReturnsCopy() {
	player := &model.Player{ID: "p1", DisplayName: "Alice", CreatedAt: s.now}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	got.DisplayName = "Mallory"

	again, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", again.DisplayName)
}

func (s *StorageSuite) TestListPlayersOrderedByCreation() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "p2", DisplayName: "Bob", CreatedAt: s.now.Add(time.Hour),
	}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "p1", DisplayName: "Alice", CreatedAt: s.now,
	}))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("p1"), players[0].ID)
	s.Equal(model.PlayerID("p2"), players[1].ID)
}

func (s *StorageSuite) TestDeletePlayer() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "p1", DisplayName: "Alice", CreatedAt: s.now,
	}))
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "p1"))

	_, err := s.storage.GetPlayer(s.ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:        "s1",
		Date:      "2025-03-01",
		StartedAt: s.now,
		Players:   []model.PlayerID{"p1", "p2"},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	got, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(session.Date, got.Date)
	s.Equal(session.Players, got.Players)
	s.True(got.Active())
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionParticipantsAreCopied() {
	session := &model.Session{
		ID: "s1", Date: "2025-03-01", StartedAt: s.now,
		Players: []model.PlayerID{"p1"},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	session.Players[0] = "p9"

	got, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), got.Players[0])
}

func (s *StorageSuite) TestListSessionsOrderedByStart() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID: "s2", Date: "2025-03-02", StartedAt: s.now.Add(24 * time.Hour),
	}))
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID: "s1", Date: "2025-03-01", StartedAt: s.now,
	}))

	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(model.SessionID("s1"), sessions[0].ID)
}

// Frame tests

func (s *StorageSuite) TestListFramesOrderedByRecordedTime() {
	s.Require().NoError(s.storage.SaveFrame(s.ctx, &model.Frame{
		ID: "f2", SessionID: "s1", WinnerID: "p1", LoserID: "p2",
		RecordedAt: s.now.Add(time.Minute),
	}))
	s.Require().NoError(s.storage.SaveFrame(s.ctx, &model.Frame{
		ID: "f1", SessionID: "s1", WinnerID: "p2", LoserID: "p1",
		RecordedAt: s.now,
	}))

	frames, err := s.storage.ListFrames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(frames, 2)
	s.Equal(model.FrameID("f1"), frames[0].ID)
	s.Equal(model.FrameID("f2"), frames[1].ID)
}

func (s *StorageSuite) TestDeleteFrame() {
	s.Require().NoError(s.storage.SaveFrame(s.ctx, &model.Frame{
		ID: "f1", SessionID: "s1", WinnerID: "p1", LoserID: "p2",
		RecordedAt: s.now,
	}))
	s.Require().NoError(s.storage.DeleteFrame(s.ctx, "f1"))

	frames, err := s.storage.ListFrames(s.ctx)
	s.Require().NoError(err)
	s.Empty(frames)

	s.ErrorIs(s.storage.DeleteFrame(s.ctx, "f1"), model.ErrFrameNotFound)
}

// Unlock tests

func (s *StorageSuite) TestInsertUnlockRejectsDuplicates() {
	unlock := model.Unlock{PlayerID: "p1", AchievementID: "first-win", UnlockedAt: s.now}
	s.Require().NoError(s.storage.InsertUnlock(s.ctx, unlock))

	err := s.storage.InsertUnlock(s.ctx, unlock)
	s.ErrorIs(err, model.ErrDuplicateUnlock)

	unlocks, err := s.storage.ListUnlocks(s.ctx)
	s.Require().NoError(err)
	s.Len(unlocks, 1)
}

func (s *StorageSuite) TestInsertUnlockDistinctPairs() {
	s.Require().NoError(s.storage.InsertUnlock(s.ctx, model.Unlock{
		PlayerID: "p1", AchievementID: "first-win", UnlockedAt: s.now,
	}))
	s.Require().NoError(s.storage.InsertUnlock(s.ctx, model.Unlock{
		PlayerID: "p1", AchievementID: "wins-10", UnlockedAt: s.now,
	}))
	s.Require().NoError(s.storage.InsertUnlock(s.ctx, model.Unlock{
		PlayerID: "p2", AchievementID: "first-win", UnlockedAt: s.now,
	}))

	unlocks, err := s.storage.ListUnlocks(s.ctx)
	s.Require().NoError(err)
	s.Len(unlocks, 3)
}
