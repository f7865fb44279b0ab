package streak

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/chalkline/chalkline/internal/model"
)

type StreakSuite struct {
	suite.Suite
}

func TestStreakSuite(t *testing.T) {
	suite.Run(t, new(StreakSuite))
}

func frame(winner, loser string) model.Frame {
	return model.Frame{
		WinnerID: model.PlayerID(winner),
		LoserID:  model.PlayerID(loser),
	}
}

// Current tests

func (s *StreakSuite) TestCurrentEmptyHistoryIsZero() {
	s.Equal(0, Current(nil, "alice"))
}

func (s *StreakSuite) TestCurrentCountsTrailingWins() {
	frames := []model.Frame{
		frame("bob", "alice"),
		frame("alice", "bob"),
		frame("alice", "carol"),
		frame("alice", "bob"),
	}
	s.Equal(3, Current(frames, "alice"))
}

func (s *StreakSuite) TestCurrentStopsAtMostRecentLoss() {
	frames := []model.Frame{
		frame("alice", "bob"),
		frame("alice", "bob"),
		frame("bob", "alice"),
	}
	s.Equal(0, Current(frames, "alice"))
}

func (s *StreakSuite) TestCurrentIgnoresUninvolvedFrames() {
	frames := []model.Frame{
		frame("alice", "bob"),
		frame("bob", "carol"),
		frame("carol", "bob"),
		frame("alice", "bob"),
	}
	s.Equal(2, Current(frames, "alice"))
}

func (s *StreakSuite) TestCurrentForUninvolvedPlayerIsZero() {
	frames := []model.Frame{
		frame("alice", "bob"),
		frame("bob", "alice"),
	}
	s.Equal(0, Current(frames, "carol"))
}

// Max tests

func (s *StreakSuite) TestMaxEmptyHistoryIsZero() {
	s.Equal(0, Max(nil, "alice", Win))
	s.Equal(0, Max(nil, "alice", Loss))
}

func (s *StreakSuite) TestMaxWinRunResetsOnLoss() {
	frames := []model.Frame{
		frame("alice", "bob"),
		frame("alice", "bob"),
		frame("alice", "bob"),
		frame("bob", "alice"),
		frame("alice", "bob"),
		frame("alice", "bob"),
	}
	s.Equal(3, Max(frames, "alice", Win))
}

func (s *StreakSuite) TestMaxLossRunResetsOnWin() {
	frames := []model.Frame{
		frame("bob", "alice"),
		frame("bob", "alice"),
		frame("alice", "bob"),
		frame("bob", "alice"),
	}
	s.Equal(2, Max(frames, "alice", Loss))
}

func (s *StreakSuite) TestMaxIgnoresUninvolvedFrames() {
	frames := []model.Frame{
		frame("alice", "bob"),
		frame("carol", "dave"),
		frame("alice", "carol"),
	}
	s.Equal(2, Max(frames, "alice", Win))
}

func (s *StreakSuite) TestMaxFindsBestRunAnywhereInSequence() {
	frames := []model.Frame{
		frame("alice", "bob"),
		frame("bob", "alice"),
		frame("alice", "bob"),
		frame("alice", "bob"),
		frame("alice", "bob"),
		frame("alice", "bob"),
		frame("bob", "alice"),
		frame("alice", "bob"),
	}
	s.Equal(4, Max(frames, "alice", Win))
	// The trailing win is a new run of one, so Current sees 1
	s.Equal(1, Current(frames, "alice"))
}
