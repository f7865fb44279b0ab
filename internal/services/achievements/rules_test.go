package achievements

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/chalkline/chalkline/internal/model"
)

type RulesSuite struct {
	suite.Suite
	base time.Time
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) SetupTest() {
	s.base = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
}

func (s *RulesSuite) rule(id model.AchievementID) Rule {
	for _, def := range All() {
		if def.ID == id {
			return def.Rule
		}
	}
	s.FailNowf("unknown achievement", "no definition with id %q", id)
	return nil
}

func (s *RulesSuite) session(id string, offset time.Duration, players ...string) model.Session {
	ids := make([]model.PlayerID, 0, len(players))
	for _, p := range players {
		ids = append(ids, model.PlayerID(p))
	}
	start := s.base.Add(offset)
	return model.Session{
		ID:        model.SessionID(id),
		Date:      start.Format("2006-01-02"),
		StartedAt: start,
		Players:   ids,
	}
}

func (s *RulesSuite) frame(sessionID, winner, loser string, n int) model.Frame {
	return model.Frame{
		ID:         model.FrameID(fmt.Sprintf("%s-%d", sessionID, n)),
		SessionID:  model.SessionID(sessionID),
		WinnerID:   model.PlayerID(winner),
		LoserID:    model.PlayerID(loser),
		RecordedAt: s.base.Add(time.Duration(n) * time.Minute),
	}
}

// One session: alice wins six straight against two opponents
func (s *RulesSuite) sixWinContext() Context {
	frames := []model.Frame{
		s.frame("s1", "alice", "bob", 1),
		s.frame("s1", "alice", "carol", 2),
		s.frame("s1", "alice", "bob", 3),
		s.frame("s1", "alice", "carol", 4),
		s.frame("s1", "alice", "bob", 5),
		s.frame("s1", "alice", "carol", 6),
	}
	return Context{
		PlayerID:      "alice",
		Frames:        frames,
		Sessions:      []model.Session{s.session("s1", 0, "alice", "bob", "carol")},
		SessionFrames: frames,
	}
}

func (s *RulesSuite) TestSixStraightWins() {
	ctx := s.sixWinContext()

	s.True(s.rule("first-win").Met(ctx))
	s.True(s.rule("session-streak-3").Met(ctx))
	s.True(s.rule("session-streak-5").Met(ctx))
	s.False(s.rule("session-streak-7").Met(ctx))
	s.True(s.rule("flawless").Met(ctx))
	s.True(s.rule("clean-sweep").Met(ctx))
	s.False(s.rule("swept").Met(ctx))
	s.False(s.rule("winless").Met(ctx))
	s.False(s.rule("wins-10").Met(ctx))
}

func (s *RulesSuite) TestLoserSideOfTheSweep() {
	ctx := s.sixWinContext()
	ctx.PlayerID = "bob"

	s.False(s.rule("first-win").Met(ctx))
	s.True(s.rule("winless").Met(ctx))
	// bob only faced alice, so a single head-to-head is not a sweep
	s.False(s.rule("swept").Met(ctx))
	s.False(s.rule("flawless").Met(ctx))
}

func (s *RulesSuite) TestSessionRulesNeverFireWithoutSessionFrames() {
	ctx := s.sixWinContext()
	ctx.SessionFrames = nil

	s.False(s.rule("session-streak-3").Met(ctx))
	s.False(s.rule("flawless").Met(ctx))
	s.False(s.rule("clean-sweep").Met(ctx))
	// Cumulative rules still fire from the full history
	s.True(s.rule("first-win").Met(ctx))
}

func (s *RulesSuite) TestSweptRequiresLossToEveryOpponent() {
	frames := []model.Frame{
		s.frame("s1", "bob", "alice", 1),
		s.frame("s1", "carol", "alice", 2),
		s.frame("s1", "bob", "alice", 3),
	}
	ctx := Context{
		PlayerID:      "alice",
		Frames:        frames,
		Sessions:      []model.Session{s.session("s1", 0, "alice", "bob", "carol")},
		SessionFrames: frames,
	}

	s.True(s.rule("swept").Met(ctx))

	// One win over carol breaks the sweep
	frames = append(frames, s.frame("s1", "alice", "carol", 4))
	ctx.Frames = frames
	ctx.SessionFrames = frames
	s.False(s.rule("swept").Met(ctx))
}

func (s *RulesSuite) TestComebackAndCollapse() {
	// alice goes 0-3 down against bob, then wins four straight
	frames := []model.Frame{
		s.frame("s1", "bob", "alice", 1),
		s.frame("s1", "bob", "alice", 2),
		s.frame("s1", "bob", "alice", 3),
		s.frame("s1", "alice", "bob", 4),
		s.frame("s1", "alice", "bob", 5),
		s.frame("s1", "alice", "bob", 6),
		s.frame("s1", "alice", "bob", 7),
	}
	ctx := Context{
		PlayerID:      "alice",
		Frames:        frames,
		Sessions:      []model.Session{s.session("s1", 0, "alice", "bob")},
		SessionFrames: frames,
	}

	s.True(s.rule("comeback").Met(ctx))
	s.False(s.rule("collapse").Met(ctx))

	// The same frames from bob's side are the collapse
	ctx.PlayerID = "bob"
	s.True(s.rule("collapse").Met(ctx))
	s.False(s.rule("comeback").Met(ctx))
}

func (s *RulesSuite) TestComebackNeedsFinishAhead() {
	// Down 3, back to level only
	frames := []model.Frame{
		s.frame("s1", "bob", "alice", 1),
		s.frame("s1", "bob", "alice", 2),
		s.frame("s1", "bob", "alice", 3),
		s.frame("s1", "alice", "bob", 4),
		s.frame("s1", "alice", "bob", 5),
		s.frame("s1", "alice", "bob", 6),
	}
	ctx := Context{
		PlayerID:      "alice",
		Frames:        frames,
		Sessions:      []model.Session{s.session("s1", 0, "alice", "bob")},
		SessionFrames: frames,
	}

	s.False(s.rule("comeback").Met(ctx))
}

func (s *RulesSuite) TestBrushAndClearanceCounters() {
	f1 := s.frame("s1", "alice", "bob", 1)
	f1.Brush = true
	f2 := s.frame("s1", "alice", "bob", 2)
	f2.Clearance = true
	f3 := s.frame("s1", "bob", "alice", 3)
	f3.Brush = true
	frames := []model.Frame{f1, f2, f3}
	ctx := Context{
		PlayerID:      "alice",
		Frames:        frames,
		Sessions:      []model.Session{s.session("s1", 0, "alice", "bob")},
		SessionFrames: frames,
	}

	s.True(s.rule("brush-1").Met(ctx))
	s.True(s.rule("clearance-1").Met(ctx))
	s.False(s.rule("brush-10").Met(ctx))

	// The brush loss counts toward alice being brushed, not brushing
	ctx.PlayerID = "bob"
	s.True(s.rule("brush-1").Met(ctx))
	s.False(s.rule("clearance-1").Met(ctx))
}

func (s *RulesSuite) TestFastStarter() {
	var frames []model.Frame
	var sessions []model.Session
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		sessions = append(sessions, s.session(id, time.Duration(i)*24*time.Hour, "alice", "bob"))
		f := s.frame(id, "alice", "bob", i*10+1)
		f.RecordedAt = s.base.Add(time.Duration(i)*24*time.Hour + time.Minute)
		frames = append(frames, f)
		// A later loss in the same session doesn't affect the opener count
		f2 := s.frame(id, "bob", "alice", i*10+2)
		f2.RecordedAt = s.base.Add(time.Duration(i)*24*time.Hour + 2*time.Minute)
		frames = append(frames, f2)
	}
	ctx := Context{PlayerID: "alice", Frames: frames, Sessions: sessions}

	s.True(s.rule("openers-5").Met(ctx))
	s.False(s.rule("slow-starter-5").Met(ctx))
}

func (s *RulesSuite) TestWoodenSpoonCountsConsecutiveLastPlaces() {
	var frames []model.Frame
	var sessions []model.Session
	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		sessions = append(sessions, s.session(id, time.Duration(i)*24*time.Hour, "alice", "bob", "carol"))
		f1 := s.frame(id, "bob", "alice", i*10+1)
		f1.RecordedAt = s.base.Add(time.Duration(i)*24*time.Hour + time.Minute)
		f2 := s.frame(id, "carol", "alice", i*10+2)
		f2.RecordedAt = s.base.Add(time.Duration(i)*24*time.Hour + 2*time.Minute)
		frames = append(frames, f1, f2)
	}
	ctx := Context{PlayerID: "alice", Frames: frames, Sessions: sessions}

	s.True(s.rule("wooden-spoon-3").Met(ctx))
	// bob won frames in every session, never last
	ctx.PlayerID = "bob"
	s.False(s.rule("wooden-spoon-3").Met(ctx))
}

func (s *RulesSuite) TestGiantSlayerNeedsALeader() {
	frames := []model.Frame{s.frame("s1", "alice", "leader", 1)}
	ctx := Context{
		PlayerID:      "alice",
		Frames:        frames,
		Sessions:      []model.Session{s.session("s1", 0, "alice", "leader")},
		SessionFrames: frames,
	}

	// No leader known: never fires
	s.False(s.rule("giant-slayer").Met(ctx))

	ctx.LeaderID = "leader"
	s.True(s.rule("giant-slayer").Met(ctx))

	// The leader can't slay themselves
	ctx.PlayerID = "leader"
	ctx.LeaderID = "leader"
	s.False(s.rule("giant-slayer").Met(ctx))
}

func (s *RulesSuite) TestMarathonNeedsAttendance() {
	var frames []model.Frame
	for i := 0; i < 20; i++ {
		frames = append(frames, s.frame("s1", "bob", "carol", i+1))
	}
	sessions := []model.Session{s.session("s1", 0, "bob", "carol")}

	ctx := Context{PlayerID: "bob", Frames: frames, Sessions: sessions}
	s.True(s.rule("marathon").Met(ctx))

	// alice wasn't there
	ctx.PlayerID = "alice"
	s.False(s.rule("marathon").Met(ctx))
}

func (s *RulesSuite) TestRivalThresholds() {
	var frames []model.Frame
	for i := 0; i < 25; i++ {
		frames = append(frames, s.frame("s1", "alice", "bob", i+1))
	}
	for i := 0; i < 25; i++ {
		frames = append(frames, s.frame("s1", "bob", "alice", i+26))
	}
	ctx := Context{
		PlayerID: "alice",
		Frames:   frames,
		Sessions: []model.Session{s.session("s1", 0, "alice", "bob")},
	}

	s.True(s.rule("rival-wins-25").Met(ctx))
	s.True(s.rule("rival-frames-50").Met(ctx))

	ctx.PlayerID = "bob"
	s.True(s.rule("rival-wins-25").Met(ctx))
	s.True(s.rule("rival-frames-50").Met(ctx))
}

func (s *RulesSuite) TestTableIsStable() {
	defs := All()
	s.NotEmpty(defs)

	seen := make(map[model.AchievementID]bool, len(defs))
	for _, def := range defs {
		s.False(seen[def.ID], "duplicate achievement id %q", def.ID)
		seen[def.ID] = true
		s.NotEmpty(def.Name)
		s.NotEmpty(def.Description)
		s.NotNil(def.Rule)
	}
}
