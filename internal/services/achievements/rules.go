package achievements

import (
	"sort"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/services/streak"
)

// Rule is a pure predicate over an evaluation context. Implementations must
// be side-effect-free; only the orchestrator mutates state.
type Rule interface {
	Met(ctx Context) bool
}

// threshold is a cumulative-count rule: met once count(ctx) reaches n
type threshold struct {
	n     int
	count func(ctx Context) int
}

func (r threshold) Met(ctx Context) bool {
	return r.count(ctx) >= r.n
}

// sessionRule evaluates against the triggering session's frames only, so it
// can never fire outside a game event
type sessionRule struct {
	check func(ctx Context) bool
}

func (r sessionRule) Met(ctx Context) bool {
	if len(ctx.SessionFrames) == 0 {
		return false
	}
	return r.check(ctx)
}

// comparative needs the externally supplied period leader, and never matches
// the leader against themselves
type comparative struct {
	check func(ctx Context) bool
}

func (r comparative) Met(ctx Context) bool {
	if ctx.LeaderID == "" || ctx.LeaderID == ctx.PlayerID {
		return false
	}
	return r.check(ctx)
}

// Definition is one achievement: a stable id, display metadata, and the rule
// that unlocks it
type Definition struct {
	ID          model.AchievementID
	Name        string
	Description string
	Rule        Rule
}

// All returns the fixed, ordered achievement table. Callers must not modify
// the returned slice.
func All() []Definition {
	return definitions
}

var definitions = []Definition{
	// Cumulative thresholds
	{ID: "first-win", Name: "Off the Mark", Description: "Win your first frame",
		Rule: threshold{1, framesWon}},
	{ID: "wins-10", Name: "Cueing Up", Description: "Win 10 frames",
		Rule: threshold{10, framesWon}},
	{ID: "wins-50", Name: "Half Century", Description: "Win 50 frames",
		Rule: threshold{50, framesWon}},
	{ID: "wins-100", Name: "Century", Description: "Win 100 frames",
		Rule: threshold{100, framesWon}},
	{ID: "wins-250", Name: "Table Legend", Description: "Win 250 frames",
		Rule: threshold{250, framesWon}},
	{ID: "sessions-10", Name: "Regular", Description: "Attend 10 sessions",
		Rule: threshold{10, sessionsAttended}},
	{ID: "sessions-50", Name: "Fixture", Description: "Attend 50 sessions",
		Rule: threshold{50, sessionsAttended}},
	{ID: "sessions-100", Name: "Part of the Furniture", Description: "Attend 100 sessions",
		Rule: threshold{100, sessionsAttended}},
	{ID: "rival-wins-25", Name: "Got Your Number", Description: "Beat the same opponent 25 times",
		Rule: threshold{25, mostWinsOverOneOpponent}},
	{ID: "rival-frames-50", Name: "Old Rivals", Description: "Play 50 frames against the same opponent",
		Rule: threshold{50, mostFramesAgainstOneOpponent}},

	// Session-scoped
	{ID: "session-streak-3", Name: "Hat-Trick", Description: "Win 3 frames in a row in one session",
		Rule: sessionRule{sessionWinStreak(3)}},
	{ID: "session-streak-5", Name: "On a Roll", Description: "Win 5 frames in a row in one session",
		Rule: sessionRule{sessionWinStreak(5)}},
	{ID: "session-streak-7", Name: "Magnificent Seven", Description: "Win 7 frames in a row in one session",
		Rule: sessionRule{sessionWinStreak(7)}},
	{ID: "session-skid-5", Name: "Rough Night", Description: "Lose 5 frames in a row in one session",
		Rule: sessionRule{sessionLossStreak(5)}},
	{ID: "flawless", Name: "Flawless", Description: "Win at least 3 frames in a session without losing any",
		Rule: sessionRule{flawless}},
	{ID: "clean-sweep", Name: "Clean Sweep", Description: "Beat every opponent you faced in a session",
		Rule: sessionRule{cleanSweep}},
	{ID: "swept", Name: "Swept", Description: "Lose to every opponent you faced in a session",
		Rule: sessionRule{swept}},
	{ID: "comeback", Name: "The Comeback", Description: "Trail an opponent by 3 frames in a session and finish ahead of them",
		Rule: sessionRule{comeback(3)}},
	{ID: "collapse", Name: "The Collapse", Description: "Lead an opponent by 3 frames in a session and finish behind them",
		Rule: sessionRule{collapse(3)}},
	{ID: "winless", Name: "Chalk Dust", Description: "Play at least 3 frames in a session without winning any",
		Rule: sessionRule{winless}},

	// Cross-session
	{ID: "openers-5", Name: "Fast Starter", Description: "Win the opening frame of 5 sessions",
		Rule: threshold{5, firstFrameWins}},
	{ID: "slow-starter-5", Name: "Slow Starter", Description: "Lose the opening frame of 5 sessions",
		Rule: threshold{5, firstFrameLosses}},
	{ID: "marathon", Name: "Marathon", Description: "Attend a session of 20 or more frames",
		Rule: threshold{20, longestSessionAttended}},
	{ID: "wooden-spoon-3", Name: "Wooden Spoon", Description: "Finish last in 3 consecutive sessions",
		Rule: threshold{3, longestLastPlaceRun}},

	// Flag-derived
	{ID: "brush-1", Name: "First Brush", Description: "Win a frame without your opponent scoring",
		Rule: threshold{1, flagWins(brushFlag)}},
	{ID: "brush-10", Name: "Brush Hour", Description: "Win 10 brush frames",
		Rule: threshold{10, flagWins(brushFlag)}},
	{ID: "brush-25", Name: "Broom Cupboard", Description: "Win 25 brush frames",
		Rule: threshold{25, flagWins(brushFlag)}},
	{ID: "clearance-1", Name: "One Visit", Description: "Win a frame with a single-visit clearance",
		Rule: threshold{1, flagWins(clearanceFlag)}},
	{ID: "clearance-10", Name: "Break Builder", Description: "Win 10 clearance frames",
		Rule: threshold{10, flagWins(clearanceFlag)}},
	{ID: "clearance-25", Name: "Run the Table", Description: "Win 25 clearance frames",
		Rule: threshold{25, flagWins(clearanceFlag)}},
	{ID: "brushed-10", Name: "Scrubbed", Description: "Lose 10 frames without scoring",
		Rule: threshold{10, flagLosses(brushFlag)}},
	{ID: "cleared-10", Name: "Spectator", Description: "Lose 10 frames to single-visit clearances",
		Rule: threshold{10, flagLosses(clearanceFlag)}},

	// Comparative
	{ID: "giant-slayer", Name: "Giant Slayer", Description: "Beat the current leaderboard leader",
		Rule: comparative{beatTheLeader}},
}

// Cumulative counters

func framesWon(ctx Context) int {
	return ctx.countFrames(func(f *model.Frame) bool { return f.WinnerID == ctx.PlayerID })
}

func sessionsAttended(ctx Context) int {
	n := 0
	for i := range ctx.Sessions {
		if ctx.Sessions[i].HasPlayer(ctx.PlayerID) {
			n++
		}
	}
	return n
}

func mostWinsOverOneOpponent(ctx Context) int {
	wins := make(map[model.PlayerID]int)
	best := 0
	for i := range ctx.Frames {
		f := &ctx.Frames[i]
		if f.WinnerID != ctx.PlayerID {
			continue
		}
		wins[f.LoserID]++
		if wins[f.LoserID] > best {
			best = wins[f.LoserID]
		}
	}
	return best
}

func mostFramesAgainstOneOpponent(ctx Context) int {
	played := make(map[model.PlayerID]int)
	best := 0
	for i := range ctx.Frames {
		opp, ok := ctx.Frames[i].OpponentOf(ctx.PlayerID)
		if !ok {
			continue
		}
		played[opp]++
		if played[opp] > best {
			best = played[opp]
		}
	}
	return best
}

type frameFlag func(*model.Frame) bool

func brushFlag(f *model.Frame) bool     { return f.Brush }
func clearanceFlag(f *model.Frame) bool { return f.Clearance }

func flagWins(flag frameFlag) func(Context) int {
	return func(ctx Context) int {
		return ctx.countFrames(func(f *model.Frame) bool {
			return f.WinnerID == ctx.PlayerID && flag(f)
		})
	}
}

func flagLosses(flag frameFlag) func(Context) int {
	return func(ctx Context) int {
		return ctx.countFrames(func(f *model.Frame) bool {
			return f.LoserID == ctx.PlayerID && flag(f)
		})
	}
}

// Session-scoped checks

func sessionWinStreak(n int) func(Context) bool {
	return func(ctx Context) bool {
		return streak.Max(ctx.SessionFrames, ctx.PlayerID, streak.Win) >= n
	}
}

func sessionLossStreak(n int) func(Context) bool {
	return func(ctx Context) bool {
		return streak.Max(ctx.SessionFrames, ctx.PlayerID, streak.Loss) >= n
	}
}

func sessionRecord(frames []model.Frame, playerID model.PlayerID) (won, lost int) {
	for i := range frames {
		switch playerID {
		case frames[i].WinnerID:
			won++
		case frames[i].LoserID:
			lost++
		}
	}
	return won, lost
}

func flawless(ctx Context) bool {
	won, lost := sessionRecord(ctx.SessionFrames, ctx.PlayerID)
	return won >= 3 && lost == 0
}

func winless(ctx Context) bool {
	won, lost := sessionRecord(ctx.SessionFrames, ctx.PlayerID)
	return won == 0 && lost >= 3
}

// cleanSweep: at least one win over every distinct opponent faced in the
// session. Requires two or more opponents so a single head-to-head doesn't
// count as a sweep.
func cleanSweep(ctx Context) bool {
	beaten := make(map[model.PlayerID]bool)
	faced := make(map[model.PlayerID]bool)
	for i := range ctx.SessionFrames {
		f := &ctx.SessionFrames[i]
		opp, ok := f.OpponentOf(ctx.PlayerID)
		if !ok {
			continue
		}
		faced[opp] = true
		if f.WinnerID == ctx.PlayerID {
			beaten[opp] = true
		}
	}
	if len(faced) < 2 {
		return false
	}
	for opp := range faced {
		if !beaten[opp] {
			return false
		}
	}
	return true
}

// swept mirrors cleanSweep: at least one loss to every opponent faced
func swept(ctx Context) bool {
	lostTo := make(map[model.PlayerID]bool)
	faced := make(map[model.PlayerID]bool)
	for i := range ctx.SessionFrames {
		f := &ctx.SessionFrames[i]
		opp, ok := f.OpponentOf(ctx.PlayerID)
		if !ok {
			continue
		}
		faced[opp] = true
		if f.LoserID == ctx.PlayerID {
			lostTo[opp] = true
		}
	}
	if len(faced) < 2 {
		return false
	}
	for opp := range faced {
		if !lostTo[opp] {
			return false
		}
	}
	return true
}

// headToHeadSwings tracks, per opponent in the session, the running frame
// difference plus the lowest and highest points it reached
func headToHeadSwings(frames []model.Frame, playerID model.PlayerID) (diff, low, high map[model.PlayerID]int) {
	diff = make(map[model.PlayerID]int)
	low = make(map[model.PlayerID]int)
	high = make(map[model.PlayerID]int)
	for i := range frames {
		f := &frames[i]
		opp, ok := f.OpponentOf(playerID)
		if !ok {
			continue
		}
		if f.WinnerID == playerID {
			diff[opp]++
		} else {
			diff[opp]--
		}
		if diff[opp] < low[opp] {
			low[opp] = diff[opp]
		}
		if diff[opp] > high[opp] {
			high[opp] = diff[opp]
		}
	}
	return diff, low, high
}

func comeback(deficit int) func(Context) bool {
	return func(ctx Context) bool {
		diff, low, _ := headToHeadSwings(ctx.SessionFrames, ctx.PlayerID)
		for opp := range diff {
			if low[opp] <= -deficit && diff[opp] > 0 {
				return true
			}
		}
		return false
	}
}

func collapse(lead int) func(Context) bool {
	return func(ctx Context) bool {
		diff, _, high := headToHeadSwings(ctx.SessionFrames, ctx.PlayerID)
		for opp := range diff {
			if high[opp] >= lead && diff[opp] < 0 {
				return true
			}
		}
		return false
	}
}

// Cross-session counters

func firstFrameWins(ctx Context) int {
	return firstFrameResults(ctx, func(f *model.Frame) bool { return f.WinnerID == ctx.PlayerID })
}

func firstFrameLosses(ctx Context) int {
	return firstFrameResults(ctx, func(f *model.Frame) bool { return f.LoserID == ctx.PlayerID })
}

func firstFrameResults(ctx Context, match func(*model.Frame) bool) int {
	n := 0
	for _, frames := range ctx.framesBySession() {
		// ctx.Frames is ordered by recorded time, so the group preserves it
		if len(frames) > 0 && match(&frames[0]) {
			n++
		}
	}
	return n
}

func longestSessionAttended(ctx Context) int {
	grouped := ctx.framesBySession()
	best := 0
	for i := range ctx.Sessions {
		s := &ctx.Sessions[i]
		if !s.HasPlayer(ctx.PlayerID) {
			continue
		}
		if n := len(grouped[s.ID]); n > best {
			best = n
		}
	}
	return best
}

// finishedLast: every co-participant won at least as many frames, and at
// least one won strictly more
func finishedLast(s *model.Session, frames []model.Frame, playerID model.PlayerID) bool {
	if !s.HasPlayer(playerID) || len(s.Players) < 2 {
		return false
	}
	wins := make(map[model.PlayerID]int)
	for i := range frames {
		wins[frames[i].WinnerID]++
	}
	own := wins[playerID]
	behind := false
	for _, p := range s.Players {
		if p == playerID {
			continue
		}
		if wins[p] < own {
			return false
		}
		if wins[p] > own {
			behind = true
		}
	}
	return behind
}

// longestLastPlaceRun counts the longest run of consecutive attended
// sessions, in start order, where the player finished last
func longestLastPlaceRun(ctx Context) int {
	attended := make([]model.Session, 0, len(ctx.Sessions))
	for i := range ctx.Sessions {
		if ctx.Sessions[i].HasPlayer(ctx.PlayerID) {
			attended = append(attended, ctx.Sessions[i])
		}
	}
	sortSessionsByStart(attended)

	grouped := ctx.framesBySession()
	best, run := 0, 0
	for i := range attended {
		if finishedLast(&attended[i], grouped[attended[i].ID], ctx.PlayerID) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

func sortSessionsByStart(sessions []model.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
}

// Comparative checks

func beatTheLeader(ctx Context) bool {
	for i := range ctx.Frames {
		f := &ctx.Frames[i]
		if f.WinnerID == ctx.PlayerID && f.LoserID == ctx.LeaderID {
			return true
		}
	}
	return false
}
