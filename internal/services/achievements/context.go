package achievements

import "github.com/chalkline/chalkline/internal/model"

// Context carries the snapshot a rule is evaluated against. Rules only read
// it; all mutation happens in the orchestrator.
type Context struct {
	PlayerID model.PlayerID

	// Full history, frames ordered by recorded time ascending
	Frames   []model.Frame
	Sessions []model.Session

	// Frames of the session that triggered the check, when the check runs
	// in response to a game event. Session-scoped rules never fire without
	// them.
	SessionFrames []model.Frame

	// The current period's leaderboard leader, when known. Comparative
	// rules never fire without it.
	LeaderID model.PlayerID
}

// framesBySession groups the full history by owning session
func (c *Context) framesBySession() map[model.SessionID][]model.Frame {
	grouped := make(map[model.SessionID][]model.Frame)
	for _, f := range c.Frames {
		grouped[f.SessionID] = append(grouped[f.SessionID], f)
	}
	return grouped
}

// countFrames counts frames in the full history matching the predicate
func (c *Context) countFrames(match func(*model.Frame) bool) int {
	n := 0
	for i := range c.Frames {
		if match(&c.Frames[i]) {
			n++
		}
	}
	return n
}
