package model

import "time"

// SessionID uniquely identifies a session
type SessionID string

// Session is a bounded run of frames played by a fixed set of participants.
// The participant list is append-only while the session is active; once ended
// the session is immutable.
type Session struct {
	ID        SessionID
	Date      string // calendar date, YYYY-MM-DD
	StartedAt time.Time
	EndedAt   *time.Time // nil while the session is active
	Players   []PlayerID
}

// Active reports whether the session has not yet ended.
// At most one session is active at a time.
func (s *Session) Active() bool {
	return s.EndedAt == nil
}

// HasPlayer reports whether the given player is a participant
func (s *Session) HasPlayer(id PlayerID) bool {
	for _, p := range s.Players {
		if p == id {
			return true
		}
	}
	return false
}
