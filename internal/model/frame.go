package model

import "time"

// FrameID uniquely identifies a frame
type FrameID string

// Frame is one completed game within a session, with exactly one winner and
// one loser. Frames are immutable once recorded; the only removal path is
// undoing the most recently recorded frame of a session.
type Frame struct {
	ID        FrameID
	SessionID SessionID
	WinnerID  PlayerID
	LoserID   PlayerID

	Brush     bool // the loser never scored during the frame
	Clearance bool // won by clearing the table in a single visit

	ClipURL string // optional reference to a recorded clip

	StartedAt  *time.Time // optional, set when the frame timer was used
	RecordedAt time.Time
}

// Involves reports whether the player is the winner or loser of the frame
func (f *Frame) Involves(id PlayerID) bool {
	return f.WinnerID == id || f.LoserID == id
}

// OpponentOf returns the other side of the frame for the given player.
// The second return is false if the player is not involved.
func (f *Frame) OpponentOf(id PlayerID) (PlayerID, bool) {
	switch id {
	case f.WinnerID:
		return f.LoserID, true
	case f.LoserID:
		return f.WinnerID, true
	default:
		return "", false
	}
}
