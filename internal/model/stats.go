package model

import "time"

// DateRange is an inclusive window applied to frame recorded times. A zero
// bound leaves that side open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the window, inclusive at both ends
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// LeaderboardEntry is one row of the leaderboard. Players with no frames in
// the window do not get an entry.
type LeaderboardEntry struct {
	PlayerID         PlayerID
	DisplayName      string
	Won              int
	Lost             int
	WinPercentage    int // rounded to the nearest integer, 0 when no frames
	SessionsAttended int
}

// HeadToHead is a win/loss record against a single opponent
type HeadToHead struct {
	Won  int
	Lost int
}

// BestSession is the session in which a player recorded their most wins
type BestSession struct {
	SessionID SessionID
	Date      string
	Wins      int
}

// PlayerStats is the full career record for one player
type PlayerStats struct {
	PlayerID       PlayerID
	FramesWon      int
	FramesLost     int
	WinPercentage  int
	SessionsPlayed int
	BestSession    *BestSession // nil when the player has no wins anywhere
	HeadToHead     map[PlayerID]HeadToHead
}

// SessionForm is a player's win/loss record within a single session
type SessionForm struct {
	SessionID SessionID
	Date      string
	StartedAt time.Time
	Won       int
	Lost      int
}
