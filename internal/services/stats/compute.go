package stats

import (
	"math"
	"sort"

	"github.com/chalkline/chalkline/internal/model"
)

// The functions in this file are pure: they compute everything from the
// supplied snapshots and never touch storage, so identical inputs always
// produce identical output.

// Leaderboard computes a win-count-ordered table for every player with at
// least one frame inside the window. A nil window means all time.
//
// Ordering is deterministic: frames won descending, then frames lost
// ascending, then display name ascending.
func Leaderboard(players []model.Player, sessions []model.Session, frames []model.Frame, window *model.DateRange) []model.LeaderboardEntry {
	type tally struct {
		won, lost int
	}
	tallies := make(map[model.PlayerID]*tally)
	inWindowSessions := make(map[model.SessionID]bool)

	for i := range frames {
		f := &frames[i]
		if window != nil && !window.Contains(f.RecordedAt) {
			continue
		}
		inWindowSessions[f.SessionID] = true
		for _, id := range [2]model.PlayerID{f.WinnerID, f.LoserID} {
			if tallies[id] == nil {
				tallies[id] = &tally{}
			}
		}
		tallies[f.WinnerID].won++
		tallies[f.LoserID].lost++
	}

	names := make(map[model.PlayerID]string, len(players))
	for i := range players {
		names[players[i].ID] = players[i].DisplayName
	}

	entries := make([]model.LeaderboardEntry, 0, len(tallies))
	for id, t := range tallies {
		attended := 0
		for i := range sessions {
			if inWindowSessions[sessions[i].ID] && sessions[i].HasPlayer(id) {
				attended++
			}
		}
		entries = append(entries, model.LeaderboardEntry{
			PlayerID:         id,
			DisplayName:      names[id],
			Won:              t.won,
			Lost:             t.lost,
			WinPercentage:    winPercentage(t.won, t.lost),
			SessionsAttended: attended,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		if a.Lost != b.Lost {
			return a.Lost < b.Lost
		}
		return a.DisplayName < b.DisplayName
	})

	return entries
}

// PlayerStats computes a player's career record from the full history
func PlayerStats(playerID model.PlayerID, sessions []model.Session, frames []model.Frame) model.PlayerStats {
	stats := model.PlayerStats{
		PlayerID:   playerID,
		HeadToHead: make(map[model.PlayerID]model.HeadToHead),
	}

	winsBySession := make(map[model.SessionID]int)
	for i := range frames {
		f := &frames[i]
		opponent, ok := f.OpponentOf(playerID)
		if !ok {
			continue
		}
		h2h := stats.HeadToHead[opponent]
		if f.WinnerID == playerID {
			stats.FramesWon++
			winsBySession[f.SessionID]++
			h2h.Won++
		} else {
			stats.FramesLost++
			h2h.Lost++
		}
		stats.HeadToHead[opponent] = h2h
	}
	stats.WinPercentage = winPercentage(stats.FramesWon, stats.FramesLost)

	// Sessions played counts participation, with or without frames.
	// Best session is the most wins in one session; ties go to the earliest.
	ordered := sessionsByStart(sessions)
	for _, s := range ordered {
		if !s.HasPlayer(playerID) {
			continue
		}
		stats.SessionsPlayed++
		wins := winsBySession[s.ID]
		if wins > 0 && (stats.BestSession == nil || wins > stats.BestSession.Wins) {
			stats.BestSession = &model.BestSession{
				SessionID: s.ID,
				Date:      s.Date,
				Wins:      wins,
			}
		}
	}

	return stats
}

// CurrentForm reduces the player's n most recently started sessions to
// per-session win/loss records, most recent first.
func CurrentForm(playerID model.PlayerID, sessions []model.Session, frames []model.Frame, n int) []model.SessionForm {
	ordered := sessionsByStart(sessions)

	var form []model.SessionForm
	for i := len(ordered) - 1; i >= 0 && len(form) < n; i-- {
		s := ordered[i]
		if !s.HasPlayer(playerID) {
			continue
		}
		entry := model.SessionForm{
			SessionID: s.ID,
			Date:      s.Date,
			StartedAt: s.StartedAt,
		}
		for j := range frames {
			if frames[j].SessionID != s.ID {
				continue
			}
			switch playerID {
			case frames[j].WinnerID:
				entry.Won++
			case frames[j].LoserID:
				entry.Lost++
			}
		}
		form = append(form, entry)
	}
	return form
}

// winPercentage rounds to the nearest whole percent, 0 when no frames
func winPercentage(won, lost int) int {
	total := won + lost
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(won) / float64(total) * 100))
}

// sessionsByStart returns sessions ordered by start time ascending
func sessionsByStart(sessions []model.Session) []model.Session {
	ordered := make([]model.Session, len(sessions))
	copy(ordered, sessions)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].StartedAt.Equal(ordered[j].StartedAt) {
			return ordered[i].StartedAt.Before(ordered[j].StartedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
