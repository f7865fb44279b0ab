package response

import (
	"sort"
	"time"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/services/achievements"
	"github.com/chalkline/chalkline/internal/services/matchplay"
)

// Player represents a player in API responses
type Player struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Nickname    string    `json:"nickname,omitempty"`
	Glyph       string    `json:"glyph,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Nickname:    p.Nickname,
		Glyph:       p.Glyph,
		Archived:    p.Archived,
		CreatedAt:   p.CreatedAt,
	}
}

// PlayersFromModel converts a slice of players
func PlayersFromModel(players []model.Player) []Player {
	out := make([]Player, 0, len(players))
	for i := range players {
		out = append(out, PlayerFromModel(&players[i]))
	}
	return out
}

// Session represents a session in API responses
type Session struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Active    bool       `json:"active"`
	PlayerIDs []string   `json:"player_ids"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	ids := make([]string, 0, len(s.Players))
	for _, id := range s.Players {
		ids = append(ids, string(id))
	}
	return Session{
		ID:        string(s.ID),
		Date:      s.Date,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Active:    s.Active(),
		PlayerIDs: ids,
	}
}

// SessionsFromModel converts a slice of sessions
func SessionsFromModel(sessions []model.Session) []Session {
	out := make([]Session, 0, len(sessions))
	for i := range sessions {
		out = append(out, SessionFromModel(&sessions[i]))
	}
	return out
}

// Frame represents a frame in API responses
type Frame struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"session_id"`
	WinnerID   string     `json:"winner_id"`
	LoserID    string     `json:"loser_id"`
	Brush      bool       `json:"brush,omitempty"`
	Clearance  bool       `json:"clearance,omitempty"`
	ClipURL    string     `json:"clip_url,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// FrameFromModel converts a model.Frame
func FrameFromModel(f *model.Frame) Frame {
	return Frame{
		ID:         string(f.ID),
		SessionID:  string(f.SessionID),
		WinnerID:   string(f.WinnerID),
		LoserID:    string(f.LoserID),
		Brush:      f.Brush,
		Clearance:  f.Clearance,
		ClipURL:    f.ClipURL,
		StartedAt:  f.StartedAt,
		RecordedAt: f.RecordedAt,
	}
}

// Achievement represents an achievement definition in API responses
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AchievementFromDefinition converts an achievements.Definition
func AchievementFromDefinition(d achievements.Definition) Achievement {
	return Achievement{
		ID:          string(d.ID),
		Name:        d.Name,
		Description: d.Description,
	}
}

// PlayerUnlock pairs a new unlock with the player who earned it
type PlayerUnlock struct {
	PlayerID    string      `json:"player_id"`
	Achievement Achievement `json:"achievement"`
}

// RecordFrameResponse is the response for recording a frame
type RecordFrameResponse struct {
	Frame    Frame          `json:"frame"`
	Unlocked []PlayerUnlock `json:"unlocked,omitempty"`
}

// RecordFrameResponseFrom builds the response from the controller's result
func RecordFrameResponseFrom(frame *model.Frame, unlocks []matchplay.NewUnlock) RecordFrameResponse {
	resp := RecordFrameResponse{Frame: FrameFromModel(frame)}
	for _, u := range unlocks {
		resp.Unlocked = append(resp.Unlocked, PlayerUnlock{
			PlayerID:    string(u.PlayerID),
			Achievement: AchievementFromDefinition(u.Achievement),
		})
	}
	return resp
}

// Unlock represents a persisted unlock in API responses
type Unlock struct {
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// UnlocksFromModel converts a slice of unlocks
func UnlocksFromModel(unlocks []model.Unlock) []Unlock {
	out := make([]Unlock, 0, len(unlocks))
	for _, u := range unlocks {
		out = append(out, Unlock{
			AchievementID: string(u.AchievementID),
			UnlockedAt:    u.UnlockedAt,
		})
	}
	return out
}

// LeaderboardEntry is one leaderboard row in API responses
type LeaderboardEntry struct {
	PlayerID         string `json:"player_id"`
	DisplayName      string `json:"display_name"`
	Won              int    `json:"won"`
	Lost             int    `json:"lost"`
	WinPercentage    int    `json:"win_percentage"`
	SessionsAttended int    `json:"sessions_attended"`
}

// LeaderboardFromModel converts leaderboard entries
func LeaderboardFromModel(entries []model.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntry{
			PlayerID:         string(e.PlayerID),
			DisplayName:      e.DisplayName,
			Won:              e.Won,
			Lost:             e.Lost,
			WinPercentage:    e.WinPercentage,
			SessionsAttended: e.SessionsAttended,
		})
	}
	return out
}

// HeadToHead is a win/loss record against one opponent
type HeadToHead struct {
	OpponentID string `json:"opponent_id"`
	Won        int    `json:"won"`
	Lost       int    `json:"lost"`
}

// BestSession is a player's highest-win session
type BestSession struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Wins      int    `json:"wins"`
}

// PlayerStats is the career record for one player
type PlayerStats struct {
	PlayerID       string       `json:"player_id"`
	FramesWon      int          `json:"frames_won"`
	FramesLost     int          `json:"frames_lost"`
	WinPercentage  int          `json:"win_percentage"`
	SessionsPlayed int          `json:"sessions_played"`
	BestSession    *BestSession `json:"best_session,omitempty"`
	HeadToHead     []HeadToHead `json:"head_to_head"`
}

// PlayerStatsFromModel converts model.PlayerStats. The head-to-head map is
// flattened to a slice sorted by opponent id so output is deterministic.
func PlayerStatsFromModel(s *model.PlayerStats) PlayerStats {
	out := PlayerStats{
		PlayerID:       string(s.PlayerID),
		FramesWon:      s.FramesWon,
		FramesLost:     s.FramesLost,
		WinPercentage:  s.WinPercentage,
		SessionsPlayed: s.SessionsPlayed,
		HeadToHead:     []HeadToHead{},
	}
	if s.BestSession != nil {
		out.BestSession = &BestSession{
			SessionID: string(s.BestSession.SessionID),
			Date:      s.BestSession.Date,
			Wins:      s.BestSession.Wins,
		}
	}
	for opponent, record := range s.HeadToHead {
		out.HeadToHead = append(out.HeadToHead, HeadToHead{
			OpponentID: string(opponent),
			Won:        record.Won,
			Lost:       record.Lost,
		})
	}
	sortHeadToHead(out.HeadToHead)
	return out
}

// SessionForm is a per-session win/loss record
type SessionForm struct {
	SessionID string    `json:"session_id"`
	Date      string    `json:"date"`
	StartedAt time.Time `json:"started_at"`
	Won       int       `json:"won"`
	Lost      int       `json:"lost"`
}

// FormFromModel converts session form entries
func FormFromModel(form []model.SessionForm) []SessionForm {
	out := make([]SessionForm, 0, len(form))
	for _, f := range form {
		out = append(out, SessionForm{
			SessionID: string(f.SessionID),
			Date:      f.Date,
			StartedAt: f.StartedAt,
			Won:       f.Won,
			Lost:      f.Lost,
		})
	}
	return out
}

func sortHeadToHead(records []HeadToHead) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].OpponentID < records[j].OpponentID
	})
}
