package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printPlayers(v)
	case Session:
		o.printSession(v)
	case []Session:
		o.printSessions(v)
	case RecordFrameResult:
		o.printRecordFrameResult(v)
	case Frame:
		o.printFrame(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case []SessionForm:
		o.printForm(v)
	case []Achievement:
		o.printAchievements(v)
	case []Unlock:
		o.printUnlocks(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type
type Player struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Nickname    string    `json:"nickname,omitempty"`
	Glyph       string    `json:"glyph,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session response type
type Session struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Active    bool       `json:"active"`
	PlayerIDs []string   `json:"player_ids"`
}

// Frame response type
type Frame struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	WinnerID   string    `json:"winner_id"`
	LoserID    string    `json:"loser_id"`
	Brush      bool      `json:"brush,omitempty"`
	Clearance  bool      `json:"clearance,omitempty"`
	ClipURL    string    `json:"clip_url,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Achievement response type
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PlayerUnlock response type
type PlayerUnlock struct {
	PlayerID    string      `json:"player_id"`
	Achievement Achievement `json:"achievement"`
}

// RecordFrameResult response type
type RecordFrameResult struct {
	Frame    Frame          `json:"frame"`
	Unlocked []PlayerUnlock `json:"unlocked,omitempty"`
}

// Unlock response type
type Unlock struct {
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	PlayerID         string `json:"player_id"`
	DisplayName      string `json:"display_name"`
	Won              int    `json:"won"`
	Lost             int    `json:"lost"`
	WinPercentage    int    `json:"win_percentage"`
	SessionsAttended int    `json:"sessions_attended"`
}

// HeadToHead response type
type HeadToHead struct {
	OpponentID string `json:"opponent_id"`
	Won        int    `json:"won"`
	Lost       int    `json:"lost"`
}

// BestSession response type
type BestSession struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Wins      int    `json:"wins"`
}

// PlayerStats response type
type PlayerStats struct {
	PlayerID       string       `json:"player_id"`
	FramesWon      int          `json:"frames_won"`
	FramesLost     int          `json:"frames_lost"`
	WinPercentage  int          `json:"win_percentage"`
	SessionsPlayed int          `json:"sessions_played"`
	BestSession    *BestSession `json:"best_session,omitempty"`
	HeadToHead     []HeadToHead `json:"head_to_head"`
}

// SessionForm response type
type SessionForm struct {
	SessionID string    `json:"session_id"`
	Date      string    `json:"date"`
	StartedAt time.Time `json:"started_at"`
	Won       int       `json:"won"`
	Lost      int       `json:"lost"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func newTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func (o *Output) printPlayer(p Player) {
	label := p.DisplayName
	if p.Nickname != "" {
		label = fmt.Sprintf("%s %q", p.DisplayName, p.Nickname)
	}
	fmt.Printf("Player: %s (%s)\n", label, p.ID)
	if p.Glyph != "" {
		fmt.Printf("Glyph: %s\n", p.Glyph)
	}
	if p.Archived {
		fmt.Println("Archived: yes")
	}
}

func (o *Output) printPlayers(players []Player) {
	t := newTable()
	t.Header("NAME", "NICKNAME", "ID", "ARCHIVED")
	for _, p := range players {
		archived := ""
		if p.Archived {
			archived = "yes"
		}
		t.Append(p.DisplayName, p.Nickname, p.ID, archived)
	}
	t.Render()
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Date: %s\n", s.Date)
	if s.Active {
		fmt.Println("State: active")
	} else {
		fmt.Println("State: ended")
	}
	fmt.Printf("Players (%d):\n", len(s.PlayerIDs))
	for _, id := range s.PlayerIDs {
		fmt.Printf("  - %s\n", id)
	}
}

func (o *Output) printSessions(sessions []Session) {
	t := newTable()
	t.Header("DATE", "ID", "PLAYERS", "STATE")
	for _, s := range sessions {
		state := "ended"
		if s.Active {
			state = "active"
		}
		t.Append(s.Date, s.ID, fmt.Sprintf("%d", len(s.PlayerIDs)), state)
	}
	t.Render()
}

func (o *Output) printFrame(f Frame) {
	fmt.Printf("Frame: %s\n", f.ID)
	fmt.Printf("Winner: %s\n", f.WinnerID)
	fmt.Printf("Loser: %s\n", f.LoserID)
	if f.Brush {
		fmt.Println("Brush: yes")
	}
	if f.Clearance {
		fmt.Println("Clearance: yes")
	}
}

func (o *Output) printRecordFrameResult(r RecordFrameResult) {
	o.printFrame(r.Frame)
	for _, u := range r.Unlocked {
		fmt.Printf("Achievement unlocked for %s: %s - %s\n",
			u.PlayerID, u.Achievement.Name, u.Achievement.Description)
	}
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	t := newTable()
	t.Header("PLAYER", "WON", "LOST", "WIN%", "SESSIONS")
	for _, e := range entries {
		t.Append(
			e.DisplayName,
			fmt.Sprintf("%d", e.Won),
			fmt.Sprintf("%d", e.Lost),
			fmt.Sprintf("%d%%", e.WinPercentage),
			fmt.Sprintf("%d", e.SessionsAttended),
		)
	}
	t.Render()
}

func (o *Output) printPlayerStats(s PlayerStats) {
	fmt.Printf("Player: %s\n", s.PlayerID)
	fmt.Printf("Record: %d-%d (%d%%)\n", s.FramesWon, s.FramesLost, s.WinPercentage)
	fmt.Printf("Sessions played: %d\n", s.SessionsPlayed)
	if s.BestSession != nil {
		fmt.Printf("Best session: %s (%d wins)\n", s.BestSession.Date, s.BestSession.Wins)
	}
	if len(s.HeadToHead) > 0 {
		fmt.Println("\nHead to head:")
		t := newTable()
		t.Header("OPPONENT", "WON", "LOST")
		for _, h := range s.HeadToHead {
			t.Append(h.OpponentID, fmt.Sprintf("%d", h.Won), fmt.Sprintf("%d", h.Lost))
		}
		t.Render()
	}
}

func (o *Output) printForm(form []SessionForm) {
	t := newTable()
	t.Header("DATE", "WON", "LOST")
	for _, f := range form {
		t.Append(f.Date, fmt.Sprintf("%d", f.Won), fmt.Sprintf("%d", f.Lost))
	}
	t.Render()
}

func (o *Output) printAchievements(achievements []Achievement) {
	t := newTable()
	t.Header("ID", "NAME", "DESCRIPTION")
	for _, a := range achievements {
		t.Append(a.ID, a.Name, a.Description)
	}
	t.Render()
}

func (o *Output) printUnlocks(unlocks []Unlock) {
	if len(unlocks) == 0 {
		fmt.Println("No achievements unlocked")
		return
	}
	t := newTable()
	t.Header("ACHIEVEMENT", "UNLOCKED")
	for _, u := range unlocks {
		t.Append(u.AchievementID, u.UnlockedAt.Format("2006-01-02"))
	}
	t.Render()
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
