package request

import "time"

// CreatePlayerRequest is the request body for registering a player
type CreatePlayerRequest struct {
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname,omitempty"`
	Glyph       string `json:"glyph,omitempty"`
}

// UpdatePlayerRequest is the request body for updating a player's display fields
type UpdatePlayerRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	Glyph       string `json:"glyph,omitempty"`
}

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	PlayerIDs []string `json:"player_ids"`
}

// AddParticipantRequest is the request body for adding a session participant
type AddParticipantRequest struct {
	PlayerID string `json:"player_id"`
}

// RecordFrameRequest is the request body for recording a frame
type RecordFrameRequest struct {
	WinnerID  string     `json:"winner_id"`
	LoserID   string     `json:"loser_id"`
	Brush     bool       `json:"brush,omitempty"`
	Clearance bool       `json:"clearance,omitempty"`
	ClipURL   string     `json:"clip_url,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}
