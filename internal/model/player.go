package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a league member
type Player struct {
	ID          PlayerID
	DisplayName string
	Nickname    string // optional, shown alongside the display name
	Glyph       string // optional avatar glyph (single emoji or rune)
	Archived    bool   // soft-deleted: hidden from active rosters, retained for historical stats
	CreatedAt   time.Time
}

// Label returns the name to show for the player, preferring the nickname
func (p *Player) Label() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.DisplayName
}
