package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerArchived  = errors.New("player is archived")
	ErrPlayerHasFrames = errors.New("player has recorded frames")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionActive   = errors.New("another session is already active")
	ErrSessionEnded    = errors.New("session has already ended")
	ErrNotParticipant  = errors.New("player is not a session participant")

	// Frame errors
	ErrFrameNotFound   = errors.New("frame not found")
	ErrNoFrames        = errors.New("session has no frames")
	ErrSameWinnerLoser = errors.New("winner and loser must be different players")

	// Achievement errors
	ErrDuplicateUnlock = errors.New("achievement already unlocked")
)
