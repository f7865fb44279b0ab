package storage

import (
	"context"

	"github.com/chalkline/chalkline/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	ListSessions(ctx context.Context) ([]model.Session, error)

	// Frame operations
	SaveFrame(ctx context.Context, frame *model.Frame) error
	// ListFrames returns every frame ordered by recorded time ascending
	ListFrames(ctx context.Context) ([]model.Frame, error)
	DeleteFrame(ctx context.Context, id model.FrameID) error

	// Achievement unlock operations
	ListUnlocks(ctx context.Context) ([]model.Unlock, error)
	// InsertUnlock persists an unlock. Returns model.ErrDuplicateUnlock when
	// the (player, achievement) row already exists; callers treat that as
	// success.
	InsertUnlock(ctx context.Context, unlock model.Unlock) error
}
