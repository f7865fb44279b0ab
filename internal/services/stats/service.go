package stats

import (
	"context"
	"log/slog"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage"
)

// Service loads snapshots from the event store and computes display
// statistics from them. All computation is delegated to the pure functions
// in this package, so the service holds no state of its own and is safe for
// concurrent readers.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Leaderboard returns the leaderboard for the given window (nil = all time).
// A storage read failure propagates to the caller: statistics cannot be
// computed without data.
func (s *Service) Leaderboard(ctx context.Context, window *model.DateRange) ([]model.LeaderboardEntry, error) {
	players, sessions, frames, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Leaderboard(players, sessions, frames, window), nil
}

// PlayerStats returns the career record for one player
func (s *Service) PlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	if _, err := s.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	_, sessions, frames, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats := PlayerStats(playerID, sessions, frames)
	return &stats, nil
}

// CurrentForm returns the player's record in their n most recent sessions
func (s *Service) CurrentForm(ctx context.Context, playerID model.PlayerID, n int) ([]model.SessionForm, error) {
	if _, err := s.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	_, sessions, frames, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return CurrentForm(playerID, sessions, frames, n), nil
}

func (s *Service) snapshot(ctx context.Context) ([]model.Player, []model.Session, []model.Frame, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	frames, err := s.storage.ListFrames(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return players, sessions, frames, nil
}
