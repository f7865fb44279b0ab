package roster

import (
	"context"
	"log/slog"

	"github.com/chalkline/chalkline/internal/dependencies/clock"
	"github.com/chalkline/chalkline/internal/dependencies/random"
	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Service manages the player roster lifecycle
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new roster Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreatePlayer registers a new player
func (s *Service) CreatePlayer(ctx context.Context, displayName, nickname, glyph string) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID(s.random.String(12, idAlphabet)),
		DisplayName: displayName,
		Nickname:    nickname,
		Glyph:       glyph,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("display_name", player.DisplayName),
	)

	return player, nil
}

// GetPlayer retrieves a player by ID
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// ListPlayers returns the roster. Archived players are excluded unless
// includeArchived is set; they remain in historical statistics either way.
func (s *Service) ListPlayers(ctx context.Context, includeArchived bool) ([]model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	if includeArchived {
		return players, nil
	}
	active := players[:0]
	for _, p := range players {
		if !p.Archived {
			active = append(active, p)
		}
	}
	return active, nil
}

// UpdatePlayer changes a player's display fields
func (s *Service) UpdatePlayer(ctx context.Context, id model.PlayerID, displayName, nickname, glyph string) (*model.Player, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		player.DisplayName = displayName
	}
	player.Nickname = nickname
	player.Glyph = glyph
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// ArchivePlayer soft-deletes a player
func (s *Service) ArchivePlayer(ctx context.Context, id model.PlayerID) error {
	return s.setArchived(ctx, id, true)
}

// RestorePlayer reverses an archive
func (s *Service) RestorePlayer(ctx context.Context, id model.PlayerID) error {
	return s.setArchived(ctx, id, false)
}

func (s *Service) setArchived(ctx context.Context, id model.PlayerID, archived bool) error {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	if player.Archived == archived {
		return nil
	}
	player.Archived = archived
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return err
	}
	s.logger.Info("player archive state changed",
		slog.String("player_id", string(id)),
		slog.Bool("archived", archived),
	)
	return nil
}

// DeletePlayer permanently removes a player. Only allowed when no frame
// references them; archived is the path for players with history.
func (s *Service) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if _, err := s.storage.GetPlayer(ctx, id); err != nil {
		return err
	}
	frames, err := s.storage.ListFrames(ctx)
	if err != nil {
		return err
	}
	for i := range frames {
		if frames[i].Involves(id) {
			return model.ErrPlayerHasFrames
		}
	}
	return s.storage.DeletePlayer(ctx, id)
}
