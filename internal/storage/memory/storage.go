package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players  map[model.PlayerID]*model.Player
	sessions map[model.SessionID]*model.Session
	frames   map[model.FrameID]*model.Frame
	unlocks  map[unlockKey]model.Unlock
}

type unlockKey struct {
	playerID      model.PlayerID
	achievementID model.AchievementID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:  make(map[model.PlayerID]*model.Player),
		sessions: make(map[model.SessionID]*model.Session),
		frames:   make(map[model.FrameID]*model.Frame),
		unlocks:  make(map[unlockKey]model.Unlock),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *player
	s.players[player.ID] = &copied
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].CreatedAt.Before(players[j].CreatedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	copied.Players = append([]model.PlayerID(nil), session.Players...)
	s.sessions[session.ID] = &copied
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	copied := *session
	copied.Players = append([]model.PlayerID(nil), session.Players...)
	return &copied, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		copied := *sess
		copied.Players = append([]model.PlayerID(nil), sess.Players...)
		sessions = append(sessions, copied)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.Before(sessions[j].StartedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

// Frame operations

func (s *Storage) SaveFrame(ctx context.Context, frame *model.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *frame
	s.frames[frame.ID] = &copied
	return nil
}

func (s *Storage) ListFrames(ctx context.Context) ([]model.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frames := make([]model.Frame, 0, len(s.frames))
	for _, f := range s.frames {
		frames = append(frames, *f)
	}
	sort.Slice(frames, func(i, j int) bool {
		if !frames[i].RecordedAt.Equal(frames[j].RecordedAt) {
			return frames[i].RecordedAt.Before(frames[j].RecordedAt)
		}
		return frames[i].ID < frames[j].ID
	})
	return frames, nil
}

func (s *Storage) DeleteFrame(ctx context.Context, id model.FrameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.frames[id]; !ok {
		return model.ErrFrameNotFound
	}
	delete(s.frames, id)
	return nil
}

// Achievement unlock operations

func (s *Storage) ListUnlocks(ctx context.Context) ([]model.Unlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unlocks := make([]model.Unlock, 0, len(s.unlocks))
	for _, u := range s.unlocks {
		unlocks = append(unlocks, u)
	}
	sort.Slice(unlocks, func(i, j int) bool {
		if unlocks[i].PlayerID != unlocks[j].PlayerID {
			return unlocks[i].PlayerID < unlocks[j].PlayerID
		}
		return unlocks[i].AchievementID < unlocks[j].AchievementID
	})
	return unlocks, nil
}

func (s *Storage) InsertUnlock(ctx context.Context, unlock model.Unlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := unlockKey{unlock.PlayerID, unlock.AchievementID}
	if _, ok := s.unlocks[key]; ok {
		return model.ErrDuplicateUnlock
	}
	s.unlocks[key] = unlock
	return nil
}
