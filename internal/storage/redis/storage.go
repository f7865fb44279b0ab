package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Entities are stored as JSON values with SET/ZSET indexes; unlocks live in
// per-player hashes written with HSETNX, which gives the idempotent insert
// the achievement table requires for free.
type Storage struct {
	client *redis.Client
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client) *Storage {
	return &Storage{client: client}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.SAdd(ctx, playersIndexKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	players := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue // index entry outlived the value
			}
			return nil, err
		}
		players = append(players, *player)
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
	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playersIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, 0)
	pipe.SAdd(ctx, sessionsIndexKey(), string(session.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.Session, error) {
	ids, err := s.client.SMembers(ctx, sessionsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]model.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, model.SessionID(id))
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, *session)
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
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, frameKey(frame.ID), data, 0)
	pipe.ZAdd(ctx, framesIndexKey(), redis.Z{
		Score:  float64(frame.RecordedAt.UnixNano()),
		Member: string(frame.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListFrames(ctx context.Context) ([]model.Frame, error) {
	// The ZSET is scored by recorded time, so the range is already in
	// ascending order.
	ids, err := s.client.ZRange(ctx, framesIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	frames := make([]model.Frame, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, frameKey(model.FrameID(id))).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		var frame model.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func (s *Storage) DeleteFrame(ctx context.Context, id model.FrameID) error {
	exists, err := s.client.Exists(ctx, frameKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrFrameNotFound
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, frameKey(id))
	pipe.ZRem(ctx, framesIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Achievement unlock operations

func (s *Storage) ListUnlocks(ctx context.Context) ([]model.Unlock, error) {
	playerIDs, err := s.client.SMembers(ctx, unlockPlayersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	var unlocks []model.Unlock
	for _, playerID := range playerIDs {
		fields, err := s.client.HGetAll(ctx, unlocksKey(model.PlayerID(playerID))).Result()
		if err != nil {
			return nil, err
		}
		for achievementID, at := range fields {
			unlockedAt, err := time.Parse(time.RFC3339Nano, at)
			if err != nil {
				return nil, err
			}
			unlocks = append(unlocks, model.Unlock{
				PlayerID:      model.PlayerID(playerID),
				AchievementID: model.AchievementID(achievementID),
				UnlockedAt:    unlockedAt,
			})
		}
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
	set, err := s.client.HSetNX(ctx,
		unlocksKey(unlock.PlayerID),
		string(unlock.AchievementID),
		unlock.UnlockedAt.Format(time.RFC3339Nano),
	).Result()
	if err != nil {
		return err
	}
	if !set {
		return model.ErrDuplicateUnlock
	}
	return s.client.SAdd(ctx, unlockPlayersIndexKey(), string(unlock.PlayerID)).Err()
}
