package matchplay

import (
	"context"
	"log/slog"
	"time"

	"github.com/chalkline/chalkline/internal/dependencies/clock"
	"github.com/chalkline/chalkline/internal/dependencies/random"
	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/services/achievements"
	"github.com/chalkline/chalkline/internal/services/stats"
	"github.com/chalkline/chalkline/internal/storage"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Controller manages the session and frame lifecycle. Recording a frame is
// the game event that drives achievement evaluation for both players.
type Controller struct {
	storage      storage.Storage
	achievements *achievements.Service
	clock        clock.Clock
	random       random.Random
	logger       *slog.Logger
}

// NewController creates a new matchplay Controller
func NewController(
	storage storage.Storage,
	achievements *achievements.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:      storage,
		achievements: achievements,
		clock:        clock,
		random:       random,
		logger:       logger,
	}
}

// NewUnlock pairs a newly unlocked achievement with the player who earned
// it, for UI notification after a frame.
type NewUnlock struct {
	PlayerID    model.PlayerID
	Achievement achievements.Definition
}

// StartSession opens a new session. At most one session may be active.
func (c *Controller) StartSession(ctx context.Context, playerIDs []model.PlayerID) (*model.Session, error) {
	sessions, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Active() {
			return nil, model.ErrSessionActive
		}
	}

	for _, id := range playerIDs {
		player, err := c.storage.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		if player.Archived {
			return nil, model.ErrPlayerArchived
		}
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:        model.SessionID(c.random.String(12, idAlphabet)),
		Date:      now.Format("2006-01-02"),
		StartedAt: now,
		Players:   playerIDs,
	}
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session started",
		slog.String("session_id", string(session.ID)),
		slog.Int("player_count", len(playerIDs)),
	)

	return session, nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// ListSessions returns every session
func (c *Controller) ListSessions(ctx context.Context) ([]model.Session, error) {
	return c.storage.ListSessions(ctx)
}

// EndSession closes an active session, making it immutable
func (c *Controller) EndSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, model.ErrSessionEnded
	}
	now := c.clock.Now()
	session.EndedAt = &now
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session ended", slog.String("session_id", string(id)))

	return session, nil
}

// AddParticipant appends a player to an active session. Adding a player who
// is already a participant is a no-op.
func (c *Controller) AddParticipant(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, model.ErrSessionEnded
	}
	if session.HasPlayer(playerID) {
		return session, nil
	}
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Archived {
		return nil, model.ErrPlayerArchived
	}

	session.Players = append(session.Players, playerID)
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RecordFrameParams describes one completed frame
type RecordFrameParams struct {
	SessionID model.SessionID
	WinnerID  model.PlayerID
	LoserID   model.PlayerID
	Brush     bool
	Clearance bool
	ClipURL   string
	StartedAt *time.Time
}

// RecordFrame appends a frame to an active session and runs the achievement
// check for both players. The returned unlocks are new this frame only.
func (c *Controller) RecordFrame(ctx context.Context, params RecordFrameParams) (*model.Frame, []NewUnlock, error) {
	session, err := c.storage.GetSession(ctx, params.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.Active() {
		return nil, nil, model.ErrSessionEnded
	}
	if params.WinnerID == params.LoserID {
		return nil, nil, model.ErrSameWinnerLoser
	}
	if !session.HasPlayer(params.WinnerID) || !session.HasPlayer(params.LoserID) {
		return nil, nil, model.ErrNotParticipant
	}

	frame := &model.Frame{
		ID:         model.FrameID(c.random.String(12, idAlphabet)),
		SessionID:  params.SessionID,
		WinnerID:   params.WinnerID,
		LoserID:    params.LoserID,
		Brush:      params.Brush,
		Clearance:  params.Clearance,
		ClipURL:    params.ClipURL,
		StartedAt:  params.StartedAt,
		RecordedAt: c.clock.Now(),
	}
	if err := c.storage.SaveFrame(ctx, frame); err != nil {
		return nil, nil, err
	}

	c.logger.Info("frame recorded",
		slog.String("frame_id", string(frame.ID)),
		slog.String("session_id", string(frame.SessionID)),
		slog.String("winner_id", string(frame.WinnerID)),
		slog.String("loser_id", string(frame.LoserID)),
	)

	unlocks, err := c.checkAchievements(ctx, frame)
	if err != nil {
		// The frame is recorded; a failed snapshot read only costs this
		// round of achievement evaluation.
		c.logger.Error("achievement check skipped",
			slog.String("frame_id", string(frame.ID)),
			slog.String("error", err.Error()),
		)
		return frame, nil, nil
	}

	return frame, unlocks, nil
}

// UndoLastFrame removes the most recently recorded frame of a session
func (c *Controller) UndoLastFrame(ctx context.Context, sessionID model.SessionID) (*model.Frame, error) {
	if _, err := c.storage.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	frames, err := c.storage.ListFrames(ctx)
	if err != nil {
		return nil, err
	}

	var last *model.Frame
	for i := range frames {
		if frames[i].SessionID == sessionID {
			last = &frames[i]
		}
	}
	if last == nil {
		return nil, model.ErrNoFrames
	}

	if err := c.storage.DeleteFrame(ctx, last.ID); err != nil {
		return nil, err
	}

	c.logger.Info("frame undone",
		slog.String("frame_id", string(last.ID)),
		slog.String("session_id", string(sessionID)),
	)

	return last, nil
}

// checkAchievements evaluates the rule table for the frame's winner and
// loser against a fresh snapshot
func (c *Controller) checkAchievements(ctx context.Context, frame *model.Frame) ([]NewUnlock, error) {
	players, err := c.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	frames, err := c.storage.ListFrames(ctx)
	if err != nil {
		return nil, err
	}

	sessionFrames := make([]model.Frame, 0, 8)
	for i := range frames {
		if frames[i].SessionID == frame.SessionID {
			sessionFrames = append(sessionFrames, frames[i])
		}
	}

	leader := c.monthlyLeader(players, sessions, frames)

	var unlocks []NewUnlock
	for _, playerID := range [2]model.PlayerID{frame.WinnerID, frame.LoserID} {
		newly := c.achievements.UnlockCheck(ctx, playerID, achievements.Context{
			Frames:        frames,
			Sessions:      sessions,
			SessionFrames: sessionFrames,
			LeaderID:      leader,
		})
		for _, def := range newly {
			unlocks = append(unlocks, NewUnlock{PlayerID: playerID, Achievement: def})
		}
	}
	return unlocks, nil
}

// monthlyLeader returns the current calendar month's leaderboard leader, or
// empty when the month has no frames yet
func (c *Controller) monthlyLeader(players []model.Player, sessions []model.Session, frames []model.Frame) model.PlayerID {
	now := c.clock.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	window := &model.DateRange{
		From: start,
		To:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
	board := stats.Leaderboard(players, sessions, frames, window)
	if len(board) == 0 {
		return ""
	}
	return board[0].PlayerID
}
