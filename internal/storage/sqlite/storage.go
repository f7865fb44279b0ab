package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

// Storage is a SQLite-backed implementation of the storage interface.
// Timestamps are stored as RFC 3339 text. The unlock table's composite
// primary key enforces the at-most-one-row-per-pair invariant; the insert
// uses ON CONFLICT DO NOTHING and reports a duplicate instead of failing.
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the underlying connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, display_name, nickname, glyph, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			nickname = excluded.nickname,
			glyph = excluded.glyph,
			archived = excluded.archived`,
		string(player.ID), player.DisplayName, player.Nickname, player.Glyph,
		boolToInt(player.Archived), formatTime(player.CreatedAt),
	)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, nickname, glyph, archived, created_at
		FROM players WHERE id = ?`, string(id))
	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	return player, err
}

func (s *Storage) ListPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, nickname, glyph, archived, created_at
		FROM players ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, string(id))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		player    model.Player
		archived  int
		createdAt string
	)
	if err := row.Scan(&player.ID, &player.DisplayName, &player.Nickname,
		&player.Glyph, &archived, &createdAt); err != nil {
		return nil, err
	}
	player.Archived = archived != 0
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	player.CreatedAt = t
	return &player, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var endedAt any
	if session.EndedAt != nil {
		endedAt = formatTime(*session.EndedAt)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, date, started_at, ended_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at`,
		string(session.ID), session.Date, formatTime(session.StartedAt), endedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_players WHERE session_id = ?`, string(session.ID),
	); err != nil {
		return err
	}
	for i, playerID := range session.Players {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO session_players (session_id, player_id, position)
			VALUES (?, ?, ?)`,
			string(session.ID), string(playerID), i,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, started_at, ended_at FROM sessions WHERE id = ?`, string(id))
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadParticipants(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, started_at, ended_at FROM sessions ORDER BY started_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range sessions {
		if err := s.loadParticipants(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func scanSession(row rowScanner) (*model.Session, error) {
	var (
		session   model.Session
		startedAt string
		endedAt   sql.NullString
	)
	if err := row.Scan(&session.ID, &session.Date, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	t, err := parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	session.StartedAt = t
	if endedAt.Valid {
		e, err := parseTime(endedAt.String)
		if err != nil {
			return nil, err
		}
		session.EndedAt = &e
	}
	return &session, nil
}

func (s *Storage) loadParticipants(ctx context.Context, session *model.Session) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id FROM session_players
		WHERE session_id = ? ORDER BY position`, string(session.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return err
		}
		session.Players = append(session.Players, model.PlayerID(playerID))
	}
	return rows.Err()
}

// Frame operations

func (s *Storage) SaveFrame(ctx context.Context, frame *model.Frame) error {
	var startedAt any
	if frame.StartedAt != nil {
		startedAt = formatTime(*frame.StartedAt)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO frames (id, session_id, winner_id, loser_id, brush, clearance, clip_url, started_at, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(frame.ID), string(frame.SessionID), string(frame.WinnerID),
		string(frame.LoserID), boolToInt(frame.Brush), boolToInt(frame.Clearance),
		frame.ClipURL, startedAt, formatTime(frame.RecordedAt),
	)
	return err
}

func (s *Storage) ListFrames(ctx context.Context) ([]model.Frame, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, winner_id, loser_id, brush, clearance, clip_url, started_at, recorded_at
		FROM frames ORDER BY recorded_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []model.Frame
	for rows.Next() {
		var (
			frame      model.Frame
			brush      int
			clearance  int
			startedAt  sql.NullString
			recordedAt string
		)
		if err := rows.Scan(&frame.ID, &frame.SessionID, &frame.WinnerID,
			&frame.LoserID, &brush, &clearance, &frame.ClipURL,
			&startedAt, &recordedAt); err != nil {
			return nil, err
		}
		frame.Brush = brush != 0
		frame.Clearance = clearance != 0
		if startedAt.Valid {
			t, err := parseTime(startedAt.String)
			if err != nil {
				return nil, err
			}
			frame.StartedAt = &t
		}
		t, err := parseTime(recordedAt)
		if err != nil {
			return nil, err
		}
		frame.RecordedAt = t
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}

func (s *Storage) DeleteFrame(ctx context.Context, id model.FrameID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM frames WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrFrameNotFound
	}
	return nil
}

// Achievement unlock operations

func (s *Storage) ListUnlocks(ctx context.Context) ([]model.Unlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, achievement_id, unlocked_at
		FROM achievement_unlocks ORDER BY player_id, achievement_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []model.Unlock
	for rows.Next() {
		var (
			unlock     model.Unlock
			unlockedAt string
		)
		if err := rows.Scan(&unlock.PlayerID, &unlock.AchievementID, &unlockedAt); err != nil {
			return nil, err
		}
		t, err := parseTime(unlockedAt)
		if err != nil {
			return nil, err
		}
		unlock.UnlockedAt = t
		unlocks = append(unlocks, unlock)
	}
	return unlocks, rows.Err()
}

func (s *Storage) InsertUnlock(ctx context.Context, unlock model.Unlock) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO achievement_unlocks (player_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id, achievement_id) DO NOTHING`,
		string(unlock.PlayerID), string(unlock.AchievementID), formatTime(unlock.UnlockedAt),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrDuplicateUnlock
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
