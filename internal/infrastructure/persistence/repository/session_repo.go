package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/persistence/sqlite"
)

// SessionRepository implements port.SessionRepository
type SessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) port.SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	cookiesJSON, err := json.Marshal(s.Cookies)
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	query := `
		INSERT INTO sessions (id, user_id, user_json, cookies_json, base_url, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		s.ID, s.User.ID, string(userJSON), string(cookiesJSON), s.BaseURL,
		s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create session", zap.String("user_id", s.User.ID), zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID loads a session, returning port.ErrNotFound if it does not exist
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, user_json, cookies_json, base_url, created_at, expires_at
		FROM sessions WHERE id = ?
	`

	var (
		s                     entity.Session
		userJSON, cookiesJSON string
	)
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&s.ID, &userJSON, &cookiesJSON, &s.BaseURL, &s.CreatedAt, &s.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get session", zap.String("session_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal([]byte(userJSON), &s.User); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	if err := json.Unmarshal([]byte(cookiesJSON), &s.Cookies); err != nil {
		return nil, fmt.Errorf("failed to decode session cookies: %w", err)
	}
	return &s, nil
}

// UpdateCookies replaces the stored upstream cookies
func (r *SessionRepository) UpdateCookies(ctx context.Context, id string, cookies []entity.Cookie) error {
	cookiesJSON, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		"UPDATE sessions SET cookies_json = ? WHERE id = ?", string(cookiesJSON), id)
	if err != nil {
		r.logger.Error("Failed to update session cookies", zap.String("session_id", id), zap.Error(err))
		return fmt.Errorf("failed to update session cookies: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, port.ErrNotFound)
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		r.logger.Error("Failed to delete session", zap.String("session_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session past its expiry
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

var _ port.SessionRepository = (*SessionRepository)(nil)
