package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// SessionFileName is the file the CLI keeps its login in
const SessionFileName = "user_session.json"

// ErrNoSession is returned by Load when nobody is logged in
var ErrNoSession = errors.New("no saved session")

// SessionFileStore keeps the CLI session as JSON in a state directory
type SessionFileStore struct {
	dir    string
	logger *zap.Logger
}

// NewSessionFileStore creates a store under dir. The directory is created
// on first save.
func NewSessionFileStore(dir string, logger *zap.Logger) *SessionFileStore {
	return &SessionFileStore{dir: dir, logger: logger}
}

// DefaultStateDir returns the per-user state directory of the CLI
func DefaultStateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(base, "rdtrack"), nil
}

// Path returns the session file path
func (s *SessionFileStore) Path() string {
	return filepath.Join(s.dir, SessionFileName)
}

// Save writes the session, replacing any previous one atomically
func (s *SessionFileStore) Save(session *entity.Session) error {
	if session == nil {
		return fmt.Errorf("cannot save nil session")
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.logger.Error("Failed to create state directory", zap.String("path", s.dir), zap.Error(err))
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, SessionFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to restrict session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Debug("Session saved", zap.String("path", s.Path()), zap.String("user_id", session.User.ID))
	return nil
}

// Load reads the saved session
func (s *SessionFileStore) Load() (*entity.Session, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn("Saved session is corrupt", zap.String("path", s.Path()), zap.Error(err))
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Clear removes the saved session. Clearing when nothing is saved is
// not an error.
func (s *SessionFileStore) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

var _ port.SessionStore = (*SessionFileStore)(nil)
