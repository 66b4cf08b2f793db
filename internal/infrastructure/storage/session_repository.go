package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// FileSessionRepository serves the one saved CLI session through the
// session repository interface, so the CLI can share the session service
// with the server
type FileSessionRepository struct {
	store port.SessionStore
	now   func() time.Time
	mu    sync.Mutex
}

// NewFileSessionRepository wraps store
func NewFileSessionRepository(store port.SessionStore) *FileSessionRepository {
	return &FileSessionRepository{store: store, now: time.Now}
}

// Create replaces whatever session was saved before
func (r *FileSessionRepository) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Save(s)
}

// GetByID returns the saved session when its id matches
func (r *FileSessionRepository) GetByID(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(id)
}

func (r *FileSessionRepository) UpdateCookies(_ context.Context, id string, cookies []entity.Cookie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.load(id)
	if err != nil {
		return err
	}
	s.Cookies = cookies
	return r.store.Save(s)
}

func (r *FileSessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.load(id); err != nil {
		return err
	}
	return r.store.Clear()
}

// DeleteExpired clears the saved session if it has expired
func (r *FileSessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.store.Load()
	if errors.Is(err, ErrNoSession) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if !s.IsExpired(r.now()) {
		return 0, nil
	}
	if err := r.store.Clear(); err != nil {
		return 0, err
	}
	return 1, nil
}

func (r *FileSessionRepository) load(id string) (*entity.Session, error) {
	s, err := r.store.Load()
	if errors.Is(err, ErrNoSession) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.ID != id {
		return nil, port.ErrNotFound
	}
	return s, nil
}

var _ port.SessionRepository = (*FileSessionRepository)(nil)
