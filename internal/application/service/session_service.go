package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/pkg/utils"
)

// MinPasswordLength is the shortest password the backend accepts
const MinPasswordLength = 6

// SessionConfig configures session lifetime
type SessionConfig struct {
	TTL     time.Duration
	BaseURL string
}

// SessionService manages login sessions against the proposal backend
type SessionService interface {
	Login(ctx context.Context, email, password string) (*Principal, error)
	Resume(ctx context.Context, sessionID string) (*Principal, error)
	Refresh(ctx context.Context, p *Principal) error
	Logout(ctx context.Context, p *Principal) error
	ChangePassword(ctx context.Context, p *Principal, newPassword string) error
}

type sessionServiceImpl struct {
	config   SessionConfig
	factory  port.APIFactory
	sessions port.SessionRepository
	recorder *activityRecorder
	now      func() time.Time
	logger   Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	config SessionConfig,
	factory port.APIFactory,
	sessions port.SessionRepository,
	activity port.ActivityRepository,
	cache port.Cache,
	logger Logger,
) SessionService {
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	return &sessionServiceImpl{
		config:   config,
		factory:  factory,
		sessions: sessions,
		recorder: &activityRecorder{activity: activity, cache: cache, logger: logger},
		now:      time.Now,
		logger:   logger,
	}
}

// Login authenticates upstream and persists a new session
func (s *sessionServiceImpl) Login(ctx context.Context, email, password string) (*Principal, error) {
	email = strings.TrimSpace(email)
	if utils.ValidateEmail(email) != nil {
		return nil, validationError("a valid email is required")
	}
	if password == "" {
		return nil, validationError("password is required")
	}

	api, err := s.factory.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	if err := api.Login(ctx, email, password); err != nil {
		s.logger.Info("Login rejected", "email", email, "error", err)
		return nil, err
	}
	user, err := api.VerifyToken(ctx)
	if err != nil {
		s.logger.Error("Failed to verify new session", "email", email, "error", err)
		return nil, err
	}

	now := s.now().UTC()
	session := &entity.Session{
		ID:        uuid.NewString(),
		User:      *user,
		Cookies:   api.Cookies(),
		BaseURL:   s.config.BaseURL,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("Failed to store session", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.recorder.record(ctx, event.NewEvent(event.TypeSessionLogin, user.ID, 0, map[string]interface{}{
		"email": user.Email,
		"role":  user.PrimaryRole(),
	}))
	s.logger.Info("Session created", "session_id", session.ID, "user_id", user.ID)
	return &Principal{Session: session, API: api}, nil
}

// Resume loads a stored session and rebuilds its backend client
func (s *sessionServiceImpl) Resume(ctx context.Context, sessionID string) (*Principal, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, port.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if session.IsExpired(s.now()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, port.ErrNotFound) {
			s.logger.Error("Failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, ErrSessionExpired
	}

	api, err := s.factory.New(session.Cookies)
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	return &Principal{Session: session, API: api}, nil
}

// Refresh stores cookies the backend rotated during the request
func (s *sessionServiceImpl) Refresh(ctx context.Context, p *Principal) error {
	current := p.API.Cookies()
	if sameCookies(p.Session.Cookies, current) {
		return nil
	}
	if err := s.sessions.UpdateCookies(ctx, p.Session.ID, current); err != nil {
		return err
	}
	p.Session.Cookies = current
	return nil
}

// Logout ends the backend session and deletes the local one. Backend
// logout failures are logged; the local session is removed regardless.
func (s *sessionServiceImpl) Logout(ctx context.Context, p *Principal) error {
	if err := p.API.Logout(ctx); err != nil {
		s.logger.Info("Backend logout failed", "session_id", p.Session.ID, "error", err)
	}
	if err := s.sessions.Delete(ctx, p.Session.ID); err != nil && !errors.Is(err, port.ErrNotFound) {
		s.logger.Error("Failed to delete session", "session_id", p.Session.ID, "error", err)
		return err
	}

	s.recorder.record(ctx, event.NewEvent(event.TypeSessionLogout, p.UserID(), 0, nil), NamespaceProposals, NamespaceTracker)
	s.logger.Info("Session ended", "session_id", p.Session.ID, "user_id", p.UserID())
	return nil
}

// ChangePassword sets a new password for the session user
func (s *sessionServiceImpl) ChangePassword(ctx context.Context, p *Principal, newPassword string) error {
	if err := utils.ValidatePassword(newPassword, MinPasswordLength); err != nil {
		return validationError("%v", err)
	}
	if err := p.API.ChangePassword(ctx, newPassword); err != nil {
		s.logger.Error("Failed to change password", "user_id", p.UserID(), "error", err)
		return err
	}
	s.recorder.record(ctx, event.NewEvent(event.TypePasswordChanged, p.UserID(), 0, nil))
	return nil
}

func sameCookies(a, b []entity.Cookie) bool {
	if len(a) != len(b) {
		return false
	}
	values := make(map[string]string, len(a))
	for _, c := range a {
		values[c.Name] = c.Value
	}
	for _, c := range b {
		if v, ok := values[c.Name]; !ok || v != c.Value {
			return false
		}
	}
	return true
}
