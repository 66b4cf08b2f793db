package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
)

// SessionSweeper periodically deletes expired BFF sessions
type SessionSweeper struct {
	sessions port.SessionRepository
	logger   *zap.Logger
	loop     *loop
}

// NewSessionSweeper creates the sweeper
func NewSessionSweeper(sessions port.SessionRepository, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	s := &SessionSweeper{sessions: sessions, logger: logger}
	s.loop = &loop{name: s.Name(), interval: interval, tick: s.sweep}
	return s
}

func (s *SessionSweeper) Name() string { return "SessionSweeper" }

func (s *SessionSweeper) Start(ctx context.Context) error { return s.loop.start(ctx, false) }

func (s *SessionSweeper) Stop() error {
	s.loop.stop()
	return nil
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Failed to delete expired sessions", zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.logger.Info("Expired sessions deleted", zap.Int64("count", n))
	}
}
