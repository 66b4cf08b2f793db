package port

import (
	"context"
	"errors"
	"time"

	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
)

// ErrNotFound is returned when a stored record does not exist
var ErrNotFound = errors.New("record not found")

// SessionRepository persists login sessions
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	UpdateCookies(ctx context.Context, id string, cookies []entity.Cookie) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ActivityRepository persists activity events
type ActivityRepository interface {
	Create(ctx context.Context, e *event.Event) error
	ListByActor(ctx context.Context, actorID string, limit int) ([]*event.Event, error)
	ListByProposal(ctx context.Context, proposalID int64) ([]*event.Event, error)
	Exists(ctx context.Context, eventType event.Type, proposalID int64, since time.Time) (bool, error)
}

// TransactionManager runs fn inside one database transaction. Repository
// calls made with the ctx passed to fn join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
