package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/persistence/sqlite"
)

const defaultActivityLimit = 50

// ActivityRepository implements port.ActivityRepository
type ActivityRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB, logger *zap.Logger) port.ActivityRepository {
	return &ActivityRepository{db: db, logger: logger}
}

// Create stores an activity event
func (r *ActivityRepository) Create(ctx context.Context, e *event.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO activity_events (id, type, actor_id, proposal_id, evaluator_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		e.ID, string(e.Type), e.ActorID, e.ProposalID, e.EvaluatorID, string(payload), e.Timestamp.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create activity event",
			zap.String("type", string(e.Type)), zap.Int64("proposal_id", e.ProposalID), zap.Error(err))
		return fmt.Errorf("failed to create activity event: %w", err)
	}
	return nil
}

// ListByActor returns the most recent events of one user, newest first
func (r *ActivityRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	query := `
		SELECT id, type, actor_id, proposal_id, evaluator_id, payload, created_at
		FROM activity_events
		WHERE actor_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	return r.list(ctx, query, actorID, limit)
}

// ListByProposal returns the events of one proposal, oldest first
func (r *ActivityRepository) ListByProposal(ctx context.Context, proposalID int64) ([]*event.Event, error) {
	query := `
		SELECT id, type, actor_id, proposal_id, evaluator_id, payload, created_at
		FROM activity_events
		WHERE proposal_id = ?
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, proposalID)
}

// Exists reports whether an event of the given type was recorded for a
// proposal at or after since
func (r *ActivityRepository) Exists(ctx context.Context, eventType event.Type, proposalID int64, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM activity_events
			WHERE type = ? AND proposal_id = ? AND created_at >= ?
		)
	`
	var exists bool
	if err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, string(eventType), proposalID, since.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check activity event: %w", err)
	}
	return exists, nil
}

func (r *ActivityRepository) list(ctx context.Context, query string, args ...interface{}) ([]*event.Event, error) {
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list activity events", zap.Error(err))
		return nil, fmt.Errorf("failed to list activity events: %w", err)
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		var (
			e       event.Event
			typ     string
			payload string
		)
		if err := rows.Scan(&e.ID, &typ, &e.ActorID, &e.ProposalID, &e.EvaluatorID, &payload, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		e.Type = event.Type(typ)
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode activity payload: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

var _ port.ActivityRepository = (*ActivityRepository)(nil)
