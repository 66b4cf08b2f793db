package service

import (
	"context"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
)

// DefaultActivityLimit bounds activity listings when no limit is given
const DefaultActivityLimit = 50

// ActivityService reads the local activity log
type ActivityService interface {
	Recent(ctx context.Context, p *Principal, limit int) ([]*event.Event, error)
	ForProposal(ctx context.Context, proposalID int64) ([]*event.Event, error)
}

type activityServiceImpl struct {
	activity port.ActivityRepository
	logger   Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(activity port.ActivityRepository, logger Logger) ActivityService {
	return &activityServiceImpl{activity: activity, logger: logger}
}

// Recent lists the session user's latest events, newest first
func (s *activityServiceImpl) Recent(ctx context.Context, p *Principal, limit int) ([]*event.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = DefaultActivityLimit
	}
	events, err := s.activity.ListByActor(ctx, p.UserID(), limit)
	if err != nil {
		s.logger.Error("Failed to list activity", "user_id", p.UserID(), "error", err)
		return nil, err
	}
	return events, nil
}

// ForProposal lists every event recorded for one proposal
func (s *activityServiceImpl) ForProposal(ctx context.Context, proposalID int64) ([]*event.Event, error) {
	if proposalID <= 0 {
		return nil, validationError("proposal id is required")
	}
	return s.activity.ListByProposal(ctx, proposalID)
}
