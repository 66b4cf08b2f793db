package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/internal/domain/workflow"
)

// TrackerQuery selects a page of grouped assignments
type TrackerQuery struct {
	ProposalID int64
	Filter     assignment.Filter
	Page       int
	PageSize   int
}

// TrackerService serves the grouped evaluator-assignment tracker
type TrackerService interface {
	Groups(ctx context.Context, p *Principal, proposalID int64) ([]assignment.Group, error)
	List(ctx context.Context, p *Principal, q TrackerQuery) (*assignment.Page, error)
	Stats(ctx context.Context, p *Principal, proposalID int64) (*assignment.Stats, error)
	HandleExtension(ctx context.Context, p *Principal, req *port.ExtensionDecision) error
	RemoveEvaluator(ctx context.Context, p *Principal, proposalID int64, evaluatorID string) error
}

type trackerServiceImpl struct {
	cache    port.Cache
	cacheTTL time.Duration
	recorder *activityRecorder
	now      func() time.Time
	logger   Logger
}

// NewTrackerService creates a new TrackerService
func NewTrackerService(cache port.Cache, cacheTTL time.Duration, activity port.ActivityRepository, logger Logger) TrackerService {
	return &trackerServiceImpl{
		cache:    cache,
		cacheTTL: cacheTTL,
		recorder: &activityRecorder{activity: activity, cache: cache, logger: logger},
		now:      time.Now,
		logger:   logger,
	}
}

func (s *trackerServiceImpl) records(ctx context.Context, p *Principal, proposalID int64) ([]entity.AssignmentRecord, error) {
	parts := []string{p.UserID(), strconv.FormatInt(proposalID, 10)}
	return cached(ctx, s.cache, s.cacheTTL, s.logger, NamespaceTracker, parts, func(ctx context.Context) ([]entity.AssignmentRecord, error) {
		return p.API.AssignmentTracker(ctx, proposalID)
	})
}

// Groups folds the tracker into one group per proposal
func (s *trackerServiceImpl) Groups(ctx context.Context, p *Principal, proposalID int64) ([]assignment.Group, error) {
	records, err := s.records(ctx, p, proposalID)
	if err != nil {
		s.logger.Error("Failed to fetch assignment tracker", "user_id", p.UserID(), "proposal_id", proposalID, "error", err)
		return nil, err
	}
	return assignment.GroupRecords(records, s.now()), nil
}

// List filters and paginates the grouped tracker
func (s *trackerServiceImpl) List(ctx context.Context, p *Principal, q TrackerQuery) (*assignment.Page, error) {
	if q.Page < 0 {
		return nil, validationError("page must not be negative")
	}
	if q.PageSize < 0 || q.PageSize > assignment.MaxPageSize {
		return nil, validationError("page size must be between 1 and %d", assignment.MaxPageSize)
	}
	groups, err := s.Groups(ctx, p, q.ProposalID)
	if err != nil {
		return nil, err
	}
	page := assignment.Paginate(assignment.Apply(groups, q.Filter), q.Page, q.PageSize)
	return &page, nil
}

// Stats summarizes the grouped tracker
func (s *trackerServiceImpl) Stats(ctx context.Context, p *Principal, proposalID int64) (*assignment.Stats, error) {
	groups, err := s.Groups(ctx, p, proposalID)
	if err != nil {
		return nil, err
	}
	stats := assignment.Summarize(groups)
	return &stats, nil
}

// member reads the current tracker rows of a proposal, bypassing the
// cache, and returns one evaluator's membership
func (s *trackerServiceImpl) member(ctx context.Context, p *Principal, proposalID int64, evaluatorID string) (assignment.Member, error) {
	records, err := p.API.AssignmentTracker(ctx, proposalID)
	if err != nil {
		return assignment.Member{}, err
	}
	for _, g := range assignment.GroupRecords(records, s.now()) {
		if g.ProposalID != proposalID {
			continue
		}
		if m, ok := g.Member(evaluatorID); ok {
			return m, nil
		}
	}
	return assignment.Member{}, fmt.Errorf("evaluator %s on proposal %d: %w", evaluatorID, proposalID, ErrNotFound)
}

// HandleExtension approves or denies a pending extension request
func (s *trackerServiceImpl) HandleExtension(ctx context.Context, p *Principal, req *port.ExtensionDecision) error {
	if req.ProposalID <= 0 || req.EvaluatorID == "" {
		return validationError("proposal_id and evaluator_id are required")
	}
	trigger, ok := workflow.TriggerForExtensionAction(req.Action)
	if !ok {
		return validationError("action must be approved or denied")
	}

	m, err := s.member(ctx, p, req.ProposalID, req.EvaluatorID)
	if err != nil {
		return err
	}
	if err := precheck(ctx, m, trigger, s.logger); err != nil {
		return err
	}

	if err := p.API.HandleExtension(ctx, req); err != nil {
		s.logger.Error("Failed to handle extension request", "proposal_id", req.ProposalID, "evaluator_id", req.EvaluatorID, "error", err)
		return err
	}

	eventType := event.TypeExtensionApproved
	if trigger == workflow.TriggerDenyExtension {
		eventType = event.TypeExtensionDenied
	}
	evt := event.NewEvent(eventType, p.UserID(), req.ProposalID, nil).ForEvaluator(req.EvaluatorID)
	if !m.RequestedDeadline.IsZero() {
		evt = evt.WithPayload("requested_deadline", m.RequestedDeadline.Format(time.RFC3339))
	}
	s.recorder.record(ctx, evt, NamespaceTracker)
	return nil
}

// RemoveEvaluator unassigns one evaluator from a proposal
func (s *trackerServiceImpl) RemoveEvaluator(ctx context.Context, p *Principal, proposalID int64, evaluatorID string) error {
	if proposalID <= 0 || evaluatorID == "" {
		return validationError("proposal_id and evaluator_id are required")
	}
	if err := p.API.RemoveEvaluator(ctx, proposalID, evaluatorID); err != nil {
		s.logger.Error("Failed to remove evaluator", "proposal_id", proposalID, "evaluator_id", evaluatorID, "error", err)
		return err
	}
	s.recorder.record(ctx, event.NewEvent(event.TypeEvaluatorRemoved, p.UserID(), proposalID, nil).ForEvaluator(evaluatorID),
		NamespaceTracker, NamespaceProposals)
	return nil
}
