package service

import (
	"context"
	"time"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/internal/domain/workflow"
)

// EvaluatorService issues an evaluator's own assignment actions
type EvaluatorService interface {
	Decide(ctx context.Context, p *Principal, req *port.EvaluatorDecision) error
	SubmitEvaluation(ctx context.Context, p *Principal, req *port.EvaluationScores) error
}

type evaluatorServiceImpl struct {
	recorder *activityRecorder
	now      func() time.Time
	logger   Logger
}

// NewEvaluatorService creates a new EvaluatorService
func NewEvaluatorService(cache port.Cache, activity port.ActivityRepository, logger Logger) EvaluatorService {
	return &evaluatorServiceImpl{
		recorder: &activityRecorder{activity: activity, cache: cache, logger: logger},
		now:      time.Now,
		logger:   logger,
	}
}

// check validates trigger against the evaluator's current membership.
// The tracker may be closed to evaluators, in which case the backend
// alone decides.
func (s *evaluatorServiceImpl) check(ctx context.Context, p *Principal, proposalID int64, trigger workflow.Trigger) error {
	records, err := p.API.AssignmentTracker(ctx, proposalID)
	if err != nil {
		s.logger.Info("Tracker unavailable for transition check", "proposal_id", proposalID, "error", err)
		return nil
	}
	for _, g := range assignment.GroupRecords(records, s.now()) {
		if g.ProposalID != proposalID {
			continue
		}
		if m, ok := g.Member(p.UserID()); ok {
			return precheck(ctx, m, trigger, s.logger)
		}
	}
	return nil
}

// Decide accepts, declines or asks to extend an assignment
func (s *evaluatorServiceImpl) Decide(ctx context.Context, p *Principal, req *port.EvaluatorDecision) error {
	if req.ProposalID <= 0 {
		return validationError("proposal_id is required")
	}
	trigger, ok := workflow.TriggerForDecision(req.Status)
	if !ok {
		return validationError("status must be accept, decline or extend")
	}
	if tooLong(req.Remarks, MaxCommentLength) {
		return validationError("remarks must be at most %d characters", MaxCommentLength)
	}
	if trigger == workflow.TriggerRequestExtension {
		if req.DeadlineAt == "" {
			return validationError("deadline_at is required when requesting an extension")
		}
		requested, err := parseDate("deadline_at", req.DeadlineAt)
		if err != nil {
			return err
		}
		today := s.now().UTC().Truncate(24 * time.Hour)
		if !requested.After(today) {
			return validationError("deadline_at must be after today")
		}
	} else {
		req.DeadlineAt = ""
	}

	if err := s.check(ctx, p, req.ProposalID, trigger); err != nil {
		return err
	}
	if err := p.API.DecideAssignment(ctx, req); err != nil {
		s.logger.Error("Failed to send evaluator decision", "proposal_id", req.ProposalID, "status", req.Status, "error", err)
		return err
	}

	evt := event.NewEvent(event.TypeAssignmentDecided, p.UserID(), req.ProposalID, map[string]interface{}{
		"decision": req.Status,
	}).ForEvaluator(p.UserID())
	if req.DeadlineAt != "" {
		evt = evt.WithPayload("requested_deadline", req.DeadlineAt)
	}
	s.recorder.record(ctx, evt, NamespaceTracker, NamespaceProposals)
	return nil
}

// SubmitEvaluation sends the evaluator's scores, completing the assignment
func (s *evaluatorServiceImpl) SubmitEvaluation(ctx context.Context, p *Principal, req *port.EvaluationScores) error {
	if err := validateScores(req); err != nil {
		return err
	}
	if err := s.check(ctx, p, req.ProposalID, workflow.TriggerComplete); err != nil {
		return err
	}
	if err := p.API.SubmitEvaluation(ctx, req); err != nil {
		s.logger.Error("Failed to submit evaluation", "proposal_id", req.ProposalID, "error", err)
		return err
	}

	s.recorder.record(ctx, event.NewEvent(event.TypeEvaluationSubmitted, p.UserID(), req.ProposalID, map[string]interface{}{
		"status":      req.Status,
		"objective":   req.Objective,
		"methodology": req.Methodology,
		"budget":      req.Budget,
		"timeline":    req.Timeline,
	}).ForEvaluator(p.UserID()), NamespaceTracker, NamespaceProposals)
	return nil
}
