package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/internal/domain/workflow"
)

func newEvaluatorFixture(raw string) (*evaluatorServiceImpl, *mockAPI, *mockActivityRepo) {
	api := &mockAPI{trackerFunc: func(int64) ([]entity.AssignmentRecord, error) {
		return []entity.AssignmentRecord{trackerRecord(5, "Rice yield study", "u-1", raw, trackerNow.Add(48*time.Hour))}, nil
	}}
	activity := &mockActivityRepo{}
	svc := NewEvaluatorService(newMemoryCache(), activity, &mockLogger{}).(*evaluatorServiceImpl)
	svc.now = func() time.Time { return trackerNow }
	return svc, api, activity
}

func TestEvaluatorService_Decide(t *testing.T) {
	tests := []struct {
		name    string
		current string
		req     port.EvaluatorDecision
		wantErr error
	}{
		{name: "accept pending", current: "pending", req: port.EvaluatorDecision{ProposalID: 5, Status: "accept"}},
		{name: "decline pending", current: "pending", req: port.EvaluatorDecision{ProposalID: 5, Status: "decline", Remarks: "conflict"}},
		{name: "extend pending", current: "pending", req: port.EvaluatorDecision{ProposalID: 5, Status: "extend", DeadlineAt: "2026-03-20"}},
		{name: "extend without date", current: "pending", req: port.EvaluatorDecision{ProposalID: 5, Status: "extend"}, wantErr: ErrValidation},
		{name: "extend to today", current: "pending", req: port.EvaluatorDecision{ProposalID: 5, Status: "extend", DeadlineAt: "2026-03-10"}, wantErr: ErrValidation},
		{name: "pending is not a decision", current: "pending", req: port.EvaluatorDecision{ProposalID: 5, Status: "pending"}, wantErr: ErrValidation},
		{name: "decline after completion", current: "completed", req: port.EvaluatorDecision{ProposalID: 5, Status: "decline"}, wantErr: workflow.ErrInvalidTransition},
		{name: "accept twice", current: "accepted", req: port.EvaluatorDecision{ProposalID: 5, Status: "accept"}, wantErr: workflow.ErrInvalidTransition},
		{name: "missing proposal", current: "pending", req: port.EvaluatorDecision{Status: "accept"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api, activity := newEvaluatorFixture(tt.current)
			var sent *port.EvaluatorDecision
			api.decideFunc = func(req *port.EvaluatorDecision) error {
				sent = req
				return nil
			}
			req := tt.req

			err := svc.Decide(context.Background(), principal(api, entity.RoleEvaluator), &req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sent)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, sent)
			assert.Equal(t, []event.Type{event.TypeAssignmentDecided}, activity.types())
			assert.Equal(t, "u-1", activity.events[0].EvaluatorID)
			if req.Status == "extend" {
				assert.Equal(t, "2026-03-20", activity.events[0].GetPayloadString("requested_deadline"))
			}
		})
	}
}

func TestEvaluatorService_DecideDropsDeadlineOutsideExtension(t *testing.T) {
	svc, api, _ := newEvaluatorFixture("pending")
	req := &port.EvaluatorDecision{ProposalID: 5, Status: "accept", DeadlineAt: "2026-04-01"}

	require.NoError(t, svc.Decide(context.Background(), principal(api), req))
	assert.Empty(t, req.DeadlineAt)
}

func TestEvaluatorService_TrackerUnavailable(t *testing.T) {
	svc, api, activity := newEvaluatorFixture("pending")
	api.trackerFunc = func(int64) ([]entity.AssignmentRecord, error) {
		return nil, errors.New("403 forbidden")
	}

	require.NoError(t, svc.Decide(context.Background(), principal(api), &port.EvaluatorDecision{ProposalID: 5, Status: "accept"}))
	assert.Equal(t, 1, api.count("DecideAssignment"))
	assert.Len(t, activity.events, 1)
}

func TestEvaluatorService_SubmitEvaluation(t *testing.T) {
	valid := func() *port.EvaluationScores {
		return &port.EvaluationScores{ProposalID: 5, Status: "approve", Objective: 5, Methodology: 4, Budget: 3, Timeline: 1}
	}

	t.Run("accepted assignment", func(t *testing.T) {
		svc, api, activity := newEvaluatorFixture("accepted")
		require.NoError(t, svc.SubmitEvaluation(context.Background(), principal(api), valid()))
		assert.Equal(t, 1, api.count("SubmitEvaluation"))
		require.Len(t, activity.events, 1)
		assert.Equal(t, event.TypeEvaluationSubmitted, activity.events[0].Type)
		assert.Equal(t, int64(4), activity.events[0].GetPayloadInt("methodology"))
	})

	t.Run("pending assignment", func(t *testing.T) {
		svc, api, _ := newEvaluatorFixture("pending")
		err := svc.SubmitEvaluation(context.Background(), principal(api), valid())
		assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
		assert.Zero(t, api.count("SubmitEvaluation"))
	})

	t.Run("score out of range", func(t *testing.T) {
		svc, api, _ := newEvaluatorFixture("accepted")
		req := valid()
		req.Budget = 6
		assert.ErrorIs(t, svc.SubmitEvaluation(context.Background(), principal(api), req), ErrValidation)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, api, _ := newEvaluatorFixture("accepted")
		req := valid()
		req.Status = "fund"
		assert.ErrorIs(t, svc.SubmitEvaluation(context.Background(), principal(api), req), ErrValidation)
	})
}
