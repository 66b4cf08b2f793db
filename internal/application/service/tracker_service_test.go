package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
	"github.com/garyjia/proposal-tracker/internal/domain/workflow"
)

var trackerNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func trackerRecord(proposalID int64, title, evaluatorID, raw string, due time.Time) entity.AssignmentRecord {
	return entity.AssignmentRecord{
		Proposal:  entity.ProposalRef{ID: proposalID, ProjectTitle: title},
		Evaluator: entity.Person{ID: evaluatorID, FirstName: evaluatorID},
		Status:    raw,
		Deadline:  entity.DeadlineAt(due),
	}
}

func sampleTracker() []entity.AssignmentRecord {
	due := trackerNow.Add(72 * time.Hour)
	extension := trackerRecord(1, "Rice yield study", "e-1", "pending", due)
	extension.RequestDeadlineAt = entity.Timestamp{Time: due.Add(7 * 24 * time.Hour)}
	return []entity.AssignmentRecord{
		extension,
		trackerRecord(1, "Rice yield study", "e-2", "completed", due),
		trackerRecord(2, "Coastal survey", "e-1", "accepted", due),
		trackerRecord(3, "Seed bank", "e-3", "overdue", trackerNow.Add(-time.Hour)),
	}
}

func newTrackerFixture() (*trackerServiceImpl, *mockAPI, *memoryCache, *mockActivityRepo) {
	api := &mockAPI{trackerFunc: func(int64) ([]entity.AssignmentRecord, error) {
		return sampleTracker(), nil
	}}
	cache := newMemoryCache()
	activity := &mockActivityRepo{}
	svc := NewTrackerService(cache, time.Minute, activity, &mockLogger{}).(*trackerServiceImpl)
	svc.now = func() time.Time { return trackerNow }
	return svc, api, cache, activity
}

func TestTrackerService_Groups(t *testing.T) {
	svc, api, _, _ := newTrackerFixture()
	p := principal(api)

	groups, err := svc.Groups(context.Background(), p, 0)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, int64(1), groups[0].ProposalID)
	assert.Len(t, groups[0].Members, 2)
	assert.Equal(t, status.AssignmentOverdue, groups[2].Status)

	m, ok := groups[0].Member("e-1")
	require.True(t, ok)
	assert.Equal(t, status.AssignmentExtensionRequested, m.Status)

	_, err = svc.Groups(context.Background(), p, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("AssignmentTracker"))
}

func TestTrackerService_ListAndStats(t *testing.T) {
	svc, api, _, _ := newTrackerFixture()
	p := principal(api)

	page, err := svc.List(context.Background(), p, TrackerQuery{PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Seed bank", page.Items[0].ProposalTitle)

	page, err = svc.List(context.Background(), p, TrackerQuery{Filter: assignment.Filter{Search: "coastal"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Items[0].ProposalID)

	stats, err := svc.Stats(context.Background(), p, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Groups)
	assert.Equal(t, 1, stats.ByStatus[status.AssignmentOverdue])
}

func TestTrackerService_ListRejectsBadPaging(t *testing.T) {
	svc, api, _, _ := newTrackerFixture()
	p := principal(api)
	calls := api.count("AssignmentTracker")

	for _, q := range []TrackerQuery{
		{Page: -1},
		{PageSize: -1},
		{PageSize: assignment.MaxPageSize + 1},
		{Page: 3, PageSize: math.MaxInt/2 + 1},
	} {
		_, err := svc.List(context.Background(), p, q)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Equal(t, calls, api.count("AssignmentTracker"))

	page, err := svc.List(context.Background(), p, TrackerQuery{Page: math.MaxInt, PageSize: assignment.MaxPageSize})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestTrackerService_HandleExtension(t *testing.T) {
	tests := []struct {
		name       string
		req        port.ExtensionDecision
		wantErr    error
		wantEvent  event.Type
		wantCalled bool
	}{
		{
			name:       "approve pending request",
			req:        port.ExtensionDecision{ProposalID: 1, EvaluatorID: "e-1", Action: "approved"},
			wantEvent:  event.TypeExtensionApproved,
			wantCalled: true,
		},
		{
			name:       "deny pending request",
			req:        port.ExtensionDecision{ProposalID: 1, EvaluatorID: "e-1", Action: "Denied"},
			wantEvent:  event.TypeExtensionDenied,
			wantCalled: true,
		},
		{
			name:    "no request to approve",
			req:     port.ExtensionDecision{ProposalID: 1, EvaluatorID: "e-2", Action: "approved"},
			wantErr: workflow.ErrInvalidTransition,
		},
		{
			name:    "unknown evaluator",
			req:     port.ExtensionDecision{ProposalID: 1, EvaluatorID: "e-9", Action: "approved"},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown action",
			req:     port.ExtensionDecision{ProposalID: 1, EvaluatorID: "e-1", Action: "maybe"},
			wantErr: ErrValidation,
		},
		{
			name:       "overdue member is left to the backend",
			req:        port.ExtensionDecision{ProposalID: 3, EvaluatorID: "e-3", Action: "approved"},
			wantEvent:  event.TypeExtensionApproved,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api, cache, activity := newTrackerFixture()
			req := tt.req

			err := svc.HandleExtension(context.Background(), principal(api), &req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, api.count("HandleExtension"))
				assert.Empty(t, activity.events)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCalled, api.count("HandleExtension") == 1)
			require.Len(t, activity.events, 1)
			assert.Equal(t, tt.wantEvent, activity.events[0].Type)
			assert.Equal(t, req.EvaluatorID, activity.events[0].EvaluatorID)
			assert.Equal(t, []string{NamespaceTracker}, cache.invalidated)
		})
	}
}

func TestTrackerService_ExtensionReadsFreshTracker(t *testing.T) {
	svc, api, _, _ := newTrackerFixture()
	p := principal(api)

	_, err := svc.Groups(context.Background(), p, 1)
	require.NoError(t, err)
	require.NoError(t, svc.HandleExtension(context.Background(), p, &port.ExtensionDecision{ProposalID: 1, EvaluatorID: "e-1", Action: "approved"}))
	assert.Equal(t, 2, api.count("AssignmentTracker"))
}

func TestTrackerService_RemoveEvaluator(t *testing.T) {
	svc, api, cache, activity := newTrackerFixture()

	assert.ErrorIs(t, svc.RemoveEvaluator(context.Background(), principal(api), 1, ""), ErrValidation)

	require.NoError(t, svc.RemoveEvaluator(context.Background(), principal(api), 1, "e-2"))
	assert.Equal(t, []event.Type{event.TypeEvaluatorRemoved}, activity.types())
	assert.Equal(t, "e-2", activity.events[0].EvaluatorID)
	assert.ElementsMatch(t, []string{NamespaceTracker, NamespaceProposals}, cache.invalidated)
}
