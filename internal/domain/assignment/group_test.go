package assignment

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func record(proposalID int64, title, evaluatorID, name, raw string, due time.Time) entity.AssignmentRecord {
	return entity.AssignmentRecord{
		ID:        proposalID*100 + int64(len(evaluatorID)),
		Proposal:  entity.ProposalRef{ID: proposalID, ProjectTitle: title},
		Evaluator: entity.Person{ID: evaluatorID, FirstName: name},
		Status:    raw,
		Deadline:  entity.DeadlineAt(due),
	}
}

func future() time.Time { return now.Add(72 * time.Hour) }
func past() time.Time   { return now.Add(-24 * time.Hour) }

func TestGroupRecords_PendingDominatesAccept(t *testing.T) {
	groups := GroupRecords([]entity.AssignmentRecord{
		record(42, "Seaweed Drying", "A", "Alice", "accept", future()),
		record(42, "Seaweed Drying", "B", "Ben", "pending", future()),
	}, now)

	require.Len(t, groups, 1)
	assert.Equal(t, int64(42), groups[0].ProposalID)
	assert.Equal(t, status.AssignmentPending, groups[0].Status)
	assert.Equal(t, "Pending", groups[0].Status.Label())
	assert.Equal(t, []string{"Alice", "Ben"}, groups[0].EvaluatorNames())
}

func TestGroupRecords_OrderAndDedup(t *testing.T) {
	groups := GroupRecords([]entity.AssignmentRecord{
		record(2, "Second", "A", "Alice", "accept", future()),
		record(1, "First", "B", "Ben", "decline", future()),
		record(2, "Second", "A", "Alice", "decline", future()),
		record(2, "Second", "C", "Carla", "accept", future()),
	}, now)

	got := make([]int64, 0, len(groups))
	for _, g := range groups {
		got = append(got, g.ProposalID)
	}
	assert.Equal(t, []int64{2, 1}, got)

	want := []Member{
		{RecordID: 201, EvaluatorID: "A", Name: "Alice", RawStatus: "accept", Status: status.AssignmentAccepted, DueAt: future()},
		{RecordID: 201, EvaluatorID: "C", Name: "Carla", RawStatus: "accept", Status: status.AssignmentAccepted, DueAt: future()},
	}
	if diff := cmp.Diff(want, groups[0].Members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, status.AssignmentAccepted, groups[0].Status)
	assert.Equal(t, status.AssignmentRejected, groups[1].Status)
}

func TestAggregate_Precedence(t *testing.T) {
	member := func(s status.Assignment) Member {
		return Member{EvaluatorID: string(s), Status: s, DueAt: future()}
	}

	tests := []struct {
		name    string
		members []Member
		want    status.Assignment
	}{
		{"extension requested beats everything",
			[]Member{member(status.AssignmentPending), member(status.AssignmentExtensionRequested), member(status.AssignmentExtensionApproved)},
			status.AssignmentExtensionRequested},
		{"extension approved beats rejected extension",
			[]Member{member(status.AssignmentExtensionRejected), member(status.AssignmentExtensionApproved)},
			status.AssignmentExtensionApproved},
		{"extension rejected beats pending",
			[]Member{member(status.AssignmentPending), member(status.AssignmentExtensionRejected)},
			status.AssignmentExtensionRejected},
		{"pending beats completed",
			[]Member{member(status.AssignmentCompleted), member(status.AssignmentPending)},
			status.AssignmentPending},
		{"all completed",
			[]Member{member(status.AssignmentCompleted), member(status.AssignmentCompleted)},
			status.AssignmentCompleted},
		{"partly completed is accepted",
			[]Member{member(status.AssignmentCompleted), member(status.AssignmentAccepted)},
			status.AssignmentAccepted},
		{"accepted beats rejected",
			[]Member{member(status.AssignmentRejected), member(status.AssignmentAccepted)},
			status.AssignmentAccepted},
		{"completed and rejected is rejected",
			[]Member{member(status.AssignmentCompleted), member(status.AssignmentRejected)},
			status.AssignmentRejected},
		{"unknown falls back to pending",
			[]Member{member(status.AssignmentUnknown)},
			status.AssignmentPending},
		{"no members",
			nil,
			status.AssignmentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.members, now))
		})
	}
}

func TestAggregate_OverdueOverride(t *testing.T) {
	tests := []struct {
		name    string
		members []Member
		want    status.Assignment
	}{
		{"accepted with past deadline",
			[]Member{{Status: status.AssignmentAccepted, DueAt: past()}},
			status.AssignmentOverdue},
		{"pending with one past deadline",
			[]Member{{Status: status.AssignmentPending, DueAt: future()}, {Status: status.AssignmentAccepted, DueAt: past()}},
			status.AssignmentOverdue},
		{"extension approved can go overdue",
			[]Member{{Status: status.AssignmentExtensionApproved, DueAt: past()}},
			status.AssignmentOverdue},
		{"completed never overdue",
			[]Member{{Status: status.AssignmentCompleted, DueAt: past()}},
			status.AssignmentCompleted},
		{"extension requested never overdue",
			[]Member{{Status: status.AssignmentExtensionRequested, DueAt: past()}, {Status: status.AssignmentAccepted, DueAt: past()}},
			status.AssignmentExtensionRequested},
		{"missing deadline is not overdue",
			[]Member{{Status: status.AssignmentAccepted}},
			status.AssignmentAccepted},
		{"reported overdue without a deadline",
			[]Member{{Status: status.AssignmentOverdue}},
			status.AssignmentOverdue},
		{"reported overdue beside an accepted member",
			[]Member{{Status: status.AssignmentAccepted, DueAt: future()}, {Status: status.AssignmentOverdue}},
			status.AssignmentOverdue},
		{"extension requested ignores a member reported overdue",
			[]Member{{Status: status.AssignmentExtensionRequested}, {Status: status.AssignmentOverdue}},
			status.AssignmentExtensionRequested},
		{"deadline equal to now is not overdue",
			[]Member{{Status: status.AssignmentAccepted, DueAt: now}},
			status.AssignmentAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.members, now))
		})
	}
}

func TestGroupRecords_ExtensionFromRequestedDeadline(t *testing.T) {
	rec := record(7, "Mangrove Mapping", "E", "Eva", "pending", past())
	rec.RequestDeadlineAt = entity.Timestamp{Time: future()}

	groups := GroupRecords([]entity.AssignmentRecord{rec}, now)
	require.Len(t, groups, 1)
	assert.Equal(t, status.AssignmentExtensionRequested, groups[0].Members[0].Status)
	assert.Equal(t, status.AssignmentExtensionRequested, groups[0].Status)
	assert.Equal(t, future(), groups[0].Members[0].RequestedDeadline)
}

func TestGroupRecords_EarliestDue(t *testing.T) {
	early := now.Add(24 * time.Hour)
	groups := GroupRecords([]entity.AssignmentRecord{
		record(1, "T", "A", "Alice", "accept", future()),
		record(1, "T", "B", "Ben", "accept", time.Time{}),
		record(1, "T", "C", "Carla", "accept", early),
	}, now)

	assert.Equal(t, early, groups[0].EarliestDue)
	m, ok := groups[0].Member("C")
	assert.True(t, ok)
	assert.Equal(t, "Carla", m.Name)
	_, ok = groups[0].Member("Z")
	assert.False(t, ok)
}

func TestGroupRecords_DeadlineInDays(t *testing.T) {
	var rows []entity.AssignmentRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"proposal_id":{"id":5,"project_title":"Tilapia Feed"},"evaluator_id":{"id":"A","first_name":"Alice"},
		 "deadline":14,"status":"accept","date_forwarded":"2025-10-10T00:00:00Z"},
		{"proposal_id":{"id":6,"project_title":"Coconut Sap"},"evaluator_id":{"id":"B","first_name":"Ben"},
		 "deadline":3,"status":"accept","date_forwarded":"2025-10-10T00:00:00Z"}
	]`), &rows))

	groups := GroupRecords(rows, now)
	require.Len(t, groups, 2)
	assert.Equal(t, time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC), groups[0].EarliestDue)
	assert.Equal(t, status.AssignmentAccepted, groups[0].Status)
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), groups[1].EarliestDue)
	assert.Equal(t, status.AssignmentOverdue, groups[1].Status)
}

func TestGroupRecords_ReportedOverdue(t *testing.T) {
	groups := GroupRecords([]entity.AssignmentRecord{
		record(9, "Cacao Grafting", "A", "Alice", "overdue", time.Time{}),
	}, now)
	require.Len(t, groups, 1)
	assert.Equal(t, status.AssignmentOverdue, groups[0].Status)
}

func TestGroupRecords_Empty(t *testing.T) {
	groups := GroupRecords(nil, now)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
