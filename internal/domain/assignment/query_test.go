package assignment

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

func sampleGroups() []Group {
	return []Group{
		{ProposalID: 1, ProposalTitle: "Smart Proposal Management", Status: status.AssignmentAccepted,
			Members: []Member{{EvaluatorID: "e1", Name: "Dr. Alice Santos"}, {EvaluatorID: "e2", Name: "Prof. Ben Reyes"}}},
		{ProposalID: 2, ProposalTitle: "Blockchain Voting", Status: status.AssignmentPending,
			Members: []Member{{EvaluatorID: "e3", Name: "Engr. Carla Lim"}}},
		{ProposalID: 3, ProposalTitle: "IoT Waste Management", Status: status.AssignmentOverdue,
			Members: []Member{{EvaluatorID: "e1", Name: "Dr. Alice Santos"}, {EvaluatorID: "e4", Name: "Dr. John Cruz"}}},
	}
}

func TestApply(t *testing.T) {
	groups := sampleGroups()

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"no filter", Filter{}, []int64{1, 2, 3}},
		{"title search", Filter{Search: "blockchain"}, []int64{2}},
		{"evaluator search", Filter{Search: "alice"}, []int64{1, 3}},
		{"status filter", Filter{Status: status.AssignmentOverdue}, []int64{3}},
		{"search and status", Filter{Search: "alice", Status: status.AssignmentAccepted}, []int64{1}},
		{"no match", Filter{Search: "quantum"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]int64, 0)
			for _, g := range Apply(groups, tt.filter) {
				got = append(got, g.ProposalID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate(t *testing.T) {
	var groups []Group
	for i := 1; i <= 12; i++ {
		groups = append(groups, Group{ProposalID: int64(i), ProposalTitle: fmt.Sprintf("P%d", i)})
	}

	p := Paginate(groups, 1, 0)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 5)

	p = Paginate(groups, 3, 5)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, int64(11), p.Items[0].ProposalID)

	p = Paginate(groups, 9, 5)
	assert.Empty(t, p.Items)
	assert.Equal(t, 12, p.TotalItems)

	p = Paginate(nil, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.TotalPages)
	assert.NotNil(t, p.Items)
}

func TestPaginate_HugeValues(t *testing.T) {
	groups := make([]Group, 12)

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantSize  int
		wantItems int
	}{
		{"huge page size", 3, math.MaxInt/2 + 1, MaxPageSize, 0},
		{"max page size", 1, math.MaxInt, MaxPageSize, 12},
		{"huge page", math.MaxInt, 5, 5, 0},
		{"both huge", math.MaxInt, math.MaxInt, MaxPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Page
			require.NotPanics(t, func() { p = Paginate(groups, tt.page, tt.pageSize) })
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Len(t, p.Items, tt.wantItems)
			assert.Equal(t, 12, p.TotalItems)
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleGroups())
	assert.Equal(t, 3, s.Groups)
	assert.Equal(t, 3, s.Proposals)
	assert.Equal(t, 4, s.Evaluators)
	assert.Equal(t, 1, s.ByStatus[status.AssignmentOverdue])
	assert.Equal(t, 0, s.ByStatus[status.AssignmentCompleted])
}
