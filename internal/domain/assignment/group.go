package assignment

import (
	"time"

	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

// Member is one evaluator inside a grouped assignment
type Member struct {
	RecordID          int64             `json:"record_id"`
	EvaluatorID       string            `json:"evaluator_id"`
	Name              string            `json:"name"`
	Department        string            `json:"department"`
	RawStatus         string            `json:"raw_status"`
	Status            status.Assignment `json:"status"`
	DueAt             time.Time         `json:"due_at"`
	RequestedDeadline time.Time         `json:"requested_deadline,omitempty"`
	Remarks           string            `json:"remarks,omitempty"`
	ForwardedAt       time.Time         `json:"forwarded_at"`
}

// Group collects every evaluator assigned to one proposal
type Group struct {
	ProposalID    int64             `json:"proposal_id"`
	ProposalTitle string            `json:"proposal_title"`
	Proponent     string            `json:"proponent"`
	Sector        string            `json:"sector"`
	Members       []Member          `json:"members"`
	EarliestDue   time.Time         `json:"earliest_due"`
	Status        status.Assignment `json:"status"`
}

// EvaluatorNames lists member names in member order
func (g Group) EvaluatorNames() []string {
	names := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		names = append(names, m.Name)
	}
	return names
}

// Member returns the member with the given evaluator id
func (g Group) Member(evaluatorID string) (Member, bool) {
	for _, m := range g.Members {
		if m.EvaluatorID == evaluatorID {
			return m, true
		}
	}
	return Member{}, false
}

// GroupRecords folds tracker rows into one group per proposal, in order of
// first appearance. Members are deduplicated by evaluator id and the first
// row wins. now decides which deadlines have passed.
func GroupRecords(records []entity.AssignmentRecord, now time.Time) []Group {
	var order []int64
	groups := make(map[int64]*Group)
	seen := make(map[int64]map[string]bool)

	for _, rec := range records {
		pid := rec.Proposal.ID
		g, ok := groups[pid]
		if !ok {
			g = &Group{
				ProposalID:    pid,
				ProposalTitle: rec.Proposal.ProjectTitle,
				Proponent:     rec.Proposal.Proponent.Name(),
				Sector:        rec.Proposal.Sector.Name,
			}
			groups[pid] = g
			seen[pid] = make(map[string]bool)
			order = append(order, pid)
		}

		if seen[pid][rec.Evaluator.ID] {
			continue
		}
		seen[pid][rec.Evaluator.ID] = true
		g.Members = append(g.Members, memberFrom(rec))
	}

	out := make([]Group, 0, len(order))
	for _, pid := range order {
		g := groups[pid]
		g.EarliestDue = earliestDue(g.Members)
		g.Status = Aggregate(g.Members, now)
		out = append(out, *g)
	}
	return out
}

func memberFrom(rec entity.AssignmentRecord) Member {
	return Member{
		RecordID:          rec.ID,
		EvaluatorID:       rec.Evaluator.ID,
		Name:              rec.Evaluator.Name(),
		Department:        rec.Evaluator.Department.Name,
		RawStatus:         rec.Status,
		Status:            rec.NormalizedStatus(),
		DueAt:             rec.DueAt(),
		RequestedDeadline: rec.RequestDeadlineAt.Time,
		Remarks:           rec.Remarks,
		ForwardedAt:       rec.DateForwarded.Time,
	}
}

func earliestDue(members []Member) time.Time {
	var earliest time.Time
	for _, m := range members {
		if m.DueAt.IsZero() {
			continue
		}
		if earliest.IsZero() || m.DueAt.Before(earliest) {
			earliest = m.DueAt
		}
	}
	return earliest
}
