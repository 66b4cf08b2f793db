package entity

import (
	"time"

	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

// ProposalRef is the proposal summary embedded in a tracker row
type ProposalRef struct {
	ID           int64  `json:"id"`
	ProjectTitle string `json:"project_title"`
	Proponent    Person `json:"proponent_id"`
	Sector       Ref    `json:"sector"`
}

// AssignmentRecord is one (proposal, evaluator) row of the assignment tracker
type AssignmentRecord struct {
	ID                int64       `json:"id"`
	Proposal          ProposalRef `json:"proposal_id"`
	Evaluator         Person      `json:"evaluator_id"`
	Deadline          Deadline    `json:"deadline"`
	Status            string      `json:"status"`
	RequestDeadlineAt Timestamp   `json:"request_deadline_at"`
	Remarks           string      `json:"remarks,omitempty"`
	DateForwarded     Timestamp   `json:"date_forwarded"`
}

// HasExtensionRequest reports whether the evaluator asked for a new deadline
func (r AssignmentRecord) HasExtensionRequest() bool {
	return !r.RequestDeadlineAt.IsZero()
}

// NormalizedStatus maps the raw row status onto the closed set
func (r AssignmentRecord) NormalizedStatus() status.Assignment {
	return status.NormalizeAssignment(r.Status, r.HasExtensionRequest())
}

// DueAt returns the review deadline, or the zero time when none is set.
// A deadline in days counts from the forwarding date.
func (r AssignmentRecord) DueAt() time.Time {
	return r.Deadline.Resolve(r.DateForwarded.Time)
}
