package entity

import "time"

// RevisionSummary is the latest revision request on a proposal
type RevisionSummary struct {
	ProposalID         int64     `json:"proposal_id"`
	RnDID              string    `json:"rnd_id"`
	RnDName            string    `json:"rnd_name"`
	ObjectiveComment   string    `json:"objective_comment,omitempty"`
	MethodologyComment string    `json:"methodology_comment,omitempty"`
	BudgetComment      string    `json:"budget_comment,omitempty"`
	TimelineComment    string    `json:"timeline_comment,omitempty"`
	OverallComment     string    `json:"overall_comment,omitempty"`
	DeadlineDays       int       `json:"deadline,omitempty"`
	CreatedAt          Timestamp `json:"created_at"`
}

// RejectionSummary is the rejection notice on a proposal
type RejectionSummary struct {
	ProposalID     int64     `json:"proposal_id"`
	RnDID          string    `json:"rnd_id"`
	RnDName        string    `json:"rnd_name"`
	RejectedByRole string    `json:"rejected_by_role"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
}

// ProposalVersion is one uploaded revision of a proposal document
type ProposalVersion struct {
	ID        int64     `json:"id"`
	FileURL   string    `json:"file_url"`
	CreatedAt Timestamp `json:"created_at"`
}

// DueAt returns the revision deadline, counted in days from the request
func (r RevisionSummary) DueAt() time.Time {
	if r.CreatedAt.IsZero() || r.DeadlineDays <= 0 {
		return time.Time{}
	}
	return r.CreatedAt.AddDate(0, 0, r.DeadlineDays)
}

// EvaluationScore is one evaluator's submitted scores on a proposal
type EvaluationScore struct {
	ID          int64     `json:"id"`
	Proposal    Ref       `json:"proposal_id"`
	Evaluator   Person    `json:"evaluator_id"`
	Status      string    `json:"status"`
	Objective   int       `json:"objective"`
	Methodology int       `json:"methodology"`
	Budget      int       `json:"budget"`
	Timeline    int       `json:"timeline"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Total sums the four criteria
func (s EvaluationScore) Total() int {
	return s.Objective + s.Methodology + s.Budget + s.Timeline
}
