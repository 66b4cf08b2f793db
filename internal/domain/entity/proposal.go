package entity

import (
	"github.com/garyjia/proposal-tracker/internal/domain/budget"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

// Site is an implementation site of a proposal
type Site struct {
	SiteName string `json:"site_name"`
	City     string `json:"city"`
}

// Proposal is a research proposal as listed by the backend
type Proposal struct {
	ID                 int64             `json:"id"`
	ProjectTitle       string            `json:"project_title"`
	ProgramTitle       string            `json:"program_title,omitempty"`
	Status             string            `json:"status"`
	Proponent          Person            `json:"proponent_id"`
	Agency             Ref               `json:"agency"`
	Department         Ref               `json:"department"`
	Sector             Ref               `json:"sector"`
	Discipline         Ref               `json:"discipline"`
	ClassificationType string            `json:"classification_type,omitempty"`
	Budget             []budget.LineItem `json:"budget"`
	ImplementationSite []Site            `json:"implementation_site"`
	Tags               []Ref             `json:"tags"`
	PlanStartDate      string            `json:"plan_start_date,omitempty"`
	PlanEndDate        string            `json:"plan_end_date,omitempty"`
	FileURL            string            `json:"file_url,omitempty"`
	CreatedAt          Timestamp         `json:"created_at"`
}

// NormalizedStatus maps the raw backend status onto the closed set
func (p Proposal) NormalizedStatus() status.Proposal {
	return status.NormalizeProposal(p.Status)
}

// BudgetSources aggregates the proposal's line items per funding source
func (p Proposal) BudgetSources() []budget.Source {
	return budget.Aggregate(p.Budget)
}
