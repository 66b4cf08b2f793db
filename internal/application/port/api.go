package port

import (
	"context"
	"io"

	"github.com/garyjia/proposal-tracker/internal/domain/budget"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// Lookup tables served by the backend
const (
	LookupDepartment = "department"
	LookupDiscipline = "discipline"
	LookupSector     = "sector"
	LookupTag        = "tag"
	LookupPriority   = "priority"
	LookupStation    = "station"
	LookupCommodity  = "commodity"
)

// ProposalScope selects which listing endpoint backs a proposal query
type ProposalScope string

const (
	ScopeProponent   ProposalScope = "proponent"
	ScopeRnD         ProposalScope = "rnd"
	ScopeEvaluator   ProposalScope = "evaluator"
	ScopeEndorsement ProposalScope = "endorsement"
)

// ProposalQuery filters a proposal listing. Search and Status are only
// honoured by the proponent and evaluator scopes.
type ProposalQuery struct {
	Scope  ProposalScope
	Search string
	Status string
}

// UploadTarget is a presigned object-storage upload slot
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
}

// CreateProposalRequest is the metadata of a new proposal
type CreateProposalRequest struct {
	Department          string                 `json:"department"`
	Sector              string                 `json:"sector"`
	Discipline          string                 `json:"discipline"`
	Agency              string                 `json:"agency"`
	ProgramTitle        string                 `json:"program_title"`
	ProjectTitle        string                 `json:"project_title"`
	Email               string                 `json:"email"`
	Phone               string                 `json:"phone"`
	ClassInput          string                 `json:"class_input"`
	ClassificationType  string                 `json:"classification_type"`
	PriorityIDs         []int64                `json:"priorities_id"`
	PlanStartDate       string                 `json:"plan_start_date"`
	PlanEndDate         string                 `json:"plan_end_date"`
	Budget              []budget.PayloadSource `json:"budget"`
	FileURL             string                 `json:"file_url"`
	SchoolYear          string                 `json:"school_year"`
	AgencyAddress       entity.Address         `json:"agency_address"`
	DurationMonths      int                    `json:"duration"`
	CooperatingAgencies []string               `json:"cooperating_agencies"`
	ImplementationSite  []entity.Site          `json:"implementation_site"`
	ImplementationMode  string                 `json:"implementation_mode"`
	Tags                []int64                `json:"tags"`
}

// CreateProposalResult is the backend's answer to a submission
type CreateProposalResult struct {
	Message    string `json:"message"`
	ProposalID string `json:"proposalId,omitempty"`
}

// RevisedProposalRequest resubmits a proposal after a revision request
type RevisedProposalRequest struct {
	ProposalID       int64                  `json:"proposal_id"`
	FileURL          string                 `json:"file_url"`
	ProjectTitle     string                 `json:"project_title,omitempty"`
	PlanStartDate    string                 `json:"plan_start_date,omitempty"`
	PlanEndDate      string                 `json:"plan_end_date,omitempty"`
	Budget           []budget.PayloadSource `json:"budget,omitempty"`
	RevisionResponse string                 `json:"revision_response,omitempty"`
}

// RevisedProposalResult describes the stored revision
type RevisedProposalResult struct {
	Message string `json:"message"`
	Data    *struct {
		ProposalID    int64  `json:"proposal_id"`
		VersionNumber int    `json:"version_number"`
		VersionID     int64  `json:"version_id"`
		FileURL       string `json:"file_url"`
		Status        string `json:"status"`
	} `json:"data,omitempty"`
}

// EvaluatorAssignment names one evaluator and what they may see of the
// proponent (name, agency, both or none)
type EvaluatorAssignment struct {
	ID         string `json:"id"`
	Visibility string `json:"visibility"`
}

// ForwardToEvaluatorsRequest assigns evaluators with a deadline in days
type ForwardToEvaluatorsRequest struct {
	ProposalID   int64                 `json:"proposal_id"`
	Evaluators   []EvaluatorAssignment `json:"evaluators"`
	DeadlineDays int                   `json:"deadline_at"`
	Comments     string                `json:"commentsForEvaluators,omitempty"`
}

// RevisionRequest asks the proponent to revise within DeadlineDays
type RevisionRequest struct {
	ProposalID         int64  `json:"proposal_id"`
	ObjectiveComment   string `json:"objective_comment,omitempty"`
	MethodologyComment string `json:"methodology_comment,omitempty"`
	BudgetComment      string `json:"budget_comment,omitempty"`
	TimelineComment    string `json:"timeline_comment,omitempty"`
	OverallComment     string `json:"overall_comment,omitempty"`
	DeadlineDays       int    `json:"deadline"`
}

// EndorseRequest records an R&D funding endorsement decision
type EndorseRequest struct {
	ProposalID int64  `json:"proposal_id"`
	RnDID      string `json:"rnd_id"`
	Decision   string `json:"decision"`
	Remarks    string `json:"remarks,omitempty"`
}

// EvaluatorDecision is an evaluator's answer to an assignment
type EvaluatorDecision struct {
	ProposalID int64  `json:"proposal_id"`
	Status     string `json:"status"`
	DeadlineAt string `json:"deadline_at,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
}

// EvaluationScores is a completed evaluation, each score 1 to 5
type EvaluationScores struct {
	ProposalID  int64  `json:"proposal_id"`
	Status      string `json:"status"`
	Objective   int    `json:"objective"`
	Methodology int    `json:"methodology"`
	Budget      int    `json:"budget"`
	Timeline    int    `json:"timeline"`
	Comment     string `json:"comment,omitempty"`
}

// ExtensionDecision approves or denies an evaluator's extension request
type ExtensionDecision struct {
	ProposalID  int64  `json:"proposal_id"`
	EvaluatorID string `json:"evaluator_id"`
	Action      string `json:"action"`
}

// ProposalAPI is the proposal backend as seen by one logged-in session
type ProposalAPI interface {
	Login(ctx context.Context, email, password string) error
	VerifyToken(ctx context.Context) (*entity.User, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, newPassword string) error
	Cookies() []entity.Cookie

	Lookup(ctx context.Context, table string) ([]entity.Ref, error)
	Agencies(ctx context.Context, cooperating bool) ([]entity.Agency, error)
	UsersByRole(ctx context.Context, role string, departmentID int64) ([]entity.Account, error)

	ListProposals(ctx context.Context, q ProposalQuery) ([]entity.Proposal, error)
	AssignmentTracker(ctx context.Context, proposalID int64) ([]entity.AssignmentRecord, error)
	RevisionSummary(ctx context.Context, proposalID int64) (*entity.RevisionSummary, error)
	RejectionSummary(ctx context.Context, proposalID int64) (*entity.RejectionSummary, error)
	Versions(ctx context.Context, proposalID int64) ([]entity.ProposalVersion, error)

	RequestUploadURL(ctx context.Context, filename, contentType string, size int64) (*UploadTarget, error)
	Upload(ctx context.Context, target *UploadTarget, contentType string, body io.Reader, size int64) error
	CreateProposal(ctx context.Context, req *CreateProposalRequest) (*CreateProposalResult, error)
	SubmitRevised(ctx context.Context, req *RevisedProposalRequest) (*RevisedProposalResult, error)

	ForwardToRnD(ctx context.Context, proposalID int64, rndIDs []string) error
	ForwardToEvaluators(ctx context.Context, req *ForwardToEvaluatorsRequest) error
	RequestRevision(ctx context.Context, req *RevisionRequest) error
	RejectProposal(ctx context.Context, proposalID int64, comment string) error
	Endorse(ctx context.Context, req *EndorseRequest) error

	DecideAssignment(ctx context.Context, req *EvaluatorDecision) error
	SubmitEvaluation(ctx context.Context, req *EvaluationScores) error
	EvaluationScores(ctx context.Context) ([]entity.EvaluationScore, error)
	HandleExtension(ctx context.Context, req *ExtensionDecision) error
	RemoveEvaluator(ctx context.Context, proposalID int64, evaluatorID string) error
}

// APIFactory builds a ProposalAPI, optionally preloaded with the cookies
// of an existing session.
type APIFactory interface {
	New(cookies []entity.Cookie) (ProposalAPI, error)
}
