package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/budget"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

// Document is a proposal file received from a client
type Document struct {
	Filename string
	Content  []byte
}

// ProposalSummary is a proposal with its normalized status attached
type ProposalSummary struct {
	entity.Proposal
	NormalizedStatus status.Proposal `json:"normalized_status"`
	StatusLabel      string          `json:"status_label"`
	Theme            status.Theme    `json:"theme"`
	BudgetTotal      string          `json:"budget_total"`
	// Closed is set once the backend will not move the proposal further
	Closed bool `json:"closed"`
}

// Feedback gathers what reviewers returned to the proponent
type Feedback struct {
	Revision  *entity.RevisionSummary  `json:"revision,omitempty"`
	Rejection *entity.RejectionSummary `json:"rejection,omitempty"`
	Versions  []entity.ProposalVersion `json:"versions"`
}

// ProposalService lists proposals and issues proposal decisions
type ProposalService interface {
	List(ctx context.Context, p *Principal, q port.ProposalQuery) ([]ProposalSummary, error)
	Get(ctx context.Context, p *Principal, scope port.ProposalScope, id int64) (*entity.Proposal, error)
	Budget(ctx context.Context, p *Principal, scope port.ProposalScope, id int64) (*budget.Summary, error)
	ExportBudget(ctx context.Context, p *Principal, scope port.ProposalScope, id int64) ([]byte, string, error)
	Feedback(ctx context.Context, p *Principal, id int64) (*Feedback, error)
	Evaluations(ctx context.Context, p *Principal, id int64) ([]entity.EvaluationScore, error)

	Create(ctx context.Context, p *Principal, req *port.CreateProposalRequest, doc Document) (*port.CreateProposalResult, error)
	SubmitRevision(ctx context.Context, p *Principal, req *port.RevisedProposalRequest, doc Document) (*port.RevisedProposalResult, error)

	ForwardToRnD(ctx context.Context, p *Principal, proposalID int64, rndIDs []string) error
	ForwardToEvaluators(ctx context.Context, p *Principal, req *port.ForwardToEvaluatorsRequest) error
	RequestRevision(ctx context.Context, p *Principal, req *port.RevisionRequest) error
	Reject(ctx context.Context, p *Principal, proposalID int64, comment string) error
	Endorse(ctx context.Context, p *Principal, req *port.EndorseRequest) error
}

type proposalServiceImpl struct {
	cache     port.Cache
	cacheTTL  time.Duration
	inspector port.DocumentInspector
	exporter  port.BudgetExporter
	recorder  *activityRecorder
	logger    Logger
}

// NewProposalService creates a new ProposalService
func NewProposalService(
	cache port.Cache,
	cacheTTL time.Duration,
	inspector port.DocumentInspector,
	exporter port.BudgetExporter,
	activity port.ActivityRepository,
	logger Logger,
) ProposalService {
	return &proposalServiceImpl{
		cache:     cache,
		cacheTTL:  cacheTTL,
		inspector: inspector,
		exporter:  exporter,
		recorder:  &activityRecorder{activity: activity, cache: cache, logger: logger},
		logger:    logger,
	}
}

// DefaultScope picks the listing a user sees when none is requested
func DefaultScope(u entity.User) port.ProposalScope {
	switch {
	case u.HasRole(entity.RoleRnD, entity.RoleAdmin):
		return port.ScopeRnD
	case u.HasRole(entity.RoleRDEC):
		return port.ScopeEndorsement
	case u.HasRole(entity.RoleEvaluator):
		return port.ScopeEvaluator
	default:
		return port.ScopeProponent
	}
}

func (s *proposalServiceImpl) fetch(ctx context.Context, p *Principal, q port.ProposalQuery) ([]entity.Proposal, error) {
	if q.Scope == "" {
		q.Scope = DefaultScope(p.Session.User)
	}
	parts := []string{p.UserID(), string(q.Scope), q.Search, q.Status}
	return cached(ctx, s.cache, s.cacheTTL, s.logger, NamespaceProposals, parts, func(ctx context.Context) ([]entity.Proposal, error) {
		return p.API.ListProposals(ctx, q)
	})
}

// List returns the proposals of a scope with normalized statuses
func (s *proposalServiceImpl) List(ctx context.Context, p *Principal, q port.ProposalQuery) ([]ProposalSummary, error) {
	proposals, err := s.fetch(ctx, p, q)
	if err != nil {
		s.logger.Error("Failed to list proposals", "user_id", p.UserID(), "scope", q.Scope, "error", err)
		return nil, err
	}

	out := make([]ProposalSummary, 0, len(proposals))
	for _, prop := range proposals {
		st := prop.NormalizedStatus()
		out = append(out, ProposalSummary{
			Proposal:         prop,
			NormalizedStatus: st,
			StatusLabel:      st.Label(),
			Theme:            st.Theme(),
			BudgetTotal:      budget.FormatAmount(budget.Total(prop.BudgetSources())),
			Closed:           st.IsTerminal(),
		})
	}
	return out, nil
}

// Get finds one proposal in the listing of a scope
func (s *proposalServiceImpl) Get(ctx context.Context, p *Principal, scope port.ProposalScope, id int64) (*entity.Proposal, error) {
	proposals, err := s.fetch(ctx, p, port.ProposalQuery{Scope: scope})
	if err != nil {
		return nil, err
	}
	for i := range proposals {
		if proposals[i].ID == id {
			return &proposals[i], nil
		}
	}
	return nil, fmt.Errorf("proposal %d: %w", id, ErrNotFound)
}

// Budget aggregates the budget of one proposal
func (s *proposalServiceImpl) Budget(ctx context.Context, p *Principal, scope port.ProposalScope, id int64) (*budget.Summary, error) {
	prop, err := s.Get(ctx, p, scope, id)
	if err != nil {
		return nil, err
	}
	summary := budget.Summarize(prop.BudgetSources())
	return &summary, nil
}

// ExportBudget renders the budget of one proposal, returning the file and
// its content type
func (s *proposalServiceImpl) ExportBudget(ctx context.Context, p *Principal, scope port.ProposalScope, id int64) ([]byte, string, error) {
	prop, err := s.Get(ctx, p, scope, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.exporter.Export(ctx, prop)
	if err != nil {
		s.logger.Error("Failed to export budget", "proposal_id", id, "error", err)
		return nil, "", err
	}
	return data, s.exporter.ContentType(), nil
}

// Feedback returns revision and rejection notes and the document versions.
// Summaries the backend does not have are left empty.
func (s *proposalServiceImpl) Feedback(ctx context.Context, p *Principal, id int64) (*Feedback, error) {
	if id <= 0 {
		return nil, validationError("proposal id is required")
	}
	prop, err := s.Get(ctx, p, "", id)
	if err != nil {
		return nil, err
	}

	fb := &Feedback{Versions: []entity.ProposalVersion{}}
	switch prop.NormalizedStatus() {
	case status.ProposalRevisionRequired, status.ProposalRevisionFunding:
		if fb.Revision, err = p.API.RevisionSummary(ctx, id); err != nil {
			return nil, err
		}
	case status.ProposalRejected, status.ProposalRejectedFunding:
		if fb.Rejection, err = p.API.RejectionSummary(ctx, id); err != nil {
			return nil, err
		}
	}

	versions, err := p.API.Versions(ctx, id)
	if err != nil {
		return nil, err
	}
	if versions != nil {
		fb.Versions = versions
	}
	return fb, nil
}

// Evaluations returns the scores evaluators submitted on one proposal. The
// backend lists every evaluation visible to the session, so the list is
// cached per user and filtered here.
func (s *proposalServiceImpl) Evaluations(ctx context.Context, p *Principal, id int64) ([]entity.EvaluationScore, error) {
	if id <= 0 {
		return nil, validationError("proposal id is required")
	}
	all, err := cached(ctx, s.cache, s.cacheTTL, s.logger, NamespaceProposals, []string{p.UserID(), "evaluations"},
		func(ctx context.Context) ([]entity.EvaluationScore, error) {
			return p.API.EvaluationScores(ctx)
		})
	if err != nil {
		s.logger.Error("Failed to fetch evaluation scores", "user_id", p.UserID(), "error", err)
		return nil, err
	}

	out := []entity.EvaluationScore{}
	for _, e := range all {
		if e.Proposal.ID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// upload inspects a document and puts it to a presigned slot, returning
// the file url to reference in the submission
func (s *proposalServiceImpl) upload(ctx context.Context, p *Principal, doc Document) (string, error) {
	info, err := s.inspector.Inspect(ctx, doc.Filename, doc.Content)
	if err != nil {
		return "", validationError("%s: %v", doc.Filename, err)
	}

	target, err := p.API.RequestUploadURL(ctx, doc.Filename, info.ContentType, info.Size)
	if err != nil {
		s.logger.Error("Failed to get upload url", "filename", doc.Filename, "error", err)
		return "", err
	}
	if err := p.API.Upload(ctx, target, info.ContentType, bytes.NewReader(doc.Content), info.Size); err != nil {
		s.logger.Error("Failed to upload document", "filename", doc.Filename, "error", err)
		return "", err
	}
	return target.FileURL, nil
}

// Create validates a new proposal, uploads its document and submits it
func (s *proposalServiceImpl) Create(ctx context.Context, p *Principal, req *port.CreateProposalRequest, doc Document) (*port.CreateProposalResult, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	fileURL, err := s.upload(ctx, p, doc)
	if err != nil {
		return nil, err
	}
	req.FileURL = fileURL

	result, err := p.API.CreateProposal(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create proposal", "user_id", p.UserID(), "title", req.ProjectTitle, "error", err)
		return nil, err
	}

	var proposalID int64
	if result.ProposalID != "" {
		proposalID, _ = strconv.ParseInt(result.ProposalID, 10, 64)
	}
	s.recorder.record(ctx, event.NewEvent(event.TypeProposalSubmitted, p.UserID(), proposalID, map[string]interface{}{
		"title":    req.ProjectTitle,
		"file_url": fileURL,
	}), NamespaceProposals)

	s.logger.Info("Proposal submitted", "user_id", p.UserID(), "proposal_id", proposalID)
	return result, nil
}

// SubmitRevision uploads a revised document and resubmits the proposal
func (s *proposalServiceImpl) SubmitRevision(ctx context.Context, p *Principal, req *port.RevisedProposalRequest, doc Document) (*port.RevisedProposalResult, error) {
	if err := validateRevised(req); err != nil {
		return nil, err
	}

	fileURL, err := s.upload(ctx, p, doc)
	if err != nil {
		return nil, err
	}
	req.FileURL = fileURL

	result, err := p.API.SubmitRevised(ctx, req)
	if err != nil {
		s.logger.Error("Failed to submit revision", "proposal_id", req.ProposalID, "error", err)
		return nil, err
	}

	evt := event.NewEvent(event.TypeProposalRevised, p.UserID(), req.ProposalID, map[string]interface{}{"file_url": fileURL})
	if result.Data != nil {
		evt = evt.WithPayload("version_number", result.Data.VersionNumber)
	}
	s.recorder.record(ctx, evt, NamespaceProposals, NamespaceTracker)
	return result, nil
}

// ForwardToRnD hands a proposal to R&D staff
func (s *proposalServiceImpl) ForwardToRnD(ctx context.Context, p *Principal, proposalID int64, rndIDs []string) error {
	if proposalID <= 0 {
		return validationError("proposal_id is required")
	}
	if len(rndIDs) == 0 {
		return validationError("at least one R&D staff member is required")
	}
	if err := p.API.ForwardToRnD(ctx, proposalID, rndIDs); err != nil {
		s.logger.Error("Failed to forward to R&D", "proposal_id", proposalID, "error", err)
		return err
	}
	s.recorder.record(ctx, event.NewEvent(event.TypeForwardedToRnD, p.UserID(), proposalID, map[string]interface{}{
		"rnd_ids": rndIDs,
	}), NamespaceProposals)
	return nil
}

// ForwardToEvaluators assigns evaluators with a deadline in days
func (s *proposalServiceImpl) ForwardToEvaluators(ctx context.Context, p *Principal, req *port.ForwardToEvaluatorsRequest) error {
	if err := validateForwardToEvaluators(req); err != nil {
		return err
	}
	if err := p.API.ForwardToEvaluators(ctx, req); err != nil {
		s.logger.Error("Failed to forward to evaluators", "proposal_id", req.ProposalID, "error", err)
		return err
	}

	ids := make([]string, 0, len(req.Evaluators))
	for _, ev := range req.Evaluators {
		ids = append(ids, ev.ID)
	}
	s.recorder.record(ctx, event.NewEvent(event.TypeForwardedToEvaluators, p.UserID(), req.ProposalID, map[string]interface{}{
		"evaluator_ids": ids,
		"deadline_days": req.DeadlineDays,
	}), NamespaceProposals, NamespaceTracker)
	return nil
}

// RequestRevision sends a proposal back to its proponent
func (s *proposalServiceImpl) RequestRevision(ctx context.Context, p *Principal, req *port.RevisionRequest) error {
	if err := validateRevisionRequest(req); err != nil {
		return err
	}
	if err := p.API.RequestRevision(ctx, req); err != nil {
		s.logger.Error("Failed to request revision", "proposal_id", req.ProposalID, "error", err)
		return err
	}
	s.recorder.record(ctx, event.NewEvent(event.TypeRevisionRequested, p.UserID(), req.ProposalID, map[string]interface{}{
		"deadline_days": req.DeadlineDays,
	}), NamespaceProposals)
	return nil
}

// Reject rejects a proposal
func (s *proposalServiceImpl) Reject(ctx context.Context, p *Principal, proposalID int64, comment string) error {
	if proposalID <= 0 {
		return validationError("proposal_id is required")
	}
	if tooLong(comment, MaxCommentLength) {
		return validationError("comment must be at most %d characters", MaxCommentLength)
	}
	if err := p.API.RejectProposal(ctx, proposalID, comment); err != nil {
		s.logger.Error("Failed to reject proposal", "proposal_id", proposalID, "error", err)
		return err
	}
	s.recorder.record(ctx, event.NewEvent(event.TypeProposalRejected, p.UserID(), proposalID, nil), NamespaceProposals)
	return nil
}

// Endorse records a funding endorsement decision by the session user
func (s *proposalServiceImpl) Endorse(ctx context.Context, p *Principal, req *port.EndorseRequest) error {
	if req.RnDID == "" {
		req.RnDID = p.UserID()
	}
	if err := validateEndorse(req); err != nil {
		return err
	}
	if err := p.API.Endorse(ctx, req); err != nil {
		s.logger.Error("Failed to endorse proposal", "proposal_id", req.ProposalID, "error", err)
		return err
	}
	s.recorder.record(ctx, event.NewEvent(event.TypeProposalEndorsed, p.UserID(), req.ProposalID, map[string]interface{}{
		"decision": req.Decision,
	}), NamespaceProposals)
	return nil
}
