package rdapi

import (
	"context"
	"net/http"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// CreateProposal submits a new proposal whose document is already uploaded
func (c *Client) CreateProposal(ctx context.Context, req *port.CreateProposalRequest) (*port.CreateProposalResult, error) {
	var out port.CreateProposalResult
	if err := c.post(ctx, "/proposal/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitRevised resubmits a proposal after a revision request
func (c *Client) SubmitRevised(ctx context.Context, req *port.RevisedProposalRequest) (*port.RevisedProposalResult, error) {
	var out port.RevisedProposalResult
	if err := c.post(ctx, "/proposal/submit-revised", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForwardToRnD hands a proposal to R&D staff
func (c *Client) ForwardToRnD(ctx context.Context, proposalID int64, rndIDs []string) error {
	body := struct {
		ProposalID int64    `json:"proposal_id"`
		RnDIDs     []string `json:"rnd_id"`
	}{proposalID, rndIDs}
	return c.post(ctx, "/proposal/forward-proposal-to-rnd", body, nil)
}

// ForwardToEvaluators assigns evaluators to a proposal
func (c *Client) ForwardToEvaluators(ctx context.Context, req *port.ForwardToEvaluatorsRequest) error {
	return c.post(ctx, "/proposal/forward-proposal-to-evaluators", req, nil)
}

// RequestRevision sends a proposal back to its proponent
func (c *Client) RequestRevision(ctx context.Context, req *port.RevisionRequest) error {
	return c.post(ctx, "/proposal/revision-proposal-to-proponent", req, nil)
}

// RejectProposal rejects a proposal with an optional comment
func (c *Client) RejectProposal(ctx context.Context, proposalID int64, comment string) error {
	body := struct {
		ProposalID int64  `json:"proposal_id"`
		Comment    string `json:"comment,omitempty"`
	}{proposalID, comment}
	return c.post(ctx, "/proposal/reject-proposal-to-proponent", body, nil)
}

// Endorse records a funding endorsement decision
func (c *Client) Endorse(ctx context.Context, req *port.EndorseRequest) error {
	return c.post(ctx, "/proposal/endorse-for-funding", req, nil)
}

// DecideAssignment sends an evaluator's accept, decline or extend decision
func (c *Client) DecideAssignment(ctx context.Context, req *port.EvaluatorDecision) error {
	return c.post(ctx, "/proposal/decision-evaluator-to-proposal", req, nil)
}

// SubmitEvaluation sends an evaluator's scores
func (c *Client) SubmitEvaluation(ctx context.Context, req *port.EvaluationScores) error {
	return c.post(ctx, "/proposal/create-evaluation-scores-to-proposal", req, nil)
}

// EvaluationScores lists the submitted evaluations visible to the session
func (c *Client) EvaluationScores(ctx context.Context) ([]entity.EvaluationScore, error) {
	var out []entity.EvaluationScore
	if err := c.get(ctx, "/proposal/get-evaluation-scores-from-proposal", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HandleExtension approves or denies an extension request
func (c *Client) HandleExtension(ctx context.Context, req *port.ExtensionDecision) error {
	return c.post(ctx, "/proposal/handle-extension-request", req, nil)
}

// RemoveEvaluator unassigns an evaluator from a proposal
func (c *Client) RemoveEvaluator(ctx context.Context, proposalID int64, evaluatorID string) error {
	body := struct {
		ProposalID  int64  `json:"proposal_id"`
		EvaluatorID string `json:"evaluator_id"`
	}{proposalID, evaluatorID}
	return c.do(ctx, http.MethodDelete, "/proposal/evaluator", nil, body, nil)
}
