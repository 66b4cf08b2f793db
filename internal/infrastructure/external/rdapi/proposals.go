package rdapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// trackerConcurrency bounds the per-proposal tracker requests in flight
const trackerConcurrency = 4

var lookupTables = map[string]bool{
	port.LookupDepartment: true,
	port.LookupDiscipline: true,
	port.LookupSector:     true,
	port.LookupTag:        true,
	port.LookupPriority:   true,
	port.LookupStation:    true,
	port.LookupCommodity:  true,
}

func proposalQuery(proposalID int64) url.Values {
	return url.Values{"proposal_id": {strconv.FormatInt(proposalID, 10)}}
}

// Lookup fetches one reference table
func (c *Client) Lookup(ctx context.Context, table string) ([]entity.Ref, error) {
	if !lookupTables[table] {
		return nil, fmt.Errorf("unknown lookup table %q", table)
	}
	var out []entity.Ref
	if err := c.get(ctx, "/proposal/lookup/"+table, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Agencies fetches implementing or cooperating agencies
func (c *Client) Agencies(ctx context.Context, cooperating bool) ([]entity.Agency, error) {
	path := "/proposal/lookup/agency"
	if cooperating {
		path = "/proposal/lookup/cooperating-agency"
	}
	var out []entity.Agency
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UsersByRole lists accounts holding a role, optionally in one department
func (c *Client) UsersByRole(ctx context.Context, role string, departmentID int64) ([]entity.Account, error) {
	q := url.Values{"role": {role}}
	if departmentID > 0 {
		q.Set("department_id", strconv.FormatInt(departmentID, 10))
	}
	var out []entity.Account
	if err := c.get(ctx, "/proposal/view-users-by-role", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProposals fetches the proposals visible to the session in a scope
func (c *Client) ListProposals(ctx context.Context, q port.ProposalQuery) ([]entity.Proposal, error) {
	var path string
	query := url.Values{}
	switch q.Scope {
	case port.ScopeProponent, "":
		path = "/proposal/view"
	case port.ScopeEvaluator:
		path = "/proposal/view-evaluator"
	case port.ScopeRnD:
		path = "/proposal/view-rnd"
	case port.ScopeEndorsement:
		path = "/proposal/view-for-endorsement"
	default:
		return nil, fmt.Errorf("unknown proposal scope %q", q.Scope)
	}
	if path == "/proposal/view" || path == "/proposal/view-evaluator" {
		if q.Search != "" {
			query.Set("search", q.Search)
		}
		if q.Status != "" {
			query.Set("status", q.Status)
		}
	}

	var out []entity.Proposal
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignmentTracker fetches the tracker rows of one proposal. With a zero
// proposalID it reads the tracker of every proposal in the R&D listing;
// the backend only serves the tracker per proposal.
func (c *Client) AssignmentTracker(ctx context.Context, proposalID int64) ([]entity.AssignmentRecord, error) {
	if proposalID > 0 {
		return c.proposalTracker(ctx, proposalID)
	}

	proposals, err := c.ListProposals(ctx, port.ProposalQuery{Scope: port.ScopeRnD})
	if err != nil {
		return nil, err
	}

	perProposal := make([][]entity.AssignmentRecord, len(proposals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(trackerConcurrency)
	for i, p := range proposals {
		i, p := i, p
		g.Go(func() error {
			rows, err := c.proposalTracker(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("tracker of proposal %d: %w", p.ID, err)
			}
			perProposal[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []entity.AssignmentRecord{}
	for _, rows := range perProposal {
		out = append(out, rows...)
	}
	return out, nil
}

func (c *Client) proposalTracker(ctx context.Context, proposalID int64) ([]entity.AssignmentRecord, error) {
	var out []entity.AssignmentRecord
	if err := c.get(ctx, "/proposal/assignment-tracker", proposalQuery(proposalID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RevisionSummary fetches the latest revision request of a proposal
func (c *Client) RevisionSummary(ctx context.Context, proposalID int64) (*entity.RevisionSummary, error) {
	var out entity.RevisionSummary
	if err := c.get(ctx, "/proposal/revision-summary", proposalQuery(proposalID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectionSummary fetches the rejection notice of a proposal
func (c *Client) RejectionSummary(ctx context.Context, proposalID int64) (*entity.RejectionSummary, error) {
	var out entity.RejectionSummary
	if err := c.get(ctx, "/proposal/rejection-summary", proposalQuery(proposalID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Versions lists the uploaded document versions of a proposal
func (c *Client) Versions(ctx context.Context, proposalID int64) ([]entity.ProposalVersion, error) {
	var out struct {
		Versions []entity.ProposalVersion `json:"versions"`
	}
	if err := c.get(ctx, "/proposal/versions", proposalQuery(proposalID), &out); err != nil {
		return nil, err
	}
	return out.Versions, nil
}
