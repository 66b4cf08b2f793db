package http

import (
	"context"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/application/service"
	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/budget"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

type fakeSessions struct {
	service.SessionService

	loginFunc   func(email, password string) (*service.Principal, error)
	resumeFunc  func(id string) (*service.Principal, error)
	logoutFunc  func(p *service.Principal) error
	refreshed   int
	loggedOut   int
	newPassword string
}

func (f *fakeSessions) Login(_ context.Context, email, password string) (*service.Principal, error) {
	return f.loginFunc(email, password)
}

func (f *fakeSessions) Resume(_ context.Context, id string) (*service.Principal, error) {
	return f.resumeFunc(id)
}

func (f *fakeSessions) Refresh(context.Context, *service.Principal) error {
	f.refreshed++
	return nil
}

func (f *fakeSessions) Logout(_ context.Context, p *service.Principal) error {
	f.loggedOut++
	if f.logoutFunc != nil {
		return f.logoutFunc(p)
	}
	return nil
}

func (f *fakeSessions) ChangePassword(_ context.Context, _ *service.Principal, pw string) error {
	f.newPassword = pw
	return nil
}

type fakeProposals struct {
	service.ProposalService

	listFunc    func(q port.ProposalQuery) ([]service.ProposalSummary, error)
	createFunc  func(req *port.CreateProposalRequest, doc service.Document) (*port.CreateProposalResult, error)
	forwardFunc func(req *port.ForwardToEvaluatorsRequest) error
	exportFunc  func(id int64) ([]byte, string, error)
	budgetFunc  func(id int64) (*budget.Summary, error)
	evalFunc    func(id int64) ([]entity.EvaluationScore, error)
}

func (f *fakeProposals) Evaluations(_ context.Context, _ *service.Principal, id int64) ([]entity.EvaluationScore, error) {
	return f.evalFunc(id)
}

func (f *fakeProposals) List(_ context.Context, _ *service.Principal, q port.ProposalQuery) ([]service.ProposalSummary, error) {
	return f.listFunc(q)
}

func (f *fakeProposals) Create(_ context.Context, _ *service.Principal, req *port.CreateProposalRequest, doc service.Document) (*port.CreateProposalResult, error) {
	return f.createFunc(req, doc)
}

func (f *fakeProposals) ForwardToEvaluators(_ context.Context, _ *service.Principal, req *port.ForwardToEvaluatorsRequest) error {
	return f.forwardFunc(req)
}

func (f *fakeProposals) ExportBudget(_ context.Context, _ *service.Principal, _ port.ProposalScope, id int64) ([]byte, string, error) {
	return f.exportFunc(id)
}

func (f *fakeProposals) Budget(_ context.Context, _ *service.Principal, _ port.ProposalScope, id int64) (*budget.Summary, error) {
	return f.budgetFunc(id)
}

type fakeTracker struct {
	service.TrackerService

	listFunc      func(q service.TrackerQuery) (*assignment.Page, error)
	extensionFunc func(req *port.ExtensionDecision) error
}

func (f *fakeTracker) List(_ context.Context, _ *service.Principal, q service.TrackerQuery) (*assignment.Page, error) {
	return f.listFunc(q)
}

func (f *fakeTracker) HandleExtension(_ context.Context, _ *service.Principal, req *port.ExtensionDecision) error {
	return f.extensionFunc(req)
}
