package service

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
)

// mockAPI embeds the interface so tests only stub what they call
type mockAPI struct {
	port.ProposalAPI

	mu    sync.Mutex
	calls []string

	loginFunc            func(email, password string) error
	verifyTokenFunc      func() (*entity.User, error)
	logoutFunc           func() error
	cookies              []entity.Cookie
	listProposalsFunc    func(q port.ProposalQuery) ([]entity.Proposal, error)
	trackerFunc          func(proposalID int64) ([]entity.AssignmentRecord, error)
	lookupFunc           func(table string) ([]entity.Ref, error)
	agenciesFunc         func(cooperating bool) ([]entity.Agency, error)
	requestUploadURLFunc func(filename, contentType string, size int64) (*port.UploadTarget, error)
	uploadFunc           func(target *port.UploadTarget, body []byte) error
	createFunc           func(req *port.CreateProposalRequest) (*port.CreateProposalResult, error)
	forwardEvalFunc      func(req *port.ForwardToEvaluatorsRequest) error
	handleExtensionFunc  func(req *port.ExtensionDecision) error
	decideFunc           func(req *port.EvaluatorDecision) error
	revisionSummaryFunc  func(id int64) (*entity.RevisionSummary, error)
	evaluationScoresFunc func() ([]entity.EvaluationScore, error)
}

func (m *mockAPI) called(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockAPI) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockAPI) Login(_ context.Context, email, password string) error {
	m.called("Login")
	if m.loginFunc != nil {
		return m.loginFunc(email, password)
	}
	return nil
}

func (m *mockAPI) VerifyToken(context.Context) (*entity.User, error) {
	m.called("VerifyToken")
	if m.verifyTokenFunc != nil {
		return m.verifyTokenFunc()
	}
	return &entity.User{ID: "u-1", Email: "ana@example.edu", Roles: []string{entity.RoleRnD}}, nil
}

func (m *mockAPI) Logout(context.Context) error {
	m.called("Logout")
	if m.logoutFunc != nil {
		return m.logoutFunc()
	}
	return nil
}

func (m *mockAPI) ChangePassword(context.Context, string) error {
	m.called("ChangePassword")
	return nil
}

func (m *mockAPI) Cookies() []entity.Cookie {
	return m.cookies
}

func (m *mockAPI) ListProposals(_ context.Context, q port.ProposalQuery) ([]entity.Proposal, error) {
	m.called("ListProposals")
	if m.listProposalsFunc != nil {
		return m.listProposalsFunc(q)
	}
	return nil, nil
}

func (m *mockAPI) AssignmentTracker(_ context.Context, proposalID int64) ([]entity.AssignmentRecord, error) {
	m.called("AssignmentTracker")
	if m.trackerFunc != nil {
		return m.trackerFunc(proposalID)
	}
	return nil, nil
}

func (m *mockAPI) Lookup(_ context.Context, table string) ([]entity.Ref, error) {
	m.called("Lookup")
	if m.lookupFunc != nil {
		return m.lookupFunc(table)
	}
	return []entity.Ref{{ID: 1, Name: table}}, nil
}

func (m *mockAPI) Agencies(_ context.Context, cooperating bool) ([]entity.Agency, error) {
	m.called("Agencies")
	if m.agenciesFunc != nil {
		return m.agenciesFunc(cooperating)
	}
	return []entity.Agency{{ID: 1, Name: "DOST"}}, nil
}

func (m *mockAPI) UsersByRole(_ context.Context, role string, _ int64) ([]entity.Account, error) {
	m.called("UsersByRole")
	return []entity.Account{{ID: "x", FirstName: role}}, nil
}

func (m *mockAPI) EvaluationScores(context.Context) ([]entity.EvaluationScore, error) {
	m.called("EvaluationScores")
	if m.evaluationScoresFunc == nil {
		return nil, nil
	}
	return m.evaluationScoresFunc()
}

func (m *mockAPI) RevisionSummary(_ context.Context, id int64) (*entity.RevisionSummary, error) {
	m.called("RevisionSummary")
	if m.revisionSummaryFunc != nil {
		return m.revisionSummaryFunc(id)
	}
	return &entity.RevisionSummary{ProposalID: id}, nil
}

func (m *mockAPI) RejectionSummary(_ context.Context, id int64) (*entity.RejectionSummary, error) {
	m.called("RejectionSummary")
	return &entity.RejectionSummary{ProposalID: id}, nil
}

func (m *mockAPI) Versions(context.Context, int64) ([]entity.ProposalVersion, error) {
	m.called("Versions")
	return nil, nil
}

func (m *mockAPI) RequestUploadURL(_ context.Context, filename, contentType string, size int64) (*port.UploadTarget, error) {
	m.called("RequestUploadURL")
	if m.requestUploadURLFunc != nil {
		return m.requestUploadURLFunc(filename, contentType, size)
	}
	return &port.UploadTarget{UploadURL: "https://s3.example/put", FileURL: "https://files.example/" + filename}, nil
}

func (m *mockAPI) Upload(_ context.Context, target *port.UploadTarget, _ string, body io.Reader, _ int64) error {
	m.called("Upload")
	data, _ := io.ReadAll(body)
	if m.uploadFunc != nil {
		return m.uploadFunc(target, data)
	}
	return nil
}

func (m *mockAPI) CreateProposal(_ context.Context, req *port.CreateProposalRequest) (*port.CreateProposalResult, error) {
	m.called("CreateProposal")
	if m.createFunc != nil {
		return m.createFunc(req)
	}
	return &port.CreateProposalResult{Message: "created", ProposalID: "42"}, nil
}

func (m *mockAPI) SubmitRevised(context.Context, *port.RevisedProposalRequest) (*port.RevisedProposalResult, error) {
	m.called("SubmitRevised")
	return &port.RevisedProposalResult{Message: "ok"}, nil
}

func (m *mockAPI) ForwardToRnD(context.Context, int64, []string) error {
	m.called("ForwardToRnD")
	return nil
}

func (m *mockAPI) ForwardToEvaluators(_ context.Context, req *port.ForwardToEvaluatorsRequest) error {
	m.called("ForwardToEvaluators")
	if m.forwardEvalFunc != nil {
		return m.forwardEvalFunc(req)
	}
	return nil
}

func (m *mockAPI) RequestRevision(context.Context, *port.RevisionRequest) error {
	m.called("RequestRevision")
	return nil
}

func (m *mockAPI) RejectProposal(context.Context, int64, string) error {
	m.called("RejectProposal")
	return nil
}

func (m *mockAPI) Endorse(context.Context, *port.EndorseRequest) error {
	m.called("Endorse")
	return nil
}

func (m *mockAPI) DecideAssignment(_ context.Context, req *port.EvaluatorDecision) error {
	m.called("DecideAssignment")
	if m.decideFunc != nil {
		return m.decideFunc(req)
	}
	return nil
}

func (m *mockAPI) SubmitEvaluation(context.Context, *port.EvaluationScores) error {
	m.called("SubmitEvaluation")
	return nil
}

func (m *mockAPI) HandleExtension(_ context.Context, req *port.ExtensionDecision) error {
	m.called("HandleExtension")
	if m.handleExtensionFunc != nil {
		return m.handleExtensionFunc(req)
	}
	return nil
}

func (m *mockAPI) RemoveEvaluator(context.Context, int64, string) error {
	m.called("RemoveEvaluator")
	return nil
}

type mockFactory struct {
	api     *mockAPI
	cookies [][]entity.Cookie
}

func (f *mockFactory) New(cookies []entity.Cookie) (port.ProposalAPI, error) {
	f.cookies = append(f.cookies, cookies)
	return f.api, nil
}

type mockSessionRepo struct {
	sessions map[string]*entity.Session
	deleted  []string
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, s *entity.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepo) UpdateCookies(_ context.Context, id string, cookies []entity.Cookie) error {
	s, ok := m.sessions[id]
	if !ok {
		return port.ErrNotFound
	}
	s.Cookies = cookies
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	if _, ok := m.sessions[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

type mockActivityRepo struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockActivityRepo) Create(_ context.Context, e *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *mockActivityRepo) ListByActor(_ context.Context, actorID string, limit int) ([]*event.Event, error) {
	var out []*event.Event
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].ActorID == actorID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

func (m *mockActivityRepo) ListByProposal(_ context.Context, proposalID int64) ([]*event.Event, error) {
	var out []*event.Event
	for _, e := range m.events {
		if e.ProposalID == proposalID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockActivityRepo) Exists(context.Context, event.Type, int64, time.Time) (bool, error) {
	return false, nil
}

func (m *mockActivityRepo) types() []event.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]event.Type, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// memoryCache mirrors the generation-key behaviour of the Redis cache
type memoryCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	generations map[string]int
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte), generations: make(map[string]int)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[namespace]++
	c.invalidated = append(c.invalidated, namespace)
	return nil
}

func (c *memoryCache) Key(_ context.Context, namespace string, parts ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return namespace + ":" + strconv.Itoa(c.generations[namespace]) + ":" + strings.Join(parts, ":"), nil
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockInspector struct {
	err error
}

func (m *mockInspector) Inspect(_ context.Context, _ string, content []byte) (*port.DocumentInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &port.DocumentInfo{ContentType: "application/pdf", Size: int64(len(content)), Pages: 1}, nil
}

type mockExporter struct{}

func (mockExporter) Export(_ context.Context, p *entity.Proposal) ([]byte, error) {
	return []byte(p.ProjectTitle), nil
}

func (mockExporter) ContentType() string { return "application/test" }

func principal(api *mockAPI, roles ...string) *Principal {
	if len(roles) == 0 {
		roles = []string{entity.RoleRnD}
	}
	return &Principal{
		Session: &entity.Session{ID: "s-1", User: entity.User{ID: "u-1", Roles: roles}},
		API:     api,
	}
}
