package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/application/service"
)

// multipart form fields of proposal submissions
const (
	formFile     = "file"
	formProposal = "proposal"
	formRevision = "revision"
)

var errUploadTooLarge = errors.New("upload too large")

// ListProposals handles GET /api/proposals?scope=&search=&status=
func (h *Handlers) ListProposals(c *gin.Context) {
	q := port.ProposalQuery{
		Scope:  port.ProposalScope(c.Query("scope")),
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	proposals, err := h.services.Proposals.List(c.Request.Context(), principal(c), q)
	if err != nil {
		h.respondError(c, "list proposals", err)
		return
	}
	ok(c, proposals)
}

// GetProposal handles GET /api/proposals/:id
func (h *Handlers) GetProposal(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	prop, err := h.services.Proposals.Get(c.Request.Context(), principal(c), port.ProposalScope(c.Query("scope")), id)
	if err != nil {
		h.respondError(c, "get proposal", err)
		return
	}
	ok(c, prop)
}

// Budget handles GET /api/proposals/:id/budget
func (h *Handlers) Budget(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	summary, err := h.services.Proposals.Budget(c.Request.Context(), principal(c), port.ProposalScope(c.Query("scope")), id)
	if err != nil {
		h.respondError(c, "budget", err)
		return
	}
	ok(c, summary)
}

// BudgetWorkbook handles GET /api/proposals/:id/budget.xlsx
func (h *Handlers) BudgetWorkbook(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	data, contentType, err := h.services.Proposals.ExportBudget(c.Request.Context(), principal(c), port.ProposalScope(c.Query("scope")), id)
	if err != nil {
		h.respondError(c, "export budget", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="proposal-%d-budget.xlsx"`, id))
	c.Data(http.StatusOK, contentType, data)
}

// Feedback handles GET /api/proposals/:id/feedback
func (h *Handlers) Feedback(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	fb, err := h.services.Proposals.Feedback(c.Request.Context(), principal(c), id)
	if err != nil {
		h.respondError(c, "feedback", err)
		return
	}
	ok(c, fb)
}

// Evaluations handles GET /api/proposals/:id/evaluations
func (h *Handlers) Evaluations(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	scores, err := h.services.Proposals.Evaluations(c.Request.Context(), principal(c), id)
	if err != nil {
		h.respondError(c, "evaluations", err)
		return
	}
	ok(c, scores)
}

// readSubmission reads the document and the JSON metadata field of a
// multipart submission. A missing metadata field leaves meta untouched.
func (h *Handlers) readSubmission(c *gin.Context, field string, meta interface{}) (service.Document, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, header, err := c.Request.FormFile(formFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Document{}, errUploadTooLarge
		}
		return service.Document{}, fmt.Errorf("%w: a %q file is required", service.ErrValidation, formFile)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return service.Document{}, fmt.Errorf("read upload: %w", err)
	}

	if raw := c.Request.FormValue(field); raw != "" {
		if err := json.Unmarshal([]byte(raw), meta); err != nil {
			return service.Document{}, fmt.Errorf("%w: %q is not valid JSON", service.ErrValidation, field)
		}
	}
	return service.Document{Filename: header.Filename, Content: content}, nil
}

func (h *Handlers) submissionError(c *gin.Context, action string, err error) {
	if errors.Is(err, errUploadTooLarge) {
		h.logger.Info("Upload rejected", "action", action, "limit", h.maxUpload)
		fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.maxUpload))
		return
	}
	h.respondError(c, action, err)
}

// CreateProposal handles multipart POST /api/proposals
func (h *Handlers) CreateProposal(c *gin.Context) {
	var req port.CreateProposalRequest
	doc, err := h.readSubmission(c, formProposal, &req)
	if err != nil {
		h.submissionError(c, "create proposal", err)
		return
	}

	result, err := h.services.Proposals.Create(c.Request.Context(), principal(c), &req, doc)
	if err != nil {
		h.respondError(c, "create proposal", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// SubmitRevision handles multipart POST /api/proposals/:id/revisions
func (h *Handlers) SubmitRevision(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	var req port.RevisedProposalRequest
	doc, err := h.readSubmission(c, formRevision, &req)
	if err != nil {
		h.submissionError(c, "submit revision", err)
		return
	}
	req.ProposalID = id

	result, err := h.services.Proposals.SubmitRevision(c.Request.Context(), principal(c), &req, doc)
	if err != nil {
		h.respondError(c, "submit revision", err)
		return
	}
	ok(c, result)
}

// ForwardToRnD handles POST /api/proposals/:id/forward-rnd
func (h *Handlers) ForwardToRnD(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	var req struct {
		RnDIDs []string `json:"rnd_ids"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.services.Proposals.ForwardToRnD(c.Request.Context(), principal(c), id, req.RnDIDs); err != nil {
		h.respondError(c, "forward to R&D", err)
		return
	}
	ok(c, gin.H{"message": "forwarded to R&D"})
}

// ForwardToEvaluators handles POST /api/proposals/:id/forward-evaluators
func (h *Handlers) ForwardToEvaluators(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	var req port.ForwardToEvaluatorsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ProposalID = id
	if err := h.services.Proposals.ForwardToEvaluators(c.Request.Context(), principal(c), &req); err != nil {
		h.respondError(c, "forward to evaluators", err)
		return
	}
	ok(c, gin.H{"message": "forwarded to evaluators", "deadline_days": req.DeadlineDays})
}

// RequestRevision handles POST /api/proposals/:id/revision
func (h *Handlers) RequestRevision(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	var req port.RevisionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ProposalID = id
	if err := h.services.Proposals.RequestRevision(c.Request.Context(), principal(c), &req); err != nil {
		h.respondError(c, "request revision", err)
		return
	}
	ok(c, gin.H{"message": "revision requested", "deadline_days": req.DeadlineDays})
}

// Reject handles POST /api/proposals/:id/reject
func (h *Handlers) Reject(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	var req struct {
		Comment string `json:"comment"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.services.Proposals.Reject(c.Request.Context(), principal(c), id, req.Comment); err != nil {
		h.respondError(c, "reject proposal", err)
		return
	}
	ok(c, gin.H{"message": "proposal rejected"})
}

// Endorse handles POST /api/proposals/:id/endorse
func (h *Handlers) Endorse(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	var req port.EndorseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ProposalID = id
	if err := h.services.Proposals.Endorse(c.Request.Context(), principal(c), &req); err != nil {
		h.respondError(c, "endorse proposal", err)
		return
	}
	ok(c, gin.H{"message": "endorsement recorded", "decision": req.Decision})
}
