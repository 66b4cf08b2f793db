package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/application/service"
	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

// AssignmentQuery are the query parameters of GET /api/assignments
type AssignmentQuery struct {
	ProposalID int64  `form:"proposal_id"`
	Search     string `form:"search"`
	Status     string `form:"status"`
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
}

// ListAssignments handles GET /api/assignments
func (h *Handlers) ListAssignments(c *gin.Context) {
	var q AssignmentQuery
	if !h.bindQuery(c, &q) {
		return
	}

	filter := assignment.Filter{Search: q.Search}
	if q.Status != "" {
		st, known := status.ParseAssignment(q.Status)
		if !known {
			h.respondError(c, "list assignments", fmt.Errorf("%w: unknown status %q", service.ErrValidation, q.Status))
			return
		}
		filter.Status = st
	}

	page, err := h.services.Tracker.List(c.Request.Context(), principal(c), service.TrackerQuery{
		ProposalID: q.ProposalID,
		Filter:     filter,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.respondError(c, "list assignments", err)
		return
	}
	ok(c, page)
}

// AssignmentStats handles GET /api/assignments/stats
func (h *Handlers) AssignmentStats(c *gin.Context) {
	var q AssignmentQuery
	if !h.bindQuery(c, &q) {
		return
	}
	stats, err := h.services.Tracker.Stats(c.Request.Context(), principal(c), q.ProposalID)
	if err != nil {
		h.respondError(c, "assignment stats", err)
		return
	}
	ok(c, stats)
}

// HandleExtension handles POST /api/assignments/:id/extension
func (h *Handlers) HandleExtension(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	var req port.ExtensionDecision
	if !h.bindJSON(c, &req) {
		return
	}
	req.ProposalID = id
	if err := h.services.Tracker.HandleExtension(c.Request.Context(), principal(c), &req); err != nil {
		h.respondError(c, "handle extension", err)
		return
	}
	ok(c, gin.H{"message": "extension " + req.Action})
}

// RemoveEvaluator handles DELETE /api/assignments/:id/evaluators/:evaluatorId
func (h *Handlers) RemoveEvaluator(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	if err := h.services.Tracker.RemoveEvaluator(c.Request.Context(), principal(c), id, c.Param("evaluatorId")); err != nil {
		h.respondError(c, "remove evaluator", err)
		return
	}
	ok(c, gin.H{"message": "evaluator removed"})
}

// Decide handles POST /api/evaluator/decisions
func (h *Handlers) Decide(c *gin.Context) {
	var req port.EvaluatorDecision
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.services.Evaluator.Decide(c.Request.Context(), principal(c), &req); err != nil {
		h.respondError(c, "evaluator decision", err)
		return
	}
	ok(c, gin.H{"message": "decision recorded", "status": req.Status})
}

// SubmitEvaluation handles POST /api/evaluator/evaluations
func (h *Handlers) SubmitEvaluation(c *gin.Context) {
	var req port.EvaluationScores
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.services.Evaluator.SubmitEvaluation(c.Request.Context(), principal(c), &req); err != nil {
		h.respondError(c, "submit evaluation", err)
		return
	}
	ok(c, gin.H{"message": "evaluation submitted"})
}
