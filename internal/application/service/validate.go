package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/budget"
	"github.com/garyjia/proposal-tracker/pkg/utils"
)

// Limits enforced by the backend, checked locally first
const (
	MaxTitleLength      = 256
	MaxCommentLength    = 2000
	DefaultDeadlineDays = 14
	MaxDeadlineDays     = 90
	MinEvaluationScore  = 1
	MaxEvaluationScore  = 5
)

const (
	dateLayout = "2006-01-02"

	classResearch    = "research_class"
	classDevelopment = "development_class"
	modeSingleAgency = "single_agency"
	modeMultiAgency  = "multi_agency"

	endorsementEndorsed = "endorsed"
	endorsementRevised  = "revised"
	endorsementRejected = "rejected"

	evaluationApprove = "approve"
	evaluationRevise  = "revise"
	evaluationReject  = "reject"

	defaultVisibility = "both"
)

var visibilities = map[string]bool{
	"name":            true,
	"agency":          true,
	defaultVisibility: true,
	"none":            true,
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, validationError("%s must be a date (YYYY-MM-DD)", field)
	}
	return t, nil
}

func checkPlan(start, end string, required bool) error {
	if start == "" && end == "" && !required {
		return nil
	}
	from, err := parseDate("plan_start_date", start)
	if err != nil {
		return err
	}
	to, err := parseDate("plan_end_date", end)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return validationError("plan_end_date is before plan_start_date")
	}
	return nil
}

func checkBudget(sources []budget.PayloadSource) error {
	if err := budget.ValidatePayload(sources); err != nil {
		return validationError("budget: %v", err)
	}
	return nil
}

func validateCreate(req *port.CreateProposalRequest) error {
	req.ProjectTitle = utils.SanitizeString(req.ProjectTitle)
	switch {
	case req.ProjectTitle == "":
		return validationError("project_title is required")
	case tooLong(req.ProjectTitle, MaxTitleLength), tooLong(req.ProgramTitle, MaxTitleLength):
		return validationError("titles must be at most %d characters", MaxTitleLength)
	case req.Sector == "", req.Discipline == "", req.Agency == "":
		return validationError("sector, discipline and agency are required")
	case strings.TrimSpace(req.AgencyAddress.City) == "":
		return validationError("agency_address.city is required")
	case req.ClassificationType != classResearch && req.ClassificationType != classDevelopment:
		return validationError("classification_type must be %s or %s", classResearch, classDevelopment)
	case req.ImplementationMode != modeSingleAgency && req.ImplementationMode != modeMultiAgency:
		return validationError("implementation_mode must be %s or %s", modeSingleAgency, modeMultiAgency)
	case req.DurationMonths < 0:
		return validationError("duration cannot be negative")
	}

	for i, site := range req.ImplementationSite {
		if tooLong(site.SiteName, MaxTitleLength) || tooLong(site.City, MaxTitleLength) {
			return validationError("implementation_site[%d] is too long", i)
		}
	}
	if err := checkPlan(req.PlanStartDate, req.PlanEndDate, true); err != nil {
		return err
	}
	return checkBudget(req.Budget)
}

func validateRevised(req *port.RevisedProposalRequest) error {
	switch {
	case req.ProposalID <= 0:
		return validationError("proposal_id is required")
	case tooLong(req.ProjectTitle, MaxTitleLength):
		return validationError("project_title must be at most %d characters", MaxTitleLength)
	case tooLong(req.RevisionResponse, MaxCommentLength):
		return validationError("revision_response must be at most %d characters", MaxCommentLength)
	}
	if err := checkPlan(req.PlanStartDate, req.PlanEndDate, false); err != nil {
		return err
	}
	if len(req.Budget) > 0 {
		return checkBudget(req.Budget)
	}
	return nil
}

func validateForwardToEvaluators(req *port.ForwardToEvaluatorsRequest) error {
	if req.ProposalID <= 0 {
		return validationError("proposal_id is required")
	}
	if len(req.Evaluators) == 0 {
		return validationError("at least one evaluator is required")
	}
	if req.DeadlineDays == 0 {
		req.DeadlineDays = DefaultDeadlineDays
	}
	if req.DeadlineDays < 1 || req.DeadlineDays > MaxDeadlineDays {
		return validationError("deadline must be between 1 and %d days", MaxDeadlineDays)
	}
	if tooLong(req.Comments, MaxCommentLength) {
		return validationError("comments must be at most %d characters", MaxCommentLength)
	}

	seen := make(map[string]bool, len(req.Evaluators))
	for i := range req.Evaluators {
		ev := &req.Evaluators[i]
		if ev.ID == "" {
			return validationError("evaluators[%d].id is required", i)
		}
		if seen[ev.ID] {
			return validationError("evaluator %s is listed twice", ev.ID)
		}
		seen[ev.ID] = true
		if ev.Visibility == "" {
			ev.Visibility = defaultVisibility
		}
		if !visibilities[ev.Visibility] {
			return validationError("evaluators[%d].visibility must be name, agency, both or none", i)
		}
	}
	return nil
}

func validateRevisionRequest(req *port.RevisionRequest) error {
	if req.ProposalID <= 0 {
		return validationError("proposal_id is required")
	}
	comments := []string{req.ObjectiveComment, req.MethodologyComment, req.BudgetComment, req.TimelineComment, req.OverallComment}
	hasComment := false
	for _, c := range comments {
		if tooLong(c, MaxCommentLength) {
			return validationError("comments must be at most %d characters", MaxCommentLength)
		}
		if strings.TrimSpace(c) != "" {
			hasComment = true
		}
	}
	if !hasComment {
		return validationError("at least one comment is required")
	}
	if req.DeadlineDays == 0 {
		req.DeadlineDays = DefaultDeadlineDays
	}
	if req.DeadlineDays < 1 || req.DeadlineDays > MaxDeadlineDays {
		return validationError("deadline must be between 1 and %d days", MaxDeadlineDays)
	}
	return nil
}

func validateEndorse(req *port.EndorseRequest) error {
	if req.ProposalID <= 0 {
		return validationError("proposal_id is required")
	}
	switch req.Decision {
	case endorsementEndorsed, endorsementRevised, endorsementRejected:
	default:
		return validationError("decision must be endorsed, revised or rejected")
	}
	if tooLong(req.Remarks, MaxCommentLength) {
		return validationError("remarks must be at most %d characters", MaxCommentLength)
	}
	return nil
}

func validateScores(req *port.EvaluationScores) error {
	if req.ProposalID <= 0 {
		return validationError("proposal_id is required")
	}
	switch req.Status {
	case evaluationApprove, evaluationRevise, evaluationReject:
	default:
		return validationError("status must be approve, revise or reject")
	}
	scores := map[string]int{
		"objective":   req.Objective,
		"methodology": req.Methodology,
		"budget":      req.Budget,
		"timeline":    req.Timeline,
	}
	for name, v := range scores {
		if v < MinEvaluationScore || v > MaxEvaluationScore {
			return validationError("%s score must be between %d and %d", name, MinEvaluationScore, MaxEvaluationScore)
		}
	}
	if tooLong(req.Comment, MaxCommentLength) {
		return validationError("comment must be at most %d characters", MaxCommentLength)
	}
	return nil
}
