package status

import "strings"

// Proposal is the normalized workflow stage of a proposal
type Proposal string

const (
	ProposalPending            Proposal = "pending"
	ProposalUnderRnDReview     Proposal = "review_rnd"
	ProposalForReview          Proposal = "for_review"
	ProposalUnderEvaluation    Proposal = "under_evaluation"
	ProposalRevisionRequired   Proposal = "revision_rnd"
	ProposalRejected           Proposal = "rejected_rnd"
	ProposalEndorsedForFunding Proposal = "endorsed_for_funding"
	ProposalFunded             Proposal = "funded"
	ProposalRevisionFunding    Proposal = "revision_funding"
	ProposalRejectedFunding    Proposal = "rejected_funding"
	ProposalUnknown            Proposal = "unknown"
)

var proposalInfos = map[Proposal]assignmentInfo{
	ProposalPending:            {"Pending", Theme{ColorAmber, IconClock}},
	ProposalUnderRnDReview:     {"Under R&D Review", Theme{ColorBlue, IconFileText}},
	ProposalForReview:          {"For Review", Theme{ColorBlue, IconSend}},
	ProposalUnderEvaluation:    {"Under Evaluation", Theme{ColorPurple, IconClock}},
	ProposalRevisionRequired:   {"Revision Required", Theme{ColorOrange, IconAlertTriangle}},
	ProposalRejected:           {"Rejected", Theme{ColorRed, IconXCircle}},
	ProposalEndorsedForFunding: {"Endorsed for Funding", Theme{ColorIndigo, IconSend}},
	ProposalFunded:             {"Funded", Theme{ColorEmerald, IconAward}},
	ProposalRevisionFunding:    {"Revision Required (Funding)", Theme{ColorOrange, IconAlertTriangle}},
	ProposalRejectedFunding:    {"Rejected (Funding)", Theme{ColorRed, IconXCircle}},
	ProposalUnknown:            {"Unknown", FallbackTheme},
}

// exact matches first, then substring rules in order
var proposalSubstringRules = []struct {
	substr string
	result Proposal
}{
	{"fund", ProposalFunded},
	{"endorse", ProposalEndorsedForFunding},
	{"revision", ProposalRevisionRequired},
	{"reject", ProposalRejected},
	{"evaluat", ProposalUnderEvaluation},
	{"review", ProposalUnderRnDReview},
	{"pending", ProposalPending},
}

// NormalizeProposal maps a raw backend proposal status onto the closed
// Proposal set. review_rnd, for_review and under_evaluation stay distinct.
func NormalizeProposal(raw string) Proposal {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ProposalUnknown
	}

	candidate := Proposal(key)
	if _, ok := proposalInfos[candidate]; ok && candidate != ProposalUnknown {
		return candidate
	}

	// display labels coming back from older clients
	for p, info := range proposalInfos {
		if key == strings.ToLower(info.label) && p != ProposalUnknown {
			return p
		}
	}

	for _, rule := range proposalSubstringRules {
		if strings.Contains(key, rule.substr) {
			return rule.result
		}
	}

	return ProposalUnknown
}

// String returns the normalized value
func (p Proposal) String() string {
	return string(p)
}

// IsValid reports whether p belongs to the known enumeration
func (p Proposal) IsValid() bool {
	_, ok := proposalInfos[p]
	return ok && p != ProposalUnknown
}

// IsTerminal reports whether the backend will not move the proposal further
func (p Proposal) IsTerminal() bool {
	return p == ProposalFunded || p == ProposalRejected || p == ProposalRejectedFunding
}

// Label returns the display label
func (p Proposal) Label() string {
	if info, ok := proposalInfos[p]; ok {
		return info.label
	}
	return proposalInfos[ProposalUnknown].label
}

// Theme returns the presentation token
func (p Proposal) Theme() Theme {
	if info, ok := proposalInfos[p]; ok {
		return info.theme
	}
	return FallbackTheme
}
