package event

// Type identifies an activity event
type Type string

const (
	TypeSessionLogin          Type = "session.login"
	TypeSessionLogout         Type = "session.logout"
	TypePasswordChanged       Type = "session.password_changed"
	TypeProposalSubmitted     Type = "proposal.submitted"
	TypeProposalRevised       Type = "proposal.revised"
	TypeForwardedToRnD        Type = "proposal.forwarded_rnd"
	TypeForwardedToEvaluators Type = "proposal.forwarded_evaluators"
	TypeRevisionRequested     Type = "proposal.revision_requested"
	TypeProposalRejected      Type = "proposal.rejected"
	TypeProposalEndorsed      Type = "proposal.endorsed"
	TypeAssignmentDecided     Type = "assignment.decided"
	TypeEvaluationSubmitted   Type = "assignment.evaluated"
	TypeExtensionApproved     Type = "assignment.extension_approved"
	TypeExtensionDenied       Type = "assignment.extension_denied"
	TypeEvaluatorRemoved      Type = "assignment.evaluator_removed"
	TypeAssignmentOverdue     Type = "assignment.overdue"
)

var validTypes = map[Type]bool{
	TypeSessionLogin:          true,
	TypeSessionLogout:         true,
	TypePasswordChanged:       true,
	TypeProposalSubmitted:     true,
	TypeProposalRevised:       true,
	TypeForwardedToRnD:        true,
	TypeForwardedToEvaluators: true,
	TypeRevisionRequested:     true,
	TypeProposalRejected:      true,
	TypeProposalEndorsed:      true,
	TypeAssignmentDecided:     true,
	TypeEvaluationSubmitted:   true,
	TypeExtensionApproved:     true,
	TypeExtensionDenied:       true,
	TypeEvaluatorRemoved:      true,
	TypeAssignmentOverdue:     true,
}

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	return validTypes[t]
}

// IsMutation reports whether the event follows a write to the backend
func (t Type) IsMutation() bool {
	switch t {
	case TypeSessionLogin, TypeSessionLogout, TypeAssignmentOverdue:
		return false
	}
	return t.IsValid()
}
