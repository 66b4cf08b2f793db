package workflow

import "strings"

// Trigger is an action that moves an assignment between states
type Trigger string

const (
	TriggerAccept           Trigger = "ACCEPT"
	TriggerDecline          Trigger = "DECLINE"
	TriggerRequestExtension Trigger = "REQUEST_EXTENSION"
	TriggerApproveExtension Trigger = "APPROVE_EXTENSION"
	TriggerDenyExtension    Trigger = "DENY_EXTENSION"
	TriggerComplete         Trigger = "COMPLETE"
)

// TriggerForDecision maps an evaluator decision as sent to the backend
// (accept, decline, extend) onto a trigger.
func TriggerForDecision(decision string) (Trigger, bool) {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case "accept":
		return TriggerAccept, true
	case "decline":
		return TriggerDecline, true
	case "extend":
		return TriggerRequestExtension, true
	}
	return "", false
}

// TriggerForExtensionAction maps an extension review action (approved,
// denied) onto a trigger.
func TriggerForExtensionAction(action string) (Trigger, bool) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approved":
		return TriggerApproveExtension, true
	case "denied":
		return TriggerDenyExtension, true
	}
	return "", false
}

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
